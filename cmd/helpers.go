package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iolib "io"
	"os"
	"strings"

	"github.com/aviadshiber/adsapi/internal/output"
	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newClient creates an authenticated advertising API client from the current
// configuration state (viper config + env vars + .env + flags). When only a
// refresh token is configured the token exchange happens here.
func newClient(ctx context.Context) (*client.Client, error) {
	region := viper.GetString("region")
	if region == "" {
		region = client.RegionNA
	}

	m := map[string]any{
		client.KeyClientID:     viper.GetString("client_id"),
		client.KeyClientSecret: viper.GetString("client_secret"),
		client.KeyRegion:       region,
		client.KeySandbox:      viper.GetBool("sandbox"),
	}
	if tok := viper.GetString("access_token"); tok != "" {
		m[client.KeyAccessToken] = tok
	}
	if tok := viper.GetString("refresh_token"); tok != "" {
		m[client.KeyRefreshToken] = tok
	}

	// Execute already reports errors; library logs only show with ADS_DEBUG=1.
	logger := log.Logger
	if !isDebug() {
		logger = logger.Level(zerolog.Disabled)
	}

	opts := []client.Option{client.WithLogger(logger)}
	// Endpoint overrides are env-only (ADS_BASE_URL, ADS_TOKEN_URL).
	if u := viper.GetString("base_url"); u != "" {
		opts = append(opts, client.WithBaseURL(u))
	}
	if u := viper.GetString("token_url"); u != "" {
		opts = append(opts, client.WithTokenURL(u))
	}

	c, err := client.NewFromMap(ctx, m, opts...)
	if err != nil {
		return nil, withConfigHint(err)
	}
	return c.SetProfileID(viper.GetString("profile_id")), nil
}

// newScopedClient is newClient for commands that act within an advertising profile.
func newScopedClient(ctx context.Context) (*client.Client, error) {
	if _, err := requireProfileID(); err != nil {
		return nil, err
	}
	return newClient(ctx)
}

// withConfigHint points the user at `ads config set` for credential problems.
func withConfigHint(err error) error {
	var cerr *client.ConfigError
	if !errors.As(err, &cerr) {
		return err
	}
	return fmt.Errorf("%w; configure credentials with `ads config set <key> <value>` or ADS_* env vars", err)
}

// requireProfileID returns the configured profile ID or an error telling the
// user how to set it.
func requireProfileID() (string, error) {
	pid := viper.GetString("profile_id")
	if pid == "" {
		return "", fmt.Errorf("profile ID is required; set via `--profile-id`, `ADS_PROFILE_ID` env, or `ads config set profile_id <id>`")
	}
	return pid, nil
}

// readPayload returns the JSON request body given to --data: inline JSON,
// @path to read a file, or - to read stdin.
func readPayload(data string) (json.RawMessage, error) {
	if data == "" {
		return nil, fmt.Errorf("`--data` is required")
	}

	var (
		raw []byte
		err error
	)
	switch {
	case data == "-":
		raw, err = iolib.ReadAll(getIO().In)
	case strings.HasPrefix(data, "@"):
		raw, err = os.ReadFile(data[1:])
	default:
		raw = []byte(data)
	}
	if err != nil {
		return nil, fmt.Errorf("reading `--data`: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("`--data` is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// parseFilters turns repeated --filter key=value flags into query parameters.
func parseFilters(pairs []string) (client.Filters, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(client.Filters, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid filter %q; expected key=value", p)
		}
		filters[k] = v
	}
	return filters, nil
}

// handleJSONOutput processes a parsed JSON value through --jq or --template
// filters, or prints it as pretty JSON. It returns true if JSON output was
// handled (i.e., --json was requested), false otherwise.
func handleJSONOutput(cmd *cobra.Command, data any) (bool, error) {
	if !jsonOutputRequested(cmd) {
		return false, nil
	}

	s := getIO()

	fields, _ := cmd.Flags().GetString("json")
	jqExpr, _ := cmd.Flags().GetString("jq")
	tmpl, _ := cmd.Flags().GetString("template")

	data = output.FilterFields(data, splitCSV(fields))

	switch {
	case jqExpr != "":
		return true, output.ApplyJQ(s.Out, data, jqExpr)
	case tmpl != "":
		return true, output.ApplyTemplate(s.Out, data, tmpl)
	default:
		return true, output.PrintJSON(s.Out, data)
	}
}

// renderResponse prints an API response: JSON output when requested, otherwise
// a table of the returned objects. columns picks and orders table columns;
// nil shows every scalar field.
func renderResponse(cmd *cobra.Command, resp *client.Response, columns []string) error {
	data, err := output.ParseJSON(resp.Body)
	if err != nil {
		return err
	}

	handled, err := handleJSONOutput(cmd, data)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	s := getIO()
	if data == nil {
		s.Printf("%s (HTTP %d)\n", s.Success("Done"), resp.StatusCode)
		return nil
	}

	records, ok := output.Records(data)
	if !ok {
		return output.PrintJSON(s.Out, data)
	}
	if len(records) == 0 {
		s.Printf("No results found.\n")
		return nil
	}

	if csvRequested(cmd) {
		return output.PrintRecordsCSV(s.Out, records, columns)
	}
	headers, rows := output.Tabulate(records, columns)
	output.PrintTable(s.Out, headers, rows, s.IsTerminal())
	return nil
}

// csvRequested reports whether the command has a --csv flag that is set.
func csvRequested(cmd *cobra.Command) bool {
	if cmd.Flags().Lookup("csv") == nil {
		return false
	}
	v, _ := cmd.Flags().GetBool("csv")
	return v
}

// splitCSV splits a comma-separated string into trimmed, non-empty parts.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
