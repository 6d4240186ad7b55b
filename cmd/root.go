// Package cmd defines the CLI commands for the ads tool.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/aviadshiber/adsapi/internal/iostreams"
	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// versionInfo is set by main via SetVersionInfo.
	versionInfo struct {
		version string
		commit  string
		date    string
	}

	// Global flag values bound to viper.
	cfgRegion    string
	cfgSandbox   bool
	cfgProfileID string
	cfgQuiet     bool
	cfgJSON      string
	cfgJQ        string
	cfgTemplate  string

	io *iostreams.IOStreams
)

// SetVersionInfo stores build metadata for the version command.
func SetVersionInfo(version, commit, date string) {
	versionInfo.version = version
	versionInfo.commit = commit
	versionInfo.date = date
}

var rootCmd = &cobra.Command{
	Use:   "ads",
	Short: "Amazon Advertising CLI - manage Sponsored Products campaigns, bids, and reports",
	Long: `ads is a command-line tool for the Amazon Advertising (Sponsored Products) API.

It manages profiles, campaigns, ad groups, keywords, negative keywords and
product ads, fetches bid recommendations and keyword suggestions, and requests
and downloads reports and snapshots. Output can be formatted as JSON, tables,
CSV, or filtered with jq expressions and Go templates.

Configuration is stored in ~/.config/adsapi/config.yaml and can be overridden
with flags, environment variables (ADS_CLIENT_ID, ADS_CLIENT_SECRET,
ADS_REFRESH_TOKEN, ADS_ACCESS_TOKEN, ADS_REGION, ADS_PROFILE_ID, ADS_SANDBOX)
or a .env file in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		getIO().SetQuiet(viper.GetBool("quiet"))

		if isDebug() {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}

		region := viper.GetString("region")
		if region != "" && !client.ValidRegion(region) {
			return fmt.Errorf("invalid region %q; must be one of: %s", region, strings.Join(client.RegionCodes(), ", "))
		}
		return nil
	},
}

func init() {
	// A .env file only fills variables that are not already set.
	_ = godotenv.Load()

	// Load config file into global viper.
	home, _ := os.UserHomeDir()
	if home != "" {
		viper.SetConfigFile(filepath.Join(home, ".config", "adsapi", "config.yaml"))
		viper.SetConfigType("yaml")
		_ = viper.ReadInConfig() // Ignore error if file doesn't exist yet.
	}

	// Bind env vars before flag parsing.
	viper.SetEnvPrefix("ADS")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Persistent flags available to all subcommands.
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgRegion, "region", "r", "", "API region: na, eu (env: ADS_REGION)")
	pf.BoolVar(&cfgSandbox, "sandbox", false, "Use the sandbox API host (env: ADS_SANDBOX)")
	pf.StringVarP(&cfgProfileID, "profile-id", "p", "", "Advertising profile ID sent as the API scope (env: ADS_PROFILE_ID)")
	pf.BoolVarP(&cfgQuiet, "quiet", "q", false, "Suppress non-essential output (env: ADS_QUIET)")
	pf.StringVar(&cfgJSON, "json", "", "Output JSON; optionally comma-separated field list")
	pf.StringVar(&cfgJQ, "jq", "", "Filter JSON output with a jq expression (requires --json)")
	pf.StringVar(&cfgTemplate, "template", "", "Format output with a Go template (requires --json)")

	// Allow --json to be used without a value (e.g., "ads campaigns list --json").
	pf.Lookup("json").NoOptDefVal = " "

	// Bind flags to viper keys so env vars and config file values also work.
	_ = viper.BindPFlag("region", pf.Lookup("region"))
	_ = viper.BindPFlag("sandbox", pf.Lookup("sandbox"))
	_ = viper.BindPFlag("profile_id", pf.Lookup("profile-id"))
	_ = viper.BindPFlag("quiet", pf.Lookup("quiet"))

	// Register subcommands.
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// Execute runs the root command. Called from main.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error in red to stderr.
		s := iostreams.New()
		fmt.Fprintln(s.ErrOut, s.Failure("Error: "+err.Error()))
		return err
	}
	return nil
}

// getIO returns the current IOStreams instance, initializing if needed.
func getIO() *iostreams.IOStreams {
	if io == nil {
		io = iostreams.New()
	}
	return io
}

// isDebug reports whether debug mode is enabled via ADS_DEBUG env var.
func isDebug() bool {
	return os.Getenv("ADS_DEBUG") == "1"
}

// jsonOutputRequested reports whether the --json flag was explicitly set.
func jsonOutputRequested(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("json")
}
