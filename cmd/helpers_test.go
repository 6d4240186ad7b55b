package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aviadshiber/adsapi/internal/iostreams"
	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTestIO swaps the package IOStreams for in-memory buffers.
func useTestIO(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	s, out, errOut := iostreams.Test()
	prev := io
	io = s
	t.Cleanup(func() { io = prev })
	return out, errOut
}

// setViper sets keys for the duration of a test.
func setViper(t *testing.T, kv map[string]any) {
	t.Helper()
	for k, v := range kv {
		viper.Set(k, v)
	}
	t.Cleanup(func() {
		for k := range kv {
			viper.Set(k, "")
		}
	})
}

// outputCmd is a bare command carrying the global output flags.
func outputCmd() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().String("json", "", "")
	c.Flags().String("jq", "", "")
	c.Flags().String("template", "", "")
	c.Flags().Bool("csv", false, "")
	c.Flags().Lookup("json").NoOptDefVal = " "
	return c
}

func TestParseFilters(t *testing.T) {
	f, err := parseFilters([]string{"stateFilter=enabled,paused", "count=10", "name=a=b"})
	require.NoError(t, err)
	assert.Equal(t, client.Filters{"stateFilter": "enabled,paused", "count": "10", "name": "a=b"}, f)

	f, err = parseFilters(nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = parseFilters([]string{"stateFilter"})
	assert.ErrorContains(t, err, "expected key=value")

	_, err = parseFilters([]string{"=x"})
	assert.Error(t, err)
}

func TestReadPayload(t *testing.T) {
	payload, err := readPayload(`[{"name":"a"}]`)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"a"}]`, string(payload))

	path := filepath.Join(t.TempDir(), "campaigns.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"campaignId":1}]`), 0o600))
	payload, err = readPayload("@" + path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"campaignId":1}]`, string(payload))

	_, err = readPayload("@" + filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "reading `--data`")

	_, err = readPayload("{not json")
	assert.ErrorContains(t, err, "not valid JSON")

	_, err = readPayload("")
	assert.ErrorContains(t, err, "required")
}

func TestReadPayloadFromStdin(t *testing.T) {
	useTestIO(t)
	io.In = bytes.NewBufferString(`{"asins":["B00EXAMPLE"]}`)

	payload, err := readPayload("-")
	require.NoError(t, err)
	assert.JSONEq(t, `{"asins":["B00EXAMPLE"]}`, string(payload))
}

func TestRenderResponseTable(t *testing.T) {
	out, _ := useTestIO(t)
	resp := &client.Response{StatusCode: http.StatusOK, Body: []byte(`[{"campaignId":1,"name":"a","state":"enabled"}]`)}

	require.NoError(t, renderResponse(outputCmd(), resp, []string{"campaignId", "name", "state"}))
	assert.Equal(t, "campaignId\tname\tstate\n1\ta\tenabled\n", out.String())
}

func TestRenderResponseCSV(t *testing.T) {
	out, _ := useTestIO(t)
	c := outputCmd()
	require.NoError(t, c.Flags().Set("csv", "true"))
	resp := &client.Response{StatusCode: http.StatusOK, Body: []byte(`[{"keywordId":3,"keywordText":"red, shoes"}]`)}

	require.NoError(t, renderResponse(c, resp, nil))
	assert.Equal(t, "keywordId,keywordText\n3,\"red, shoes\"\n", out.String())
}

func TestRenderResponseJSONFieldsAndJQ(t *testing.T) {
	body := []byte(`[{"campaignId":144390013217187,"name":"a","state":"enabled"}]`)

	out, _ := useTestIO(t)
	c := outputCmd()
	require.NoError(t, c.Flags().Set("json", "campaignId,state"))
	require.NoError(t, renderResponse(c, &client.Response{Body: body}, nil))
	assert.JSONEq(t, `[{"campaignId":144390013217187,"state":"enabled"}]`, out.String())

	out, _ = useTestIO(t)
	c = outputCmd()
	require.NoError(t, c.Flags().Set("json", " "))
	require.NoError(t, c.Flags().Set("jq", ".[].campaignId"))
	require.NoError(t, renderResponse(c, &client.Response{Body: body}, nil))
	assert.Equal(t, "144390013217187\n", out.String())
}

func TestRenderResponseEmpty(t *testing.T) {
	out, _ := useTestIO(t)
	require.NoError(t, renderResponse(outputCmd(), &client.Response{StatusCode: http.StatusOK, Body: []byte(`[]`)}, nil))
	assert.Equal(t, "No results found.\n", out.String())

	out, _ = useTestIO(t)
	require.NoError(t, renderResponse(outputCmd(), &client.Response{StatusCode: http.StatusNoContent}, nil))
	assert.Equal(t, "Done (HTTP 204)\n", out.String())
}

func TestWriteDownloadJSONL(t *testing.T) {
	out, _ := useTestIO(t)
	resp := &client.Response{Body: []byte(`[{"campaignId":1,"impressions":10},{"campaignId":2,"impressions":0}]`)}

	require.NoError(t, writeDownload(outputCmd(), resp, ""))
	assert.Equal(t, "{\"campaignId\":1,\"impressions\":10}\n{\"campaignId\":2,\"impressions\":0}\n", out.String())
}

func TestWriteDownloadToFile(t *testing.T) {
	_, errOut := useTestIO(t)
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, writeDownload(outputCmd(), &client.Response{Body: []byte(`[]`)}, path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.Contains(t, errOut.String(), "Wrote 2 bytes")
}

func TestRequireProfileID(t *testing.T) {
	setViper(t, map[string]any{"profile_id": ""})
	_, err := requireProfileID()
	assert.ErrorContains(t, err, "--profile-id")

	setViper(t, map[string]any{"profile_id": "42"})
	pid, err := requireProfileID()
	require.NoError(t, err)
	assert.Equal(t, "42", pid)
}

func TestNewClientReportsConfigErrors(t *testing.T) {
	setViper(t, map[string]any{"client_id": "", "client_secret": "x", "region": "na"})

	_, err := newClient(context.Background())
	var cerr *client.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "ads config set")
}

func TestCampaignsListCommand(t *testing.T) {
	var gotScope, gotAuth, gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotScope = r.Header.Get(client.HeaderScope)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"campaignId":1,"name":"a","state":"enabled","dailyBudget":10.5}]`))
	}))
	t.Cleanup(srv.Close)

	setViper(t, map[string]any{
		"client_id":     "amzn1.application-oa2-client.0123456789abcdef0123456789abcdef",
		"client_secret": "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		"access_token":  "Atza|access",
		"refresh_token": "",
		"region":        "na",
		"profile_id":    "42",
		"base_url":      srv.URL + "/v1",
	})
	out, _ := useTestIO(t)

	rootCmd.SetArgs([]string{"campaigns", "list", "--filter", "stateFilter=enabled"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Equal(t, "/v1/campaigns", gotPath)
	assert.Equal(t, "stateFilter=enabled", gotQuery)
	assert.Equal(t, "42", gotScope)
	assert.Equal(t, "Bearer Atza|access", gotAuth)
	assert.Equal(t,
		"campaignId\tname\tcampaignType\ttargetingType\tstate\tdailyBudget\tstartDate\n"+
			"1\ta\t\t\tenabled\t10.5\t\n",
		out.String())
}

func TestGerundAndCapitalize(t *testing.T) {
	assert.Equal(t, "archiving", gerund("archive"))
	assert.Equal(t, "creating", gerund("create"))
	assert.Equal(t, "Remove", capitalize("remove"))
}
