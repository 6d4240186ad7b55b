package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNilConfig(t *testing.T) {
	c, err := New(context.Background(), nil, WithLogger(zerolog.Nop()))
	assert.Nil(t, c)
	requireConfigError(t, err, "", "null config")

	c, err = NewFromMap(context.Background(), nil, WithLogger(zerolog.Nop()))
	assert.Nil(t, c)
	requireConfigError(t, err, "", "null config")
}

func TestNewFromMapUnknownKey(t *testing.T) {
	m := validConfigMap()
	m["timeout"] = 1000

	c, err := NewFromMap(context.Background(), m, WithLogger(zerolog.Nop()))
	assert.Nil(t, c)
	requireConfigError(t, err, "timeout", "unknown parameter `timeout`")
}

func TestNewLogsConstructionErrors(t *testing.T) {
	var buf bytes.Buffer
	cfg := validConfig()
	cfg.Region = "NA"

	_, err := New(context.Background(), cfg, WithLogger(zerolog.New(&buf)))
	requireConfigError(t, err, "region", "invalid region")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "invalid region")
}

func TestNewResolvesEndpoint(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, validConfig(), WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	assert.Equal(t, "https://advertising-api.amazon.com/v1", c.BaseURL())
	assert.Equal(t, "https://advertising-api.amazon.com/v1", c.Endpoint().BaseURL)
	assert.Equal(t, "https://api.amazon.com/auth/o2/token", c.tokenEndpoint())
	assert.Equal(t, testAccessToken, c.AccessToken())

	cfg := validConfig()
	cfg.Sandbox = true
	c, err = New(ctx, cfg, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	assert.Equal(t, "https://advertising-api-test.amazon.com/v1", c.BaseURL())
}

func TestNewWithoutTokensMakesNoRequest(t *testing.T) {
	srv := newAPIServer(t, nil)
	cfg := validConfig()
	cfg.AccessToken = ""

	c, err := New(context.Background(), cfg,
		WithBaseURL(srv.URL+"/v1"),
		WithTokenURL(srv.URL+"/auth/o2/token"),
		WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	assert.Empty(t, c.AccessToken())
	assert.Empty(t, srv.Requests())
}

func TestDefaultHeaders(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)

	_, err := c.Profiles.List(context.Background())
	require.NoError(t, err)

	req := srv.Last(t)
	assert.Equal(t, DefaultUserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "Bearer "+testAccessToken, req.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get(HeaderScope))
}

func TestWithUserAgent(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv, WithUserAgent("ads-cli/test"))

	_, err := c.Profiles.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ads-cli/test", srv.Last(t).Header.Get("User-Agent"))
}

func TestSetAccessToken(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)
	ctx := context.Background()

	assert.Same(t, c, c.SetAccessToken("X"))
	assert.Equal(t, "X", c.AccessToken())
	assert.Equal(t, "X", c.Config().AccessToken)

	_, err := c.Campaigns.List(ctx, nil)
	require.NoError(t, err)
	_, err = c.AdGroups.Get(ctx, "7")
	require.NoError(t, err)

	for _, req := range srv.Requests() {
		assert.Equal(t, "Bearer X", req.Header.Get("Authorization"), req.Path)
	}
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv).SetAccessToken("")

	_, err := c.Campaigns.List(context.Background(), nil)
	require.NoError(t, err)
	_, ok := srv.Last(t).Header["Authorization"]
	assert.False(t, ok)
}

func TestSetProfileIDScopesEveryRequest(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)
	ctx := context.Background()

	assert.Same(t, c, c.SetProfileID("1234567890"))
	assert.Equal(t, "1234567890", c.ProfileID())

	_, err := c.Campaigns.List(ctx, nil)
	require.NoError(t, err)
	_, err = c.Keywords.Create(ctx, []map[string]any{{"keywordText": "shoes"}})
	require.NoError(t, err)

	for _, req := range srv.Requests() {
		assert.Equal(t, "1234567890", req.Header.Get(HeaderScope), req.Path)
	}

	c.SetProfileID("")
	_, err = c.Campaigns.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, srv.Last(t).Header.Get(HeaderScope))
}

func TestSetBaseURL(t *testing.T) {
	first := newAPIServer(t, nil)
	second := newAPIServer(t, nil)
	c := newTestClient(t, first)

	assert.Same(t, c, c.SetBaseURL(second.URL+"/v2"))
	assert.Equal(t, second.URL+"/v2", c.BaseURL())

	_, err := c.Campaigns.Get(context.Background(), "9")
	require.NoError(t, err)
	assert.Empty(t, first.Requests())
	assert.Equal(t, "/v2/campaigns/9", second.Last(t).Path)
}

func TestHTTPErrorSurfacesUnmodified(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-amz-request-id", "REQ123")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"UNAUTHORIZED","details":"Not authorized"}`))
	})
	c := newTestClient(t, srv)

	resp, err := c.Campaigns.Get(context.Background(), "1")
	assert.Nil(t, resp)

	var herr *HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusUnauthorized, herr.StatusCode)
	assert.Equal(t, http.MethodGet, herr.Method)
	assert.Equal(t, "REQ123", herr.RequestID)
	assert.JSONEq(t, `{"code":"UNAUTHORIZED","details":"Not authorized"}`, string(herr.Body))
	assert.Contains(t, herr.Error(), "HTTP 401")
	assert.Len(t, srv.Requests(), 1)
}

func TestTransportError(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv, WithTimeout(time.Second))
	srv.Close()

	_, err := c.Campaigns.List(context.Background(), nil)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.MethodGet, terr.Method)
	assert.NotNil(t, errors.Unwrap(terr))
}

func TestContextCancellation(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Campaigns.List(ctx, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyIDIsRejectedBeforeSending(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)

	_, err := c.Campaigns.Archive(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyPathParam)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.MethodDelete, terr.Method)
	assert.Empty(t, srv.Requests())
}

func TestResponseHelpers(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("x-amz-request-id", "abc")
		_, _ = w.Write([]byte(`[{"campaignId":11,"name":"Spring","state":"enabled"}]`))
	})
	c := newTestClient(t, srv)

	resp, err := c.Campaigns.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc", resp.RequestID)
	assert.Equal(t, int64(11), resp.Get("0.campaignId").Int())

	var campaigns []struct {
		CampaignID int64  `json:"campaignId"`
		Name       string `json:"name"`
	}
	require.NoError(t, resp.Decode(&campaigns))
	require.Len(t, campaigns, 1)
	assert.Equal(t, "Spring", campaigns[0].Name)

	var bad int
	assert.Error(t, resp.Decode(&bad))
}
