package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "amzn1.application-oa2-client.0123456789abcdef0123456789abcdef"
	testClientSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	testAccessToken  = "Atza|access"
	testRefreshToken = "Atzr|refresh"
)

func validConfig() *Config {
	return &Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Region:       RegionNA,
		AccessToken:  testAccessToken,
	}
}

func validConfigMap() map[string]any {
	return map[string]any{
		KeyClientID:     testClientID,
		KeyClientSecret: testClientSecret,
		KeyRegion:       RegionNA,
		KeyAccessToken:  testAccessToken,
		KeyRefreshToken: testRefreshToken,
		KeySandbox:      false,
	}
}

type recordedRequest struct {
	Method   string
	Path     string
	RawPath  string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// apiServer records every request and answers with handler.
type apiServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newAPIServer(t *testing.T, handler http.HandlerFunc) *apiServer {
	t.Helper()

	s := &apiServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawPath:  r.URL.EscapedPath(),
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		s.mu.Unlock()

		if handler == nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) Requests() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func (s *apiServer) Last(t *testing.T) recordedRequest {
	t.Helper()
	reqs := s.Requests()
	require.NotEmpty(t, reqs, "no request reached the server")
	return reqs[len(reqs)-1]
}

func newTestClient(t *testing.T, srv *apiServer, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{
		WithBaseURL(srv.URL + "/" + APIVersion),
		WithTokenURL(srv.URL + "/auth/o2/token"),
		WithLogger(zerolog.Nop()),
	}, opts...)

	c, err := New(context.Background(), validConfig(), opts...)
	require.NoError(t, err)
	return c
}
