package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Version is the library version reported in the User-Agent header.
const Version = "1.0"

const (
	// DefaultTimeout bounds every request, including downloads.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the library to the API.
	DefaultUserAgent = "AdvertisingAPI Go Client Library v" + Version

	// HeaderScope carries the advertising profile ID.
	HeaderScope = "Amazon-Advertising-API-Scope"

	headerRequestID = "x-amz-request-id"
)

// Client is an authenticated HTTP client for the advertising API.
// Resource operations are grouped into services, e.g. c.Campaigns.List.
type Client struct {
	rc       *resty.Client
	cfg      Config
	endpoint Endpoint
	tokenURL string
	logger   zerolog.Logger

	mu          sync.RWMutex
	accessToken string
	profileID   string

	Profiles                 *ProfileService
	Campaigns                *ResourceService
	AdGroups                 *ResourceService
	Keywords                 *ResourceService
	NegativeKeywords         *ResourceService
	CampaignNegativeKeywords *CampaignNegativeKeywordService
	ProductAds               *ResourceService
}

type options struct {
	baseURL    string
	tokenURL   string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option customises a Client at construction.
type Option func(*options)

// WithBaseURL overrides the resolved API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithTokenURL overrides the token exchange URL. A value without a scheme is
// prefixed with https:// at call time.
func WithTokenURL(tokenURL string) Option {
	return func(o *options) {
		o.tokenURL = tokenURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithUserAgent replaces the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithLogger sets the logger used for construction diagnostics and debug-level
// request tracing. The global zerolog logger is used by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New validates cfg, resolves its region, and returns a ready Client. When cfg has a
// refresh token but no access token, one token exchange is performed before
// returning and its failure fails construction.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	o := options{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c, err := newClient(ctx, cfg, o)
	if err != nil {
		o.logger.Error().Err(err).Msg("creating advertising API client")
		return nil, err
	}
	return c, nil
}

// NewFromMap is New for the loosely typed configuration form; see ConfigFromMap.
func NewFromMap(ctx context.Context, m map[string]any, opts ...Option) (*Client, error) {
	cfg, err := ConfigFromMap(m)
	if err != nil {
		o := options{logger: log.Logger}
		for _, opt := range opts {
			opt(&o)
		}
		o.logger.Error().Err(err).Msg("creating advertising API client")
		return nil, err
	}
	return New(ctx, cfg, opts...)
}

func newClient(ctx context.Context, cfg *Config, o options) (*Client, error) {
	if cfg == nil {
		return nil, &ConfigError{Message: "null config"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := ResolveEndpoint(cfg.Region, cfg.Sandbox)
	if err != nil {
		return nil, err
	}

	baseURL := endpoint.BaseURL
	if o.baseURL != "" {
		baseURL = o.baseURL
	}
	tokenURL := endpoint.TokenURL
	if o.tokenURL != "" {
		tokenURL = o.tokenURL
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetLogger(restyLogger{o.logger}).
		SetTimeout(o.timeout).
		SetHeader("User-Agent", o.userAgent).
		SetHeader("Accept", "application/json")

	c := &Client{
		rc:          rc,
		cfg:         *cfg,
		endpoint:    endpoint,
		tokenURL:    tokenURL,
		logger:      o.logger,
		accessToken: cfg.AccessToken,
	}
	c.Profiles = &ProfileService{client: c}
	c.Campaigns = newResourceService(c, "campaigns")
	c.AdGroups = newResourceService(c, "adGroups")
	c.Keywords = newResourceService(c, "keywords")
	c.NegativeKeywords = newResourceService(c, "negativeKeywords")
	c.CampaignNegativeKeywords = &CampaignNegativeKeywordService{ResourceService: newResourceService(c, "campaignNegativeKeywords")}
	c.ProductAds = newResourceService(c, "productAds")

	masked := cfg.Masked()
	o.logger.Debug().
		Str("client_id", masked.ClientID).
		Str("region", masked.Region).
		Bool("sandbox", masked.Sandbox).
		Str("access_token", masked.AccessToken).
		Str("refresh_token", masked.RefreshToken).
		Str("base_url", baseURL).
		Msg("advertising API client configured")

	if cfg.AccessToken == "" && cfg.RefreshToken != "" {
		if _, err := c.RefreshToken(ctx); err != nil {
			return nil, fmt.Errorf("refreshing access token: %w", err)
		}
	}

	return c, nil
}

// SetAccessToken stores token; subsequent requests carry "Authorization: Bearer <token>".
func (c *Client) SetAccessToken(token string) *Client {
	c.mu.Lock()
	c.accessToken = token
	c.cfg.AccessToken = token
	c.mu.Unlock()
	return c
}

// SetProfileID scopes subsequent API requests to an advertising profile.
// An empty id removes the scope.
func (c *Client) SetProfileID(id string) *Client {
	c.mu.Lock()
	c.profileID = id
	c.mu.Unlock()
	return c
}

// SetBaseURL overrides the API base URL. It must not be called while requests are
// in flight.
func (c *Client) SetBaseURL(baseURL string) *Client {
	c.rc.SetBaseURL(baseURL)
	return c
}

// AccessToken returns the current access token.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// ProfileID returns the current profile scope.
func (c *Client) ProfileID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profileID
}

// BaseURL returns the base URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.rc.BaseURL
}

// Endpoint returns the endpoint resolved from the configured region.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// TokenURL returns the URL token exchanges are posted to.
func (c *Client) TokenURL() string {
	return c.tokenEndpoint()
}

// Config returns a copy of the client configuration, including the current
// access token.
func (c *Client) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// Filters are optional query parameters for list and suggestion calls,
// e.g. Filters{"stateFilter": "enabled"}.
type Filters map[string]string

// Response is a successful API response. Body is returned as received.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	RequestID  string
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("parsing response body: %w", err)
	}
	return nil
}

// Get returns the value at a gjson path in the body, e.g. "location" or "0.campaignId".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

func (r *Response) String() string {
	return string(r.Body)
}

// restyLogger routes resty's own warnings into zerolog.
type restyLogger struct {
	l zerolog.Logger
}

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error().Msgf(format, v...) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Warn().Msgf(format, v...) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug().Msgf(format, v...) }

// request describes one API call. Path may hold {name} placeholders filled from
// pathParams (escaped) or rawPathParams (inserted verbatim).
type request struct {
	method        string
	path          string
	pathParams    map[string]string
	rawPathParams map[string]string
	query         Filters
	body          any
	noAuth        bool
}

func (c *Client) do(ctx context.Context, r request) (*Response, error) {
	for _, params := range []map[string]string{r.pathParams, r.rawPathParams} {
		for name, value := range params {
			if value == "" {
				return nil, &TransportError{Method: r.method, URL: r.path, Err: fmt.Errorf("%w %q", ErrEmptyPathParam, name)}
			}
		}
	}

	req := c.newRequest(ctx, !r.noAuth)
	if len(r.pathParams) > 0 {
		req.SetPathParams(r.pathParams)
	}
	if len(r.rawPathParams) > 0 {
		req.SetRawPathParams(r.rawPathParams)
	}
	if len(r.query) > 0 {
		req.SetQueryParams(r.query)
	}
	if r.body != nil {
		req.SetBody(r.body)
	}

	c.logger.Debug().Str("method", r.method).Str("path", r.path).Msg("-->")

	resp, err := req.Execute(r.method, r.path)
	if err != nil {
		return nil, &TransportError{Method: r.method, URL: r.path, Err: err}
	}

	return c.toResponse(r.method, resp)
}

// newRequest builds a request with headers derived from the current client state.
func (c *Client) newRequest(ctx context.Context, withAuth bool) *resty.Request {
	c.mu.RLock()
	token, profileID := c.accessToken, c.profileID
	c.mu.RUnlock()

	req := c.rc.R().SetContext(ctx)
	if withAuth && token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	if profileID != "" {
		req.SetHeader(HeaderScope, profileID)
	}
	return req
}

func (c *Client) toResponse(method string, resp *resty.Response) (*Response, error) {
	out := &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		RequestID:  resp.Header().Get(headerRequestID),
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", resp.Request.URL).
		Int("status", out.StatusCode).
		Str("request_id", out.RequestID).
		Dur("elapsed", resp.Time()).
		Msg("<--")

	if !resp.IsSuccess() {
		return nil, &HTTPError{
			Method:     method,
			URL:        resp.Request.URL,
			StatusCode: out.StatusCode,
			Status:     out.Status,
			Body:       out.Body,
			RequestID:  out.RequestID,
		}
	}
	return out, nil
}
