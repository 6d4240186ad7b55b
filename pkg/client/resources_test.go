package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCampaignsReturnsBodyUnmodified(t *testing.T) {
	const body = `[{"campaignId":1,"name":"a"},  {"campaignId":2,"name":"b"}]`
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
	c := newTestClient(t, srv)

	resp, err := c.Campaigns.List(context.Background(), Filters{"stateFilter": "enabled"})
	require.NoError(t, err)
	assert.Equal(t, body, string(resp.Body))

	req := srv.Last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v1/campaigns", req.Path)
	assert.Equal(t, "stateFilter=enabled", req.RawQuery)
}

func TestArchiveCampaign(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)

	_, err := c.Campaigns.Archive(context.Background(), "123")
	require.NoError(t, err)

	req := srv.Last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/v1/campaigns/123", req.Path)
}

func TestResourceServices(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)

	services := map[string]*ResourceService{
		"campaigns":                c.Campaigns,
		"adGroups":                 c.AdGroups,
		"keywords":                 c.Keywords,
		"negativeKeywords":         c.NegativeKeywords,
		"campaignNegativeKeywords": c.CampaignNegativeKeywords.ResourceService,
		"productAds":               c.ProductAds,
	}

	payload := []map[string]any{{"name": "x", "state": "enabled"}}

	for path, svc := range services {
		t.Run(path, func(t *testing.T) {
			ctx := context.Background()
			assert.Equal(t, path, svc.Path())

			tests := []struct {
				name       string
				call       func() (*Response, error)
				wantMethod string
				wantPath   string
				wantQuery  string
				wantBody   string
			}{
				{"get", func() (*Response, error) { return svc.Get(ctx, "11") }, http.MethodGet, "/v1/" + path + "/11", "", ""},
				{"get extended", func() (*Response, error) { return svc.GetExtended(ctx, "11") }, http.MethodGet, "/v1/" + path + "/extended/11", "", ""},
				{"create", func() (*Response, error) { return svc.Create(ctx, payload) }, http.MethodPost, "/v1/" + path, "", `[{"name":"x","state":"enabled"}]`},
				{"update", func() (*Response, error) { return svc.Update(ctx, payload) }, http.MethodPut, "/v1/" + path, "", `[{"name":"x","state":"enabled"}]`},
				{"archive", func() (*Response, error) { return svc.Archive(ctx, "11") }, http.MethodDelete, "/v1/" + path + "/11", "", ""},
				{"list", func() (*Response, error) { return svc.List(ctx, nil) }, http.MethodGet, "/v1/" + path, "", ""},
				{"list filtered", func() (*Response, error) { return svc.List(ctx, Filters{"count": "10"}) }, http.MethodGet, "/v1/" + path, "count=10", ""},
				{"list extended", func() (*Response, error) { return svc.ListExtended(ctx, Filters{"startIndex": "5"}) }, http.MethodGet, "/v1/" + path + "/extended", "startIndex=5", ""},
			}

			for _, tt := range tests {
				_, err := tt.call()
				require.NoError(t, err, tt.name)

				req := srv.Last(t)
				assert.Equal(t, tt.wantMethod, req.Method, tt.name)
				assert.Equal(t, tt.wantPath, req.Path, tt.name)
				assert.Equal(t, tt.wantQuery, req.RawQuery, tt.name)
				if tt.wantBody != "" {
					assert.JSONEq(t, tt.wantBody, string(req.Body), tt.name)
					assert.Contains(t, req.Header.Get("Content-Type"), "application/json", tt.name)
				} else {
					assert.Empty(t, req.Body, tt.name)
				}
			}
		})
	}
}

func TestIDsArePathEscaped(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)

	_, err := c.Keywords.Get(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/v1/keywords/a%2Fb", srv.Last(t).RawPath)
}

func TestRemoveCampaignNegativeKeyword(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)

	_, err := c.CampaignNegativeKeywords.Remove(context.Background(), "55")
	require.NoError(t, err)

	req := srv.Last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/v1/campaignNegativeKeywords/55", req.Path)
}

func TestProfiles(t *testing.T) {
	srv := newAPIServer(t, nil)
	c := newTestClient(t, srv)
	ctx := context.Background()
	payload := []map[string]any{{"profileId": 1, "dailyBudget": 100}}

	tests := []struct {
		name       string
		call       func() (*Response, error)
		wantMethod string
		wantPath   string
	}{
		{"list", func() (*Response, error) { return c.Profiles.List(ctx) }, http.MethodGet, "/v1/profiles"},
		{"get", func() (*Response, error) { return c.Profiles.Get(ctx, "1") }, http.MethodGet, "/v1/profiles/1"},
		{"update", func() (*Response, error) { return c.Profiles.Update(ctx, payload) }, http.MethodPut, "/v1/profiles"},
		{"register", func() (*Response, error) { return c.Profiles.Register(ctx, map[string]string{"countryCode": "US"}) }, http.MethodPut, "/v1/profiles/register"},
		{"register status", func() (*Response, error) { return c.Profiles.RegisterStatus(ctx, "reg1") }, http.MethodGet, "/v1/profiles/register/reg1/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			require.NoError(t, err)

			req := srv.Last(t)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
		})
	}
}
