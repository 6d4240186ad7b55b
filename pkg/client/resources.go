package client

import (
	"context"
	"net/http"
)

// ResourceService issues the standard operations against one resource collection,
// e.g. campaigns or adGroups. It performs no validation of IDs or payloads beyond
// rejecting empty IDs.
type ResourceService struct {
	client *Client
	path   string
}

func newResourceService(c *Client, path string) *ResourceService {
	return &ResourceService{client: c, path: path}
}

// Path returns the collection path segment.
func (s *ResourceService) Path() string {
	return s.path
}

// Get fetches one resource: GET <resource>/<id>.
func (s *ResourceService) Get(ctx context.Context, id string) (*Response, error) {
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		path:       s.path + "/{id}",
		pathParams: map[string]string{"id": id},
	})
}

// GetExtended fetches one resource with the extended field set:
// GET <resource>/extended/<id>.
func (s *ResourceService) GetExtended(ctx context.Context, id string) (*Response, error) {
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		path:       s.path + "/extended/{id}",
		pathParams: map[string]string{"id": id},
	})
}

// Create bulk-creates resources: POST <resource> with payload, usually a slice.
func (s *ResourceService) Create(ctx context.Context, payload any) (*Response, error) {
	return s.client.do(ctx, request{method: http.MethodPost, path: s.path, body: payload})
}

// Update bulk-updates resources: PUT <resource> with payload.
func (s *ResourceService) Update(ctx context.Context, payload any) (*Response, error) {
	return s.client.do(ctx, request{method: http.MethodPut, path: s.path, body: payload})
}

// Archive sets a resource to archived: DELETE <resource>/<id>.
func (s *ResourceService) Archive(ctx context.Context, id string) (*Response, error) {
	return s.client.do(ctx, request{
		method:     http.MethodDelete,
		path:       s.path + "/{id}",
		pathParams: map[string]string{"id": id},
	})
}

// List returns resources matching filters: GET <resource>?<filters>.
func (s *ResourceService) List(ctx context.Context, filters Filters) (*Response, error) {
	return s.client.do(ctx, request{method: http.MethodGet, path: s.path, query: filters})
}

// ListExtended is List with the extended field set: GET <resource>/extended?<filters>.
func (s *ResourceService) ListExtended(ctx context.Context, filters Filters) (*Response, error) {
	return s.client.do(ctx, request{method: http.MethodGet, path: s.path + "/extended", query: filters})
}

// CampaignNegativeKeywordService adds Remove, the API's name for deleting a
// campaign-level negative keyword.
type CampaignNegativeKeywordService struct {
	*ResourceService
}

// Remove deletes a campaign negative keyword: DELETE campaignNegativeKeywords/<id>.
func (s *CampaignNegativeKeywordService) Remove(ctx context.Context, id string) (*Response, error) {
	return s.Archive(ctx, id)
}

// ProfileService covers advertising profiles.
type ProfileService struct {
	client *Client
}

// List returns the profiles the access token can use.
func (s *ProfileService) List(ctx context.Context) (*Response, error) {
	return s.client.do(ctx, request{method: http.MethodGet, path: "profiles"})
}

// Get fetches one profile.
func (s *ProfileService) Get(ctx context.Context, profileID string) (*Response, error) {
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		path:       "profiles/{profileId}",
		pathParams: map[string]string{"profileId": profileID},
	})
}

// Update bulk-updates profiles, e.g. daily budgets.
func (s *ProfileService) Update(ctx context.Context, payload any) (*Response, error) {
	return s.client.do(ctx, request{method: http.MethodPut, path: "profiles", body: payload})
}

// Register creates a sandbox profile.
func (s *ProfileService) Register(ctx context.Context, payload any) (*Response, error) {
	return s.client.do(ctx, request{method: http.MethodPut, path: "profiles/register", body: payload})
}

// RegisterStatus reports the progress of a Register call.
func (s *ProfileService) RegisterStatus(ctx context.Context, profileID string) (*Response, error) {
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		path:       "profiles/register/{profileId}/status",
		pathParams: map[string]string{"profileId": profileID},
	})
}
