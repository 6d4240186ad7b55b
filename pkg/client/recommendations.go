package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// KeywordQuery is one keyword in a bulk bid recommendation request.
type KeywordQuery struct {
	Keyword   string `json:"keyword"`
	MatchType string `json:"matchType"`
}

type bulkBidRecommendationRequest struct {
	AdGroupID json.Number    `json:"adGroupId"`
	Keywords  []KeywordQuery `json:"keywords"`
}

// GetAdGroupBidRecommendations returns the suggested bid for an ad group.
func (c *Client) GetAdGroupBidRecommendations(ctx context.Context, adGroupID string) (*Response, error) {
	return c.do(ctx, request{
		method:     http.MethodGet,
		path:       "adGroups/{adGroupId}/bidRecommendations",
		pathParams: map[string]string{"adGroupId": adGroupID},
	})
}

// GetKeywordBidRecommendations returns the suggested bid for a keyword.
func (c *Client) GetKeywordBidRecommendations(ctx context.Context, keywordID string) (*Response, error) {
	return c.do(ctx, request{
		method:     http.MethodGet,
		path:       "keywords/{keywordId}/bidRecommendations",
		pathParams: map[string]string{"keywordId": keywordID},
	})
}

// BulkGetKeywordBidRecommendations returns suggested bids for keywords that need not
// exist yet. adGroupID is sent as a JSON number.
func (c *Client) BulkGetKeywordBidRecommendations(ctx context.Context, adGroupID string, keywords []KeywordQuery) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "keywords/bidRecommendations",
		body: bulkBidRecommendationRequest{
			AdGroupID: json.Number(adGroupID),
			Keywords:  keywords,
		},
	})
}

// GetAdGroupKeywordSuggestions returns keyword suggestions for an ad group.
// Common filters: maxNumSuggestions, adStateFilter.
func (c *Client) GetAdGroupKeywordSuggestions(ctx context.Context, adGroupID string, filters Filters) (*Response, error) {
	return c.do(ctx, request{
		method:     http.MethodGet,
		path:       "adGroups/{adGroupId}/suggested/keywords",
		pathParams: map[string]string{"adGroupId": adGroupID},
		query:      filters,
	})
}

// GetAdGroupKeywordSuggestionsExtended is GetAdGroupKeywordSuggestions with the
// extended field set.
func (c *Client) GetAdGroupKeywordSuggestionsExtended(ctx context.Context, adGroupID string, filters Filters) (*Response, error) {
	return c.do(ctx, request{
		method:     http.MethodGet,
		path:       "adGroups/{adGroupId}/suggested/keywords/extended",
		pathParams: map[string]string{"adGroupId": adGroupID},
		query:      filters,
	})
}

// GetASINKeywordSuggestions returns keyword suggestions for a product ASIN.
func (c *Client) GetASINKeywordSuggestions(ctx context.Context, asin string, filters Filters) (*Response, error) {
	return c.do(ctx, request{
		method:     http.MethodGet,
		path:       "asins/{asin}/suggested/keywords",
		pathParams: map[string]string{"asin": asin},
		query:      filters,
	})
}

// BulkGetASINKeywordSuggestions returns keyword suggestions for several ASINs,
// e.g. payload {"asins": ["B00..."], "maxNumSuggestions": 10}.
func (c *Client) BulkGetASINKeywordSuggestions(ctx context.Context, payload any) (*Response, error) {
	return c.do(ctx, request{method: http.MethodPost, path: "asins/suggested/keywords", body: payload})
}
