package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// TokenResponse is the token endpoint reply to a refresh-token exchange.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// RefreshToken exchanges the configured refresh token for a new access token and
// applies it with SetAccessToken. The request carries neither the bearer token nor
// the profile scope.
func (c *Client) RefreshToken(ctx context.Context) (*TokenResponse, error) {
	c.mu.RLock()
	cfg := c.cfg
	c.mu.RUnlock()

	if cfg.RefreshToken == "" {
		return nil, &AuthError{Message: "refresh token not configured"}
	}

	url := c.tokenEndpoint()
	c.logger.Debug().Str("url", url).Msg("refreshing access token")

	resp, err := c.rc.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": cfg.RefreshToken,
			"client_id":     cfg.ClientID,
			"client_secret": cfg.ClientSecret,
		}).
		Post(url)
	if err != nil {
		return nil, &TransportError{Method: http.MethodPost, URL: url, Err: err}
	}

	out, err := c.toResponse(http.MethodPost, resp)
	if err != nil {
		return nil, err
	}

	token := out.Get("access_token").String()
	if token == "" {
		return nil, &AuthError{
			StatusCode: out.StatusCode,
			Body:       out.String(),
			Message:    "access_token not found in response",
		}
	}

	var tr TokenResponse
	if err := json.Unmarshal(out.Body, &tr); err != nil {
		return nil, &AuthError{StatusCode: out.StatusCode, Body: out.String(), Err: err}
	}

	c.SetAccessToken(token)
	c.logger.Debug().Int("expires_in", tr.ExpiresIn).Msg("access token refreshed")
	return &tr, nil
}

// tokenEndpoint returns the absolute token URL.
func (c *Client) tokenEndpoint() string {
	if strings.Contains(c.tokenURL, "://") {
		return c.tokenURL
	}
	return "https://" + c.tokenURL
}
