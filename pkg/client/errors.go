package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLocationNotReady is returned by GetReport and GetSnapshot when the status
// response carries no download location yet. Callers re-invoke until it does.
var ErrLocationNotReady = errors.New("download location not available yet")

// ErrEmptyPathParam is wrapped in a TransportError when an ID or other path
// segment is empty, since the request would otherwise address a different resource.
var ErrEmptyPathParam = errors.New("empty path parameter")

// ConfigError indicates a malformed, missing, or unknown configuration value.
type ConfigError struct {
	// Field is the configuration key at fault, if any.
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// AuthError indicates the refresh-token exchange did not yield an access token.
type AuthError struct {
	StatusCode int
	// Body is the raw token endpoint response, if one was received.
	Body    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString("auth error")

	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status code %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&sb, ": %s", e.Message)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}
	return sb.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// HTTPError is returned for any non-2xx response. The status is not interpreted.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       []byte
	RequestID  string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("API error (HTTP %d) for %s %s", e.StatusCode, e.Method, e.URL)
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		msg += ": " + body
	}
	return msg
}

// TransportError wraps a failure to send a request or read its response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
