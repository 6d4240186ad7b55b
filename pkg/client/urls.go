// Package client provides an HTTP client for the Sponsored Products advertising API
// with region-aware endpoint resolution, bearer-token authentication, and refresh-token
// exchange.
package client

import (
	"sort"
	"strings"
)

// APIVersion is the path prefix appended to every API host.
const APIVersion = "v1"

// Region constants for the supported advertising API deployments.
const (
	RegionNA = "na"
	RegionEU = "eu"
)

// RegionHosts holds the host names for one region. Hosts carry no scheme.
type RegionHosts struct {
	Prod     string
	Sandbox  string
	TokenURL string
}

// Regions maps region code to its hosts.
var Regions = map[string]RegionHosts{
	RegionNA: {
		Prod:     "advertising-api.amazon.com",
		Sandbox:  "advertising-api-test.amazon.com",
		TokenURL: "api.amazon.com/auth/o2/token",
	},
	RegionEU: {
		Prod:     "advertising-api-eu.amazon.com",
		Sandbox:  "advertising-api-test.amazon.com",
		TokenURL: "api.amazon.com/auth/o2/token",
	},
}

// Endpoint is the result of resolving a region.
type Endpoint struct {
	// BaseURL is the versioned API root, e.g. https://advertising-api.amazon.com/v1.
	BaseURL string
	// TokenURL is the token exchange host and path without a scheme.
	TokenURL string
}

// ResolveEndpoint returns the API base URL and token URL for region. The region must
// match a table key exactly; sandbox selects the test host.
func ResolveEndpoint(region string, sandbox bool) (Endpoint, error) {
	if _, ok := Regions[region]; !ok {
		return Endpoint{}, &ConfigError{Field: "region", Message: "invalid region"}
	}

	hosts := Regions[strings.ToLower(region)]
	host := hosts.Prod
	if sandbox {
		host = hosts.Sandbox
	}

	return Endpoint{
		BaseURL:  "https://" + host + "/" + APIVersion,
		TokenURL: hosts.TokenURL,
	}, nil
}

// ValidRegion reports whether r is a recognized region code.
func ValidRegion(r string) bool {
	_, ok := Regions[r]
	return ok
}

// RegionCodes returns the sorted region codes.
func RegionCodes() []string {
	codes := make([]string, 0, len(Regions))
	for code := range Regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
