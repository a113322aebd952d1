package config

import (
	"net"
	"net/url"
	"strings"
)

const (
	// LocalAPIURL is used when the page is served from a loopback host.
	LocalAPIURL = "http://localhost:5000/api"
	// FallbackAPIURL is the production backend used from static hosting.
	FallbackAPIURL = "https://smartcampussystem-backend-production.up.railway.app/api"
	sameOriginPath = "/api"
)

// staticHostingSuffixes are domains that only serve static files and never
// host the API themselves.
var staticHostingSuffixes = []string{
	".github.io",
	".netlify.app",
	".vercel.app",
	".pages.dev",
}

// BaseURLSources are the inputs of ResolveBaseURL, highest precedence first.
type BaseURLSources struct {
	Override       string // externally injected value
	PageBackendURL string // backend URL attribute of the host page
	Hostname       string // host the pages are served from
	Origin         string // scheme://host of the pages, for the same-origin default
	Default        string // replaces the same-origin default when Origin is empty
}

// ResolveBaseURL picks the API base URL:
//  1. a well-formed override;
//  2. the host page's backend attribute;
//  3. the local endpoint for loopback hosts, the fallback endpoint for static hosting;
//  4. Origin + "/api", or Default when there is no origin and Default is set.
func ResolveBaseURL(src BaseURLSources) string {
	if wellFormed(src.Override) {
		return strings.TrimRight(strings.TrimSpace(src.Override), "/")
	}
	if v := strings.TrimSpace(src.PageBackendURL); v != "" {
		return strings.TrimRight(v, "/")
	}

	host := normalizeHost(src.Hostname)
	switch {
	case host == "":
	case isLoopback(host):
		return LocalAPIURL
	case isStaticHosting(host):
		return FallbackAPIURL
	}

	origin := strings.TrimRight(strings.TrimSpace(src.Origin), "/")
	if origin == "" && src.Default != "" {
		return src.Default
	}
	return origin + sameOriginPath
}

// wellFormed accepts absolute http(s) URLs with a host.
func wellFormed(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if host, _, err := net.SplitHostPort(h); err == nil {
		return strings.Trim(host, "[]")
	}
	return strings.Trim(h, "[]")
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func isStaticHosting(host string) bool {
	for _, suffix := range staticHostingSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
