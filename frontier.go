package site2pdf

import (
	"context"
	"net/url"
	"strings"
)

// ParseSeedURL parses the starting URL of a crawl. It must be an absolute
// http or https URL with a host.
func ParseSeedURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, Errorf(EINVALID, "seed URL required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid seed URL %q: %v", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, Errorf(EINVALID, "seed URL must be an absolute http(s) URL, got %q", raw)
	}
	return u, nil
}

// URLSource discovers the pages of a site.
type URLSource interface {
	// Discover returns the same-domain pages reachable from seedURL,
	// sorted lexicographically.
	Discover(ctx context.Context, seedURL string) ([]string, error)
}

// LinkExtractor extracts anchor targets from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns absolute URLs of every anchor,
	// resolved against baseURL, in document order.
	ExtractLinks(html string, baseURL string) ([]string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
