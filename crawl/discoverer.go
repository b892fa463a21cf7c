// Package crawl discovers the pages of a site by following anchor links
// within the seed URL's host.
package crawl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/fwojciec/site2pdf"
)

// Visited set sizing for the Bloom prefilter.
const (
	visitedExpectedURLs      = 10000
	visitedFalsePositiveRate = 0.01
)

// Compile-time interface verification.
var _ site2pdf.URLSource = (*Discoverer)(nil)

// Discoverer walks a site depth-first from a seed URL.
//
// Traversal order depends on the order links appear in each rendered page
// and is not stable across runs; only the sorted result is. A host that
// generates unbounded distinct URLs (for example query-parameter spam)
// never terminates unless MaxPages is set.
type Discoverer struct {
	Fetcher site2pdf.Fetcher
	Links   site2pdf.LinkExtractor

	// RateLimiter, when set, is waited on before every fetch.
	RateLimiter site2pdf.DomainLimiter

	// MaxPages stops traversal after that many pages were fetched. Zero means unlimited.
	MaxPages int

	Logger *slog.Logger
}

// Discover returns every same-host page reachable from seedURL whose fetch
// succeeded, sorted lexicographically. Pages that fail to load are logged
// and skipped; they are neither retried nor marked visited.
func (d *Discoverer) Discover(ctx context.Context, seedURL string) ([]string, error) {
	seed, err := site2pdf.ParseSeedURL(seedURL)
	if err != nil {
		return nil, err
	}

	logger := d.logger()
	frontier := NewStack(seedURL)
	visited := NewVisitedSet(visitedExpectedURLs, visitedFalsePositiveRate)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if visited.Contains(pageURL) {
			continue
		}
		if d.MaxPages > 0 && visited.Len() >= d.MaxPages {
			logger.Warn("page limit reached, stopping discovery",
				"max_pages", d.MaxPages,
				"pending", frontier.Len()+1,
			)
			break
		}

		if d.RateLimiter != nil {
			if err := d.RateLimiter.Wait(ctx, seed.Host); err != nil {
				return nil, err
			}
		}

		html, err := d.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("failed to visit page", "url", pageURL, "err", err)
			continue
		}
		visited.Add(pageURL)

		links, err := d.Links.ExtractLinks(html, pageURL)
		if err != nil {
			logger.Warn("failed to extract links", "url", pageURL, "err", err)
			continue
		}

		pushed := 0
		for _, link := range links {
			if !sameHost(link, seed.Host) || visited.Contains(link) {
				continue
			}
			frontier.Push(link)
			pushed++
		}
		logger.Debug("visited page", "url", pageURL, "links", len(links), "queued", pushed)
	}

	return visited.Sorted(), nil
}

func (d *Discoverer) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// sameHost reports whether rawURL's network location equals host.
func sameHost(rawURL, host string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == host
}
