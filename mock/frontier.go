package mock

import (
	"context"

	"github.com/fwojciec/site2pdf"
)

var _ site2pdf.URLSource = (*URLSource)(nil)

// URLSource is a mock implementation of site2pdf.URLSource.
type URLSource struct {
	DiscoverFn func(ctx context.Context, seedURL string) ([]string, error)
}

func (s *URLSource) Discover(ctx context.Context, seedURL string) ([]string, error) {
	return s.DiscoverFn(ctx, seedURL)
}

var _ site2pdf.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of site2pdf.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

var _ site2pdf.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of site2pdf.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
