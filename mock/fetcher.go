package mock

import (
	"context"

	"github.com/fwojciec/site2pdf"
)

var _ site2pdf.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of site2pdf.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}
