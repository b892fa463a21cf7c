package crawl_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/fwojciec/site2pdf"
	"github.com/fwojciec/site2pdf/crawl"
	"github.com/fwojciec/site2pdf/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site maps page URLs to the links found on them.
type site map[string][]string

func (s site) fetcher(fetched *[]string, mu *sync.Mutex) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			mu.Lock()
			*fetched = append(*fetched, url)
			mu.Unlock()
			if _, ok := s[url]; !ok {
				return "", site2pdf.Errorf(site2pdf.EFETCH, "no such page: %s", url)
			}
			return "<html><body></body></html>", nil
		},
	}
}

func (s site) links() *mock.LinkExtractor {
	return &mock.LinkExtractor{
		ExtractLinksFn: func(_ string, baseURL string) ([]string, error) {
			return s[baseURL], nil
		},
	}
}

func newDiscoverer(s site, fetched *[]string) *crawl.Discoverer {
	return &crawl.Discoverer{
		Fetcher: s.fetcher(fetched, &sync.Mutex{}),
		Links:   s.links(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	t.Run("follows same-host links and returns them sorted", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://example.test/": {
				"https://example.test/b",
				"https://example.test/a",
				"https://other.test/x",
			},
			"https://example.test/a": {"https://example.test/"},
			"https://example.test/b": {"https://example.test/a"},
		}
		var fetched []string
		d := newDiscoverer(s, &fetched)

		urls, err := d.Discover(context.Background(), "https://example.test/")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.test/",
			"https://example.test/a",
			"https://example.test/b",
		}, urls)
		assert.NotContains(t, fetched, "https://other.test/x")
	})

	t.Run("fetches each URL at most once", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://example.test/":  {"https://example.test/a", "https://example.test/b"},
			"https://example.test/a": {"https://example.test/b", "https://example.test/"},
			"https://example.test/b": {"https://example.test/a", "https://example.test/"},
		}
		var fetched []string
		d := newDiscoverer(s, &fetched)

		_, err := d.Discover(context.Background(), "https://example.test/")

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"https://example.test/",
			"https://example.test/a",
			"https://example.test/b",
		}, fetched)
	})

	t.Run("skips pages that fail to load", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://example.test/":  {"https://example.test/missing", "https://example.test/a"},
			"https://example.test/a": nil,
		}
		var fetched []string
		d := newDiscoverer(s, &fetched)

		urls, err := d.Discover(context.Background(), "https://example.test/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.test/", "https://example.test/a"}, urls)
		assert.Contains(t, fetched, "https://example.test/missing")
	})

	t.Run("returns empty result when seed fails", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		d := newDiscoverer(site{}, &fetched)

		urls, err := d.Discover(context.Background(), "https://example.test/")

		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("visits the most recently found link first", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://example.test/":  {"https://example.test/a", "https://example.test/b"},
			"https://example.test/a": nil,
			"https://example.test/b": nil,
		}
		var fetched []string
		d := newDiscoverer(s, &fetched)

		_, err := d.Discover(context.Background(), "https://example.test/")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.test/",
			"https://example.test/b",
			"https://example.test/a",
		}, fetched)
	})

	t.Run("treats URLs differing only by fragment as distinct", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://example.test/":     {"https://example.test/#top"},
			"https://example.test/#top": nil,
		}
		var fetched []string
		d := newDiscoverer(s, &fetched)

		urls, err := d.Discover(context.Background(), "https://example.test/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.test/", "https://example.test/#top"}, urls)
	})

	t.Run("stops at page limit", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://example.test/":  {"https://example.test/a", "https://example.test/b"},
			"https://example.test/a": nil,
			"https://example.test/b": nil,
		}
		var fetched []string
		d := newDiscoverer(s, &fetched)
		d.MaxPages = 2

		urls, err := d.Discover(context.Background(), "https://example.test/")

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		assert.Len(t, fetched, 2)
	})

	t.Run("waits on rate limiter keyed by host", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://example.test/":  {"https://example.test/a"},
			"https://example.test/a": nil,
		}
		var fetched []string
		var domains []string
		d := newDiscoverer(s, &fetched)
		d.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				domains = append(domains, domain)
				return nil
			},
		}

		_, err := d.Discover(context.Background(), "https://example.test/")

		require.NoError(t, err)
		assert.Equal(t, []string{"example.test", "example.test"}, domains)
	})

	t.Run("rejects seed without http scheme", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		d := newDiscoverer(site{}, &fetched)

		for _, seed := range []string{"example.test", "ftp://example.test/", "https://", "::"} {
			_, err := d.Discover(context.Background(), seed)
			assert.Equal(t, site2pdf.EINVALID, site2pdf.ErrorCode(err), seed)
		}
		assert.Empty(t, fetched)
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		d := &crawl.Discoverer{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					cancel()
					return "", context.Canceled
				},
			},
			Links:  site{}.links(),
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		}

		_, err := d.Discover(ctx, "https://example.test/")

		assert.True(t, errors.Is(err, context.Canceled))
	})
}
