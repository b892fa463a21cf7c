package crawl

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/site2pdf"
	"golang.org/x/time/rate"
)

var _ site2pdf.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out discovery fetches with one token bucket per host.
// Buckets hold a single token, so requests to a host never burst.
type DomainLimiter struct {
	limit rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter returns a DomainLimiter allowing rps requests per second
// to each host. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &DomainLimiter{limit: limit, buckets: make(map[string]*rate.Limiter)}
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.limit == rate.Inf {
		return ctx.Err()
	}
	return d.bucket(hostKey(domain)).Wait(ctx)
}

func (d *DomainLimiter) bucket(key string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buckets[key]
	if !ok {
		b = rate.NewLimiter(d.limit, 1)
		d.buckets[key] = b
	}
	return b
}

// hostKey folds case and drops default ports so that every spelling of a
// host shares one bucket.
func hostKey(domain string) string {
	domain = strings.ToLower(domain)
	if host, port, err := net.SplitHostPort(domain); err == nil && (port == "80" || port == "443") {
		return host
	}
	return domain
}
