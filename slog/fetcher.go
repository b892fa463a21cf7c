// Package slog provides log/slog decorators for site2pdf services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/site2pdf"
)

var _ site2pdf.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every rendered-DOM fetch. Failed fetches are logged
// at warn level with their error code.
type LoggingFetcher struct {
	next   site2pdf.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher wraps next.
func NewLoggingFetcher(next site2pdf.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Warn("fetch",
				"url", url,
				"code", site2pdf.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
