package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/site2pdf"
)

// Ensure LoggingApplier implements site2pdf.TextLayerApplier.
var _ site2pdf.TextLayerApplier = (*LoggingApplier)(nil)

// LoggingApplier wraps a TextLayerApplier with logging.
type LoggingApplier struct {
	next   site2pdf.TextLayerApplier
	logger *slog.Logger
}

// NewLoggingApplier creates a new LoggingApplier.
func NewLoggingApplier(next site2pdf.TextLayerApplier, logger *slog.Logger) *LoggingApplier {
	return &LoggingApplier{next: next, logger: logger}
}

// Apply logs the input and output documents.
func (a *LoggingApplier) Apply(ctx context.Context, inPath, outPath string) (err error) {
	defer func(begin time.Time) {
		a.logger.Info("ocr",
			"in", inPath,
			"out", outPath,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Apply(ctx, inPath, outPath)
}
