package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/site2pdf"
)

// Ensure LoggingRenderer implements site2pdf.Renderer.
var _ site2pdf.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   site2pdf.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next site2pdf.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the target and the captured image size.
func (r *LoggingRenderer) Render(ctx context.Context, target site2pdf.Target, name string) (capture *site2pdf.Capture, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"target", target.String(),
			"name", name,
			"duration", time.Since(begin),
		}
		if capture != nil {
			attrs = append(attrs, "path", capture.Path, "width", capture.Width, "height", capture.Height)
		}
		attrs = append(attrs, "err", err)
		r.logger.Info("render", attrs...)
	}(time.Now())
	return r.next.Render(ctx, target, name)
}
