// Package render turns a browser session into full-page screenshots and
// rendered HTML.
package render

import (
	"bytes"
	"context"
	"image"
	_ "image/png" // register PNG decoder for DecodeConfig
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/site2pdf"
)

// Compile-time interface verification.
var (
	_ site2pdf.Renderer = (*Renderer)(nil)
	_ site2pdf.Fetcher  = (*Fetcher)(nil)
)

// Renderer captures the full scrollable height of a page in one screenshot
// by growing the viewport to the content height.
type Renderer struct {
	Session site2pdf.Session
	Store   site2pdf.ArtifactStore

	// Load runs after navigation, Resize after the viewport is grown.
	Load   site2pdf.SettlePolicy
	Resize site2pdf.SettlePolicy

	// Width is the viewport width of every capture. Height is the viewport
	// height used for loading and the fallback when the content height
	// cannot be measured.
	Width  int
	Height int

	// Now returns the capture time. Defaults to time.Now.
	Now func() time.Time
}

// Render navigates to target and saves a screenshot covering its whole
// content as the artifact called name.
//
// The viewport is reset to Width x Height before every navigation because
// the document height never reports less than the current viewport.
func (r *Renderer) Render(ctx context.Context, target site2pdf.Target, name string) (*site2pdf.Capture, error) {
	if err := r.Session.SetViewport(ctx, r.Width, r.Height); err != nil {
		return nil, site2pdf.WrapError(site2pdf.EFETCH, err, "resetting viewport for %s", target)
	}
	if err := r.Session.Navigate(ctx, target.String()); err != nil {
		return nil, site2pdf.WrapError(site2pdf.EFETCH, err, "navigating to %s", target)
	}
	if err := settle(ctx, r.Load, r.Session); err != nil {
		return nil, site2pdf.WrapError(site2pdf.EFETCH, err, "waiting for %s to load", target)
	}

	height, err := r.Session.ContentHeight(ctx)
	if err != nil {
		return nil, site2pdf.WrapError(site2pdf.EFETCH, err, "measuring %s", target)
	}
	if height <= 0 {
		height = r.Height
	}

	if err := r.Session.SetViewport(ctx, r.Width, height); err != nil {
		return nil, site2pdf.WrapError(site2pdf.EFETCH, err, "resizing viewport to %dx%d", r.Width, height)
	}
	if err := settle(ctx, r.Resize, r.Session); err != nil {
		return nil, site2pdf.WrapError(site2pdf.EFETCH, err, "waiting for %s to repaint", target)
	}

	data, err := r.Session.Screenshot(ctx)
	if err != nil {
		return nil, site2pdf.WrapError(site2pdf.EFETCH, err, "capturing %s", target)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, site2pdf.WrapError(site2pdf.EDECODE, err, "decoding screenshot of %s", target)
	}

	path, err := r.Store.SaveImage(name, data)
	if err != nil {
		return nil, site2pdf.WrapError(site2pdf.EINTERNAL, err, "saving screenshot %s", name)
	}

	return &site2pdf.Capture{
		Origin:     target.String(),
		Path:       path,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Hash:       strconv.FormatUint(xxhash.Sum64(data), 16),
		CapturedAt: r.now(),
	}, nil
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Fetcher returns the rendered DOM of a page without capturing it.
type Fetcher struct {
	Session site2pdf.Session
	Settle  site2pdf.SettlePolicy
}

// Fetch navigates to url, lets it settle and returns the serialized document.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.Session.Navigate(ctx, url); err != nil {
		return "", site2pdf.WrapError(site2pdf.EFETCH, err, "navigating to %s", url)
	}
	if err := settle(ctx, f.Settle, f.Session); err != nil {
		return "", site2pdf.WrapError(site2pdf.EFETCH, err, "waiting for %s to load", url)
	}
	html, err := f.Session.HTML(ctx)
	if err != nil {
		return "", site2pdf.WrapError(site2pdf.EFETCH, err, "reading %s", url)
	}
	return html, nil
}

func settle(ctx context.Context, p site2pdf.SettlePolicy, s site2pdf.Session) error {
	if p == nil {
		return nil
	}
	return p.Settle(ctx, s)
}
