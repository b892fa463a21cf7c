package site2pdf

import (
	"context"
	"time"
)

// Session is a single browser tab shared by every component that renders
// or fetches pages. It is not safe for concurrent use; callers serialize
// access. Viewport changes persist across navigations.
type Session interface {
	// Navigate loads target (http(s):// or file://) and waits for the load event.
	Navigate(ctx context.Context, target string) error

	// HTML returns the serialized DOM of the current document.
	HTML(ctx context.Context) (string, error)

	// ContentHeight returns the full scrollable height of the current document in CSS pixels.
	ContentHeight(ctx context.Context) (int, error)

	// SetViewport resizes the viewport. Device scale factor is always 1.
	SetViewport(ctx context.Context, width, height int) error

	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the browser. It is safe to call more than once.
	Close() error
}

// IdleWaiter is implemented by sessions that can detect when the page has
// gone idle (no pending work for the renderer).
type IdleWaiter interface {
	WaitIdle(ctx context.Context, timeout time.Duration) error
}

// SettlePolicy decides how long to wait for dynamic content to finish
// painting after a navigation or viewport change.
type SettlePolicy interface {
	Settle(ctx context.Context, session Session) error
}

// Fetcher retrieves rendered HTML from URLs.
type Fetcher interface {
	// Fetch navigates to the URL, lets the page settle,
	// and returns the rendered HTML.
	Fetch(ctx context.Context, url string) (html string, err error)
}
