// Package rod implements site2pdf.Session with github.com/go-rod/rod.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/site2pdf"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Session implements site2pdf.Session and site2pdf.IdleWaiter at compile time.
var (
	_ site2pdf.Session    = (*Session)(nil)
	_ site2pdf.IdleWaiter = (*Session)(nil)
)

// DefaultTimeout bounds every browser operation when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// contentHeightJS measures the full scrollable height of the document.
const contentHeightJS = `() => Math.max(
	document.body ? document.body.scrollHeight : 0,
	document.documentElement ? document.documentElement.scrollHeight : 0
)`

// Session drives one tab of a headless Chrome launched for the lifetime of
// the Session. The browser is never relaunched; once it fails, every call
// fails. Session is not safe for concurrent use.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	closed   atomic.Bool
}

// Option configures a Session.
type Option func(*options)

type options struct {
	chromePath string
	noSandbox  bool
	timeout    time.Duration
	width      int
	height     int
}

// WithChromePath uses the browser binary at path instead of the one rod finds or downloads.
func WithChromePath(path string) Option {
	return func(o *options) { o.chromePath = path }
}

// WithNoSandbox disables the Chrome sandbox, needed when running as root in containers.
func WithNoSandbox(enable bool) Option {
	return func(o *options) { o.noSandbox = enable }
}

// WithTimeout bounds every browser operation.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithViewport sets the initial viewport size.
func WithViewport(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// NewSession launches a headless browser and opens the tab every call uses.
// Close must be called when the Session is no longer needed.
func NewSession(opts ...Option) (*Session, error) {
	o := options{timeout: DefaultTimeout, width: 1920, height: 3000}
	for _, opt := range opts {
		opt(&o)
	}

	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("hide-scrollbars").
		Leakless(true).
		Headless(true).
		NoSandbox(o.noSandbox)
	if o.chromePath != "" {
		lnchr = lnchr.Bin(o.chromePath)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	s := &Session{browser: browser, launcher: lnchr, timeout: o.timeout}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	s.page = page

	if err := s.SetViewport(context.Background(), o.width, o.height); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Navigate loads target and waits for the load event.
func (s *Session) Navigate(ctx context.Context, target string) error {
	page, cancel, err := s.pageWithTimeout(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := page.Navigate(target); err != nil {
		return err
	}
	return page.WaitLoad()
}

// HTML returns the serialized DOM of the current document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	page, cancel, err := s.pageWithTimeout(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	return page.HTML()
}

// ContentHeight returns the larger of the body and document scroll heights.
func (s *Session) ContentHeight(ctx context.Context) (int, error) {
	page, cancel, err := s.pageWithTimeout(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	res, err := page.Eval(contentHeightJS)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// SetViewport resizes the viewport at device scale factor 1.
func (s *Session) SetViewport(ctx context.Context, width, height int) error {
	page, cancel, err := s.pageWithTimeout(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	return page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	page, cancel, err := s.pageWithTimeout(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// WaitIdle waits until the page has no pending work, at most timeout.
func (s *Session) WaitIdle(ctx context.Context, timeout time.Duration) error {
	page, cancel, err := s.pageWithTimeout(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	return page.WaitIdle(timeout)
}

// Close releases browser resources. Close is safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (s *Session) LauncherPID() int {
	if s.launcher == nil {
		return 0
	}
	return s.launcher.PID()
}

// pageWithTimeout returns the tab bound to ctx and the session timeout.
func (s *Session) pageWithTimeout(ctx context.Context) (*rod.Page, context.CancelFunc, error) {
	if s.closed.Load() {
		return nil, nil, site2pdf.Errorf(site2pdf.EINVALID, "session closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.page.Context(ctx), cancel, nil
}
