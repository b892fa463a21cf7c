// Package chromedp implements site2pdf.Session with github.com/chromedp/chromedp.
package chromedp

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/fwojciec/site2pdf"
)

// Ensure Session implements site2pdf.Session and site2pdf.IdleWaiter at compile time.
var (
	_ site2pdf.Session    = (*Session)(nil)
	_ site2pdf.IdleWaiter = (*Session)(nil)
)

// DefaultTimeout bounds every browser operation when no timeout is configured.
const DefaultTimeout = 30 * time.Second

const contentHeightJS = `Math.max(
	document.body ? document.body.scrollHeight : 0,
	document.documentElement ? document.documentElement.scrollHeight : 0
)`

// idleJS resolves once the renderer reports an idle period. %d is the
// callback timeout in milliseconds.
const idleJS = `new Promise(resolve => {
	if (typeof requestIdleCallback !== 'function') { resolve(true); return; }
	requestIdleCallback(() => resolve(true), {timeout: %d});
})`

// Session drives one tab of a headless Chrome started by chromedp.
type Session struct {
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	tabCtx        context.Context
	tabCancel     context.CancelFunc
	timeout       time.Duration

	mu     sync.Mutex
	closed bool
}

// Option configures a Session.
type Option func(*config)

type config struct {
	chromePath string
	noSandbox  bool
	timeout    time.Duration
	width      int
	height     int
}

// WithChromePath sets the Chrome executable path.
func WithChromePath(path string) Option {
	return func(c *config) { c.chromePath = path }
}

// WithNoSandbox disables the Chrome sandbox.
func WithNoSandbox(enable bool) Option {
	return func(c *config) { c.noSandbox = enable }
}

// WithTimeout bounds every browser operation.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithViewport sets the initial window size.
func WithViewport(width, height int) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// NewSession starts a headless browser with one tab. The caller must call
// Close when finished.
func NewSession(opts ...Option) (*Session, error) {
	cfg := config{timeout: DefaultTimeout, width: 1920, height: 3000}
	for _, o := range opts {
		o(&cfg)
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("no-first-run", true),
		chromedp.WindowSize(cfg.width, cfg.height),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	// The tab is created with its own long-lived context; per-call contexts
	// derived from it must not own the target.
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("opening tab: %w", err)
	}

	s := &Session{
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
		tabCtx:        tabCtx,
		tabCancel:     tabCancel,
		timeout:       cfg.timeout,
	}

	if err := s.SetViewport(context.Background(), cfg.width, cfg.height); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	return s, nil
}

// Navigate loads target and waits for its body to be ready.
func (s *Session) Navigate(ctx context.Context, target string) error {
	return s.run(ctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// HTML returns the serialized DOM of the current document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// ContentHeight returns the larger of the body and document scroll heights.
func (s *Session) ContentHeight(ctx context.Context) (int, error) {
	var height float64
	if err := s.run(ctx, chromedp.Evaluate(contentHeightJS, &height)); err != nil {
		return 0, err
	}
	return int(math.Ceil(height)), nil
}

// SetViewport resizes the viewport at device scale factor 1.
func (s *Session) SetViewport(ctx context.Context, width, height int) error {
	return s.run(ctx, chromedp.EmulateViewport(int64(width), int64(height)))
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := s.run(ctx, chromedp.CaptureScreenshot(&buf))
	return buf, err
}

// WaitIdle waits for an idle callback from the renderer, at most timeout.
func (s *Session) WaitIdle(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var idle bool
	return s.run(ctx, chromedp.Evaluate(fmt.Sprintf(idleJS, timeout.Milliseconds()), &idle,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		},
	))
}

// Close releases all resources held by the Session, including the browser
// process. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.tabCancel()
	s.browserCancel()
	s.allocCancel()
	return nil
}

// run executes actions on the tab. The actions stop when ctx is done or
// the session timeout elapses, whichever comes first; the tab stays open.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := s.checkClosed(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(s.tabCtx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (s *Session) checkClosed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return site2pdf.Errorf(site2pdf.EINVALID, "session closed")
	}
	return nil
}
