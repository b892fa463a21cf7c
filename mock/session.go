package mock

import (
	"context"
	"time"

	"github.com/fwojciec/site2pdf"
)

var _ site2pdf.Session = (*Session)(nil)
var _ site2pdf.IdleWaiter = (*Session)(nil)

// Session is a mock implementation of site2pdf.Session and site2pdf.IdleWaiter.
type Session struct {
	NavigateFn      func(ctx context.Context, target string) error
	HTMLFn          func(ctx context.Context) (string, error)
	ContentHeightFn func(ctx context.Context) (int, error)
	SetViewportFn   func(ctx context.Context, width, height int) error
	ScreenshotFn    func(ctx context.Context) ([]byte, error)
	WaitIdleFn      func(ctx context.Context, timeout time.Duration) error
	CloseFn         func() error
}

func (s *Session) Navigate(ctx context.Context, target string) error {
	return s.NavigateFn(ctx, target)
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.HTMLFn(ctx)
}

func (s *Session) ContentHeight(ctx context.Context) (int, error) {
	return s.ContentHeightFn(ctx)
}

func (s *Session) SetViewport(ctx context.Context, width, height int) error {
	return s.SetViewportFn(ctx, width, height)
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	return s.ScreenshotFn(ctx)
}

func (s *Session) WaitIdle(ctx context.Context, timeout time.Duration) error {
	return s.WaitIdleFn(ctx, timeout)
}

func (s *Session) Close() error {
	return s.CloseFn()
}

var _ site2pdf.SettlePolicy = (*SettlePolicy)(nil)

// SettlePolicy is a mock implementation of site2pdf.SettlePolicy.
type SettlePolicy struct {
	SettleFn func(ctx context.Context, session site2pdf.Session) error
}

func (p *SettlePolicy) Settle(ctx context.Context, session site2pdf.Session) error {
	return p.SettleFn(ctx, session)
}
