package render

import (
	"context"
	"time"

	"github.com/fwojciec/site2pdf"
)

// Compile-time interface verification.
var (
	_ site2pdf.SettlePolicy = FixedDelay(0)
	_ site2pdf.SettlePolicy = (*StableHeight)(nil)
	_ site2pdf.SettlePolicy = (*NetworkIdle)(nil)
)

// NewSettlePolicy builds the policy named by cfg.Policy. delay is the fixed
// wait of the phase being configured (crawl, load or resize); the idle
// policy falls back to it when the session cannot report idleness.
func NewSettlePolicy(cfg site2pdf.SettleConfig, delay time.Duration) (site2pdf.SettlePolicy, error) {
	switch cfg.Policy {
	case site2pdf.SettleFixed:
		return FixedDelay(delay), nil
	case site2pdf.SettleStable:
		return &StableHeight{Interval: cfg.PollInterval, MaxWait: cfg.MaxWait}, nil
	case site2pdf.SettleIdle:
		return &NetworkIdle{Timeout: cfg.MaxWait, Fallback: FixedDelay(delay)}, nil
	default:
		return nil, site2pdf.Errorf(site2pdf.EINVALID, "unknown settle policy %q", cfg.Policy)
	}
}

// FixedDelay waits a constant time regardless of page state.
type FixedDelay time.Duration

// Settle sleeps for the delay or until ctx is done.
func (d FixedDelay) Settle(ctx context.Context, _ site2pdf.Session) error {
	return sleep(ctx, time.Duration(d))
}

// StableHeight polls the content height until two consecutive readings
// agree or MaxWait elapses. Reaching MaxWait is not an error.
type StableHeight struct {
	Interval time.Duration
	MaxWait  time.Duration
}

// Settle polls session until its content height stops changing.
func (p *StableHeight) Settle(ctx context.Context, session site2pdf.Session) error {
	deadline := time.Now().Add(p.MaxWait)

	last, err := session.ContentHeight(ctx)
	if err != nil {
		return err
	}
	for time.Now().Before(deadline) {
		if err := sleep(ctx, p.Interval); err != nil {
			return err
		}
		height, err := session.ContentHeight(ctx)
		if err != nil {
			return err
		}
		if height == last {
			return nil
		}
		last = height
	}
	return nil
}

// NetworkIdle waits until the session reports the page idle, at most
// Timeout. Sessions without idle detection use Fallback instead.
type NetworkIdle struct {
	Timeout  time.Duration
	Fallback site2pdf.SettlePolicy
}

// Settle waits for the page to go idle.
func (p *NetworkIdle) Settle(ctx context.Context, session site2pdf.Session) error {
	if w, ok := session.(site2pdf.IdleWaiter); ok {
		return w.WaitIdle(ctx, p.Timeout)
	}
	if p.Fallback != nil {
		return p.Fallback.Settle(ctx, session)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
