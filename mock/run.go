package mock

import (
	"context"

	"github.com/fwojciec/site2pdf"
)

var _ site2pdf.RunService = (*RunService)(nil)

// RunService is a mock implementation of site2pdf.RunService.
type RunService struct {
	CreateRunFn     func(ctx context.Context, run *site2pdf.Run) error
	FinishRunFn     func(ctx context.Context, run *site2pdf.Run) error
	FindRunByIDFn   func(ctx context.Context, id string) (*site2pdf.Run, error)
	CreateCaptureFn func(ctx context.Context, capture *site2pdf.Capture) error
	FindCapturesFn  func(ctx context.Context, runID string) ([]*site2pdf.Capture, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *site2pdf.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *site2pdf.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*site2pdf.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) CreateCapture(ctx context.Context, capture *site2pdf.Capture) error {
	return s.CreateCaptureFn(ctx, capture)
}

func (s *RunService) FindCaptures(ctx context.Context, runID string) ([]*site2pdf.Capture, error) {
	return s.FindCapturesFn(ctx, runID)
}
