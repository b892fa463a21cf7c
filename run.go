package site2pdf

import (
	"context"
	"time"
)

// RunState is a state of the capture pipeline.
type RunState string

// Pipeline states.
const (
	StateDiscovering  RunState = "DISCOVERING"
	StateCapturing    RunState = "CAPTURING"
	StateAssembling   RunState = "ASSEMBLING"
	StateTextLayering RunState = "TEXT_LAYERING"
	StateDone         RunState = "DONE"
	StateFailed       RunState = "FAILED"
)

// Terminal reports whether no further transitions follow s.
func (s RunState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Run records one execution of the pipeline.
type Run struct {
	ID         string    `json:"id"`
	SeedURL    string    `json:"seedUrl"`
	State      RunState  `json:"state"`
	ImagePDF   string    `json:"imagePdf"`
	FinalPDF   string    `json:"finalPdf"`
	Error      string    `json:"error"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "run seed URL required")
	}
	return nil
}

// RunService records runs and their captures.
type RunService interface {
	// CreateRun assigns an ID and start time and stores the run.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final state, output paths and error of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// CreateCapture assigns an ID and stores a capture of a run.
	CreateCapture(ctx context.Context, capture *Capture) error

	// FindCaptures returns the captures of a run ordered by position.
	FindCaptures(ctx context.Context, runID string) ([]*Capture, error)
}
