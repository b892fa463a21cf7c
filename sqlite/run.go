package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/site2pdf"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ site2pdf.RunService = (*RunService)(nil)

// RunService implements site2pdf.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun creates a new run.
func (s *RunService) CreateRun(ctx context.Context, run *site2pdf.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC().Truncate(time.Second)
	if run.State == "" {
		run.State = site2pdf.StateDiscovering
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed_url, state, image_pdf, final_pdf, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SeedURL, string(run.State), run.ImagePDF, run.FinalPDF, run.Error,
		formatTime(run.StartedAt), formatTime(run.FinishedAt))

	return err
}

// FinishRun stores the outcome of a run.
func (s *RunService) FinishRun(ctx context.Context, run *site2pdf.Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC().Truncate(time.Second)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET state = ?, image_pdf = ?, final_pdf = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, string(run.State), run.ImagePDF, run.FinalPDF, run.Error, formatTime(run.FinishedAt), run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return site2pdf.Errorf(site2pdf.ENOTFOUND, "run not found")
	}
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*site2pdf.Run, error) {
	var run site2pdf.Run
	var state, startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, seed_url, state, image_pdf, final_pdf, error, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.SeedURL, &state, &run.ImagePDF, &run.FinalPDF, &run.Error,
		&startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, site2pdf.Errorf(site2pdf.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	run.State = site2pdf.RunState(state)
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}

	return &run, nil
}

// CreateCapture creates a new capture of an existing run.
func (s *RunService) CreateCapture(ctx context.Context, capture *site2pdf.Capture) error {
	if capture.RunID == "" {
		return site2pdf.Errorf(site2pdf.EINVALID, "capture run ID required")
	}
	if err := capture.Validate(); err != nil {
		return err
	}

	capture.ID = uuid.New().String()
	if capture.CapturedAt.IsZero() {
		capture.CapturedAt = time.Now()
	}
	capture.CapturedAt = capture.CapturedAt.UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO captures (id, run_id, page_url, origin, kind, path, width, height, hash, blank, position, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, capture.ID, capture.RunID, capture.PageURL, capture.Origin, string(capture.Kind), capture.Path,
		capture.Width, capture.Height, capture.Hash, capture.Blank, capture.Position,
		formatTime(capture.CapturedAt))

	return err
}

// FindCaptures returns the captures of a run ordered by position.
func (s *RunService) FindCaptures(ctx context.Context, runID string) ([]*site2pdf.Capture, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, page_url, origin, kind, path, width, height, hash, blank, position, captured_at
		FROM captures
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captures []*site2pdf.Capture
	for rows.Next() {
		var c site2pdf.Capture
		var kind, capturedAt string

		if err := rows.Scan(&c.ID, &c.RunID, &c.PageURL, &c.Origin, &kind, &c.Path,
			&c.Width, &c.Height, &c.Hash, &c.Blank, &c.Position, &capturedAt); err != nil {
			return nil, err
		}

		c.Kind = site2pdf.CaptureKind(kind)
		if c.CapturedAt, err = parseRFC3339(capturedAt, "captured_at"); err != nil {
			return nil, err
		}

		captures = append(captures, &c)
	}

	return captures, rows.Err()
}
