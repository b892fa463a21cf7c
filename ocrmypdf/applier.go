// Package ocrmypdf adds a searchable text layer to PDFs by running the
// ocrmypdf command-line tool.
package ocrmypdf

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/fwojciec/site2pdf"
)

// Ensure Applier implements site2pdf.TextLayerApplier at compile time.
var _ site2pdf.TextLayerApplier = (*Applier)(nil)

// maxStderr bounds how much of the tool's error output is kept in errors.
const maxStderr = 2048

// Applier runs ocrmypdf once per call. It does not retry and does not
// validate the produced file.
type Applier struct {
	command  string
	preArgs  []string
	language string
	deskew   bool
	env      []string
}

// Option configures an Applier.
type Option func(*Applier)

// WithCommand replaces the executable. args are passed before the OCR arguments.
func WithCommand(name string, args ...string) Option {
	return func(a *Applier) {
		a.command = name
		a.preArgs = args
	}
}

// WithEnv appends environment variables to the child process environment.
func WithEnv(env ...string) Option {
	return func(a *Applier) {
		a.env = append(a.env, env...)
	}
}

// NewApplier creates an Applier from cfg.
func NewApplier(cfg site2pdf.OCRConfig, opts ...Option) *Applier {
	a := &Applier{
		command:  cfg.Command,
		language: cfg.Language,
		deskew:   cfg.Deskew,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Args returns the arguments passed to the executable for one run.
func (a *Applier) Args(inPath, outPath string) []string {
	args := append([]string(nil), a.preArgs...)
	args = append(args, "-l", a.language)
	if a.deskew {
		args = append(args, "--deskew")
	}
	return append(args, inPath, outPath)
}

// Apply writes a copy of inPath with recognized text to outPath.
func (a *Applier) Apply(ctx context.Context, inPath, outPath string) error {
	cmd := exec.CommandContext(ctx, a.command, a.Args(inPath, outPath)...)
	if len(a.env) > 0 {
		cmd.Env = append(os.Environ(), a.env...)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return site2pdf.WrapError(site2pdf.EOCR, err, "%s failed: %s", a.command, tail(stderr.String()))
		}
		return site2pdf.WrapError(site2pdf.EOCR, err, "running %s", a.command)
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = "..." + s[len(s)-maxStderr:]
	}
	return s
}
