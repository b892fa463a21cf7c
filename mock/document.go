package mock

import (
	"context"
	"image"

	"github.com/fwojciec/site2pdf"
)

var _ site2pdf.Assembler = (*Assembler)(nil)

// Assembler is a mock implementation of site2pdf.Assembler.
type Assembler struct {
	AssembleFn func(ctx context.Context, captures []*site2pdf.Capture, outPath string) (*site2pdf.Document, error)
}

func (a *Assembler) Assemble(ctx context.Context, captures []*site2pdf.Capture, outPath string) (*site2pdf.Document, error) {
	return a.AssembleFn(ctx, captures, outPath)
}

var _ site2pdf.TextLayerApplier = (*TextLayerApplier)(nil)

// TextLayerApplier is a mock implementation of site2pdf.TextLayerApplier.
type TextLayerApplier struct {
	ApplyFn func(ctx context.Context, inPath, outPath string) error
}

func (a *TextLayerApplier) Apply(ctx context.Context, inPath, outPath string) error {
	return a.ApplyFn(ctx, inPath, outPath)
}

var _ site2pdf.BlankDetector = (*BlankDetector)(nil)

// BlankDetector is a mock implementation of site2pdf.BlankDetector.
type BlankDetector struct {
	IsBlankFn func(img image.Image) bool
}

func (d *BlankDetector) IsBlank(img image.Image) bool {
	return d.IsBlankFn(img)
}
