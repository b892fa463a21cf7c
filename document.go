package site2pdf

import (
	"context"
	"image"
)

// DefaultDPI is the resolution assumed when converting screenshot pixels to page units.
const DefaultDPI = 96.0

// PxToMM converts a pixel length to millimetres at the given resolution.
func PxToMM(px int, dpi float64) float64 {
	return float64(px) * 25.4 / dpi
}

// ImagePage is one page of the assembled document. Width and Height are in millimetres.
type ImagePage struct {
	ImagePath   string
	PixelWidth  int
	PixelHeight int
	Width       float64
	Height      float64
}

// Document is an assembled page-per-image PDF.
type Document struct {
	Path  string
	Pages []ImagePage
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Assembler writes accepted captures into a PDF, one page per capture.
type Assembler interface {
	// Assemble performs no filtering; blank captures must already be removed.
	Assemble(ctx context.Context, captures []*Capture, outPath string) (*Document, error)
}

// TextLayerApplier adds a searchable text layer to a PDF.
type TextLayerApplier interface {
	Apply(ctx context.Context, inPath, outPath string) error
}

// BlankDetector decides whether a screenshot carries no content.
type BlankDetector interface {
	IsBlank(img image.Image) bool
}
