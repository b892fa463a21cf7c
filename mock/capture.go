package mock

import (
	"context"

	"github.com/fwojciec/site2pdf"
)

var _ site2pdf.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of site2pdf.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, target site2pdf.Target, name string) (*site2pdf.Capture, error)
}

func (r *Renderer) Render(ctx context.Context, target site2pdf.Target, name string) (*site2pdf.Capture, error) {
	return r.RenderFn(ctx, target, name)
}

var _ site2pdf.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of site2pdf.ArtifactStore.
type ArtifactStore struct {
	SaveImageFn    func(name string, data []byte) (string, error)
	SaveFragmentFn func(name string, html string) (string, error)
}

func (s *ArtifactStore) SaveImage(name string, data []byte) (string, error) {
	return s.SaveImageFn(name, data)
}

func (s *ArtifactStore) SaveFragment(name string, html string) (string, error) {
	return s.SaveFragmentFn(name, html)
}

var _ site2pdf.CollapsedExtractor = (*CollapsedExtractor)(nil)

// CollapsedExtractor is a mock implementation of site2pdf.CollapsedExtractor.
type CollapsedExtractor struct {
	ExtractFn func(html string, sourceURL string) (*site2pdf.CollapsedContent, error)
}

func (e *CollapsedExtractor) Extract(html string, sourceURL string) (*site2pdf.CollapsedContent, error) {
	return e.ExtractFn(html, sourceURL)
}
