package site2pdf

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"
)

// Target is what a Renderer navigates to: either a remote page or a
// locally written HTML document.
type Target struct {
	URL   string
	Local bool
}

// URLTarget returns a Target for a remote page.
func URLTarget(rawURL string) Target {
	return Target{URL: rawURL}
}

// FileTarget returns a Target for a local file, addressed by an absolute file:// URL.
func FileTarget(path string) (Target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Target{}, Errorf(EINVALID, "resolving %q: %v", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return Target{URL: u.String(), Local: true}, nil
}

// String returns the navigable URL of the target.
func (t Target) String() string {
	return t.URL
}

// CaptureKind distinguishes the primary screenshot of a page from the
// screenshot of its collapsed content.
type CaptureKind string

// Capture kinds.
const (
	CaptureMain      CaptureKind = "main"
	CaptureCollapsed CaptureKind = "collapsed"
)

// ScreenshotName returns the artifact name of the capture of the page at
// index in the sorted URL list.
func ScreenshotName(index int, kind CaptureKind) string {
	suffix := "main"
	if kind == CaptureCollapsed {
		suffix = "accordion"
	}
	return fmt.Sprintf("page_%04d_%s.png", index, suffix)
}

// FragmentName returns the artifact name of the collapsed-content document
// synthesized for the page at index.
func FragmentName(index int) string {
	return fmt.Sprintf("accordion_%04d.html", index)
}

// Capture is one rendered screenshot and where it came from.
type Capture struct {
	ID         string      `json:"id"`
	RunID      string      `json:"runId"`
	PageURL    string      `json:"pageUrl"`
	Origin     string      `json:"origin"`
	Kind       CaptureKind `json:"kind"`
	Path       string      `json:"path"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Hash       string      `json:"hash"`
	Blank      bool        `json:"blank"`
	Position   int         `json:"position"`
	CapturedAt time.Time   `json:"capturedAt"`
}

// Validate returns an error if the capture contains invalid fields.
func (c *Capture) Validate() error {
	if c.Path == "" {
		return Errorf(EINVALID, "capture path required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return Errorf(EINVALID, "capture dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// Renderer produces full-page screenshots.
type Renderer interface {
	// Render navigates to target and saves a full-height screenshot as the
	// artifact called name. Width and Height of the returned Capture are
	// measured from the saved image.
	Render(ctx context.Context, target Target, name string) (*Capture, error)
}

// ArtifactStore persists intermediate files of a run.
type ArtifactStore interface {
	// SaveImage writes a screenshot and returns its path.
	SaveImage(name string, data []byte) (string, error)

	// SaveFragment writes a synthesized HTML document and returns its path.
	SaveFragment(name string, html string) (string, error)
}
