// Package fs stores the intermediate artifacts of a run on the local filesystem.
package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/site2pdf"
)

// Ensure Workspace implements site2pdf.ArtifactStore at compile time.
var _ site2pdf.ArtifactStore = (*Workspace)(nil)

// Workspace writes screenshots and synthesized HTML documents into two
// directories. Files are written to a temporary name and renamed into
// place, so a reader never sees a partial artifact.
type Workspace struct {
	screenshotsDir string
	fragmentsDir   string
}

// NewWorkspace creates both artifact directories of out if they do not exist.
func NewWorkspace(out site2pdf.OutputConfig) (*Workspace, error) {
	w := &Workspace{
		screenshotsDir: out.Path(out.Screenshots),
		fragmentsDir:   out.Path(out.Fragments),
	}
	for _, dir := range []string{w.screenshotsDir, w.fragmentsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, site2pdf.WrapError(site2pdf.EINTERNAL, err, "creating %s", dir)
		}
	}
	return w, nil
}

// ScreenshotsDir returns the directory holding page images.
func (w *Workspace) ScreenshotsDir() string { return w.screenshotsDir }

// FragmentsDir returns the directory holding synthesized HTML documents.
func (w *Workspace) FragmentsDir() string { return w.fragmentsDir }

// SaveImage writes a screenshot. An existing file of the same name is replaced.
func (w *Workspace) SaveImage(name string, data []byte) (string, error) {
	return writeAtomic(w.screenshotsDir, name, data)
}

// SaveFragment writes a synthesized HTML document.
func (w *Workspace) SaveFragment(name string, html string) (string, error) {
	return writeAtomic(w.fragmentsDir, name, []byte(html))
}

func writeAtomic(dir, name string, data []byte) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", site2pdf.Errorf(site2pdf.EINVALID, "invalid artifact name %q", name)
	}

	path := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", site2pdf.WrapError(site2pdf.EINTERNAL, err, "writing %s", path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", site2pdf.WrapError(site2pdf.EINTERNAL, err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", site2pdf.WrapError(site2pdf.EINTERNAL, err, "writing %s", path)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", site2pdf.WrapError(site2pdf.EINTERNAL, err, "writing %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", site2pdf.WrapError(site2pdf.EINTERNAL, err, "writing %s", path)
	}
	return path, nil
}
