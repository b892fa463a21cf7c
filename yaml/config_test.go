package yaml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/site2pdf"
	"github.com/fwojciec/site2pdf/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site2pdf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("overrides defaults with file values", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
engine: chromedp
viewport:
  width: 1280
timeout: 45s
settle:
  policy: stable
  load: 1500ms
crawl:
  max_pages: 50
  rate_per_second: 2.5
accordion_markers: [faq-item]
ocr:
  language: deu
  deskew: false
output:
  dir: /tmp/site
`)

		cfg, err := yaml.Load(path)

		require.NoError(t, err)
		assert.Equal(t, site2pdf.EngineChromedp, cfg.Engine)
		assert.Equal(t, 1280, cfg.Viewport.Width)
		assert.Equal(t, 3000, cfg.Viewport.Height)
		assert.Equal(t, 45*time.Second, cfg.Timeout)
		assert.Equal(t, site2pdf.SettleStable, cfg.Settle.Policy)
		assert.Equal(t, 1500*time.Millisecond, cfg.Settle.Load)
		assert.Equal(t, time.Second, cfg.Settle.Resize)
		assert.Equal(t, 50, cfg.Crawl.MaxPages)
		assert.InDelta(t, 2.5, cfg.Crawl.RatePerSecond, 1e-9)
		assert.Equal(t, []string{"faq-item"}, cfg.AccordionMarkers)
		assert.Equal(t, "deu", cfg.OCR.Language)
		assert.Equal(t, "ocrmypdf", cfg.OCR.Command)
		assert.False(t, cfg.OCR.Deskew)
		assert.Equal(t, "/tmp/site", cfg.Output.Dir)
		assert.Equal(t, "output.pdf", cfg.Output.ImagePDF)
	})

	t.Run("returns defaults for empty file", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Load(writeConfig(t, ""))

		require.NoError(t, err)
		assert.Equal(t, site2pdf.DefaultConfig(), *cfg)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Load(writeConfig(t, "engin: rod\n"))

		assert.Equal(t, site2pdf.EINVALID, site2pdf.ErrorCode(err))
	})

	t.Run("rejects malformed durations", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Load(writeConfig(t, "timeout: soon\n"))

		assert.Equal(t, site2pdf.EINVALID, site2pdf.ErrorCode(err))
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Load(writeConfig(t, "engine: firefox\n"))

		assert.Equal(t, site2pdf.EINVALID, site2pdf.ErrorCode(err))
	})

	t.Run("returns not found for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Load(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Equal(t, site2pdf.ENOTFOUND, site2pdf.ErrorCode(err))
	})
}
