package gofpdf_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/site2pdf"
	"github.com/fwojciec/site2pdf/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int) *site2pdf.Capture {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return &site2pdf.Capture{Path: path, Width: w, Height: h}
}

func TestAssembler_Assemble(t *testing.T) {
	t.Parallel()

	t.Run("creates one page per image sized to the image", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		captures := []*site2pdf.Capture{
			writePNG(t, dir, "page_0000_main.png", 96, 192),
			writePNG(t, dir, "page_0000_accordion.png", 48, 48),
		}
		out := filepath.Join(dir, "output.pdf")

		doc, err := gofpdf.NewAssembler(0).Assemble(context.Background(), captures, out)

		require.NoError(t, err)
		require.Equal(t, 2, doc.PageCount())
		assert.Equal(t, out, doc.Path)
		assert.InDelta(t, 25.4, doc.Pages[0].Width, 1e-6)
		assert.InDelta(t, 50.8, doc.Pages[0].Height, 1e-6)
		assert.InDelta(t, 12.7, doc.Pages[1].Width, 1e-6)
		assert.Equal(t, 96, doc.Pages[0].PixelWidth)
		assert.Equal(t, captures[1].Path, doc.Pages[1].ImagePath)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	})

	t.Run("keeps landscape images landscape", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		captures := []*site2pdf.Capture{writePNG(t, dir, "wide.png", 200, 50)}

		doc, err := gofpdf.NewAssembler(0).Assemble(context.Background(), captures, filepath.Join(dir, "out.pdf"))

		require.NoError(t, err)
		assert.Greater(t, doc.Pages[0].Width, doc.Pages[0].Height)
	})

	t.Run("uses configured resolution", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		captures := []*site2pdf.Capture{writePNG(t, dir, "a.png", 72, 72)}

		doc, err := gofpdf.NewAssembler(72).Assemble(context.Background(), captures, filepath.Join(dir, "out.pdf"))

		require.NoError(t, err)
		assert.InDelta(t, 25.4, doc.Pages[0].Width, 1e-6)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "out.pdf")

		_, err := gofpdf.NewAssembler(0).Assemble(context.Background(), nil, out)

		assert.Equal(t, site2pdf.EASSEMBLY, site2pdf.ErrorCode(err))
		assert.NoFileExists(t, out)
	})

	t.Run("reports unreadable image as decode error without writing output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		bad := filepath.Join(dir, "bad.png")
		require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))
		captures := []*site2pdf.Capture{
			writePNG(t, dir, "good.png", 10, 10),
			{Path: bad, Width: 10, Height: 10},
		}
		out := filepath.Join(dir, "out.pdf")

		_, err := gofpdf.NewAssembler(0).Assemble(context.Background(), captures, out)

		assert.Equal(t, site2pdf.EDECODE, site2pdf.ErrorCode(err))
		assert.NoFileExists(t, out)
	})

	t.Run("reports missing image as decode error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		captures := []*site2pdf.Capture{{Path: filepath.Join(dir, "missing.png"), Width: 1, Height: 1}}

		_, err := gofpdf.NewAssembler(0).Assemble(context.Background(), captures, filepath.Join(dir, "out.pdf"))

		assert.Equal(t, site2pdf.EDECODE, site2pdf.ErrorCode(err))
	})

	t.Run("reports unwritable output as assembly error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		captures := []*site2pdf.Capture{writePNG(t, dir, "a.png", 10, 10)}

		_, err := gofpdf.NewAssembler(0).Assemble(context.Background(), captures, filepath.Join(dir, "missing", "out.pdf"))

		assert.Equal(t, site2pdf.EASSEMBLY, site2pdf.ErrorCode(err))
	})
}
