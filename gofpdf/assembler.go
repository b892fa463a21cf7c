// Package gofpdf assembles page images into a PDF using github.com/jung-kurt/gofpdf.
package gofpdf

import (
	"context"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"

	"github.com/fwojciec/site2pdf"
	"github.com/jung-kurt/gofpdf"
)

// Ensure Assembler implements site2pdf.Assembler at compile time.
var _ site2pdf.Assembler = (*Assembler)(nil)

// imageTypes maps image.DecodeConfig format names to gofpdf image types.
var imageTypes = map[string]string{
	"png":  "PNG",
	"jpeg": "JPG",
}

// Assembler writes one page per image, each page exactly the size of its
// image at DPI, with the image covering the whole page.
type Assembler struct {
	DPI float64
}

// NewAssembler creates an Assembler. A non-positive dpi selects site2pdf.DefaultDPI.
func NewAssembler(dpi float64) *Assembler {
	if dpi <= 0 {
		dpi = site2pdf.DefaultDPI
	}
	return &Assembler{DPI: dpi}
}

// Assemble writes captures in order to outPath. The file is written under a
// temporary name and only renamed into place once complete, so a failed
// assembly leaves no partial document behind.
func (a *Assembler) Assemble(ctx context.Context, captures []*site2pdf.Capture, outPath string) (*site2pdf.Document, error) {
	if len(captures) == 0 {
		return nil, site2pdf.Errorf(site2pdf.EASSEMBLY, "no pages to assemble")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	doc := &site2pdf.Document{Path: outPath}
	for i, c := range captures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cfg, format, err := decodeConfig(c.Path)
		if err != nil {
			return nil, site2pdf.WrapError(site2pdf.EDECODE, err, "reading image %s", c.Path)
		}
		imageType, ok := imageTypes[format]
		if !ok {
			return nil, site2pdf.Errorf(site2pdf.EDECODE, "unsupported image format %q: %s", format, c.Path)
		}

		w := site2pdf.PxToMM(cfg.Width, a.DPI)
		h := site2pdf.PxToMM(cfg.Height, a.DPI)

		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		pdf.ImageOptions(c.Path, 0, 0, w, h, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, site2pdf.WrapError(site2pdf.EASSEMBLY, err, "adding page for %s", c.Path)
		}

		pw, ph, _ := pdf.PageSize(i + 1)
		doc.Pages = append(doc.Pages, site2pdf.ImagePage{
			ImagePath:   c.Path,
			PixelWidth:  cfg.Width,
			PixelHeight: cfg.Height,
			Width:       pw,
			Height:      ph,
		})
	}

	tmp := outPath + ".tmp"
	if err := pdf.OutputFileAndClose(tmp); err != nil {
		os.Remove(tmp)
		return nil, site2pdf.WrapError(site2pdf.EASSEMBLY, err, "writing %s", outPath)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return nil, site2pdf.WrapError(site2pdf.EASSEMBLY, err, "writing %s", outPath)
	}

	return doc, nil
}

func decodeConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	return image.DecodeConfig(f)
}
