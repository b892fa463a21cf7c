// Package site2pdf turns a website into a single searchable PDF.
// It discovers same-domain pages, captures a full-height screenshot of each
// (plus a second capture of any collapsed accordion content), drops blank
// frames, assembles the remaining images into a PDF with one page per image,
// and finally adds an OCR text layer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, gofpdf/).
package site2pdf
