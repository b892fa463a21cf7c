package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/site2pdf"
	"github.com/fwojciec/site2pdf/pipeline"
)

// NewProgressPrinter reports run progress as plain lines on w.
func NewProgressPrinter(w io.Writer) pipeline.ProgressFunc {
	return func(e pipeline.Event) {
		switch e.Type {
		case pipeline.EventState:
			switch e.State {
			case site2pdf.StateDiscovering:
				fmt.Fprintln(w, "Discovering pages...")
			case site2pdf.StateAssembling:
				fmt.Fprintln(w, "Assembling PDF...")
			case site2pdf.StateTextLayering:
				fmt.Fprintln(w, "Adding text layer...")
			}
		case pipeline.EventCapture:
			if e.Capture.Kind == site2pdf.CaptureCollapsed {
				fmt.Fprintln(w, "  → Captured accordion content.")
				return
			}
			fmt.Fprintf(w, "[%d/%d] Processing: %s\n", e.Index+1, e.Total, e.URL)
		case pipeline.EventNoCollapsed:
			fmt.Fprintln(w, "  → No accordion content found.")
		case pipeline.EventSkip:
			fmt.Fprintf(w, "[%d/%d] Skipped %s: %s\n", e.Index+1, e.Total, e.URL, site2pdf.ErrorMessage(e.Error))
		case pipeline.EventBlank:
			fmt.Fprintf(w, "Skipping blank image: %s\n", e.Capture.Path)
		}
	}
}
