// Package pipeline turns a website into a searchable PDF: it discovers the
// pages of the site, screenshots each of them (plus their collapsed
// content), drops blank frames, assembles the rest into a PDF and adds a
// text layer.
package pipeline

import (
	"context"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"log/slog"
	"os"
	"runtime"

	"github.com/fwojciec/site2pdf"
	"golang.org/x/sync/errgroup"
)

// EventType identifies a progress event.
type EventType int

const (
	// EventState reports a state transition.
	EventState EventType = iota
	// EventCapture reports a saved capture.
	EventCapture
	// EventSkip reports a page whose primary capture failed.
	EventSkip
	// EventBlank reports a capture dropped as blank.
	EventBlank
	// EventNoCollapsed reports a page without collapsed content.
	EventNoCollapsed
)

// Event reports progress during a run. Index and Total locate the page in
// the sorted URL list.
type Event struct {
	Type    EventType
	State   site2pdf.RunState
	Index   int
	Total   int
	URL     string
	Capture *site2pdf.Capture
	Error   error
}

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event Event)

// Result holds the outcome of a run. On failure it carries everything
// produced before the failing stage.
type Result struct {
	Run      *site2pdf.Run
	URLs     []string
	Captures []*site2pdf.Capture
	Accepted []*site2pdf.Capture
	Document *site2pdf.Document
}

// Pipeline drives one run over a single shared browser session. Every
// collaborator is called from one goroutine except the BlankDetector.
type Pipeline struct {
	URLs      site2pdf.URLSource
	Renderer  site2pdf.Renderer
	Fetcher   site2pdf.Fetcher
	Collapsed site2pdf.CollapsedExtractor
	Store     site2pdf.ArtifactStore
	Blank     site2pdf.BlankDetector
	Assembler site2pdf.Assembler
	TextLayer site2pdf.TextLayerApplier

	// Runs, when set, records the run and every capture.
	Runs site2pdf.RunService

	ImagePDF string
	FinalPDF string

	Logger *slog.Logger
}

// Run processes the site rooted at seedURL. The seed is validated before
// anything else happens; an invalid seed returns EINVALID and no run.
//
// A page whose screenshot fails to load is skipped. A failure of the
// collapsed-content capture only loses that capture. Undecodable images,
// assembly failures and text-layer failures end the run in StateFailed;
// the image-only PDF survives a text-layer failure.
func (p *Pipeline) Run(ctx context.Context, seedURL string, progress ProgressFunc) (*Result, error) {
	if _, err := site2pdf.ParseSeedURL(seedURL); err != nil {
		return nil, err
	}

	r := &runner{
		Pipeline: p,
		progress: progress,
		logger:   p.baseLogger(),
		result:   &Result{Run: &site2pdf.Run{SeedURL: seedURL}},
	}
	if p.Runs != nil {
		if err := p.Runs.CreateRun(ctx, r.result.Run); err != nil {
			r.logger.Warn("failed to record run", "err", err)
		}
	}
	if id := r.result.Run.ID; id != "" {
		r.logger = r.logger.With("run", id)
	}

	if err := r.execute(ctx, seedURL); err != nil {
		r.finish(ctx, site2pdf.StateFailed, err)
		return r.result, err
	}
	r.finish(ctx, site2pdf.StateDone, nil)
	return r.result, nil
}

func (p *Pipeline) baseLogger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// runner holds the state of one run.
type runner struct {
	*Pipeline
	progress ProgressFunc
	logger   *slog.Logger
	result   *Result
}

func (r *runner) execute(ctx context.Context, seedURL string) error {
	r.transition(site2pdf.StateDiscovering)
	urls, err := r.URLs.Discover(ctx, seedURL)
	if err != nil {
		return err
	}
	r.result.URLs = urls
	r.logger.Info("discovered pages", "count", len(urls))

	r.transition(site2pdf.StateCapturing)
	for i, u := range urls {
		if err := r.capturePage(ctx, i, len(urls), u); err != nil {
			return err
		}
	}

	r.transition(site2pdf.StateAssembling)
	if err := r.filterBlank(ctx); err != nil {
		return err
	}
	r.recordCaptures(ctx)

	doc, err := r.Assembler.Assemble(ctx, r.result.Accepted, r.ImagePDF)
	if err != nil {
		return err
	}
	r.result.Document = doc
	r.result.Run.ImagePDF = doc.Path
	r.logger.Info("assembled image PDF", "path", doc.Path, "pages", doc.PageCount())

	r.transition(site2pdf.StateTextLayering)
	if err := r.TextLayer.Apply(ctx, r.ImagePDF, r.FinalPDF); err != nil {
		return err
	}
	r.result.Run.FinalPDF = r.FinalPDF
	return nil
}

// capturePage renders the page at index i and, when it has collapsed
// content, a second capture of that content. Only errors that must end the
// run are returned.
func (r *runner) capturePage(ctx context.Context, i, total int, pageURL string) error {
	logger := r.logger.With("url", pageURL, "index", i)

	primary, err := r.Renderer.Render(ctx, site2pdf.URLTarget(pageURL), site2pdf.ScreenshotName(i, site2pdf.CaptureMain))
	if err != nil {
		if ctx.Err() != nil || site2pdf.ErrorCode(err) != site2pdf.EFETCH {
			return err
		}
		logger.Warn("failed to capture page", "err", err)
		r.emit(Event{Type: EventSkip, Index: i, Total: total, URL: pageURL, Error: err})
		return nil
	}
	r.addCapture(primary, i, total, pageURL, site2pdf.CaptureMain)

	secondary, err := r.captureCollapsed(ctx, i, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("failed to capture collapsed content", "err", err)
		return nil
	}
	if secondary == nil {
		logger.Debug("no collapsed content")
		r.emit(Event{Type: EventNoCollapsed, Index: i, Total: total, URL: pageURL})
		return nil
	}
	r.addCapture(secondary, i, total, pageURL, site2pdf.CaptureCollapsed)
	return nil
}

// captureCollapsed fetches the page again, synthesizes a document from its
// collapsed content and renders it. It returns nil when nothing matched.
func (r *runner) captureCollapsed(ctx context.Context, i int, pageURL string) (*site2pdf.Capture, error) {
	html, err := r.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	content, err := r.Collapsed.Extract(html, pageURL)
	if err != nil || content == nil {
		return nil, err
	}
	path, err := r.Store.SaveFragment(site2pdf.FragmentName(i), content.HTML)
	if err != nil {
		return nil, err
	}
	target, err := site2pdf.FileTarget(path)
	if err != nil {
		return nil, err
	}
	return r.Renderer.Render(ctx, target, site2pdf.ScreenshotName(i, site2pdf.CaptureCollapsed))
}

func (r *runner) addCapture(c *site2pdf.Capture, i, total int, pageURL string, kind site2pdf.CaptureKind) {
	c.RunID = r.result.Run.ID
	c.PageURL = pageURL
	c.Kind = kind
	c.Position = len(r.result.Captures)
	r.result.Captures = append(r.result.Captures, c)
	r.emit(Event{Type: EventCapture, Index: i, Total: total, URL: pageURL, Capture: c})
}

// filterBlank decodes every capture concurrently and keeps, in order, the
// ones that are not blank.
func (r *runner) filterBlank(ctx context.Context) error {
	captures := r.result.Captures
	blank := make([]bool, len(captures))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range captures {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := decodeImage(c.Path)
			if err != nil {
				return site2pdf.WrapError(site2pdf.EDECODE, err, "decoding %s", c.Path)
			}
			blank[i] = r.Blank.IsBlank(img)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, c := range captures {
		c.Blank = blank[i]
		if c.Blank {
			r.logger.Warn("skipping blank image", "path", c.Path, "url", c.PageURL)
			r.emit(Event{Type: EventBlank, URL: c.PageURL, Capture: c})
			continue
		}
		r.result.Accepted = append(r.result.Accepted, c)
	}
	return nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func (r *runner) recordCaptures(ctx context.Context) {
	if r.Runs == nil || r.result.Run.ID == "" {
		return
	}
	for _, c := range r.result.Captures {
		if err := r.Runs.CreateCapture(ctx, c); err != nil {
			r.logger.Warn("failed to record capture", "path", c.Path, "err", err)
		}
	}
}

func (r *runner) transition(state site2pdf.RunState) {
	r.result.Run.State = state
	r.logger.Debug("state", "state", state)
	r.emit(Event{Type: EventState, State: state})
}

func (r *runner) finish(ctx context.Context, state site2pdf.RunState, err error) {
	r.transition(state)
	if err != nil {
		r.result.Run.Error = err.Error()
		r.logger.Error("run failed", "code", site2pdf.ErrorCode(err), "err", err)
	}
	if r.Runs == nil || r.result.Run.ID == "" {
		return
	}
	// The outcome is recorded even when ctx was cancelled.
	if err := r.Runs.FinishRun(context.WithoutCancel(ctx), r.result.Run); err != nil {
		r.logger.Warn("failed to record run outcome", "err", err)
	}
}

func (r *runner) emit(e Event) {
	if r.progress != nil {
		r.progress(e)
	}
}
