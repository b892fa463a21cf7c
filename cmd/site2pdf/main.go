package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/site2pdf"
	"github.com/fwojciec/site2pdf/chromedp"
	"github.com/fwojciec/site2pdf/crawl"
	"github.com/fwojciec/site2pdf/fs"
	"github.com/fwojciec/site2pdf/gofpdf"
	"github.com/fwojciec/site2pdf/goquery"
	"github.com/fwojciec/site2pdf/luma"
	"github.com/fwojciec/site2pdf/ocrmypdf"
	"github.com/fwojciec/site2pdf/pipeline"
	"github.com/fwojciec/site2pdf/render"
	"github.com/fwojciec/site2pdf/rod"
	s2pslog "github.com/fwojciec/site2pdf/slog"
	"github.com/fwojciec/site2pdf/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read for the base URL when it is not given as an argument.
	Stdin io.Reader

	// OpenSession starts the browser session. Defaults to the engine
	// selected in the configuration.
	OpenSession func(cfg *site2pdf.Config) (site2pdf.Session, error)

	// SQLite database holding the run manifest.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin:       os.Stdin,
		OpenSession: openSession,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("site2pdf"),
		kong.Description("Capture every page of a website into a searchable PDF"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := cli.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", site2pdf.ErrorMessage(err))
		return err
	}

	seedURL := cli.URL
	if seedURL == "" {
		if seedURL, err = m.prompt(stdout); err != nil {
			return err
		}
	}
	if _, err := site2pdf.ParseSeedURL(seedURL); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", site2pdf.ErrorMessage(err))
		return err
	}

	logger := newLogger(stderr, cli.Verbose)

	workspace, err := fs.NewWorkspace(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	session, err := m.OpenSession(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer session.Close()

	p, err := m.buildPipeline(cfg, session, workspace, logger, cli.Verbose)
	if err != nil {
		return err
	}
	defer m.Close()

	result, err := p.Run(ctx, seedURL, NewProgressPrinter(stdout))
	if err != nil {
		if result != nil && result.Run.ImagePDF != "" {
			fmt.Fprintf(stderr, "Image-only PDF kept at: %s\n", result.Run.ImagePDF)
		}
		return err
	}

	fmt.Fprintf(stdout, "PDF with OCR saved to: %s\n", result.Run.FinalPDF)
	return nil
}

// prompt reads a single line holding the base URL.
func (m *Main) prompt(stdout io.Writer) (string, error) {
	fmt.Fprint(stdout, "Enter the base URL: ")
	line, err := bufio.NewReader(m.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read base URL: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (m *Main) buildPipeline(cfg *site2pdf.Config, session site2pdf.Session, workspace *fs.Workspace, logger *slog.Logger, verbose bool) (*pipeline.Pipeline, error) {
	crawlSettle, err := render.NewSettlePolicy(cfg.Settle, cfg.Settle.Crawl)
	if err != nil {
		return nil, err
	}
	loadSettle, err := render.NewSettlePolicy(cfg.Settle, cfg.Settle.Load)
	if err != nil {
		return nil, err
	}
	resizeSettle, err := render.NewSettlePolicy(cfg.Settle, cfg.Settle.Resize)
	if err != nil {
		return nil, err
	}

	var renderer site2pdf.Renderer = &render.Renderer{
		Session: session,
		Store:   workspace,
		Load:    loadSettle,
		Resize:  resizeSettle,
		Width:   cfg.Viewport.Width,
		Height:  cfg.Viewport.Height,
	}
	var crawlFetcher site2pdf.Fetcher = &render.Fetcher{Session: session, Settle: crawlSettle}
	var pageFetcher site2pdf.Fetcher = &render.Fetcher{Session: session, Settle: loadSettle}
	var textLayer site2pdf.TextLayerApplier = ocrmypdf.NewApplier(cfg.OCR)
	if verbose {
		renderer = s2pslog.NewLoggingRenderer(renderer, logger)
		crawlFetcher = s2pslog.NewLoggingFetcher(crawlFetcher, logger)
		pageFetcher = s2pslog.NewLoggingFetcher(pageFetcher, logger)
		textLayer = s2pslog.NewLoggingApplier(textLayer, logger)
	}

	p := &pipeline.Pipeline{
		URLs: &crawl.Discoverer{
			Fetcher:     crawlFetcher,
			Links:       goquery.NewLinkExtractor(),
			RateLimiter: crawl.NewDomainLimiter(cfg.Crawl.RatePerSecond),
			MaxPages:    cfg.Crawl.MaxPages,
			Logger:      logger,
		},
		Renderer:  renderer,
		Fetcher:   pageFetcher,
		Collapsed: goquery.NewCollapsedExtractor(cfg.AccordionMarkers...),
		Store:     workspace,
		Blank:     luma.NewDetector(cfg.BlankThreshold),
		Assembler: gofpdf.NewAssembler(cfg.DPI),
		TextLayer: textLayer,
		ImagePDF:  cfg.Output.Path(cfg.Output.ImagePDF),
		FinalPDF:  cfg.Output.Path(cfg.Output.FinalPDF),
		Logger:    logger,
	}

	if cfg.Output.Manifest != "" {
		path := cfg.Output.Path(cfg.Output.Manifest)
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			m.DB = nil
			return nil, fmt.Errorf("failed to open manifest at %q (use --no-manifest to skip it): %w", path, err)
		}
		p.Runs = sqlite.NewRunService(m.DB)
	}

	return p, nil
}

func openSession(cfg *site2pdf.Config) (site2pdf.Session, error) {
	if cfg.Engine == site2pdf.EngineChromedp {
		s, err := chromedp.NewSession(
			chromedp.WithChromePath(cfg.Browser.ChromePath),
			chromedp.WithNoSandbox(cfg.Browser.NoSandbox),
			chromedp.WithTimeout(cfg.Timeout),
			chromedp.WithViewport(cfg.Viewport.Width, cfg.Viewport.Height),
		)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := rod.NewSession(
		rod.WithChromePath(cfg.Browser.ChromePath),
		rod.WithNoSandbox(cfg.Browser.NoSandbox),
		rod.WithTimeout(cfg.Timeout),
		rod.WithViewport(cfg.Viewport.Width, cfg.Viewport.Height),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
