package site2pdf

import (
	"path/filepath"
	"time"
)

// Browser engines.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// Settle policy names.
const (
	SettleFixed  = "fixed"
	SettleStable = "stable"
	SettleIdle   = "idle"
)

// Config holds every tunable of a run.
type Config struct {
	Engine           string        `yaml:"engine"`
	Browser          BrowserConfig `yaml:"browser"`
	Viewport         Viewport      `yaml:"viewport"`
	Timeout          time.Duration `yaml:"timeout"`
	Settle           SettleConfig  `yaml:"settle"`
	Crawl            CrawlConfig   `yaml:"crawl"`
	AccordionMarkers []string      `yaml:"accordion_markers"`
	BlankThreshold   float64       `yaml:"blank_threshold"`
	DPI              float64       `yaml:"dpi"`
	OCR              OCRConfig     `yaml:"ocr"`
	Output           OutputConfig  `yaml:"output"`
}

// BrowserConfig controls how the browser process is launched.
type BrowserConfig struct {
	ChromePath string `yaml:"chrome_path"`
	NoSandbox  bool   `yaml:"no_sandbox"`
}

// Viewport is the initial window size. Width is kept for every capture;
// Height is replaced by the content height before each screenshot.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SettleConfig selects the settle policy and its delays.
type SettleConfig struct {
	Policy       string        `yaml:"policy"`
	Crawl        time.Duration `yaml:"crawl"`
	Load         time.Duration `yaml:"load"`
	Resize       time.Duration `yaml:"resize"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxWait      time.Duration `yaml:"max_wait"`
}

// CrawlConfig bounds link discovery. Zero values mean unlimited.
type CrawlConfig struct {
	MaxPages      int     `yaml:"max_pages"`
	RatePerSecond float64 `yaml:"rate_per_second"`
}

// OCRConfig configures the external OCR engine.
type OCRConfig struct {
	Command  string `yaml:"command"`
	Language string `yaml:"language"`
	Deskew   bool   `yaml:"deskew"`
}

// OutputConfig names the artifacts of a run. Relative names are resolved against Dir.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Screenshots string `yaml:"screenshots"`
	Fragments   string `yaml:"fragments"`
	ImagePDF    string `yaml:"image_pdf"`
	FinalPDF    string `yaml:"final_pdf"`
	Manifest    string `yaml:"manifest"`
}

// Path resolves name against the output directory.
func (o OutputConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.Dir, name)
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Engine:   EngineRod,
		Viewport: Viewport{Width: 1920, Height: 3000},
		Timeout:  30 * time.Second,
		Settle: SettleConfig{
			Policy:       SettleFixed,
			Crawl:        1 * time.Second,
			Load:         2 * time.Second,
			Resize:       1 * time.Second,
			PollInterval: 250 * time.Millisecond,
			MaxWait:      10 * time.Second,
		},
		AccordionMarkers: append([]string(nil), DefaultAccordionMarkers...),
		BlankThreshold:   5,
		DPI:              DefaultDPI,
		OCR: OCRConfig{
			Command:  "ocrmypdf",
			Language: "eng",
			Deskew:   true,
		},
		Output: OutputConfig{
			Dir:         ".",
			Screenshots: "screenshots",
			Fragments:   "accordion_html",
			ImagePDF:    "output.pdf",
			FinalPDF:    "output_with_text.pdf",
			Manifest:    "manifest.db",
		},
	}
}

// Validate returns an EINVALID error describing the first invalid field.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineRod, EngineChromedp:
	default:
		return Errorf(EINVALID, "unknown engine %q (want %q or %q)", c.Engine, EngineRod, EngineChromedp)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return Errorf(EINVALID, "viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	switch c.Settle.Policy {
	case SettleFixed, SettleIdle:
	case SettleStable:
		if c.Settle.PollInterval <= 0 {
			return Errorf(EINVALID, "settle poll interval must be positive for the %q policy", SettleStable)
		}
	default:
		return Errorf(EINVALID, "unknown settle policy %q", c.Settle.Policy)
	}
	if c.Settle.Crawl < 0 || c.Settle.Load < 0 || c.Settle.Resize < 0 || c.Settle.MaxWait < 0 {
		return Errorf(EINVALID, "settle delays must not be negative")
	}
	if c.Crawl.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative")
	}
	if c.Crawl.RatePerSecond < 0 {
		return Errorf(EINVALID, "rate must not be negative")
	}
	if len(c.AccordionMarkers) == 0 {
		return Errorf(EINVALID, "at least one accordion marker required")
	}
	if c.BlankThreshold < 0 {
		return Errorf(EINVALID, "blank threshold must not be negative")
	}
	if c.DPI <= 0 {
		return Errorf(EINVALID, "dpi must be positive")
	}
	if c.OCR.Command == "" || c.OCR.Language == "" {
		return Errorf(EINVALID, "ocr command and language required")
	}
	if c.Output.Dir == "" || c.Output.Screenshots == "" || c.Output.Fragments == "" ||
		c.Output.ImagePDF == "" || c.Output.FinalPDF == "" {
		return Errorf(EINVALID, "output paths required")
	}
	return nil
}
