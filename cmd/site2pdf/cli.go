package main

import (
	"time"

	"github.com/fwojciec/site2pdf"
	"github.com/fwojciec/site2pdf/yaml"
)

// CLI defines the command-line interface structure for Kong. Zero-valued
// flags leave the configured value untouched.
type CLI struct {
	URL        string        `arg:"" optional:"" help:"Base URL of the site (prompted for when omitted)"`
	Config     string        `short:"c" type:"path" env:"SITE2PDF_CONFIG" help:"YAML configuration file"`
	Output     string        `short:"o" type:"path" help:"Output directory"`
	Engine     string        `short:"e" help:"Browser engine (rod or chromedp)"`
	Settle     string        `help:"Settle policy (fixed, stable or idle)"`
	Width      int           `short:"w" help:"Viewport width in pixels"`
	MaxPages   int           `help:"Stop discovery after this many pages"`
	Rate       float64       `help:"Maximum requests per second during discovery"`
	Timeout    time.Duration `short:"t" help:"Per-operation browser timeout"`
	NoManifest bool          `help:"Do not record the run in the SQLite manifest"`
	Verbose    bool          `short:"v" help:"Log every browser operation"`
}

// LoadConfig reads the configuration file, if any, applies flag overrides
// and validates the result.
func (c *CLI) LoadConfig() (*site2pdf.Config, error) {
	cfg := site2pdf.DefaultConfig()
	if c.Config != "" {
		loaded, err := yaml.Load(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if c.Output != "" {
		cfg.Output.Dir = c.Output
	}
	if c.Engine != "" {
		cfg.Engine = c.Engine
	}
	if c.Settle != "" {
		cfg.Settle.Policy = c.Settle
	}
	if c.Width != 0 {
		cfg.Viewport.Width = c.Width
	}
	if c.MaxPages != 0 {
		cfg.Crawl.MaxPages = c.MaxPages
	}
	if c.Rate != 0 {
		cfg.Crawl.RatePerSecond = c.Rate
	}
	if c.Timeout != 0 {
		cfg.Timeout = c.Timeout
	}
	if c.NoManifest {
		cfg.Output.Manifest = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
