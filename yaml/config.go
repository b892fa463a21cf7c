// Package yaml loads site2pdf configuration files with gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/fwojciec/site2pdf"
	"gopkg.in/yaml.v3"
)

// Load reads the configuration file at path over site2pdf.DefaultConfig.
// Keys absent from the file keep their default values; unknown keys are
// rejected. The result is validated.
func Load(path string) (*site2pdf.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, site2pdf.Errorf(site2pdf.ENOTFOUND, "config file not found: %s", path)
		}
		return nil, site2pdf.WrapError(site2pdf.EINTERNAL, err, "reading config %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML document over site2pdf.DefaultConfig.
func Parse(data []byte) (*site2pdf.Config, error) {
	cfg := site2pdf.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, site2pdf.WrapError(site2pdf.EINVALID, err, "parsing config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
