// Package config loads the examocr YAML configuration.
package config

import (
	"time"

	"github.com/coolbeans/examocr/pkg/extract"
)

// DefaultFileName is the config file looked up when --config is not given.
const DefaultFileName = "examocr.yaml"

// Config is the full examocr configuration.
type Config struct {
	// InputDir holds the PDFs to process. Relative paths resolve against
	// the config file's directory.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the per-document artifacts and the manifest.
	OutputDir string `yaml:"output_dir"`

	// Workers bounds how many documents run at once. 1 is strictly sequential.
	Workers int `yaml:"workers"`

	Render  RenderConfig  `yaml:"render"`
	OCR     OCRConfig     `yaml:"ocr"`
	Parse   ParseConfig   `yaml:"parse"`
	Catalog CatalogConfig `yaml:"catalog"`
	Watch   WatchConfig   `yaml:"watch"`
}

// RenderConfig configures PDF page rendering.
type RenderConfig struct {
	DPI float64 `yaml:"dpi"`
}

// OCR engine names.
const (
	EngineGosseract    = "gosseract"
	EngineTesseractCLI = "tesseract-cli"
)

// OCRConfig configures the OCR engine.
type OCRConfig struct {
	Engine    string            `yaml:"engine"`
	Languages []string          `yaml:"languages"`
	Timeout   time.Duration     `yaml:"timeout"`
	Variables map[string]string `yaml:"variables,omitempty"`
}

// ParseConfig configures the text parsers.
type ParseConfig struct {
	// Marker is the single trailing character that marks the correct option.
	Marker string `yaml:"marker"`

	// NormalizeUnicode converts OCR text to NFC before parsing. Defaults to true.
	NormalizeUnicode *bool `yaml:"normalize_unicode"`

	Preprocess extract.PreprocessOptions `yaml:"preprocess"`
}

// Catalog drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// CatalogConfig configures the optional SQL mirror of parsed records.
// An empty Driver disables it.
type CatalogConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce is the quiet period after the last change before a run starts.
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	normalizeUnicode := true
	return Config{
		InputDir:  "pdfs",
		OutputDir: "output",
		Workers:   1,
		Render:    RenderConfig{DPI: 300},
		OCR: OCRConfig{
			Engine:    EngineGosseract,
			Languages: []string{"eng"},
			Timeout:   2 * time.Minute,
		},
		Parse: ParseConfig{
			Marker:           extract.DefaultMarker,
			NormalizeUnicode: &normalizeUnicode,
		},
		Watch: WatchConfig{Debounce: 2 * time.Second},
	}
}

// ExtractOptions converts the parse section into extract.Options.
func (cfg Config) ExtractOptions() extract.Options {
	opts := extract.Options{
		Marker:     cfg.Parse.Marker,
		Preprocess: cfg.Parse.Preprocess,
	}
	if cfg.Parse.NormalizeUnicode == nil || *cfg.Parse.NormalizeUnicode {
		opts.NormalizeUnicode = true
	}
	return opts
}
