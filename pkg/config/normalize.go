package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/coolbeans/examocr/pkg/extract"
)

// ApplyEnv overrides fields from EXAMOCR_* environment variables.
func ApplyEnv(cfg *Config) {
	cfg.InputDir = envOr("EXAMOCR_INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = envOr("EXAMOCR_OUTPUT_DIR", cfg.OutputDir)
	cfg.Catalog.DSN = envOr("EXAMOCR_CATALOG_DSN", cfg.Catalog.DSN)
	if workers, err := strconv.Atoi(os.Getenv("EXAMOCR_WORKERS")); err == nil {
		cfg.Workers = workers
	}
}

// Normalize fills zero values with defaults, trims names, and resolves
// relative directories against baseDir.
func Normalize(cfg *Config, baseDir string) {
	defaults := Default()

	if cfg.InputDir == "" {
		cfg.InputDir = defaults.InputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaults.OutputDir
	}
	cfg.InputDir = resolvePath(baseDir, cfg.InputDir)
	cfg.OutputDir = resolvePath(baseDir, cfg.OutputDir)

	if cfg.Workers == 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.Render.DPI == 0 {
		cfg.Render.DPI = defaults.Render.DPI
	}

	cfg.OCR.Engine = strings.ToLower(strings.TrimSpace(cfg.OCR.Engine))
	if cfg.OCR.Engine == "" {
		cfg.OCR.Engine = defaults.OCR.Engine
	}
	if len(cfg.OCR.Languages) == 0 {
		cfg.OCR.Languages = defaults.OCR.Languages
	}
	if cfg.OCR.Timeout == 0 {
		cfg.OCR.Timeout = defaults.OCR.Timeout
	}

	if cfg.Parse.Marker == "" {
		cfg.Parse.Marker = extract.DefaultMarker
	}
	if cfg.Parse.NormalizeUnicode == nil {
		cfg.Parse.NormalizeUnicode = defaults.Parse.NormalizeUnicode
	}

	cfg.Catalog.Driver = strings.ToLower(strings.TrimSpace(cfg.Catalog.Driver))
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = defaults.Watch.Debounce
	}
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
