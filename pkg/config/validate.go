package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks a normalized config and reports the first problem found.
func Validate(cfg *Config) error {
	if cfg.Workers < 1 {
		return invalid("workers", "must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Render.DPI < 0 {
		return invalid("render.dpi", "must be positive, got %g", cfg.Render.DPI)
	}

	switch cfg.OCR.Engine {
	case EngineGosseract, EngineTesseractCLI:
	default:
		return invalid("ocr.engine", "unknown engine %q (want %s or %s)", cfg.OCR.Engine, EngineGosseract, EngineTesseractCLI)
	}
	if cfg.OCR.Timeout < 0 {
		return invalid("ocr.timeout", "must not be negative")
	}

	if utf8.RuneCountInString(cfg.Parse.Marker) != 1 {
		return invalid("parse.marker", "must be a single character, got %q", cfg.Parse.Marker)
	}

	switch cfg.Catalog.Driver {
	case "", DriverSQLite:
	case DriverPostgres:
		if cfg.Catalog.DSN == "" {
			return invalid("catalog.dsn", "is required for driver %s", DriverPostgres)
		}
	default:
		return invalid("catalog.driver", "unknown driver %q (want %s or %s)", cfg.Catalog.Driver, DriverSQLite, DriverPostgres)
	}

	if cfg.Watch.Debounce < 0 {
		return invalid("watch.debounce", "must not be negative")
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalid, field, fmt.Sprintf(format, args...))
}
