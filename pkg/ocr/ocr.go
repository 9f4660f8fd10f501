// Package ocr turns rendered page images into plain text.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrEngineUnavailable means the OCR backend cannot run on this machine.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// Engine recognizes the text of one page image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Options are shared by every engine.
type Options struct {
	// Languages are tesseract language codes, joined with "+".
	Languages []string

	// Variables are passed through as tesseract config variables.
	Variables map[string]string

	// Timeout bounds a single page. Zero means no limit.
	Timeout time.Duration
}

// New returns the engine registered under name.
func New(name string, opts Options) (Engine, error) {
	switch name {
	case "gosseract", "":
		return NewGosseractEngine(opts), nil
	case "tesseract-cli":
		return NewCommandEngine(opts), nil
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", name)
	}
}
