// Package scan produces the raw OCR text of a PDF.
package scan

import (
	"context"
	"fmt"
	"strings"

	"github.com/coolbeans/examocr/pkg/ocr"
	"github.com/coolbeans/examocr/pkg/render"
)

// Scanner renders a document and runs OCR on every page.
type Scanner struct {
	Renderer render.Renderer
	Engine   ocr.Engine
}

// New returns a Scanner over the given collaborators.
func New(renderer render.Renderer, engine ocr.Engine) *Scanner {
	return &Scanner{Renderer: renderer, Engine: engine}
}

// Scan returns the page texts in page order, each followed by a newline.
func (s *Scanner) Scan(ctx context.Context, path string) (string, error) {
	pages, err := s.Renderer.Render(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to convert PDF to images: %w", err)
	}

	var b strings.Builder
	for i, page := range pages {
		text, err := s.Engine.Recognize(ctx, page)
		if err != nil {
			return "", fmt.Errorf("ocr page %d: %w", i+1, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
