// Package render rasterizes PDF pages for OCR.
package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// ErrNoPages is returned for documents that open but contain no pages.
var ErrNoPages = errors.New("document has no pages")

// DefaultDPI matches the resolution tesseract is tuned for.
const DefaultDPI = 300

// Renderer converts a PDF into one PNG image per page, in page order.
type Renderer interface {
	Render(ctx context.Context, path string) ([][]byte, error)
}

// FitzRenderer renders pages with MuPDF.
type FitzRenderer struct {
	DPI float64
}

// Render opens path and rasterizes every page at r.DPI.
func (r FitzRenderer) Render(ctx context.Context, path string) ([][]byte, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	if numPages == 0 {
		return nil, ErrNoPages
	}

	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	pages := make([][]byte, 0, numPages)
	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		png, err := doc.ImagePNG(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}
		pages = append(pages, png)
	}
	return pages, nil
}
