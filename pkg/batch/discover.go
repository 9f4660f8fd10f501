package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coolbeans/examocr/pkg/output"
)

// IsPDF reports whether name has a .pdf extension, in any case.
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// Discover returns the PDF files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsPDF(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// DiscoverRaw returns the document names of every raw OCR artifact in dir.
func DiscoverRaw(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !output.IsRawArtifact(entry.Name()) {
			continue
		}
		names = append(names, output.RawDocumentName(entry.Name()))
	}
	sort.Strings(names)
	return names, nil
}
