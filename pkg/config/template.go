package config

import (
	"errors"
	"fmt"
	"os"
)

// Template is the commented config written by `examocr init`.
const Template = `# examocr configuration
input_dir: pdfs
output_dir: output

# Documents processed at once. 1 keeps the original sequential order.
workers: 1

render:
  dpi: 300

ocr:
  engine: gosseract        # gosseract | tesseract-cli
  languages: [eng]
  timeout: 2m

parse:
  marker: "*"
  normalize_unicode: true
  preprocess:
    drop_page_numbers: false
    rejoin_hyphens: false

# Optional SQL mirror of parsed records.
catalog:
  driver: ""               # sqlite | postgres
  dsn: ""

watch:
  debounce: 2s
`

// WriteTemplate writes Template to path. Existing files are left alone
// unless force is set.
func WriteTemplate(path string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
		}
		return fmt.Errorf("write config: %w", err)
	}
	if _, err := f.WriteString(Template); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
