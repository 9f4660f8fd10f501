package extract

import (
	"regexp"
	"strings"
)

var (
	// standalonePageNumberPattern matches lines containing only a page number.
	standalonePageNumberPattern = regexp.MustCompile(`^\d+\s*$`)

	// hyphenatedLineEndPattern matches lines ending with a hyphen (word break across lines).
	hyphenatedLineEndPattern = regexp.MustCompile(`[a-zA-Z]-$`)
)

// PreprocessOptions selects optional cleanup passes run on raw OCR lines
// before reflow. All passes are off by default.
type PreprocessOptions struct {
	// DropPageNumbers removes lines that hold only a number.
	DropPageNumbers bool `yaml:"drop_page_numbers"`

	// RejoinHyphens merges a word split across two lines with a hyphen.
	RejoinHyphens bool `yaml:"rejoin_hyphens"`
}

// Enabled reports whether any pass is selected.
func (opts PreprocessOptions) Enabled() bool {
	return opts.DropPageNumbers || opts.RejoinHyphens
}

// Preprocess applies the selected cleanup passes to lines.
func Preprocess(lines []string, opts PreprocessOptions) []string {
	if opts.DropPageNumbers {
		lines = dropPageNumbers(lines)
	}
	if opts.RejoinHyphens {
		lines = rejoinHyphenatedLines(lines)
	}
	return lines
}

func dropPageNumbers(lines []string) []string {
	var cleanedLines []string
	for _, line := range lines {
		if standalonePageNumberPattern.MatchString(strings.TrimSpace(line)) {
			continue
		}
		cleanedLines = append(cleanedLines, line)
	}
	return cleanedLines
}

// rejoinHyphenatedLines merges lines where a word is split across a line
// break with a hyphen. For example:
//
//	"Which of the following is a mam-"
//	"mal?"
//
// becomes:
//
//	"Which of the following is a mammal?"
func rejoinHyphenatedLines(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}

	var result []string
	for i := 0; i < len(lines); i++ {
		currentLine := lines[i]
		trimmedCurrent := strings.TrimRight(currentLine, " \t")

		if i+1 < len(lines) && hyphenatedLineEndPattern.MatchString(trimmedCurrent) {
			trimmedNext := strings.TrimSpace(lines[i+1])

			// Only a lowercase continuation is a split word; "A) ..." or a
			// capitalised line is a new statement.
			if len(trimmedNext) > 0 && trimmedNext[0] >= 'a' && trimmedNext[0] <= 'z' {
				result = append(result, trimmedCurrent[:len(trimmedCurrent)-1]+trimmedNext)
				i++
				continue
			}
		}

		result = append(result, currentLine)
	}

	return result
}
