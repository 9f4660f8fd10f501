package extract

import "strings"

// Normalize repairs OCR line wrapping. Every question or option start begins
// a new logical line; any other non-blank line is appended, space separated,
// to the most recent logical line. Text before the first start line cannot
// be attributed and is dropped.
func Normalize(lines []string) []string {
	var logicalLines []string

	for _, rawLine := range lines {
		line := Classify(rawLine)

		switch {
		case line.Kind != LineContinuation:
			logicalLines = append(logicalLines, line.Raw)
		case line.Raw == "":
			continue
		case len(logicalLines) > 0:
			logicalLines[len(logicalLines)-1] += " " + line.Raw
		}
	}

	return logicalLines
}

// NormalizeText runs Normalize over the lines of text and renders the result
// one logical line per line, each terminated by a newline.
func NormalizeText(text string) string {
	return JoinLines(Normalize(SplitLines(text)))
}

// SplitLines splits text on newlines, accepting CRLF line endings.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// JoinLines renders lines with a trailing newline after each one.
func JoinLines(lines []string) string {
	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	return builder.String()
}
