package extract

import (
	"regexp"
	"strings"
)

// LineKind tags a physical OCR line with the role it plays in a question.
type LineKind int

const (
	// LineContinuation is text that belongs to the preceding question or option.
	LineContinuation LineKind = iota

	// LineQuestion starts a question: 1-3 digits, "." or ")", whitespace.
	LineQuestion

	// LineOption starts an option: a letter A-D, "." or ")", whitespace.
	LineOption
)

func (k LineKind) String() string {
	switch k {
	case LineQuestion:
		return "question"
	case LineOption:
		return "option"
	default:
		return "continuation"
	}
}

// Line is the classification of one trimmed physical line.
type Line struct {
	Kind LineKind

	// Label is the question number or option letter. Empty for continuations.
	Label string

	// Text is the line content after the label and its separator.
	// For continuations it equals Raw.
	Text string

	// Raw is the trimmed line as read.
	Raw string
}

var (
	// questionStartPattern matches "12. text" and "12) text".
	questionStartPattern = regexp.MustCompile(`(?s)^(\d{1,3})[.)][\s\p{Z}]+(.*)$`)

	// optionStartPattern matches "B. text" and "B) text".
	optionStartPattern = regexp.MustCompile(`(?s)^([A-D])[.)][\s\p{Z}]+(.*)$`)
)

// Classify trims a physical line and decides whether it starts a question,
// starts an option, or continues the previous statement.
func Classify(rawLine string) Line {
	trimmedLine := strings.TrimSpace(rawLine)

	if match := questionStartPattern.FindStringSubmatch(trimmedLine); match != nil {
		return Line{Kind: LineQuestion, Label: match[1], Text: match[2], Raw: trimmedLine}
	}
	if match := optionStartPattern.FindStringSubmatch(trimmedLine); match != nil {
		return Line{Kind: LineOption, Label: match[1], Text: match[2], Raw: trimmedLine}
	}
	return Line{Kind: LineContinuation, Text: trimmedLine, Raw: trimmedLine}
}
