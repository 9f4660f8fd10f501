package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/examocr/pkg/quiz"
)

var (
	// inlineNumberPattern matches a question number at the start of a segment.
	inlineNumberPattern = regexp.MustCompile(`^\d{1,3}[.)]`)

	// inlineLabelPattern matches a parenthesized lowercase option label.
	inlineLabelPattern = regexp.MustCompile(`\(([a-d])\)`)

	// inlineLabelPrefixPattern matches an option label at the start of a string.
	inlineLabelPrefixPattern = regexp.MustCompile(`^\([a-d]\)`)
)

// InlineParser handles text where options sit on the question line as
// "(a) ... (b) ...". It never detects an answer marker.
type InlineParser struct{}

// Name implements Strategy.
func (InlineParser) Name() string { return StrategyInline }

// Parse implements Strategy. The text is split into segments wherever a
// question number directly follows a closing parenthesis; each segment
// must start with a question number and contain at least one option.
func (InlineParser) Parse(text string) Outcome {
	var outcome Outcome

	for _, segment := range splitInlineSegments(strings.TrimSpace(text)) {
		numberLoc := inlineNumberPattern.FindStringIndex(segment)
		if numberLoc == nil {
			continue
		}
		body := strings.TrimSpace(segment[numberLoc[1]:])

		options := inlineOptions(body)
		if len(options) == 0 {
			continue
		}

		questionText := body
		if cut := strings.Index(body, "(a)"); cut >= 0 {
			questionText = body[:cut]
		}
		questionText = strings.TrimSpace(questionText)
		if questionText == "" {
			continue
		}

		outcome.Questions = append(outcome.Questions, quiz.Question{
			ID:       len(outcome.Questions) + 1,
			Question: questionText,
			Options:  options,
		})
	}

	return outcome
}

// splitInlineSegments cuts text after every ")" that is followed, possibly
// after whitespace, by a 1-3 digit number and "." or ")". The whitespace
// between the two is discarded.
func splitInlineSegments(text string) []string {
	var segments []string
	segmentStart := 0

	for index := 0; index < len(text); index++ {
		if text[index] != ')' {
			continue
		}
		next := index + 1
		for next < len(text) {
			r, size := utf8.DecodeRuneInString(text[next:])
			if !unicode.IsSpace(r) {
				break
			}
			next += size
		}
		if !inlineNumberPattern.MatchString(text[next:]) {
			continue
		}
		segments = append(segments, text[segmentStart:index+1])
		segmentStart = next
	}

	return append(segments, text[segmentStart:])
}

// inlineOptions returns the text of every "(x) text" option in body. An
// option runs until the next label or the end of body; an option that runs
// into any other "(" is not captured.
func inlineOptions(body string) []string {
	var options []string
	position := 0

	for position < len(body) {
		loc := inlineLabelPattern.FindStringIndex(body[position:])
		if loc == nil {
			break
		}
		labelStart, textStart := position+loc[0], position+loc[1]

		textEnd := strings.IndexByte(body[textStart:], '(')
		if textEnd < 0 {
			textEnd = len(body)
		} else {
			textEnd += textStart
		}

		endsAtLabel := textEnd == len(body) || inlineLabelPrefixPattern.MatchString(body[textEnd:])
		if textEnd == textStart || !endsAtLabel {
			position = labelStart + 1
			continue
		}

		options = append(options, strings.TrimSpace(body[textStart:textEnd]))
		position = textEnd
	}

	return options
}
