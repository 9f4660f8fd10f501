package extract

import (
	"regexp"
	"strings"

	"github.com/coolbeans/examocr/pkg/quiz"
)

var (
	// directQuestionPattern matches a question number anywhere in the text.
	directQuestionPattern = regexp.MustCompile(`\d+\.[\s\p{Z}]+`)

	// directOptionLabelPattern matches the start of an option line: "\nB)".
	directOptionLabelPattern = regexp.MustCompile(`\n[A-D]\)`)

	// directNextQuestionPattern matches the number that ends an options block.
	directNextQuestionPattern = regexp.MustCompile(`\n\d+\.`)

	// directOptionLinePattern matches one option line inside a block.
	directOptionLinePattern = regexp.MustCompile(`^([A-D])\)[\s\p{Z}]+(.*)`)
)

// directOptionLabelLen is len("\nA)").
const directOptionLabelLen = 3

// DirectExtractor recovers questions from raw OCR text in a single pass by
// matching "N. question" followed by at least two "X) option" lines.
type DirectExtractor struct {
	// Marker is the trailing answer marker. Empty disables answer detection.
	Marker string
}

// NewDirectExtractor returns a DirectExtractor using DefaultMarker.
func NewDirectExtractor() DirectExtractor {
	return DirectExtractor{Marker: DefaultMarker}
}

// Name implements Strategy.
func (d DirectExtractor) Name() string { return StrategyDirect }

// Parse implements Strategy by calling Extract.
func (d DirectExtractor) Parse(text string) Outcome { return d.Extract(text) }

// Extract scans text for question blocks in document order.
//
// A block starts at a question number "N." plus whitespace. The question body
// runs to the first option label that is followed by a second one; the
// options block runs from that label to the next "\nN." after the second
// option, or to the end of text. Lines in the block that are not
// "X) text" are skipped.
func (d DirectExtractor) Extract(text string) Outcome {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var outcome Outcome
	position := 0

	for position < len(text) {
		block, ok := d.nextBlock(text, position)
		if !ok {
			break
		}
		position = block.end

		question, key := d.parseBlock(text, block)
		if question.Question == "" || len(question.Options) == 0 {
			continue
		}

		question.ID = len(outcome.Questions) + 1
		outcome.Questions = append(outcome.Questions, question)
		if warning, flagged := key.warning(question.ID); flagged {
			outcome.Warnings = append(outcome.Warnings, warning)
		}
	}

	return outcome
}

// directBlock holds byte offsets of one matched question block.
type directBlock struct {
	bodyStart    int
	optionsStart int
	end          int
}

func (d DirectExtractor) nextBlock(text string, position int) (directBlock, bool) {
	numberLoc := directQuestionPattern.FindStringIndex(text[position:])
	if numberLoc == nil {
		return directBlock{}, false
	}
	bodyStart := position + numberLoc[1]

	// The question body holds at least one character.
	firstLabel := indexFrom(directOptionLabelPattern, text, bodyStart+1)
	if firstLabel < 0 {
		return directBlock{}, false
	}

	// The first option holds at least one character before the second label.
	secondLabel := indexFrom(directOptionLabelPattern, text, firstLabel+directOptionLabelLen+1)
	if secondLabel < 0 || secondLabel+directOptionLabelLen >= len(text) {
		return directBlock{}, false
	}

	end := indexFrom(directNextQuestionPattern, text, secondLabel+directOptionLabelLen+1)
	if end < 0 {
		end = len(text)
	}

	return directBlock{bodyStart: bodyStart, optionsStart: firstLabel, end: end}, true
}

func (d DirectExtractor) parseBlock(text string, block directBlock) (quiz.Question, *answerKey) {
	questionText := strings.TrimSpace(text[block.bodyStart:block.optionsStart])
	question := quiz.Question{
		Question: strings.ReplaceAll(questionText, "\n", " "),
		Options:  []string{},
	}

	key := &answerKey{}
	optionsBlock := strings.TrimSpace(text[block.optionsStart:block.end])

	for _, rawLine := range strings.Split(optionsBlock, "\n") {
		match := directOptionLinePattern.FindStringSubmatch(strings.TrimSpace(rawLine))
		if match == nil {
			continue
		}

		optionText, marked := stripMarker(match[2], d.Marker)
		if marked {
			key.mark(match[1])
		}
		question.Options = append(question.Options, optionText)
	}

	question.Answer = key.letter()
	return question, key
}

// indexFrom returns the absolute index of the first match of pattern in
// text at or after offset, or -1.
func indexFrom(pattern *regexp.Regexp, text string, offset int) int {
	if offset > len(text) {
		return -1
	}
	loc := pattern.FindStringIndex(text[offset:])
	if loc == nil {
		return -1
	}
	return offset + loc[0]
}
