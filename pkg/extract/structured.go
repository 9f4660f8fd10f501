package extract

import (
	"strings"

	"github.com/coolbeans/examocr/pkg/quiz"
)

// accumulatorState is the state of the structured parser.
type accumulatorState int

const (
	// stateIdle holds no question. Option lines seen here have no owner and are ignored.
	stateIdle accumulatorState = iota

	// stateAccumulating holds a question and collects its options.
	stateAccumulating
)

// StructuredParser builds questions from normalized text, one statement per
// line, by walking the lines with an explicit accumulator.
type StructuredParser struct {
	// Marker is the trailing answer marker. Empty disables answer detection.
	Marker string
}

// NewStructuredParser returns a StructuredParser using DefaultMarker.
func NewStructuredParser() StructuredParser {
	return StructuredParser{Marker: DefaultMarker}
}

// Name implements Strategy.
func (p StructuredParser) Name() string { return StrategyStructured }

// Parse implements Strategy.
func (p StructuredParser) Parse(text string) Outcome {
	return p.ParseLines(SplitLines(text))
}

// ParseLines walks logical lines. A question line flushes the accumulator and
// starts a new question; an option line appends to it; end of input flushes.
// A question that collected no options is dropped on flush.
func (p StructuredParser) ParseLines(lines []string) Outcome {
	acc := &accumulator{marker: p.Marker}

	for _, rawLine := range lines {
		line := Classify(rawLine)

		switch line.Kind {
		case LineQuestion:
			acc.flush()
			acc.begin(line.Text)
		case LineOption:
			acc.addOption(line.Label, line.Text)
		}
	}
	acc.flush()

	return acc.outcome
}

// accumulator is the in-progress question of a StructuredParser run.
type accumulator struct {
	marker string
	state  accumulatorState

	question string
	options  []string
	answers  answerKey

	outcome Outcome
}

func (acc *accumulator) begin(questionText string) {
	acc.state = stateAccumulating
	acc.question = strings.TrimSpace(questionText)
	acc.options = nil
	acc.answers.reset()
}

func (acc *accumulator) addOption(letter string, text string) {
	if acc.state != stateAccumulating {
		return
	}

	optionText, marked := stripMarker(text, acc.marker)
	if marked {
		acc.answers.mark(letter)
	}
	acc.options = append(acc.options, optionText)
}

// flush emits the held question if it has text and at least one option,
// then returns to stateIdle.
func (acc *accumulator) flush() {
	if acc.state != stateAccumulating {
		return
	}
	defer acc.clear()

	if acc.question == "" || len(acc.options) == 0 {
		return
	}

	question := quiz.Question{
		ID:       len(acc.outcome.Questions) + 1,
		Question: acc.question,
		Options:  acc.options,
		Answer:   acc.answers.letter(),
	}
	acc.outcome.Questions = append(acc.outcome.Questions, question)

	if warning, flagged := acc.answers.warning(question.ID); flagged {
		acc.outcome.Warnings = append(acc.outcome.Warnings, warning)
	}
}

func (acc *accumulator) clear() {
	acc.state = stateIdle
	acc.question = ""
	acc.options = nil
	acc.answers.reset()
}
