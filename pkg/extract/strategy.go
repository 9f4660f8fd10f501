package extract

import "github.com/coolbeans/examocr/pkg/quiz"

// Outcome is the result of one parsing strategy.
type Outcome struct {
	Questions []quiz.Question
	Warnings  []quiz.Warning
}

// Empty reports whether no question was recovered.
func (o Outcome) Empty() bool {
	return len(o.Questions) == 0
}

// Strategy turns text into questions. Strategies never fail; an empty
// Outcome is a valid result.
type Strategy interface {
	Name() string
	Parse(text string) Outcome
}

// Chain is an ordered list of strategies tried until one recovers at least
// one question.
type Chain []Strategy

// Strategy names.
const (
	StrategyDirect     = "direct"
	StrategyStructured = "structured"
	StrategyInline     = "inline"

	// NoStrategy is reported by Chain.Parse when every strategy came back empty.
	NoStrategy = "none"
)

// DefaultChain is the structured parser followed by the inline fallback.
func DefaultChain(marker string) Chain {
	return Chain{
		StructuredParser{Marker: marker},
		InlineParser{},
	}
}

// Parse runs each strategy in order over the same text and returns the first
// non-empty outcome with the name of the strategy that produced it.
func (c Chain) Parse(text string) (Outcome, string) {
	for _, strategy := range c {
		if outcome := strategy.Parse(text); !outcome.Empty() {
			return outcome, strategy.Name()
		}
	}
	return Outcome{}, NoStrategy
}
