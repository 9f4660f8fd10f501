package extract

import (
	"fmt"
	"strings"

	"github.com/coolbeans/examocr/pkg/quiz"
)

// DefaultMarker is the trailing character that marks the correct option.
const DefaultMarker = "*"

// stripMarker trims text and removes any trailing answer markers together
// with the whitespace in front of them. It reports whether a marker was found.
func stripMarker(text string, marker string) (string, bool) {
	text = strings.TrimSpace(text)
	if marker == "" || !strings.HasSuffix(text, marker) {
		return text, false
	}
	for strings.HasSuffix(text, marker) {
		text = strings.TrimSpace(strings.TrimSuffix(text, marker))
	}
	return text, true
}

// answerKey tracks the marked option letters of a single question.
type answerKey struct {
	marked []string
}

func (key *answerKey) mark(letter string) {
	key.marked = append(key.marked, letter)
}

// letter returns the last marked letter, or "" when nothing was marked.
func (key *answerKey) letter() string {
	if len(key.marked) == 0 {
		return ""
	}
	return key.marked[len(key.marked)-1]
}

// warning returns a multiple-answers warning when more than one option was marked.
func (key *answerKey) warning(questionID int) (quiz.Warning, bool) {
	if len(key.marked) < 2 {
		return quiz.Warning{}, false
	}
	return quiz.Warning{
		Kind:       quiz.WarningMultipleAnswers,
		QuestionID: questionID,
		Detail:     fmt.Sprintf("options %s are all marked, keeping %s", strings.Join(key.marked, ", "), key.letter()),
	}, true
}

func (key *answerKey) reset() {
	key.marked = nil
}
