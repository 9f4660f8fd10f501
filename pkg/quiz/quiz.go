// Package quiz defines the structured question record produced from scanned
// multiple-choice exams, and its JSON encoding.
package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Question is one multiple-choice question recovered from OCR text.
type Question struct {
	// ID is 1-based and sequential in emission order within one parsing run.
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	// Answer is the option letter ("A".."D"), or empty when no option was marked.
	Answer string `json:"answer"`
	// Explanation is reserved for manual annotation and is never populated.
	Explanation string `json:"explanation"`
}

// WarningKind classifies a non-fatal observation made while parsing.
type WarningKind string

const (
	// WarningMultipleAnswers is raised when more than one option of a
	// question carries the answer marker. The last marked option wins.
	WarningMultipleAnswers WarningKind = "multiple-answers"
)

// Warning flags a record that was emitted but looks suspicious.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	QuestionID int         `json:"question_id"`
	Detail     string      `json:"detail"`
}

func (w Warning) String() string {
	return fmt.Sprintf("question %d: %s: %s", w.QuestionID, w.Kind, w.Detail)
}

// Encode writes questions as an indented JSON array. Non-ASCII and HTML
// characters are written literally. A nil slice encodes as [].
func Encode(w io.Writer, questions []Question) error {
	if questions == nil {
		questions = []Question{}
	}
	for i := range questions {
		if questions[i].Options == nil {
			questions = withEmptyOptions(questions)
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(questions); err != nil {
		return fmt.Errorf("encoding questions: %w", err)
	}
	return nil
}

// Marshal returns the Encode form of questions.
func Marshal(questions []Question) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, questions); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a JSON array of questions.
func Decode(r io.Reader) ([]Question, error) {
	var questions []Question
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	return questions, nil
}

// SequentialIDs reports whether the ids of questions are exactly 1..N.
func SequentialIDs(questions []Question) bool {
	for i, question := range questions {
		if question.ID != i+1 {
			return false
		}
	}
	return true
}

// withEmptyOptions returns a copy of questions with nil Options replaced by
// empty slices, leaving the caller's slice untouched.
func withEmptyOptions(questions []Question) []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	for i := range out {
		if out[i].Options == nil {
			out[i].Options = []string{}
		}
	}
	return out
}
