package extract

import (
	"reflect"
	"testing"

	"github.com/coolbeans/examocr/pkg/quiz"
)

func TestInlineParser_ParenthesizedOptions(t *testing.T) {
	outcome := InlineParser{}.Parse("1) Some question (a) Opt1 (b) Opt2 (c) Opt3\n")

	expected := []quiz.Question{{
		ID:       1,
		Question: "Some question",
		Options:  []string{"Opt1", "Opt2", "Opt3"},
	}}
	if !reflect.DeepEqual(outcome.Questions, expected) {
		t.Errorf("Parse() =\n%+v\nwant\n%+v", outcome.Questions, expected)
	}
}

func TestInlineParser_NeverDetectsAnswer(t *testing.T) {
	outcome := InlineParser{}.Parse("1. Pick (a) one* (b) two")
	if len(outcome.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(outcome.Questions))
	}
	if outcome.Questions[0].Answer != "" {
		t.Errorf("expected empty answer, got %q", outcome.Questions[0].Answer)
	}
	if outcome.Questions[0].Options[0] != "one*" {
		t.Errorf("expected option text untouched, got %q", outcome.Questions[0].Options[0])
	}
}

func TestInlineParser_SplitsAfterClosingParenthesis(t *testing.T) {
	text := "1) First (a) x (b) y (see note) 2) Second (a) z (b) w"

	outcome := InlineParser{}.Parse(text)
	if len(outcome.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d: %+v", len(outcome.Questions), outcome.Questions)
	}
	if outcome.Questions[1].Question != "Second" || outcome.Questions[1].ID != 2 {
		t.Errorf("unexpected second question %+v", outcome.Questions[1])
	}
	if !reflect.DeepEqual(outcome.Questions[1].Options, []string{"z", "w"}) {
		t.Errorf("unexpected second options %q", outcome.Questions[1].Options)
	}
}

func TestInlineParser_OptionRunningIntoOtherParenthesisIsSkipped(t *testing.T) {
	outcome := InlineParser{}.Parse("1) Q (a) first (note) (b) second")
	if len(outcome.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(outcome.Questions))
	}
	if !reflect.DeepEqual(outcome.Questions[0].Options, []string{"second"}) {
		t.Errorf("options = %q, want [second]", outcome.Questions[0].Options)
	}
}

func TestInlineParser_DiscardsSegmentsWithoutOptions(t *testing.T) {
	tests := []string{
		"1) A question with no labelled options",
		"no number (a) x (b) y",
		"",
	}
	for _, input := range tests {
		if outcome := (InlineParser{}).Parse(input); !outcome.Empty() {
			t.Errorf("Parse(%q) returned %+v, want nothing", input, outcome.Questions)
		}
	}
}

func TestInlineParser_QuestionWithoutLabelA(t *testing.T) {
	outcome := InlineParser{}.Parse("1) Starts late (b) two (c) three")
	if len(outcome.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(outcome.Questions))
	}
	if outcome.Questions[0].Question != "Starts late (b) two (c) three" {
		t.Errorf("expected whole body as question text, got %q", outcome.Questions[0].Question)
	}
}

func TestSplitInlineSegments(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"1) a (b) c", []string{"1) a (b) c"}},
		{"(x)\n 2) next", []string{"(x)", "2) next"}},
		{"x)3. y)4) z", []string{"x)", "3. y)", "4) z"}},
		{"end) 1234. not a number", []string{"end) 1234. not a number"}},
		{"(x)\u00a0\u30002) next", []string{"(x)", "2) next"}},
	}

	for _, tt := range tests {
		if got := splitInlineSegments(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("splitInlineSegments(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
