package extract

import (
	"reflect"
	"testing"

	"github.com/coolbeans/examocr/pkg/quiz"
)

func TestProcess_ReturnsAllArtifacts(t *testing.T) {
	raw := "EXAM\n1. What is the\ncapital of France?\nA) Paris*\nB) Lyon\n"

	result := Process(raw, DefaultOptions())

	if result.Raw != raw {
		t.Errorf("Raw artifact changed: %q", result.Raw)
	}
	if result.Normalized != "1. What is the capital of France?\nA) Paris*\nB) Lyon\n" {
		t.Errorf("unexpected normalized text %q", result.Normalized)
	}

	expected := []quiz.Question{{
		ID:       1,
		Question: "What is the capital of France?",
		Options:  []string{"Paris", "Lyon"},
		Answer:   "A",
	}}
	if !reflect.DeepEqual(result.Parsed, expected) {
		t.Errorf("Parsed =\n%+v\nwant\n%+v", result.Parsed, expected)
	}
	if !reflect.DeepEqual(result.Direct, expected) {
		t.Errorf("Direct =\n%+v\nwant\n%+v", result.Direct, expected)
	}
	if result.Strategy != "structured" {
		t.Errorf("expected structured strategy, got %q", result.Strategy)
	}
}

func TestProcess_PathsAreIndependent(t *testing.T) {
	raw := "1) Some question (a) Opt1 (b) Opt2 (c) Opt3"

	result := Process(raw, DefaultOptions())
	if len(result.Direct) != 0 {
		t.Errorf("expected no direct records, got %+v", result.Direct)
	}
	if result.Strategy != "inline" || len(result.Parsed) != 1 {
		t.Errorf("expected inline fallback record, got %q %+v", result.Strategy, result.Parsed)
	}
}

func TestProcess_EmptyInput(t *testing.T) {
	result := Process("", DefaultOptions())
	if len(result.Direct) != 0 || len(result.Parsed) != 0 {
		t.Errorf("expected no records from empty input")
	}
	if result.Normalized != "" || result.Strategy != NoStrategy {
		t.Errorf("unexpected artifacts %q %q", result.Normalized, result.Strategy)
	}
}

func TestProcess_PreprocessAppliesToNormalizedPathOnly(t *testing.T) {
	raw := "1. A mam-\nmal is?\nA) Whale*\n7\nB) Shark\n"
	opts := DefaultOptions()
	opts.Preprocess = PreprocessOptions{DropPageNumbers: true, RejoinHyphens: true}

	result := Process(raw, opts)
	if len(result.Parsed) != 1 {
		t.Fatalf("expected 1 parsed question, got %d", len(result.Parsed))
	}
	if result.Parsed[0].Question != "A mammal is?" {
		t.Errorf("unexpected question %q", result.Parsed[0].Question)
	}
	if result.Parsed[0].Options[0] != "Whale" {
		t.Errorf("expected page number dropped, got %q", result.Parsed[0].Options[0])
	}
}

func TestProcess_CollectsWarnings(t *testing.T) {
	result := Process("1. Q\nA) a*\nB) b*\n", DefaultOptions())
	if len(result.DirectWarnings) != 1 || len(result.ParsedWarnings) != 1 {
		t.Errorf("expected a warning per path, got %v and %v", result.DirectWarnings, result.ParsedWarnings)
	}
}

func TestProcess_NormalizesUnicode(t *testing.T) {
	decomposed := "1. Caf\u0065\u0301?\nA) oui*\nB) non\n"

	result := Process(decomposed, DefaultOptions())
	if len(result.Parsed) != 1 {
		t.Fatalf("expected 1 question, got %d", len(result.Parsed))
	}
	if result.Parsed[0].Question != "Caf\u00e9?" {
		t.Errorf("expected composed form, got %q", result.Parsed[0].Question)
	}
	if result.Raw != decomposed {
		t.Errorf("raw artifact must not be normalized")
	}

	opts := DefaultOptions()
	opts.NormalizeUnicode = false
	if got := Process(decomposed, opts).Parsed[0].Question; got != "Caf\u0065\u0301?" {
		t.Errorf("expected decomposed form kept, got %q", got)
	}
}

func TestProcess_AcceptsUnicodeSpacesAfterLabels(t *testing.T) {
	raw := "1.\u00a0What is 2+2?\nA.\u00a04*\nB.\u00a05\n"

	result := Process(raw, DefaultOptions())

	expected := []quiz.Question{{
		ID:       1,
		Question: "What is 2+2?",
		Options:  []string{"4", "5"},
		Answer:   "A",
	}}
	if !reflect.DeepEqual(result.Parsed, expected) {
		t.Errorf("Parsed =\n%+v\nwant\n%+v", result.Parsed, expected)
	}
	if result.Normalized == "" {
		t.Errorf("expected non-empty normalized text")
	}
}
