package extract

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/coolbeans/examocr/pkg/quiz"
)

// TestParsingFeatures executes the parsing feature scenarios via godog.
func TestParsingFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "parsing",
		ScenarioInitializer: initializeParsingScenario,
		Options: &godog.Options{
			Format:    "progress",
			Paths:     []string{filepath.Join("testdata", "features")},
			Output:    io.Discard,
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// parsingState holds one scenario's text and results.
type parsingState struct {
	text       string
	normalized string
	records    []quiz.Question
	strategy   string
}

func initializeParsingScenario(ctx *godog.ScenarioContext) {
	state := &parsingState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*state = parsingState{}
		return ctx, nil
	})

	ctx.Step(`^the OCR text:$`, state.givenText)
	ctx.Step(`^the direct extractor runs$`, state.runDirect)
	ctx.Step(`^the text is normalized$`, state.normalize)
	ctx.Step(`^the normalized text is parsed$`, state.parse)
	ctx.Step(`^the normalized text is:$`, state.normalizedTextIs)
	ctx.Step(`^there are (\d+) records$`, state.recordCount)
	ctx.Step(`^record (\d+) has question "([^"]*)"$`, state.recordQuestion)
	ctx.Step(`^record (\d+) has options "([^"]*)"$`, state.recordOptions)
	ctx.Step(`^record (\d+) has answer "([^"]*)"$`, state.recordAnswer)
	ctx.Step(`^record (\d+) has no answer$`, state.recordNoAnswer)
	ctx.Step(`^the strategy is "([^"]*)"$`, state.strategyIs)
}

func (s *parsingState) givenText(doc *godog.DocString) error {
	s.text = doc.Content
	return nil
}

func (s *parsingState) runDirect() error {
	s.records = NewDirectExtractor().Extract(s.text).Questions
	return nil
}

func (s *parsingState) normalize() error {
	s.normalized = NormalizeText(s.text)
	return nil
}

func (s *parsingState) parse() error {
	outcome, strategy := DefaultChain(DefaultMarker).Parse(s.normalized)
	s.records = outcome.Questions
	s.strategy = strategy
	return nil
}

func (s *parsingState) normalizedTextIs(doc *godog.DocString) error {
	expected := JoinLines(SplitLines(doc.Content))
	if s.normalized != expected {
		return fmt.Errorf("normalized text = %q, want %q", s.normalized, expected)
	}
	return nil
}

func (s *parsingState) recordCount(count int) error {
	if len(s.records) != count {
		return fmt.Errorf("got %d records, want %d", len(s.records), count)
	}
	if !quiz.SequentialIDs(s.records) {
		return fmt.Errorf("record ids are not 1..N")
	}
	return nil
}

func (s *parsingState) record(id int) (quiz.Question, error) {
	if id < 1 || id > len(s.records) {
		return quiz.Question{}, fmt.Errorf("no record %d among %d", id, len(s.records))
	}
	return s.records[id-1], nil
}

func (s *parsingState) recordQuestion(id int, question string) error {
	record, err := s.record(id)
	if err != nil {
		return err
	}
	if record.Question != question {
		return fmt.Errorf("record %d question = %q, want %q", id, record.Question, question)
	}
	return nil
}

func (s *parsingState) recordOptions(id int, options string) error {
	record, err := s.record(id)
	if err != nil {
		return err
	}
	expected := strings.Split(options, "|")
	if !reflect.DeepEqual(record.Options, expected) {
		return fmt.Errorf("record %d options = %q, want %q", id, record.Options, expected)
	}
	return nil
}

func (s *parsingState) recordAnswer(id int, answer string) error {
	record, err := s.record(id)
	if err != nil {
		return err
	}
	if record.Answer != answer {
		return fmt.Errorf("record %d answer = %q, want %q", id, record.Answer, answer)
	}
	return nil
}

func (s *parsingState) recordNoAnswer(id int) error {
	return s.recordAnswer(id, "")
}

func (s *parsingState) strategyIs(strategy string) error {
	if s.strategy != strategy {
		return fmt.Errorf("strategy = %q, want %q", s.strategy, strategy)
	}
	return nil
}
