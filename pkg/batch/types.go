// Package batch runs the exam extraction pipeline over a directory of PDFs.
package batch

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/coolbeans/examocr/pkg/extract"
	"github.com/coolbeans/examocr/pkg/output"
)

// Scanner produces the raw OCR text of one PDF.
type Scanner interface {
	Scan(ctx context.Context, path string) (string, error)
}

// Catalog receives every document outcome. *output.Catalog implements it.
type Catalog interface {
	Record(ctx context.Context, entry *output.DocumentEntry, result *extract.Result) error
}

// Config controls a Runner.
type Config struct {
	// InputDir is searched (non-recursively) for *.pdf files.
	InputDir string

	// Workers bounds concurrent documents. Values below 2 run sequentially.
	Workers int

	// Options are passed to extract.Process for every document.
	Options extract.Options

	// Quiet suppresses per-document progress lines.
	Quiet bool

	// Out receives progress lines. Defaults to io.Discard when nil.
	Out io.Writer

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Run modes recorded in reports.
const (
	ModeRun     = "run"
	ModeReparse = "reparse"
)

// Report summarizes one batch.
type Report struct {
	RunID          string    `json:"run_id"`
	Mode           string    `json:"mode"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	TotalAttempted int       `json:"total_attempted"`
	Succeeded      int       `json:"succeeded"`
	Failed         int       `json:"failed"`
	TotalDirect    int       `json:"total_direct_questions"`
	TotalParsed    int       `json:"total_parsed_questions"`
	Entries        []Entry   `json:"entries"`
}

// Entry records the outcome of a single document.
type Entry struct {
	Document        string `json:"document"`
	Source          string `json:"source"`
	Status          string `json:"status"` // "ready" or "failed"
	DirectQuestions int    `json:"direct_questions"`
	ParsedQuestions int    `json:"parsed_questions"`
	Strategy        string `json:"strategy,omitempty"`
	Warnings        int    `json:"warnings,omitempty"`
	Error           string `json:"error,omitempty"`
}

// HasFailures reports whether any document failed.
func (report *Report) HasFailures() bool { return report.Failed > 0 }

func (report *Report) add(entries []Entry) {
	for _, entry := range entries {
		report.TotalAttempted++
		switch entry.Status {
		case output.StatusReady:
			report.Succeeded++
			report.TotalDirect += entry.DirectQuestions
			report.TotalParsed += entry.ParsedQuestions
		case output.StatusFailed:
			report.Failed++
		}
		report.Entries = append(report.Entries, entry)
	}
}
