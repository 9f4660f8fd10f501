package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/examocr/pkg/extract"
	"github.com/coolbeans/examocr/pkg/output"
	"github.com/coolbeans/examocr/pkg/quiz"
)

// Runner processes documents and persists their artifacts.
type Runner struct {
	config  Config
	scanner Scanner
	store   *output.FSStore
	catalog Catalog

	outMu sync.Mutex
}

// NewRunner creates a Runner. catalog may be nil.
func NewRunner(config Config, scanner Scanner, store *output.FSStore, catalog Catalog) *Runner {
	if config.Out == nil {
		config.Out = io.Discard
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Runner{config: config, scanner: scanner, store: store, catalog: catalog}
}

// Run OCRs and parses every PDF in the input directory. A document whose
// rendering, OCR, or persistence fails is recorded as failed and the batch
// continues. The returned error is reserved for batch-level problems.
func (runner *Runner) Run(ctx context.Context) (*Report, error) {
	files, err := Discover(runner.config.InputDir)
	if err != nil {
		return nil, err
	}

	report := runner.newReport(ModeRun)
	if len(files) == 0 {
		runner.printf("No PDF files found in '%s'.\n", runner.config.InputDir)
		report.FinishedAt = time.Now()
		return report, nil
	}
	runner.printf("Found %d PDF file(s) in '%s'.\n", len(files), runner.config.InputDir)

	return runner.execute(ctx, report, files, runner.processDocument)
}

// Reparse regenerates the derived artifacts from every raw OCR artifact in
// the output directory, without rendering or OCR.
func (runner *Runner) Reparse(ctx context.Context) (*Report, error) {
	names, err := DiscoverRaw(runner.store.Base())
	if err != nil {
		return nil, err
	}

	report := runner.newReport(ModeReparse)
	if len(names) == 0 {
		runner.printf("No raw OCR artifacts found in '%s'.\n", runner.store.Base())
		report.FinishedAt = time.Now()
		return report, nil
	}

	return runner.execute(ctx, report, names, runner.reparseDocument)
}

func (runner *Runner) newReport(mode string) *Report {
	return &Report{RunID: uuid.NewString(), Mode: mode, StartedAt: time.Now()}
}

func (runner *Runner) execute(ctx context.Context, report *Report, items []string, process func(context.Context, *output.Manifest, string, string) Entry) (*Report, error) {
	manifestPath := runner.store.Path(output.ManifestFile)
	manifest, err := output.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	manifest.RunID = report.RunID

	var runErr error
	entries := make([]Entry, len(items))
	if runner.config.Workers < 2 {
		for i, item := range items {
			if runErr = ctx.Err(); runErr != nil {
				break
			}
			entries[i] = process(ctx, manifest, report.RunID, item)
		}
	} else {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(runner.config.Workers)
		for i, item := range items {
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				entries[i] = process(groupCtx, manifest, report.RunID, item)
				return nil
			})
		}
		runErr = group.Wait()
	}

	if runErr != nil {
		// Documents finished before the interruption stay recorded.
		if err := manifest.Save(manifestPath); err != nil {
			runner.config.Logger.Error("saving manifest after interruption", "path", manifestPath, "error", err)
		}
		return nil, runErr
	}

	report.add(entries)
	report.FinishedAt = time.Now()

	if err := manifest.Save(manifestPath); err != nil {
		return report, err
	}
	return report, nil
}

func (runner *Runner) processDocument(ctx context.Context, manifest *output.Manifest, runID, path string) Entry {
	name := output.DocumentName(path)
	logger := runner.config.Logger.With("document", name)
	logger.Debug("scanning document", "path", path)

	raw, err := runner.scanner.Scan(ctx, path)
	if err != nil {
		return runner.fail(ctx, manifest, runID, name, path, err)
	}

	result := extract.Process(raw, runner.config.Options)
	artifacts, err := runner.store.WriteArtifacts(name, result)
	if err != nil {
		return runner.fail(ctx, manifest, runID, name, path, err)
	}
	runner.printf("Extracted %d questions to %s using OCR\n", len(result.Direct), artifacts.Direct)

	return runner.finish(ctx, manifest, runID, name, path, result, artifacts)
}

func (runner *Runner) reparseDocument(ctx context.Context, manifest *output.Manifest, runID, name string) Entry {
	source := runner.store.Path(name + output.RawSuffix)

	raw, err := runner.store.ReadRaw(name)
	if err != nil {
		return runner.fail(ctx, manifest, runID, name, source, err)
	}

	result := extract.Process(raw, runner.config.Options)
	artifacts, err := runner.store.WriteParsed(name, result)
	if err != nil {
		return runner.fail(ctx, manifest, runID, name, source, err)
	}
	runner.printf("Re-extracted %d questions to %s\n", len(result.Direct), artifacts.Direct)

	return runner.finish(ctx, manifest, runID, name, source, result, artifacts)
}

func (runner *Runner) finish(ctx context.Context, manifest *output.Manifest, runID, name, source string, result *extract.Result, artifacts output.Artifacts) Entry {
	runner.printf("Formatted and cleaned OCR text written to %s\n", artifacts.Normalized)
	if result.Strategy != extract.StrategyStructured {
		runner.printf("No structured questions in %s, attempted inline parsing\n", name)
	}
	runner.printf("Parsed %d questions from formatted text into %s\n", len(result.Parsed), artifacts.Parsed)

	runner.logWarnings(name, output.PathDirect, result.DirectWarnings)
	runner.logWarnings(name, output.PathParsed, result.ParsedWarnings)

	documentEntry := &output.DocumentEntry{
		Name:            name,
		Source:          source,
		Status:          output.StatusReady,
		RunID:           runID,
		ProcessedAt:     time.Now(),
		DirectQuestions: len(result.Direct),
		ParsedQuestions: len(result.Parsed),
		Strategy:        result.Strategy,
		Warnings:        len(result.DirectWarnings) + len(result.ParsedWarnings),
		RawSHA256:       output.Checksum(result.Raw),
		Artifacts:       &artifacts,
	}

	if runner.catalog != nil {
		if err := runner.catalog.Record(ctx, documentEntry, result); err != nil {
			return runner.fail(ctx, manifest, runID, name, source, fmt.Errorf("catalog: %w", err))
		}
	}
	manifest.Record(documentEntry)

	return Entry{
		Document:        name,
		Source:          source,
		Status:          output.StatusReady,
		DirectQuestions: documentEntry.DirectQuestions,
		ParsedQuestions: documentEntry.ParsedQuestions,
		Strategy:        documentEntry.Strategy,
		Warnings:        documentEntry.Warnings,
	}
}

// fail reports a document-level failure and records it. It never aborts
// the batch.
func (runner *Runner) fail(ctx context.Context, manifest *output.Manifest, runID, name, source string, err error) Entry {
	runner.config.Logger.Error("document failed", "document", name, "error", err)
	runner.printf("Error processing %s: %v\n", name, err)

	documentEntry := &output.DocumentEntry{
		Name:        name,
		Source:      source,
		Status:      output.StatusFailed,
		RunID:       runID,
		ProcessedAt: time.Now(),
		Error:       err.Error(),
	}
	if runner.catalog != nil {
		if catalogErr := runner.catalog.Record(ctx, documentEntry, nil); catalogErr != nil {
			runner.config.Logger.Warn("catalog write failed", "document", name, "error", catalogErr)
		}
	}
	manifest.Record(documentEntry)

	return Entry{Document: name, Source: source, Status: output.StatusFailed, Error: err.Error()}
}

func (runner *Runner) logWarnings(name, path string, warnings []quiz.Warning) {
	for _, warning := range warnings {
		runner.config.Logger.Warn("suspicious question",
			"document", name,
			"path", path,
			"question", warning.QuestionID,
			"kind", string(warning.Kind),
			"detail", warning.Detail)
	}
}

func (runner *Runner) printf(format string, args ...any) {
	if runner.config.Quiet {
		return
	}
	runner.outMu.Lock()
	defer runner.outMu.Unlock()
	fmt.Fprintf(runner.config.Out, format, args...)
}
