package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coolbeans/examocr/pkg/batch"
	"github.com/coolbeans/examocr/pkg/config"
	"github.com/coolbeans/examocr/pkg/output"
	"github.com/coolbeans/examocr/pkg/quiz"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestInitCommand(t *testing.T) {
	projectDir := filepath.Join(t.TempDir(), "exams")

	out, err := execute(t, "init", projectDir)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	for _, path := range []string{
		filepath.Join(projectDir, config.DefaultFileName),
		filepath.Join(projectDir, "pdfs"),
		filepath.Join(projectDir, "output"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
	if !strings.Contains(out, "Next steps") {
		t.Errorf("init output missing next steps:\n%s", out)
	}

	if _, err := execute(t, "init", projectDir); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := execute(t, "init", projectDir, "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestRunCommand_EmptyInput(t *testing.T) {
	projectDir := t.TempDir()
	if _, err := execute(t, "init", projectDir); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", filepath.Join(projectDir, config.DefaultFileName), "run")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := "No PDF files found in '" + filepath.Join(projectDir, "pdfs") + "'."
	if !strings.Contains(out, want) {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunCommand_InvalidWorkers(t *testing.T) {
	projectDir := t.TempDir()
	_, err := execute(t, "--config", filepath.Join(projectDir, config.DefaultFileName), "run", "--workers", "-1")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
}

func TestReparseCommand(t *testing.T) {
	projectDir := t.TempDir()
	configPath := filepath.Join(projectDir, config.DefaultFileName)
	if _, err := execute(t, "init", projectDir); err != nil {
		t.Fatal(err)
	}
	catalogPath := filepath.Join(projectDir, "catalog.db")
	t.Setenv("EXAMOCR_CATALOG_DSN", "file:"+catalogPath)
	writeCatalogDriver(t, configPath, "sqlite")

	raw := "1. What is the\ncapital of France?\nA. Paris*\nB. Lyon\n"
	outputDir := filepath.Join(projectDir, "output")
	if err := os.WriteFile(filepath.Join(outputDir, "geo.txt"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", configPath, "--quiet", "reparse", "--json")
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}

	var report batch.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, out)
	}
	if report.Mode != batch.ModeReparse || report.Succeeded != 1 {
		t.Errorf("report = %+v", report)
	}

	formatted, err := os.ReadFile(filepath.Join(outputDir, "geo_formatted.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(formatted) != "1. What is the capital of France?\nA. Paris*\nB. Lyon\n" {
		t.Errorf("formatted = %q", formatted)
	}

	parsedFile, err := os.Open(filepath.Join(outputDir, "geo_parsed.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer parsedFile.Close()
	parsed, err := quiz.Decode(parsedFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 1 || parsed[0].Question != "What is the capital of France?" || parsed[0].Answer != "A" {
		t.Errorf("parsed = %+v", parsed)
	}

	if _, err := os.Stat(catalogPath); err != nil {
		t.Errorf("catalog not created: %v", err)
	}
	manifest, err := output.LoadManifest(filepath.Join(outputDir, output.ManifestFile))
	if err != nil {
		t.Fatal(err)
	}
	if entry := manifest.Get("geo"); entry == nil || entry.Status != output.StatusReady {
		t.Errorf("manifest entry = %+v", entry)
	}
}

func writeCatalogDriver(t *testing.T, configPath, driver string) {
	t.Helper()
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	updated := strings.Replace(string(data), `driver: ""`, `driver: `+driver, 1)
	if updated == string(data) {
		t.Fatal("config template has no catalog driver line")
	}
	if err := os.WriteFile(configPath, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFinishReport_FailOnError(t *testing.T) {
	report := &batch.Report{TotalAttempted: 2, Succeeded: 1, Failed: 1}

	cmd := reparseCmd()
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Flags().Set("fail-on-error", "true"); err != nil {
		t.Fatal(err)
	}

	err := finishReport(cmd, report)
	var exit *exitError
	if !errors.As(err, &exit) || exit.code != 2 {
		t.Fatalf("error = %v, want exit status 2", err)
	}
	if !strings.Contains(err.Error(), "1 of 2 documents failed") {
		t.Errorf("error = %q", err)
	}

	if err := cmd.Flags().Set("fail-on-error", "false"); err != nil {
		t.Fatal(err)
	}
	if err := finishReport(cmd, report); err != nil {
		t.Errorf("failures without --fail-on-error should not error: %v", err)
	}
}
