package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coolbeans/examocr/pkg/batch"
	"github.com/coolbeans/examocr/pkg/config"
	"github.com/coolbeans/examocr/pkg/ocr"
	"github.com/coolbeans/examocr/pkg/output"
	"github.com/coolbeans/examocr/pkg/render"
	"github.com/coolbeans/examocr/pkg/scan"
	"github.com/coolbeans/examocr/pkg/watch"
)

var version = "0.1.0"

// exitError carries a non-default exit status out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "examocr",
		Short: "Extract multiple-choice questions from scanned exam PDFs",
		Long: `examocr renders scanned exam PDFs, runs OCR on every page, and turns
the recognized text into structured question records.

For every <name>.pdf in the input directory it writes:
  - <name>.txt            raw OCR text
  - <name>.json           questions from the direct extractor
  - <name>_formatted.txt  OCR text reflowed to one statement per line
  - <name>_parsed.json    questions from the structured parser`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", config.DefaultFileName, "Path to the config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress per-document progress")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(reparseCmd())
	rootCmd.AddCommand(watchCmd())

	return rootCmd
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a config file and the input and output directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			projectDir := "."
			if len(args) > 0 {
				projectDir = args[0]
			}
			if err := os.MkdirAll(projectDir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", projectDir, err)
			}

			configPath := filepath.Join(projectDir, config.DefaultFileName)
			if err := config.WriteTemplate(configPath, force); err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			dirs := []string{cfg.InputDir, cfg.OutputDir}
			for _, dir := range dirs {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote config: %s\n", configPath)
			fmt.Fprintln(out, "Created directories:")
			for _, dir := range dirs {
				fmt.Fprintf(out, "  - %s/\n", dir)
			}
			fmt.Fprintf(out, "\nNext steps:\n")
			fmt.Fprintf(out, "  1. Add scanned exam PDFs to %s/\n", cfg.InputDir)
			fmt.Fprintf(out, "  2. Run: examocr run --config %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "OCR and parse every PDF in the input directory",
		Long: `Process every PDF in the input directory, one after another.

A document that cannot be rendered or recognized is reported and skipped;
the rest of the batch continues.

Example:
  examocr run
  examocr run --config exams/examocr.yaml --workers 4 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers, _ = cmd.Flags().GetInt("workers")
				if err := config.Validate(&cfg); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner, closeRunner, err := buildRunner(ctx, cmd, cfg, true)
			if err != nil {
				return err
			}
			defer closeRunner()

			report, err := runner.Run(ctx)
			if err != nil {
				return fmt.Errorf("batch failed: %w", err)
			}
			return finishReport(cmd, report)
		},
	}

	cmd.Flags().Int("workers", 0, "Override the number of documents processed at once")
	addReportFlags(cmd)
	return cmd
}

func reparseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reparse",
		Short: "Rebuild parsed artifacts from saved raw OCR text",
		Long: `Re-run reflow and both parsers over every <name>.txt raw OCR artifact
in the output directory, without rendering or OCR. Useful after editing
the raw text by hand or changing parse settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			runner, closeRunner, err := buildRunner(cmd.Context(), cmd, cfg, false)
			if err != nil {
				return err
			}
			defer closeRunner()

			report, err := runner.Reparse(cmd.Context())
			if err != nil {
				return fmt.Errorf("reparse failed: %w", err)
			}
			return finishReport(cmd, report)
		},
	}

	addReportFlags(cmd)
	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process the input directory, then again whenever PDFs are added",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner, closeRunner, err := buildRunner(ctx, cmd, cfg, true)
			if err != nil {
				return err
			}
			defer closeRunner()

			runOnce := func(ctx context.Context) error {
				report, err := runner.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), batch.FormatReport(report))
				return nil
			}
			if err := runOnce(ctx); err != nil {
				return fmt.Errorf("batch failed: %w", err)
			}

			watcher, err := watch.NewDirWatcher(cfg.InputDir, watch.DirOptions{
				Debounce: cfg.Watch.Debounce,
				Match:    batch.IsPDF,
				OnChange: runOnce,
				Logger:   slog.Default(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for new PDFs (Ctrl+C to stop)\n", cfg.InputDir)
			return watcher.Run(ctx)
		},
	}
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Print the batch report as JSON")
	cmd.Flags().Bool("fail-on-error", false, "Exit with status 2 when any document fails")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	slog.Debug("config loaded", "path", configPath, "input_dir", cfg.InputDir, "output_dir", cfg.OutputDir, "engine", cfg.OCR.Engine)
	return cfg, nil
}

// buildRunner wires the collaborators selected by cfg. The OCR pipeline is
// only constructed when withScanner is set.
func buildRunner(ctx context.Context, cmd *cobra.Command, cfg config.Config, withScanner bool) (*batch.Runner, func(), error) {
	quiet, _ := cmd.Flags().GetBool("quiet")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := output.NewFSStore(cfg.OutputDir)
	if err != nil {
		return nil, nil, err
	}

	var scanner batch.Scanner
	if withScanner {
		engine, err := ocr.New(cfg.OCR.Engine, ocr.Options{
			Languages: cfg.OCR.Languages,
			Variables: cfg.OCR.Variables,
			Timeout:   cfg.OCR.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		scanner = scan.New(render.FitzRenderer{DPI: cfg.Render.DPI}, engine)
	}

	closeFn := func() {}
	var catalog batch.Catalog
	if cfg.Catalog.Driver != "" {
		c, err := output.OpenCatalog(ctx, output.Driver(cfg.Catalog.Driver), cfg.Catalog.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		catalog = c
		closeFn = func() { c.Close() }
	}

	var progress io.Writer = cmd.OutOrStdout()
	if asJSON {
		progress = cmd.ErrOrStderr()
	}

	runner := batch.NewRunner(batch.Config{
		InputDir: cfg.InputDir,
		Workers:  cfg.Workers,
		Options:  cfg.ExtractOptions(),
		Quiet:    quiet,
		Out:      progress,
		Logger:   slog.Default(),
	}, scanner, store, catalog)
	return runner, closeFn, nil
}

func finishReport(cmd *cobra.Command, report *batch.Report) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	failOnError, _ := cmd.Flags().GetBool("fail-on-error")

	if asJSON {
		fmt.Fprintln(cmd.OutOrStdout(), batch.FormatReportJSON(report))
	} else if report.TotalAttempted > 0 {
		fmt.Fprint(cmd.OutOrStdout(), batch.FormatReport(report))
	}

	if failOnError && report.HasFailures() {
		return &exitError{code: 2, err: fmt.Errorf("%d of %d documents failed", report.Failed, report.TotalAttempted)}
	}
	return nil
}
