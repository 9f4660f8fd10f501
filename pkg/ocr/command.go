package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// CommandEngine shells out to the tesseract binary.
type CommandEngine struct {
	// Binary is the executable looked up on PATH. Defaults to "tesseract".
	Binary string
	opts   Options
}

// NewCommandEngine constructs an engine that runs the tesseract CLI.
func NewCommandEngine(opts Options) *CommandEngine {
	return &CommandEngine{Binary: "tesseract", opts: opts}
}

func (e *CommandEngine) Name() string { return "tesseract-cli" }

// Recognize writes the image to a temp file and reads the text from stdout.
func (e *CommandEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	bin, err := exec.LookPath(e.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found in PATH", ErrEngineUnavailable, e.Binary)
	}

	f, err := os.CreateTemp("", "examocr-page-*.png")
	if err != nil {
		return "", err
	}
	defer func() { f.Close(); os.Remove(f.Name()) }()
	if _, err := f.Write(image); err != nil {
		return "", fmt.Errorf("write page image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write page image: %w", err)
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, e.args(f.Name())...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("tesseract: %w", ctx.Err())
		}
		return "", fmt.Errorf("tesseract: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

func (e *CommandEngine) args(inPath string) []string {
	args := []string{inPath, "stdout"}
	if len(e.opts.Languages) > 0 {
		args = append(args, "-l", strings.Join(e.opts.Languages, "+"))
	}

	keys := make([]string, 0, len(e.opts.Variables))
	for k := range e.opts.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-c", k+"="+e.opts.Variables[k])
	}
	return args
}
