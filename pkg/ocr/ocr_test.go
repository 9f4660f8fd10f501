package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{"", "gosseract", false},
		{"gosseract", "gosseract", false},
		{"tesseract-cli", "tesseract-cli", false},
		{"easyocr", "", true},
	}

	for _, tt := range tests {
		engine, err := New(tt.name, Options{})
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q) failed: %v", tt.name, err)
			continue
		}
		if engine.Name() != tt.wantName {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, engine.Name(), tt.wantName)
		}
	}
}

func TestCommandEngine_Args(t *testing.T) {
	engine := NewCommandEngine(Options{
		Languages: []string{"eng", "fra"},
		Variables: map[string]string{"tessedit_pageseg_mode": "6", "preserve_interword_spaces": "1"},
	})

	got := engine.args("page.png")
	want := []string{
		"page.png", "stdout",
		"-l", "eng+fra",
		"-c", "preserve_interword_spaces=1",
		"-c", "tessedit_pageseg_mode=6",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestCommandEngine_MissingBinary(t *testing.T) {
	engine := NewCommandEngine(Options{})
	engine.Binary = "examocr-no-such-tesseract"

	_, err := engine.Recognize(context.Background(), []byte("png"))
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("error = %v, want ErrEngineUnavailable", err)
	}
}

// fakeTesseract installs a shell script that behaves like `tesseract IN stdout`.
func fakeTesseract(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a unix shell")
	}
	path := filepath.Join(t.TempDir(), "fake-tesseract")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func TestCommandEngine_ReadsStdout(t *testing.T) {
	engine := NewCommandEngine(Options{Languages: []string{"eng"}})
	engine.Binary = fakeTesseract(t, `cat "$1"; echo; echo "lang=$4"`)

	text, err := engine.Recognize(context.Background(), []byte("1. Q\nA) a*"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "1. Q\nA) a*\nlang=eng\n" {
		t.Errorf("text = %q", text)
	}
}

func TestCommandEngine_Failure(t *testing.T) {
	engine := NewCommandEngine(Options{})
	engine.Binary = fakeTesseract(t, "echo 'Error opening data file' >&2; exit 1")

	_, err := engine.Recognize(context.Background(), []byte("png"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Error opening data file") {
		t.Errorf("error %q should carry stderr", err)
	}
}

func TestCommandEngine_Timeout(t *testing.T) {
	engine := NewCommandEngine(Options{Timeout: 50 * time.Millisecond})
	engine.Binary = fakeTesseract(t, "exec sleep 5")

	_, err := engine.Recognize(context.Background(), []byte("png"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestGosseractEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGosseractEngine(Options{}).Recognize(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
