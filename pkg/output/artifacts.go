package output

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/coolbeans/examocr/pkg/extract"
	"github.com/coolbeans/examocr/pkg/quiz"
)

// Artifact file suffixes, appended to the document's base name.
const (
	RawSuffix        = ".txt"
	DirectSuffix     = ".json"
	NormalizedSuffix = "_formatted.txt"
	ParsedSuffix     = "_parsed.json"
)

// Artifacts are the paths written for one document.
type Artifacts struct {
	Raw        string `json:"raw"`
	Direct     string `json:"direct"`
	Normalized string `json:"normalized"`
	Parsed     string `json:"parsed"`
}

// DocumentName strips the directory and a case-insensitive .pdf extension.
func DocumentName(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name = name[:len(name)-len(".pdf")]
	}
	return name
}

// IsRawArtifact reports whether file is a <name>.txt raw OCR dump rather
// than a normalized text artifact.
func IsRawArtifact(file string) bool {
	return strings.HasSuffix(file, RawSuffix) && !strings.HasSuffix(file, NormalizedSuffix)
}

// RawDocumentName returns the document name of a raw artifact file name.
func RawDocumentName(file string) string {
	return strings.TrimSuffix(file, RawSuffix)
}

// Checksum is the hex SHA-256 of the raw OCR text.
func Checksum(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// WriteArtifacts stores the four artifacts of result under name.
func (s *FSStore) WriteArtifacts(name string, result *extract.Result) (Artifacts, error) {
	var paths Artifacts
	var err error

	if paths.Direct, err = s.putQuestions(name+DirectSuffix, result.Direct); err != nil {
		return paths, err
	}
	if paths.Raw, err = s.Put(name+RawSuffix, strings.NewReader(result.Raw)); err != nil {
		return paths, fmt.Errorf("write raw text: %w", err)
	}
	if paths.Normalized, err = s.Put(name+NormalizedSuffix, strings.NewReader(result.Normalized)); err != nil {
		return paths, fmt.Errorf("write normalized text: %w", err)
	}
	if paths.Parsed, err = s.putQuestions(name+ParsedSuffix, result.Parsed); err != nil {
		return paths, err
	}
	return paths, nil
}

// WriteParsed rewrites only the derived artifacts, leaving the raw text alone.
func (s *FSStore) WriteParsed(name string, result *extract.Result) (Artifacts, error) {
	paths := Artifacts{Raw: s.Path(name + RawSuffix)}
	var err error

	if paths.Direct, err = s.putQuestions(name+DirectSuffix, result.Direct); err != nil {
		return paths, err
	}
	if paths.Normalized, err = s.Put(name+NormalizedSuffix, strings.NewReader(result.Normalized)); err != nil {
		return paths, fmt.Errorf("write normalized text: %w", err)
	}
	if paths.Parsed, err = s.putQuestions(name+ParsedSuffix, result.Parsed); err != nil {
		return paths, err
	}
	return paths, nil
}

// ReadRaw returns the raw OCR text stored for name.
func (s *FSStore) ReadRaw(name string) (string, error) {
	rc, err := s.Get(name + RawSuffix)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return "", fmt.Errorf("read raw text: %w", err)
	}
	return buf.String(), nil
}

func (s *FSStore) putQuestions(key string, questions []quiz.Question) (string, error) {
	data, err := quiz.Marshal(questions)
	if err != nil {
		return "", err
	}
	path, err := s.Put(key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return path, nil
}
