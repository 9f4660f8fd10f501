// Package output persists parsing artifacts: per-document files, the run
// manifest, and the optional SQL catalog.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSStore writes artifacts under a base directory.
type FSStore struct{ base string }

// NewFSStore creates base if needed.
func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		return nil, errors.New("empty output directory")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &FSStore{base: base}, nil
}

// Base returns the directory artifacts are written to.
func (s *FSStore) Base() string { return s.base }

// Path returns the on-disk location of key.
func (s *FSStore) Path(key string) string {
	return filepath.Join(s.base, filepath.Clean(key))
}

// Put writes r to key, replacing any previous content, and returns the path.
func (s *FSStore) Put(key string, r io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	dst := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return dst, nil
}

// Get opens key for reading.
func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	return os.Open(s.Path(key))
}
