package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ManifestFile is the manifest's name inside the output directory.
const ManifestFile = "manifest.json"

const manifestVersion = "1.0.0"

// Document statuses.
const (
	StatusReady  = "ready"
	StatusFailed = "failed"
)

// Manifest records the latest outcome for every document in an output
// directory. It is safe for concurrent use.
type Manifest struct {
	mu sync.Mutex

	Version   string                    `json:"version"`
	RunID     string                    `json:"run_id"`
	UpdatedAt time.Time                 `json:"updated_at"`
	Documents map[string]*DocumentEntry `json:"documents"`
}

// DocumentEntry is the manifest record of one document.
type DocumentEntry struct {
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Status      string    `json:"status"`
	RunID       string    `json:"run_id"`
	ProcessedAt time.Time `json:"processed_at"`

	DirectQuestions int    `json:"direct_questions"`
	ParsedQuestions int    `json:"parsed_questions"`
	Strategy        string `json:"strategy,omitempty"`
	Warnings        int    `json:"warnings"`

	RawSHA256 string     `json:"raw_sha256,omitempty"`
	Artifacts *Artifacts `json:"artifacts,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Version:   manifestVersion,
		UpdatedAt: time.Now(),
		Documents: make(map[string]*DocumentEntry),
	}
}

// LoadManifest reads a manifest from disk. A missing file yields an empty one.
func LoadManifest(manifestPath string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest := &Manifest{}
	if err := json.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if manifest.Documents == nil {
		manifest.Documents = make(map[string]*DocumentEntry)
	}
	return manifest, nil
}

// Save writes the manifest to disk.
func (manifest *Manifest) Save(manifestPath string) error {
	manifest.mu.Lock()
	defer manifest.mu.Unlock()

	manifest.UpdatedAt = time.Now()

	if err := os.MkdirAll(filepath.Dir(manifestPath), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Record replaces the entry for entry.Name.
func (manifest *Manifest) Record(entry *DocumentEntry) {
	manifest.mu.Lock()
	defer manifest.mu.Unlock()
	manifest.Documents[entry.Name] = entry
}

// Get returns the entry for name, or nil.
func (manifest *Manifest) Get(name string) *DocumentEntry {
	manifest.mu.Lock()
	defer manifest.mu.Unlock()
	return manifest.Documents[name]
}

// CountByStatus returns how many documents have the given status.
func (manifest *Manifest) CountByStatus(status string) int {
	manifest.mu.Lock()
	defer manifest.mu.Unlock()

	count := 0
	for _, entry := range manifest.Documents {
		if entry.Status == status {
			count++
		}
	}
	return count
}

// Names returns the recorded document names in sorted order.
func (manifest *Manifest) Names() []string {
	manifest.mu.Lock()
	defer manifest.mu.Unlock()

	names := make([]string, 0, len(manifest.Documents))
	for name := range manifest.Documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
