package embedpkg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

////////////////////////////////////////////////////////////////////////////////

// FileBackend persists the cache as one JSON object mapping normalized text
// to a numeric array, read in full at startup and rewritten in full on every
// save. Concurrent savers race on the snapshot (last writer wins); this is
// the documented compatibility backend for the scraper's existing cache
// files, not the default.
type FileBackend struct {
	path string
}

// NewFileBackend creates a file backend at the given path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

////////////////////////////////////////////////////////////////////////////////

// Load reads the whole cache file. A missing file is an empty cache.
func (b *FileBackend) Load(_ context.Context) (map[string][]float64, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return map[string][]float64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	entries := map[string][]float64{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	return entries, nil
}

// Save rewrites the whole snapshot. The write goes to a temp file first and
// is renamed into place, so a crashed write never leaves a partial cache.
func (b *FileBackend) Save(_ context.Context, _ string, _ []float64, snapshot map[string][]float64) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// Clear removes the cache file.
func (b *FileBackend) Clear(_ context.Context) error {
	err := os.Remove(b.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
