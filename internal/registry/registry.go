// Package registry stores the mapping from dataset types to the remote
// sheets that back them. The whole registry is replaced on every save;
// writes go through a temp file and rename so readers never observe a
// partially written file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/propline/estatedesk/internal/domain"
)

const formatVersion = "1.0"

// fileFormat mirrors the on-disk JSON layout.
type fileFormat struct {
	Sheets      []domain.SourceDescriptor `json:"sheets"`
	Version     string                    `json:"version"`
	LastUpdated time.Time                 `json:"last_updated"`
}

// Registry persists source descriptors to a single JSON file. A partial
// registry (fewer than five datasets configured) is a valid state.
type Registry struct {
	mu   sync.RWMutex
	path string
	now  func() time.Time
}

// New creates a registry backed by the given file path. The parent
// directory is created on first save.
func New(path string) *Registry {
	return &Registry{path: path, now: time.Now}
}

// Get returns the descriptor for a dataset type, if configured. When the
// file holds duplicate entries for a type, the later entry shadows the
// earlier one.
func (r *Registry) Get(dt domain.DatasetType) (domain.SourceDescriptor, bool, error) {
	descriptors, err := r.All()
	if err != nil {
		return domain.SourceDescriptor{}, false, err
	}
	var found domain.SourceDescriptor
	var ok bool
	for _, desc := range descriptors {
		if desc.Type == dt {
			found = desc
			ok = true
		}
	}
	return found, ok, nil
}

// All returns every configured descriptor in file order. A missing file
// is an empty registry, not an error.
func (r *Registry) All() ([]domain.SourceDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payload, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var file fileFormat
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}
	return file.Sheets, nil
}

// PutAll replaces the entire registry snapshot with the given
// descriptors and persists it durably. Descriptors with an unknown type
// or empty URL are rejected before anything is written.
func (r *Registry) PutAll(descriptors []domain.SourceDescriptor) error {
	for _, desc := range descriptors {
		if _, err := domain.ParseDatasetType(string(desc.Type)); err != nil {
			return err
		}
		if desc.URL == "" {
			return fmt.Errorf("descriptor %s has no url", desc.Type)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file := fileFormat{
		Sheets:      descriptors,
		Version:     formatVersion,
		LastUpdated: r.now(),
	}

	payload, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "registry-*.json")
	if err != nil {
		return fmt.Errorf("failed to stage registry write: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush registry: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace registry: %w", err)
	}
	return nil
}
