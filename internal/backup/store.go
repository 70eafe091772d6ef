// Package backup keeps the last known-good normalized snapshot of each
// dataset on local disk. Backups are an optimization, not a guarantee:
// saves are best-effort and a corrupt file reads as absent.
package backup

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/propline/estatedesk/internal/domain"
)

type fileFormat struct {
	Records  []domain.Record `json:"records"`
	LastSync time.Time       `json:"last_sync"`
}

// Store persists one JSON file per dataset under a data directory.
// Concurrent writers race with last-writer-wins semantics; no locking
// is attempted.
type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) path(dt domain.DatasetType) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_backup.json", dt))
}

// Save overwrites the backup for dt with records. Failures are logged
// and swallowed; a failed backup never aborts the triggering operation.
func (s *Store) Save(dt domain.DatasetType, records []domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.MarshalIndent(fileFormat{Records: records, LastSync: s.now()}, "", "  ")
	if err != nil {
		log.Printf("[BACKUP] encode %s failed: %v", dt, err)
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("[BACKUP] mkdir for %s failed: %v", dt, err)
		return
	}

	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf("%s-*.json", dt))
	if err != nil {
		log.Printf("[BACKUP] stage %s failed: %v", dt, err)
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		log.Printf("[BACKUP] write %s failed: %v", dt, err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		log.Printf("[BACKUP] flush %s failed: %v", dt, err)
		return
	}
	if err := os.Rename(tmpName, s.path(dt)); err != nil {
		os.Remove(tmpName)
		log.Printf("[BACKUP] replace %s failed: %v", dt, err)
	}
}

// Load returns the backed-up records for dt. The second return value is
// false when no backup exists or the stored file is unreadable;
// corruption is treated as absence, not escalated.
func (s *Store) Load(dt domain.DatasetType) ([]domain.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := os.ReadFile(s.path(dt))
	if err != nil {
		return nil, false
	}

	var file fileFormat
	if err := json.Unmarshal(payload, &file); err != nil {
		log.Printf("[BACKUP] %s backup unreadable, treating as absent: %v", dt, err)
		return nil, false
	}
	return file.Records, true
}
