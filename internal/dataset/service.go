// Package dataset composes the fetch cache, schema normalizer, and
// local backup store behind a uniform per-dataset read/write contract,
// and applies the dataset-specific business rules.
package dataset

import (
	"context"

	"github.com/propline/estatedesk/internal/domain"
	"github.com/propline/estatedesk/internal/schema"
)

// SnapshotSource yields raw snapshots, typically the TTL cache over the
// remote fetcher.
type SnapshotSource interface {
	GetOrFetch(ctx context.Context, dt domain.DatasetType) (domain.TableSnapshot, error)
}

// BackupStore persists and recovers normalized record sets.
type BackupStore interface {
	Save(dt domain.DatasetType, records []domain.Record)
	Load(dt domain.DatasetType) ([]domain.Record, bool)
}

// Auditor records audit events. Implementations must never fail the
// triggering operation.
type Auditor interface {
	Append(username, action, details string)
}

type nopAuditor struct{}

func (nopAuditor) Append(string, string, string) {}

// Service is the shared read path for all dataset handlers.
type Service struct {
	source SnapshotSource
	backup BackupStore
	audit  Auditor
}

// NewService wires the shared plumbing. A nil auditor disables audit
// logging.
func NewService(source SnapshotSource, backup BackupStore, audit Auditor) *Service {
	if audit == nil {
		audit = nopAuditor{}
	}
	return &Service{source: source, backup: backup, audit: audit}
}

// load runs the standard read path: fetch (through the cache) and
// normalize; on any fetch failure fall back to the local backup; when
// both fail, return an empty set rather than an error. Successful reads
// write through to the backup best-effort.
func (s *Service) load(ctx context.Context, dt domain.DatasetType) []domain.Record {
	snapshot, err := s.source.GetOrFetch(ctx, dt)
	if err != nil {
		if records, ok := s.backup.Load(dt); ok {
			return records
		}
		return nil
	}

	records := schema.Normalize(snapshot, dt)
	s.backup.Save(dt, records)
	return records
}
