// Package cache memoizes remote snapshot fetches per dataset type for a
// bounded time window. Errors are cached too, so a flapping source does
// not get hammered by bursty callers.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/propline/estatedesk/internal/domain"
)

// LoadFunc resolves a dataset type to a fresh snapshot.
type LoadFunc func(ctx context.Context, dt domain.DatasetType) (domain.TableSnapshot, error)

type entry struct {
	snapshot  domain.TableSnapshot
	err       error
	fetchedAt time.Time
}

// Cache wraps a LoadFunc with TTL memoization. Entries are keyed per
// dataset type; fetches are serialized, which fits the one-request-at-
// a-time execution model.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	load    LoadFunc
	now     func() time.Time
	entries map[domain.DatasetType]entry
}

// New creates a cache over load with the given TTL.
func New(ttl time.Duration, load LoadFunc) *Cache {
	return &Cache{
		ttl:     ttl,
		load:    load,
		now:     time.Now,
		entries: make(map[domain.DatasetType]entry),
	}
}

// GetOrFetch returns the memoized snapshot (or memoized error) for dt
// when it is still within the TTL window, otherwise it loads a fresh
// one and stores the outcome either way.
func (c *Cache) GetOrFetch(ctx context.Context, dt domain.DatasetType) (domain.TableSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.entries[dt]; ok && c.now().Sub(cached.fetchedAt) < c.ttl {
		return cached.snapshot, cached.err
	}

	snapshot, err := c.load(ctx, dt)
	c.entries[dt] = entry{snapshot: snapshot, err: err, fetchedAt: c.now()}
	return snapshot, err
}

// InvalidateAll drops every cached entry. Called whenever the source
// registry changes, since cached data would reference superseded
// locations.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[domain.DatasetType]entry)
}
