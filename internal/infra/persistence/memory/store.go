// Package memory provides the in-process catalogue store and the bucket codec
// shared by the SQL-backed stores.
package memory

import (
	"context"
	"sync"

	"rigsmith/pkg/domain"
)

var _ domain.CatalogStore = (*Store)(nil)

// Store keeps one catalogue snapshot in memory. Saves replace the whole
// snapshot; readers always receive deep copies.
type Store struct {
	mu       sync.RWMutex
	snapshot domain.Snapshot
	saved    bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{snapshot: domain.NewSnapshot()}
}

// Save replaces the held snapshot.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.ImportState(snapshot)
	return nil
}

// Load returns a copy of the held snapshot, or domain.ErrEmptyCatalog.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	snapshot, ok := s.ExportState()
	if !ok {
		return domain.Snapshot{}, domain.ErrEmptyCatalog
	}
	return snapshot, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// ImportState replaces the snapshot without a context; the SQL stores use it
// to hydrate from disk.
func (s *Store) ImportState(snapshot domain.Snapshot) {
	cp := snapshot.Clone()
	s.mu.Lock()
	s.snapshot = cp
	s.saved = true
	s.mu.Unlock()
}

// ExportState returns a copy of the snapshot and whether one was ever saved.
func (s *Store) ExportState() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return domain.Snapshot{}, false
	}
	return s.snapshot.Clone(), true
}
