package domain

import (
	"context"
	"errors"
)

// ErrEmptyCatalog is returned by stores that hold no catalogue snapshot.
var ErrEmptyCatalog = errors.New("catalog store is empty")

// Snapshot is the raw, pre-enrichment catalogue: listings per category plus
// master spec tables for the reference-bearing categories.
type Snapshot struct {
	Parts      map[Category][]Part       `json:"parts"`
	References map[Category][]MasterSpec `json:"references"`
}

// NewSnapshot returns a snapshot with initialized maps.
func NewSnapshot() Snapshot {
	return Snapshot{
		Parts:      make(map[Category][]Part),
		References: make(map[Category][]MasterSpec),
	}
}

// Empty reports whether the snapshot carries no listings at all.
func (s Snapshot) Empty() bool {
	for _, parts := range s.Parts {
		if len(parts) > 0 {
			return false
		}
	}
	return true
}

// Clone deep-copies the snapshot so stores never share slices with callers.
func (s Snapshot) Clone() Snapshot {
	out := NewSnapshot()
	for c, parts := range s.Parts {
		cp := make([]Part, len(parts))
		for i, p := range parts {
			cp[i] = p.Clone()
		}
		out.Parts[c] = cp
	}
	for c, refs := range s.References {
		cp := make([]MasterSpec, len(refs))
		for i, r := range refs {
			cp[i] = r.Clone()
		}
		out.References[c] = cp
	}
	return out
}

// CatalogStore is a minimal abstraction over durable catalogue backends.
type CatalogStore interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
	Close() error
}
