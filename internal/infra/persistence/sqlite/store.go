// Package sqlite persists the catalogue snapshot to an embedded SQLite file,
// one JSON payload per bucket.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"rigsmith/internal/infra/persistence/memory"
	"rigsmith/pkg/domain"
)

var _ domain.CatalogStore = (*Store)(nil)

// DefaultPath is used when no path is configured.
const DefaultPath = "rigsmith.db"

// Store mirrors the persisted snapshot in a memory.Store and rewrites every
// bucket on Save.
type Store struct {
	mem  *memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (creating if needed) the database at path and hydrates the
// in-memory copy from it.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS catalog (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create catalog table: %w", err)
	}
	s := &Store{mem: memory.NewStore(), db: db, path: path}
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM catalog`)
	if err != nil {
		return fmt.Errorf("select catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var buckets []memory.Bucket
	for rows.Next() {
		var b memory.Bucket
		if err := rows.Scan(&b.Name, &b.Payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate catalog: %w", err)
	}
	if len(buckets) == 0 {
		return nil
	}
	snapshot, err := memory.DecodeSnapshot(buckets)
	if err != nil {
		return err
	}
	s.mem.ImportState(snapshot)
	return nil
}

// Save writes every bucket in one transaction, then swaps the in-memory copy.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) (retErr error) {
	buckets, err := memory.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	for _, b := range buckets {
		if _, err := tx.ExecContext(ctx, `INSERT INTO catalog(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, b.Name, b.Payload); err != nil {
			return fmt.Errorf("upsert %s: %w", b.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.mem.ImportState(snapshot)
	return nil
}

// Load returns the last saved snapshot or domain.ErrEmptyCatalog.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	return s.mem.Load(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
