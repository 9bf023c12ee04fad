// Package postgres persists the catalogue snapshot to PostgreSQL as JSONB
// bucket rows, mirroring the sqlite layout.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"rigsmith/internal/infra/persistence/memory"
	"rigsmith/pkg/domain"
)

var _ domain.CatalogStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/rigsmith?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store keeps the decoded snapshot in memory and rewrites the catalog table
// on every Save.
type Store struct {
	mem *memory.Store
	db  *sql.DB
	mu  sync.Mutex
}

// NewStore connects, ensures the catalog table exists and hydrates from any
// existing rows. An empty dsn falls back to a local default.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureCatalogTable(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	buckets, err := loadBuckets(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	mem := memory.NewStore()
	if len(buckets) > 0 {
		snapshot, err := memory.DecodeSnapshot(buckets)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		mem.ImportState(snapshot)
	}
	return &Store{mem: mem, db: db}, nil
}

func ensureCatalogTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS catalog (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure catalog table: %w", err)
	}
	return nil
}

func loadBuckets(ctx context.Context, db *sql.DB) ([]memory.Bucket, error) {
	rows, err := db.QueryContext(ctx, `SELECT bucket, payload FROM catalog`)
	if err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []memory.Bucket
	for rows.Next() {
		var b memory.Bucket
		if err := rows.Scan(&b.Name, &b.Payload); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return out, nil
}

// Save replaces the catalog rows in one transaction.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
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
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	for _, b := range buckets {
		if _, err := tx.ExecContext(ctx, `INSERT INTO catalog(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, b.Name, b.Payload); err != nil {
			return fmt.Errorf("upsert %s: %w", b.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	s.mem.ImportState(snapshot)
	return nil
}

// Load returns the last saved snapshot or domain.ErrEmptyCatalog.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	return s.mem.Load(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
