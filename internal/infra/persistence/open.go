// Package persistence selects a durable catalogue store from configuration.
package persistence

import (
	"context"
	"fmt"
	"strings"

	"rigsmith/internal/infra/persistence/memory"
	"rigsmith/internal/infra/persistence/postgres"
	"rigsmith/internal/infra/persistence/sqlite"
	"rigsmith/pkg/domain"
)

// Driver names a catalogue store backend.
type Driver string

// Supported drivers.
const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Config selects and configures a store.
type Config struct {
	Driver      Driver `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Open returns the configured CatalogStore. An empty driver selects sqlite.
func Open(ctx context.Context, cfg Config) (domain.CatalogStore, error) {
	switch Driver(strings.ToLower(string(cfg.Driver))) {
	case DriverMemory:
		return memory.NewStore(), nil
	case DriverSQLite, "":
		store, err := sqlite.NewStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case DriverPostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
