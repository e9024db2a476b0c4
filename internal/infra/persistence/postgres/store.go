// Package postgres persists geometries in a PostgreSQL database through pgx.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"detgeo/internal/infra/persistence/jsonrows"
	"detgeo/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.VolumeStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/detgeo?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store keeps one JSONB document per geometry in the volumes and materials tables.
type Store struct {
	*jsonrows.Store
}

// NewStore opens a Postgres-backed store using dsn (falls back to defaultDSN), checks the
// connection and ensures the tables exist.
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
	if err := jsonrows.Ensure(ctx, db, jsonrows.Postgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: jsonrows.NewStore(db, jsonrows.Postgres)}, nil
}

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
