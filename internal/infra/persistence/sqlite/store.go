// Package sqlite persists geometries in an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"detgeo/internal/infra/persistence/jsonrows"
	"detgeo/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.VolumeStore = (*Store)(nil)

// Store keeps one JSON document per geometry in the volumes and materials tables.
type Store struct {
	*jsonrows.Store
	path string
}

// NewStore opens (creating if needed) the SQLite file at path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "detgeo.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := jsonrows.Ensure(ctx, db, jsonrows.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: jsonrows.NewStore(db, jsonrows.SQLite), path: path}, nil
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
