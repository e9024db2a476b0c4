// Package jsonrows stores one JSON document per geometry key in SQL tables. The sqlite and
// postgres stores share it and differ only in dialect.
package jsonrows

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"detgeo/pkg/domain"
)

// Tables holding geometry documents.
const (
	TableVolumes   = "volumes"
	TableMaterials = "materials"
)

// Dialect captures the SQL differences between backends.
type Dialect struct {
	// PayloadType is the column type of the JSON payload.
	PayloadType string
	// Placeholders are the two bind markers of the upsert, e.g. "?" or "$1".
	Placeholders [2]string
}

var (
	SQLite   = Dialect{PayloadType: "BLOB", Placeholders: [2]string{"?", "?"}}
	Postgres = Dialect{PayloadType: "JSONB", Placeholders: [2]string{"$1", "$2"}}
)

// Ensure creates the geometry tables.
func Ensure(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, table := range []string{TableVolumes, TableMaterials} {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		geometry TEXT PRIMARY KEY,
		payload %s NOT NULL
	)`, table, d.PayloadType)
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create %s table: %w", table, err)
		}
	}
	return nil
}

// Load decodes the payload stored under key into dest and reports whether a row was found.
func Load(ctx context.Context, db *sql.DB, d Dialect, table, key string, dest any) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT geometry, payload FROM %s WHERE geometry = %s`, table, d.Placeholders[0]), key)
	if err != nil {
		return false, fmt.Errorf("select %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()
	found := false
	for rows.Next() {
		var geometry string
		var payload []byte
		if err := rows.Scan(&geometry, &payload); err != nil {
			return false, fmt.Errorf("scan %s: %w", table, err)
		}
		if geometry != key || len(payload) == 0 {
			continue
		}
		if err := json.Unmarshal(payload, dest); err != nil {
			return false, fmt.Errorf("decode %s %s: %w", table, key, err)
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterate %s: %w", table, err)
	}
	return found, nil
}

// Save upserts value under key inside a transaction.
func Save(ctx context.Context, db *sql.DB, d Dialect, table, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", table, key, err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	stmt := fmt.Sprintf(`INSERT INTO %s(geometry,payload) VALUES(%s,%s) ON CONFLICT(geometry) DO UPDATE SET payload=excluded.payload`,
		table, d.Placeholders[0], d.Placeholders[1])
	if _, err := tx.ExecContext(ctx, stmt, key, data); err != nil {
		return fmt.Errorf("upsert %s %s: %w", table, key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Store implements domain.VolumeStore over an open database.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// NewStore wraps db; the tables must already exist (see Ensure).
func NewStore(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d}
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) LoadVolumes(ctx context.Context, system, variation string) ([]domain.VolumeSpec, error) {
	key := domain.GeometryKey(system, variation)
	var out []domain.VolumeSpec
	found, err := Load(ctx, s.db, s.dialect, TableVolumes, key, &out)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	return out, nil
}

func (s *Store) SaveVolumes(ctx context.Context, system, variation string, volumes []domain.VolumeSpec) error {
	if volumes == nil {
		volumes = []domain.VolumeSpec{}
	}
	return Save(ctx, s.db, s.dialect, TableVolumes, domain.GeometryKey(system, variation), volumes)
}

func (s *Store) LoadMaterials(ctx context.Context, system, variation string) ([]domain.MaterialRecord, error) {
	out := []domain.MaterialRecord{}
	if _, err := Load(ctx, s.db, s.dialect, TableMaterials, domain.GeometryKey(system, variation), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SaveMaterials(ctx context.Context, system, variation string, materials []domain.MaterialRecord) error {
	if materials == nil {
		materials = []domain.MaterialRecord{}
	}
	return Save(ctx, s.db, s.dialect, TableMaterials, domain.GeometryKey(system, variation), materials)
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
