package core

import (
	"context"
	"fmt"

	"detgeo/internal/blob"
	"detgeo/internal/infra/persistence/memory"
	"detgeo/internal/infra/persistence/postgres"
	"detgeo/internal/infra/persistence/sqlite"
	"detgeo/internal/textdb"
)

// StorageDriver identifies a concrete volume store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageText     StorageDriver = "text"     // gemc text tables in a blob store, read-only
)

// StorageDrivers lists the accepted driver names.
func StorageDrivers() []StorageDriver {
	return []StorageDriver{StorageMemory, StorageSQLite, StoragePostgres, StorageText}
}

// StoreConfig selects and configures a volume store.
type StoreConfig struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
	// Blob locates the text tables for the text driver.
	Blob blob.Config
}

// OpenVolumeStore opens the store selected by cfg. An empty driver selects sqlite.
func OpenVolumeStore(ctx context.Context, cfg StoreConfig) (VolumeStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(ctx, cfg.SQLitePath)
	case StoragePostgres:
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	case StorageText:
		blobs, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open geometry files: %w", err)
		}
		return textdb.NewStore(blobs), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// LoadRegistry reads one geometry and its materials from store. Materials are returned as
// records for the caller's material table.
func LoadRegistry(ctx context.Context, store VolumeStore, system, variation string) (*Registry, []MaterialRecord, error) {
	specs, err := store.LoadVolumes(ctx, system, variation)
	if err != nil {
		return nil, nil, fmt.Errorf("load volumes: %w", err)
	}
	reg, err := NewRegistryFrom(specs)
	if err != nil {
		return nil, nil, err
	}
	mats, err := store.LoadMaterials(ctx, system, variation)
	if err != nil {
		return nil, nil, fmt.Errorf("load materials: %w", err)
	}
	return reg, mats, nil
}
