package core

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detgeo/internal/blob"
	"detgeo/internal/infra/persistence/memory"
	"detgeo/internal/infra/persistence/sqlite"
	"detgeo/internal/textdb"
	"detgeo/pkg/domain"
)

func TestOpenVolumeStoreDrivers(t *testing.T) {
	ctx := context.Background()

	st, err := OpenVolumeStore(ctx, StoreConfig{Driver: StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, st)

	path := filepath.Join(t.TempDir(), "geo.db")
	st, err = OpenVolumeStore(ctx, StoreConfig{SQLitePath: path})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, st)
	require.NoError(t, st.Close())

	st, err = OpenVolumeStore(ctx, StoreConfig{Driver: StorageText, Blob: blob.Config{Driver: blob.DriverMemory}})
	require.NoError(t, err)
	assert.IsType(t, &textdb.Store{}, st)

	_, err = OpenVolumeStore(ctx, StoreConfig{Driver: "oracle"})
	assert.Error(t, err)

	_, err = OpenVolumeStore(ctx, StoreConfig{Driver: StorageText, Blob: blob.Config{Driver: "tape"}})
	assert.Error(t, err)
}

func TestLoadRegistryAndBuild(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveVolumes(ctx, "ftof", "default", []VolumeSpec{
		rootSpec(),
		boxSpec("paddle", "root", 10, domain.Vec3(100, 0, 0), "scintillator"),
	}))
	require.NoError(t, store.SaveMaterials(ctx, "ftof", "default", []MaterialRecord{{Name: "scintillator", Density: 1.032}}))

	reg, mats, err := LoadRegistry(ctx, store, "ftof", "default")
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	b := NewBuilder(reg)
	b.Materials().AddRecords(mats)
	_, err = b.Build(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.032, mustVolume(t, b, "paddle").Logical.Material.Density, 1e-12)

	_, _, err = LoadRegistry(ctx, store, "ftof", "rga")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLoadRegistryFromTextTables(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMemory()
	table := "root | root | world | 0 0 0 | 0 0 0 | fff | Box | 1*m 1*m 1*m | G4_AIR | no | 1 | 1 | 1 | 0 | 0 | no | no\n" +
		"dup | root | a | 0 0 0 | 0 0 0 | fff | Box | 1 1 1 | G4_AIR | no | 1 | 1 | 1 | 1 | 1 | no | no\n" +
		"dup | root | b | 0 0 0 | 0 0 0 | fff | Box | 1 1 1 | G4_AIR | no | 1 | 1 | 1 | 1 | 1 | no | no\n"
	_, err := blobs.Put(ctx, textdb.GeometryFile("dc", "default"), bytes.NewBufferString(table), blob.PutOptions{})
	require.NoError(t, err)

	_, _, err = LoadRegistry(ctx, textdb.NewStore(blobs), "dc", "default")
	var dup domain.ErrDuplicateVolume
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "dup", dup.Name)
}
