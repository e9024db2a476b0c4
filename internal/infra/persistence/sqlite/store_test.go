package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detgeo/pkg/domain"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "geo.db")

	store, err := NewStore(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	volumes := []domain.VolumeSpec{
		{Name: "root", Type: "Box", Dimensions: []float64{1000, 1000, 1000}, Material: "G4_AIR", Active: true},
		{
			Name: "sector1", Mother: "root", Type: "Tube", Dimensions: []float64{0, 50, 20, 0, 1.0471975511965976},
			Material: "G4_Si", Active: true, Sensitivity: "ftof", HitType: "ftof",
			Identity: []domain.Identifier{{Name: "sector", Rule: "manual", ID: 1}},
			Position: domain.Vec3(0, 0, 5),
		},
	}
	require.NoError(t, store.SaveVolumes(ctx, "ftof", "default", volumes))
	require.NoError(t, store.SaveMaterials(ctx, "ftof", "default", []domain.MaterialRecord{{Name: "mylar", Density: 1.4}}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.LoadVolumes(ctx, "ftof", "default")
	require.NoError(t, err)
	if diff := cmp.Diff(volumes, got); diff != "" {
		t.Fatalf("volumes mismatch (-want +got):\n%s", diff)
	}
	mats, err := reopened.LoadMaterials(ctx, "ftof", "default")
	require.NoError(t, err)
	require.Len(t, mats, 1)
	assert.Equal(t, "mylar", mats[0].Name)
}

func TestStoreUpsertAndMissing(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "geo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SaveVolumes(ctx, "dc", "default", []domain.VolumeSpec{{Name: "root"}}))
	require.NoError(t, store.SaveVolumes(ctx, "dc", "default", []domain.VolumeSpec{{Name: "root"}, {Name: "r1", Mother: "root"}}))
	got, err := store.LoadVolumes(ctx, "dc", "default")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = store.LoadVolumes(ctx, "dc", "original")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	mats, err := store.LoadMaterials(ctx, "dc", "original")
	require.NoError(t, err)
	assert.Empty(t, mats)
}
