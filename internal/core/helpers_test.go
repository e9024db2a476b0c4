package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"detgeo/internal/materials"
	"detgeo/pkg/domain"
)

func visible() domain.VisAttributes {
	return domain.VisAttributes{Color: "ff0000", Visible: true, Style: domain.StyleSolid}
}

func rootSpec() VolumeSpec {
	return VolumeSpec{
		Name:       domain.RootVolume,
		Type:       "Box",
		Dimensions: []float64{1000, 1000, 1000},
		Material:   "G4_AIR",
		Rotation:   domain.Identity(),
		Vis:        visible(),
		Active:     true,
	}
}

func boxSpec(name, mother string, half float64, pos Vector3, material string) VolumeSpec {
	return VolumeSpec{
		Name:       name,
		Mother:     mother,
		Type:       "Box",
		Dimensions: []float64{half, half, half},
		Position:   pos,
		Rotation:   domain.Identity(),
		Material:   material,
		Vis:        visible(),
		Active:     true,
	}
}

func newTestBuilder(t *testing.T, specs []VolumeSpec, opts ...Option) *Builder {
	t.Helper()
	reg, err := NewRegistryFrom(specs)
	require.NoError(t, err)
	return NewBuilder(reg, opts...)
}

func mustVolume(t *testing.T, b *Builder, name string) *Volume {
	t.Helper()
	v, ok := b.Registry().Get(name)
	require.True(t, ok, "volume %s", name)
	return v
}

func tableWith(names ...string) *materials.Table {
	table := materials.NewTable()
	nist := materials.NewNIST()
	for _, n := range names {
		m, ok := nist.FindOrBuild(n)
		if !ok {
			m = &materials.Material{Name: n, Density: 1}
		}
		table.Put(m)
	}
	return table
}
