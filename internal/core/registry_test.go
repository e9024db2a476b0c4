package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detgeo/pkg/domain"
)

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add(rootSpec())
	require.NoError(t, err)
	_, err = reg.Add(rootSpec())
	var dup domain.ErrDuplicateVolume
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, domain.RootVolume, dup.Name)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryStoresCopies(t *testing.T) {
	spec := boxSpec("paddle", "root", 10, Vector3{}, "G4_Si")
	reg, err := NewRegistryFrom([]VolumeSpec{rootSpec(), spec})
	require.NoError(t, err)

	spec.Dimensions[0] = 99
	got, ok := reg.FindVolume("paddle")
	require.True(t, ok)
	assert.Equal(t, 10.0, got.Dimensions[0])

	got.Dimensions[1] = 42
	v, _ := reg.Get("paddle")
	assert.Equal(t, 10.0, v.Dimensions[1])
}

func TestRegistryResolveReportsRole(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve("paddle", "ghost", RoleMother)
	var unresolved domain.ErrUnresolvedReference
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, domain.ErrUnresolvedReference{Volume: "paddle", Reference: "ghost", Role: RoleMother}, unresolved)
	assert.True(t, errors.Is(err, domain.ErrFatal))
}

func TestBuildOrderPutsDependenciesFirst(t *testing.T) {
	specs := []VolumeSpec{
		rootSpec(),
		{Name: "a", Mother: "root", Type: "CopyOfz", Active: true},
		boxSpec("z", "root", 1, Vector3{}, "G4_Si"),
		{Name: "sum", Mother: "root", Type: "Operation: m + b", Active: true},
		boxSpec("m", "root", 1, Vector3{}, domain.MaterialComponent),
		boxSpec("b", "root", 1, Vector3{}, domain.MaterialComponent),
		{Name: "reps", Mother: "z", Type: "ReplicaOf: cell", Dimensions: []float64{1, 2, 1, 0}, Active: true},
		boxSpec("cell", "z", 0.5, Vector3{}, "G4_Si"),
	}
	reg, err := NewRegistryFrom(specs)
	require.NoError(t, err)

	order, err := reg.BuildOrder()
	require.NoError(t, err)
	want := []string{"root", "z", "a", "b", "cell", "m", "reps", "sum"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildOrderIgnoresUnknownReferences(t *testing.T) {
	reg, err := NewRegistryFrom([]VolumeSpec{
		rootSpec(),
		{Name: "orphan", Mother: "nowhere", Type: "CopyOfghost"},
	})
	require.NoError(t, err)
	order, err := reg.BuildOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan", "root"}, order)
}

func TestBuildOrderDetectsCycles(t *testing.T) {
	reg, err := NewRegistryFrom([]VolumeSpec{
		rootSpec(),
		{Name: "a", Mother: "root", Type: "Operation: b + c"},
		{Name: "b", Mother: "root", Type: "CopyOfa"},
		boxSpec("c", "root", 1, Vector3{}, domain.MaterialComponent),
	})
	require.NoError(t, err)

	_, err = reg.BuildOrder()
	var cycle domain.ErrDependencyCycle
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"a", "b", "a"}, cycle.Names)
}

func TestRegistryListVolumesSorted(t *testing.T) {
	reg, err := NewRegistryFrom([]VolumeSpec{
		boxSpec("zeta", "root", 1, Vector3{}, "G4_Si"),
		rootSpec(),
		boxSpec("alpha", "root", 1, Vector3{}, "G4_Si"),
	})
	require.NoError(t, err)
	var names []string
	for _, v := range reg.ListVolumes() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"alpha", "root", "zeta"}, names)
	assert.Equal(t, names, reg.Names())
}
