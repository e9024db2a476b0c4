package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detgeo/pkg/domain"
)

func TestTableRecords(t *testing.T) {
	tbl := NewTable()
	tbl.AddRecords([]domain.MaterialRecord{
		{Name: "scintillator", Density: 1.032, Components: []domain.MaterialConstituent{{Name: "G4_C", Fraction: 0.915}, {Name: "G4_H", Fraction: 0.085}}},
		{Name: "epoxy", Density: 1.16},
	})
	tbl.Put(nil)
	tbl.Put(&Material{})

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"epoxy", "scintillator"}, tbl.Names())
	m, ok := tbl.Get("scintillator")
	require.True(t, ok)
	assert.Len(t, m.Components, 2)
	_, ok = tbl.Get("G4_AIR")
	assert.False(t, ok)
}

func TestNISTLookup(t *testing.T) {
	var svc Service = NewNIST()
	m, ok := svc.FindOrBuild("G4_Pb")
	require.True(t, ok)
	assert.Equal(t, "G4_Pb", m.Name)
	assert.InDelta(t, 11.35, m.Density, 1e-9)

	_, ok = svc.FindOrBuild("unobtainium")
	assert.False(t, ok)
}
