// Package materials holds the material table consulted by the logical-volume builder and the
// NIST-style lookup service that fills it on demand.
package materials

import (
	"sort"

	"detgeo/pkg/domain"
)

// Material is a resolved material. Density is in g/cm3.
type Material struct {
	Name       string
	Density    float64
	Components []domain.MaterialConstituent
}

// Table maps material names to resolved materials.
type Table struct {
	byName map[string]*Material
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Material)}
}

// Get returns the material registered under name.
func (t *Table) Get(name string) (*Material, bool) {
	m, ok := t.byName[name]
	return m, ok
}

// Put registers or replaces a material.
func (t *Table) Put(m *Material) {
	if m == nil || m.Name == "" {
		return
	}
	t.byName[m.Name] = m
}

// Len returns the number of materials.
func (t *Table) Len() int { return len(t.byName) }

// Names returns the material names in lexical order.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.byName))
	for name := range t.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// AddRecords registers materials shipped with a geometry.
func (t *Table) AddRecords(records []domain.MaterialRecord) {
	for _, r := range records {
		t.Put(&Material{
			Name:       r.Name,
			Density:    r.Density,
			Components: append([]domain.MaterialConstituent(nil), r.Components...),
		})
	}
}

// Service finds or builds materials that are not in a table yet.
type Service interface {
	FindOrBuild(name string) (*Material, bool)
}
