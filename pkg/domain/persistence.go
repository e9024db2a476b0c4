package domain

import "context"

// VolumeStore is the loader-facing abstraction over durable geometry backends. A geometry is
// addressed by detector system and variation, mirroring how detector databases are organised.
// LoadVolumes wraps ErrNotFound for an unknown geometry; LoadMaterials returns an empty list.
type VolumeStore interface {
	LoadVolumes(ctx context.Context, system, variation string) ([]VolumeSpec, error)
	SaveVolumes(ctx context.Context, system, variation string, volumes []VolumeSpec) error
	LoadMaterials(ctx context.Context, system, variation string) ([]MaterialRecord, error)
	SaveMaterials(ctx context.Context, system, variation string, materials []MaterialRecord) error
	Close() error
}

// MaterialConstituent is one element or compound of a material, by mass fraction.
type MaterialConstituent struct {
	Name     string  `json:"name"`
	Fraction float64 `json:"fraction"`
}

// MaterialRecord is a material definition shipped alongside a geometry.
type MaterialRecord struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Density     float64               `json:"density"` // g/cm3
	Components  []MaterialConstituent `json:"components,omitempty"`
}

// Clone returns a deep copy of the record.
func (m MaterialRecord) Clone() MaterialRecord {
	out := m
	if m.Components != nil {
		out.Components = append([]MaterialConstituent(nil), m.Components...)
	}
	return out
}

// GeometryKey returns the storage key of a system/variation pair.
func GeometryKey(system, variation string) string {
	return system + "/" + variation
}
