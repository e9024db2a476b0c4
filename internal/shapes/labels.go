package shapes

import "detgeo/internal/units"

// Primitive kinds as written in type descriptors.
const (
	KindBox    = "Box"
	KindTube   = "Tube"
	KindCons   = "Cons"
	KindSphere = "Sphere"
	KindTrd    = "Trd"
)

// Label names one primitive parameter and the unit family it is expressed in.
type Label struct {
	Name     string
	Category units.Category
}

var dimensionLabels = map[string][]Label{
	KindBox: {
		{"half-length in X", units.Length},
		{"half-length in Y", units.Length},
		{"half-length in Z", units.Length},
	},
	KindTube: {
		{"Inner radius", units.Length},
		{"Outer radius", units.Length},
		{"half-length in Z", units.Length},
		{"Starting Phi angle", units.Angle},
		{"Delta Phi angle", units.Angle},
	},
	KindCons: {
		{"Inner radius at -dz", units.Length},
		{"Outer radius at -dz", units.Length},
		{"Inner radius at +dz", units.Length},
		{"Outer radius at +dz", units.Length},
		{"half-length in Z", units.Length},
		{"Starting Phi angle", units.Angle},
		{"Delta Phi angle", units.Angle},
	},
	KindSphere: {
		{"Inner radius", units.Length},
		{"Outer radius", units.Length},
		{"Starting Phi angle", units.Angle},
		{"Delta Phi angle", units.Angle},
		{"Starting Theta angle", units.Angle},
		{"Delta Theta angle", units.Angle},
	},
	KindTrd: {
		{"half-length in X at -dz", units.Length},
		{"half-length in X at +dz", units.Length},
		{"half-length in Y at -dz", units.Length},
		{"half-length in Y at +dz", units.Length},
		{"half-length in Z", units.Length},
	},
}

// DimensionLabels returns the parameter labels of a primitive kind, or nil when the kind is
// not a known primitive.
func DimensionLabels(kind string) []Label {
	labels, ok := dimensionLabels[kind]
	if !ok {
		return nil
	}
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}
