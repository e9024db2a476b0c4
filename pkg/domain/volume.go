package domain

import "strings"

// RootVolume is the name of the world volume. It has no mother and is placed at the identity.
const RootVolume = "root"

// Materials that mark a volume as a boolean operand or replication template only.
const (
	MaterialComponent = "Component"
	MaterialOfReplica = "OfReplica"
)

// Description markers written by the external importers.
const (
	markerGDML = "gdmlParsed"
	markerCAD  = "cadImported"
)

// ImportFlags marks volumes whose geometry comes from an external importer.
type ImportFlags uint8

const (
	ImportGDML ImportFlags = 1 << iota
	ImportCAD
)

// ImportFlagsFromDescription derives import flags from the importer markers in a description.
func ImportFlagsFromDescription(description string) ImportFlags {
	var f ImportFlags
	if strings.Contains(description, markerGDML) {
		f |= ImportGDML
	}
	if strings.Contains(description, markerCAD) {
		f |= ImportCAD
	}
	return f
}

// Style selects solid or wireframe rendering.
type Style int

const (
	StyleWireframe Style = 0
	StyleSolid     Style = 1
)

// VisAttributes are the visualization attributes attached to a logical volume.
type VisAttributes struct {
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
	Style   Style  `json:"style"`
}

// Invisible returns the attributes given to the world volume.
func Invisible() VisAttributes { return VisAttributes{Visible: false} }

// Identifier is one element of a volume's identity rules, e.g. "sector manual 3".
type Identifier struct {
	Name string `json:"name"`
	Rule string `json:"rule"`
	ID   int    `json:"id"`
}

// VolumeSpec is one named volume as produced by a loader. Names are unique within a registry.
type VolumeSpec struct {
	Name        string        `json:"name"`
	Mother      string        `json:"mother"`
	Description string        `json:"description,omitempty"`
	Position    Vector3       `json:"position"`
	Rotation    Rotation      `json:"rotation"`
	Vis         VisAttributes `json:"vis"`
	Type        string        `json:"type"`
	Dimensions  []float64     `json:"dimensions,omitempty"`
	Material    string        `json:"material"`
	MagField    string        `json:"magfield,omitempty"`
	CopyNumber  int           `json:"copy_number"`
	Active      bool          `json:"active"`
	Sensitivity string        `json:"sensitivity,omitempty"`
	HitType     string        `json:"hit_type,omitempty"`
	Identity    []Identifier  `json:"identity,omitempty"`
	ImportFlags ImportFlags   `json:"import_flags,omitempty"`
}

// Imported reports whether the volume was produced by an external importer.
func (v VolumeSpec) Imported() bool { return v.ImportFlags != 0 }

// IsTemplateOnly reports whether the configured material, before any switch rules, marks the volume as a component or replica template.
func (v VolumeSpec) IsTemplateOnly() bool {
	return v.Material == MaterialComponent || v.Material == MaterialOfReplica
}

// Sensitive reports whether the volume feeds the digitization collaborator.
func (v VolumeSpec) Sensitive() bool {
	return v.Sensitivity != "" && v.Sensitivity != "no"
}

// Clone returns a deep copy of v.
func (v VolumeSpec) Clone() VolumeSpec {
	out := v
	if v.Dimensions != nil {
		out.Dimensions = append([]float64(nil), v.Dimensions...)
	}
	if v.Identity != nil {
		out.Identity = append([]Identifier(nil), v.Identity...)
	}
	return out
}

// BooleanOp is the kind of CSG combination.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpSubtraction
	OpIntersection
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpSubtraction:
		return "subtraction"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// Solid is a built CSG shape expressed in its own local frame.
type Solid interface {
	Name() string
	// Inside reports whether p lies inside the solid or on its surface.
	Inside(p Vector3) bool
	// Extent returns the axis-aligned bounding box of the solid.
	Extent() (min, max Vector3)
	// CubicVolume is in mm3.
	CubicVolume() float64
	// SurfaceArea is in mm2.
	SurfaceArea() float64
}
