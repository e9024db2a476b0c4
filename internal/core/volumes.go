package core

import (
	"detgeo/internal/materials"
	"detgeo/internal/shapes"
	"detgeo/pkg/domain"
)

// LogicalVolume binds a solid to a material. Copies share one LogicalVolume through Retain;
// it stays alive while any holder has not released it.
type LogicalVolume struct {
	Name     string
	Solid    Solid
	Material *materials.Material
	Vis      VisAttributes

	holders   int
	daughters []*Placement
}

func newLogicalVolume(name string, solid Solid, material *materials.Material) *LogicalVolume {
	return &LogicalVolume{Name: name, Solid: solid, Material: material, holders: 1}
}

// Retain registers another holder and returns the shared handle.
func (lv *LogicalVolume) Retain() *LogicalVolume {
	lv.holders++
	return lv
}

// Release drops one holder. The last release forgets the daughter placements.
func (lv *LogicalVolume) Release() {
	if lv.holders == 0 {
		return
	}
	lv.holders--
	if lv.holders == 0 {
		lv.daughters = nil
	}
}

// Holders returns the number of volumes sharing this logical volume.
func (lv *LogicalVolume) Holders() int { return lv.holders }

// Daughters returns the placements made inside this logical volume, in placement order.
func (lv *LogicalVolume) Daughters() []*Placement {
	out := make([]*Placement, len(lv.daughters))
	copy(out, lv.daughters)
	return out
}

// Mass returns the mass in grams: the solid filled with this material, less the space taken
// by daughters, plus the daughters' own masses.
func (lv *LogicalVolume) Mass() float64 {
	if lv.Solid == nil || lv.Material == nil {
		return 0
	}
	own := lv.Solid.CubicVolume()
	var inner float64
	for _, d := range lv.daughters {
		n := float64(len(d.Instances()))
		if d.Logical == nil || d.Logical.Solid == nil {
			continue
		}
		own -= n * d.Logical.Solid.CubicVolume()
		inner += n * d.Logical.Mass()
	}
	if own < 0 {
		own = 0
	}
	// g/cm3 * mm3 -> g
	return lv.Material.Density*own/1000 + inner
}

// Axis is the replication axis of a replica placement.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "z"
	}
}

// ReplicaLayout describes count slices of the given width along an axis.
type ReplicaLayout struct {
	Axis   Axis
	Count  int
	Width  float64
	Offset float64
}

// Center returns the position of copy i along the axis. Slices are centred on the mother; the
// offset only applies to non-cartesian replication and is kept for description.
func (r ReplicaLayout) Center(i int) float64 {
	return -r.Width*float64(r.Count-1)/2 + float64(i)*r.Width
}

// Instance is one positioned copy produced by a placement.
type Instance struct {
	CopyNumber int
	// Transform maps points of the placed logical volume into the mother frame.
	Transform Transform3D
}

// Placement is a positioned logical volume inside a mother. A replica placement stands for
// Replica.Count instances.
type Placement struct {
	Name       string
	Logical    *LogicalVolume
	Mother     *LogicalVolume
	Rotation   Rotation
	Position   Vector3
	CopyNumber int
	Replica    *ReplicaLayout
}

func place(name string, logical, mother *LogicalVolume, rot Rotation, pos Vector3, copyNo int) *Placement {
	p := &Placement{
		Name:       name,
		Logical:    logical,
		Mother:     mother,
		Rotation:   rot,
		Position:   pos,
		CopyNumber: copyNo,
	}
	if mother != nil {
		mother.daughters = append(mother.daughters, p)
	}
	return p
}

// Transform maps daughter points into the mother frame. The stored rotation is the rotation of
// the mother frame relative to the daughter, so its inverse is applied.
func (p *Placement) Transform() Transform3D {
	return Transform3D{Rot: p.Rotation.Inverse(), Trans: p.Position}
}

// Instances expands the placement into its positioned copies.
func (p *Placement) Instances() []Instance {
	if p.Replica == nil {
		return []Instance{{CopyNumber: p.CopyNumber, Transform: p.Transform()}}
	}
	out := make([]Instance, 0, p.Replica.Count)
	for i := 0; i < p.Replica.Count; i++ {
		var shift Vector3
		switch p.Replica.Axis {
		case AxisX:
			shift.X = p.Replica.Center(i)
		case AxisY:
			shift.Y = p.Replica.Center(i)
		default:
			shift.Z = p.Replica.Center(i)
		}
		out = append(out, Instance{CopyNumber: i, Transform: domain.Translate(shift)})
	}
	return out
}

func (p *Placement) detach() {
	if p == nil || p.Mother == nil {
		return
	}
	kept := p.Mother.daughters[:0]
	for _, d := range p.Mother.daughters {
		if d != p {
			kept = append(kept, d)
		}
	}
	p.Mother.daughters = kept
	p.Mother = nil
}

// checkOverlaps tests a grid of interior points of the placed solid: each must lie inside the
// mother solid and outside every other daughter of the mother.
func (p *Placement) checkOverlaps(samples int) error {
	if p.Mother == nil || p.Logical == nil || p.Logical.Solid == nil {
		return nil
	}
	points := shapes.InteriorPoints(p.Logical.Solid, samples)
	for _, inst := range p.Instances() {
		for _, local := range points {
			q := inst.Transform.Apply(local)
			if p.Mother.Solid != nil && !p.Mother.Solid.Inside(q) {
				return domain.ErrOverlap{Volume: p.Name, Other: p.Mother.Name, Point: q}
			}
			for _, sibling := range p.Mother.daughters {
				if sibling == p || sibling.Logical == nil || sibling.Logical.Solid == nil {
					continue
				}
				for _, other := range sibling.Instances() {
					if sibling.Logical.Solid.Inside(other.Transform.Inverse().Apply(q)) {
						return domain.ErrOverlap{Volume: p.Name, Other: sibling.Name, Point: q}
					}
				}
			}
		}
	}
	return nil
}
