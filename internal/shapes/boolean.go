package shapes

import (
	"math"
	"sync"

	"detgeo/pkg/domain"
)

// BooleanSolid combines a base solid with a tool solid placed into the base frame by a transform.
type BooleanSolid struct {
	named
	Op        domain.BooleanOp
	Base      domain.Solid
	Tool      domain.Solid
	Transform domain.Transform3D

	toolInverse domain.Transform3D
	resolution  int

	once    sync.Once
	measure Measure
}

func newBoolean(name string, op domain.BooleanOp, base, tool domain.Solid, t domain.Transform3D, resolution int) *BooleanSolid {
	return &BooleanSolid{
		named:       named{name: name},
		Op:          op,
		Base:        base,
		Tool:        tool,
		Transform:   t,
		toolInverse: t.Inverse(),
		resolution:  resolution,
	}
}

func (b *BooleanSolid) Inside(p domain.Vector3) bool {
	inBase := b.Base.Inside(p)
	switch b.Op {
	case domain.OpUnion:
		return inBase || b.Tool.Inside(b.toolInverse.Apply(p))
	case domain.OpSubtraction:
		return inBase && !b.Tool.Inside(b.toolInverse.Apply(p))
	case domain.OpIntersection:
		return inBase && b.Tool.Inside(b.toolInverse.Apply(p))
	default:
		return false
	}
}

func (b *BooleanSolid) Extent() (domain.Vector3, domain.Vector3) {
	bmin, bmax := b.Base.Extent()
	tmin, tmax := transformedExtent(b.Tool, b.Transform)
	switch b.Op {
	case domain.OpUnion:
		return minVec(bmin, tmin), maxVec(bmax, tmax)
	case domain.OpIntersection:
		lo, hi := maxVec(bmin, tmin), minVec(bmax, tmax)
		if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
			return domain.Vector3{}, domain.Vector3{}
		}
		return lo, hi
	default:
		return bmin, bmax
	}
}

// CubicVolume is estimated on a voxel grid; the estimate is deterministic.
func (b *BooleanSolid) CubicVolume() float64 { return b.measured().Volume }

// SurfaceArea is estimated on the same voxel grid as CubicVolume.
func (b *BooleanSolid) SurfaceArea() float64 { return b.measured().Area }

func (b *BooleanSolid) measured() Measure {
	b.once.Do(func() {
		b.measure = Estimate(b, b.resolution)
	})
	return b.measure
}

func transformedExtent(s domain.Solid, t domain.Transform3D) (domain.Vector3, domain.Vector3) {
	lo, hi := s.Extent()
	outLo := domain.Vec3(math.Inf(1), math.Inf(1), math.Inf(1))
	outHi := domain.Vec3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for i := 0; i < 8; i++ {
		corner := lo
		if i&1 != 0 {
			corner.X = hi.X
		}
		if i&2 != 0 {
			corner.Y = hi.Y
		}
		if i&4 != 0 {
			corner.Z = hi.Z
		}
		p := t.Apply(corner)
		outLo = minVec(outLo, p)
		outHi = maxVec(outHi, p)
	}
	return outLo, outHi
}

func minVec(a, b domain.Vector3) domain.Vector3 {
	return domain.Vec3(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z))
}

func maxVec(a, b domain.Vector3) domain.Vector3 {
	return domain.Vec3(math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z))
}
