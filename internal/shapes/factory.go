package shapes

import (
	"errors"
	"fmt"

	"detgeo/pkg/domain"
)

// ErrUnknownKind is returned for a primitive kind the library does not build.
var ErrUnknownKind = errors.New("unknown shape kind")

// ErrDimensions reports a parameter count that does not match the primitive kind.
type ErrDimensions struct {
	Kind string
	Want int
	Got  int
}

func (e ErrDimensions) Error() string {
	return fmt.Sprintf("%s needs %d dimensions, got %d", e.Kind, e.Want, e.Got)
}

// Factory builds primitives and boolean solids.
type Factory struct {
	// Resolution is the voxel count per axis used to measure boolean solids.
	Resolution int
}

// NewFactory returns a factory using DefaultResolution.
func NewFactory() *Factory {
	return &Factory{Resolution: DefaultResolution}
}

// MakePrimitive builds the primitive named by kind from its dimensions (mm, rad).
func (f *Factory) MakePrimitive(name, kind string, dims []float64) (domain.Solid, error) {
	labels, ok := dimensionLabels[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if len(dims) != len(labels) {
		return nil, ErrDimensions{Kind: kind, Want: len(labels), Got: len(dims)}
	}
	n := named{name: name}
	switch kind {
	case KindBox:
		return &Box{named: n, DX: dims[0], DY: dims[1], DZ: dims[2]}, nil
	case KindTube:
		return &Tube{named: n, RMin: dims[0], RMax: dims[1], DZ: dims[2], SPhi: dims[3], DPhi: dims[4]}, nil
	case KindCons:
		return &Cons{named: n, RMin1: dims[0], RMax1: dims[1], RMin2: dims[2], RMax2: dims[3], DZ: dims[4], SPhi: dims[5], DPhi: dims[6]}, nil
	case KindSphere:
		return &Sphere{named: n, RMin: dims[0], RMax: dims[1], SPhi: dims[2], DPhi: dims[3], STheta: dims[4], DTheta: dims[5]}, nil
	case KindTrd:
		return &Trd{named: n, DX1: dims[0], DX2: dims[1], DY1: dims[2], DY2: dims[3], DZ: dims[4]}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// MakeBoolean combines base and tool; t places the tool into the base frame.
func (f *Factory) MakeBoolean(name string, op domain.BooleanOp, base, tool domain.Solid, t domain.Transform3D) (domain.Solid, error) {
	if base == nil || tool == nil {
		return nil, fmt.Errorf("boolean %s: both operands must be built", name)
	}
	switch op {
	case domain.OpUnion, domain.OpSubtraction, domain.OpIntersection:
	default:
		return nil, fmt.Errorf("boolean %s: unsupported operation %d", name, op)
	}
	return newBoolean(name, op, base, tool, t, f.Resolution), nil
}
