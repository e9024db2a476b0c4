package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFatal is matched by every build error that must abort the whole construction run.
var ErrFatal = errors.New("fatal geometry error")

// ErrUnsupported is returned when a store does not implement an optional operation.
var ErrUnsupported = errors.New("unsupported operation")

// ErrNotFound is wrapped by stores when a system/variation has no stored volumes.
var ErrNotFound = errors.New("geometry not found")

// ErrUnresolvedReference reports a name that is absent from the registry, or present but not
// yet built, at the moment it is needed.
type ErrUnresolvedReference struct {
	Volume    string
	Reference string
	Role      string // copy original, first operand, second operand, mother, replica template
}

func (e ErrUnresolvedReference) Error() string {
	return fmt.Sprintf("volume %s: %s <%s> not found", e.Volume, e.Role, e.Reference)
}

func (e ErrUnresolvedReference) Is(target error) bool { return target == ErrFatal }

// ErrMalformedOperation reports an Operation: descriptor without any of + - *.
type ErrMalformedOperation struct {
	Volume string
	Token  string
}

func (e ErrMalformedOperation) Error() string {
	return fmt.Sprintf("volume %s: operation %q not recognized", e.Volume, e.Token)
}

func (e ErrMalformedOperation) Is(target error) bool { return target == ErrFatal }

// ErrUnresolvedMaterial reports a material missing from the table, the lookup service and the
// default-material fallback.
type ErrUnresolvedMaterial struct {
	Volume   string
	Material string
	// Default is set when the missing material is the configured default itself.
	Default bool
}

func (e ErrUnresolvedMaterial) Error() string {
	if e.Default {
		return fmt.Sprintf("volume %s: default material %s is not defined", e.Volume, e.Material)
	}
	return fmt.Sprintf("volume %s: material %s is not defined and no default material is set", e.Volume, e.Material)
}

func (e ErrUnresolvedMaterial) Is(target error) bool { return target == ErrFatal }

// ErrReplicaParameters reports replica dimensions that do not describe a replica.
type ErrReplicaParameters struct {
	Volume string
	Params []float64
	Reason string
}

func (e ErrReplicaParameters) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "volume %s: %s; %d parameters supplied", e.Volume, e.Reason, len(e.Params))
	for i, p := range e.Params {
		fmt.Fprintf(&b, "\n  parameter %d: %g", i+1, p)
	}
	return b.String()
}

func (e ErrReplicaParameters) Is(target error) bool { return target == ErrFatal }

// ErrUnrecognizedType reports a type descriptor that no build rule accepts.
type ErrUnrecognizedType struct {
	Volume string
	Type   string
	Cause  error
}

func (e ErrUnrecognizedType) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("volume %s: solid >%s< not recognized: %v", e.Volume, e.Type, e.Cause)
	}
	return fmt.Sprintf("volume %s: solid >%s< not recognized", e.Volume, e.Type)
}

func (e ErrUnrecognizedType) Is(target error) bool { return target == ErrFatal }

func (e ErrUnrecognizedType) Unwrap() error { return e.Cause }

// ErrUnbuiltSolid reports a logical volume request for a volume without a solid.
type ErrUnbuiltSolid struct {
	Volume string
}

func (e ErrUnbuiltSolid) Error() string {
	return fmt.Sprintf("volume %s: no solid available for logical volume", e.Volume)
}

func (e ErrUnbuiltSolid) Is(target error) bool { return target == ErrFatal }

// ErrOverlap reports a placement that protrudes from its mother or intersects a sibling.
type ErrOverlap struct {
	Volume string
	Other  string
	Point  Vector3
}

func (e ErrOverlap) Error() string {
	return fmt.Sprintf("volume %s overlaps %s at %s", e.Volume, e.Other, e.Point)
}

func (e ErrOverlap) Is(target error) bool { return target == ErrFatal }

// ErrDependencyCycle reports volumes that reference each other in a loop.
type ErrDependencyCycle struct {
	Names []string
}

func (e ErrDependencyCycle) Error() string {
	return fmt.Sprintf("dependency cycle between volumes: %s", strings.Join(e.Names, " -> "))
}

func (e ErrDependencyCycle) Is(target error) bool { return target == ErrFatal }

// ErrDuplicateVolume reports a second record with an existing name.
type ErrDuplicateVolume struct {
	Name string
}

func (e ErrDuplicateVolume) Error() string {
	return fmt.Sprintf("volume %s already registered", e.Name)
}

func (e ErrDuplicateVolume) Is(target error) bool { return target == ErrFatal }
