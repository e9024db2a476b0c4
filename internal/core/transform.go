package core

import (
	"strings"

	"detgeo/pkg/domain"
)

// CombinationMode carries the modifiers of an Operation: descriptor.
type CombinationMode uint8

const (
	// TranslationFirst (~) applies the translation before the inverse rotation.
	TranslationFirst CombinationMode = 1 << iota
	// Absolute (@) derives the transform from both operands' placement in their common mother.
	Absolute
)

func (m CombinationMode) String() string {
	var parts []string
	if m&TranslationFirst != 0 {
		parts = append(parts, "translation-first")
	}
	if m&Absolute != 0 {
		parts = append(parts, "absolute")
	}
	if len(parts) == 0 {
		return "default"
	}
	return strings.Join(parts, "+")
}

// Operand is the placement data of a boolean operand, relative to its own mother.
type Operand struct {
	Mother   string
	Position Vector3
	Rotation Rotation
}

// OperandOf extracts the placement data used by ComposeTransform.
func OperandOf(spec VolumeSpec) Operand {
	return Operand{Mother: spec.Mother, Position: spec.Position, Rotation: spec.Rotation}
}

// ComposeTransform returns the transform placing the second operand's solid into the first
// operand's local frame, and whether absolute mode was applied. Absolute mode applies only when
// both operands share a mother and then overrides translation-first.
func ComposeTransform(first, second Operand, mode CombinationMode) (Transform3D, bool) {
	unrotate := domain.Rotate(second.Rotation.Inverse())
	shift := domain.Translate(second.Position)

	if mode&Absolute != 0 && strings.TrimSpace(first.Mother) == strings.TrimSpace(second.Mother) {
		net := second.Rotation.Mul(first.Rotation.Inverse()).Inverse()
		offset := first.Rotation.Apply(second.Position.Sub(first.Position))
		return Transform3D{Rot: net, Trans: offset}, true
	}
	if mode&TranslationFirst != 0 {
		return unrotate.Mul(shift), false
	}
	return shift.Mul(unrotate), false
}
