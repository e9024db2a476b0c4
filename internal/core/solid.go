package core

import (
	"go.uber.org/zap"

	"detgeo/pkg/domain"
)

// BuildSolid builds the solid of the named volume. Imported and replica volumes are skipped,
// copies only validate and record their original, boolean operations require both operands to
// have a built solid. Any previous solid is released first.
func (b *Builder) BuildSolid(name string) (Outcome, error) {
	v, err := b.volume(name)
	if err != nil {
		return Skipped, err
	}
	v.Solid = nil
	v.copyOf = nil

	d, err := ParseDescriptor(v.VolumeSpec)
	if err != nil {
		return Skipped, err
	}
	switch d.Kind {
	case KindImported:
		b.trace(PassSolid, name, "imported volume, solid not built")
		return Skipped, nil
	case KindReplica:
		b.trace(PassSolid, name, "replica, solid not built")
		return Skipped, nil
	case KindCopy:
		original, err := b.registry.Resolve(name, d.Copy.Original, RoleCopyOriginal)
		if err != nil {
			return Skipped, err
		}
		v.copyOf = original
		b.trace(PassSolid, name, "copy, pointing to the original logical volume", zap.String("original", original.Name))
		return Built, nil
	case KindOperation:
		solid, err := b.buildBoolean(v, d.Operation)
		if err != nil {
			return Skipped, err
		}
		v.Solid = solid
	default:
		solid, err := b.shapes.MakePrimitive(name, d.Primitive.Kind, v.Dimensions)
		if err != nil {
			return Skipped, domain.ErrUnrecognizedType{Volume: name, Type: v.Type, Cause: err}
		}
		v.Solid = solid
	}
	b.trace(PassSolid, name, "solid built", zap.String("type", v.Type))
	return Built, nil
}

func (b *Builder) buildBoolean(v *Volume, op OperationDescriptor) (Solid, error) {
	first, err := b.builtOperand(v.Name, op.First, RoleFirstOperand)
	if err != nil {
		return nil, err
	}
	second, err := b.builtOperand(v.Name, op.Second, RoleSecondOperand)
	if err != nil {
		return nil, err
	}
	t, absolute := ComposeTransform(OperandOf(first.VolumeSpec), OperandOf(second.VolumeSpec), op.Mode)
	solid, err := b.shapes.MakeBoolean(v.Name, op.Op, first.Solid, second.Solid, t)
	if err != nil {
		return nil, domain.ErrUnrecognizedType{Volume: v.Name, Type: v.Type, Cause: err}
	}
	b.trace(PassSolid, v.Name, "boolean solid",
		zap.Stringer("op", op.Op),
		zap.String("first", first.Name),
		zap.String("second", second.Name),
		zap.Stringer("mode", op.Mode),
		zap.Bool("absolute", absolute))
	return solid, nil
}

func (b *Builder) builtOperand(volume, name, role string) (*Volume, error) {
	operand, err := b.registry.Resolve(volume, name, role)
	if err != nil {
		return nil, err
	}
	if operand.Solid == nil {
		return nil, domain.ErrUnresolvedReference{Volume: volume, Reference: name, Role: role + " solid"}
	}
	return operand, nil
}
