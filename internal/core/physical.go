package core

import (
	"go.uber.org/zap"

	"detgeo/pkg/domain"
)

// BuildPhysical places the named volume under mother. Any previous placement is withdrawn
// first. Components and replica templates are skipped; the root volume is placed at the
// identity without a mother.
func (b *Builder) BuildPhysical(name string, mother *LogicalVolume) (Outcome, error) {
	v, err := b.volume(name)
	if err != nil {
		return Skipped, err
	}
	v.dropPlacement()

	if v.Imported() {
		b.trace(PassPhysical, name, "imported volume, not placed")
		return Skipped, nil
	}
	if b.templateOnly(v) {
		b.trace(PassPhysical, name, "component or replica, placement handled elsewhere")
		return Skipped, nil
	}
	if v.Logical == nil {
		return Skipped, domain.ErrUnbuiltSolid{Volume: name}
	}

	if name == domain.RootVolume {
		v.Physical = place(name, v.Logical, nil, domain.Identity(), Vector3{}, 0)
		b.trace(PassPhysical, name, "world volume placed")
		return Built, nil
	}
	if mother == nil {
		return Skipped, domain.ErrUnresolvedReference{Volume: name, Reference: v.Mother, Role: "mother logical volume"}
	}

	p := place(name, v.Logical, mother, v.Rotation, v.Position, v.CopyNumber)
	if b.settings.CheckOverlaps {
		if err := p.checkOverlaps(b.settings.OverlapSamples); err != nil {
			p.detach()
			return Skipped, err
		}
	}
	v.Physical = p
	b.trace(PassPhysical, name, "placed", zap.String("mother", mother.Name), zap.Int("copy", v.CopyNumber))
	return Built, nil
}

func (v *Volume) dropPlacement() {
	if v.Physical != nil {
		v.Physical.detach()
		v.Physical = nil
	}
}
