package core

import (
	"go.uber.org/zap"

	"detgeo/internal/materials"
	"detgeo/pkg/domain"
)

// EffectiveMaterial applies the ordered material switches to name.
func (s Settings) EffectiveMaterial(name string) string {
	for _, sw := range s.SwitchMaterials {
		if name == sw.From {
			name = sw.To
		}
	}
	return name
}

// templateOnly reports whether the switched material marks v as a boolean operand or a
// replica template.
func (b *Builder) templateOnly(v *Volume) bool {
	m := v.EffectiveMaterial
	if m == "" {
		m = b.settings.EffectiveMaterial(v.Material)
	}
	return m == domain.MaterialComponent || m == domain.MaterialOfReplica
}

// BuildLogical attaches a logical volume to the named volume. Copies share the original's
// logical volume; an existing logical volume is reused without resolving the material again.
func (b *Builder) BuildLogical(name string) (Outcome, error) {
	v, err := b.volume(name)
	if err != nil {
		return Skipped, err
	}
	d, err := ParseDescriptor(v.VolumeSpec)
	if err != nil {
		return Skipped, err
	}
	if d.Kind == KindImported {
		b.trace(PassLogical, name, "imported volume, logical volume not built")
		return Skipped, nil
	}

	v.EffectiveMaterial = b.settings.EffectiveMaterial(v.Material)
	if b.templateOnly(v) || d.Kind == KindReplica {
		b.trace(PassLogical, name, "component or replica, logical volume not built")
		return Skipped, nil
	}

	if v.Logical == nil && d.Kind == KindCopy {
		original := v.copyOf
		if original == nil {
			if original, err = b.registry.Resolve(name, d.Copy.Original, RoleCopyOriginal); err != nil {
				return Skipped, err
			}
		}
		if original.Logical == nil {
			return Skipped, domain.ErrUnresolvedReference{Volume: name, Reference: original.Name, Role: "copy original logical volume"}
		}
		v.Logical = original.Logical.Retain()
	}

	if v.Logical == nil {
		mat, effective, err := b.resolveMaterial(name, v.EffectiveMaterial)
		if err != nil {
			return Skipped, err
		}
		if v.Solid == nil {
			return Skipped, domain.ErrUnbuiltSolid{Volume: name}
		}
		v.EffectiveMaterial = effective
		v.Logical = newLogicalVolume(name, v.Solid, mat)
	}

	if name == domain.RootVolume {
		v.Logical.Vis = domain.Invisible()
	} else {
		v.Logical.Vis = v.Vis
	}
	b.trace(PassLogical, name, "logical volume built", zap.String("material", v.EffectiveMaterial), zap.Int("holders", v.Logical.Holders()))
	return Built, nil
}

// resolveMaterial looks name up in the table, then in the lookup service (caching the result),
// then falls back to the default material, which must already be in the table.
func (b *Builder) resolveMaterial(volume, name string) (*materials.Material, string, error) {
	if m, ok := b.table.Get(name); ok {
		return m, name, nil
	}
	if b.lookup != nil {
		if m, ok := b.lookup.FindOrBuild(name); ok {
			b.table.Put(m)
			return m, name, nil
		}
	}
	def, ok := b.settings.defaultMaterial()
	if !ok {
		return nil, "", domain.ErrUnresolvedMaterial{Volume: volume, Material: name}
	}
	m, ok := b.table.Get(def)
	if !ok {
		return nil, "", domain.ErrUnresolvedMaterial{Volume: volume, Material: def, Default: true}
	}
	b.logger.Warn("material replaced by default", zap.String("volume", volume), zap.String("material", name), zap.String("default", def))
	return m, def, nil
}
