package core

import (
	"sort"

	"detgeo/pkg/domain"
)

// Volume is a registry entry: the loader's record plus the artifacts attached by the passes.
type Volume struct {
	domain.VolumeSpec

	// Solid is owned by the volume and replaced on rebuild.
	Solid Solid
	// Logical is owned, or shared with the original when the volume is a copy.
	Logical *LogicalVolume
	// Physical is owned; for replica volumes it is the replica placement.
	Physical *Placement
	// EffectiveMaterial is the material name after switches and default fallback.
	EffectiveMaterial string

	copyOf *Volume
}

// Registry maps unique volume names to their entries. It is the only shared mutable state of a
// construction run; passes are ordered so that no entry is read while another pass writes it.
type Registry struct {
	volumes map[string]*Volume
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{volumes: make(map[string]*Volume)}
}

// NewRegistryFrom builds a registry from loader records.
func NewRegistryFrom(specs []VolumeSpec) (*Registry, error) {
	r := NewRegistry()
	if err := r.AddAll(specs); err != nil {
		return nil, err
	}
	return r, nil
}

// Add registers a copy of spec. Names must be unique.
func (r *Registry) Add(spec VolumeSpec) (*Volume, error) {
	if _, exists := r.volumes[spec.Name]; exists {
		return nil, domain.ErrDuplicateVolume{Name: spec.Name}
	}
	v := &Volume{VolumeSpec: spec.Clone()}
	r.volumes[spec.Name] = v
	return v, nil
}

// AddAll registers every spec, stopping at the first duplicate.
func (r *Registry) AddAll(specs []VolumeSpec) error {
	for _, spec := range specs {
		if _, err := r.Add(spec); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (*Volume, bool) {
	v, ok := r.volumes[name]
	return v, ok
}

// Resolve returns the entry for a reference made by volume in the given role, or an
// ErrUnresolvedReference.
func (r *Registry) Resolve(volume, reference, role string) (*Volume, error) {
	v, ok := r.volumes[reference]
	if !ok {
		return nil, domain.ErrUnresolvedReference{Volume: volume, Reference: reference, Role: role}
	}
	return v, nil
}

// Len returns the number of registered volumes.
func (r *Registry) Len() int { return len(r.volumes) }

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.volumes))
	for name := range r.volumes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ListVolumes implements domain.RuleView.
func (r *Registry) ListVolumes() []VolumeSpec {
	out := make([]VolumeSpec, 0, len(r.volumes))
	for _, name := range r.Names() {
		out = append(out, r.volumes[name].VolumeSpec.Clone())
	}
	return out
}

// FindVolume implements domain.RuleView.
func (r *Registry) FindVolume(name string) (VolumeSpec, bool) {
	v, ok := r.volumes[name]
	if !ok {
		return VolumeSpec{}, false
	}
	return v.VolumeSpec.Clone(), true
}

// Reset releases every artifact of every volume. Placements are detached from their mothers
// and shared logical volumes are released by each holder.
func (r *Registry) Reset() {
	for _, name := range r.Names() {
		v := r.volumes[name]
		if v.Physical != nil {
			v.Physical.detach()
			v.Physical = nil
		}
		if v.Logical != nil {
			v.Logical.Release()
			v.Logical = nil
		}
		v.Solid = nil
		v.copyOf = nil
		v.EffectiveMaterial = ""
	}
}

// BuildOrder returns every volume name ordered so that each volume comes after the volumes it
// depends on: boolean operands, copy originals, its mother and its replica template. Ties are
// broken by name. References to unknown names are ignored here; the passes report them.
func (r *Registry) BuildOrder() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(r.volumes))
	order := make([]string, 0, len(r.volumes))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, n := range stack {
				if n == name {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), stack[start:]...), name)
			return domain.ErrDependencyCycle{Names: cycle}
		}
		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range r.dependencies(name) {
			if _, ok := r.volumes[dep]; !ok || dep == name {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range r.Names() {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (r *Registry) dependencies(name string) []string {
	v := r.volumes[name]
	var deps []string
	if v.Name != domain.RootVolume && v.Mother != "" {
		deps = append(deps, v.Mother)
	}
	d, err := ParseDescriptor(v.VolumeSpec)
	if err != nil {
		return deps
	}
	switch d.Kind {
	case KindCopy:
		deps = append(deps, d.Copy.Original)
	case KindOperation:
		deps = append(deps, d.Operation.First, d.Operation.Second)
	case KindReplica:
		deps = append(deps, d.Replica.Template)
	}
	sort.Strings(deps)
	return deps
}
