package core

import (
	"strings"

	"go.uber.org/zap"

	"detgeo/pkg/domain"
)

// Replica parameter positions in the dimensions list.
const (
	replicaAxis = iota
	replicaCount
	replicaWidth
	replicaOffset
	replicaParams
)

// ParseReplicaLayout reads axis, count, width and offset from replica dimensions.
func ParseReplicaLayout(volume string, dims []float64) (ReplicaLayout, error) {
	if len(dims) != replicaParams {
		return ReplicaLayout{}, domain.ErrReplicaParameters{Volume: volume, Params: dims,
			Reason: "a replica needs 4 parameters (axis, count, width, offset)"}
	}
	var layout ReplicaLayout
	switch dims[replicaAxis] {
	case 1:
		layout.Axis = AxisX
	case 2:
		layout.Axis = AxisY
	case 3:
		layout.Axis = AxisZ
	default:
		return ReplicaLayout{}, domain.ErrReplicaParameters{Volume: volume, Params: dims,
			Reason: "replica axis must be 1, 2 or 3"}
	}
	layout.Count = int(dims[replicaCount])
	layout.Width = dims[replicaWidth]
	layout.Offset = dims[replicaOffset]
	if layout.Count < 1 {
		return ReplicaLayout{}, domain.ErrReplicaParameters{Volume: volume, Params: dims,
			Reason: "replica count must be at least 1"}
	}
	if layout.Width <= 0 {
		return ReplicaLayout{}, domain.ErrReplicaParameters{Volume: volume, Params: dims,
			Reason: "replica width must be positive"}
	}
	return layout, nil
}

// BuildReplicas withdraws the template's own placement and places count copies of its
// logical volume inside mother as one replica placement owned by the named volume.
func (b *Builder) BuildReplicas(name string, mother *LogicalVolume, template *Volume) (Outcome, error) {
	v, err := b.volume(name)
	if err != nil {
		return Skipped, err
	}
	if template != nil {
		template.dropPlacement()
	}
	v.dropPlacement()

	if !strings.HasPrefix(v.Type, prefixReplica) {
		return Skipped, nil
	}
	layout, err := ParseReplicaLayout(name, v.Dimensions)
	if err != nil {
		return Skipped, err
	}
	if template == nil || template.Logical == nil {
		ref := ""
		if template != nil {
			ref = template.Name
		}
		return Skipped, domain.ErrUnresolvedReference{Volume: name, Reference: ref, Role: "replica template logical volume"}
	}
	if mother == nil {
		return Skipped, domain.ErrUnresolvedReference{Volume: name, Reference: v.Mother, Role: "mother logical volume"}
	}

	p := place(name, template.Logical, mother, domain.Identity(), Vector3{}, 0)
	p.Replica = &layout
	v.Physical = p
	b.trace(PassPhysical, name, "replicas placed",
		zap.String("template", template.Name),
		zap.String("mother", mother.Name),
		zap.Stringer("axis", layout.Axis),
		zap.Int("count", layout.Count))
	return Built, nil
}
