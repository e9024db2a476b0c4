package core

import "detgeo/pkg/domain"

type (
	VolumeSpec     = domain.VolumeSpec
	Vector3        = domain.Vector3
	Rotation       = domain.Rotation
	Transform3D    = domain.Transform3D
	Solid          = domain.Solid
	BooleanOp      = domain.BooleanOp
	VisAttributes  = domain.VisAttributes
	Rule           = domain.Rule
	RuleView       = domain.RuleView
	RulesEngine    = domain.RulesEngine
	Result         = domain.Result
	Violation      = domain.Violation
	MaterialRecord = domain.MaterialRecord
	VolumeStore    = domain.VolumeStore
)

const (
	OpUnion        = domain.OpUnion
	OpSubtraction  = domain.OpSubtraction
	OpIntersection = domain.OpIntersection
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)
