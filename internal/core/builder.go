package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"detgeo/internal/materials"
	"detgeo/internal/shapes"
	"detgeo/pkg/domain"
)

// Reference roles reported in ErrUnresolvedReference.
const (
	RoleVolume          = "volume"
	RoleCopyOriginal    = "copy original"
	RoleFirstOperand    = "first operand"
	RoleSecondOperand   = "second operand"
	RoleMother          = "mother"
	RoleReplicaTemplate = "replica template"
)

// Pass names used for logging, metrics and traces.
const (
	PassSolid    = "solid"
	PassLogical  = "logical"
	PassPhysical = "physical"
)

// Outcome is the result of building one volume in one pass.
type Outcome int

const (
	Skipped Outcome = iota
	Built
)

func (o Outcome) String() string {
	if o == Built {
		return "built"
	}
	return "skipped"
}

// ShapeFactory constructs primitive and boolean solids.
type ShapeFactory interface {
	MakePrimitive(name, kind string, dims []float64) (Solid, error)
	MakeBoolean(name string, op BooleanOp, base, tool Solid, t Transform3D) (Solid, error)
}

// MaterialSwitch replaces material From with To before resolution.
type MaterialSwitch struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Settings are the construction options read from configuration.
type Settings struct {
	// SwitchMaterials are applied in order; a later rule sees the result of earlier ones.
	SwitchMaterials []MaterialSwitch
	// DefaultMaterial replaces unresolvable materials. Empty or "none" disables the fallback.
	DefaultMaterial string
	CheckOverlaps   bool
	// OverlapSamples is the number of grid points per axis used by the overlap check.
	OverlapSamples int
	// Verbosity above 4 traces every volume; Catch traces volumes whose name contains it.
	Verbosity int
	Catch     string
}

// DefaultSettings returns settings with no switches, no default material and overlap checks off.
func DefaultSettings() Settings {
	return Settings{OverlapSamples: 8}
}

func (s Settings) defaultMaterial() (string, bool) {
	if s.DefaultMaterial == "" || s.DefaultMaterial == "none" {
		return "", false
	}
	return s.DefaultMaterial, true
}

// Option configures a Builder.
type Option func(*Builder)

// WithSettings replaces the construction settings.
func WithSettings(s Settings) Option {
	return func(b *Builder) { b.settings = s }
}

// WithShapeFactory replaces the shape library.
func WithShapeFactory(f ShapeFactory) Option {
	return func(b *Builder) {
		if f != nil {
			b.shapes = f
		}
	}
}

// WithMaterials sets the material table and the lookup service used for names missing from it.
// A nil service disables lookups.
func WithMaterials(table *materials.Table, lookup materials.Service) Option {
	return func(b *Builder) {
		if table != nil {
			b.table = table
		}
		b.lookup = lookup
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(b *Builder) {
		if m != nil {
			b.metrics = m
		}
	}
}

// WithTracer sets the tracer wrapped around each pass.
func WithTracer(t Tracer) Option {
	return func(b *Builder) {
		if t != nil {
			b.tracer = t
		}
	}
}

// WithClock sets the time source used for pass timings.
func WithClock(c Clock) Option {
	return func(b *Builder) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithRulesEngine replaces the validation rules run before the passes. A nil engine disables
// validation.
func WithRulesEngine(e *RulesEngine) Option {
	return func(b *Builder) { b.rules = e }
}

// Builder runs the solid, logical and physical passes over a registry.
type Builder struct {
	registry *Registry
	shapes   ShapeFactory
	table    *materials.Table
	lookup   materials.Service
	settings Settings
	logger   *zap.Logger
	metrics  MetricsRecorder
	tracer   Tracer
	clock    Clock
	rules    *RulesEngine
}

// NewBuilder returns a builder over reg.
func NewBuilder(reg *Registry, opts ...Option) *Builder {
	b := &Builder{
		registry: reg,
		shapes:   primitiveLibrary{shapes.NewFactory()},
		table:    materials.NewTable(),
		lookup:   materials.NewNIST(),
		settings: DefaultSettings(),
		logger:   zap.NewNop(),
		metrics:  noopMetrics{},
		tracer:   noopTracer{},
		clock:    ClockFunc(nil),
		rules:    NewDefaultRulesEngine(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry returns the registry the builder works on.
func (b *Builder) Registry() *Registry { return b.registry }

// Materials returns the material table, including materials cached from lookups.
func (b *Builder) Materials() *materials.Table { return b.table }

// primitiveLibrary adapts shapes.Factory to ShapeFactory.
type primitiveLibrary struct{ f *shapes.Factory }

func (p primitiveLibrary) MakePrimitive(name, kind string, dims []float64) (Solid, error) {
	return p.f.MakePrimitive(name, kind, dims)
}

func (p primitiveLibrary) MakeBoolean(name string, op BooleanOp, base, tool Solid, t Transform3D) (Solid, error) {
	return p.f.MakeBoolean(name, op, base, tool, t)
}

// traced reports whether per-volume diagnostics are emitted for name.
func (b *Builder) traced(name string) bool {
	return b.settings.Verbosity > 4 || (b.settings.Catch != "" && strings.Contains(name, b.settings.Catch))
}

func (b *Builder) trace(pass, name, msg string, fields ...zap.Field) {
	if !b.traced(name) {
		return
	}
	b.logger.Debug(msg, append([]zap.Field{zap.String("pass", pass), zap.String("volume", name)}, fields...)...)
}

func (b *Builder) volume(name string) (*Volume, error) {
	return b.registry.Resolve(name, name, RoleVolume)
}

// PassStats counts per-volume outcomes of one pass.
type PassStats struct {
	Built   int `json:"built"`
	Skipped int `json:"skipped"`
}

// Report summarises a construction run.
type Report struct {
	RunID      string      `json:"run_id"`
	Order      []string    `json:"order"`
	Solid      PassStats   `json:"solid"`
	Logical    PassStats   `json:"logical"`
	Physical   PassStats   `json:"physical"`
	Violations []Violation `json:"violations,omitempty"`
}

func (r *Report) stats(pass string) *PassStats {
	switch pass {
	case PassSolid:
		return &r.Solid
	case PassLogical:
		return &r.Logical
	default:
		return &r.Physical
	}
}

// Build validates the registry, computes the dependency order and runs the solid, logical and
// physical passes over every volume. The first error aborts the run and is returned as is.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	ctx = ContextWithRunID(ctx, report.RunID)
	logger := b.logger.With(zap.String("run_id", report.RunID))

	if b.rules != nil {
		res, err := b.rules.Evaluate(ctx, b.registry)
		if err != nil {
			return report, fmt.Errorf("evaluate rules: %w", err)
		}
		report.Violations = res.Violations
		for _, v := range res.Violations {
			if v.Severity != SeverityBlock {
				logger.Warn("geometry rule", zap.String("rule", v.Rule), zap.String("volume", v.Volume), zap.String("message", v.Message))
			}
		}
		if res.HasBlocking() {
			return report, domain.RuleViolationError{Result: res}
		}
	}

	order, err := b.registry.BuildOrder()
	if err != nil {
		return report, err
	}
	report.Order = order

	passes := []struct {
		name  string
		build func(*Volume) (Outcome, error)
	}{
		{PassSolid, func(v *Volume) (Outcome, error) { return b.BuildSolid(v.Name) }},
		{PassLogical, b.logicalStep},
		{PassPhysical, b.physicalStep},
	}
	for _, pass := range passes {
		if err := b.runPass(ctx, pass.name, order, pass.build, report.stats(pass.name)); err != nil {
			logger.Error("geometry build aborted", zap.String("pass", pass.name), zap.Error(err))
			return report, err
		}
		stats := report.stats(pass.name)
		logger.Info("pass complete", zap.String("pass", pass.name), zap.Int("built", stats.Built), zap.Int("skipped", stats.Skipped))
	}
	return report, nil
}

func (b *Builder) runPass(ctx context.Context, pass string, order []string, build func(*Volume) (Outcome, error), stats *PassStats) (err error) {
	ctx, span := b.tracer.Start(ctx, "build."+pass)
	started := b.clock.Now()
	defer func() {
		b.metrics.ObservePass(ctx, pass, err == nil, b.clock.Now().Sub(started))
		span.End(err)
	}()
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := b.volume(name)
		if err != nil {
			return err
		}
		outcome, err := build(v)
		if err != nil {
			return err
		}
		b.metrics.ObserveVolume(ctx, pass, outcome)
		if outcome == Built {
			stats.Built++
		} else {
			stats.Skipped++
		}
	}
	return nil
}

func (b *Builder) logicalStep(v *Volume) (Outcome, error) {
	if !b.active(v) {
		b.trace(PassLogical, v.Name, "inactive volume, logical volume not built")
		return Skipped, nil
	}
	return b.BuildLogical(v.Name)
}

func (b *Builder) physicalStep(v *Volume) (Outcome, error) {
	if !b.active(v) {
		b.trace(PassPhysical, v.Name, "inactive volume, not placed")
		return Skipped, nil
	}
	d, err := ParseDescriptor(v.VolumeSpec)
	if err != nil {
		return Skipped, err
	}
	if d.Kind == KindImported || (d.Kind != KindReplica && b.templateOnly(v)) {
		return b.BuildPhysical(v.Name, nil)
	}
	var mother *LogicalVolume
	if v.Name != domain.RootVolume {
		if mother, err = b.motherLogical(v); err != nil {
			return Skipped, err
		}
	}
	if d.Kind == KindReplica {
		template, err := b.registry.Resolve(v.Name, d.Replica.Template, RoleReplicaTemplate)
		if err != nil {
			return Skipped, err
		}
		return b.BuildReplicas(v.Name, mother, template)
	}
	return b.BuildPhysical(v.Name, mother)
}

func (b *Builder) motherLogical(v *Volume) (*LogicalVolume, error) {
	m, err := b.registry.Resolve(v.Name, v.Mother, RoleMother)
	if err != nil {
		return nil, err
	}
	if m.Logical == nil {
		return nil, domain.ErrUnresolvedReference{Volume: v.Name, Reference: v.Mother, Role: "mother logical volume"}
	}
	return m.Logical, nil
}

// active reports whether v and all of its ancestors exist.
func (b *Builder) active(v *Volume) bool {
	for hops := 0; v != nil && hops <= b.registry.Len(); hops++ {
		if !v.Active {
			return false
		}
		if v.Name == domain.RootVolume || v.Mother == "" {
			return true
		}
		v, _ = b.registry.Get(v.Mother)
	}
	return true
}
