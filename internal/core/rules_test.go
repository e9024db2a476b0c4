package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detgeo/pkg/domain"
)

func evaluate(t *testing.T, rule Rule, specs ...VolumeSpec) Result {
	t.Helper()
	reg, err := NewRegistryFrom(specs)
	require.NoError(t, err)
	res, err := rule.Evaluate(context.Background(), reg)
	require.NoError(t, err)
	return res
}

func TestRootPresentRule(t *testing.T) {
	rule := NewRootPresentRule()
	assert.Equal(t, "root_present", rule.Name())
	assert.Empty(t, evaluate(t, rule).Violations, "empty geometry is not checked")
	assert.Empty(t, evaluate(t, rule, rootSpec()).Violations)

	res := evaluate(t, rule, boxSpec("det", "root", 1, Vector3{}, "G4_Si"))
	require.Len(t, res.Violations, 1)
	assert.True(t, res.HasBlocking())
}

func TestMotherExistsRule(t *testing.T) {
	self := boxSpec("loop", "loop", 1, Vector3{}, "G4_Si")
	orphan := boxSpec("orphan", "", 1, Vector3{}, "G4_Si")
	lost := boxSpec("lost", "ghost", 1, Vector3{}, "G4_Si")
	imported := boxSpec("cad", "ghost", 1, Vector3{}, "G4_Si")
	imported.ImportFlags = domain.ImportGDML

	res := evaluate(t, NewMotherExistsRule(), rootSpec(), self, orphan, lost, imported, boxSpec("ok", "root", 1, Vector3{}, "G4_Si"))
	var volumes []string
	for _, v := range res.Violations {
		assert.Equal(t, SeverityBlock, v.Severity)
		volumes = append(volumes, v.Volume)
	}
	assert.Equal(t, []string{"loop", "lost", "orphan"}, volumes)
}

func TestSensitiveHitTypeRule(t *testing.T) {
	noHit := boxSpec("a", "root", 1, Vector3{}, "G4_Si")
	noHit.Sensitivity = "ftof"
	noHit.HitType = "no"
	withHit := boxSpec("b", "root", 1, Vector3{}, "G4_Si")
	withHit.Sensitivity = "ftof"
	withHit.HitType = "ftof"
	insensitive := boxSpec("c", "root", 1, Vector3{}, "G4_Si")
	insensitive.Sensitivity = "no"

	res := evaluate(t, NewSensitiveHitTypeRule(), rootSpec(), noHit, withHit, insensitive)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "a", res.Violations[0].Volume)
	assert.Equal(t, SeverityWarn, res.Violations[0].Severity)
	assert.False(t, res.HasBlocking())
}

func TestDefaultRulesEngineRegistersBuiltins(t *testing.T) {
	var names []string
	for _, r := range NewDefaultRulesEngine().Rules() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"root_present", "mother_exists", "sensitive_hit_type"}, names)
}
