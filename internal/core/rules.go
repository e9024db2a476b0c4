package core

import "detgeo/pkg/domain"

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in geometry checks.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewRootPresentRule())
	engine.Register(NewMotherExistsRule())
	engine.Register(NewSensitiveHitTypeRule())
	return engine
}
