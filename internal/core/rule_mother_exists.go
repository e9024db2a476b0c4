package core

import (
	"context"
	"fmt"

	"detgeo/pkg/domain"
)

// NewMotherExistsRule blocks volumes whose mother is not in the registry.
func NewMotherExistsRule() domain.Rule {
	return motherExistsRule{}
}

type motherExistsRule struct{}

func (motherExistsRule) Name() string { return "mother_exists" }

func (motherExistsRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	res := domain.Result{}
	for _, v := range view.ListVolumes() {
		if v.Name == domain.RootVolume || v.Imported() {
			continue
		}
		if v.Mother == "" {
			res.Violations = append(res.Violations, motherViolation(v.Name, fmt.Sprintf("volume %s has no mother", v.Name)))
			continue
		}
		if v.Mother == v.Name {
			res.Violations = append(res.Violations, motherViolation(v.Name, fmt.Sprintf("volume %s is its own mother", v.Name)))
			continue
		}
		if _, ok := view.FindVolume(v.Mother); !ok {
			res.Violations = append(res.Violations, motherViolation(v.Name, fmt.Sprintf("volume %s references missing mother %s", v.Name, v.Mother)))
		}
	}
	return res, nil
}

func motherViolation(volume, msg string) domain.Violation {
	return domain.Violation{
		Rule:     "mother_exists",
		Severity: domain.SeverityBlock,
		Message:  msg,
		Volume:   volume,
	}
}
