package core

import (
	"context"

	"detgeo/pkg/domain"
)

// NewRootPresentRule blocks a non-empty geometry that has no world volume.
func NewRootPresentRule() domain.Rule {
	return rootPresentRule{}
}

type rootPresentRule struct{}

func (rootPresentRule) Name() string { return "root_present" }

func (rootPresentRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	res := domain.Result{}
	if len(view.ListVolumes()) == 0 {
		return res, nil
	}
	if _, ok := view.FindVolume(domain.RootVolume); !ok {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "root_present",
			Severity: domain.SeverityBlock,
			Message:  "no volume named " + domain.RootVolume,
		})
	}
	return res, nil
}
