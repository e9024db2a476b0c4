package core

import (
	"context"
	"fmt"

	"detgeo/pkg/domain"
)

// NewSensitiveHitTypeRule warns about sensitive volumes that name no hit type.
func NewSensitiveHitTypeRule() domain.Rule {
	return sensitiveHitTypeRule{}
}

type sensitiveHitTypeRule struct{}

func (sensitiveHitTypeRule) Name() string { return "sensitive_hit_type" }

func (sensitiveHitTypeRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	res := domain.Result{}
	for _, v := range view.ListVolumes() {
		if v.Sensitive() && (v.HitType == "" || v.HitType == "no") {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "sensitive_hit_type",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("volume %s is sensitive (%s) but has no hit type", v.Name, v.Sensitivity),
				Volume:   v.Name,
			})
		}
	}
	return res, nil
}
