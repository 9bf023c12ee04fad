package core

import (
	"context"
	"fmt"

	"rigsmith/pkg/domain"
)

// NewPSUHeadroomRule returns the rule comparing PSU capacity with the
// estimated system draw.
func NewPSUHeadroomRule() domain.Rule {
	return psuHeadroomRule{}
}

type psuHeadroomRule struct{}

func (psuHeadroomRule) Name() string { return "psu_headroom" }

func (r psuHeadroomRule) Evaluate(_ context.Context, build domain.BuildList) (domain.Result, error) {
	psu, hasPSU := build.Part(domain.CategoryPSU)
	cpu, hasCPU := build.Part(domain.CategoryCPU)
	gpu, hasGPU := build.Part(domain.CategoryGPU)
	if !hasPSU || (!hasCPU && !hasGPU) {
		return domain.Result{}, nil
	}

	total := positive(cpu.TDP) + positive(gpu.TDP) + SystemOverheadWatts
	wattage := psu.WattageValue()

	res := domain.Result{}
	switch {
	case wattage <= 0:
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  "could not check PSU: power supply is missing wattage data",
			Category: domain.CategoryPSU,
		})
	case !hasHeadroom(wattage, total):
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message: fmt.Sprintf("RISKY: estimated power draw (~%dW) is above 70%% of PSU capacity (%dW); recommend at least %dW",
				total, wattage, minSafeWattage(total)),
			Category: domain.CategoryPSU,
		})
	case total > wattage:
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("INCOMPATIBLE: estimated power draw (%dW) exceeds PSU capacity (%dW)", total, wattage),
			Category: domain.CategoryPSU,
		})
	}
	return res, nil
}
