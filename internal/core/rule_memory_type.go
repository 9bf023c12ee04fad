package core

import (
	"context"
	"fmt"
	"strings"

	"rigsmith/pkg/domain"
)

// NewMemoryTypeRule returns the rule checking RAM generation against the
// memory controller. The CPU is consulted first; the motherboard is the
// fallback when the CPU lacks memory-support data.
func NewMemoryTypeRule() domain.Rule {
	return memoryTypeRule{}
}

type memoryTypeRule struct{}

func (memoryTypeRule) Name() string { return "memory_type" }

func (r memoryTypeRule) Evaluate(_ context.Context, build domain.BuildList) (domain.Result, error) {
	ram, hasRAM := build.Part(domain.CategoryRAM)
	cpu, hasCPU := build.Part(domain.CategoryCPU)
	board, hasBoard := build.Part(domain.CategoryMotherboard)
	if !hasRAM || (!hasCPU && !hasBoard) {
		return domain.Result{}, nil
	}

	var support string
	var found bool
	if hasCPU && cpu.HasMemorySupport() {
		support, found = cpu.MemorySupportValue(), true
	}
	if !found && hasBoard && board.HasMemorySupport() {
		support, found = board.MemorySupportValue(), true
	}

	res := domain.Result{}
	ramType := ram.RAMType()
	switch {
	case !found:
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  "could not check RAM/CPU memory type: CPU and motherboard are missing memory support data",
			Category: domain.CategoryRAM,
		})
	case !strings.Contains(support, ramType):
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("INCOMPATIBLE: RAM type (%s) does not match CPU/motherboard support (%s)", ramType, support),
			Category: domain.CategoryRAM,
		})
	}
	return res, nil
}
