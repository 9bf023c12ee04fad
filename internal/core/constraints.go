package core

import (
	"strings"

	"rigsmith/pkg/domain"
)

// SystemOverheadWatts covers board, memory, storage and fans in power estimates.
const SystemOverheadWatts = 100

// DeriveConstraints maps a partial build onto the constraints it imposes on
// the remaining slots. It is the single derivation shared by search, the
// checker and the auto-builder.
func DeriveConstraints(build domain.BuildList) domain.ConstraintSet {
	var cs domain.ConstraintSet

	cpu, hasCPU := build.Part(domain.CategoryCPU)
	if hasCPU {
		if cpu.HasSocket() {
			cs.Socket = NormalizeSocket(cpu.Socket)
		}
	} else if board, ok := build.Part(domain.CategoryMotherboard); ok && board.HasSocket() {
		cs.Socket = NormalizeSocket(board.Socket)
	}

	if hasCPU && cpu.HasMemorySupport() && cpu.MemorySupportValue() != "" {
		cs.MemoryType = preferredMemoryType(cpu.MemorySupportValue())
	}

	if power, ok := EstimatePower(build); ok {
		cs.EstimatedPower = power
	}
	return cs
}

// preferredMemoryType picks DDR5 whenever the controller supports it.
func preferredMemoryType(support string) string {
	switch {
	case strings.Contains(support, "DDR5"):
		return "DDR5"
	case strings.Contains(support, "DDR4"):
		return "DDR4"
	default:
		first, _, _ := strings.Cut(support, ",")
		return strings.TrimSpace(first)
	}
}

// EstimatePower returns cpu_tdp + gpu_tdp + overhead when a CPU or GPU is
// selected and at least one of them reports a positive TDP.
func EstimatePower(build domain.BuildList) (int, bool) {
	cpu, hasCPU := build.Part(domain.CategoryCPU)
	gpu, hasGPU := build.Part(domain.CategoryGPU)
	if !hasCPU && !hasGPU {
		return 0, false
	}
	cpuTDP, gpuTDP := positive(cpu.TDP), positive(gpu.TDP)
	if cpuTDP == 0 && gpuTDP == 0 {
		return 0, false
	}
	return cpuTDP + gpuTDP + SystemOverheadWatts, true
}

func positive(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
