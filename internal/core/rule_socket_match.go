package core

import (
	"context"
	"fmt"

	"rigsmith/pkg/domain"
)

// NewSocketMatchRule returns the rule comparing CPU and motherboard sockets.
func NewSocketMatchRule() domain.Rule {
	return socketMatchRule{}
}

type socketMatchRule struct{}

func (socketMatchRule) Name() string { return "socket_match" }

func (r socketMatchRule) Evaluate(_ context.Context, build domain.BuildList) (domain.Result, error) {
	cpu, hasCPU := build.Part(domain.CategoryCPU)
	board, hasBoard := build.Part(domain.CategoryMotherboard)
	if !hasCPU || !hasBoard {
		return domain.Result{}, nil
	}

	res := domain.Result{}
	if !cpu.HasSocket() || !board.HasSocket() {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  "could not check CPU/motherboard socket: one or both parts are missing socket data",
			Category: domain.CategoryMotherboard,
		})
		return res, nil
	}

	cpuSocket, boardSocket := NormalizeSocket(cpu.Socket), NormalizeSocket(board.Socket)
	if cpuSocket != boardSocket {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("INCOMPATIBLE: CPU socket (%s) does not match motherboard socket (%s)", cpuSocket, boardSocket),
			Category: domain.CategoryMotherboard,
		})
	}
	return res, nil
}
