package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rigsmith/pkg/domain"
)

// ErrInvalidBudget is returned for non-positive budgets.
var ErrInvalidBudget = errors.New("budget must be positive")

// BudgetPlan records how a total budget was split and how much rolled over.
type BudgetPlan struct {
	Total       float64 `json:"total"`
	CPU         float64 `json:"cpu"`
	GPU         float64 `json:"gpu"`
	Motherboard float64 `json:"motherboard"`
	RAM         float64 `json:"ram"`
	Other       float64 `json:"other"`
	PSU         float64 `json:"psu"`
	Case        float64 `json:"case"`
	Rollover    float64 `json:"rollover"`
	FinalGPU    float64 `json:"final_gpu"`
}

func newBudgetPlan(total int64, p domain.Profile) BudgetPlan {
	t := float64(total)
	plan := BudgetPlan{
		Total:       t,
		CPU:         t * p.CPU,
		GPU:         t * p.GPU,
		Motherboard: t * p.Motherboard,
		RAM:         t * p.RAM,
		Other:       t * p.Other,
	}
	plan.PSU = plan.Other / 2
	plan.Case = plan.Other / 2
	return plan
}

// AllocationFailure names the category that could not be filled.
type AllocationFailure struct {
	Category domain.Category `json:"category"`
	Reason   string          `json:"reason"`
}

func (f AllocationFailure) Error() string { return f.Reason }

// Outcome is the terminal state of one auto-build run: either a build with
// its checker warnings, or a failure. A failed run carries no partial build.
type Outcome struct {
	RunID    string             `json:"run_id"`
	Purpose  domain.Purpose     `json:"purpose"`
	Plan     BudgetPlan         `json:"plan"`
	Build    *domain.BuildList  `json:"build,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
	Failure  *AllocationFailure `json:"failure,omitempty"`
}

// Succeeded reports whether a build was produced.
func (o Outcome) Succeeded() bool { return o.Build != nil }

// Messages returns the failure reason or the build warnings.
func (o Outcome) Messages() []string {
	if o.Failure != nil {
		return []string{o.Failure.Reason}
	}
	out := make([]string, len(o.Warnings))
	copy(out, o.Warnings)
	return out
}

// AutoBuilder greedily allocates a budget across categories in dependency
// order. It never backtracks: the first category that cannot be filled ends
// the run.
type AutoBuilder struct {
	catalog *Catalog
	checker *Checker
	logger  *zap.Logger
}

// NewAutoBuilder constructs an allocator over catalog.
func NewAutoBuilder(catalog *Catalog, checker *Checker, logger *zap.Logger) *AutoBuilder {
	if checker == nil {
		checker = NewChecker(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoBuilder{catalog: catalog, checker: checker, logger: logger}
}

// Run allocates totalBudget according to the purpose profile and picks one
// part per category: CPU, motherboard, RAM, GPU, PSU, case. Unspent money from
// the first three picks rolls into the GPU budget.
func (a *AutoBuilder) Run(ctx context.Context, totalBudget int64, purpose domain.Purpose) (Outcome, error) {
	if totalBudget <= 0 {
		return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidBudget, totalBudget)
	}
	profile, ok := purpose.Profile()
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", domain.ErrUnknownPurpose, purpose)
	}

	out := Outcome{RunID: uuid.NewString(), Purpose: purpose, Plan: newBudgetPlan(totalBudget, profile)}
	log := a.logger.With(zap.String("run_id", out.RunID), zap.String("purpose", string(purpose)))
	log.Info("auto-build started",
		zap.Int64("budget", totalBudget),
		zap.Float64("cpu_budget", out.Plan.CPU),
		zap.Float64("gpu_budget", out.Plan.GPU),
		zap.Float64("motherboard_budget", out.Plan.Motherboard),
		zap.Float64("ram_budget", out.Plan.RAM),
		zap.Float64("other_budget", out.Plan.Other))

	fail := func(category domain.Category, reason string) (Outcome, error) {
		out.Failure = &AllocationFailure{Category: category, Reason: reason}
		log.Info("auto-build failed", zap.String("category", string(category)), zap.String("reason", reason))
		return out, nil
	}

	build := domain.NewBuildList()
	var err error

	cpu, ok := a.pick(domain.CategoryCPU, out.Plan.CPU, domain.ConstraintSet{})
	if !ok {
		return fail(domain.CategoryCPU, "failed to find a CPU within budget")
	}
	if build, err = build.AddPart(domain.CategoryCPU, cpu); err != nil {
		return Outcome{}, err
	}
	out.Plan.Rollover += out.Plan.CPU - cpu.Price
	log.Debug("picked part", zap.String("category", "cpu"), zap.String("name", cpu.Name), zap.Float64("rollover", out.Plan.Rollover))

	constraints := DeriveConstraints(build)
	board, ok := a.pick(domain.CategoryMotherboard, out.Plan.Motherboard, constraints)
	if !ok {
		return fail(domain.CategoryMotherboard,
			fmt.Sprintf("failed to find a compatible motherboard for %s (socket: %s)", cpu.Name, orNone(constraints.Socket)))
	}
	if build, err = build.AddPart(domain.CategoryMotherboard, board); err != nil {
		return Outcome{}, err
	}
	out.Plan.Rollover += out.Plan.Motherboard - board.Price
	log.Debug("picked part", zap.String("category", "motherboard"), zap.String("name", board.Name),
		zap.Stringer("constraints", constraints), zap.Float64("rollover", out.Plan.Rollover))

	constraints = DeriveConstraints(build)
	ram, ok := a.pick(domain.CategoryRAM, out.Plan.RAM, constraints)
	if !ok {
		return fail(domain.CategoryRAM,
			fmt.Sprintf("failed to find compatible RAM (type: %s)", orNone(constraints.MemoryType)))
	}
	if build, err = build.AddPart(domain.CategoryRAM, ram); err != nil {
		return Outcome{}, err
	}
	out.Plan.Rollover += out.Plan.RAM - ram.Price
	log.Debug("picked part", zap.String("category", "ram"), zap.String("name", ram.Name),
		zap.Stringer("constraints", constraints), zap.Float64("rollover", out.Plan.Rollover))

	out.Plan.FinalGPU = out.Plan.GPU + out.Plan.Rollover
	gpu, ok := a.pick(domain.CategoryGPU, out.Plan.FinalGPU, domain.ConstraintSet{})
	if !ok {
		return fail(domain.CategoryGPU, "failed to find a GPU within budget")
	}
	if build, err = build.AddPart(domain.CategoryGPU, gpu); err != nil {
		return Outcome{}, err
	}
	log.Debug("picked part", zap.String("category", "gpu"), zap.String("name", gpu.Name), zap.Float64("gpu_budget", out.Plan.FinalGPU))

	constraints = DeriveConstraints(build)
	psu, ok := a.pick(domain.CategoryPSU, out.Plan.PSU, constraints)
	if !ok {
		return fail(domain.CategoryPSU, "failed to find a suitable PSU")
	}
	if build, err = build.AddPart(domain.CategoryPSU, psu); err != nil {
		return Outcome{}, err
	}
	log.Debug("picked part", zap.String("category", "psu"), zap.String("name", psu.Name), zap.Stringer("constraints", constraints))

	if chassis, ok := a.pick(domain.CategoryCase, out.Plan.Case, domain.ConstraintSet{}); ok {
		if build, err = build.AddPart(domain.CategoryCase, chassis); err != nil {
			return Outcome{}, err
		}
		log.Debug("picked part", zap.String("category", "case"), zap.String("name", chassis.Name))
	} else {
		log.Debug("no case within budget; continuing without one", zap.Float64("case_budget", out.Plan.Case))
	}

	out.Warnings = a.checker.CheckBuild(ctx, build)
	out.Build = &build
	log.Info("auto-build complete", zap.Float64("total_price", build.TotalPrice()), zap.Int("warnings", len(out.Warnings)))
	return out, nil
}

// pick returns the most expensive in-budget listing that satisfies the
// constraints. For CPUs, DDR5-capable chips are preferred whenever any are
// affordable, then DDR4-capable ones. Ties keep the earliest catalogue entry.
func (a *AutoBuilder) pick(category domain.Category, budget float64, constraints domain.ConstraintSet) (domain.Part, bool) {
	var affordable []domain.Part
	for _, p := range a.catalog.Search(category, "", constraints) {
		if p.Price > 0 && p.Price <= budget {
			affordable = append(affordable, p)
		}
	}
	if len(affordable) == 0 {
		return domain.Part{}, false
	}

	if category == domain.CategoryCPU {
		if ddr5 := filterMemorySupport(affordable, "DDR5"); len(ddr5) > 0 {
			affordable = ddr5
		} else if ddr4 := filterMemorySupport(affordable, "DDR4"); len(ddr4) > 0 {
			affordable = ddr4
		}
	}

	best := affordable[0]
	for _, p := range affordable[1:] {
		if p.Price > best.Price {
			best = p
		}
	}
	return best, true
}

func filterMemorySupport(parts []domain.Part, memType string) []domain.Part {
	var out []domain.Part
	for _, p := range parts {
		if strings.Contains(p.MemorySupportValue(), memType) {
			out = append(out, p)
		}
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
