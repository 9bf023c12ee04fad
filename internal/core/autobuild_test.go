package core

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"rigsmith/pkg/domain"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 0.5 }

func TestAutoBuildGaming(t *testing.T) {
	builder := NewAutoBuilder(NewCatalog(fixtureSnapshot(), nil), nil, nil)
	out, err := builder.Run(context.Background(), 20_000_000, domain.PurposeGaming)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !out.Succeeded() || out.Failure != nil {
		t.Fatalf("expected success, got failure %+v", out.Failure)
	}
	if out.RunID == "" {
		t.Fatalf("expected a run id")
	}

	want := map[domain.Category]string{
		domain.CategoryCPU:         "AMD Ryzen 5 7600",
		domain.CategoryMotherboard: "ASUS B650 Prime",
		domain.CategoryRAM:         "Kingston Fury Beast 32GB",
		domain.CategoryGPU:         "Sapphire Pulse RX 7800 XT",
		domain.CategoryPSU:         "Corsair RM650",
		domain.CategoryCase:        "NZXT H5 Flow",
	}
	for category, name := range want {
		p, ok := out.Build.Part(category)
		if !ok || p.Name != name {
			t.Errorf("%s = %q, want %q", category, p.Name, name)
		}
	}
	if !approx(out.Plan.Rollover, 3_100_000) || !approx(out.Plan.FinalGPU, 11_100_000) {
		t.Fatalf("unexpected rollover plan %+v", out.Plan)
	}
	if !approx(out.Build.TotalPrice(), 17_900_000) {
		t.Fatalf("total price = %v", out.Build.TotalPrice())
	}
	if len(out.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", out.Warnings)
	}
}

func TestAutoBuildPrefersDDR5ThenDDR4(t *testing.T) {
	snap := fixtureSnapshot()
	snap.Parts[domain.CategoryCPU] = []domain.Part{
		cpuPart("Old", 3_000_000, "AM4", "DDR4", 65),
		cpuPart("New", 1_000_000, "AM5", "DDR5", 65),
		cpuPart("Unknown", 3_500_000, "AM5", "", 65),
	}
	builder := NewAutoBuilder(NewCatalog(snap, nil), nil, nil)
	cpu, ok := builder.pick(domain.CategoryCPU, 4_000_000, domain.ConstraintSet{})
	if !ok || cpu.Name != "New" {
		t.Fatalf("expected the DDR5 chip, got %q", cpu.Name)
	}
	cpu, _ = builder.pick(domain.CategoryCPU, 900_000, domain.ConstraintSet{})
	if cpu.Name != "" {
		t.Fatalf("expected nothing affordable, got %q", cpu.Name)
	}

	snap.Parts[domain.CategoryCPU] = []domain.Part{
		cpuPart("Unknown", 3_500_000, "AM5", "", 65),
		cpuPart("Old", 3_000_000, "AM4", "DDR4", 65),
	}
	builder = NewAutoBuilder(NewCatalog(snap, nil), nil, nil)
	if cpu, _ := builder.pick(domain.CategoryCPU, 4_000_000, domain.ConstraintSet{}); cpu.Name != "Old" {
		t.Fatalf("expected DDR4 fallback, got %q", cpu.Name)
	}
}

func TestAutoBuildTiesKeepCatalogueOrder(t *testing.T) {
	snap := fixtureSnapshot()
	snap.Parts[domain.CategoryCase] = []domain.Part{{Name: "First", Price: 500}, {Name: "Second", Price: 500}}
	builder := NewAutoBuilder(NewCatalog(snap, nil), nil, nil)
	p, _ := builder.pick(domain.CategoryCase, 1000, domain.ConstraintSet{})
	if p.Name != "First" {
		t.Fatalf("expected first listing on tie, got %q", p.Name)
	}
}

func TestAutoBuildIsDeterministic(t *testing.T) {
	builder := NewAutoBuilder(NewCatalog(fixtureSnapshot(), nil), nil, nil)
	first, err := builder.Run(context.Background(), 20_000_000, domain.PurposeWorkstation)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := builder.Run(context.Background(), 20_000_000, domain.PurposeWorkstation)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if first.RunID == second.RunID {
		t.Fatalf("run ids must differ")
	}
	if !reflect.DeepEqual(first.Build.Parts(), second.Build.Parts()) || !reflect.DeepEqual(first.Plan, second.Plan) {
		t.Fatalf("identical inputs produced different builds")
	}
}

func TestAutoBuildFailures(t *testing.T) {
	ctx := context.Background()
	builder := NewAutoBuilder(NewCatalog(fixtureSnapshot(), nil), nil, nil)

	out, err := builder.Run(ctx, 1_000_000, domain.PurposeGaming)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Succeeded() || out.Failure.Category != domain.CategoryCPU {
		t.Fatalf("expected CPU failure, got %+v", out)
	}
	if msgs := out.Messages(); len(msgs) != 1 || msgs[0] != "failed to find a CPU within budget" {
		t.Fatalf("unexpected messages %v", msgs)
	}

	snap := fixtureSnapshot()
	snap.Parts[domain.CategoryMotherboard] = []domain.Part{boardPart("B550", 100, "AM4")}
	snap.Parts[domain.CategoryCPU] = []domain.Part{cpuPart("Ryzen 5 7600", 100, "AM5", "DDR5", 65)}
	out, _ = NewAutoBuilder(NewCatalog(snap, nil), nil, nil).Run(ctx, 20_000_000, domain.PurposeGaming)
	want := "failed to find a compatible motherboard for Ryzen 5 7600 (socket: am5)"
	if out.Failure == nil || out.Failure.Reason != want || out.Build != nil {
		t.Fatalf("got %+v, want failure %q", out, want)
	}

	snap = fixtureSnapshot()
	snap.Parts[domain.CategoryRAM] = []domain.Part{ramPart("DDR4 only", 100, 4, 3200)}
	out, _ = NewAutoBuilder(NewCatalog(snap, nil), nil, nil).Run(ctx, 20_000_000, domain.PurposeGaming)
	if out.Failure == nil || out.Failure.Reason != "failed to find compatible RAM (type: DDR5)" {
		t.Fatalf("unexpected outcome %+v", out.Failure)
	}

	snap = fixtureSnapshot()
	snap.Parts[domain.CategoryGPU] = []domain.Part{gpuPart("RTX 5090", 90_000_000, "GeForce RTX 5090", 575)}
	out, err = NewAutoBuilder(NewCatalog(snap, nil), nil, nil).Run(ctx, 20_000_000, domain.PurposeGaming)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Failure == nil || out.Failure.Category != domain.CategoryGPU || out.Failure.Reason != "failed to find a GPU within budget" || out.Build != nil {
		t.Fatalf("expected GPU failure without a partial build, got %+v", out)
	}

	snap = fixtureSnapshot()
	snap.Parts[domain.CategoryPSU] = []domain.Part{psuPart("Tiny", 100, 300)}
	out, _ = NewAutoBuilder(NewCatalog(snap, nil), nil, nil).Run(ctx, 20_000_000, domain.PurposeGaming)
	if out.Failure == nil || out.Failure.Category != domain.CategoryPSU || out.Failure.Error() != "failed to find a suitable PSU" {
		t.Fatalf("unexpected outcome %+v", out.Failure)
	}
}

func TestAutoBuildWithoutCase(t *testing.T) {
	snap := fixtureSnapshot()
	snap.Parts[domain.CategoryCase] = []domain.Part{{Name: "Luxury", Price: 50_000_000}}
	out, err := NewAutoBuilder(NewCatalog(snap, nil), nil, nil).Run(context.Background(), 20_000_000, domain.PurposeGaming)
	if err != nil || !out.Succeeded() {
		t.Fatalf("expected success without a case: %v %+v", err, out.Failure)
	}
	if out.Build.Has(domain.CategoryCase) {
		t.Fatalf("case must be left empty")
	}
}

func TestAutoBuildInvalidInput(t *testing.T) {
	builder := NewAutoBuilder(NewCatalog(fixtureSnapshot(), nil), nil, nil)
	if _, err := builder.Run(context.Background(), 0, domain.PurposeGaming); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("expected ErrInvalidBudget, got %v", err)
	}
	if _, err := builder.Run(context.Background(), 1_000, domain.Purpose("office")); !errors.Is(err, domain.ErrUnknownPurpose) {
		t.Fatalf("expected ErrUnknownPurpose, got %v", err)
	}
}
