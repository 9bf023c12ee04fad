package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"rigsmith/pkg/domain"
)

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	return NewService(NewCatalog(fixtureSnapshot(), nil), opts...)
}

func TestServiceSearchValidatesCategory(t *testing.T) {
	metrics := NewExpvarMetricsRecorder("")
	tracer := NewJSONTracer(nil)
	svc := newTestService(t, WithMetricsRecorder(metrics), WithTracer(tracer))

	if _, err := svc.Search(context.Background(), domain.Category("gpu2"), "", domain.ConstraintSet{}); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	parts, err := svc.Search(context.Background(), domain.CategoryMotherboard, "", domain.ConstraintSet{Socket: "am4"})
	if err != nil || len(parts) != 1 {
		t.Fatalf("unexpected search result %v err=%v", names(parts), err)
	}

	ops := metrics.Snapshot().Operations
	if len(ops) != 1 || ops[0].Operation != "search" || ops[0].Success != 1 || ops[0].Error != 1 {
		t.Fatalf("unexpected metrics %+v", ops)
	}
	if entries := tracer.Entries(); len(entries) != 2 || entries[0].Status != "error" {
		t.Fatalf("unexpected trace entries %+v", entries)
	}
}

func TestServiceSearchForBuild(t *testing.T) {
	svc := newTestService(t)
	build, err := svc.ResolveBuild(map[domain.Category]string{domain.CategoryCPU: "AMD Ryzen 5 7600"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	parts, cs, err := svc.SearchForBuild(context.Background(), build, domain.CategoryRAM, "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if cs != svc.DeriveConstraints(build) || cs.MemoryType != "DDR5" {
		t.Fatalf("unexpected constraints %s", cs)
	}
	if len(parts) != 2 {
		t.Fatalf("expected two DDR5 kits, got %v", names(parts))
	}
}

func TestServiceResolveBuildUnknownPart(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ResolveBuild(map[domain.Category]string{domain.CategoryGPU: "Voodoo 5"})
	var notFound PartNotFoundError
	if !errors.As(err, &notFound) || notFound.Category != domain.CategoryGPU || !errors.Is(err, ErrPartNotFound) {
		t.Fatalf("expected PartNotFoundError, got %v", err)
	}
}

func TestServiceCheckBuildAndAutoBuild(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc := newTestService(t, WithLogger(zap.New(core)))
	ctx := context.Background()

	build, err := svc.ResolveBuild(map[domain.Category]string{
		domain.CategoryCPU:         "AMD Ryzen 5 7600",
		domain.CategoryMotherboard: "MSI B550 Tomahawk",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	res, err := svc.CheckBuild(ctx, build)
	if err != nil || !res.HasBlocking() {
		t.Fatalf("expected socket incompatibility, got %+v err=%v", res, err)
	}

	out, err := svc.RunAutoBuild(ctx, 20_000_000, domain.PurposeGaming)
	if err != nil || !out.Succeeded() {
		t.Fatalf("auto build: %v %+v", err, out.Failure)
	}
	if logs.FilterMessage("auto-build complete").Len() != 1 {
		t.Fatalf("expected completion log, got %d entries", logs.Len())
	}
	if _, err := svc.RunAutoBuild(ctx, -5, domain.PurposeGaming); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("expected ErrInvalidBudget, got %v", err)
	}
}

func TestServicePriceCheck(t *testing.T) {
	ctx := context.Background()
	build, _ := newTestService(t).ResolveBuild(map[domain.Category]string{domain.CategoryPSU: "Corsair RM650"})

	if _, err := newTestService(t).PriceCheck(ctx, build); !errors.Is(err, ErrPriceOracleUnavailable) {
		t.Fatalf("expected ErrPriceOracleUnavailable, got %v", err)
	}
	oracle := NewStaticPriceOracle("sheet", map[string]float64{"Corsair RM650": 950_000})
	report, err := newTestService(t, WithPriceOracle(oracle), WithPriceTimeout(time.Second)).PriceCheck(ctx, build)
	if err != nil || report.Total != 950_000 {
		t.Fatalf("unexpected report %+v err=%v", report, err)
	}
}

func TestServiceWithRulesEngine(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(NewPSUHeadroomRule())
	svc := newTestService(t, WithRulesEngine(engine))
	build, _ := svc.ResolveBuild(map[domain.Category]string{
		domain.CategoryCPU:         "AMD Ryzen 5 7600",
		domain.CategoryMotherboard: "MSI B550 Tomahawk",
	})
	res, err := svc.CheckBuild(context.Background(), build)
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("socket rule must not run, got %+v", res)
	}
}
