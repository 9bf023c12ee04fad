package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rigsmith/pkg/domain"
)

var (
	// ErrPriceOracleUnavailable is returned by PriceCheck when no oracle is wired.
	ErrPriceOracleUnavailable = errors.New("price oracle not configured")
	ErrPartNotFound           = errors.New("part not found")
)

// DefaultPriceTimeout bounds each oracle call unless WithPriceTimeout overrides it.
const DefaultPriceTimeout = 5 * time.Second

// PartNotFoundError reports a build-file entry with no catalogue listing.
type PartNotFoundError struct {
	Category domain.Category
	Name     string
}

func (e PartNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in catalog", e.Category, e.Name)
}

// Is lets errors.Is match ErrPartNotFound.
func (e PartNotFoundError) Is(target error) bool { return target == ErrPartNotFound }

// Service is the engine facade consumed by the CLI: search, constraint
// derivation, compatibility checks, auto-builds and price checks over one
// read-only catalogue.
type Service struct {
	catalog      *Catalog
	checker      *Checker
	builder      *AutoBuilder
	logger       *zap.Logger
	metrics      MetricsRecorder
	tracer       Tracer
	oracle       PriceOracle
	priceTimeout time.Duration
	now          func() time.Time
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder sets the operation metrics sink.
func WithMetricsRecorder(m MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer sets the span tracer.
func WithTracer(t Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithPriceOracle wires a live price source.
func WithPriceOracle(o PriceOracle) ServiceOption {
	return func(s *Service) { s.oracle = o }
}

// WithPriceTimeout bounds each oracle call; zero disables the bound.
func WithPriceTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.priceTimeout = d }
}

// WithRulesEngine replaces the default compatibility rules.
func WithRulesEngine(engine *domain.RulesEngine) ServiceOption {
	return func(s *Service) {
		if engine != nil {
			s.checker = NewChecker(engine)
		}
	}
}

// NewService constructs a service over catalog.
func NewService(catalog *Catalog, opts ...ServiceOption) *Service {
	s := &Service{
		catalog:      catalog,
		checker:      NewChecker(nil),
		logger:       zap.NewNop(),
		metrics:      noopMetrics{},
		tracer:       noopTracer{},
		priceTimeout: DefaultPriceTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = NewAutoBuilder(catalog, s.checker, s.logger.Named("autobuild"))
	return s
}

// Catalog exposes the underlying catalogue.
func (s *Service) Catalog() *Catalog { return s.catalog }

func (s *Service) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, op)
	return ctx, func(err error) {
		span.End(err)
		s.metrics.Observe(ctx, op, err == nil, s.now().Sub(start))
	}
}

// Search returns listings in category compatible with constraints and
// matching keyword.
func (s *Service) Search(ctx context.Context, category domain.Category, keyword string, constraints domain.ConstraintSet) (parts []domain.Part, err error) {
	_, done := s.observe(ctx, "search")
	defer func() { done(err) }()
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	parts = s.catalog.Search(category, keyword, constraints)
	s.logger.Debug("search",
		zap.String("category", string(category)),
		zap.String("keyword", keyword),
		zap.Stringer("constraints", constraints),
		zap.Int("matches", len(parts)))
	return parts, nil
}

// DeriveConstraints returns the constraints implied by build.
func (s *Service) DeriveConstraints(build domain.BuildList) domain.ConstraintSet {
	return DeriveConstraints(build)
}

// SearchForBuild searches category under the constraints derived from build.
func (s *Service) SearchForBuild(ctx context.Context, build domain.BuildList, category domain.Category, keyword string) ([]domain.Part, domain.ConstraintSet, error) {
	cs := DeriveConstraints(build)
	parts, err := s.Search(ctx, category, keyword, cs)
	return parts, cs, err
}

// CheckBuild evaluates build and returns its ordered violations.
func (s *Service) CheckBuild(ctx context.Context, build domain.BuildList) (res domain.Result, err error) {
	ctx, done := s.observe(ctx, "check_build")
	defer func() { done(err) }()
	res, err = s.checker.Check(ctx, build)
	if err != nil {
		return domain.Result{}, fmt.Errorf("check build: %w", err)
	}
	s.logger.Debug("build checked", zap.Int("parts", build.Len()), zap.Int("violations", len(res.Violations)))
	return res, nil
}

// RunAutoBuild allocates totalBudget for purpose. Allocation failures are
// reported on the outcome; only invalid input returns an error.
func (s *Service) RunAutoBuild(ctx context.Context, totalBudget int64, purpose domain.Purpose) (out Outcome, err error) {
	ctx, done := s.observe(ctx, "auto_build")
	defer func() { done(err) }()
	return s.builder.Run(ctx, totalBudget, purpose)
}

// ResolveBuild turns a slot -> part name mapping into a build using exact
// catalogue names.
func (s *Service) ResolveBuild(selection map[domain.Category]string) (domain.BuildList, error) {
	build := domain.NewBuildList()
	for _, category := range domain.Categories() {
		name, ok := selection[category]
		if !ok || name == "" {
			continue
		}
		part, found := s.catalog.Lookup(category, name)
		if !found {
			return domain.BuildList{}, PartNotFoundError{Category: category, Name: name}
		}
		var err error
		if build, err = build.AddPart(category, part); err != nil {
			return domain.BuildList{}, err
		}
	}
	return build, nil
}

// PriceCheck quotes every selected part from the configured oracle.
func (s *Service) PriceCheck(ctx context.Context, build domain.BuildList) (report PriceReport, err error) {
	ctx, done := s.observe(ctx, "price_check")
	defer func() { done(err) }()
	if s.oracle == nil {
		return PriceReport{}, ErrPriceOracleUnavailable
	}
	report = PriceCheck(ctx, build, s.oracle, s.priceTimeout)
	for _, line := range report.Lines {
		if line.Error != "" {
			s.logger.Warn("price lookup failed", zap.String("part", line.Part), zap.String("error", line.Error))
		}
	}
	return report, nil
}
