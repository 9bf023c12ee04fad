package core

import (
	"context"

	"rigsmith/pkg/domain"
)

// NewDefaultRulesEngine builds a rules engine with the built-in compatibility
// checks in reporting order: socket, memory type, power.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewSocketMatchRule())
	engine.Register(NewMemoryTypeRule())
	engine.Register(NewPSUHeadroomRule())
	return engine
}

// Checker evaluates builds against a rules engine. It holds no build state.
type Checker struct {
	engine *domain.RulesEngine
}

// NewChecker wraps engine; a nil engine selects the default rule set.
func NewChecker(engine *domain.RulesEngine) *Checker {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return &Checker{engine: engine}
}

// Check evaluates every rule against build.
func (c *Checker) Check(ctx context.Context, build domain.BuildList) (domain.Result, error) {
	return c.engine.Evaluate(ctx, build)
}

// CheckBuild returns the ordered warning messages for build. The built-in
// rules never fail, so an evaluation error is reported as a warning line
// rather than dropped.
func (c *Checker) CheckBuild(ctx context.Context, build domain.BuildList) []string {
	res, err := c.Check(ctx, build)
	if err != nil {
		return []string{"could not complete compatibility check: " + err.Error()}
	}
	return res.Messages()
}
