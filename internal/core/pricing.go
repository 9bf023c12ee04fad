package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rigsmith/pkg/domain"
)

// ErrNoQuote is returned by oracles that have no price for a part.
var ErrNoQuote = errors.New("no price quote available")

// Quote is a live price observation for one part.
type Quote struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Source string  `json:"source,omitempty"`
}

// PriceOracle supplies best-effort live prices. The engine never depends on
// it for correctness.
type PriceOracle interface {
	Quote(ctx context.Context, part domain.Part) (Quote, error)
}

// StaticPriceOracle answers from a fixed name -> price sheet. Lookups are
// case-insensitive on the trimmed part name.
type StaticPriceOracle struct {
	source string
	prices map[string]float64
}

// NewStaticPriceOracle copies sheet into a new oracle.
func NewStaticPriceOracle(source string, sheet map[string]float64) *StaticPriceOracle {
	prices := make(map[string]float64, len(sheet))
	for name, price := range sheet {
		prices[priceKey(name)] = price
	}
	return &StaticPriceOracle{source: source, prices: prices}
}

// Quote implements PriceOracle.
func (o *StaticPriceOracle) Quote(ctx context.Context, part domain.Part) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	price, ok := o.prices[priceKey(part.Name)]
	if !ok || price <= 0 {
		return Quote{}, fmt.Errorf("%w: %s", ErrNoQuote, part.Name)
	}
	return Quote{Name: part.Name, Price: price, Source: o.source}, nil
}

func priceKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// PriceLine is the live price result for one slot.
type PriceLine struct {
	Category domain.Category `json:"category"`
	Part     string          `json:"part"`
	Quote    *Quote          `json:"quote,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// PriceReport totals the quotes that succeeded.
type PriceReport struct {
	Lines []PriceLine `json:"lines"`
	Total float64     `json:"total"`
}

// PriceCheck asks oracle for every selected part, one bounded call at a time.
// Failed lookups are recorded on their line and excluded from the total.
func PriceCheck(ctx context.Context, build domain.BuildList, oracle PriceOracle, timeout time.Duration) PriceReport {
	var report PriceReport
	for _, sel := range build.Parts() {
		line := PriceLine{Category: sel.Category, Part: sel.Part.Name}
		if sel.Part.Name == "" {
			continue
		}
		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		q, err := oracle.Quote(callCtx, sel.Part)
		cancel()
		if err != nil {
			line.Error = err.Error()
		} else {
			line.Quote = &q
			report.Total += q.Price
		}
		report.Lines = append(report.Lines, line)
	}
	return report
}
