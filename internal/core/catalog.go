package core

import (
	"strings"

	"rigsmith/pkg/domain"
)

// Catalog is the enriched, read-only part catalogue. It is built once and
// never mutated, so concurrent readers need no locking.
type Catalog struct {
	parts map[domain.Category][]domain.Part
	stats []EnrichStats
}

// NewCatalog enriches every reference-bearing category of the snapshot
// against index and freezes the result.
func NewCatalog(snapshot domain.Snapshot, index *MasterSpecIndex) *Catalog {
	c := &Catalog{parts: make(map[domain.Category][]domain.Part, len(snapshot.Parts))}
	for _, category := range domain.Categories() {
		raw := snapshot.Parts[category]
		fields, enrichable := DefaultEnrichFields[category]
		if enrichable && index.Len(category) > 0 {
			enriched, stats := Enrich(raw, index, category, fields)
			c.parts[category] = enriched
			c.stats = append(c.stats, stats)
			continue
		}
		cp := make([]domain.Part, len(raw))
		for i, p := range raw {
			cp[i] = p.Clone()
		}
		c.parts[category] = cp
	}
	return c
}

// EnrichStats reports the enrichment pass results per reference category.
func (c *Catalog) EnrichStats() []EnrichStats {
	out := make([]EnrichStats, len(c.stats))
	copy(out, c.stats)
	return out
}

// Counts returns the number of listings per category.
func (c *Catalog) Counts() map[domain.Category]int {
	out := make(map[domain.Category]int, len(c.parts))
	for category, parts := range c.parts {
		out[category] = len(parts)
	}
	return out
}

// Parts returns the listings of a category in catalogue order.
func (c *Catalog) Parts(category domain.Category) []domain.Part {
	src := c.parts[category]
	out := make([]domain.Part, len(src))
	copy(out, src)
	return out
}

// Lookup returns the first listing whose name matches exactly.
func (c *Catalog) Lookup(category domain.Category, name string) (domain.Part, bool) {
	for _, p := range c.parts[category] {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Part{}, false
}

// Search filters a category by constraints, then by a case-insensitive
// keyword on the name (and, for GPUs, the chipset). Results keep catalogue
// order. An empty keyword matches everything.
func (c *Catalog) Search(category domain.Category, keyword string, constraints domain.ConstraintSet) []domain.Part {
	keyword = strings.ToLower(keyword)
	var matches []domain.Part
	for _, part := range c.parts[category] {
		if !PassesConstraints(part, constraints) {
			continue
		}
		if keyword == "" || strings.Contains(strings.ToLower(part.Name), keyword) {
			matches = append(matches, part)
			continue
		}
		if category == domain.CategoryGPU && strings.Contains(strings.ToLower(part.Chipset), keyword) {
			matches = append(matches, part)
		}
	}
	return matches
}

// PassesConstraints reports whether one listing satisfies every constraint
// that applies to its shape. Constraints that do not apply to a record (a
// socket constraint on a PSU, say) are ignored for it.
func PassesConstraints(part domain.Part, cs domain.ConstraintSet) bool {
	if cs.HasSocket() && part.HasSocket() {
		if NormalizeSocket(part.Socket) != NormalizeSocket(cs.Socket) {
			return false
		}
	}

	if cs.HasMemoryType() {
		switch {
		case part.IsRAMShaped():
			if part.Speed.Generation == 0 {
				return false
			}
			// A "DDR5" constraint accepts a DDR5 kit, never the reverse.
			if !strings.HasPrefix(cs.MemoryType, part.RAMType()) {
				return false
			}
		case part.HasMemorySupport():
			if !strings.Contains(part.MemorySupportValue(), cs.MemoryType) {
				return false
			}
		}
	}

	if cs.HasEstimatedPower() && part.HasWattage() {
		if !hasHeadroom(part.WattageValue(), cs.EstimatedPower) {
			return false
		}
	}
	return true
}

// hasHeadroom applies the 70% load rule, wattage*0.7 >= draw, in integer
// arithmetic.
func hasHeadroom(wattage, draw int) bool {
	return wattage*7 >= draw*10
}

// minSafeWattage is ceil(draw / 0.7).
func minSafeWattage(draw int) int {
	return (draw*10 + 6) / 7
}
