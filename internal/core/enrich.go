package core

import "rigsmith/pkg/domain"

// DefaultEnrichFields lists the canonical attributes copied from each
// reference table at startup.
var DefaultEnrichFields = map[domain.Category][]domain.Field{
	domain.CategoryCPU: {domain.FieldSocket, domain.FieldMemorySupport, domain.FieldTDP},
	domain.CategoryGPU: {domain.FieldTDP, domain.FieldMemorySize, domain.FieldChipset},
}

// EnrichStats summarises one enrichment pass.
type EnrichStats struct {
	Category domain.Category `json:"category"`
	Matched  int             `json:"matched"`
	Total    int             `json:"total"`
}

// Enrich returns a copy of parts with the listed fields overwritten from the
// matching reference record. Unmatched parts are copied unchanged. The input
// slice is never mutated, so running the pass again over the same raw data
// yields identical records.
func Enrich(parts []domain.Part, index *MasterSpecIndex, category domain.Category, fields []domain.Field) ([]domain.Part, EnrichStats) {
	stats := EnrichStats{Category: category, Total: len(parts)}
	out := make([]domain.Part, len(parts))
	for i, part := range parts {
		if part.Name == "" && part.Chipset == "" {
			out[i] = part.Clone()
			continue
		}
		spec, ok := index.Find(category, part.Name, part.Chipset)
		if !ok {
			out[i] = part.Clone()
			continue
		}
		out[i] = spec.Apply(part, fields)
		stats.Matched++
	}
	return out, stats
}
