package core

import (
	"go.uber.org/zap"

	"rigsmith/pkg/domain"
)

// BootstrapCatalog builds the master spec index and runs the one-time
// enrichment pass over snapshot.
func BootstrapCatalog(snapshot domain.Snapshot, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	index := NewMasterSpecIndex(snapshot.References)
	for _, category := range domain.ReferenceCategories() {
		logger.Debug("master spec index built",
			zap.String("category", string(category)),
			zap.Int("references", len(snapshot.References[category])),
			zap.Int("keys", index.Len(category)))
	}
	catalog := NewCatalog(snapshot, index)
	for _, st := range catalog.EnrichStats() {
		logger.Info("catalog enriched",
			zap.String("category", string(st.Category)),
			zap.Int("matched", st.Matched),
			zap.Int("total", st.Total))
	}
	return catalog
}
