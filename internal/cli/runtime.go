package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"rigsmith/internal/blob"
	"rigsmith/internal/catalog"
	"rigsmith/internal/config"
	"rigsmith/internal/core"
	promrec "rigsmith/internal/infra/metrics/prometheus"
	"rigsmith/internal/infra/persistence"
	"rigsmith/pkg/domain"
)

func (a *app) openBlob(ctx context.Context) (blob.Store, error) {
	store, err := blob.Open(ctx, a.cfg.Blob)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	return store, nil
}

func (a *app) openStore(ctx context.Context) (domain.CatalogStore, error) {
	return persistence.Open(ctx, a.cfg.Store)
}

// loadSnapshot reads the raw catalogue from the configured source.
func (a *app) loadSnapshot(ctx context.Context) (core.Snapshot, error) {
	if a.cfg.Catalog.Source == config.SourceStore {
		store, err := a.openStore(ctx)
		if err != nil {
			return core.Snapshot{}, err
		}
		defer func() { _ = store.Close() }()
		snap, err := store.Load(ctx)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("load catalog from %s store: %w", a.cfg.Store.Driver, err)
		}
		return snap, nil
	}
	bs, err := a.openBlob(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}
	return catalog.NewLoader(bs, a.logger.Named("catalog")).LoadSnapshot(ctx, a.cfg.Catalog.Prefix)
}

// service bootstraps the catalogue and wires the configured observability.
func (a *app) service(ctx context.Context, opts ...core.ServiceOption) (*core.Service, error) {
	snap, err := a.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	cat := core.BootstrapCatalog(snap, a.logger.Named("bootstrap"))
	base := []core.ServiceOption{
		core.WithLogger(a.logger.Named("engine")),
		core.WithPriceTimeout(a.cfg.Pricing.Timeout),
	}
	switch a.cfg.Metrics.Driver {
	case config.MetricsExpvar:
		base = append(base, core.WithMetricsRecorder(core.NewExpvarMetricsRecorder("")))
	case config.MetricsPrometheus:
		a.registry = prometheus.NewRegistry()
		base = append(base, core.WithMetricsRecorder(promrec.NewRecorder(a.registry, a.cfg.Metrics.Namespace)))
	}
	if a.trace {
		base = append(base, core.WithTracer(core.NewJSONTracer(a.stderr)))
	}
	return core.NewService(cat, append(base, opts...)...), nil
}

// priceOracle reads the configured price sheet from blob storage.
func (a *app) priceOracle(ctx context.Context) (core.PriceOracle, error) {
	bs, err := a.openBlob(ctx)
	if err != nil {
		return nil, err
	}
	sheet, err := catalog.NewLoader(bs, a.logger.Named("catalog")).LoadPriceSheet(ctx, a.cfg.Pricing.SheetKey)
	if err != nil {
		return nil, err
	}
	return core.NewStaticPriceOracle(a.cfg.Pricing.SheetKey, sheet), nil
}

// readBuildFile parses a YAML {slot: part name} mapping.
func readBuildFile(path string) (map[core.Category]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read build file: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse build file %s: %w", path, err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[core.Category]string, len(raw))
	for _, k := range keys {
		category, err := domain.ParseCategory(k)
		if err != nil {
			return nil, fmt.Errorf("build file %s: %w", path, err)
		}
		out[category] = raw[k]
	}
	return out, nil
}
