package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"rigsmith/internal/blob"
	"rigsmith/pkg/domain"
)

// Loader reads the dataset objects from a blob store.
type Loader struct {
	store   blob.Store
	decoder *Decoder
	logger  *zap.Logger
}

// NewLoader constructs a loader over store.
func NewLoader(store blob.Store, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{store: store, decoder: NewDecoder(logger), logger: logger}
}

// DatasetKey returns the object key for a dataset under prefix.
func DatasetKey(prefix, dataset string) string { return prefix + dataset + ".json" }

// LoadSnapshot reads every category and reference dataset under prefix.
// Missing datasets leave their category empty; decode failures abort.
func (l *Loader) LoadSnapshot(ctx context.Context, prefix string) (domain.Snapshot, error) {
	snap := domain.NewSnapshot()
	for _, category := range domain.Categories() {
		key := DatasetKey(prefix, category.Dataset())
		var parts []domain.Part
		found, err := l.read(ctx, key, func(r io.Reader) error {
			var derr error
			parts, derr = l.decoder.DecodeParts(category, r)
			return derr
		})
		if err != nil {
			return domain.Snapshot{}, err
		}
		if found {
			snap.Parts[category] = parts
			l.logger.Info("dataset loaded", zap.String("key", key), zap.Int("records", len(parts)))
		}
	}
	for _, category := range domain.ReferenceCategories() {
		dataset, _ := category.ReferenceDataset()
		key := DatasetKey(prefix, dataset)
		var refs []domain.MasterSpec
		found, err := l.read(ctx, key, func(r io.Reader) error {
			var derr error
			refs, derr = l.decoder.DecodeReferences(category, r)
			return derr
		})
		if err != nil {
			return domain.Snapshot{}, err
		}
		if found {
			snap.References[category] = refs
			l.logger.Info("reference dataset loaded", zap.String("key", key), zap.Int("records", len(refs)))
		}
	}
	return snap, nil
}

// LoadPriceSheet reads a {"part name": price} object.
func (l *Loader) LoadPriceSheet(ctx context.Context, key string) (map[string]float64, error) {
	var sheet map[string]float64
	found, err := l.read(ctx, key, func(r io.Reader) error {
		if err := json.NewDecoder(r).Decode(&sheet); err != nil {
			return fmt.Errorf("decode price sheet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("price sheet %s: %w", key, blob.ErrNotFound)
	}
	if sheet == nil {
		sheet = map[string]float64{}
	}
	return sheet, nil
}

func (l *Loader) read(ctx context.Context, key string, decode func(io.Reader) error) (bool, error) {
	_, rc, err := l.store.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		l.logger.Warn("dataset missing", zap.String("key", key))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	if err := decode(rc); err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return true, nil
}
