package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rigsmith/internal/blob"
	"rigsmith/pkg/domain"
)

func put(t *testing.T, store blob.Store, key, body string) {
	t.Helper()
	if _, err := store.Put(context.Background(), key, strings.NewReader(body), blob.PutOptions{ContentType: "application/json"}); err != nil {
		t.Fatalf("put %s: %v", key, err)
	}
}

func TestLoadSnapshotReadsDatasets(t *testing.T) {
	store := blob.NewMemory()
	put(t, store, "datasets/cpu.json", `[{"name": "AMD Ryzen 5 7600", "price": 2900000}]`)
	put(t, store, "datasets/video-card.json", `[{"name": "MSI Ventus", "chipset": "GeForce RTX 4060"}]`)
	put(t, store, "datasets/master_cpu_database.json", `[{"Name": "Ryzen 5 7600", "Physical - Socket": "AM5"}]`)

	snap, err := NewLoader(store, nil).LoadSnapshot(context.Background(), "datasets/")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Parts[domain.CategoryCPU]) != 1 || len(snap.Parts[domain.CategoryGPU]) != 1 {
		t.Fatalf("unexpected parts %+v", snap.Parts)
	}
	if len(snap.Parts[domain.CategoryRAM]) != 0 {
		t.Fatalf("missing dataset should leave category empty")
	}
	refs := snap.References[domain.CategoryCPU]
	if len(refs) != 1 || refs[0].Socket == nil || *refs[0].Socket != "AM5" {
		t.Fatalf("unexpected references %+v", refs)
	}
}

func TestLoadSnapshotAbortsOnDecodeError(t *testing.T) {
	store := blob.NewMemory()
	put(t, store, "memory.json", `not json`)
	_, err := NewLoader(store, nil).LoadSnapshot(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "memory.json") {
		t.Fatalf("expected decode error naming the dataset, got %v", err)
	}
}

func TestLoadPriceSheet(t *testing.T) {
	store := blob.NewMemory()
	put(t, store, "prices.json", `{"AMD Ryzen 5 7600": 2750000}`)
	loader := NewLoader(store, nil)
	sheet, err := loader.LoadPriceSheet(context.Background(), "prices.json")
	if err != nil || sheet["AMD Ryzen 5 7600"] != 2_750_000 {
		t.Fatalf("unexpected sheet %v err=%v", sheet, err)
	}
	if _, err := loader.LoadPriceSheet(context.Background(), "missing.json"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
