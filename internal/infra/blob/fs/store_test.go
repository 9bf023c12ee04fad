package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"rigsmith/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStorePutGetHeadListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	info, err := store.Put(ctx, "raw/cpu.json", bytes.NewReader([]byte(`[]`)), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"source": "scrape"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "raw/cpu.json" || info.Size != 2 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "raw/cpu.json", bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := store.Put(ctx, "raw/cpu.json", bytes.NewReader([]byte(`[{}]`)), core.PutOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	head, err := store.Head(ctx, "raw/cpu.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	got, rc, err := store.Get(ctx, "raw/cpu.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(body) != `[{}]` || got.ETag != head.ETag || got.Metadata != nil {
		t.Fatalf("unexpected get result %+v %q", got, body)
	}

	list, err := store.List(ctx, "raw/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "raw/cpu.json" {
		t.Fatalf("unexpected list %+v", list)
	}

	ok, err := store.Delete(ctx, "raw/cpu.json")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, _ := store.Delete(ctx, "raw/cpu.json"); ok {
		t.Fatalf("second delete should report false")
	}
	if _, _, err := store.Get(ctx, "raw/cpu.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"", "../escape.json", "/abs.json", "a/../../b", "cpu.json.meta"} {
		if _, err := store.Put(ctx, key, bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestStoreServesFilesWithoutSidecar(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if err := os.WriteFile(filepath.Join(store.Root(), "memory.json"), []byte(`[1,2]`), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	info, rc, err := store.Get(ctx, "memory.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = rc.Close()
	if info.Size != 5 {
		t.Fatalf("unexpected size %d", info.Size)
	}
	list, err := store.List(ctx, "")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %+v %v", list, err)
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTempStore(t).Head(ctx, "cpu.json"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
