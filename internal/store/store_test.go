package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/agrimitra/advisory-gateway/internal/store"
)

// newTestMemoryKV creates a fresh in-memory store persisted under a temp dir.
func newTestMemoryKV(t *testing.T) *store.MemoryKV {
	t.Helper()
	t.Setenv("AGW_DATA_DIR", t.TempDir())
	kv := store.NewMemoryKV()
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestMemoryKV_SetGetRemove(t *testing.T) {
	kv := newTestMemoryKV(t)
	ctx := context.Background()

	if _, ok, _ := kv.Get(ctx, "absent"); ok {
		t.Error("Get() on empty store reported ok=true")
	}

	if err := kv.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = ok=%v err=%v, want hit", ok, err)
	}
	if string(got) != "v1" {
		t.Errorf("Get() = %q, want %q", got, "v1")
	}

	// Overwrite replaces wholesale.
	kv.Set(ctx, "k", []byte("v2"))
	got, _, _ = kv.Get(ctx, "k")
	if string(got) != "v2" {
		t.Errorf("after overwrite, Get() = %q, want %q", got, "v2")
	}

	if err := kv.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Error("Get() after Remove() reported ok=true")
	}

	// Idempotent delete: removing again must not error.
	if err := kv.Remove(ctx, "k"); err != nil {
		t.Errorf("Remove() of missing key error = %v", err)
	}
}

func TestMemoryKV_SnapshotSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGW_DATA_DIR", dir)
	ctx := context.Background()

	kv := store.NewMemoryKV()
	kv.Set(ctx, "persisted", []byte(`{"a":1}`))
	kv.Close()

	kv2 := store.NewMemoryKV()
	defer kv2.Close()

	got, ok, err := kv2.Get(ctx, "persisted")
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = ok=%v err=%v, want hit", ok, err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Get() after reopen = %q, want %q", got, `{"a":1}`)
	}
}

func TestMemoryKV_GetReturnsCopy(t *testing.T) {
	kv := newTestMemoryKV(t)
	ctx := context.Background()

	kv.Set(ctx, "k", []byte("abc"))
	got, _, _ := kv.Get(ctx, "k")
	got[0] = 'x'

	again, _, _ := kv.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestRedisKV_SetGetRemove(t *testing.T) {
	mr := miniredis.RunT(t)

	kv, err := store.NewRedisKV(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("NewRedisKV() error = %v", err)
	}
	defer kv.Close()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "absent"); ok || err != nil {
		t.Errorf("Get() on empty redis = ok=%v err=%v, want miss without error", ok, err)
	}

	if err := kv.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("Get() = %q ok=%v err=%v, want %q", got, ok, err, "v")
	}

	if err := kv.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Error("Get() after Remove() reported ok=true")
	}
	if err := kv.Remove(ctx, "k"); err != nil {
		t.Errorf("Remove() of missing key error = %v", err)
	}
}
