package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/agrimitra/advisory-gateway/internal/cache"
	"github.com/agrimitra/advisory-gateway/internal/store"
	"github.com/agrimitra/advisory-gateway/pkg/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*cache.Cache, *store.MemoryKV) {
	t.Helper()
	t.Setenv("AGW_DATA_DIR", t.TempDir())
	kv := store.NewMemoryKV()
	t.Cleanup(func() { kv.Close() })
	return cache.New(kv, ttl), kv
}

func TestKey_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		entity   string
		region   string
		want     string
	}{
		{"lowercase and trim", "harvest", "  Onion ", " Nashik", "predict:harvest:onion:nashik"},
		{"missing entity", "harvest", "", "Nashik", "predict:harvest:unknown-entity:nashik"},
		{"missing region", "mandi", "Wheat", "", "predict:mandi:wheat:unknown-region"},
		{"all missing", "", "", "", "predict:unknown-endpoint:unknown-entity:unknown-region"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cache.Key(tt.endpoint, tt.entity, tt.region); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_IdempotentAndCollisionFree(t *testing.T) {
	a := cache.Key("harvest", "onion", "nashik")
	b := cache.Key("harvest", "onion", "nashik")
	if a != b {
		t.Errorf("Key() not idempotent: %q vs %q", a, b)
	}

	// Requests differing only in crop or region must never collide.
	if cache.Key("harvest", "onion", "nashik") == cache.Key("harvest", "wheat", "nashik") {
		t.Error("keys collide across crops")
	}
	if cache.Key("harvest", "onion", "nashik") == cache.Key("harvest", "onion", "pune") {
		t.Error("keys collide across regions")
	}
	if cache.Key("harvest", "", "nashik") == cache.Key("harvest", "unknown crop", "nashik") {
		t.Error("sentinel collides with a real entity value")
	}
}

func TestCache_WriteThenRead(t *testing.T) {
	c, _ := newTestCache(t, 24*time.Hour)
	ctx := context.Background()

	payload := models.Payload{"risk_score": 0.45, "risk_category": "Medium"}
	key := cache.Key("spoilage", "onion", "nashik")

	c.Write(ctx, key, payload)

	got, writtenAt, ok := c.Read(ctx, key)
	if !ok {
		t.Fatal("Read() missed a freshly written entry")
	}
	if writtenAt.IsZero() {
		t.Error("Read() returned zero write time")
	}
	if got["risk_category"] != "Medium" {
		t.Errorf("Read() payload = %v, want risk_category Medium", got)
	}
}

func TestCache_ExpiredEntryPurgedOnRead(t *testing.T) {
	c, kv := newTestCache(t, 24*time.Hour)
	ctx := context.Background()
	key := cache.Key("harvest", "wheat", "pune")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c.WithClock(func() time.Time { return now })

	c.Write(ctx, key, models.Payload{"confidence": 0.8})

	// Still visible just inside the TTL.
	now = base.Add(24 * time.Hour)
	if _, _, ok := c.Read(ctx, key); !ok {
		t.Fatal("Read() missed an entry exactly at TTL")
	}

	// One second past TTL: miss, and the entry is gone from the KV.
	now = base.Add(24*time.Hour + time.Second)
	if _, _, ok := c.Read(ctx, key); ok {
		t.Fatal("Read() returned an expired entry")
	}
	if _, ok, _ := kv.Get(ctx, key); ok {
		t.Error("expired entry not purged from the KV store")
	}
}

func TestCache_OverwriteReplacesWholesale(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	key := cache.Key("mandi", "onion", "nashik")

	c.Write(ctx, key, models.Payload{"best_mandi": "Lasalgaon", "confidence": 0.9})
	c.Write(ctx, key, models.Payload{"best_mandi": "Pimpalgaon"})

	got, _, ok := c.Read(ctx, key)
	if !ok {
		t.Fatal("Read() missed after overwrite")
	}
	if got["best_mandi"] != "Pimpalgaon" {
		t.Errorf("best_mandi = %v, want Pimpalgaon", got["best_mandi"])
	}
	if _, present := got["confidence"]; present {
		t.Error("overwrite merged with prior entry instead of replacing it")
	}
}
