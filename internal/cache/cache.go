// Package cache implements the TTL-bound payload cache that backs the
// tiered resolver. Entries live in the persisted KV store; eviction is
// lazy (stale entries are purged on read, no background sweep).
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agrimitra/advisory-gateway/internal/store"
	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// Sentinel tokens for absent key components. Fixed strings keep keys for
// "no crop given" from ever colliding with a real crop name.
const (
	sentinelEndpoint = "unknown-endpoint"
	sentinelEntity   = "unknown-entity"
	sentinelRegion   = "unknown-region"
)

// Key derives the cache key for a prediction request. Pure: the same
// inputs always produce the same string. Components are lowercased and
// trimmed; empty components map to sentinel tokens.
func Key(endpoint, entity, region string) string {
	return "predict:" +
		normalize(endpoint, sentinelEndpoint) + ":" +
		normalize(entity, sentinelEntity) + ":" +
		normalize(region, sentinelRegion)
}

func normalize(s, sentinel string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return sentinel
	}
	return s
}

// Cache reads and writes TTL-bound payloads.
type Cache struct {
	kv  store.KV
	ttl time.Duration

	// now is injectable for tests.
	now func() time.Time
}

// New creates a payload cache with the given TTL.
func New(kv store.KV, ttl time.Duration) *Cache {
	return &Cache{kv: kv, ttl: ttl, now: time.Now}
}

// WithClock overrides the cache's clock. Test hook.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Write persists payload under key with the current timestamp, replacing
// any prior entry wholesale. Storage failures are swallowed: a cache
// write must never interrupt the primary response path.
func (c *Cache) Write(ctx context.Context, key string, payload models.Payload) {
	entry := models.CacheEntry{
		Key:       key,
		Payload:   payload,
		WrittenAt: c.now().UTC(),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write skipped, payload not serializable")
		return
	}
	if err := c.kv.Set(ctx, key, raw); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Read returns the payload and its write time if the entry is within TTL.
// Expired entries are deleted as a side effect and reported as a miss.
// The redundant-delete race between concurrent readers is harmless: the
// KV's Remove is idempotent.
func (c *Cache) Read(ctx context.Context, key string) (models.Payload, time.Time, bool) {
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return nil, time.Time{}, false
	}
	if !ok {
		return nil, time.Time{}, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Corrupt cache entry, purging")
		c.purge(ctx, key)
		return nil, time.Time{}, false
	}

	if c.now().Sub(entry.WrittenAt) > c.ttl {
		c.purge(ctx, key)
		return nil, time.Time{}, false
	}
	return entry.Payload, entry.WrittenAt, true
}

func (c *Cache) purge(ctx context.Context, key string) {
	if err := c.kv.Remove(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache purge failed")
	}
}
