// Package store provides the persisted key/value storage used by the
// payload cache and the conversation memory cache.
//
// Absence is a miss, not an error: Get reports ok=false for unknown keys
// so callers can advance to the next tier without branching on error
// types. Remove of a missing key is a no-op, which keeps lazy eviction
// safe to run redundantly from concurrent callers.
package store

import (
	"context"
)

// KV is get/set/remove by string key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error

	// Close releases all resources held by the store.
	Close() error
}
