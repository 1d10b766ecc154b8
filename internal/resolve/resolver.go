// Package resolve implements the tiered request resolver: every
// prediction request is answered by the first tier that can —
// network, then cache, then heuristic. The heuristic tier is
// unconditional, so a resolve call is total: it always produces an
// envelope and never raises to the caller.
package resolve

import (
	"context"
	"time"

	"github.com/agrimitra/advisory-gateway/internal/cache"
	"github.com/agrimitra/advisory-gateway/internal/chain"
	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// Backend is the prediction backend contract consumed by the resolver.
type Backend interface {
	Predict(ctx context.Context, endpoint string, body any) (models.Payload, error)
}

// HeuristicFunc computes the offline approximation for one request. It
// must be side-effect-free and always succeed.
type HeuristicFunc func() models.Payload

// Resolver orchestrates network → cache → heuristic per endpoint.
type Resolver struct {
	backend Backend
	cache   *cache.Cache
	now     func() time.Time
}

// New creates a tiered resolver.
func New(backend Backend, c *cache.Cache) *Resolver {
	return &Resolver{backend: backend, cache: c, now: time.Now}
}

// Resolve answers one prediction request. The returned envelope always
// carries a provenance; concurrent calls for the same key may race on
// the cache with last-writer-wins semantics, which is acceptable because
// staleness is bounded by TTL, not strict consistency.
func (r *Resolver) Resolve(ctx context.Context, endpoint string, body any, entity, region string, heuristic HeuristicFunc) models.ResponseEnvelope {
	key := cache.Key(endpoint, entity, region)

	steps := []chain.Step[models.ResponseEnvelope]{
		{
			Name: string(models.ProvenanceNetwork),
			Run: func(ctx context.Context) (models.ResponseEnvelope, error) {
				payload, err := r.backend.Predict(ctx, endpoint, body)
				if err != nil {
					return models.ResponseEnvelope{}, err
				}
				r.cache.Write(ctx, key, payload)
				return models.ResponseEnvelope{
					Payload:    payload,
					Provenance: models.ProvenanceNetwork,
					Timestamp:  r.now().UTC(),
				}, nil
			},
		},
		{
			Name: string(models.ProvenanceCache),
			Run: func(ctx context.Context) (models.ResponseEnvelope, error) {
				payload, writtenAt, ok := r.cache.Read(ctx, key)
				if !ok {
					return models.ResponseEnvelope{}, errCacheMiss
				}
				return models.ResponseEnvelope{
					Payload:    payload,
					Provenance: models.ProvenanceCache,
					Timestamp:  writtenAt,
					Stale:      true,
				}, nil
			},
		},
		{
			Name: string(models.ProvenanceHeuristic),
			Run: func(ctx context.Context) (models.ResponseEnvelope, error) {
				return models.ResponseEnvelope{
					Payload:    heuristic(),
					Provenance: models.ProvenanceHeuristic,
					Timestamp:  r.now().UTC(),
					Stale:      true,
				}, nil
			},
		},
	}

	env, _, err := chain.First(ctx, "resolve:"+endpoint, steps)
	if err != nil {
		// Unreachable: the heuristic step never fails. Kept as a hard
		// guarantee that resolve stays total.
		return models.ResponseEnvelope{
			Payload:    heuristic(),
			Provenance: models.ProvenanceHeuristic,
			Timestamp:  r.now().UTC(),
			Stale:      true,
		}
	}
	return env
}

// errCacheMiss advances the chain; a miss is a normal negative result,
// not a failure worth surfacing.
var errCacheMiss = cacheMissError{}

type cacheMissError struct{}

func (cacheMissError) Error() string { return "cache miss" }
