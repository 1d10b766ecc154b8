// Package chain evaluates an ordered list of alternative producers until
// one succeeds. Both the prediction resolver (network → cache → heuristic)
// and the conversational cascade (agent → proxy → direct → fallback pool)
// are expressed as chains, so adding or reordering tiers never touches
// call sites.
package chain

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Step is one candidate producer in an ordered chain.
type Step[T any] struct {
	// Name tags the step in logs and in the returned provenance.
	Name string
	Run  func(ctx context.Context) (T, error)
}

// First runs steps in order and returns the first successful value along
// with the name of the step that produced it. Step failures are logged
// and swallowed; an error is returned only when every step fails.
func First[T any](ctx context.Context, op string, steps []Step[T]) (T, string, error) {
	var zero T
	var lastErr error
	for _, step := range steps {
		v, err := step.Run(ctx)
		if err != nil {
			log.Warn().
				Str("op", op).
				Str("tier", step.Name).
				Err(err).
				Msg("Tier failed, trying next")
			lastErr = err
			continue
		}
		return v, step.Name, nil
	}
	return zero, "", fmt.Errorf("all tiers failed, last error: %w", lastErr)
}
