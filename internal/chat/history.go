// Package chat implements the conversational side of the gateway: the
// strategy cascade that produces a reply, the per-language fallback pool,
// and the conversation memory cache used for offline display history.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agrimitra/advisory-gateway/internal/store"
	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// maxTurns bounds the stored conversation window. Older turns are
// discarded wholesale on every append.
const maxTurns = 30

type historyRecord struct {
	Turns     []models.ChatMessage `json:"turns"`
	WrittenAt time.Time            `json:"written_at"`
}

// History is the conversation memory cache. It holds display history
// only; the cascade never feeds it back into model calls beyond what
// the caller explicitly passes.
type History struct {
	kv  store.KV
	ttl time.Duration
	now func() time.Time
}

func NewHistory(kv store.KV, ttl time.Duration) *History {
	return &History{kv: kv, ttl: ttl, now: time.Now}
}

// WithClock replaces the history's time source. Test hook.
func (h *History) WithClock(now func() time.Time) *History {
	h.now = now
	return h
}

func historyKey(id models.Identity) string {
	user := strings.TrimSpace(id.UserID)
	if user == "" {
		user = "anonymous"
	}
	session := strings.TrimSpace(id.SessionID)
	if session == "" {
		session = "default"
	}
	return "chat:" + user + ":" + session
}

// Append replaces the stored conversation with the last 30 of the given
// turns.
func (h *History) Append(ctx context.Context, id models.Identity, turns []models.ChatMessage) error {
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	rec := historyRecord{Turns: turns, WrittenAt: h.now()}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding conversation: %w", err)
	}
	if err := h.kv.Set(ctx, historyKey(id), raw); err != nil {
		return fmt.Errorf("storing conversation: %w", err)
	}
	return nil
}

// Load returns the stored turns if they were written within the TTL.
// An expired conversation is purged and an empty slice returned; storage
// trouble degrades to an empty history rather than an error because the
// callers treat history as best-effort display state.
func (h *History) Load(ctx context.Context, id models.Identity) []models.ChatMessage {
	key := historyKey(id)
	raw, ok, err := h.kv.Get(ctx, key)
	if err != nil || !ok {
		return nil
	}

	var rec historyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		_ = h.kv.Remove(ctx, key)
		return nil
	}
	if h.now().Sub(rec.WrittenAt) > h.ttl {
		_ = h.kv.Remove(ctx, key)
		return nil
	}
	return rec.Turns
}

// Record loads the current conversation, appends the new turns, and
// stores the result back. Used by the cascade after a reply is accepted.
func (h *History) Record(ctx context.Context, id models.Identity, newTurns ...models.ChatMessage) error {
	turns := append(h.Load(ctx, id), newTurns...)
	return h.Append(ctx, id, turns)
}
