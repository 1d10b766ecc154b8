// Package handlers implements the HTTP handlers for the advisory gateway.
// Prediction handlers run through the tiered resolver, so they always
// answer with some payload; chat handlers run the strategy cascade.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agrimitra/advisory-gateway/internal/api/middleware"
	"github.com/agrimitra/advisory-gateway/internal/chat"
	"github.com/agrimitra/advisory-gateway/internal/classify"
	"github.com/agrimitra/advisory-gateway/internal/dialect"
	"github.com/agrimitra/advisory-gateway/internal/heuristic"
	"github.com/agrimitra/advisory-gateway/internal/resolve"
	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Resolver *resolve.Resolver
	Bank     *heuristic.Bank
	Cascade  *chat.Cascade
	History  *chat.History
	Dialect  *dialect.Resolver
}

// New creates a new Handlers instance with all dependencies.
func New(res *resolve.Resolver, bank *heuristic.Bank, cascade *chat.Cascade, history *chat.History, dial *dialect.Resolver) *Handlers {
	return &Handlers{
		Resolver: res,
		Bank:     bank,
		Cascade:  cascade,
		History:  history,
		Dialect:  dial,
	}
}

// ── Prediction handlers ──────────────────────────────────────

func (h *Handlers) PredictHarvest(w http.ResponseWriter, r *http.Request) {
	var req models.HarvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	env := h.resolveHarvest(r.Context(), req)
	respondJSON(w, http.StatusOK, env)
}

func (h *Handlers) PredictMandi(w http.ResponseWriter, r *http.Request) {
	var req models.MandiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	env := h.resolveMandi(r.Context(), req)
	respondJSON(w, http.StatusOK, env)
}

func (h *Handlers) PredictSpoilage(w http.ResponseWriter, r *http.Request) {
	var req models.SpoilageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	env := h.resolveSpoilage(r.Context(), req)
	respondJSON(w, http.StatusOK, env)
}

func (h *Handlers) PredictExplain(w http.ResponseWriter, r *http.Request) {
	var req models.ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	env := h.Resolver.Resolve(r.Context(), "explain", req, req.Crop, req.District,
		func() models.Payload { return h.Bank.Explain(req) })
	respondJSON(w, http.StatusOK, env)
}

// BundleRequest asks for several independent predictions in one call.
// Fields are optional; only the ones present are resolved.
type BundleRequest struct {
	Harvest  *models.HarvestRequest  `json:"harvest,omitempty"`
	Mandi    *models.MandiRequest    `json:"mandi,omitempty"`
	Spoilage *models.SpoilageRequest `json:"spoilage,omitempty"`
}

// PredictBundle resolves the requested predictions concurrently and
// joins on all of them. Fan-out lives here, at the caller side; the
// resolver itself stays single-flow.
func (h *Handlers) PredictBundle(w http.ResponseWriter, r *http.Request) {
	var req BundleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Harvest == nil && req.Mandi == nil && req.Spoilage == nil {
		respondError(w, http.StatusBadRequest, "Bundle must request at least one prediction")
		return
	}

	var harvest, mandi, spoilage models.ResponseEnvelope
	g, ctx := errgroup.WithContext(r.Context())
	if req.Harvest != nil {
		g.Go(func() error {
			harvest = h.resolveHarvest(ctx, *req.Harvest)
			return nil
		})
	}
	if req.Mandi != nil {
		g.Go(func() error {
			mandi = h.resolveMandi(ctx, *req.Mandi)
			return nil
		})
	}
	if req.Spoilage != nil {
		g.Go(func() error {
			spoilage = h.resolveSpoilage(ctx, *req.Spoilage)
			return nil
		})
	}
	// Resolve calls are total, so the group never returns an error.
	_ = g.Wait()

	out := map[string]models.ResponseEnvelope{}
	if req.Harvest != nil {
		out["harvest"] = harvest
	}
	if req.Mandi != nil {
		out["mandi"] = mandi
	}
	if req.Spoilage != nil {
		out["spoilage"] = spoilage
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handlers) resolveHarvest(ctx context.Context, req models.HarvestRequest) models.ResponseEnvelope {
	return h.Resolver.Resolve(ctx, "harvest", req, req.Crop, req.District,
		func() models.Payload { return h.Bank.HarvestWindow(req) })
}

func (h *Handlers) resolveMandi(ctx context.Context, req models.MandiRequest) models.ResponseEnvelope {
	return h.Resolver.Resolve(ctx, "mandi", req, req.Crop, req.District,
		func() models.Payload { return h.Bank.MandiRecommendation(req) })
}

func (h *Handlers) resolveSpoilage(ctx context.Context, req models.SpoilageRequest) models.ResponseEnvelope {
	return h.Resolver.Resolve(ctx, "spoilage", req, req.Crop, req.District,
		func() models.Payload { return h.Bank.SpoilageRisk(req) })
}

// ── Chat handlers ────────────────────────────────────────────

// ChatRequest is one chat turn from a client.
type ChatRequest struct {
	Messages []models.ChatMessage `json:"messages"`
	Context  models.ChatContext   `json:"context"`
	Identity models.Identity      `json:"identity"`
}

func (h *Handlers) ChatReply(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		respondError(w, http.StatusBadRequest, "At least one message is required")
		return
	}
	if req.Identity.SessionID == "" {
		req.Identity.SessionID = uuid.New().String()
	}
	if req.Identity.LanguageCode == "" {
		req.Identity.LanguageCode = middleware.GetLanguage(r.Context())
	}
	req.Identity.LanguageCode = h.Dialect.NormalizeLanguage(req.Identity.LanguageCode)

	region := req.Context.District
	if region == "" {
		region = middleware.GetRegion(r.Context())
	}
	locale := h.Dialect.Resolve(region, req.Identity.LanguageCode)

	reply := h.Cascade.GetReply(r.Context(), req.Messages, req.Context, locale, req.Identity)
	respondJSON(w, http.StatusOK, struct {
		models.ChatReply
		SessionID string `json:"session_id"`
	}{ChatReply: reply, SessionID: req.Identity.SessionID})
}

func (h *Handlers) ChatHistory(w http.ResponseWriter, r *http.Request) {
	id := identityFromQuery(r)
	turns := h.History.Load(r.Context(), id)
	if turns == nil {
		turns = []models.ChatMessage{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

// ReplaceHistoryRequest replaces the stored conversation wholesale.
type ReplaceHistoryRequest struct {
	Turns []models.ChatMessage `json:"turns"`
}

func (h *Handlers) ReplaceChatHistory(w http.ResponseWriter, r *http.Request) {
	var req ReplaceHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := identityFromQuery(r)
	if err := h.History.Append(r.Context(), id, req.Turns); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"stored": len(req.Turns)})
}

func identityFromQuery(r *http.Request) models.Identity {
	return models.Identity{
		UserID:    r.URL.Query().Get("user_id"),
		SessionID: r.URL.Query().Get("session_id"),
	}
}

// ── Classification and dialect handlers ──────────────────────

type classifyRequest struct {
	Text string `json:"text"`
}

func (h *Handlers) ClassifyEmotion(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"emotion": classify.DetectEmotion(req.Text),
	})
}

func (h *Handlers) ClassifyNegotiation(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"negotiation_crop": classify.DetectNegotiationIntent(req.Text),
	})
}

func (h *Handlers) ResolveDialect(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	language := r.URL.Query().Get("language")
	if region == "" {
		region = middleware.GetRegion(r.Context())
	}
	if language == "" {
		language = middleware.GetLanguage(r.Context())
	}
	respondJSON(w, http.StatusOK, h.Dialect.Resolve(region, language))
}

// ── Helpers ──────────────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
