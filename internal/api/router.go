package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agrimitra/advisory-gateway/internal/api/handlers"
	"github.com/agrimitra/advisory-gateway/internal/api/middleware"
	"github.com/agrimitra/advisory-gateway/internal/config"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.LocaleExtractor)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Language", "X-Region", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health & info
	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler(cfg))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/predict", func(r chi.Router) {
			r.Post("/harvest", h.PredictHarvest)
			r.Post("/mandi", h.PredictMandi)
			r.Post("/spoilage", h.PredictSpoilage)
			r.Post("/explain", h.PredictExplain)
			r.Post("/bundle", h.PredictBundle)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/reply", h.ChatReply)
			r.Get("/history", h.ChatHistory)
			r.Put("/history", h.ReplaceChatHistory)
		})

		r.Route("/classify", func(r chi.Router) {
			r.Post("/emotion", h.ClassifyEmotion)
			r.Post("/negotiation", h.ClassifyNegotiation)
		})

		r.Get("/dialect", h.ResolveDialect)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "agrimitra-advisory-gateway",
	})
}

func versionHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"version": cfg.Version,
			"service": "agrimitra-advisory-gateway",
		})
	}
}
