// Package server provides the public entry point for initializing the
// advisory gateway.
//
// This package exists in pkg/ (not internal/) so that a deployment can
// import it and compose the gateway with its own outer middleware.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/agrimitra/advisory-gateway/internal/api"
	"github.com/agrimitra/advisory-gateway/internal/api/handlers"
	"github.com/agrimitra/advisory-gateway/internal/cache"
	"github.com/agrimitra/advisory-gateway/internal/chat"
	"github.com/agrimitra/advisory-gateway/internal/config"
	"github.com/agrimitra/advisory-gateway/internal/dialect"
	"github.com/agrimitra/advisory-gateway/internal/heuristic"
	"github.com/agrimitra/advisory-gateway/internal/resolve"
	"github.com/agrimitra/advisory-gateway/internal/store"
	"github.com/agrimitra/advisory-gateway/internal/telemetry"
)

// Server holds the initialized advisory gateway.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Store is the persisted KV backing the caches. Exposed so outer
	// composition can close it on shutdown.
	Store store.KV

	// Config is the loaded gateway configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes all gateway components from environment configuration
// and returns a ready Server.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, config.Load())
}

// NewWithConfig initializes the gateway with an explicit configuration.
func NewWithConfig(_ context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	// Redis when configured, snapshot file store otherwise.
	var kv store.KV
	if cfg.Cache.RedisAddr != "" {
		kv, err = store.NewRedisKV(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("init redis store: %w", err)
		}
	} else {
		kv = store.NewMemoryKV()
		log.Info().Msg("Snapshot file store initialized")
	}

	dial, err := dialect.NewResolver()
	if err != nil {
		return nil, fmt.Errorf("init dialect resolver: %w", err)
	}

	backend := resolve.NewBackendClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	resolver := resolve.New(backend, cache.New(kv, cfg.Cache.PredictionTTL))
	bank := heuristic.NewBank()

	history := chat.NewHistory(kv, cfg.Cache.ConversationTTL)
	cascade := chat.NewCascade(
		chat.NewAgentClient(cfg.Assistant.AgentURL, cfg.Assistant.Timeout),
		chat.NewProxyClient(cfg.Assistant.ProxyURL, cfg.Assistant.Timeout),
		chat.NewDirectClient(cfg.Assistant.ModelURL, cfg.Assistant.APIKey, cfg.Assistant.Timeout),
		chat.NewFallbackPool(),
		history,
	)

	log.Info().Msg("Tiered resolver initialized")
	log.Info().Msg("Conversational cascade initialized")

	h := handlers.New(resolver, bank, cascade, history, dial)
	router := api.NewRouter(cfg, h)

	return &Server{
		Handler:      router,
		Store:        kv,
		Config:       cfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}
