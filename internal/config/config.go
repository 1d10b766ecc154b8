package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the advisory gateway.
type Config struct {
	Port      int
	Version   string
	Backend   BackendConfig
	Cache     CacheConfig
	Assistant AssistantConfig
	Telemetry TelemetryConfig
}

// BackendConfig points at the prediction backend.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig controls the persisted payload cache and conversation
// history. The two TTLs are deliberately independent: prediction
// staleness tolerance and conversation relevance are different concerns.
type CacheConfig struct {
	PredictionTTL   time.Duration
	ConversationTTL time.Duration

	// RedisAddr selects the Redis-backed store when non-empty;
	// otherwise the gateway falls back to the snapshot file store.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// AssistantConfig points at the conversational endpoints.
type AssistantConfig struct {
	AgentURL string
	ProxyURL string

	// Direct-model call (Gemini generateContent).
	ModelURL string
	APIKey   string

	Timeout time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("AGW_PORT", 8080),
		Version: envStr("AGW_VERSION", "0.2.0"),
		Backend: BackendConfig{
			BaseURL: envStr("AGW_BACKEND_URL", "http://localhost:8000"),
			Timeout: envDuration("AGW_BACKEND_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			PredictionTTL:   envDuration("AGW_PREDICTION_TTL", 24*time.Hour),
			ConversationTTL: envDuration("AGW_CONVERSATION_TTL", 24*time.Hour),
			RedisAddr:       envStr("AGW_REDIS_ADDR", ""),
			RedisPassword:   envStr("AGW_REDIS_PASSWORD", ""),
			RedisDB:         envInt("AGW_REDIS_DB", 0),
		},
		Assistant: AssistantConfig{
			AgentURL: envStr("AGW_AGENT_URL", "http://localhost:8000/aria/agent"),
			ProxyURL: envStr("AGW_PROXY_URL", "http://localhost:8000/aria/chat"),
			ModelURL: envStr("AGW_MODEL_URL",
				"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"),
			APIKey:  envStr("AGW_MODEL_API_KEY", ""),
			Timeout: envDuration("AGW_ASSISTANT_TIMEOUT", 25*time.Second),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", true),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "agrimitra-advisory-gateway"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
