// Package models defines the wire and domain types shared by the advisory
// gateway: request/response envelopes with provenance, chat turns and
// contexts, classification results, and dialect profiles.
package models

import (
	"time"
)

// ── Provenance ───────────────────────────────────────────────

// Provenance identifies the tier that ultimately produced a response.
// Prediction envelopes carry network/cache/heuristic; chat replies carry
// agent/proxy/direct/fallback-pool.
type Provenance string

const (
	ProvenanceNetwork   Provenance = "network"
	ProvenanceCache     Provenance = "cache"
	ProvenanceHeuristic Provenance = "heuristic"

	SourceAgent        Provenance = "agent"
	SourceProxy        Provenance = "proxy"
	SourceDirect       Provenance = "direct"
	SourceFallbackPool Provenance = "fallback-pool"
)

// Payload is a structured result body. Heuristic payloads carry the same
// field names and types as the corresponding backend response, so callers
// can only tell tiers apart through the envelope's provenance.
type Payload map[string]any

// ── Envelopes ────────────────────────────────────────────────

// RequestEnvelope is one logical prediction call. Immutable once built.
type RequestEnvelope struct {
	Endpoint string  `json:"endpoint"`
	Payload  Payload `json:"payload"`

	// Cache key components. Entity is the primary entity (crop),
	// Region the district. Either may be empty.
	Entity string `json:"entity"`
	Region string `json:"region"`
}

// ResponseEnvelope is the uniform result of every resolve call.
// Provenance is always set: a caller never receives a payload without
// knowing its trust tier.
type ResponseEnvelope struct {
	Payload    Payload    `json:"payload"`
	Provenance Provenance `json:"provenance"`
	Timestamp  time.Time  `json:"timestamp"`
	Stale      bool       `json:"stale"`
}

// CacheEntry is a stored payload with its write time. Entries are replaced
// wholesale, never partially mutated.
type CacheEntry struct {
	Key       string    `json:"key"`
	Payload   Payload   `json:"payload"`
	WrittenAt time.Time `json:"written_at"`
}

// ── Prediction requests ──────────────────────────────────────
// Field names mirror the prediction backend's contract.

type HarvestRequest struct {
	Crop       string `json:"crop"`
	District   string `json:"district"`
	SowingDate string `json:"sowing_date"`
	CropStage  string `json:"crop_stage"`
	SoilType   string `json:"soil_type"`
	State      string `json:"state"`
}

type MandiRequest struct {
	Crop             string  `json:"crop"`
	District         string  `json:"district"`
	QuantityQuintals float64 `json:"quantity_quintals"`
	State            string  `json:"state"`
}

type SpoilageRequest struct {
	Crop             string  `json:"crop"`
	StorageType      string  `json:"storage_type"`
	TransitHours     float64 `json:"transit_hours"`
	DaysSinceHarvest int     `json:"days_since_harvest"`
	District         string  `json:"district"`
	State            string  `json:"state"`

	// AvgTemp is the ambient temperature in °C. Zero means "not
	// provided" and falls back to the seasonal default.
	AvgTemp float64 `json:"avg_temp,omitempty"`
}

type ExplainRequest struct {
	Crop       string `json:"crop"`
	District   string `json:"district"`
	DecisionID string `json:"decision_id"`
	State      string `json:"state"`
}

// ── Conversation ─────────────────────────────────────────────

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one conversational turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Text    string `json:"text"`
	Emotion string `json:"emotion,omitempty"`
}

// ChatContext carries the farmer's situation into a chat turn.
type ChatContext struct {
	Crop               string  `json:"crop"`
	District           string  `json:"district"`
	State              string  `json:"state"`
	RiskCategory       string  `json:"risk_category"`
	LastRecommendation string  `json:"last_recommendation"`
	FarmSizeAcres      float64 `json:"farm_size_acres,omitempty"`
	SoilType           string  `json:"soil_type,omitempty"`

	// Set by the cascade when negotiation intent is detected on the
	// triggering user turn.
	NegotiateIntent bool   `json:"negotiate_intent,omitempty"`
	NegotiateCrop   string `json:"negotiate_crop,omitempty"`
}

// Identity names the caller of a chat turn. UserID may be empty for
// anonymous sessions.
type Identity struct {
	UserID       string `json:"user_id,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	LanguageCode string `json:"language_code"`
}

// ToolAction records one structured tool call made by the agent strategy.
type ToolAction struct {
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
	Result any            `json:"result,omitempty"`
}

// ChatReply is the accepted result of the conversational cascade.
// Reply is never empty; Source names the strategy that produced it.
type ChatReply struct {
	Reply           string       `json:"reply"`
	Emotion         string       `json:"emotion,omitempty"`
	ToolActions     []ToolAction `json:"tool_actions,omitempty"`
	NavigateTo      string       `json:"navigate_to,omitempty"`
	MemoriesUpdated int          `json:"memories_updated,omitempty"`
	Source          Provenance   `json:"source"`
}

// ── Classification ───────────────────────────────────────────

// Emotion categories. The empty string means "no signal", which is
// distinct from calm: callers can tell silence from neutrality.
const (
	EmotionWorried    = "worried"
	EmotionHappy      = "happy"
	EmotionFrustrated = "frustrated"
)

// NegotiationCropGeneral is returned when bargaining intent is detected
// but no known crop appears in the text.
const NegotiationCropGeneral = "general"

// Classification is derived per turn from raw text and never cached.
type Classification struct {
	Emotion         string `json:"emotion,omitempty"`
	NegotiationCrop string `json:"negotiation_crop,omitempty"`
}

// ── Dialect ──────────────────────────────────────────────────

// DialectProfile bundles tone and greeting text for a region. Immutable
// at runtime.
type DialectProfile struct {
	Region        string            `json:"region" yaml:"region"`
	Language      string            `json:"language" yaml:"language"`
	Greeting      string            `json:"greeting" yaml:"greeting"`
	Farewell      string            `json:"farewell" yaml:"farewell"`
	Encouragement string            `json:"encouragement" yaml:"encouragement"`
	ToneWords     map[string]string `json:"tone_words" yaml:"tone_words"`
	CodeMixing    string            `json:"code_mixing" yaml:"code_mixing"`
}
