package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// errEmptyReply marks a strategy response whose reply field was blank.
// An empty reply is a failure, not a success.
var errEmptyReply = errors.New("strategy returned an empty reply")

// Agent is the full-featured conversational strategy: structured reply
// with optional tool actions and a navigation hint.
type Agent interface {
	Reply(ctx context.Context, messages []models.ChatMessage, chatCtx models.ChatContext, id models.Identity) (models.ChatReply, error)
}

// Proxy is the simpler server-side strategy. It returns plain text; the
// cascade fills in emotion client-side.
type Proxy interface {
	Reply(ctx context.Context, messages []models.ChatMessage, chatCtx models.ChatContext, lang string) (string, error)
}

// Direct completes a single flattened prompt against the model API.
type Direct interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ── Agent strategy ───────────────────────────────────────────

type AgentClient struct {
	url    string
	client *http.Client
}

func NewAgentClient(url string, timeout time.Duration) *AgentClient {
	return &AgentClient{url: url, client: &http.Client{Timeout: timeout}}
}

type agentRequest struct {
	Messages     []models.ChatMessage `json:"messages"`
	Context      models.ChatContext   `json:"context"`
	UserID       string               `json:"user_id,omitempty"`
	SessionID    string               `json:"session_id,omitempty"`
	LanguageCode string               `json:"language_code"`
}

func (c *AgentClient) Reply(ctx context.Context, messages []models.ChatMessage, chatCtx models.ChatContext, id models.Identity) (models.ChatReply, error) {
	req := agentRequest{
		Messages:     messages,
		Context:      chatCtx,
		UserID:       id.UserID,
		SessionID:    id.SessionID,
		LanguageCode: id.LanguageCode,
	}
	var reply models.ChatReply
	if err := postJSON(ctx, c.client, c.url, req, &reply); err != nil {
		return models.ChatReply{}, fmt.Errorf("agent call: %w", err)
	}
	if strings.TrimSpace(reply.Reply) == "" {
		return models.ChatReply{}, fmt.Errorf("agent call: %w", errEmptyReply)
	}
	return reply, nil
}

// ── Proxy strategy ───────────────────────────────────────────

type ProxyClient struct {
	url    string
	client *http.Client
}

func NewProxyClient(url string, timeout time.Duration) *ProxyClient {
	return &ProxyClient{url: url, client: &http.Client{Timeout: timeout}}
}

// proxyContext is the reduced context the proxy endpoint accepts.
type proxyContext struct {
	Crop               string `json:"crop"`
	District           string `json:"district"`
	RiskCategory       string `json:"risk_category"`
	LastRecommendation string `json:"last_recommendation"`
	NegotiateIntent    bool   `json:"negotiate_intent"`
	NegotiateCrop      string `json:"negotiate_crop,omitempty"`
}

type proxyRequest struct {
	Messages     []models.ChatMessage `json:"messages"`
	Context      proxyContext         `json:"context"`
	LanguageCode string               `json:"language_code"`
}

type proxyResponse struct {
	Reply string `json:"reply"`
}

func (c *ProxyClient) Reply(ctx context.Context, messages []models.ChatMessage, chatCtx models.ChatContext, lang string) (string, error) {
	req := proxyRequest{
		Messages: messages,
		Context: proxyContext{
			Crop:               chatCtx.Crop,
			District:           chatCtx.District,
			RiskCategory:       chatCtx.RiskCategory,
			LastRecommendation: chatCtx.LastRecommendation,
			NegotiateIntent:    chatCtx.NegotiateIntent,
			NegotiateCrop:      chatCtx.NegotiateCrop,
		},
		LanguageCode: lang,
	}
	var resp proxyResponse
	if err := postJSON(ctx, c.client, c.url, req, &resp); err != nil {
		return "", fmt.Errorf("proxy call: %w", err)
	}
	if strings.TrimSpace(resp.Reply) == "" {
		return "", fmt.Errorf("proxy call: %w", errEmptyReply)
	}
	return resp.Reply, nil
}

// ── Direct-model strategy ────────────────────────────────────

type DirectClient struct {
	url    string
	apiKey string
	client *http.Client
}

func NewDirectClient(url, apiKey string, timeout time.Duration) *DirectClient {
	return &DirectClient{url: url, apiKey: apiKey, client: &http.Client{Timeout: timeout}}
}

type modelRequest struct {
	Contents         []modelContent `json:"contents"`
	GenerationConfig modelGenConfig `json:"generationConfig"`
}

type modelContent struct {
	Parts []modelPart `json:"parts"`
}

type modelPart struct {
	Text string `json:"text"`
}

type modelGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type modelResponse struct {
	Candidates []struct {
		Content struct {
			Parts []modelPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *DirectClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("model API key is not configured")
	}

	req := modelRequest{
		Contents:         []modelContent{{Parts: []modelPart{{Text: prompt}}}},
		GenerationConfig: modelGenConfig{Temperature: 0.35, MaxOutputTokens: 500},
	}
	var resp modelResponse
	if err := postJSON(ctx, c.client, c.url+"?key="+c.apiKey, req, &resp); err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model call: %w", errEmptyReply)
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("model call: %w", errEmptyReply)
	}
	return text, nil
}

// ── Shared HTTP plumbing ─────────────────────────────────────

func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
