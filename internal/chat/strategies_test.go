package chat

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agrimitra/advisory-gateway/pkg/models"
)

func TestAgentClientDecodesStructuredReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"reply": "Aaj hi becho.",
			"emotion": "worried",
			"tool_actions": [{"tool": "get_mandi_prices", "args": {"crop": "onion"}}],
			"navigate_to": "MandiPrices",
			"memories_updated": 1
		}`))
	}))
	defer srv.Close()

	c := NewAgentClient(srv.URL, time.Second)
	got, err := c.Reply(context.Background(),
		[]models.ChatMessage{{Role: models.RoleUser, Text: "pyaz kab bechun"}},
		models.ChatContext{Crop: "onion"},
		models.Identity{UserID: "u1", SessionID: "s1", LanguageCode: "hi"})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got.Reply != "Aaj hi becho." || got.NavigateTo != "MandiPrices" {
		t.Errorf("reply = %+v", got)
	}
	if len(got.ToolActions) != 1 || got.ToolActions[0].Tool != "get_mandi_prices" {
		t.Errorf("tool actions = %+v", got.ToolActions)
	}
	if got.MemoriesUpdated != 1 {
		t.Errorf("memories_updated = %d, want 1", got.MemoriesUpdated)
	}
}

func TestAgentClientTreatsEmptyReplyAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"reply": "   "}`))
	}))
	defer srv.Close()

	c := NewAgentClient(srv.URL, time.Second)
	_, err := c.Reply(context.Background(), nil, models.ChatContext{}, models.Identity{})
	if err == nil {
		t.Fatal("expected an error for a blank reply")
	}
}

func TestAgentClientTreatsNon2xxAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewAgentClient(srv.URL, time.Second)
	if _, err := c.Reply(context.Background(), nil, models.ChatContext{}, models.Identity{}); err == nil {
		t.Fatal("expected an error for a 502 response")
	}
}

func TestProxyClientSendsReducedContext(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"reply": "Thoda ruko."}`))
	}))
	defer srv.Close()

	c := NewProxyClient(srv.URL, time.Second)
	got, err := c.Reply(context.Background(),
		[]models.ChatMessage{{Role: models.RoleUser, Text: "hello"}},
		models.ChatContext{Crop: "onion", FarmSizeAcres: 4.5}, "hi")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "Thoda ruko." {
		t.Errorf("reply = %q", got)
	}
	body := string(gotBody)
	if body == "" {
		t.Fatal("no request body captured")
	}
	if !strings.Contains(body, `"crop":"onion"`) || !strings.Contains(body, `"language_code":"hi"`) {
		t.Errorf("body = %s", body)
	}
	// Reduced context must not leak the fuller profile fields.
	if strings.Contains(body, "farm_size_acres") {
		t.Errorf("body leaks full context fields: %s", body)
	}
}

func TestDirectClientFailsWithoutAPIKey(t *testing.T) {
	c := NewDirectClient("http://localhost:1", "", time.Second)
	if _, err := c.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected a configuration error without an API key")
	}
}

func TestDirectClientExtractsCandidateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k-123" {
			t.Errorf("key = %q, want k-123", r.URL.Query().Get("key"))
		}
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "  Kal tak ruko.  "}]}}]}`))
	}))
	defer srv.Close()

	c := NewDirectClient(srv.URL, "k-123", time.Second)
	got, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Kal tak ruko." {
		t.Errorf("reply = %q, want trimmed candidate text", got)
	}
}

func TestDirectClientTreatsEmptyCandidatesAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := NewDirectClient(srv.URL, "k-123", time.Second)
	if _, err := c.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected an error for empty candidates")
	}
}
