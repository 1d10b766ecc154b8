package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agrimitra/advisory-gateway/internal/api/handlers"
	"github.com/agrimitra/advisory-gateway/internal/cache"
	"github.com/agrimitra/advisory-gateway/internal/chat"
	"github.com/agrimitra/advisory-gateway/internal/config"
	"github.com/agrimitra/advisory-gateway/internal/dialect"
	"github.com/agrimitra/advisory-gateway/internal/heuristic"
	"github.com/agrimitra/advisory-gateway/internal/resolve"
	"github.com/agrimitra/advisory-gateway/internal/store"
	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// newTestRouter wires the full stack against unreachable upstream
// services, so every request exercises the offline tiers.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("AGW_DATA_DIR", t.TempDir())

	kv := store.NewMemoryKV()
	t.Cleanup(func() { kv.Close() })

	dial, err := dialect.NewResolver()
	if err != nil {
		t.Fatalf("dialect.NewResolver: %v", err)
	}

	down := "http://127.0.0.1:1"
	backend := resolve.NewBackendClient(down, 200*time.Millisecond)
	resolver := resolve.New(backend, cache.New(kv, 24*time.Hour))

	history := chat.NewHistory(kv, 24*time.Hour)
	cascade := chat.NewCascade(
		chat.NewAgentClient(down, 200*time.Millisecond),
		chat.NewProxyClient(down, 200*time.Millisecond),
		chat.NewDirectClient(down, "", 200*time.Millisecond),
		chat.NewFallbackPool(),
		history,
	)

	h := handlers.New(resolver, heuristic.NewBank(), cascade, history, dial)
	cfg := &config.Config{Version: "test"}
	return NewRouter(cfg, h)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decoding %s %s response: %v\nbody: %s", method, path, err, rec.Body.String())
		}
	}
	return rec, out
}

func TestHealthAndVersion(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d", rec.Code)
	}
	if body["status"] != "healthy" {
		t.Errorf("health status = %v", body["status"])
	}

	_, body = doJSON(t, router, http.MethodGet, "/version", "")
	if body["version"] != "test" {
		t.Errorf("version = %v", body["version"])
	}
}

func TestPredictSpoilageAnswersHeuristicallyWhenBackendIsDown(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/predict/spoilage",
		`{"crop": "tomato", "storage_type": "open", "transit_hours": 6, "days_since_harvest": 3, "district": "Nashik"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["provenance"] != string(models.ProvenanceHeuristic) {
		t.Errorf("provenance = %v, want heuristic", body["provenance"])
	}
	payload, ok := body["payload"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing: %v", body)
	}
	if _, ok := payload["risk_score"]; !ok {
		t.Error("payload has no risk_score")
	}
	if body["stale"] != true {
		t.Error("heuristic answer not marked stale")
	}
}

func TestPredictRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/predict/harvest", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["error"] == nil {
		t.Error("error body missing")
	}
}

func TestPredictBundleResolvesAllRequestedPredictions(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/predict/bundle",
		`{"harvest": {"crop": "wheat", "district": "Nashik", "sowing_date": "2025-12-05"},
		  "mandi": {"crop": "onion", "district": "Nashik", "quantity_quintals": 10}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	for _, key := range []string{"harvest", "mandi"} {
		env, ok := body[key].(map[string]any)
		if !ok {
			t.Fatalf("bundle missing %s: %v", key, body)
		}
		if env["provenance"] != string(models.ProvenanceHeuristic) {
			t.Errorf("%s provenance = %v", key, env["provenance"])
		}
	}
	if _, ok := body["spoilage"]; ok {
		t.Error("bundle contains a prediction that was not requested")
	}
}

func TestPredictBundleRequiresAtLeastOnePrediction(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/predict/bundle", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatReplyDegradesToFallbackPool(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/chat/reply",
		`{"messages": [{"role": "user", "text": "namaste"}],
		  "identity": {"user_id": "u1", "language_code": "hi"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["reply"] == "" || body["reply"] == nil {
		t.Error("reply is empty")
	}
	if body["source"] != string(models.SourceFallbackPool) {
		t.Errorf("source = %v, want fallback-pool", body["source"])
	}
	if body["session_id"] == "" || body["session_id"] == nil {
		t.Error("no session id assigned")
	}
}

func TestChatHistoryRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPut, "/api/v1/chat/history?user_id=u1&session_id=s1",
		`{"turns": [{"role": "user", "text": "pyaz kab bechun"}, {"role": "assistant", "text": "Aaj hi becho."}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rec.Code)
	}

	_, body := doJSON(t, router, http.MethodGet, "/api/v1/chat/history?user_id=u1&session_id=s1", "")
	turns, ok := body["turns"].([]any)
	if !ok || len(turns) != 2 {
		t.Fatalf("turns = %v, want 2 entries", body["turns"])
	}
}

func TestClassifyEndpoints(t *testing.T) {
	router := newTestRouter(t)

	_, body := doJSON(t, router, http.MethodPost, "/api/v1/classify/emotion",
		`{"text": "bahut tension hai"}`)
	if body["emotion"] != models.EmotionWorried {
		t.Errorf("emotion = %v, want worried", body["emotion"])
	}

	_, body = doJSON(t, router, http.MethodPost, "/api/v1/classify/negotiation",
		`{"text": "what is the onion price today"}`)
	if body["negotiation_crop"] != "onion" {
		t.Errorf("negotiation_crop = %v, want onion", body["negotiation_crop"])
	}
}

func TestDialectEndpointFallsBackThroughLevels(t *testing.T) {
	router := newTestRouter(t)

	_, body := doJSON(t, router, http.MethodGet, "/api/v1/dialect?region=nashik", "")
	if body["region"] != "nashik" {
		t.Errorf("region = %v, want nashik", body["region"])
	}

	_, body = doJSON(t, router, http.MethodGet, "/api/v1/dialect?region=atlantis&language=mr", "")
	if body["language"] != "mr" {
		t.Errorf("language = %v, want mr", body["language"])
	}

	_, body = doJSON(t, router, http.MethodGet, "/api/v1/dialect", "")
	if body["language"] != "hi" {
		t.Errorf("language = %v, want the Hindi default", body["language"])
	}
}
