package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agrimitra/advisory-gateway/pkg/models"
)

// BackendClient calls the prediction backend. One attempt per call with a
// bounded timeout; retry policy, if any, belongs to the caller issuing a
// fresh resolve.
type BackendClient struct {
	baseURL string
	client  *http.Client
}

// NewBackendClient creates a prediction backend client.
func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Predict posts body to /predict/{endpoint} and returns the decoded
// object. Non-2xx statuses, transport errors, and non-object bodies are
// all failures; a syntactically valid but empty object is accepted.
func (b *BackendClient) Predict(ctx context.Context, endpoint string, body any) (models.Payload, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("predict %s: encode request: %w", endpoint, err)
	}

	url := b.baseURL + "/predict/" + endpoint
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("predict %s: create request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict %s: request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("predict %s: status %d: %s", endpoint, resp.StatusCode, string(respBody))
	}

	var payload models.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("predict %s: malformed body: %w", endpoint, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("predict %s: malformed body: null response", endpoint)
	}
	return payload, nil
}
