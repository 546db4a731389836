package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"reelmatch_server/models"
)

// ConnectionClient talks to the external connection service. Only the
// request/response contract is consumed here; the service's own state
// machine is out of scope.
type ConnectionClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewConnectionClient() *ConnectionClient {
	baseURL := os.Getenv("CONNECTION_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9090"
	}
	return &ConnectionClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Submit sends one connection request. Transport failures come back as
// NetworkError; the dispatcher surfaces them without retrying.
func (cc *ConnectionClient) Submit(ctx context.Context, fromUser, toUser string, fromProfile, toProfile map[string]string) (*models.ConnectionResponse, error) {
	payload := map[string]interface{}{
		"fromUser":    fromUser,
		"toUser":      toUser,
		"fromProfile": fromProfile,
		"toProfile":   toProfile,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal connection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.BaseURL+"/connections", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build connection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cc.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "connection submit", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Op: "connection submit", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var result models.ConnectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode connection response: %w", err)
	}
	return &result, nil
}
