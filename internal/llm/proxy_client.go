package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/internal/apperr"
	"github.com/lshigami/Quokkas/internal/dto"
)

// ProxyClient is the worker's view of the llmproxy service: one POST /generate
// per question, with the shared API key and a hard timeout so a stuck backend
// cannot occupy a worker slot indefinitely.
type ProxyClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewProxyClient(cfg *config.Config) *ProxyClient {
	return &ProxyClient{
		baseURL: cfg.Generator.URL,
		apiKey:  cfg.Generator.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Generator.TimeoutSeconds) * time.Second,
		},
	}
}

func (c *ProxyClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(dto.GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generator call failed: %w: %w", apperr.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator returned status %d: %w", resp.StatusCode, apperr.ErrUpstreamUnavailable)
	}

	var out dto.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode generator response: %w", err)
	}
	return out.Answer, nil
}
