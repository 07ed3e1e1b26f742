package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ollama generator defaults.
const (
	DefaultModel   = "qwen3:4b"
	DefaultTimeout = 45 * time.Second
	DefaultHost    = "http://localhost:11434"
)

// Config configures the Ollama generator.
type Config struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// OllamaGenerator generates completions using Ollama's HTTP API.
type OllamaGenerator struct {
	client *http.Client
	config Config
}

// Verify interface implementation at compile time.
var _ Generator = (*OllamaGenerator)(nil)

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the Ollama /api/generate response body.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaGenerator creates a new Ollama-backed generator.
func NewOllamaGenerator(cfg Config) *OllamaGenerator {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &OllamaGenerator{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}
}

// Invoke sends a single non-streaming generation request.
func (g *OllamaGenerator) Invoke(ctx context.Context, prompt string) (*Response, error) {
	reqBody := generateRequest{
		Model:  g.config.Model,
		Prompt: prompt,
		Stream: false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := g.config.Host + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &Response{Text: genResp.Response}, nil
}

// ModelName returns the model being used.
func (g *OllamaGenerator) ModelName() string {
	return g.config.Model
}

// Available checks if Ollama is reachable.
func (g *OllamaGenerator) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := g.config.Host + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Close is a no-op for the Ollama generator.
func (g *OllamaGenerator) Close() error {
	return nil
}
