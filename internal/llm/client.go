// Package llm provides a chat-completion client for OpenAI-compatible APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/metrics"
)

// Models used by the pipelines.
const (
	ModelDefault  = "gpt-4o-mini"
	ModelMetadata = "gpt-3.5-turbo"
)

// DefaultEndpoint is the OpenAI chat completions URL.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Completer is the single-prompt completion surface the pipelines depend on.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request describes one completion call.
type Request struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Config controls the HTTP client.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Completer = (*Client)(nil)

// New builds a Client from configuration. An empty API key is allowed; calls
// will fail until one is configured.
func New(cfg Config, logger *zap.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete posts the prompt as a single user message and returns the first
// choice's content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", fmt.Errorf("openai api key is missing")
	}
	model := req.Model
	if model == "" {
		model = ModelDefault
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.ObserveLLMCall(model, time.Since(start), false)
		return "", fmt.Errorf("openai call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.ObserveLLMCall(model, time.Since(start), false)
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Debug("openai error payload", zap.ByteString("body", payload))
		return "", fmt.Errorf("openai api error: %s", resp.Status)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ObserveLLMCall(model, time.Since(start), false)
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	metrics.ObserveLLMCall(model, time.Since(start), true)
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// StripFences removes Markdown code-fence wrapping from an LLM response.
func StripFences(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "```json\n", "")
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```\n", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
