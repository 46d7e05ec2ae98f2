// Package sanity implements a client for the Sanity content-store HTTP API.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
)

const apiVersion = "v2024-01-01"

// Config identifies the Sanity project and dataset.
type Config struct {
	ProjectID string
	Dataset   string
	Token     string
	// BaseURL overrides the project API host, used in tests.
	BaseURL string
	Timeout time.Duration
}

// Client talks to the Sanity query and mutate endpoints.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New builds a Client from configuration.
func New(cfg Config, logger *zap.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type mutateRequest struct {
	Mutations []map[string]any `json:"mutations"`
}

type mutateResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// CreateDocument creates the post in the dataset and returns the new
// document id.
func (c *Client) CreateDocument(ctx context.Context, post domain.Post) (string, error) {
	payload, err := json.Marshal(mutateRequest{
		Mutations: []map[string]any{{"create": post}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal mutation: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/data/mutate/%s?returnIds=true", c.baseURL, apiVersion, c.cfg.Dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	var parsed mutateResponse
	if err := c.do(req, &parsed); err != nil {
		return "", fmt.Errorf("failed to create document in sanity: %w", err)
	}
	if len(parsed.Results) == 0 {
		return "", fmt.Errorf("failed to create document in sanity: empty mutation result")
	}
	return parsed.Results[0].ID, nil
}

// Categories fetches every category document, ordered by title.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	query := `*[_type == "category"]{_id, title, slug} | order(title asc)`
	var categories []domain.Category
	if err := c.query(ctx, query, &categories); err != nil {
		return nil, fmt.Errorf("failed to fetch categories from sanity: %w", err)
	}
	return categories, nil
}

// DefaultImage returns the id of the most recently created image asset, or
// "" when the dataset holds none. Query failures are logged and absorbed.
func (c *Client) DefaultImage(ctx context.Context) string {
	query := `*[_type == "sanity.imageAsset"] | order(_createdAt desc) [0]._id`
	var imageID *string
	if err := c.query(ctx, query, &imageID); err != nil {
		c.logger.Warn("failed to fetch default image from sanity", zap.Error(err))
		return ""
	}
	if imageID == nil {
		return ""
	}
	return *imageID
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

func (c *Client) query(ctx context.Context, groq string, out any) error {
	endpoint := fmt.Sprintf("%s/%s/data/query/%s?query=%s",
		c.baseURL, apiVersion, c.cfg.Dataset, url.QueryEscape(groq))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	var parsed queryResponse
	if err := c.do(req, &parsed); err != nil {
		return err
	}
	if len(parsed.Result) == 0 || string(parsed.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(parsed.Result, out); err != nil {
		return fmt.Errorf("decode query result: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sanity call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sanity error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode sanity response: %w", err)
	}
	return nil
}
