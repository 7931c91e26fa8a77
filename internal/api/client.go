// Package api is the HTTP client for the inventory-analysis service.
//
// The service owns natural-language-to-SQL translation, query validation and
// chart rendering; this client only speaks its JSON contract and reports
// failures for the caller to absorb.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mclellan/stocktalk/internal/logging"
)

// QueryRequest is the body of a process_query call.
type QueryRequest struct {
	Query     string `json:"natural_language_query"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse mirrors the service's response shape. All fields are optional;
// Results is kept raw because its shape is the service's business.
type QueryResponse struct {
	Status       string          `json:"status,omitempty"`
	NaturalQuery string          `json:"natural_query,omitempty"`
	SQLQuery     string          `json:"sql_query,omitempty"`
	Results      json.RawMessage `json:"results,omitempty"`
	Explanation  string          `json:"explanation,omitempty"`
	Error        string          `json:"error,omitempty"`
	SessionID    string          `json:"session_id,omitempty"`
	ChartURL     string          `json:"chart_url,omitempty"`
}

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Code, e.Body)
}

// Client talks to one inventory-analysis service instance.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration, log *logging.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.Sub("api"),
	}
}

// BaseURL returns the service origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProcessQuery submits a natural-language query and returns the decoded
// response. Network errors, non-2xx statuses and malformed payloads all
// surface as errors.
func (c *Client) ProcessQuery(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/process_query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncateBody(body)}
	}

	var out QueryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.log.Debug().
		Str("sessionId", out.SessionID).
		Str("status", out.Status).
		Dur("duration", time.Since(start)).
		Msg("query processed")

	return &out, nil
}

// Health probes the service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: truncateBody(body)}
	}
	return nil
}

// ResolveURL turns a service-relative path (like a chart_url) into an
// absolute URL against the service origin. Absolute URLs pass through.
func (c *Client) ResolveURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

func truncateBody(body []byte) string {
	const max = 512
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
