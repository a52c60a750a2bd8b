// Package api is the HTTP client for the CQE backend.
package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/security"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client is a CQE REST API client. It is safe for concurrent use; SetToken
// must not race with in-flight requests.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(tok string) Option {
	return func(c *Client) { c.token = tok }
}

// NewClient creates a client for the backend rooted at baseURL (for example
// http://localhost:8001). The /api prefix is added by the client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after a login.
func (c *Client) SetToken(tok string) { c.token = tok }

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// envelope is the common part of every backend response.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// do executes a request against /api+path and decodes the JSON body into
// out. op names the operation in errors.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	reqID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.logger.With(zap.String("op", op), zap.String("request_id", reqID))
	if payload != nil {
		log.Debug("request", zap.String("method", method), zap.String("path", path), zap.String("body", security.Scrub(string(payload))))
	} else {
		log.Debug("request", zap.String("method", method), zap.String("path", path))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return cqeerrors.NewNetworkError(op, 0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return cqeerrors.NewNetworkError(op, resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}
	log.Debug("response", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := errorDetail(respBody)
		log.Warn("request rejected", zap.Int("status", resp.StatusCode), zap.String("detail", detail))
		return cqeerrors.NewNetworkError(op, resp.StatusCode, detail, nil)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return cqeerrors.NewNetworkError(op, resp.StatusCode, "", fmt.Errorf("unmarshal response: %w", err))
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not successful"
		}
		return cqeerrors.NewNetworkError(op, resp.StatusCode, msg, nil)
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return cqeerrors.NewNetworkError(op, resp.StatusCode, "", fmt.Errorf("unmarshal response: %w", err))
		}
	}
	return nil
}

// errorDetail extracts the human-readable message of an error body. The
// backend sends {"detail": "..."} and, for request validation failures,
// {"detail": [{"msg": "..."}]}.
func errorDetail(body []byte) string {
	var raw struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return strings.TrimSpace(string(body))
	}
	if len(raw.Detail) > 0 {
		var s string
		if err := json.Unmarshal(raw.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	if raw.Message != "" {
		return raw.Message
	}
	return raw.Error
}

func pathID(s string) string { return url.PathEscape(s) }
