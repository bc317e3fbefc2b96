// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/ndu-tui/internal/util"
)

// Configuration constants for the assistant API.
const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	// ChatPath is the conversational endpoint.
	ChatPath = "/api/v1/agents/chat"

	// DefaultUserAgent identifies the client.
	DefaultUserAgent = "ndu-tui/0.1.0"

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// maxErrorBody bounds the body excerpt kept in a StatusError.
	maxErrorBody = 512
)

var (
	// ErrMissingResponse indicates a 2xx reply without data.response.
	ErrMissingResponse = errors.New("response payload has no data.response")

	// ErrEmptyMessage indicates an attempt to send an empty message.
	ErrEmptyMessage = errors.New("message must not be empty")
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("agent API error (HTTP %d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("agent API error (HTTP %d)", e.Status)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRequest is the body of a chat turn.
type ChatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the success envelope. Response is a pointer so a missing
// field can be told apart from an empty reply.
type ChatResponse struct {
	Data *struct {
		Response *string `json:"response"`
	} `json:"data"`
}

// Text returns data.response or ErrMissingResponse.
func (r *ChatResponse) Text() (string, error) {
	if r == nil || r.Data == nil || r.Data.Response == nil {
		return "", ErrMissingResponse
	}
	return *r.Data.Response, nil
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the assistant backend.
type Client struct {
	baseURL    string
	chatPath   string
	userAgent  string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for baseURL. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		chatPath:  ChatPath,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			// No timeout - controlled via context
		},
		log: zerolog.Nop(),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithChatPath overrides the chat endpoint path.
func (c *Client) WithChatPath(path string) *Client {
	if path != "" {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		c.chatPath = path
	}
	return c
}

// WithUserAgent sets the User-Agent header value.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log.With().Str("component", "agent").Logger()
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the full chat URL.
func (c *Client) Endpoint() string {
	return c.baseURL + c.chatPath
}

// Chat sends one chat turn and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	c.setHeaders(httpReq, requestID)

	// Body is not logged; it carries user text
	c.log.Debug().
		Str("request_id", requestID).
		Str("method", httpReq.Method).
		Str("path", httpReq.URL.Path).
		Msg("agent request")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("agent response")

	// SECURITY: Read response with size limit to prevent memory exhaustion
	body, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{
			Status: resp.StatusCode,
			Body:   truncateBody(body),
		}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return chatResp.Text()
}

// setHeaders sets the required headers for chat requests.
func (c *Client) setHeaders(req *http.Request, requestID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check if we hit the limit (response was truncated)
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// truncateBody returns a short, single-line excerpt of an error body.
func truncateBody(body []byte) string {
	return util.TruncateRunes(util.SingleLine(string(body)), maxErrorBody)
}
