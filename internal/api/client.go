// Package api wraps outbound requests to the VitrinSaz HTTP API. It is a
// single-shot request/response mapper: no retry, no timeout beyond the
// transport's own, no caching. Stores catch and record the errors it returns.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the fixed API base used when no override is configured.
const DefaultBaseURL = "http://localhost:8000/api"

const (
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 8 << 10
)

// ErrSessionExpired indicates the server rejected the bearer token. By the
// time a caller sees this error the local credentials have already been
// wiped and the session-expired hook has run.
var ErrSessionExpired = errors.New("session expired, authentication required")

// NoContent is what a 204 response resolves to. It is deliberately nil
// rather than an empty JSON object so callers can tell "no body" apart
// from "{}".
var NoContent json.RawMessage

// CredentialSource supplies the bearer token and supports the destructive
// wipe performed on a 401 response.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
	ClearAll(ctx context.Context) error
}

// SessionExpiredHook is invoked after a 401 wipes the stored credentials.
// The dashboard navigates to the login page here; the CLI prints a hint.
type SessionExpiredHook func(ctx context.Context)

// MultipartBody carries a pre-encoded multipart payload. The adapter passes
// its content type through untouched instead of forcing application/json.
type MultipartBody struct {
	ContentType string
	Reader      io.Reader
}

// Client performs requests against the VitrinSaz API.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     CredentialSource
	onExpired SessionExpiredHook
}

// Option customises client construction.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithSessionExpiredHook registers the navigation hook run after a 401.
func WithSessionExpiredHook(hook SessionExpiredHook) Option {
	return func(c *Client) {
		c.onExpired = hook
	}
}

// NewClient builds an API client reading tokens from creds.
func NewClient(creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		creds:   creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request against the given endpoint.
func (c *Client) Get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// Post performs a POST request with a JSON or multipart body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, endpoint, body)
}

// Patch performs a PATCH request with a JSON or multipart body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, endpoint, body)
}

// Delete performs a DELETE request against the given endpoint.
func (c *Client) Delete(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reader io.Reader = http.NoBody
	contentType := ""

	switch payload := body.(type) {
	case nil:
	case *MultipartBody:
		reader = payload.Reader
		contentType = payload.ContentType
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s body: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build %s %s: %w", method, endpoint, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if err := c.attachToken(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.handleUnauthorized(ctx, method, endpoint)
	case resp.StatusCode == http.StatusNoContent:
		return NoContent, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("api: read %s %s response: %w", method, endpoint, err)
		}
		return json.RawMessage(data), nil
	default:
		return nil, readAPIError(resp, endpoint)
	}
}

func (c *Client) attachToken(ctx context.Context, req *http.Request) error {
	if c.creds == nil {
		return nil
	}
	token, err := c.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("api: read credentials: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// handleUnauthorized is the side-effecting 401 fast path: wipe credentials,
// run the navigation hook, fail the call. Never retried.
func (c *Client) handleUnauthorized(ctx context.Context, method, endpoint string) error {
	if c.creds != nil {
		if err := c.creds.ClearAll(ctx); err != nil {
			log.Printf("[API] WARNING: failed to clear credentials after 401: %v", err)
		}
	}
	if c.onExpired != nil {
		c.onExpired(ctx)
	}
	return fmt.Errorf("api: %s %s: %w", method, endpoint, ErrSessionExpired)
}

// APIError carries a non-2xx response with the server-provided detail when
// the body could be parsed.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// readAPIError parses the server's {detail, error} body, falling back to a
// synthesized "<status> <endpoint> failed" message.
func readAPIError(resp *http.Response, endpoint string) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		Message:    fmt.Sprintf("%s %s failed", resp.Status, endpoint),
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(body) == 0 {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Detail); msg != "" {
			apiErr.Message = msg
		} else if msg := strings.TrimSpace(payload.Error); msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}
