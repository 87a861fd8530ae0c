// Package api is the HTTP adapter for the project management backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// Tokens supplies the bearer token for authenticated calls.
type Tokens interface {
	oauth2.TokenSource
	Present() bool
}

// Client talks JSON to the backend. All calls go through do.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New creates a client for baseURL. When tokens holds a session, every request
// carries it as a bearer token.
func New(baseURL string, tokens Tokens, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{
		Transport: &bearerTransport{tokens: tokens, base: http.DefaultTransport},
		Timeout:   timeout,
	})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     slog.Default().With("component", "api"),
	}
}

// bearerTransport attaches the session token only while one exists, so
// login and register go out unauthenticated.
type bearerTransport struct {
	tokens Tokens
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens == nil || !t.tokens.Present() {
		return t.base.RoundTrip(req)
	}
	return (&oauth2.Transport{Source: t.tokens, Base: t.base}).RoundTrip(req)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.log.Warn("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		}
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var eb errorBody
	if json.Unmarshal(b, &eb) == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
	}
	return apiErr
}
