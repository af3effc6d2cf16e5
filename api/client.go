// Package api is the HTTP client for the Secure LLM Chat backend.
//
// Every data-bearing operation of the TUI goes through this package:
// authentication, chat CRUD, message send (blocking and streaming), arena
// votes, memories, and metrics. The package owns no state beyond the
// injected credential source; all persistence is the server's job.
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
)

const (
	// DefaultTimeout bounds every non-streaming request.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps decoded response bodies.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// Shared pooled client for request/response calls.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: DefaultTimeout,
	}

	// Streaming responses have no overall deadline; lifetime is governed by
	// the caller's context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
)

// TokenSource supplies the bearer token for outgoing requests. Injecting it
// keeps the client free of any coupling to where credentials are stored; an
// empty string means "send no Authorization header" (login, register).
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-string TokenSource, mostly useful in tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client talks to one backend instance.
type Client struct {
	baseURL      string
	tokens       TokenSource
	httpClient   *http.Client
	streamClient *http.Client
	logf         func(format string, args ...any)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled request client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger routes the client's diagnostics. The default discards them;
// the app wires this to its debug log.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(c *Client) { c.logf = logf }
}

// NewClient creates a client for the backend at baseURL. tokens may be nil
// for a client that only performs unauthenticated calls.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokens:       tokens,
		httpClient:   sharedHTTPClient,
		streamClient: sharedStreamingClient,
		logf:         func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	// Request IDs correlate client debug logs with server logs.
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// doJSON performs a JSON round trip: body (may be nil) is marshalled, the
// response is decoded into out (may be nil). Non-2xx statuses become
// *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := decodeError(resp)
		c.logf("[api] %s %s -> %v", method, path, err)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, MaxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// postForm performs a form-encoded POST (the login endpoint speaks the OAuth2
// password flow, not JSON) and decodes the JSON response into out.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := decodeError(resp)
		c.logf("[api] POST %s -> %v", path, err)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, MaxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("decode POST %s response: %w", path, err)
	}
	return nil
}
