// Package worker is the single choke point for authenticated HTTP calls to
// the external worker backend. It serializes bodies as JSON, attaches a
// bearer token when one is available and maps non-OK responses to *APIError.
// There is no retry policy and no timeout beyond the HTTP client's own;
// cancellation flows through the request context.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource resolves the bearer token for a request. Returning an empty
// token with a nil error means the call proceeds unauthenticated.
type TokenSource func(ctx context.Context) (string, error)

// Client issues requests against the worker REST API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New constructs a Client for the given base URL with optional functional
// arguments. A trailing slash on the base URL is ignored.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request issues method against path and returns the response body. A 204 or
// empty body yields nil. JSON responses come back verbatim as
// json.RawMessage; any other content type comes back as a JSON string so
// callers always receive valid JSON.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readError(resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return json.RawMessage(raw), nil
	}
	text, err := json.Marshal(string(raw))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

// RequestJSON issues the request and decodes the JSON response into out. A
// nil out discards the body; an absent body leaves out untouched.
func (c *Client) RequestJSON(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.Request(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || raw == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// readError extracts the error message from a non-OK response: the JSON
// body's error/message field, the raw body text, then the status text.
func readError(resp *http.Response) error {
	message := resp.Status
	raw, err := io.ReadAll(resp.Body)
	if err == nil && len(raw) > 0 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		switch {
		case json.Unmarshal(raw, &payload) == nil && payload.Error != "":
			message = payload.Error
		case payload.Message != "":
			message = payload.Message
		default:
			if text := strings.TrimSpace(string(raw)); text != "" {
				message = text
			}
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
