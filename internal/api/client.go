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
)

// TokenSource supplies the current bearer token, if any. The session
// manager implements this.
type TokenSource interface {
	Token() (string, bool)
}

// Error is a non-2xx API response. The backend returns errors as JSON
// objects with a "detail" string; Detail carries that message or a
// generic fallback when the body is not in that shape.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return e.Detail
}

// Client is a thin HTTP client for the todo backend REST API.
// It handles bearer token authentication and JSON (de)serialization;
// every method performs exactly one HTTP call.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// Pagination windows applied to collection fetches. The backend
// defaults match these; they are sent explicitly.
const (
	pageLimit     = 100
	activityLimit = 50
)

// NewClient creates a client for the backend rooted at baseURL.
// tokens may be nil until a session exists; see SetTokenSource.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTokenSource attaches the token supplier. Split from NewClient so
// the session manager and client can reference each other.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do builds the request, attaches headers, and decodes the response.
// Non-2xx responses become *Error values carrying the server's
// "detail" message.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body any,
	result any,
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}

	// No content to parse (e.g. 204 from DELETE).
	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

// decodeError extracts the backend's "detail" message from an error
// body, falling back to a generic message keyed by status code.
func decodeError(status int, body []byte) *Error {
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Detail != "" {
		return &Error{StatusCode: status, Detail: payload.Detail}
	}
	return &Error{
		StatusCode: status,
		Detail:     fmt.Sprintf("request failed with status %d", status),
	}
}
