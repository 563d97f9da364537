// Package client talks to the eMaquis REST API.
package client

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

// Client is the eMaquis API client. All authenticated concerns (bearer
// header, 401 handling) live in its transport, not in the methods.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*authTransport, *Client)

// WithSession wires the live session into the request pipeline.
func WithSession(s SessionState) Option {
	return func(t *authTransport, _ *Client) { t.session = s }
}

// WithCredentialStore wires the persisted-token fallback.
func WithCredentialStore(store CredentialStore) Option {
	return func(t *authTransport, _ *Client) { t.store = store }
}

// WithToken fixes the bearer token, bypassing session and store.
// Used for the MAQUIS_TOKEN env override.
func WithToken(token string) Option {
	return func(t *authTransport, _ *Client) { t.static = token }
}

// New creates a new API client for the given base URL, e.g.
// "https://api.emaquis-api.fyi/api/v1".
func New(baseURL string, opts ...Option) *Client {
	t := &authTransport{base: http.DefaultTransport}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: t,
		},
	}
	for _, opt := range opts {
		opt(t, c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPut, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Message    string `json:"message"`
			Field      string `json:"field"`
			StatusCode int    `json:"statusCode"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			// The API sometimes carries its own statusCode in the body;
			// when present it is more precise than the transport status.
			code := resp.StatusCode
			if apiErr.StatusCode != 0 {
				code = apiErr.StatusCode
			}
			return &HTTPError{StatusCode: code, Message: apiErr.Message, Field: apiErr.Field}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
