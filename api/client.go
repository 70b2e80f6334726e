// ABOUTME: Authenticated JSON client for the clinic's WordPress backend
// ABOUTME: Attaches bearer tokens, translates non-2xx responses into HTTPError
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
)

// DefaultBaseURL is the production backend. Override with CLINIC_API_BASE.
const DefaultBaseURL = "https://nhakhoaphuongsen.com"

// TokenSource supplies the current bearer token. An empty token with a nil
// error means "no stored credentials"; the request is then sent without an
// Authorization header and the backend answers 401 as the final authority.
type TokenSource interface {
	Token() (string, error)
}

// Client issues JSON requests against the backend. It performs no automatic
// retries; GETs are safe for callers to retry.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

func NewClient(base string, tokens TokenSource) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{},
		tokens: tokens,
	}
}

// request performs one call and returns the raw response body. A 204 or empty
// body yields nil bytes rather than a decode attempt.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, auth bool) ([]byte, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if auth {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read stored token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &HTTPError{Status: res.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if res.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return raw, nil
}

// decodeRows unmarshals a list endpoint response. The custom WP endpoints
// answer either a bare array or a {"data": [...]} wrapper depending on the
// plugin version, so both are accepted.
func decodeRows(raw []byte, out any) error {
	if len(raw) == 0 {
		return nil
	}
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Data) > 0 {
		raw = wrapper.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
