// ABOUTME: Authentication endpoints for the WordPress JWT plugin
// ABOUTME: Exchanges credentials for a token and fetches the current identity
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/phuongsen/dentdesk/models"
)

const (
	tokenPath = "/wp-json/jwt-auth/v1/token"
	mePath    = "/wp-json/custom/v1/me"
)

// Login exchanges credentials for a bearer token. A backend rejection or a
// response without a token field is an AuthError; transport failures pass
// through unchanged.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}

	raw, err := c.request(ctx, http.MethodPost, tokenPath, nil, body, false)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Status >= http.StatusBadRequest && httpErr.Status < http.StatusInternalServerError {
			return "", &AuthError{Reason: "credentials rejected", Err: err}
		}
		return "", err
	}

	// The JWT plugin responds {token, user_display_name, user_email, ...}.
	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if res.Token == "" {
		return "", &AuthError{Reason: "no token in response"}
	}
	return res.Token, nil
}

// Me fetches the authenticated identity with its role list.
func (c *Client) Me(ctx context.Context) (models.Identity, error) {
	var me models.Identity
	raw, err := c.request(ctx, http.MethodGet, mePath, nil, nil, true)
	if err != nil {
		return me, err
	}
	if err := json.Unmarshal(raw, &me); err != nil {
		return me, fmt.Errorf("failed to decode identity: %w", err)
	}
	return me, nil
}
