// ABOUTME: Error taxonomy for backend calls and client-side guards
// ABOUTME: Defines AuthError, HTTPError, ValidationError, PermissionError
package api

import (
	"fmt"

	"github.com/phuongsen/dentdesk/models"
)

// HTTPError is any non-2xx response from the backend. The response body is
// kept verbatim since the WordPress plugins put the useful message there.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// AuthError means the backend rejected credentials or issued no token.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError reports a missing required form field, caught before any
// network call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// PermissionError is the client-side guard for an action the current role set
// does not allow. The backend remains the real enforcement point and may also
// reject with an HTTPError.
type PermissionError struct {
	Perm models.Permission
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Perm)
}
