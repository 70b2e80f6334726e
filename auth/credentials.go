// ABOUTME: Credential file management for the stored bearer token
// ABOUTME: Handles persistence at XDG paths with restricted permissions
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Credentials is what survives between runs: the bearer token and the role
// list cached at login time. Roles are re-fetched on startup; the cache only
// covers the window before /me answers.
type Credentials struct {
	Token string   `json:"token"`
	Roles []string `json:"roles,omitempty"`
}

// CredentialPath returns the XDG-compliant path for the credential file.
func CredentialPath() string {
	return filepath.Join(xdg.DataHome, "dentdesk", "credentials.json")
}

// SaveCredentials writes the credential file with restricted permissions.
func SaveCredentials(creds Credentials) error {
	path := CredentialPath()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credential file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(creds); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return nil
}

// LoadCredentials reads the credential file. A missing file is not an error;
// it returns empty credentials.
func LoadCredentials() (Credentials, error) {
	var creds Credentials

	f, err := os.Open(CredentialPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return creds, nil
		}
		return creds, fmt.Errorf("failed to open credential file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(&creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to decode credentials: %w", err)
	}
	return creds, nil
}

// ClearCredentials removes the credential file. Removing an absent file is
// not an error.
func ClearCredentials() error {
	if err := os.Remove(CredentialPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}

// FileTokenSource reads the bearer token from the credential file on every
// call, so a login or logout in the same process is picked up immediately.
type FileTokenSource struct{}

func (FileTokenSource) Token() (string, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return "", err
	}
	return creds.Token, nil
}
