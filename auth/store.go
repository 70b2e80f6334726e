// ABOUTME: Session store holding the authenticated identity and roles
// ABOUTME: Single writer; permission checks derive from roles on every call
package auth

import (
	"context"
	"log"
	"sync"

	"github.com/phuongsen/dentdesk/api"
	"github.com/phuongsen/dentdesk/models"
)

// Store owns the process-wide session. All mutations replace the whole
// session value at once so readers never observe a half-updated identity and
// role pair.
type Store struct {
	client *api.Client

	mu      sync.RWMutex
	session *models.Identity
}

func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// Initialize validates any persisted token against /me. Failures are
// terminal for this call only: an expired or rejected token just means no
// session, so the error is swallowed and the stale credentials are cleared.
func (s *Store) Initialize(ctx context.Context) {
	creds, err := LoadCredentials()
	if err != nil || creds.Token == "" {
		s.replace(nil)
		return
	}

	me, err := s.client.Me(ctx)
	if err != nil {
		log.Printf("stored token rejected, clearing credentials: %v", err)
		if err := ClearCredentials(); err != nil {
			log.Printf("warning: %v", err)
		}
		s.replace(nil)
		return
	}
	s.replace(&me)
}

// Login exchanges credentials for a token, persists it, then fetches the
// identity and roles. The session stays absent on any failure.
func (s *Store) Login(ctx context.Context, username, password string) error {
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := SaveCredentials(Credentials{Token: token}); err != nil {
		return err
	}

	me, err := s.client.Me(ctx)
	if err != nil {
		if clearErr := ClearCredentials(); clearErr != nil {
			log.Printf("warning: %v", clearErr)
		}
		s.replace(nil)
		return err
	}

	// Cache roles alongside the token for the next startup.
	if err := SaveCredentials(Credentials{Token: token, Roles: me.Roles}); err != nil {
		log.Printf("warning: failed to cache roles: %v", err)
	}

	s.replace(&me)
	return nil
}

// Logout clears the persisted token and the session. Nothing here can block
// sign-out; file removal problems are only logged.
func (s *Store) Logout() {
	if err := ClearCredentials(); err != nil {
		log.Printf("warning: %v", err)
	}
	s.replace(nil)
}

// Current returns a copy of the live identity, if any.
func (s *Store) Current() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return models.Identity{}, false
	}
	return *s.session, true
}

// Can reports whether the current role set grants the permission. It derives
// the answer fresh on every call; there is no cache to invalidate.
func (s *Store) Can(p models.Permission) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return false
	}
	return models.PermissionsForRoles(s.session.Roles)[p]
}

func (s *Store) replace(session *models.Identity) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
}
