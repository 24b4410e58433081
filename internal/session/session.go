package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/assesskit/assesskit/internal/errors"
	"github.com/assesskit/assesskit/internal/log"
)

// Identity is the authenticated user plus the live token pair.
type Identity struct {
	UserID       int    `json:"id"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Manager owns the process-wide session with an explicit lifecycle:
// Hydrate on startup, Login/SetTokens/Logout as the session changes.
// It is injected into whatever needs identity; there is no package
// global to reach for.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	current *Identity
	log     *log.Logger
}

// NewManager creates a manager over the given store.
func NewManager(store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Manager{store: store, log: logger.WithGroup("session")}
}

// Hydrate loads any persisted identity into memory.
func (m *Manager) Hydrate() error {
	id, err := m.store.Load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.current = id
	m.mu.Unlock()

	if id != nil {
		m.log.Debug("session hydrated", "email", id.Email, "is_admin", id.IsAdmin)
	}
	return nil
}

// Current returns a copy of the active identity, or nil when logged out.
func (m *Manager) Current() *Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	id := *m.current
	return &id
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	return m.Current() != nil
}

// Login stores a fresh identity and persists it.
func (m *Manager) Login(id Identity) error {
	m.mu.Lock()
	m.current = &id
	m.mu.Unlock()

	if err := m.store.Save(&id); err != nil {
		return err
	}
	m.log.Info("logged in", "email", id.Email)
	return nil
}

// SetTokens swaps the token pair after a refresh, keeping the rest of
// the identity, and persists the result.
func (m *Manager) SetTokens(access, refresh string) error {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return errors.NewNotLoggedInError()
	}
	m.current.AccessToken = access
	if refresh != "" {
		m.current.RefreshToken = refresh
	}
	id := *m.current
	m.mu.Unlock()

	return m.store.Save(&id)
}

// Logout clears the in-memory identity and the persisted file.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		return err
	}
	m.log.Info("logged out")
	return nil
}

// AccessExpiry peeks at the access token's exp claim without verifying
// the signature; the backend holds the key, we only schedule around it.
// Returns the zero time when the token carries no expiry.
func (m *Manager) AccessExpiry() (time.Time, error) {
	id := m.Current()
	if id == nil {
		return time.Time{}, errors.NewNotLoggedInError()
	}
	return tokenExpiry(id.AccessToken)
}

func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeAuthTokenMalformed, "parse access token", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
