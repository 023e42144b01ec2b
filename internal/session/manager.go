package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskdeck/internal/models"
)

// Manager is the single source of truth for authentication state. All
// components read through it instead of poking at storage directly, and the
// in-memory state and the Store are updated together under one lock so no
// reader observes them diverging.
type Manager struct {
	mu    sync.Mutex
	store Store
	sess  *models.Session
	subs  []func(authenticated bool)
}

// NewManager loads the initial session from the store. A token whose exp
// claim has already passed is discarded up front rather than waiting for the
// first 401.
func NewManager(store Store) *Manager {
	m := &Manager{store: store}
	if sess := store.Load(); sess != nil {
		if tokenExpired(sess.Token, time.Now()) {
			store.Clear()
		} else {
			m.sess = sess
		}
	}
	return m
}

// tokenExpired checks the exp claim without verifying the signature; the
// client has no key material and the server re-checks everything anyway.
// Opaque (non-JWT) tokens are never treated as expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// Authenticated reports whether a session is present
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess != nil
}

// Token returns the bearer token, or "" when not authenticated
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return ""
	}
	return m.sess.Token
}

// Current returns a copy of the session, or nil
func (m *Manager) Current() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil
	}
	copied := *m.sess
	return &copied
}

// Subscribe registers a callback invoked after every auth state change, so
// independently mounted components can resynchronize without a reload.
func (m *Manager) Subscribe(fn func(authenticated bool)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

// Login stores the credentials and broadcasts the change
func (m *Manager) Login(token string, user models.User) error {
	sess := models.Session{Token: token, User: user}

	m.mu.Lock()
	if err := m.store.Save(sess); err != nil {
		m.mu.Unlock()
		return err
	}
	m.sess = &sess
	subs := append([]func(bool){}, m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(true)
	}
	return nil
}

// UpdateUser replaces the stored profile while keeping the current token.
// No broadcast: the authentication state did not change.
func (m *Manager) UpdateUser(user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil
	}
	sess := models.Session{Token: m.sess.Token, User: user}
	if err := m.store.Save(sess); err != nil {
		return err
	}
	m.sess = &sess
	return nil
}

// Logout clears the store and memory and broadcasts the change
func (m *Manager) Logout() {
	m.clear()
}

// HandleUnauthorized is the API client's 401 hook. It invalidates the
// session but performs no navigation; route guards react on the next render.
func (m *Manager) HandleUnauthorized() {
	m.clear()
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.store.Clear()
	m.sess = nil
	subs := append([]func(bool){}, m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(false)
	}
}
