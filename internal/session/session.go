// Package session holds the signed-in customer and the theme preference,
// and persists them between runs.
package session

import (
	"fmt"
	"sync"

	"github.com/ekthaa/customer-client/internal/models"
)

// Theme is the UI colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// State is what gets persisted. Token and User are always written and
// cleared together.
type State struct {
	Token string       `json:"token,omitempty"`
	User  *models.User `json:"user,omitempty"`
	Theme Theme        `json:"theme,omitempty"`
}

// Store persists State.
type Store interface {
	Load() (State, error)
	Save(State) error
}

// Manager is the single owner of the session. All writes go through it and
// are serialized.
type Manager struct {
	mu    sync.RWMutex
	store Store
	state State
}

// NewManager restores the persisted state from store.
func NewManager(store Store) (*Manager, error) {
	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	if state.Theme == "" {
		state.Theme = ThemeLight
	}
	return &Manager{store: store, state: state}, nil
}

// Token returns the bearer token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Token
}

// User returns a copy of the cached profile, or nil when signed out.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state.User == nil {
		return nil
	}
	u := *m.state.User
	return &u
}

// Authenticated reports whether a token is held.
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Begin stores the result of a login or registration.
func (m *Manager) Begin(token string, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.state
	next.Token = token
	if user != nil {
		u := *user
		next.User = &u
	} else {
		next.User = nil
	}
	return m.commit(next)
}

// UpdateUser replaces the cached profile and keeps the token.
func (m *Manager) UpdateUser(user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.state
	next.User = &user
	return m.commit(next)
}

// End clears the token and cached user. It reports whether anything was
// cleared so callers can tell the first clear from a repeat.
func (m *Manager) End() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Token == "" && m.state.User == nil {
		return false, nil
	}
	next := m.state
	next.Token = ""
	next.User = nil
	return true, m.commit(next)
}

// EndIfToken clears the session only while token is still the one held. A
// rejection of a request sent before a fresh login leaves the new session in
// place.
func (m *Manager) EndIfToken(token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Token != token {
		return false, nil
	}
	if m.state.Token == "" && m.state.User == nil {
		return false, nil
	}
	next := m.state
	next.Token = ""
	next.User = nil
	return true, m.commit(next)
}

// Theme returns the current theme.
func (m *Manager) Theme() Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Theme
}

// ToggleTheme flips between light and dark and returns the new theme.
func (m *Manager) ToggleTheme() (Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.state
	if next.Theme == ThemeDark {
		next.Theme = ThemeLight
	} else {
		next.Theme = ThemeDark
	}
	if err := m.commit(next); err != nil {
		return m.state.Theme, err
	}
	return next.Theme, nil
}

// commit persists next and adopts it. The in-memory state is updated even if
// persisting fails so a failed disk write cannot resurrect a cleared session.
func (m *Manager) commit(next State) error {
	m.state = next
	if err := m.store.Save(next); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}
