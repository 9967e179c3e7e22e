// Package web provides the HTTP surface of the mood playlist service: a
// JSON API driving the session state machine plus the OAuth callback.
package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/justestif/go-mood-playlist/internal/session"
)

const (
	browserCookieName = "mood_session"
	machineTTL        = 24 * time.Hour
)

// Store maps browser cookies to live session machines. Machines exist only
// in process memory; a restart abandons every session by design.
type Store struct {
	mu         sync.RWMutex
	machines   map[string]storeEntry
	newMachine func() *session.Machine
}

type storeEntry struct {
	machine   *session.Machine
	createdAt time.Time
}

// NewStore creates a machine store. newMachine builds a fresh state machine
// for each new browser session.
func NewStore(newMachine func() *session.Machine) *Store {
	return &Store{
		machines:   make(map[string]storeEntry),
		newMachine: newMachine,
	}
}

// Get returns the machine for the request's cookie, or nil when the browser
// has no live session.
func (s *Store) Get(r *http.Request) *session.Machine {
	cookie, err := r.Cookie(browserCookieName)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.machines[cookie.Value]
	if !ok {
		return nil
	}
	if time.Since(entry.createdAt) > machineTTL {
		delete(s.machines, cookie.Value)
		return nil
	}
	return entry.machine
}

// GetOrCreate returns the request's machine, creating one and setting the
// cookie when the browser has none.
func (s *Store) GetOrCreate(w http.ResponseWriter, r *http.Request) (*session.Machine, error) {
	if m := s.Get(r); m != nil {
		return m, nil
	}

	id, err := generateStoreID()
	if err != nil {
		return nil, err
	}

	m := s.newMachine()
	s.mu.Lock()
	s.machines[id] = storeEntry{machine: m, createdAt: time.Now()}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     browserCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(machineTTL.Seconds()),
	})
	return m, nil
}

// Drop removes the machine for the request's cookie and clears the cookie.
func (s *Store) Drop(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(browserCookieName); err == nil {
		s.mu.Lock()
		delete(s.machines, cookie.Value)
		s.mu.Unlock()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     browserCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateStoreID creates a cryptographically random cookie value.
func generateStoreID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
