// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/securevote/securevote/auth"
)

// CookieName is the session cookie issued on login.
const CookieName = "securevote_session"

// TTL is the fixed session lifetime from issuance.
const TTL = 8 * time.Hour

var ErrNotFound = errors.New("session not found")

// Session is a server-side record mapping a cookie to an authenticated user.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// Store persists sessions. Implementations must treat expired sessions as
// absent.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Manager issues, resolves, and destroys sessions, and owns the signed
// cookie contract. The store backing it is a deployment concern.
type Manager struct {
	store      Store
	secret     string
	production bool
}

func NewManager(store Store, secret string, production bool) *Manager {
	return &Manager{store: store, secret: secret, production: production}
}

// Issue creates a brand-new session for the user. Callers must always issue
// a fresh session on login so an attacker-fixated session ID never becomes
// authenticated.
func (m *Manager) Issue(ctx context.Context, userID string) (Session, error) {
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(TTL),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Attach sets the signed session cookie on the response.
func (m *Manager) Attach(w http.ResponseWriter, s Session) {
	sameSite := http.SameSiteLaxMode
	if m.production {
		sameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    auth.SignValue(s.ID, m.secret),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.production,
		SameSite: sameSite,
		MaxAge:   int(TTL.Seconds()),
	})
}

// FromRequest resolves the session attached to the request. Missing,
// tampered, unknown, and expired cookies all return ErrNotFound.
func (m *Manager) FromRequest(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Session{}, ErrNotFound
	}

	id, ok := auth.VerifySignedValue(cookie.Value, m.secret)
	if !ok {
		return Session{}, ErrNotFound
	}

	return m.store.Get(r.Context(), id)
}

// Destroy removes the server-side session and expires the cookie. Safe to
// call when no valid session is attached.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	var err error
	if cookie, cerr := r.Cookie(CookieName); cerr == nil {
		if id, ok := auth.VerifySignedValue(cookie.Value, m.secret); ok {
			err = m.store.Delete(r.Context(), id)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	return err
}

// MemStore is a process-local session store. Expired entries are pruned
// lazily on read.
type MemStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string]Session)}
}

func (s *MemStore) Create(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, id)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
