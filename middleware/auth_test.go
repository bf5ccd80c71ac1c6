// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/securevote/securevote/session"
)

const testSecret = "middleware-test-secret"

func newTestSessions() *session.Manager {
	return session.NewManager(session.NewMemStore(), testSecret, false)
}

func TestRequireAuth_ValidSession(t *testing.T) {
	sessions := newTestSessions()
	sess, err := sessions.Issue(context.Background(), "user-42")
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}

	var gotUserID string
	handler := RequireAuth(sessions, func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// Capture the cookie the manager would set, then replay it
	rec := httptest.NewRecorder()
	sessions.Attach(rec, sess)
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected a session cookie to be set")
	}

	req := httptest.NewRequest("GET", "/api/voters", nil)
	req.AddCookie(cookies[0])
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotUserID != "user-42" {
		t.Errorf("Expected user id 'user-42' on context, got '%s'", gotUserID)
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	sessions := newTestSessions()

	called := false
	handler := RequireAuth(sessions, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/api/voters", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if called {
		t.Error("Expected next handler not to be called")
	}
}

func TestRequireAuth_TamperedCookie(t *testing.T) {
	sessions := newTestSessions()
	sess, err := sessions.Issue(context.Background(), "user-42")
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}

	handler := RequireAuth(sessions, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected next handler not to be called")
	})

	// Unsigned session id (no HMAC) must be treated as absent
	req := httptest.NewRequest("GET", "/api/voters", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestUserID_WithoutAuth(t *testing.T) {
	if id := UserID(context.Background()); id != "" {
		t.Errorf("Expected empty user id, got '%s'", id)
	}
}
