// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/securevote/securevote/models"
	"github.com/securevote/securevote/session"
	"github.com/securevote/securevote/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	store := testutil.NewStore(t)
	sessions := session.NewManager(session.NewMemStore(), "router-test-secret", false)
	return NewRouter(store, sessions)
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/api/dashboard/stats"},
		{"GET", "/api/voters"},
		{"POST", "/api/voters"},
		{"POST", "/api/voters/bulk"},
		{"GET", "/api/candidates"},
		{"POST", "/api/candidates"},
		{"GET", "/api/devices"},
		{"POST", "/api/devices"},
		{"POST", "/api/devices/machine_01/sync"},
		{"POST", "/api/devices/machine_01/test-vote"},
		{"GET", "/api/votes/results"},
		{"GET", "/api/votes/logs"},
		{"GET", "/api/security-logs"},
		{"POST", "/api/security-logs/some-id/resolve"},
		{"GET", "/api/activity-logs"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 without a session, got %d", w.Code)
			}
		})
	}
}

func TestDeviceRoutesAreOpen(t *testing.T) {
	mux := newTestRouter(t)

	// No session cookie on any of these; they must reach their handlers
	// and fail on payload or lookup grounds, never on authentication.
	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/api/esp32/vote"},
		{"POST", "/api/esp32/sync-offline-votes"},
		{"GET", "/api/esp32/sync/machine_01"},
		{"POST", "/api/devices/machine_01/health"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusUnauthorized {
				t.Errorf("Device route %s %s should not require a session", tc.method, tc.path)
			}
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s not registered for method, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestProtectedRouteWithSession(t *testing.T) {
	store := testutil.NewStore(t)
	sessions := session.NewManager(session.NewMemStore(), "router-test-secret", false)
	mux := NewRouter(store, sessions)

	user := testutil.CreateTestUser(t, store, "officer", models.RoleElectionOfficer)
	sess, err := sessions.Issue(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}
	seed := httptest.NewRecorder()
	sessions.Attach(seed, sess)
	cookie := seed.Result().Cookies()[0]

	req := httptest.NewRequest("GET", "/api/dashboard/stats", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with a valid session, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/api/voters"},
		{"PUT", "/api/esp32/vote"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}
