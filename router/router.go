// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/securevote/securevote/handlers"
	"github.com/securevote/securevote/middleware"
	"github.com/securevote/securevote/session"
	"github.com/securevote/securevote/storage"
)

// NewRouter wires every route. Dashboard routes require a session; the
// /api/esp32/* device-facing endpoints and the health check do not, since
// voting machines authenticate by fingerprint data, not cookies.
func NewRouter(store storage.Store, sessions *session.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store, sessions)
	dashboardHandler := handlers.NewDashboardHandler(store)
	voterHandler := handlers.NewVoterHandler(store)
	candidateHandler := handlers.NewCandidateHandler(store)
	deviceHandler := handlers.NewDeviceHandler(store)
	voteHandler := handlers.NewVoteHandler(store)
	logHandler := handlers.NewLogHandler(store)

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(sessions, h))
	}
	open := middleware.WithLogging

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /api/auth/login", open(authHandler.Login))
	mux.HandleFunc("GET /api/auth/session", open(authHandler.Session))
	mux.HandleFunc("POST /api/auth/logout", open(authHandler.Logout))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/stats", protected(dashboardHandler.Stats))

	// Voters
	mux.HandleFunc("GET /api/voters", protected(voterHandler.List))
	mux.HandleFunc("POST /api/voters", protected(voterHandler.Create))
	mux.HandleFunc("POST /api/voters/bulk", protected(voterHandler.Bulk))

	// Candidates
	mux.HandleFunc("GET /api/candidates", protected(candidateHandler.List))
	mux.HandleFunc("POST /api/candidates", protected(candidateHandler.Create))

	// Devices
	mux.HandleFunc("GET /api/devices", protected(deviceHandler.List))
	mux.HandleFunc("POST /api/devices", protected(deviceHandler.Create))
	mux.HandleFunc("POST /api/devices/{deviceId}/sync", protected(deviceHandler.Sync))
	mux.HandleFunc("POST /api/devices/{deviceId}/test-vote", protected(voteHandler.TestVote))

	// Device-facing endpoints (no session auth; machines self-report)
	mux.HandleFunc("POST /api/esp32/vote", open(voteHandler.Submit))
	mux.HandleFunc("POST /api/esp32/sync-offline-votes", open(voteHandler.SyncOffline))
	mux.HandleFunc("GET /api/esp32/sync/{deviceId}", open(deviceHandler.RosterSync))
	mux.HandleFunc("POST /api/devices/{deviceId}/health", open(deviceHandler.Health))

	// Votes
	mux.HandleFunc("GET /api/votes/results", protected(voteHandler.Results))
	mux.HandleFunc("GET /api/votes/logs", protected(voteHandler.Logs))

	// Security and activity logs
	mux.HandleFunc("GET /api/security-logs", protected(logHandler.SecurityList))
	mux.HandleFunc("POST /api/security-logs/{id}/resolve", protected(logHandler.SecurityResolve))
	mux.HandleFunc("GET /api/activity-logs", protected(logHandler.ActivityList))

	return mux
}
