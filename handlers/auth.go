// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/securevote/securevote/auth"
	"github.com/securevote/securevote/middleware"
	"github.com/securevote/securevote/models"
	"github.com/securevote/securevote/session"
	"github.com/securevote/securevote/storage"
)

type AuthHandler struct {
	store    storage.Store
	sessions *session.Manager
}

func NewAuthHandler(store storage.Store, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{store: store, sessions: sessions}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	// The failure response is identical whether the username is unknown or
	// the password is wrong.
	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	authenticated := err == nil && auth.VerifyPassword(req.Password, user.Password)

	if !authenticated {
		_, logErr := h.store.CreateSecurityLog(r.Context(), storage.NewSecurityLog{
			Type:        models.SecurityLoginAttempt,
			Severity:    models.SeverityMedium,
			Description: "Failed login attempt",
			Metadata: models.Metadata{
				"username": req.Username,
				"ip":       middleware.GetClientIP(r),
			},
		})
		if logErr != nil {
			slog.Error("failed to record login attempt", "error", logErr)
		}
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Discard any session the request arrived with before issuing a new
	// one, so a pre-login session id never survives authentication.
	if _, err := h.sessions.FromRequest(r); err == nil {
		if err := h.sessions.Destroy(w, r); err != nil {
			slog.Warn("failed to destroy pre-login session", "error", err)
		}
	}

	sess, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Login failed")
		return
	}
	h.sessions.Attach(w, sess)

	_, err = h.store.CreateActivityLog(r.Context(), storage.NewActivityLog{
		Type:        models.ActivityUserLogin,
		Description: "User " + user.FullName + " logged in",
		UserID:      &user.ID,
		Metadata:    models.Metadata{"username": user.Username},
	})
	if err != nil {
		slog.Warn("failed to record login activity", "error", err)
	}

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{User: user})
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.FromRequest(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.store.GetUser(r.Context(), sess.UserID)
	if err != nil {
		// The user behind the session is gone; treat as unauthenticated.
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{User: user})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, sessErr := h.sessions.FromRequest(r)

	if err := h.sessions.Destroy(w, r); err != nil {
		slog.Warn("failed to destroy session", "error", err)
	}

	if sessErr == nil {
		_, err := h.store.CreateActivityLog(r.Context(), storage.NewActivityLog{
			Type:        models.ActivityUserLogout,
			Description: "User logged out",
			UserID:      &sess.UserID,
		})
		if err != nil {
			// Logout must succeed even when the activity feed is unavailable.
			slog.Warn("failed to record logout activity", "error", err)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
