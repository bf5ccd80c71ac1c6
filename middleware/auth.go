// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"

	"github.com/securevote/securevote/session"
)

type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth rejects requests without a valid session cookie and stores
// the authenticated user id on the request context.
func RequireAuth(sessions *session.Manager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.FromRequest(r)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, sess.UserID)
		next(w, r.WithContext(ctx))
	}
}

// UserID returns the authenticated user id stored by RequireAuth, or ""
// when the request did not pass through it.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
