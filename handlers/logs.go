// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/securevote/securevote/middleware"
	"github.com/securevote/securevote/models"
	"github.com/securevote/securevote/storage"
)

// defaultActivityLogLimit matches the dashboard's recent-activity widget.
const defaultActivityLogLimit = 50

type LogHandler struct {
	store storage.Store
}

func NewLogHandler(store storage.Store) *LogHandler {
	return &LogHandler{store: store}
}

// SecurityList handles GET /api/security-logs
func (h *LogHandler) SecurityList(w http.ResponseWriter, r *http.Request) {
	logs, err := h.store.GetSecurityLogs(r.Context())
	if err != nil {
		slog.Error("failed to fetch security logs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch security logs")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, logs)
}

// SecurityResolve handles POST /api/security-logs/{id}/resolve. Resolving
// an already-resolved entry succeeds.
func (h *LogHandler) SecurityResolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	err := h.store.ResolveSecurityLog(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Security log not found")
		return
	}
	if err != nil {
		slog.Error("failed to resolve security log", "error", err, "id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to resolve security log")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// ActivityList handles GET /api/activity-logs?limit=N
func (h *LogHandler) ActivityList(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	logs, err := h.store.GetActivityLogs(r.Context(), limit)
	if err != nil {
		slog.Error("failed to fetch activity logs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch activity logs")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, logs)
}
