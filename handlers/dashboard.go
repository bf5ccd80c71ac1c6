// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/securevote/securevote/middleware"
	"github.com/securevote/securevote/storage"
)

type DashboardHandler struct {
	store storage.Store
}

func NewDashboardHandler(store storage.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// Stats handles GET /api/dashboard/stats. Computed from current store
// state on every call; no caching.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.DashboardStats(r.Context())
	if err != nil {
		slog.Error("failed to compute dashboard stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}
