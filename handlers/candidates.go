// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/securevote/securevote/middleware"
	"github.com/securevote/securevote/models"
	"github.com/securevote/securevote/storage"
)

type CandidateHandler struct {
	store storage.Store
}

func NewCandidateHandler(store storage.Store) *CandidateHandler {
	return &CandidateHandler{store: store}
}

// List handles GET /api/candidates
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.store.GetCandidates(r.Context())
	if err != nil {
		slog.Error("failed to fetch candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch candidates")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// Create handles POST /api/candidates
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.Party == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and party are required")
		return
	}

	candidate, err := h.store.CreateCandidate(r.Context(), storage.NewCandidate{
		Name:     req.Name,
		Party:    req.Party,
		Position: req.Position,
	})
	if err != nil {
		slog.Error("failed to create candidate", "error", err, "name", req.Name)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}
