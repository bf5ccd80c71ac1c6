// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/securevote/securevote/middleware"
	"github.com/securevote/securevote/models"
	"github.com/securevote/securevote/storage"
)

type VoterHandler struct {
	store storage.Store
}

func NewVoterHandler(store storage.Store) *VoterHandler {
	return &VoterHandler{store: store}
}

// List handles GET /api/voters
func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	voters, err := h.store.GetVoters(r.Context())
	if err != nil {
		slog.Error("failed to fetch voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch voters")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voters)
}

// Create handles POST /api/voters
func (h *VoterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validateVoter(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	voter, err := h.store.CreateVoter(r.Context(), storage.NewVoter{
		VoterID:         req.VoterID,
		FullName:        req.FullName,
		FingerprintHash: req.FingerprintHash,
	})
	if errors.Is(err, storage.ErrDuplicateVoter) {
		middleware.ErrorResponse(w, http.StatusConflict, "Voter ID already registered")
		return
	}
	if err != nil {
		slog.Error("failed to create voter", "error", err, "voter_id", req.VoterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create voter")
		return
	}

	_, err = h.store.CreateActivityLog(r.Context(), storage.NewActivityLog{
		Type:        models.ActivityVoterRegistered,
		Description: fmt.Sprintf("New voter registered: %s (%s)", voter.FullName, voter.VoterID),
		Metadata:    models.Metadata{"voterId": voter.VoterID},
	})
	if err != nil {
		slog.Warn("failed to record voter registration", "error", err)
	}

	middleware.JSONResponse(w, http.StatusCreated, voter)
}

// Bulk handles POST /api/voters/bulk. The import is transactional: one
// duplicate rejects the whole batch.
func (h *VoterHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req models.BulkVotersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Voters) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voters array is required")
		return
	}

	newVoters := make([]storage.NewVoter, 0, len(req.Voters))
	for i, v := range req.Voters {
		if err := validateVoter(v); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("voter %d: %v", i, err))
			return
		}
		newVoters = append(newVoters, storage.NewVoter{
			VoterID:         v.VoterID,
			FullName:        v.FullName,
			FingerprintHash: v.FingerprintHash,
		})
	}

	voters, err := h.store.CreateVoters(r.Context(), newVoters)
	if errors.Is(err, storage.ErrDuplicateVoter) {
		middleware.ErrorResponse(w, http.StatusConflict, "Import contains an already-registered voter ID")
		return
	}
	if err != nil {
		slog.Error("failed to import voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import voters")
		return
	}

	_, err = h.store.CreateActivityLog(r.Context(), storage.NewActivityLog{
		Type:        models.ActivityVoterRegistered,
		Description: fmt.Sprintf("Bulk import of %d voters completed", len(voters)),
		Metadata:    models.Metadata{"count": len(voters)},
	})
	if err != nil {
		slog.Warn("failed to record bulk import", "error", err)
	}

	middleware.JSONResponse(w, http.StatusCreated, voters)
}

func validateVoter(req models.CreateVoterRequest) error {
	if req.VoterID == "" {
		return errors.New("voterId is required")
	}
	if req.FullName == "" {
		return errors.New("fullName is required")
	}
	if req.FingerprintHash == "" {
		return errors.New("fingerprintHash is required")
	}
	return nil
}
