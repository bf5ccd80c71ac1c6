// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/securevote/securevote/middleware"
	"github.com/securevote/securevote/models"
	"github.com/securevote/securevote/storage"
)

// confidenceThreshold is the minimum fingerprint match confidence (0-100)
// a device must report for a vote to be accepted.
const confidenceThreshold = 50

// defaultVoteLogLimit caps the vote log projection when the client does
// not ask for a specific limit.
const defaultVoteLogLimit = 100

type VoteHandler struct {
	store storage.Store
}

func NewVoteHandler(store storage.Store) *VoteHandler {
	return &VoteHandler{store: store}
}

// Submit handles POST /api/esp32/vote, the live intake path for biometric
// voting devices. Each check short-circuits with a 400 rejection paired
// with a security log entry; only unexpected storage failures return 500.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.VoterID == "" || req.FingerprintHash == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voterId and fingerprintHash are required")
		return
	}

	ctx := r.Context()

	// 1. Voter existence
	voter, err := h.store.GetVoterByVoterID(ctx, req.VoterID)
	if errors.Is(err, storage.ErrNotFound) {
		h.recordSecurityEvent(ctx, storage.NewSecurityLog{
			Type:        models.SecurityUnregisteredFingerprint,
			Severity:    models.SeverityMedium,
			DeviceID:    optional(req.DeviceID),
			VoterID:     optional(req.VoterID),
			Description: "Unregistered voter ID " + req.VoterID + " attempted to vote",
		})
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voter not registered")
		return
	}
	if err != nil {
		slog.Error("failed to look up voter", "error", err, "voter_id", req.VoterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	// 2. Duplicate check
	if voter.HasVoted {
		h.rejectDuplicate(ctx, w, req)
		return
	}

	// 3. Fingerprint match
	if voter.FingerprintHash != req.FingerprintHash {
		h.recordSecurityEvent(ctx, storage.NewSecurityLog{
			Type:        models.SecurityUnregisteredFingerprint,
			Severity:    models.SeverityHigh,
			DeviceID:    optional(req.DeviceID),
			VoterID:     optional(req.VoterID),
			Description: "Fingerprint mismatch for voter " + req.VoterID,
		})
		middleware.ErrorResponse(w, http.StatusBadRequest, "Fingerprint verification failed")
		return
	}

	// 4. Confidence gate. Catches sensor-level false accepts even when the
	// hash nominally matches.
	if req.Confidence != nil && *req.Confidence < confidenceThreshold {
		h.recordSecurityEvent(ctx, storage.NewSecurityLog{
			Type:        models.SecurityLowConfidence,
			Severity:    models.SeverityMedium,
			DeviceID:    optional(req.DeviceID),
			VoterID:     optional(req.VoterID),
			Description: "Low fingerprint confidence for voter " + req.VoterID,
			Metadata:    models.Metadata{"confidence": *req.Confidence, "threshold": confidenceThreshold},
		})
		middleware.ErrorResponse(w, http.StatusBadRequest, "Fingerprint confidence too low")
		return
	}

	vote, err := h.commitVote(ctx, req, nil)
	if errors.Is(err, storage.ErrDuplicateVote) {
		// A concurrent submission won the race between the duplicate check
		// and the insert. Treat it as the normal duplicate rejection.
		h.rejectDuplicate(ctx, w, req)
		return
	}
	if err != nil {
		slog.Error("failed to commit vote", "error", err, "voter_id", req.VoterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVoteResponse{
		Success: true,
		VoteID:  vote.ID,
	})
}

func (h *VoteHandler) rejectDuplicate(ctx context.Context, w http.ResponseWriter, req models.SubmitVoteRequest) {
	h.recordSecurityEvent(ctx, storage.NewSecurityLog{
		Type:        models.SecurityDuplicateAttempt,
		Severity:    models.SeverityHigh,
		DeviceID:    optional(req.DeviceID),
		VoterID:     optional(req.VoterID),
		Description: "Duplicate vote attempt by voter " + req.VoterID,
	})
	middleware.ErrorResponse(w, http.StatusBadRequest, "Voter has already voted")
}

// commitVote performs steps 5-7 of the intake sequence: candidate
// resolution, the multi-step commit, and the audit entry. The commit has
// no rollback; a failure between the insert and the flag update leaves a
// detectable inconsistency (vote row without hasVoted), never a vote that
// was reported successful but not stored.
func (h *VoteHandler) commitVote(ctx context.Context, req models.SubmitVoteRequest, extraMeta models.Metadata) (models.Vote, error) {
	candidateID := h.resolveCandidate(ctx, req.CandidateID)

	var deviceID *string
	if req.DeviceID != "" {
		if device, err := h.store.GetDeviceByDeviceID(ctx, req.DeviceID); err == nil {
			deviceID = &device.ID
		}
	}

	var ts time.Time
	if req.Timestamp > 0 {
		ts = time.Unix(req.Timestamp, 0).UTC()
	}

	vote, err := h.store.CreateVote(ctx, storage.NewVote{
		VoterID:         req.VoterID,
		CandidateID:     candidateID,
		DeviceID:        deviceID,
		FingerprintHash: req.FingerprintHash,
		Confidence:      req.Confidence,
		SignalStrength:  req.SignalStrength,
		Timestamp:       ts,
		Verified:        true,
	})
	if err != nil {
		return models.Vote{}, err
	}

	if err := h.store.SetVoterVoted(ctx, req.VoterID, true); err != nil {
		slog.Error("vote stored but voter flag not updated", "error", err, "voter_id", req.VoterID)
	}
	if req.DeviceID != "" {
		if err := h.store.UpdateDeviceSync(ctx, req.DeviceID); err != nil {
			slog.Warn("failed to update device sync", "error", err, "device_id", req.DeviceID)
		}
	}

	masked := models.MaskVoterID(req.VoterID)
	meta := models.Metadata{"maskedVoterId": masked}
	for k, v := range extraMeta {
		meta[k] = v
	}
	_, err = h.store.CreateActivityLog(ctx, storage.NewActivityLog{
		Type:        models.ActivityVoteCast,
		Description: "Vote cast by voter " + masked,
		DeviceID:    optional(req.DeviceID),
		Metadata:    meta,
	})
	if err != nil {
		slog.Warn("failed to record vote activity", "error", err)
	}

	return vote, nil
}

// resolveCandidate maps the polymorphic candidate reference to an internal
// id. Unresolvable references leave the vote's candidate unset rather than
// failing the submission.
func (h *VoteHandler) resolveCandidate(ctx context.Context, ref string) *string {
	if ref == "" {
		return nil
	}
	if c, err := h.store.GetCandidate(ctx, ref); err == nil {
		return &c.ID
	}

	candidates, err := h.store.GetCandidates(ctx)
	if err != nil {
		slog.Warn("failed to list candidates for resolution", "error", err)
		return nil
	}
	for _, c := range candidates {
		if c.Active && c.Name == ref {
			id := c.ID
			return &id
		}
	}
	return nil
}

func (h *VoteHandler) recordSecurityEvent(ctx context.Context, nl storage.NewSecurityLog) {
	if _, err := h.store.CreateSecurityLog(ctx, nl); err != nil {
		slog.Error("failed to record security event", "error", err, "type", nl.Type)
	}
}

// SyncOffline handles POST /api/esp32/sync-offline-votes. Devices that
// buffered votes while disconnected replay them here; each entry passes the
// existence and duplicate checks and is reported individually, so one bad
// entry never fails the batch.
func (h *VoteHandler) SyncOffline(w http.ResponseWriter, r *http.Request) {
	var req models.OfflineVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Votes) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "votes array is required")
		return
	}

	ctx := r.Context()
	resp := models.OfflineVotesResponse{Results: []models.OfflineVoteResult{}}

	for _, entry := range req.Votes {
		result := h.replayOfflineVote(ctx, entry)
		if result.Success {
			resp.Synced++
		} else {
			resp.Failed++
		}
		resp.Results = append(resp.Results, result)
	}

	slog.Info("offline votes synced", "synced", resp.Synced, "failed", resp.Failed)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

func (h *VoteHandler) replayOfflineVote(ctx context.Context, req models.SubmitVoteRequest) models.OfflineVoteResult {
	result := models.OfflineVoteResult{VoterID: req.VoterID}

	if req.VoterID == "" {
		result.Message = "voterId is required"
		return result
	}

	voter, err := h.store.GetVoterByVoterID(ctx, req.VoterID)
	if errors.Is(err, storage.ErrNotFound) {
		h.recordSecurityEvent(ctx, storage.NewSecurityLog{
			Type:        models.SecurityUnregisteredFingerprint,
			Severity:    models.SeverityMedium,
			DeviceID:    optional(req.DeviceID),
			VoterID:     optional(req.VoterID),
			Description: "Unregistered voter ID " + req.VoterID + " in offline batch",
		})
		result.Message = "Voter not registered"
		return result
	}
	if err != nil {
		result.Message = "Failed to submit vote"
		return result
	}

	if voter.HasVoted {
		h.recordSecurityEvent(ctx, storage.NewSecurityLog{
			Type:        models.SecurityDuplicateAttempt,
			Severity:    models.SeverityHigh,
			DeviceID:    optional(req.DeviceID),
			VoterID:     optional(req.VoterID),
			Description: "Duplicate vote attempt by voter " + req.VoterID,
		})
		result.Message = "Voter has already voted"
		return result
	}

	_, err = h.commitVote(ctx, req, models.Metadata{"offline": true})
	if errors.Is(err, storage.ErrDuplicateVote) {
		result.Message = "Voter has already voted"
		return result
	}
	if err != nil {
		slog.Error("failed to commit offline vote", "error", err, "voter_id", req.VoterID)
		result.Message = "Failed to submit vote"
		return result
	}

	result.Success = true
	return result
}

// Results handles GET /api/votes/results
func (h *VoteHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.VotesByCandidate(r.Context())
	if err != nil {
		slog.Error("failed to fetch vote results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch vote results")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// Logs handles GET /api/votes/logs?limit=N, the dashboard's recent-votes
// feed. Voter ids are masked and candidate/device references resolved to
// display fields.
func (h *VoteHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit := defaultVoteLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ctx := r.Context()
	votes, err := h.store.GetVotes(ctx)
	if err != nil {
		slog.Error("failed to fetch votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch vote logs")
		return
	}
	if len(votes) > limit {
		votes = votes[:limit]
	}

	candidates, err := h.store.GetCandidates(ctx)
	if err != nil {
		slog.Error("failed to fetch candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch vote logs")
		return
	}
	candidateByID := make(map[string]models.Candidate, len(candidates))
	for _, c := range candidates {
		candidateByID[c.ID] = c
	}

	devices, err := h.store.GetDevices(ctx)
	if err != nil {
		slog.Error("failed to fetch devices", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch vote logs")
		return
	}
	deviceByID := make(map[string]models.Device, len(devices))
	for _, d := range devices {
		deviceByID[d.ID] = d
	}

	entries := make([]models.VoteLogEntry, 0, len(votes))
	for _, v := range votes {
		entry := models.VoteLogEntry{
			ID:            v.ID,
			VoterID:       models.MaskVoterID(v.VoterID),
			CandidateName: models.UnknownCandidateName,
			Timestamp:     v.Timestamp,
			Verified:      v.Verified,
		}
		if v.CandidateID != nil {
			if c, ok := candidateByID[*v.CandidateID]; ok {
				entry.CandidateName = c.Name
				entry.CandidateParty = c.Party
			}
		}
		if v.DeviceID != nil {
			if d, ok := deviceByID[*v.DeviceID]; ok {
				entry.DeviceName = d.Name
				entry.DeviceLocation = d.Location
			}
		}
		entries = append(entries, entry)
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}

// optional converts a possibly-empty string to the pointer form used by
// log records.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// TestVote handles POST /api/devices/{deviceId}/test-vote. It casts a
// synthetic vote for the first voter that has not voted yet, exercising
// the same commit path as the live intake, for operational testing.
func (h *VoteHandler) TestVote(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceId")
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deviceId is required")
		return
	}

	ctx := r.Context()
	if _, err := h.store.GetDeviceByDeviceID(ctx, deviceID); errors.Is(err, storage.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not found")
		return
	} else if err != nil {
		slog.Error("failed to look up device", "error", err, "device_id", deviceID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit test vote")
		return
	}

	voters, err := h.store.GetVoters(ctx)
	if err != nil {
		slog.Error("failed to fetch voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit test vote")
		return
	}

	var pending *models.Voter
	for i := range voters {
		if !voters[i].HasVoted {
			pending = &voters[i]
			break
		}
	}
	if pending == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "No pending voters available for a test vote")
		return
	}

	candidates, err := h.store.GetCandidates(ctx)
	if err != nil {
		slog.Error("failed to fetch candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit test vote")
		return
	}
	candidateRef := ""
	if len(candidates) > 0 {
		candidateRef = candidates[0].ID
	}

	vote, err := h.commitVote(ctx, models.SubmitVoteRequest{
		VoterID:         pending.VoterID,
		CandidateID:     candidateRef,
		DeviceID:        deviceID,
		FingerprintHash: pending.FingerprintHash,
	}, models.Metadata{"test": true})
	if errors.Is(err, storage.ErrDuplicateVote) {
		middleware.ErrorResponse(w, http.StatusConflict, "Voter has already voted")
		return
	}
	if err != nil {
		slog.Error("failed to commit test vote", "error", err, "voter_id", pending.VoterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit test vote")
		return
	}

	slog.Info("test vote cast", "device_id", deviceID, "vote_id", vote.ID)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVoteResponse{
		Success: true,
		VoteID:  vote.ID,
	})
}
