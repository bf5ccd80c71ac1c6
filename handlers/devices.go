// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/securevote/securevote/middleware"
	"github.com/securevote/securevote/models"
	"github.com/securevote/securevote/storage"
)

// lowBatteryThreshold is the battery percentage below which a device is
// flagged as warning.
const lowBatteryThreshold = 15

type DeviceHandler struct {
	store storage.Store
}

func NewDeviceHandler(store storage.Store) *DeviceHandler {
	return &DeviceHandler{store: store}
}

// List handles GET /api/devices
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.store.GetDevices(r.Context())
	if err != nil {
		slog.Error("failed to fetch devices", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch devices")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, devices)
}

// Create handles POST /api/devices
func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDeviceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.DeviceID == "" || req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deviceId and name are required")
		return
	}

	device, err := h.store.CreateDevice(r.Context(), storage.NewDevice{
		DeviceID:        req.DeviceID,
		Name:            req.Name,
		Location:        req.Location,
		FirmwareVersion: req.FirmwareVersion,
	})
	if errors.Is(err, storage.ErrDuplicateDevice) {
		middleware.ErrorResponse(w, http.StatusConflict, "Device ID already registered")
		return
	}
	if err != nil {
		slog.Error("failed to create device", "error", err, "device_id", req.DeviceID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create device")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, device)
}

// Sync handles POST /api/devices/{deviceId}/sync, the dashboard's manual
// sync trigger.
func (h *DeviceHandler) Sync(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceId")
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deviceId is required")
		return
	}

	err := h.store.UpdateDeviceSync(r.Context(), deviceID)
	if errors.Is(err, storage.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not found")
		return
	}
	if err != nil {
		slog.Error("failed to sync device", "error", err, "device_id", deviceID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sync device")
		return
	}

	_, err = h.store.CreateActivityLog(r.Context(), storage.NewActivityLog{
		Type:        models.ActivityDeviceSync,
		Description: "Device " + deviceID + " manually synchronized",
		Metadata:    models.Metadata{"deviceId": deviceID},
	})
	if err != nil {
		slog.Warn("failed to record device sync", "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// Health handles POST /api/devices/{deviceId}/health. The reported battery
// level overwrites device status directly: 0 means offline, below the low
// threshold means warning, anything else means online. One low reading
// flips the status immediately.
func (h *DeviceHandler) Health(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceId")
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deviceId is required")
		return
	}

	var req models.DeviceHealthRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.BatteryLevel == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "batteryLevel is required")
		return
	}

	status := models.DeviceOnline
	switch {
	case *req.BatteryLevel == 0:
		status = models.DeviceOffline
	case *req.BatteryLevel < lowBatteryThreshold:
		status = models.DeviceWarning
	}

	err := h.store.UpdateDeviceStatus(r.Context(), deviceID, status, req.BatteryLevel)
	if errors.Is(err, storage.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not found")
		return
	}
	if err != nil {
		slog.Error("failed to update device status", "error", err, "device_id", deviceID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update device health")
		return
	}

	if err := h.store.UpdateDeviceSync(r.Context(), deviceID); err != nil {
		slog.Warn("failed to update device sync", "error", err, "device_id", deviceID)
	}

	telemetry := models.Metadata{"batteryLevel": *req.BatteryLevel}
	if req.FirmwareVersion != nil {
		telemetry["firmwareVersion"] = *req.FirmwareVersion
	}
	if req.SignalStrength != nil {
		telemetry["signalStrength"] = *req.SignalStrength
	}
	_, err = h.store.CreateActivityLog(r.Context(), storage.NewActivityLog{
		Type:        models.ActivityDeviceSync,
		Description: "Device " + deviceID + " reported health",
		Metadata:    telemetry,
	})
	if err != nil {
		slog.Warn("failed to record device health", "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// RosterSync handles GET /api/esp32/sync/{deviceId}. Devices cache the
// voter roster and candidate names locally so they can keep accepting
// votes while disconnected; the snake_case payload matches the device
// firmware's parser.
func (h *DeviceHandler) RosterSync(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceId")
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deviceId is required")
		return
	}

	ctx := r.Context()
	voters, err := h.store.GetVoters(ctx)
	if err != nil {
		slog.Error("failed to fetch voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sync data")
		return
	}
	candidates, err := h.store.GetCandidates(ctx)
	if err != nil {
		slog.Error("failed to fetch candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sync data")
		return
	}

	if err := h.store.UpdateDeviceSync(ctx, deviceID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("failed to update device sync", "error", err, "device_id", deviceID)
	}

	resp := models.RosterSyncResponse{
		Voters:     make([]models.RosterVoter, 0, len(voters)),
		Candidates: make([]string, 0, len(candidates)),
	}
	for _, v := range voters {
		resp.Voters = append(resp.Voters, models.RosterVoter{
			ID:              v.VoterID,
			FingerprintHash: v.FingerprintHash,
			HasVoted:        v.HasVoted,
		})
	}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, c.Name)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
