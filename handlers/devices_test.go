// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/securevote/securevote/models"
	"github.com/securevote/securevote/testutil"
)

func TestCreateDevice(t *testing.T) {
	store := testutil.NewStore(t)
	handler := NewDeviceHandler(store)

	location := "Polling Unit 001"
	req := testutil.MakeRequest("POST", "/api/devices", models.CreateDeviceRequest{
		DeviceID: "machine_01",
		Name:     "Voting Machine 1",
		Location: &location,
	}, nil)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var device models.Device
	testutil.AssertJSON(t, w, &device)
	if device.Status != models.DeviceOffline {
		t.Errorf("Expected new device offline, got %s", device.Status)
	}

	// Duplicate registration conflicts
	req = testutil.MakeRequest("POST", "/api/devices", models.CreateDeviceRequest{
		DeviceID: "machine_01",
		Name:     "Duplicate",
	}, nil)
	w = httptest.NewRecorder()

	handler.Create(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestDeviceHealth_StatusTransitions(t *testing.T) {
	testCases := []struct {
		name           string
		batteryLevel   int
		expectedStatus string
	}{
		{"dead battery", 0, models.DeviceOffline},
		{"low battery", 14, models.DeviceWarning},
		{"threshold boundary", 15, models.DeviceOnline},
		{"healthy battery", 86, models.DeviceOnline},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := testutil.NewStore(t)
			testutil.CreateTestDevice(t, store, "machine_01", "Voting Machine 1")
			handler := NewDeviceHandler(store)

			req := testutil.MakeRequest("POST", "/api/devices/machine_01/health", models.DeviceHealthRequest{
				BatteryLevel: intp(tc.batteryLevel),
			}, nil)
			req.SetPathValue("deviceId", "machine_01")
			w := httptest.NewRecorder()

			handler.Health(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			device, err := store.GetDeviceByDeviceID(context.Background(), "machine_01")
			if err != nil {
				t.Fatalf("Failed to fetch device: %v", err)
			}
			if device.Status != tc.expectedStatus {
				t.Errorf("Expected status %s, got %s", tc.expectedStatus, device.Status)
			}
			if device.BatteryLevel == nil || *device.BatteryLevel != tc.batteryLevel {
				t.Errorf("Expected battery level %d recorded", tc.batteryLevel)
			}

			// Telemetry lands in a device_sync activity entry
			activity, _ := store.GetActivityLogs(context.Background(), 10)
			if len(activity) != 1 || activity[0].Type != models.ActivityDeviceSync {
				t.Fatal("Expected a device_sync activity entry")
			}
		})
	}
}

func TestDeviceHealth_UnknownDevice(t *testing.T) {
	store := testutil.NewStore(t)
	handler := NewDeviceHandler(store)

	req := testutil.MakeRequest("POST", "/api/devices/ghost/health", models.DeviceHealthRequest{
		BatteryLevel: intp(50),
	}, nil)
	req.SetPathValue("deviceId", "ghost")
	w := httptest.NewRecorder()

	handler.Health(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeviceSync(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateTestDevice(t, store, "machine_01", "Voting Machine 1")
	handler := NewDeviceHandler(store)

	req := testutil.MakeRequest("POST", "/api/devices/machine_01/sync", nil, nil)
	req.SetPathValue("deviceId", "machine_01")
	w := httptest.NewRecorder()

	handler.Sync(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	activity, _ := store.GetActivityLogs(context.Background(), 10)
	if len(activity) != 1 || activity[0].Type != models.ActivityDeviceSync {
		t.Error("Expected a device_sync activity entry")
	}
}

func TestRosterSync(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateTestDevice(t, store, "machine_01", "Voting Machine 1")
	testutil.CreateTestVoter(t, store, "V001", "Jane Doe", "hash1")
	voted := testutil.CreateTestVoter(t, store, "V002", "John Roe", "hash2")
	if err := store.SetVoterVoted(context.Background(), voted.VoterID, true); err != nil {
		t.Fatalf("Failed to mark voter: %v", err)
	}
	testutil.CreateTestCandidate(t, store, "Alice Example", "AP", 1)
	testutil.CreateTestCandidate(t, store, "Bob Example", "BP", 2)

	handler := NewDeviceHandler(store)
	req := testutil.MakeRequest("GET", "/api/esp32/sync/machine_01", nil, nil)
	req.SetPathValue("deviceId", "machine_01")
	w := httptest.NewRecorder()

	handler.RosterSync(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.RosterSyncResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Voters) != 2 {
		t.Fatalf("Expected 2 roster voters, got %d", len(resp.Voters))
	}
	byID := map[string]models.RosterVoter{}
	for _, v := range resp.Voters {
		byID[v.ID] = v
	}
	if !byID["V002"].HasVoted || byID["V001"].HasVoted {
		t.Error("Expected has_voted flags to carry over")
	}
	if byID["V001"].FingerprintHash != "hash1" {
		t.Error("Expected fingerprint hashes in the roster")
	}

	// Candidates are names only
	if len(resp.Candidates) != 2 || resp.Candidates[0] != "Alice Example" {
		t.Errorf("Unexpected candidates payload: %v", resp.Candidates)
	}

	// Sync timestamp bumped
	device, _ := store.GetDeviceByDeviceID(context.Background(), "machine_01")
	if device.LastSync == nil {
		t.Error("Expected lastSync to be set")
	}
}

func TestListDevices(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateTestDevice(t, store, "machine_02", "Voting Machine 2")
	testutil.CreateTestDevice(t, store, "machine_01", "Voting Machine 1")
	handler := NewDeviceHandler(store)

	req := testutil.MakeRequest("GET", "/api/devices", nil, nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var devices []models.Device
	testutil.AssertJSON(t, w, &devices)
	if len(devices) != 2 {
		t.Fatalf("Expected 2 devices, got %d", len(devices))
	}
	if devices[0].DeviceID != "machine_01" {
		t.Error("Expected devices ordered by device id")
	}
}
