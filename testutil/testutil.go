// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/securevote/securevote/auth"
	"github.com/securevote/securevote/models"
	"github.com/securevote/securevote/storage"
)

// TestPassword is the plaintext behind every fixture account.
const TestPassword = "correct horse battery staple"

// NewStore returns a fresh in-memory store for a test.
func NewStore(t *testing.T) *storage.MemStore {
	t.Helper()
	return storage.NewMemStore()
}

// CreateTestUser inserts a dashboard account with TestPassword.
func CreateTestUser(t *testing.T, store storage.Store, username, role string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	user, err := store.CreateUser(context.Background(), storage.NewUser{
		Username: username,
		Password: hash,
		Role:     role,
		FullName: "Test " + username,
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestVoter registers a voter with the given external id and
// fingerprint hash.
func CreateTestVoter(t *testing.T, store storage.Store, voterID, fullName, fingerprintHash string) models.Voter {
	t.Helper()

	voter, err := store.CreateVoter(context.Background(), storage.NewVoter{
		VoterID:         voterID,
		FullName:        fullName,
		FingerprintHash: fingerprintHash,
	})
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	return voter
}

// CreateTestCandidate inserts a candidate.
func CreateTestCandidate(t *testing.T, store storage.Store, name, party string, position int) models.Candidate {
	t.Helper()

	candidate, err := store.CreateCandidate(context.Background(), storage.NewCandidate{
		Name:     name,
		Party:    party,
		Position: position,
	})
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return candidate
}

// CreateTestDevice registers a voting machine.
func CreateTestDevice(t *testing.T, store storage.Store, deviceID, name string) models.Device {
	t.Helper()

	device, err := store.CreateDevice(context.Background(), storage.NewDevice{
		DeviceID: deviceID,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("Failed to create test device: %v", err)
	}
	return device
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
