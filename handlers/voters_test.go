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

func TestCreateVoter(t *testing.T) {
	store := testutil.NewStore(t)
	handler := NewVoterHandler(store)

	req := testutil.MakeRequest("POST", "/api/voters", models.CreateVoterRequest{
		VoterID:         "V001",
		FullName:        "Jane Doe",
		FingerprintHash: "hash123",
	}, nil)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var voter models.Voter
	testutil.AssertJSON(t, w, &voter)
	if voter.VoterID != "V001" || voter.HasVoted {
		t.Errorf("Unexpected voter: %+v", voter)
	}

	activity, _ := store.GetActivityLogs(context.Background(), 10)
	if len(activity) != 1 || activity[0].Type != models.ActivityVoterRegistered {
		t.Error("Expected a voter_registered activity entry")
	}
}

func TestCreateVoter_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		request models.CreateVoterRequest
	}{
		{"missing voterId", models.CreateVoterRequest{FullName: "Jane", FingerprintHash: "h"}},
		{"missing fullName", models.CreateVoterRequest{VoterID: "V001", FingerprintHash: "h"}},
		{"missing fingerprintHash", models.CreateVoterRequest{VoterID: "V001", FullName: "Jane"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := testutil.NewStore(t)
			handler := NewVoterHandler(store)

			req := testutil.MakeRequest("POST", "/api/voters", tc.request, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestCreateVoter_Duplicate(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateTestVoter(t, store, "V001", "Jane Doe", "hash123")
	handler := NewVoterHandler(store)

	req := testutil.MakeRequest("POST", "/api/voters", models.CreateVoterRequest{
		VoterID:         "V001",
		FullName:        "Someone Else",
		FingerprintHash: "other",
	}, nil)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestBulkVoters(t *testing.T) {
	store := testutil.NewStore(t)
	handler := NewVoterHandler(store)

	req := testutil.MakeRequest("POST", "/api/voters/bulk", models.BulkVotersRequest{
		Voters: []models.CreateVoterRequest{
			{VoterID: "V001", FullName: "A", FingerprintHash: "h1"},
			{VoterID: "V002", FullName: "B", FingerprintHash: "h2"},
			{VoterID: "V003", FullName: "C", FingerprintHash: "h3"},
		},
	}, nil)
	w := httptest.NewRecorder()

	handler.Bulk(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var voters []models.Voter
	testutil.AssertJSON(t, w, &voters)
	if len(voters) != 3 {
		t.Fatalf("Expected 3 voters, got %d", len(voters))
	}

	// One activity entry for the whole import, not one per voter
	activity, _ := store.GetActivityLogs(context.Background(), 10)
	if len(activity) != 1 {
		t.Errorf("Expected 1 activity entry, got %d", len(activity))
	}
}

func TestBulkVoters_RejectedOnDuplicate(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateTestVoter(t, store, "V002", "Existing", "h")
	handler := NewVoterHandler(store)

	req := testutil.MakeRequest("POST", "/api/voters/bulk", models.BulkVotersRequest{
		Voters: []models.CreateVoterRequest{
			{VoterID: "V001", FullName: "A", FingerprintHash: "h1"},
			{VoterID: "V002", FullName: "B", FingerprintHash: "h2"},
		},
	}, nil)
	w := httptest.NewRecorder()

	handler.Bulk(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)

	// Nothing from the batch landed
	voters, _ := store.GetVoters(context.Background())
	if len(voters) != 1 {
		t.Errorf("Expected only the pre-existing voter, got %d", len(voters))
	}
}

func TestListVoters(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateTestVoter(t, store, "V001", "Jane Doe", "hash123")
	handler := NewVoterHandler(store)

	req := testutil.MakeRequest("GET", "/api/voters", nil, nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var voters []models.Voter
	testutil.AssertJSON(t, w, &voters)
	if len(voters) != 1 {
		t.Fatalf("Expected 1 voter, got %d", len(voters))
	}
}
