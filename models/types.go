// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// User roles
const (
	RoleSuperAdmin      = "super_admin"
	RoleElectionOfficer = "election_officer"
	RoleObserver        = "observer"
)

// Device status values
const (
	DeviceOnline  = "online"
	DeviceOffline = "offline"
	DeviceWarning = "warning"
)

// Security log types
const (
	SecurityDuplicateAttempt        = "duplicate_attempt"
	SecurityUnregisteredFingerprint = "unregistered_fingerprint"
	SecurityDeviceTampering         = "device_tampering"
	SecurityLoginAttempt            = "login_attempt"
	SecurityLowConfidence           = "low_confidence"
)

// Security log severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Activity log types
const (
	ActivityVoteCast        = "vote_cast"
	ActivityVoterRegistered = "voter_registered"
	ActivityDeviceSync      = "device_sync"
	ActivityUserLogin       = "user_login"
	ActivityUserLogout      = "user_logout"
)

// Metadata is the free-form key-value payload attached to security and
// activity logs. Per-type shape conventions are documented on the log
// constants' call sites; consumers must tolerate missing keys.
type Metadata map[string]any

// Domain types

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // stored hash, never serialized
	Role      string    `json:"role"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}

type Voter struct {
	ID              string    `json:"id"`
	VoterID         string    `json:"voterId"` // external, human-assigned identifier
	FullName        string    `json:"fullName"`
	FingerprintHash string    `json:"fingerprintHash"`
	HasVoted        bool      `json:"hasVoted"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Party    string `json:"party"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

type Device struct {
	ID              string     `json:"id"`
	DeviceID        string     `json:"deviceId"` // external identifier reported by the hardware
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	BatteryLevel    *int       `json:"batteryLevel"`
	LastSync        *time.Time `json:"lastSync"`
	Location        *string    `json:"location,omitempty"`
	FirmwareVersion *string    `json:"firmwareVersion,omitempty"`
}

type Vote struct {
	ID              string    `json:"id"`
	VoterID         string    `json:"voterId"` // external voter identifier, denormalized
	CandidateID     *string   `json:"candidateId"`
	DeviceID        *string   `json:"deviceId"` // internal device row id
	FingerprintHash string    `json:"fingerprintHash"`
	Confidence      *int      `json:"confidence,omitempty"`
	SignalStrength  *int      `json:"signalStrength,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	Verified        bool      `json:"verified"`
}

type SecurityLog struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	DeviceID    *string   `json:"deviceId"`
	VoterID     *string   `json:"voterId"`
	Description string    `json:"description"`
	Metadata    Metadata  `json:"metadata"`
	Resolved    bool      `json:"resolved"`
	Timestamp   time.Time `json:"timestamp"`
}

type ActivityLog struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	UserID      *string   `json:"userId"`
	DeviceID    *string   `json:"deviceId"`
	Metadata    Metadata  `json:"metadata"`
	Timestamp   time.Time `json:"timestamp"`
}

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateVoterRequest struct {
	VoterID         string `json:"voterId"`
	FullName        string `json:"fullName"`
	FingerprintHash string `json:"fingerprintHash"`
}

type BulkVotersRequest struct {
	Voters []CreateVoterRequest `json:"voters"`
}

type CreateCandidateRequest struct {
	Name     string `json:"name"`
	Party    string `json:"party"`
	Position int    `json:"position"`
}

type CreateDeviceRequest struct {
	DeviceID        string  `json:"deviceId"`
	Name            string  `json:"name"`
	Location        *string `json:"location,omitempty"`
	FirmwareVersion *string `json:"firmwareVersion,omitempty"`
}

type DeviceHealthRequest struct {
	BatteryLevel    *int    `json:"batteryLevel"`
	FirmwareVersion *string `json:"firmwareVersion,omitempty"`
	SignalStrength  *int    `json:"signalStrength,omitempty"`
}

// SubmitVoteRequest is the payload sent by biometric voting devices.
// CandidateID is polymorphic: devices that cache the candidate roster by
// name send the display name instead of an internal id.
type SubmitVoteRequest struct {
	VoterID         string `json:"voterId"`
	CandidateID     string `json:"candidateId"`
	DeviceID        string `json:"deviceId"` // external device identifier
	FingerprintHash string `json:"fingerprintHash"`
	Confidence      *int   `json:"confidence,omitempty"`
	SignalStrength  *int   `json:"signalStrength,omitempty"`
	Timestamp       int64  `json:"timestamp,omitempty"` // seconds since epoch; 0 means "now"
}

type OfflineVotesRequest struct {
	Votes []SubmitVoteRequest `json:"votes"`
}

// Response types

type LoginResponse struct {
	User User `json:"user"`
}

type SubmitVoteResponse struct {
	Success bool   `json:"success"`
	VoteID  string `json:"voteId"`
}

type OfflineVoteResult struct {
	VoterID string `json:"voterId"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type OfflineVotesResponse struct {
	Synced  int                 `json:"synced"`
	Failed  int                 `json:"failed"`
	Results []OfflineVoteResult `json:"results"`
}

type DashboardStats struct {
	RegisteredVoters int     `json:"registeredVoters"`
	VotesCast        int     `json:"votesCast"`
	TurnoutRate      float64 `json:"turnoutRate"`
	ActiveDevices    int     `json:"activeDevices"`
	TotalDevices     int     `json:"totalDevices"`
}

type CandidateResult struct {
	CandidateID string    `json:"candidateId"`
	Count       int       `json:"count"`
	Candidate   Candidate `json:"candidate"`
}

// VoteLogEntry is the dashboard projection of a vote: the voter identifier
// is masked and candidate/device references are resolved to display fields.
type VoteLogEntry struct {
	ID             string    `json:"id"`
	VoterID        string    `json:"voterId"` // masked, e.g. "V00***"
	CandidateName  string    `json:"candidateName"`
	CandidateParty string    `json:"candidateParty,omitempty"`
	DeviceName     string    `json:"deviceName,omitempty"`
	DeviceLocation *string   `json:"deviceLocation,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Verified       bool      `json:"verified"`
}

// RosterVoter is the trimmed voter record devices cache locally. Field
// names follow the device firmware's JSON contract.
type RosterVoter struct {
	ID              string `json:"id"`
	FingerprintHash string `json:"fingerprint_hash"`
	HasVoted        bool   `json:"has_voted"`
}

type RosterSyncResponse struct {
	Voters     []RosterVoter `json:"voters"`
	Candidates []string      `json:"candidates"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UnknownCandidateName is the sentinel used in vote-log projections when a
// vote's candidate reference no longer resolves.
const UnknownCandidateName = "Unknown Candidate"

// MaskVoterID returns the first three characters of an external voter
// identifier followed by a mask marker. Full voter ids must never appear in
// activity-log descriptions or dashboard projections.
func MaskVoterID(voterID string) string {
	if len(voterID) > 3 {
		voterID = voterID[:3]
	}
	return voterID + "***"
}
