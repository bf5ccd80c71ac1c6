// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/securevote/securevote/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateVote is returned when a vote insert would violate the
	// one-vote-per-voter constraint. Callers must treat it as the
	// duplicate-vote rejection path, not a storage failure.
	ErrDuplicateVote = errors.New("vote already recorded for voter")

	// ErrDuplicateVoter is returned when a voter id is already registered.
	ErrDuplicateVoter = errors.New("voter id already registered")

	// ErrDuplicateDevice is returned when a device id is already registered.
	ErrDuplicateDevice = errors.New("device id already registered")

	// ErrDuplicateUser is returned when a username is already taken.
	ErrDuplicateUser = errors.New("username already taken")
)

// Insert payloads. IDs and timestamps are assigned by the store.

type NewUser struct {
	Username string
	Password string // already hashed
	Role     string
	FullName string
}

type NewVoter struct {
	VoterID         string
	FullName        string
	FingerprintHash string
}

type NewCandidate struct {
	Name     string
	Party    string
	Position int
}

type NewDevice struct {
	DeviceID        string
	Name            string
	Status          string
	BatteryLevel    *int
	Location        *string
	FirmwareVersion *string
}

type NewVote struct {
	VoterID         string // external voter identifier
	CandidateID     *string
	DeviceID        *string // internal device row id
	FingerprintHash string
	Confidence      *int
	SignalStrength  *int
	Timestamp       time.Time
	Verified        bool
}

type NewSecurityLog struct {
	Type        string
	Severity    string
	DeviceID    *string
	VoterID     *string
	Description string
	Metadata    models.Metadata
}

type NewActivityLog struct {
	Type        string
	Description string
	UserID      *string
	DeviceID    *string
	Metadata    models.Metadata
}

// Store is the persistence boundary for the whole application. Handlers
// receive it by injection; nothing holds package-level store state.
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, u NewUser) (models.User, error)

	// Voters
	GetVoters(ctx context.Context) ([]models.Voter, error)
	GetVoterByVoterID(ctx context.Context, voterID string) (models.Voter, error)
	CreateVoter(ctx context.Context, v NewVoter) (models.Voter, error)
	CreateVoters(ctx context.Context, vs []NewVoter) ([]models.Voter, error)
	SetVoterVoted(ctx context.Context, voterID string, hasVoted bool) error

	// Candidates
	GetCandidates(ctx context.Context) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id string) (models.Candidate, error)
	CreateCandidate(ctx context.Context, c NewCandidate) (models.Candidate, error)

	// Devices
	GetDevices(ctx context.Context) ([]models.Device, error)
	GetDeviceByDeviceID(ctx context.Context, deviceID string) (models.Device, error)
	CreateDevice(ctx context.Context, d NewDevice) (models.Device, error)
	UpdateDeviceStatus(ctx context.Context, deviceID, status string, batteryLevel *int) error
	UpdateDeviceSync(ctx context.Context, deviceID string) error

	// Votes
	GetVotes(ctx context.Context) ([]models.Vote, error)
	CreateVote(ctx context.Context, v NewVote) (models.Vote, error)
	VotesByCandidate(ctx context.Context) ([]models.CandidateResult, error)

	// Security logs
	GetSecurityLogs(ctx context.Context) ([]models.SecurityLog, error)
	CreateSecurityLog(ctx context.Context, l NewSecurityLog) (models.SecurityLog, error)
	ResolveSecurityLog(ctx context.Context, id string) error

	// Activity logs
	GetActivityLogs(ctx context.Context, limit int) ([]models.ActivityLog, error)
	CreateActivityLog(ctx context.Context, l NewActivityLog) (models.ActivityLog, error)

	// Dashboard
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}
