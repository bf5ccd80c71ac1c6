// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/securevote/securevote/models"
)

// MemStore is an in-memory Store used in development and tests. A single
// mutex serializes every operation, which also makes the check-then-insert
// vote commit atomic within one process.
type MemStore struct {
	mu sync.Mutex

	users      map[string]models.User
	voters     map[string]models.Voter
	candidates map[string]models.Candidate
	devices    map[string]models.Device
	votes      map[string]models.Vote
	secLogs    map[string]models.SecurityLog
	actLogs    map[string]models.ActivityLog

	// insertion sequence per vote/log id, for stable newest-first ordering
	seq     map[string]int
	nextSeq int
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:      make(map[string]models.User),
		voters:     make(map[string]models.Voter),
		candidates: make(map[string]models.Candidate),
		devices:    make(map[string]models.Device),
		votes:      make(map[string]models.Vote),
		secLogs:    make(map[string]models.SecurityLog),
		actLogs:    make(map[string]models.ActivityLog),
		seq:        make(map[string]int),
	}
}

func (s *MemStore) nextID() string { return uuid.NewString() }

func (s *MemStore) track(id string) {
	s.nextSeq++
	s.seq[id] = s.nextSeq
}

// Users

func (s *MemStore) GetUser(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemStore) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemStore) CreateUser(_ context.Context, nu NewUser) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == nu.Username {
			return models.User{}, ErrDuplicateUser
		}
	}
	role := nu.Role
	if role == "" {
		role = models.RoleObserver
	}
	u := models.User{
		ID:        s.nextID(),
		Username:  nu.Username,
		Password:  nu.Password,
		Role:      role,
		FullName:  nu.FullName,
		CreatedAt: time.Now(),
	}
	s.users[u.ID] = u
	return u, nil
}

// Voters

func (s *MemStore) GetVoters(_ context.Context) ([]models.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voters := make([]models.Voter, 0, len(s.voters))
	for _, v := range s.voters {
		voters = append(voters, v)
	}
	sort.Slice(voters, func(i, j int) bool { return s.seq[voters[i].ID] < s.seq[voters[j].ID] })
	return voters, nil
}

func (s *MemStore) GetVoterByVoterID(_ context.Context, voterID string) (models.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voters {
		if v.VoterID == voterID {
			return v, nil
		}
	}
	return models.Voter{}, ErrNotFound
}

func (s *MemStore) CreateVoter(_ context.Context, nv NewVoter) (models.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createVoterLocked(nv)
}

func (s *MemStore) createVoterLocked(nv NewVoter) (models.Voter, error) {
	for _, v := range s.voters {
		if v.VoterID == nv.VoterID {
			return models.Voter{}, ErrDuplicateVoter
		}
	}
	v := models.Voter{
		ID:              s.nextID(),
		VoterID:         nv.VoterID,
		FullName:        nv.FullName,
		FingerprintHash: nv.FingerprintHash,
		HasVoted:        false,
		CreatedAt:       time.Now(),
	}
	s.voters[v.ID] = v
	s.track(v.ID)
	return v, nil
}

func (s *MemStore) CreateVoters(_ context.Context, nvs []NewVoter) ([]models.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reject the whole batch before inserting anything.
	seen := make(map[string]bool, len(nvs))
	for _, nv := range nvs {
		if seen[nv.VoterID] {
			return nil, ErrDuplicateVoter
		}
		seen[nv.VoterID] = true
		for _, v := range s.voters {
			if v.VoterID == nv.VoterID {
				return nil, ErrDuplicateVoter
			}
		}
	}

	voters := make([]models.Voter, 0, len(nvs))
	for _, nv := range nvs {
		v, err := s.createVoterLocked(nv)
		if err != nil {
			return nil, err
		}
		voters = append(voters, v)
	}
	return voters, nil
}

func (s *MemStore) SetVoterVoted(_ context.Context, voterID string, hasVoted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, v := range s.voters {
		if v.VoterID == voterID {
			v.HasVoted = hasVoted
			s.voters[id] = v
			return nil
		}
	}
	return ErrNotFound
}

// Candidates

func (s *MemStore) GetCandidates(_ context.Context) ([]models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates := make([]models.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Position < candidates[j].Position })
	return candidates, nil
}

func (s *MemStore) GetCandidate(_ context.Context, id string) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return models.Candidate{}, ErrNotFound
	}
	return c, nil
}

func (s *MemStore) CreateCandidate(_ context.Context, nc NewCandidate) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	position := nc.Position
	if position == 0 {
		position = len(s.candidates) + 1
	}
	c := models.Candidate{
		ID:       s.nextID(),
		Name:     nc.Name,
		Party:    nc.Party,
		Position: position,
		Active:   true,
	}
	s.candidates[c.ID] = c
	return c, nil
}

// Devices

func (s *MemStore) GetDevices(_ context.Context) ([]models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	devices := make([]models.Device, 0, len(s.devices))
	for _, d := range s.devices {
		devices = append(devices, d)
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].DeviceID < devices[j].DeviceID })
	return devices, nil
}

func (s *MemStore) GetDeviceByDeviceID(_ context.Context, deviceID string) (models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.devices {
		if d.DeviceID == deviceID {
			return d, nil
		}
	}
	return models.Device{}, ErrNotFound
}

func (s *MemStore) CreateDevice(_ context.Context, nd NewDevice) (models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.devices {
		if d.DeviceID == nd.DeviceID {
			return models.Device{}, ErrDuplicateDevice
		}
	}
	status := nd.Status
	if status == "" {
		status = models.DeviceOffline
	}
	now := time.Now()
	d := models.Device{
		ID:              s.nextID(),
		DeviceID:        nd.DeviceID,
		Name:            nd.Name,
		Status:          status,
		BatteryLevel:    nd.BatteryLevel,
		LastSync:        &now,
		Location:        nd.Location,
		FirmwareVersion: nd.FirmwareVersion,
	}
	s.devices[d.ID] = d
	return d, nil
}

func (s *MemStore) UpdateDeviceStatus(_ context.Context, deviceID, status string, batteryLevel *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.devices {
		if d.DeviceID == deviceID {
			d.Status = status
			if batteryLevel != nil {
				d.BatteryLevel = batteryLevel
			}
			s.devices[id] = d
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) UpdateDeviceSync(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.devices {
		if d.DeviceID == deviceID {
			now := time.Now()
			d.LastSync = &now
			s.devices[id] = d
			return nil
		}
	}
	return ErrNotFound
}

// Votes

func (s *MemStore) GetVotes(_ context.Context) ([]models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	votes := make([]models.Vote, 0, len(s.votes))
	for _, v := range s.votes {
		votes = append(votes, v)
	}
	sort.Slice(votes, func(i, j int) bool {
		if !votes[i].Timestamp.Equal(votes[j].Timestamp) {
			return votes[i].Timestamp.After(votes[j].Timestamp)
		}
		return s.seq[votes[i].ID] > s.seq[votes[j].ID]
	})
	return votes, nil
}

func (s *MemStore) CreateVote(_ context.Context, nv NewVote) (models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.votes {
		if v.VoterID == nv.VoterID {
			return models.Vote{}, ErrDuplicateVote
		}
	}
	ts := nv.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	v := models.Vote{
		ID:              s.nextID(),
		VoterID:         nv.VoterID,
		CandidateID:     nv.CandidateID,
		DeviceID:        nv.DeviceID,
		FingerprintHash: nv.FingerprintHash,
		Confidence:      nv.Confidence,
		SignalStrength:  nv.SignalStrength,
		Timestamp:       ts,
		Verified:        nv.Verified,
	}
	s.votes[v.ID] = v
	s.track(v.ID)
	return v, nil
}

func (s *MemStore) VotesByCandidate(_ context.Context) ([]models.CandidateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, v := range s.votes {
		if v.CandidateID != nil {
			counts[*v.CandidateID]++
		}
	}

	// Orphaned candidate references are dropped, not zero-padded.
	results := make([]models.CandidateResult, 0, len(counts))
	for candidateID, count := range counts {
		c, ok := s.candidates[candidateID]
		if !ok {
			continue
		}
		results = append(results, models.CandidateResult{
			CandidateID: candidateID,
			Count:       count,
			Candidate:   c,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		return results[i].Candidate.Position < results[j].Candidate.Position
	})
	return results, nil
}

// Security logs

func (s *MemStore) GetSecurityLogs(_ context.Context) ([]models.SecurityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]models.SecurityLog, 0, len(s.secLogs))
	for _, l := range s.secLogs {
		logs = append(logs, l)
	}
	sort.Slice(logs, func(i, j int) bool { return s.seq[logs[i].ID] > s.seq[logs[j].ID] })
	return logs, nil
}

func (s *MemStore) CreateSecurityLog(_ context.Context, nl NewSecurityLog) (models.SecurityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	severity := nl.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	l := models.SecurityLog{
		ID:          s.nextID(),
		Type:        nl.Type,
		Severity:    severity,
		DeviceID:    nl.DeviceID,
		VoterID:     nl.VoterID,
		Description: nl.Description,
		Metadata:    nl.Metadata,
		Resolved:    false,
		Timestamp:   time.Now(),
	}
	s.secLogs[l.ID] = l
	s.track(l.ID)
	return l, nil
}

func (s *MemStore) ResolveSecurityLog(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.secLogs[id]
	if !ok {
		return ErrNotFound
	}
	l.Resolved = true
	s.secLogs[id] = l
	return nil
}

// Activity logs

func (s *MemStore) GetActivityLogs(_ context.Context, limit int) ([]models.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]models.ActivityLog, 0, len(s.actLogs))
	for _, l := range s.actLogs {
		logs = append(logs, l)
	}
	sort.Slice(logs, func(i, j int) bool { return s.seq[logs[i].ID] > s.seq[logs[j].ID] })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (s *MemStore) CreateActivityLog(_ context.Context, nl NewActivityLog) (models.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := models.ActivityLog{
		ID:          s.nextID(),
		Type:        nl.Type,
		Description: nl.Description,
		UserID:      nl.UserID,
		DeviceID:    nl.DeviceID,
		Metadata:    nl.Metadata,
		Timestamp:   time.Now(),
	}
	s.actLogs[l.ID] = l
	s.track(l.ID)
	return l, nil
}

// Dashboard

func (s *MemStore) DashboardStats(_ context.Context) (models.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.DashboardStats{
		RegisteredVoters: len(s.voters),
		VotesCast:        len(s.votes),
		TotalDevices:     len(s.devices),
	}
	if stats.RegisteredVoters > 0 {
		stats.TurnoutRate = float64(stats.VotesCast) / float64(stats.RegisteredVoters) * 100
	}
	for _, d := range s.devices {
		if d.Status == models.DeviceOnline {
			stats.ActiveDevices++
		}
	}
	return stats, nil
}
