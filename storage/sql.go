// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/securevote/securevote/models"
)

// SQLStore implements Store over database/sql. The SQL is kept portable
// across the postgres (lib/pq) and sqlite (modernc.org/sqlite) drivers:
// $N placeholders, no DB-side defaults, app-assigned UUIDs and timestamps.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// isUniqueViolation matches constraint errors from both supported drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func marshalMetadata(m models.Metadata) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return string(b), nil
}

func unmarshalMetadata(raw sql.NullString) models.Metadata {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var m models.Metadata
	if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
		return nil
	}
	return m
}

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int64)
	return &i
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// Users

func (s *SQLStore) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, password, role, full_name, created_at
		FROM users WHERE id = $1
	`, id))
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, password, role, full_name, created_at
		FROM users WHERE username = $1
	`, username))
}

func (s *SQLStore) scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.FullName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

func (s *SQLStore) CreateUser(ctx context.Context, nu NewUser) (models.User, error) {
	role := nu.Role
	if role == "" {
		role = models.RoleObserver
	}
	u := models.User{
		ID:        uuid.NewString(),
		Username:  nu.Username,
		Password:  nu.Password,
		Role:      role,
		FullName:  nu.FullName,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password, role, full_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Username, u.Password, u.Role, u.FullName, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

// Voters

func (s *SQLStore) GetVoters(ctx context.Context) ([]models.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, voter_id, full_name, fingerprint_hash, has_voted, created_at
		FROM voters ORDER BY created_at, voter_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(&v.ID, &v.VoterID, &v.FullName, &v.FingerprintHash, &v.HasVoted, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

func (s *SQLStore) GetVoterByVoterID(ctx context.Context, voterID string) (models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRowContext(ctx, `
		SELECT id, voter_id, full_name, fingerprint_hash, has_voted, created_at
		FROM voters WHERE voter_id = $1
	`, voterID).Scan(&v.ID, &v.VoterID, &v.FullName, &v.FingerprintHash, &v.HasVoted, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to scan voter: %w", err)
	}
	return v, nil
}

func (s *SQLStore) CreateVoter(ctx context.Context, nv NewVoter) (models.Voter, error) {
	v := models.Voter{
		ID:              uuid.NewString(),
		VoterID:         nv.VoterID,
		FullName:        nv.FullName,
		FingerprintHash: nv.FingerprintHash,
		CreatedAt:       time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO voters (id, voter_id, full_name, fingerprint_hash, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.VoterID, v.FullName, v.FingerprintHash, false, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Voter{}, ErrDuplicateVoter
		}
		return models.Voter{}, fmt.Errorf("failed to insert voter: %w", err)
	}
	return v, nil
}

// CreateVoters inserts a batch inside one transaction: a single duplicate
// rejects the whole import.
func (s *SQLStore) CreateVoters(ctx context.Context, nvs []NewVoter) ([]models.Voter, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	voters := make([]models.Voter, 0, len(nvs))
	for _, nv := range nvs {
		v := models.Voter{
			ID:              uuid.NewString(),
			VoterID:         nv.VoterID,
			FullName:        nv.FullName,
			FingerprintHash: nv.FingerprintHash,
			CreatedAt:       time.Now().UTC(),
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO voters (id, voter_id, full_name, fingerprint_hash, has_voted, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, v.ID, v.VoterID, v.FullName, v.FingerprintHash, false, v.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateVoter
			}
			return nil, fmt.Errorf("failed to insert voter: %w", err)
		}
		voters = append(voters, v)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit voters: %w", err)
	}
	return voters, nil
}

func (s *SQLStore) SetVoterVoted(ctx context.Context, voterID string, hasVoted bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE voters SET has_voted = $1 WHERE voter_id = $2
	`, hasVoted, voterID)
	if err != nil {
		return fmt.Errorf("failed to update voter: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Candidates

func (s *SQLStore) GetCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, party, position, active
		FROM candidates ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Party, &c.Position, &c.Active); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (s *SQLStore) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	var c models.Candidate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, party, position, active FROM candidates WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Party, &c.Position, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{}, ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to scan candidate: %w", err)
	}
	return c, nil
}

func (s *SQLStore) CreateCandidate(ctx context.Context, nc NewCandidate) (models.Candidate, error) {
	position := nc.Position
	if position == 0 {
		var max sql.NullInt64
		if err := s.db.QueryRowContext(ctx, `SELECT MAX(position) FROM candidates`).Scan(&max); err == nil && max.Valid {
			position = int(max.Int64) + 1
		} else {
			position = 1
		}
	}
	c := models.Candidate{
		ID:       uuid.NewString(),
		Name:     nc.Name,
		Party:    nc.Party,
		Position: position,
		Active:   true,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (id, name, party, position, active)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Party, c.Position, c.Active)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to insert candidate: %w", err)
	}
	return c, nil
}

// Devices

func (s *SQLStore) GetDevices(ctx context.Context) ([]models.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, device_id, name, status, battery_level, last_sync, location, firmware_version
		FROM devices ORDER BY device_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	devices := []models.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func scanDevice(rows *sql.Rows) (models.Device, error) {
	var d models.Device
	var battery sql.NullInt64
	var lastSync sql.NullTime
	var location, firmware sql.NullString
	if err := rows.Scan(&d.ID, &d.DeviceID, &d.Name, &d.Status, &battery, &lastSync, &location, &firmware); err != nil {
		return models.Device{}, fmt.Errorf("failed to scan device: %w", err)
	}
	d.BatteryLevel = intPtr(battery)
	d.LastSync = timePtr(lastSync)
	d.Location = strPtr(location)
	d.FirmwareVersion = strPtr(firmware)
	return d, nil
}

func (s *SQLStore) GetDeviceByDeviceID(ctx context.Context, deviceID string) (models.Device, error) {
	var d models.Device
	var battery sql.NullInt64
	var lastSync sql.NullTime
	var location, firmware sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, device_id, name, status, battery_level, last_sync, location, firmware_version
		FROM devices WHERE device_id = $1
	`, deviceID).Scan(&d.ID, &d.DeviceID, &d.Name, &d.Status, &battery, &lastSync, &location, &firmware)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Device{}, ErrNotFound
	}
	if err != nil {
		return models.Device{}, fmt.Errorf("failed to scan device: %w", err)
	}
	d.BatteryLevel = intPtr(battery)
	d.LastSync = timePtr(lastSync)
	d.Location = strPtr(location)
	d.FirmwareVersion = strPtr(firmware)
	return d, nil
}

func (s *SQLStore) CreateDevice(ctx context.Context, nd NewDevice) (models.Device, error) {
	status := nd.Status
	if status == "" {
		status = models.DeviceOffline
	}
	now := time.Now().UTC()
	d := models.Device{
		ID:              uuid.NewString(),
		DeviceID:        nd.DeviceID,
		Name:            nd.Name,
		Status:          status,
		BatteryLevel:    nd.BatteryLevel,
		LastSync:        &now,
		Location:        nd.Location,
		FirmwareVersion: nd.FirmwareVersion,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devices (id, device_id, name, status, battery_level, last_sync, location, firmware_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, d.ID, d.DeviceID, d.Name, d.Status, nullInt(d.BatteryLevel), now, nullStr(d.Location), nullStr(d.FirmwareVersion))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Device{}, ErrDuplicateDevice
		}
		return models.Device{}, fmt.Errorf("failed to insert device: %w", err)
	}
	return d, nil
}

func (s *SQLStore) UpdateDeviceStatus(ctx context.Context, deviceID, status string, batteryLevel *int) error {
	var res sql.Result
	var err error
	if batteryLevel != nil {
		res, err = s.db.ExecContext(ctx, `
			UPDATE devices SET status = $1, battery_level = $2 WHERE device_id = $3
		`, status, *batteryLevel, deviceID)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE devices SET status = $1 WHERE device_id = $2
		`, status, deviceID)
	}
	if err != nil {
		return fmt.Errorf("failed to update device status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) UpdateDeviceSync(ctx context.Context, deviceID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE devices SET last_sync = $1 WHERE device_id = $2
	`, time.Now().UTC(), deviceID)
	if err != nil {
		return fmt.Errorf("failed to update device sync: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Votes

func (s *SQLStore) GetVotes(ctx context.Context) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, voter_id, candidate_id, device_id, fingerprint_hash,
		       confidence, signal_strength, timestamp, verified
		FROM votes ORDER BY timestamp DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		var candidateID, deviceID sql.NullString
		var confidence, signal sql.NullInt64
		if err := rows.Scan(&v.ID, &v.VoterID, &candidateID, &deviceID, &v.FingerprintHash,
			&confidence, &signal, &v.Timestamp, &v.Verified); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.CandidateID = strPtr(candidateID)
		v.DeviceID = strPtr(deviceID)
		v.Confidence = intPtr(confidence)
		v.SignalStrength = intPtr(signal)
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// CreateVote relies on the UNIQUE index on votes.voter_id: two concurrent
// submissions for the same voter can both pass the duplicate check, but
// only one insert survives. The loser gets ErrDuplicateVote and takes the
// normal duplicate rejection path.
func (s *SQLStore) CreateVote(ctx context.Context, nv NewVote) (models.Vote, error) {
	ts := nv.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	v := models.Vote{
		ID:              uuid.NewString(),
		VoterID:         nv.VoterID,
		CandidateID:     nv.CandidateID,
		DeviceID:        nv.DeviceID,
		FingerprintHash: nv.FingerprintHash,
		Confidence:      nv.Confidence,
		SignalStrength:  nv.SignalStrength,
		Timestamp:       ts,
		Verified:        nv.Verified,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO votes (id, voter_id, candidate_id, device_id, fingerprint_hash,
		                   confidence, signal_strength, timestamp, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, v.ID, v.VoterID, nullStr(v.CandidateID), nullStr(v.DeviceID), v.FingerprintHash,
		nullInt(v.Confidence), nullInt(v.SignalStrength), v.Timestamp, v.Verified)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Vote{}, ErrDuplicateVote
		}
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}
	return v, nil
}

func (s *SQLStore) VotesByCandidate(ctx context.Context) ([]models.CandidateResult, error) {
	// INNER JOIN drops votes whose candidate reference no longer resolves.
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.party, c.position, c.active, COUNT(v.id)
		FROM votes v
		JOIN candidates c ON v.candidate_id = c.id
		GROUP BY c.id, c.name, c.party, c.position, c.active
		ORDER BY COUNT(v.id) DESC, c.position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote results: %w", err)
	}
	defer rows.Close()

	results := []models.CandidateResult{}
	for rows.Next() {
		var r models.CandidateResult
		if err := rows.Scan(&r.Candidate.ID, &r.Candidate.Name, &r.Candidate.Party,
			&r.Candidate.Position, &r.Candidate.Active, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan vote result: %w", err)
		}
		r.CandidateID = r.Candidate.ID
		results = append(results, r)
	}
	return results, rows.Err()
}

// Security logs

func (s *SQLStore) GetSecurityLogs(ctx context.Context) ([]models.SecurityLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, severity, device_id, voter_id, description, metadata, resolved, timestamp
		FROM security_logs ORDER BY timestamp DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query security logs: %w", err)
	}
	defer rows.Close()

	logs := []models.SecurityLog{}
	for rows.Next() {
		var l models.SecurityLog
		var deviceID, voterID, metadata sql.NullString
		if err := rows.Scan(&l.ID, &l.Type, &l.Severity, &deviceID, &voterID,
			&l.Description, &metadata, &l.Resolved, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan security log: %w", err)
		}
		l.DeviceID = strPtr(deviceID)
		l.VoterID = strPtr(voterID)
		l.Metadata = unmarshalMetadata(metadata)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *SQLStore) CreateSecurityLog(ctx context.Context, nl NewSecurityLog) (models.SecurityLog, error) {
	severity := nl.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	l := models.SecurityLog{
		ID:          uuid.NewString(),
		Type:        nl.Type,
		Severity:    severity,
		DeviceID:    nl.DeviceID,
		VoterID:     nl.VoterID,
		Description: nl.Description,
		Metadata:    nl.Metadata,
		Timestamp:   time.Now().UTC(),
	}
	metadata, err := marshalMetadata(l.Metadata)
	if err != nil {
		return models.SecurityLog{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO security_logs (id, type, severity, device_id, voter_id, description, metadata, resolved, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, l.ID, l.Type, l.Severity, nullStr(l.DeviceID), nullStr(l.VoterID), l.Description, metadata, false, l.Timestamp)
	if err != nil {
		return models.SecurityLog{}, fmt.Errorf("failed to insert security log: %w", err)
	}
	return l, nil
}

// ResolveSecurityLog is idempotent: resolving an already-resolved entry
// succeeds without changing state.
func (s *SQLStore) ResolveSecurityLog(ctx context.Context, id string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM security_logs WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to query security log: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE security_logs SET resolved = $1 WHERE id = $2
	`, true, id)
	if err != nil {
		return fmt.Errorf("failed to resolve security log: %w", err)
	}
	return nil
}

// Activity logs

func (s *SQLStore) GetActivityLogs(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, description, user_id, device_id, metadata, timestamp
		FROM activity_logs ORDER BY timestamp DESC, id LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var l models.ActivityLog
		var userID, deviceID, metadata sql.NullString
		if err := rows.Scan(&l.ID, &l.Type, &l.Description, &userID, &deviceID, &metadata, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		l.UserID = strPtr(userID)
		l.DeviceID = strPtr(deviceID)
		l.Metadata = unmarshalMetadata(metadata)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *SQLStore) CreateActivityLog(ctx context.Context, nl NewActivityLog) (models.ActivityLog, error) {
	l := models.ActivityLog{
		ID:          uuid.NewString(),
		Type:        nl.Type,
		Description: nl.Description,
		UserID:      nl.UserID,
		DeviceID:    nl.DeviceID,
		Metadata:    nl.Metadata,
		Timestamp:   time.Now().UTC(),
	}
	metadata, err := marshalMetadata(l.Metadata)
	if err != nil {
		return models.ActivityLog{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, type, description, user_id, device_id, metadata, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.ID, l.Type, l.Description, nullStr(l.UserID), nullStr(l.DeviceID), metadata, l.Timestamp)
	if err != nil {
		return models.ActivityLog{}, fmt.Errorf("failed to insert activity log: %w", err)
	}
	return l, nil
}

// Dashboard

func (s *SQLStore) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&stats.RegisteredVoters); err != nil {
		return stats, fmt.Errorf("failed to count voters: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&stats.VotesCast); err != nil {
		return stats, fmt.Errorf("failed to count votes: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM devices`).Scan(&stats.TotalDevices); err != nil {
		return stats, fmt.Errorf("failed to count devices: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM devices WHERE status = $1
	`, models.DeviceOnline).Scan(&stats.ActiveDevices); err != nil {
		return stats, fmt.Errorf("failed to count online devices: %w", err)
	}

	if stats.RegisteredVoters > 0 {
		stats.TurnoutRate = float64(stats.VotesCast) / float64(stats.RegisteredVoters) * 100
	}
	return stats, nil
}
