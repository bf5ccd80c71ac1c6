// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL avoids server-side defaults and stays within the dialect both
// postgres and sqlite accept; the application supplies every column value.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Dashboard users
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('super_admin', 'election_officer', 'observer')),
    full_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Registered voters
CREATE TABLE IF NOT EXISTS voters (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL,
    fingerprint_hash TEXT NOT NULL,
    has_voted BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voters_voter_id ON voters(voter_id);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    party TEXT NOT NULL,
    position INTEGER NOT NULL,
    active BOOLEAN NOT NULL
);

-- Polling devices
CREATE TABLE IF NOT EXISTS devices (
    id TEXT PRIMARY KEY,
    device_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('online', 'offline', 'warning')),
    battery_level INTEGER,
    last_sync TIMESTAMP,
    location TEXT,
    firmware_version TEXT
);

-- Votes. The UNIQUE constraint on voter_id is the backstop for the
-- one-vote-per-voter rule: concurrent submissions race the application
-- duplicate check, but only one insert can win here.
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE,
    candidate_id TEXT,
    device_id TEXT,
    fingerprint_hash TEXT NOT NULL,
    confidence INTEGER,
    signal_strength INTEGER,
    timestamp TIMESTAMP NOT NULL,
    verified BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_votes_candidate_id ON votes(candidate_id);
CREATE INDEX IF NOT EXISTS idx_votes_timestamp ON votes(timestamp);

-- Security events
CREATE TABLE IF NOT EXISTS security_logs (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    severity TEXT NOT NULL CHECK (severity IN ('low', 'medium', 'high', 'critical')),
    device_id TEXT,
    voter_id TEXT,
    description TEXT NOT NULL,
    metadata TEXT,
    resolved BOOLEAN NOT NULL,
    timestamp TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_security_logs_timestamp ON security_logs(timestamp);

-- Activity feed
CREATE TABLE IF NOT EXISTS activity_logs (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    description TEXT NOT NULL,
    user_id TEXT,
    device_id TEXT,
    metadata TEXT,
    timestamp TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_logs_timestamp ON activity_logs(timestamp);

-- Server-side sessions
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`
