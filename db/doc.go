// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - users: Dashboard accounts and roles
  - voters: Registered voters with fingerprint template hashes
  - candidates: Ballot entries ordered by position
  - devices: Polling machines and their health state
  - votes: One vote per voter, enforced by a UNIQUE constraint
  - security_logs: Anti-fraud and tamper events
  - activity_logs: Operational activity feed
  - sessions: Server-side login sessions

# Portability

The DDL is accepted by both postgres and sqlite: no server-side column
defaults, TEXT primary keys, and JSON metadata stored as TEXT. The
application supplies every value, including timestamps.

# Indexes

Performance indexes on:

  - voters.voter_id (unique)
  - votes.voter_id (unique)
  - votes.candidate_id
  - votes.timestamp
  - security_logs.timestamp
  - activity_logs.timestamp
  - sessions.expires_at
*/
package db
