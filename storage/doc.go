// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storage defines the persistence interface for the election
// dashboard and provides two implementations: SQLStore over database/sql
// (postgres or sqlite) and an in-memory MemStore used in tests.
//
// Duplicate protection lives at this layer: CreateVote reports
// ErrDuplicateVote when a vote already exists for the voter, backed by a
// unique index so concurrent submissions cannot both commit.
package storage
