// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the SecureVote API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - AuthHandler: Login, session restore, logout
  - DashboardHandler: Aggregated election statistics
  - VoterHandler: Voter roll management (single and bulk registration)
  - CandidateHandler: Candidate listing and creation
  - DeviceHandler: Voting machine registry, sync, health, roster sync
  - VoteHandler: The vote intake pipeline, offline replay, results, logs
  - LogHandler: Security event and activity feeds

Handlers are created via constructor functions that accept a storage.Store
(and, for auth, a session.Manager):

	voteHandler := handlers.NewVoteHandler(store)

# Vote Intake

POST /api/esp32/vote runs the intake checks in order, each rejection
paired with a security log entry:

 1. Voter must exist (unregistered_fingerprint, medium)
 2. Voter must not have voted (duplicate_attempt, high)
 3. Fingerprint hash must match exactly (unregistered_fingerprint, high)
 4. Reported confidence must clear the threshold (low_confidence, medium)

Accepted votes resolve the candidate reference (id or display name),
insert the vote, flip the voter's hasVoted flag, bump the device sync
time, and append a vote_cast activity entry with a masked voter id.

A storage-level unique constraint on the voter id backs the duplicate
check, so two concurrent submissions for one voter cannot both commit.
*/
package handlers
