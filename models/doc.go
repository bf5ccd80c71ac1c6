// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

Internal data structures mirrored by the relational schema:

  - User: dashboard account with a role and hashed password
  - Voter: registered voter with fingerprint hash and has-voted flag
  - Candidate: ballot entry with party and display position
  - Device: biometric voting device with status and battery telemetry
  - Vote: accepted vote row (at most one per voter)
  - SecurityLog: anti-fraud and auth events with severity and resolved flag
  - ActivityLog: append-only audit trail

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: username, password
  - CreateVoterRequest / BulkVotersRequest: voter registration
  - SubmitVoteRequest: the device-facing vote payload (also used for
    offline batch replay)
  - DeviceHealthRequest: battery/firmware telemetry

# Response Types

  - LoginResponse: password-stripped user projection
  - SubmitVoteResponse: success flag and vote id
  - OfflineVotesResponse: per-item batch replay results
  - DashboardStats, CandidateResult, VoteLogEntry: aggregation payloads
  - RosterSyncResponse: voter roster + candidate names for device caches
  - ErrorResponse: error, message

# Constants

Roles, device statuses, security log types/severities, and activity log
types are string constants; the relational schema CHECK-constrains the
subsets that matter.
*/
package models
