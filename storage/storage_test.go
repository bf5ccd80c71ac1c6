// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/securevote/securevote/db"
	"github.com/securevote/securevote/models"
)

// Both implementations must satisfy the same behavioral contract, so the
// suite runs against each.
func forEachStore(t *testing.T, test func(t *testing.T, store Store)) {
	t.Run("mem", func(t *testing.T) {
		test(t, NewMemStore())
	})
	t.Run("sql", func(t *testing.T) {
		conn, err := sql.Open("sqlite", ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		// A single connection keeps every query on the same in-memory DB.
		conn.SetMaxOpenConns(1)
		require.NoError(t, db.CreateSchema(conn))
		test(t, NewSQLStore(conn))
	})
}

func TestVoterLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		voter, err := store.CreateVoter(ctx, NewVoter{
			VoterID:         "V001",
			FullName:        "Jane Doe",
			FingerprintHash: "hash123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, voter.ID)
		assert.False(t, voter.HasVoted)

		got, err := store.GetVoterByVoterID(ctx, "V001")
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", got.FullName)

		_, err = store.GetVoterByVoterID(ctx, "V999")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.CreateVoter(ctx, NewVoter{
			VoterID:         "V001",
			FullName:        "Someone Else",
			FingerprintHash: "other",
		})
		assert.ErrorIs(t, err, ErrDuplicateVoter)

		require.NoError(t, store.SetVoterVoted(ctx, "V001", true))
		got, err = store.GetVoterByVoterID(ctx, "V001")
		require.NoError(t, err)
		assert.True(t, got.HasVoted)

		assert.ErrorIs(t, store.SetVoterVoted(ctx, "V999", true), ErrNotFound)
	})
}

func TestCreateVoters_AllOrNothing(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		_, err := store.CreateVoter(ctx, NewVoter{VoterID: "V001", FullName: "Jane", FingerprintHash: "h1"})
		require.NoError(t, err)

		// Batch contains an existing id; nothing from it may land
		_, err = store.CreateVoters(ctx, []NewVoter{
			{VoterID: "V002", FullName: "A", FingerprintHash: "h2"},
			{VoterID: "V001", FullName: "B", FingerprintHash: "h3"},
		})
		assert.ErrorIs(t, err, ErrDuplicateVoter)

		voters, err := store.GetVoters(ctx)
		require.NoError(t, err)
		assert.Len(t, voters, 1)

		created, err := store.CreateVoters(ctx, []NewVoter{
			{VoterID: "V002", FullName: "A", FingerprintHash: "h2"},
			{VoterID: "V003", FullName: "B", FingerprintHash: "h3"},
		})
		require.NoError(t, err)
		assert.Len(t, created, 2)
	})
}

func TestCreateVote_DuplicateRejected(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		_, err := store.CreateVote(ctx, NewVote{VoterID: "V001", FingerprintHash: "h1", Verified: true})
		require.NoError(t, err)

		_, err = store.CreateVote(ctx, NewVote{VoterID: "V001", FingerprintHash: "h1", Verified: true})
		assert.ErrorIs(t, err, ErrDuplicateVote)

		votes, err := store.GetVotes(ctx)
		require.NoError(t, err)
		assert.Len(t, votes, 1)
	})
}

func TestCreateVote_DefaultsTimestamp(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		before := time.Now().Add(-time.Minute)
		vote, err := store.CreateVote(ctx, NewVote{VoterID: "V001", FingerprintHash: "h1"})
		require.NoError(t, err)
		assert.True(t, vote.Timestamp.After(before), "zero timestamp becomes now")

		supplied := time.Date(2026, 2, 25, 8, 0, 0, 0, time.UTC)
		vote, err = store.CreateVote(ctx, NewVote{VoterID: "V002", FingerprintHash: "h2", Timestamp: supplied})
		require.NoError(t, err)
		assert.Equal(t, supplied, vote.Timestamp.UTC())
	})
}

func TestVotesByCandidate_DropsOrphans(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		alice, err := store.CreateCandidate(ctx, NewCandidate{Name: "Alice", Party: "AP", Position: 1})
		require.NoError(t, err)
		bob, err := store.CreateCandidate(ctx, NewCandidate{Name: "Bob", Party: "BP", Position: 2})
		require.NoError(t, err)

		orphan := "no-such-candidate"
		for i, cid := range []*string{&alice.ID, &alice.ID, &bob.ID, &orphan, nil} {
			_, err := store.CreateVote(ctx, NewVote{
				VoterID:         "V00" + string(rune('1'+i)),
				CandidateID:     cid,
				FingerprintHash: "h",
			})
			require.NoError(t, err)
		}

		results, err := store.VotesByCandidate(ctx)
		require.NoError(t, err)
		require.Len(t, results, 2, "orphaned and unset candidates are dropped")

		assert.Equal(t, alice.ID, results[0].CandidateID)
		assert.Equal(t, 2, results[0].Count)
		assert.Equal(t, "Alice", results[0].Candidate.Name)
		assert.Equal(t, bob.ID, results[1].CandidateID)
		assert.Equal(t, 1, results[1].Count)
	})
}

func TestDeviceLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		device, err := store.CreateDevice(ctx, NewDevice{DeviceID: "machine_01", Name: "Voting Machine 1"})
		require.NoError(t, err)
		assert.Equal(t, models.DeviceOffline, device.Status, "new devices start offline")

		_, err = store.CreateDevice(ctx, NewDevice{DeviceID: "machine_01", Name: "Duplicate"})
		assert.ErrorIs(t, err, ErrDuplicateDevice)

		battery := 8
		require.NoError(t, store.UpdateDeviceStatus(ctx, "machine_01", models.DeviceWarning, &battery))

		got, err := store.GetDeviceByDeviceID(ctx, "machine_01")
		require.NoError(t, err)
		assert.Equal(t, models.DeviceWarning, got.Status)
		require.NotNil(t, got.BatteryLevel)
		assert.Equal(t, 8, *got.BatteryLevel)

		before := time.Now().Add(-time.Second)
		require.NoError(t, store.UpdateDeviceSync(ctx, "machine_01"))
		got, err = store.GetDeviceByDeviceID(ctx, "machine_01")
		require.NoError(t, err)
		require.NotNil(t, got.LastSync)
		assert.True(t, got.LastSync.After(before))

		assert.ErrorIs(t, store.UpdateDeviceSync(ctx, "machine_99"), ErrNotFound)
		assert.ErrorIs(t, store.UpdateDeviceStatus(ctx, "machine_99", models.DeviceOnline, nil), ErrNotFound)
	})
}

func TestSecurityLogResolution(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		entry, err := store.CreateSecurityLog(ctx, NewSecurityLog{
			Type:        models.SecurityDuplicateAttempt,
			Severity:    models.SeverityHigh,
			Description: "Duplicate vote attempt by voter V001",
			Metadata:    models.Metadata{"attempts": 2},
		})
		require.NoError(t, err)
		assert.False(t, entry.Resolved)

		require.NoError(t, store.ResolveSecurityLog(ctx, entry.ID))
		// Idempotent
		require.NoError(t, store.ResolveSecurityLog(ctx, entry.ID))

		logs, err := store.GetSecurityLogs(ctx)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.True(t, logs[0].Resolved)
		require.NotNil(t, logs[0].Metadata)

		assert.ErrorIs(t, store.ResolveSecurityLog(ctx, "missing"), ErrNotFound)
	})
}

func TestActivityLogLimit(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			_, err := store.CreateActivityLog(ctx, NewActivityLog{
				Type:        models.ActivityVoteCast,
				Description: "Vote cast by voter V00***",
			})
			require.NoError(t, err)
		}

		logs, err := store.GetActivityLogs(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, logs, 3)
	})
}

func TestDashboardStats(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		stats, err := store.DashboardStats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.TurnoutRate, "no voters means zero turnout")

		for _, v := range []NewVoter{
			{VoterID: "V001", FullName: "A", FingerprintHash: "h1"},
			{VoterID: "V002", FullName: "B", FingerprintHash: "h2"},
			{VoterID: "V003", FullName: "C", FingerprintHash: "h3"},
			{VoterID: "V004", FullName: "D", FingerprintHash: "h4"},
		} {
			_, err := store.CreateVoter(ctx, v)
			require.NoError(t, err)
		}
		_, err = store.CreateVote(ctx, NewVote{VoterID: "V001", FingerprintHash: "h1"})
		require.NoError(t, err)

		_, err = store.CreateDevice(ctx, NewDevice{DeviceID: "m1", Name: "M1", Status: models.DeviceOnline})
		require.NoError(t, err)
		_, err = store.CreateDevice(ctx, NewDevice{DeviceID: "m2", Name: "M2"})
		require.NoError(t, err)

		stats, err = store.DashboardStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.RegisteredVoters)
		assert.Equal(t, 1, stats.VotesCast)
		assert.Equal(t, 25.0, stats.TurnoutRate)
		assert.Equal(t, 1, stats.ActiveDevices)
		assert.Equal(t, 2, stats.TotalDevices)
	})
}

func TestUserLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		user, err := store.CreateUser(ctx, NewUser{
			Username: "admin",
			Password: "aa:bb",
			Role:     models.RoleSuperAdmin,
			FullName: "System Administrator",
		})
		require.NoError(t, err)

		_, err = store.CreateUser(ctx, NewUser{Username: "admin", Password: "x", FullName: "Dup"})
		assert.ErrorIs(t, err, ErrDuplicateUser)

		byName, err := store.GetUserByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)

		byID, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "admin", byID.Username)

		_, err = store.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// Two goroutines race the duplicate check; the unique constraint must let
// exactly one vote through.
func TestCreateVote_ConcurrentDuplicate(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		const attempts = 8
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = store.CreateVote(ctx, NewVote{VoterID: "V001", FingerprintHash: "h1"})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrDuplicateVote)
			}
		}
		assert.Equal(t, 1, succeeded)

		votes, err := store.GetVotes(ctx)
		require.NoError(t, err)
		assert.Len(t, votes, 1)
	})
}
