// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/securevote/securevote/auth"
	"github.com/securevote/securevote/models"
)

// EnsureAdminUser creates the bootstrap super_admin account if no user with
// that username exists yet. A pre-hashed password is stored as-is so that
// deployments can inject the hash directly instead of the plaintext.
func EnsureAdminUser(ctx context.Context, store Store, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := store.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hashed := password
	if !auth.IsPasswordHash(password) {
		var err error
		hashed, err = auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
	}

	_, err := store.CreateUser(ctx, NewUser{
		Username: username,
		Password: hashed,
		Role:     models.RoleSuperAdmin,
		FullName: "System Administrator",
	})
	if errors.Is(err, ErrDuplicateUser) {
		return nil
	}
	return err
}

// SeedDemoData populates demo candidates and polling devices when the
// respective tables are empty. Intended for local development only.
func SeedDemoData(ctx context.Context, store Store) error {
	candidates, err := store.GetCandidates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list candidates: %w", err)
	}
	if len(candidates) == 0 {
		demo := []NewCandidate{
			{Name: "Bola Ahmed Tinubu", Party: "APC", Position: 1},
			{Name: "Atiku Abubakar", Party: "ADC", Position: 2},
			{Name: "Peter Obi", Party: "LP", Position: 3},
		}
		for _, nc := range demo {
			if _, err := store.CreateCandidate(ctx, nc); err != nil {
				return fmt.Errorf("failed to seed candidate %q: %w", nc.Name, err)
			}
		}
	}

	devices, err := store.GetDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	if len(devices) == 0 {
		for i := 1; i <= 5; i++ {
			deviceID := fmt.Sprintf("machine_%02d", i)
			location := fmt.Sprintf("Polling Unit %03d", i)
			_, err := store.CreateDevice(ctx, NewDevice{
				DeviceID: deviceID,
				Name:     fmt.Sprintf("Voting Machine %d", i),
				Status:   models.DeviceOffline,
				Location: &location,
			})
			if err != nil {
				return fmt.Errorf("failed to seed device %q: %w", deviceID, err)
			}
		}
	}
	return nil
}
