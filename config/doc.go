// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package config loads server configuration from the environment with
// optional CLI flag overrides for local development. Secrets must come
// from the environment; there is no flag for the session secret.
package config
