// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the SecureVote API server.

SecureVote is the backend for an election administration dashboard: it
manages voter rolls, candidates, and biometric voting machines, accepts
vote submissions from those machines, and surfaces turnout, results, and
security events to election officials.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 5000 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): Storage connection string
  - SESSION_SECRET: Cookie signing key (>=32 bytes in production)

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - SESSION_STORE: memory or postgres (default: memory)
  - APP_ENV: development or production
  - ADMIN_USERNAME / ADMIN_PASSWORD: Bootstrap super admin account
  - SEED_DEMO_DATA: Seed demo candidates and devices when empty

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, voters, votes, devices, logs)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Auth, CORS, logging, JSON helpers
  - models: Domain entities and request/response types
  - storage: Store interface with SQL and in-memory implementations
  - session: Signed-cookie server-side sessions
  - auth: Password hashing and HMAC signing
  - db: Schema creation
  - config: Configuration parsing

See package documentation for each component.
*/
package main
