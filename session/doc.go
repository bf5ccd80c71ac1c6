// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session implements server-side sessions keyed by a signed cookie.

A Manager issues sessions on login, resolves them from inbound requests,
and destroys them on logout. The cookie value is "sessionID.hmac" signed
with the server's session secret; anything that fails signature
verification is treated as no session at all.

Sessions live for a fixed 8 hours from issuance. Two stores are provided:

  - MemStore: process-local map, suitable for development and tests
  - DBStore: rows in the application database, survives restarts

Cookie attributes follow the deployment environment: HttpOnly always,
Secure and SameSite=Strict in production, SameSite=Lax otherwise.
*/
package session
