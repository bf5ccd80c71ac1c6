// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and cookie-signing utilities.

# Password Hashing

Passwords are stored as scrypt-derived keys with a random 16-byte salt,
encoded as "saltHex:keyHex":

	hash, err := auth.HashPassword(plaintext)
	ok := auth.VerifyPassword(plaintext, hash)

Verification recomputes the derived key with the stored salt and compares
in constant time. Malformed stored hashes fail verification instead of
returning an error, so a corrupted user row can never authenticate.

# Signed Cookie Values

Session cookies carry "sessionID.signature" where the signature is
HMAC-SHA256 under the server's session secret:

	cookie := auth.SignValue(sessionID, secret)
	sessionID, ok := auth.VerifySignedValue(cookie, secret)

A tampered or unsigned cookie verifies false and is treated as absent.

# ID Generation

Random hex IDs for tokens:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
