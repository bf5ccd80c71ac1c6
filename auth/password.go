// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptN    = 16384
	scryptR    = 8
	scryptP    = 1
	saltLength = 16
	keyLength  = 64
)

// HashPassword derives a key from the password with a random salt and
// returns it encoded as "saltHex:keyHex".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword recomputes the derived key with the stored salt and
// compares in constant time. A malformed stored hash fails verification
// rather than erroring.
func VerifyPassword(password, storedHash string) bool {
	salt, key, ok := decodeHash(storedHash)
	if !ok {
		return false
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(key))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(derived, key) == 1
}

// IsPasswordHash reports whether value looks like an encoded password hash.
// Used at seed time to avoid double-hashing already-migrated records.
func IsPasswordHash(value string) bool {
	_, _, ok := decodeHash(value)
	return ok
}

func decodeHash(storedHash string) (salt, key []byte, ok bool) {
	saltHex, keyHex, found := strings.Cut(storedHash, ":")
	if !found || saltHex == "" || keyHex == "" {
		return nil, nil, false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, nil, false
	}
	key, err = hex.DecodeString(keyHex)
	if err != nil {
		return nil, nil, false
	}

	return salt, key, true
}
