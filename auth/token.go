// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Sign computes an HMAC-SHA256 signature over value, URL-safe base64
// encoded without padding.
func Sign(value, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(value))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// SignValue returns "value.signature" for storage in a cookie.
// The value must not contain a '.' character.
func SignValue(value, secret string) string {
	return value + "." + Sign(value, secret)
}

// VerifySignedValue splits "value.signature", recomputes the signature and
// compares in constant time. Returns the inner value and whether it was
// authentic.
func VerifySignedValue(signed, secret string) (string, bool) {
	value, sig, found := strings.Cut(signed, ".")
	if !found || value == "" {
		return "", false
	}
	expected := Sign(value, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return value, true
}
