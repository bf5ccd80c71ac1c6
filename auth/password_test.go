// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	salt, key, found := strings.Cut(hash, ":")
	require.True(t, found, "hash must be salt:key")
	assert.Len(t, salt, 32, "16-byte salt hex encoded")
	assert.Len(t, key, 128, "64-byte key hex encoded")
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("hunter2")
	require.NoError(t, err)
	second, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same password must hash differently")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("hunter2", hash))
	assert.False(t, VerifyPassword("hunter3", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	cases := []string{
		"",
		"nocolon",
		"deadbeef:",
		":deadbeef",
		"zzzz:deadbeef",
		"deadbeef:zzzz",
	}
	for _, hash := range cases {
		assert.False(t, VerifyPassword("hunter2", hash), "hash %q", hash)
	}
}

func TestIsPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, IsPasswordHash(hash))
	assert.False(t, IsPasswordHash("hunter2"))
	assert.False(t, IsPasswordHash("salt:key"))
}
