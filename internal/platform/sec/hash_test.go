// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcardo/cardo/internal/platform/sec"
)

/*
TestHashPassword verifies hashing and verification round-trip, and that the
hash never echoes the plaintext.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("Str0ngPass!")
	require.NoError(t, err)

	assert.NotEqual(t, "Str0ngPass!", hash)
	assert.NotContains(t, hash, "Str0ngPass!")

	assert.True(t, sec.CheckPasswordHash("Str0ngPass!", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_UniqueSalts verifies two hashes of the same password differ.
*/
func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := sec.HashPassword("Str0ngPass!")
	require.NoError(t, err)
	second, err := sec.HashPassword("Str0ngPass!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash_InvalidHash verifies garbage stored hashes fail closed.
*/
func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("anything", ""))
}
