// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantran-dev/bookden/internal/platform/sec"
)

/*
TestPasswordHashing verifies the bcrypt roundtrip and rejection of wrong
passwords.
*/
func TestPasswordHashing(t *testing.T) {
	password := "correct horse battery staple"

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash is salted; it never equals the input.
	assert.NotEqual(t, password, hash)

	assert.True(t, sec.CheckPasswordHash(password, hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
	assert.False(t, sec.CheckPasswordHash(password, "not-a-bcrypt-hash"))
}

/*
TestPasswordHashing_Salted verifies that hashing the same password twice
produces different digests.
*/
func TestPasswordHashing_Salted(t *testing.T) {
	first, err := sec.HashPassword("same input")
	require.NoError(t, err)
	second, err := sec.HashPassword("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
