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
TestGenerateSecureToken verifies hex encoding length and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	token, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// Hex encoding doubles the byte length.
	assert.Len(t, token, 64)

	other, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

/*
TestHashToken verifies the digest is deterministic and never the raw token.
*/
func TestHashToken(t *testing.T) {
	token := "an-opaque-refresh-token"

	digest := sec.HashToken(token)

	// SHA-256 hex digest is always 64 characters.
	assert.Len(t, digest, 64)
	assert.NotEqual(t, token, digest)
	assert.Equal(t, digest, sec.HashToken(token))
	assert.NotEqual(t, digest, sec.HashToken("another-token"))
}
