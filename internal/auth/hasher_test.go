// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableden/fableden/internal/auth"
	"github.com/fableden/fableden/pkg/errutil"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	t.Run("produces a bcrypt hash", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$12$"), "hash should carry the fixed cost: %s", hash)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		hash, err := hasher.Hash("")
		require.Error(t, err)
		assert.Empty(t, hash)
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
		errutil.AssertErrorCode(t, err, "AUTH_EMPTY_PASSWORD")
	})

	t.Run("same password yields different hashes", func(t *testing.T) {
		first, err := hasher.Hash("password123")
		require.NoError(t, err)
		second, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.NotEqual(t, first, second, "bcrypt salts every hash")
	})
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		ok, err := hasher.Verify("password123", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		ok, err := hasher.Verify("wrongpassword", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hash", func(t *testing.T) {
		ok, err := hasher.Verify("password123", "not-a-bcrypt-hash")
		require.Error(t, err)
		assert.False(t, ok)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
	})
}
