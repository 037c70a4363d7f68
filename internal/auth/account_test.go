// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package auth_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableden/fableden/internal/auth"
	"github.com/fableden/fableden/pkg/errutil"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with numbers", "alice42", false},
		{"valid with underscore", "alice_the_bold", false},
		{"valid minimum length", "abc", false},
		{"valid maximum length", "a" + strings.Repeat("b", 29), false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", "a" + strings.Repeat("b", 30), true},
		{"starts with number", "1alice", true},
		{"starts with underscore", "_alice", true},
		{"contains space", "alice smith", true},
		{"contains hyphen", "alice-smith", true},
		{"contains unicode", "alicé", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateUsername(tt.username)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "AUTH_INVALID_USERNAME")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewAccount(t *testing.T) {
	t.Run("creates account with generated ID", func(t *testing.T) {
		account, err := auth.NewAccount("alice", "$2a$12$somehash")
		require.NoError(t, err)

		assert.False(t, account.ID.IsZero())
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, "$2a$12$somehash", account.PasswordHash)
		assert.NotNil(t, account.Characters)
		assert.Empty(t, account.Characters)
		assert.False(t, account.CreatedAt.IsZero())
	})

	t.Run("rejects invalid username", func(t *testing.T) {
		account, err := auth.NewAccount("a", "$2a$12$somehash")
		require.Error(t, err)
		assert.Nil(t, account)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_USERNAME")
	})

	t.Run("rejects empty password hash", func(t *testing.T) {
		account, err := auth.NewAccount("alice", "")
		require.Error(t, err)
		assert.Nil(t, account)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		a, err := auth.NewAccount("alice", "$2a$12$somehash")
		require.NoError(t, err)
		b, err := auth.NewAccount("bob", "$2a$12$somehash")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestAccount_JSONExcludesPasswordHash(t *testing.T) {
	account, err := auth.NewAccount("alice", "$2a$12$secrethash")
	require.NoError(t, err)

	data, err := json.Marshal(account)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secrethash")
	assert.NotContains(t, string(data), "password")
	assert.Contains(t, string(data), `"username":"alice"`)
}
