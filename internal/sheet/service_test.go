// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package sheet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fableden/fableden/internal/sheet"
	"github.com/fableden/fableden/pkg/errutil"
)

// --- Mock implementations ---

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, char *sheet.Character) error {
	args := m.Called(ctx, char)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id ulid.ULID) (*sheet.Character, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sheet.Character), args.Error(1)
}

func (m *mockRepository) ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*sheet.Character, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sheet.Character), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Tests ---

func TestNewService_NilRepository(t *testing.T) {
	svc, err := sheet.NewService(nil)
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "characters repository is required")
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	accountID := ulid.Make()

	params := sheet.CreateParams{
		Name:  "Tordek",
		Race:  "Dwarf",
		Class: "Fighter",
		Level: 3,
		MaxHP: 28,
		Abilities: sheet.AbilityScores{
			Strength: 16, Dexterity: 12, Constitution: 14,
			Intelligence: 10, Wisdom: 11, Charisma: 8,
		},
	}

	t.Run("new character starts at full hit points", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		repo.On("Create", ctx, mock.AnythingOfType("*sheet.Character")).Return(nil)

		char, err := svc.Create(ctx, accountID, params)
		require.NoError(t, err)
		assert.Equal(t, accountID, char.AccountID)
		assert.Equal(t, 28, char.MaxHP)
		assert.Equal(t, 28, char.CurrentHP)
		assert.Equal(t, params.Abilities, char.Abilities)
		repo.AssertExpectations(t)
	})

	t.Run("invalid input never reaches the repository", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		bad := params
		bad.Level = 99

		char, err := svc.Create(ctx, accountID, bad)
		require.Error(t, err)
		assert.Nil(t, char)
		errutil.AssertErrorCode(t, err, "CHARACTER_INVALID")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		repo.On("Create", ctx, mock.AnythingOfType("*sheet.Character")).Return(errors.New("connection refused"))

		char, err := svc.Create(ctx, accountID, params)
		require.Error(t, err)
		assert.Nil(t, char)
		errutil.AssertErrorCode(t, err, "CHARACTER_CREATE_FAILED")
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	accountID := ulid.Make()

	t.Run("owner gets the character", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		char := &sheet.Character{ID: ulid.Make(), AccountID: accountID, Name: "Tordek", Level: 3}
		repo.On("GetByID", ctx, char.ID).Return(char, nil)

		got, err := svc.Get(ctx, accountID, char.ID)
		require.NoError(t, err)
		assert.Equal(t, char, got)
	})

	t.Run("someone else's character reads as not found", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		char := &sheet.Character{ID: ulid.Make(), AccountID: ulid.Make(), Name: "Tordek", Level: 3}
		repo.On("GetByID", ctx, char.ID).Return(char, nil)

		got, err := svc.Get(ctx, accountID, char.ID)
		require.Error(t, err)
		assert.Nil(t, got)
		errutil.AssertErrorCode(t, err, "CHARACTER_NOT_FOUND")
	})

	t.Run("missing character", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		id := ulid.Make()
		repo.On("GetByID", ctx, id).Return(nil, sheet.ErrNotFound)

		got, err := svc.Get(ctx, accountID, id)
		require.Error(t, err)
		assert.Nil(t, got)
		errutil.AssertErrorCode(t, err, "CHARACTER_NOT_FOUND")
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	accountID := ulid.Make()

	t.Run("returns characters", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		chars := []*sheet.Character{
			{ID: ulid.Make(), AccountID: accountID, Name: "Tordek"},
		}
		repo.On("ListByAccount", ctx, accountID).Return(chars, nil)

		got, err := svc.List(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, chars, got)
	})

	t.Run("nil from repository becomes empty slice", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		repo.On("ListByAccount", ctx, accountID).Return(nil, nil)

		got, err := svc.List(ctx, accountID)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	accountID := ulid.Make()

	t.Run("owner deletes the character", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		char := &sheet.Character{ID: ulid.Make(), AccountID: accountID, Name: "Tordek", Level: 3}
		repo.On("GetByID", ctx, char.ID).Return(char, nil)
		repo.On("Delete", ctx, char.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, accountID, char.ID))
		repo.AssertExpectations(t)
	})

	t.Run("someone else's character is never deleted", func(t *testing.T) {
		repo := new(mockRepository)
		svc, err := sheet.NewService(repo)
		require.NoError(t, err)

		char := &sheet.Character{ID: ulid.Make(), AccountID: ulid.Make(), Name: "Tordek", Level: 3}
		repo.On("GetByID", ctx, char.ID).Return(char, nil)

		err = svc.Delete(ctx, accountID, char.ID)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CHARACTER_NOT_FOUND")
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
