// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableden/fableden/internal/bestiary"
	"github.com/fableden/fableden/pkg/errutil"
)

var monsterRowColumns = []string{"id", "name", "type", "challenge_rating", "hit_points", "armor_class"}

func TestMonsterRepository_List(t *testing.T) {
	t.Run("returns catalog ordered by name", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		goblinID := ulid.Make()
		ogreID := ulid.Make()
		rows := pgxmock.NewRows(monsterRowColumns).
			AddRow(goblinID.String(), "Goblin", "humanoid", 0.25, 7, 15).
			AddRow(ogreID.String(), "Ogre", "giant", 2.0, 59, 11)
		mock.ExpectQuery(`FROM monsters\s+ORDER BY name`).WillReturnRows(rows)

		repo := NewMonsterRepository(mock)
		got, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Goblin", got[0].Name)
		assert.InDelta(t, 0.25, got[0].ChallengeRating, 0.001)
		assert.Equal(t, "Ogre", got[1].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty catalog yields empty slice", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM monsters`).WillReturnRows(pgxmock.NewRows(monsterRowColumns))

		repo := NewMonsterRepository(mock)
		got, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM monsters`).WillReturnError(errors.New("connection refused"))

		repo := NewMonsterRepository(mock)
		got, err := repo.List(context.Background())
		require.Error(t, err)
		assert.Nil(t, got)
		errutil.AssertErrorCode(t, err, "MONSTER_LIST_FAILED")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMonsterRepository_GetByID(t *testing.T) {
	id := ulid.Make()

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows(monsterRowColumns).
			AddRow(id.String(), "Goblin", "humanoid", 0.25, 7, 15)
		mock.ExpectQuery(`FROM monsters WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(rows)

		repo := NewMonsterRepository(mock)
		got, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Goblin", got.Name)
		assert.Equal(t, 7, got.HitPoints)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found maps to sentinel", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM monsters WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(monsterRowColumns))

		repo := NewMonsterRepository(mock)
		got, err := repo.GetByID(context.Background(), id)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, bestiary.ErrNotFound)
		errutil.AssertErrorCode(t, err, "MONSTER_NOT_FOUND")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
