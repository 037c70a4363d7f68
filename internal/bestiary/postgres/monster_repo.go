// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

// Package postgres implements bestiary.Repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fableden/fableden/internal/bestiary"
)

// poolIface abstracts pgxpool.Pool so the repository can be tested with pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MonsterRepository implements bestiary.Repository using PostgreSQL.
type MonsterRepository struct {
	pool poolIface
}

// NewMonsterRepository creates a new MonsterRepository.
func NewMonsterRepository(pool poolIface) *MonsterRepository {
	return &MonsterRepository{pool: pool}
}

// List returns the full catalog ordered by name.
func (r *MonsterRepository) List(ctx context.Context) ([]*bestiary.Monster, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, type, challenge_rating, hit_points, armor_class
		FROM monsters
		ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("MONSTER_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	monsters := []*bestiary.Monster{}
	for rows.Next() {
		m, err := scanMonster(rows)
		if err != nil {
			return nil, oops.Code("MONSTER_LIST_FAILED").
				With("operation", "scan monster row").
				Wrap(err)
		}
		monsters = append(monsters, m)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("MONSTER_LIST_FAILED").
			With("operation", "iterate monsters").
			Wrap(err)
	}
	return monsters, nil
}

// GetByID retrieves a monster by ID.
func (r *MonsterRepository) GetByID(ctx context.Context, id ulid.ULID) (*bestiary.Monster, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, type, challenge_rating, hit_points, armor_class
		FROM monsters WHERE id = $1
	`, id.String())

	m, err := scanMonster(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MONSTER_NOT_FOUND").With("id", id.String()).Wrap(bestiary.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("MONSTER_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return m, nil
}

// scanMonster scans a single row into a Monster.
// Callers are responsible for handling pgx.ErrNoRows.
func scanMonster(row pgx.Row) (*bestiary.Monster, error) {
	var (
		m     bestiary.Monster
		idStr string
	)

	err := row.Scan(&idStr, &m.Name, &m.Type, &m.ChallengeRating, &m.HitPoints, &m.ArmorClass)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("MONSTER_SCAN_FAILED").Wrap(err)
	}

	if m.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.Code("MONSTER_INVALID_ID").With("id", idStr).Wrap(err)
	}
	return &m, nil
}

// Compile-time interface check.
var _ bestiary.Repository = (*MonsterRepository)(nil)
