// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

// Package postgres implements sheet.Repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fableden/fableden/internal/sheet"
)

// poolIface abstracts pgxpool.Pool so the repository can be tested with pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const characterColumns = `id, account_id, name, race, class, level, max_hp, current_hp,
	       strength, dexterity, constitution, intelligence, wisdom, charisma,
	       created_at`

// CharacterRepository implements sheet.Repository using PostgreSQL.
type CharacterRepository struct {
	pool poolIface
}

// NewCharacterRepository creates a new CharacterRepository.
func NewCharacterRepository(pool poolIface) *CharacterRepository {
	return &CharacterRepository{pool: pool}
}

// Create persists a new character.
// Callers must validate the character before calling this method.
func (r *CharacterRepository) Create(ctx context.Context, char *sheet.Character) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO characters (id, account_id, name, race, class, level, max_hp, current_hp,
			strength, dexterity, constitution, intelligence, wisdom, charisma, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		char.ID.String(), char.AccountID.String(), char.Name, char.Race, char.Class,
		char.Level, char.MaxHP, char.CurrentHP,
		char.Abilities.Strength, char.Abilities.Dexterity, char.Abilities.Constitution,
		char.Abilities.Intelligence, char.Abilities.Wisdom, char.Abilities.Charisma,
		char.CreatedAt,
	)
	if err != nil {
		return oops.Code("CHARACTER_CREATE_FAILED").With("id", char.ID.String()).Wrap(err)
	}
	return nil
}

// GetByID retrieves a character by ID.
func (r *CharacterRepository) GetByID(ctx context.Context, id ulid.ULID) (*sheet.Character, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE id = $1
	`, id.String())

	char, err := scanCharacter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CHARACTER_NOT_FOUND").With("id", id.String()).Wrap(sheet.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CHARACTER_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return char, nil
}

// ListByAccount returns an account's characters in insertion order.
func (r *CharacterRepository) ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*sheet.Character, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters
		WHERE account_id = $1
		ORDER BY created_at, id
	`, accountID.String())
	if err != nil {
		return nil, oops.Code("CHARACTER_LIST_FAILED").
			With("account_id", accountID.String()).
			Wrap(err)
	}
	defer rows.Close()

	characters := []*sheet.Character{}
	for rows.Next() {
		char, err := scanCharacter(rows)
		if err != nil {
			return nil, oops.Code("CHARACTER_LIST_FAILED").
				With("operation", "scan character row").
				With("account_id", accountID.String()).
				Wrap(err)
		}
		characters = append(characters, char)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CHARACTER_LIST_FAILED").
			With("operation", "iterate characters").
			With("account_id", accountID.String()).
			Wrap(err)
	}
	return characters, nil
}

// Delete removes a character by ID.
func (r *CharacterRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("CHARACTER_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CHARACTER_NOT_FOUND").With("id", id.String()).Wrap(sheet.ErrNotFound)
	}
	return nil
}

// scanCharacter scans a single row into a Character.
// Callers are responsible for handling pgx.ErrNoRows.
func scanCharacter(row pgx.Row) (*sheet.Character, error) {
	var (
		c             sheet.Character
		idStr, accStr string
	)

	err := row.Scan(
		&idStr, &accStr, &c.Name, &c.Race, &c.Class, &c.Level,
		&c.MaxHP, &c.CurrentHP,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("CHARACTER_SCAN_FAILED").Wrap(err)
	}

	if c.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.Code("CHARACTER_INVALID_ID").With("id", idStr).Wrap(err)
	}
	if c.AccountID, err = ulid.Parse(accStr); err != nil {
		return nil, oops.Code("CHARACTER_INVALID_ACCOUNT_ID").With("account_id", accStr).Wrap(err)
	}
	return &c, nil
}

// Compile-time interface check.
var _ sheet.Repository = (*CharacterRepository)(nil)
