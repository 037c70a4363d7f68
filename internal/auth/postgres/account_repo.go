// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

// Package postgres implements auth repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fableden/fableden/internal/auth"
	"github.com/fableden/fableden/internal/sheet"
)

// poolIface abstracts pgxpool.Pool so the repository can be tested with pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository implements auth.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool poolIface
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool poolIface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create stores a new account. Username uniqueness is enforced by a unique
// index on LOWER(username); a collision surfaces as auth.ErrUsernameTaken.
// The insert is a single row, so a failed create leaves nothing behind.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		account.ID.String(),
		account.Username,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("AUTH_USERNAME_TAKEN").
				With("username", account.Username).
				Wrap(auth.ErrUsernameTaken)
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("username", account.Username).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id ulid.ULID, withCharacters bool) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, id.String())

	account, err := r.scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_ID_FAILED").
			With("operation", "get account by id").
			With("id", id.String()).
			Wrap(err)
	}

	if withCharacters {
		if err := r.expandCharacters(ctx, account); err != nil {
			return nil, err
		}
	}
	return account, nil
}

// GetByUsername retrieves an account by username (case-insensitive).
func (r *AccountRepository) GetByUsername(ctx context.Context, username string, withCharacters bool) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM accounts
		WHERE LOWER(username) = LOWER($1)
	`, username)

	account, err := r.scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_USERNAME_FAILED").
			With("operation", "get account by username").
			With("username", username).
			Wrap(err)
	}

	if withCharacters {
		if err := r.expandCharacters(ctx, account); err != nil {
			return nil, err
		}
	}
	return account, nil
}

// expandCharacters resolves the account's character references to full sheet
// records. Ordering follows insertion order (created_at, then id as a
// tiebreaker within the same timestamp).
func (r *AccountRepository) expandCharacters(ctx context.Context, account *auth.Account) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, name, race, class, level, max_hp, current_hp,
		       strength, dexterity, constitution, intelligence, wisdom, charisma,
		       created_at
		FROM characters
		WHERE account_id = $1
		ORDER BY created_at, id
	`, account.ID.String())
	if err != nil {
		return oops.Code("ACCOUNT_EXPAND_FAILED").
			With("operation", "query owned characters").
			With("account_id", account.ID.String()).
			Wrap(err)
	}
	defer rows.Close()

	characters := []*sheet.Character{}
	for rows.Next() {
		char, err := scanCharacter(rows)
		if err != nil {
			return oops.Code("ACCOUNT_EXPAND_FAILED").
				With("operation", "scan owned character").
				With("account_id", account.ID.String()).
				Wrap(err)
		}
		characters = append(characters, char)
	}
	if err := rows.Err(); err != nil {
		return oops.Code("ACCOUNT_EXPAND_FAILED").
			With("operation", "iterate owned characters").
			With("account_id", account.ID.String()).
			Wrap(err)
	}

	account.Characters = characters
	return nil
}

// scanAccount scans a single row into an Account.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *AccountRepository) scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		idStr        string
		username     string
		passwordHash string
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&idStr, &username, &passwordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").
			With("operation", "scan account").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ACCOUNT_INVALID_ID").
			With("operation", "parse account id").
			With("id", idStr).
			Wrap(err)
	}

	return &auth.Account{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// scanCharacter scans a character row into a sheet.Character.
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
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
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
var _ auth.AccountRepository = (*AccountRepository)(nil)
