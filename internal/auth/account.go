// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fableden/fableden/internal/sheet"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// usernameRegex matches usernames that:
// - Start with a letter (a-z, A-Z)
// - Contain only letters, numbers, and underscores
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Account represents a registered account.
//
// PasswordHash is write-only from the outside world: it never appears in a
// response payload and is excluded from JSON marshaling.
type Account struct {
	ID           ulid.ULID          `json:"id"`
	Username     string             `json:"username"`
	PasswordHash string             `json:"-"`
	Characters   []*sheet.Character `json:"characters"`
	CreatedAt    time.Time          `json:"-"`
	UpdatedAt    time.Time          `json:"-"`
}

// NewAccount creates a validated Account with a generated ID and an empty
// character list. The password must already be hashed; this constructor never
// sees plaintext.
func NewAccount(username, passwordHash string) (*Account, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &Account{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		Characters:   []*sheet.Character{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateUsername validates a username against rules.
// Username requirements:
// - Length: MinUsernameLength to MaxUsernameLength characters
// - Must start with a letter
// - Can contain only letters (a-z, A-Z), numbers (0-9), and underscores (_)
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create stores a new account. The write is a single-row insert; a
	// username collision surfaces as ErrUsernameTaken and leaves no
	// partially written account behind.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID. When withCharacters is true the
	// owned character references are expanded to full sheet records in
	// insertion order.
	GetByID(ctx context.Context, id ulid.ULID, withCharacters bool) (*Account, error)

	// GetByUsername retrieves an account by username (case-insensitive).
	// Character expansion behaves as in GetByID.
	GetByUsername(ctx context.Context, username string, withCharacters bool) (*Account, error)
}
