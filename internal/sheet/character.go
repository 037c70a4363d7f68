// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

// Package sheet holds character-sheet records owned by accounts.
package sheet

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// Validation limits for character sheets.
const (
	MaxCharacterNameLength = 80
	MaxLevel               = 20
)

// AbilityScores are the six classic ability scores.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Character is a character sheet. Only the owning account may read or
// modify it through the service layer; the fields here are the minimal
// shape needed to express ownership plus the basics of a playable sheet.
type Character struct {
	ID        ulid.ULID     `json:"id"`
	AccountID ulid.ULID     `json:"accountId"`
	Name      string        `json:"name"`
	Race      string        `json:"race"`
	Class     string        `json:"class"`
	Level     int           `json:"level"`
	MaxHP     int           `json:"maxHP"`
	CurrentHP int           `json:"currentHP"`
	Abilities AbilityScores `json:"abilities"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewCharacter creates a validated Character with a generated ID.
func NewCharacter(accountID ulid.ULID, name, race, class string, level int) (*Character, error) {
	c := &Character{
		ID:        ulid.Make(),
		AccountID: accountID,
		Name:      name,
		Race:      race,
		Class:     class,
		Level:     level,
		CreatedAt: time.Now(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the character has required fields.
func (c *Character) Validate() error {
	if c.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if c.AccountID.IsZero() {
		return &ValidationError{Field: "account_id", Message: "cannot be zero"}
	}
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if !utf8.ValidString(c.Name) {
		return &ValidationError{Field: "name", Message: "must be valid UTF-8"}
	}
	if len(c.Name) > MaxCharacterNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("exceeds maximum length of %d", MaxCharacterNameLength)}
	}
	if c.Level < 1 || c.Level > MaxLevel {
		return &ValidationError{Field: "level", Message: fmt.Sprintf("must be between 1 and %d", MaxLevel)}
	}
	if c.MaxHP < 0 || c.CurrentHP < 0 {
		return &ValidationError{Field: "hp", Message: "cannot be negative"}
	}
	return nil
}

// Repository manages character persistence.
type Repository interface {
	// Create persists a new character.
	Create(ctx context.Context, char *Character) error

	// GetByID retrieves a character by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Character, error)

	// ListByAccount returns an account's characters in insertion order.
	ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*Character, error)

	// Delete removes a character.
	Delete(ctx context.Context, id ulid.ULID) error
}
