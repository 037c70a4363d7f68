// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package sheet

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service handles character-sheet operations scoped to the owning account.
type Service struct {
	characters Repository
}

// NewService creates a new Service.
func NewService(characters Repository) (*Service, error) {
	if characters == nil {
		return nil, oops.Code("CONFIG_INVALID").Errorf("characters repository is required")
	}
	return &Service{characters: characters}, nil
}

// CreateParams are the caller-supplied fields for a new character.
type CreateParams struct {
	Name      string
	Race      string
	Class     string
	Level     int
	MaxHP     int
	Abilities AbilityScores
}

// Create makes a new character owned by the given account. A fresh
// character starts at full hit points.
func (s *Service) Create(ctx context.Context, accountID ulid.ULID, params CreateParams) (*Character, error) {
	char, err := NewCharacter(accountID, params.Name, params.Race, params.Class, params.Level)
	if err != nil {
		return nil, oops.Code("CHARACTER_INVALID").With("name", params.Name).Wrap(err)
	}
	char.MaxHP = params.MaxHP
	char.CurrentHP = params.MaxHP
	char.Abilities = params.Abilities
	if err := char.Validate(); err != nil {
		return nil, oops.Code("CHARACTER_INVALID").With("name", params.Name).Wrap(err)
	}

	if err := s.characters.Create(ctx, char); err != nil {
		return nil, oops.Code("CHARACTER_CREATE_FAILED").With("id", char.ID.String()).Wrap(err)
	}
	return char, nil
}

// Get retrieves a character if it is owned by the given account.
// Characters owned by someone else are reported as not found rather than
// confirming they exist.
func (s *Service) Get(ctx context.Context, accountID, id ulid.ULID) (*Character, error) {
	char, err := s.characters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("CHARACTER_NOT_FOUND").With("id", id.String()).Wrap(err)
		}
		return nil, oops.Code("CHARACTER_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	if char.AccountID.Compare(accountID) != 0 {
		return nil, oops.Code("CHARACTER_NOT_FOUND").With("id", id.String()).Wrap(ErrNotFound)
	}
	return char, nil
}

// List returns the account's characters in insertion order.
func (s *Service) List(ctx context.Context, accountID ulid.ULID) ([]*Character, error) {
	chars, err := s.characters.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, oops.Code("CHARACTER_LIST_FAILED").
			With("account_id", accountID.String()).
			Wrap(err)
	}
	if chars == nil {
		chars = []*Character{}
	}
	return chars, nil
}

// Delete removes a character if it is owned by the given account.
func (s *Service) Delete(ctx context.Context, accountID, id ulid.ULID) error {
	if _, err := s.Get(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.characters.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("CHARACTER_NOT_FOUND").With("id", id.String()).Wrap(err)
		}
		return oops.Code("CHARACTER_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	return nil
}
