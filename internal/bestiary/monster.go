// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

// Package bestiary provides the read-only monster catalog.
package bestiary

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when a requested monster does not exist.
var ErrNotFound = errors.New("not found")

// Monster is a catalog entry. The catalog is seeded by migration and
// read-only at runtime.
type Monster struct {
	ID              ulid.ULID `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	ChallengeRating float64   `json:"challengeRating"`
	HitPoints       int       `json:"hitPoints"`
	ArmorClass      int       `json:"armorClass"`
}

// Repository reads the monster catalog.
type Repository interface {
	// List returns the full catalog ordered by name.
	List(ctx context.Context) ([]*Monster, error)

	// GetByID retrieves a monster by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Monster, error)
}
