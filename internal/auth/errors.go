// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when an account create collides with an
// existing username.
var ErrUsernameTaken = errors.New("username already taken")
