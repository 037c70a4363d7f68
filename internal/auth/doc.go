// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

// Package auth provides account credentials and token handling for FableDen.
//
// # Domain Types
//
// Account is the identity record: a unique username, a bcrypt password hash,
// and the list of character sheets the account owns. Create accounts through
// NewAccount so username validation cannot be bypassed.
//
// # Services
//
//   - Service - signup, signin, and owned-character lookup
//   - TokenCodec - issues and verifies signed bearer tokens
//   - PasswordHasher - adaptive password hashing behind an interface
//
// The signing secret and repositories are injected at construction time;
// nothing in this package reads ambient process state on the request path.
package auth
