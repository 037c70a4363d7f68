// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package web

import (
	"context"

	"github.com/fableden/fableden/internal/auth"
)

type ctxKey int

const identityKey ctxKey = 0

// withIdentity returns a context carrying the verified identity.
// The identity is read-only to downstream handlers and discarded when the
// request ends.
func withIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the verified identity attached by the token gate,
// or nil if the request did not pass through it.
func IdentityFrom(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}
