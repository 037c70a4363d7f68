// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Identity is the claim set carried by a bearer token and attached to the
// request context once the token verifies.
type Identity struct {
	AccountID ulid.ULID
	Username  string
}

// tokenClaims is the JWT claim layout. Only the two identity claims are set;
// no expiry is issued, so a token stays valid until the signing secret is
// rotated. That matches the clients this service already has in the field.
type tokenClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	AccountID string `json:"account_id"`
}

// TokenCodec issues and verifies HMAC-signed bearer tokens.
//
// The secret is fixed at construction. Verification is pure and safe for
// unbounded concurrent use.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a TokenCodec. An empty secret is a configuration
// fault: the process must refuse to serve rather than sign with nothing.
func NewTokenCodec(secret []byte) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, oops.Code("CONFIG_INVALID").Errorf("token signing secret is required")
	}
	return &TokenCodec{secret: secret}, nil
}

// Issue signs a token for the given identity. The output is an opaque string
// safe to transmit and store client-side.
func (c *TokenCodec) Issue(identity Identity) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Username:  identity.Username,
		AccountID: identity.AccountID.String(),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify validates the signature and returns the embedded identity. Any
// decoding error, structural problem, or signature mismatch yields an
// AUTH_INVALID_TOKEN error; Verify never panics on attacker-controlled input.
func (c *TokenCodec) Verify(token string) (*Identity, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_TOKEN").Wrap(err)
	}
	if !parsed.Valid {
		return nil, oops.Code("AUTH_INVALID_TOKEN").Errorf("token is not valid")
	}

	accountID, err := ulid.Parse(claims.AccountID)
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_TOKEN").
			With("operation", "parse account id claim").
			Wrap(err)
	}
	if claims.Username == "" {
		return nil, oops.Code("AUTH_INVALID_TOKEN").Errorf("token is missing the username claim")
	}

	return &Identity{AccountID: accountID, Username: claims.Username}, nil
}
