// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fableden/fableden/internal/sheet"
)

// DefaultHashWorkers bounds how many bcrypt computations run at once.
// Hashing is CPU-bound; without a bound a burst of signups would serialize
// every other request behind a wall of bcrypt work.
const DefaultHashWorkers = 4

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// SignUpResult is returned by a successful SignUp.
type SignUpResult struct {
	Username string
	ID       ulid.ULID
	Token    string
}

// SignInResult is returned by a successful SignIn.
type SignInResult struct {
	Characters []*sheet.Character
	Token      string
}

// Service orchestrates signup, signin, and owned-character lookup.
type Service struct {
	accounts AccountRepository
	tokens   *TokenCodec
	hasher   PasswordHasher
	hashSem  chan struct{}
	logger   *slog.Logger
}

// NewService creates a new Service with the default logger.
func NewService(accounts AccountRepository, tokens *TokenCodec, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(accounts, tokens, hasher, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(accounts AccountRepository, tokens *TokenCodec, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("CONFIG_INVALID").Errorf("accounts repository is required")
	}
	if tokens == nil {
		return nil, oops.Code("CONFIG_INVALID").Errorf("token codec is required")
	}
	if hasher == nil {
		return nil, oops.Code("CONFIG_INVALID").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("CONFIG_INVALID").Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		hasher:   hasher,
		hashSem:  make(chan struct{}, DefaultHashWorkers),
		logger:   logger,
	}, nil
}

// SignUp registers a new account and issues a token for it.
// A duplicate username surfaces as AUTH_USERNAME_TAKEN.
func (s *Service) SignUp(ctx context.Context, username, password string) (*SignUpResult, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(username, hash)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, oops.Code("AUTH_USERNAME_TAKEN").
				With("username", username).
				Wrap(err)
		}
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create account").
			Wrap(err)
	}

	token, err := s.tokens.Issue(Identity{AccountID: account.ID, Username: account.Username})
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	s.logger.Info("account created", "username", account.Username, "account_id", account.ID.String())

	return &SignUpResult{Username: account.Username, ID: account.ID, Token: token}, nil
}

// SignIn authenticates an account and issues a token.
// Returns the owned characters (resolved, insertion order) and the token.
// Unknown usernames and wrong passwords are indistinguishable to the caller:
// both yield AUTH_INVALID_CREDENTIALS, and a dummy hash is verified when the
// account is missing so response time stays consistent.
func (s *Service) SignIn(ctx context.Context, username, password string) (*SignInResult, error) {
	account, lookupErr := s.accounts.GetByUsername(ctx, username, true)

	targetHash := dummyPasswordHash
	accountExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_SIGNIN_FAILED").
				With("operation", "get account by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	valid, verifyErr := s.verifyPassword(ctx, password, targetHash)
	if verifyErr != nil {
		if !accountExists {
			return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
		}
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}
	if !accountExists || !valid {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
	}

	token, err := s.tokens.Issue(Identity{AccountID: account.ID, Username: account.Username})
	if err != nil {
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	characters := account.Characters
	if characters == nil {
		characters = []*sheet.Character{}
	}

	return &SignInResult{Characters: characters, Token: token}, nil
}

// OwnedCharacters returns the characters owned by an account, resolved to
// full records in insertion order.
func (s *Service) OwnedCharacters(ctx context.Context, accountID ulid.ULID) ([]*sheet.Character, error) {
	account, err := s.accounts.GetByID(ctx, accountID, true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("ACCOUNT_NOT_FOUND").
				With("account_id", accountID.String()).
				Wrap(err)
		}
		return nil, oops.Code("AUTH_LOOKUP_FAILED").
			With("operation", "get account by id").
			Wrap(err)
	}

	if account.Characters == nil {
		return []*sheet.Character{}, nil
	}
	return account.Characters, nil
}

// hashPassword runs the hasher on the bounded worker pool.
func (s *Service) hashPassword(ctx context.Context, password string) (string, error) {
	if err := s.acquireHashSlot(ctx); err != nil {
		return "", err
	}
	defer s.releaseHashSlot()
	return s.hasher.Hash(password)
}

// verifyPassword runs verification on the bounded worker pool. Verification
// costs the same bcrypt work as hashing, so it shares the bound.
func (s *Service) verifyPassword(ctx context.Context, password, hash string) (bool, error) {
	if err := s.acquireHashSlot(ctx); err != nil {
		return false, err
	}
	defer s.releaseHashSlot()
	return s.hasher.Verify(password, hash)
}

func (s *Service) acquireHashSlot(ctx context.Context) error {
	select {
	case s.hashSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return oops.Code("AUTH_CANCELLED").Wrap(ctx.Err())
	}
}

func (s *Service) releaseHashSlot() {
	<-s.hashSem
}
