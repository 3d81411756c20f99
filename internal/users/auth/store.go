// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package auth

import (
	"context"
	"time"
)

/*
UserRepository abstracts persistence of user identities.

# Lockout state

UpdateLoginState persists the brute-force counters atomically in a single
write. The login flow is the only caller; profile updates elsewhere in the
system must never touch these columns.
*/
type UserRepository interface {
	// Create persists a new user and fills in the generated timestamps.
	// Returns a Conflict error when the email is already registered.
	Create(ctx context.Context, user *User) error

	// FindByEmail returns the user with the given email address, matched
	// case-insensitively. Returns NotFound when no account exists.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the user with the given ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// UpdateLoginState writes the failed-attempt counter and lockout
	// deadline for the given user in one statement.
	UpdateLoginState(ctx context.Context, id string, attempts int, blockedUntil *time.Time) error
}
