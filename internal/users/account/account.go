// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

/*
Package account handles user profile management for the Cardo directory.

It provides functionalities for members to view and update their identity
data, for business upgrades, and for administrators to browse the member
roster.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Authorization: Self-or-admin checks are enforced at the HTTP layer
    before any service method runs.
  - Security: Profile updates never touch credentials or lockout state.
*/
package account

import (
	"context"

	"github.com/getcardo/cardo/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		List returns one page of accounts ordered by creation time, plus the
		total member count for pagination metadata.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: Page of accounts
		  - int: Total account count
		  - error: Storage failures
	*/
	List(context context.Context, limit, offset int) ([]*auth.User, int, error)

	/*
		Update modifies the mutable profile fields of an existing user.
		Credentials and lockout columns are outside its reach.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete permanently removes an account.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	Delete(context context.Context, id string) error
}
