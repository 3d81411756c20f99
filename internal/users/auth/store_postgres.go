// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/getcardo/cardo/internal/platform/apperr"
	"github.com/getcardo/cardo/internal/platform/dberr"
)

// # User Repository

// userColumns is the canonical column list for hydrating a full User entity.
const userColumns = `
	id, email, passwordhash,
	firstname, middlename, lastname,
	phone,
	addressstate, addresscountry, addresscity, addressstreet, addresshousenumber, addresszip,
	imageurl, imagealt,
	isbusiness, isadmin,
	loginattempts, blockeduntil,
	createdat, updatedat`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// scanUser hydrates a User from a row carrying userColumns.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name.First,
		&user.Name.Middle,
		&user.Name.Last,
		&user.Phone,
		&user.Address.State,
		&user.Address.Country,
		&user.Address.City,
		&user.Address.Street,
		&user.Address.HouseNumber,
		&user.Address.Zip,
		&user.Image.URL,
		&user.Image.Alt,
		&user.IsBusiness,
		&user.IsAdmin,
		&user.LoginAttempts,
		&user.BlockedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists the flattened account entity, initializing
timestamps and mapping the unique email constraint to a Conflict error.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash,
			firstname, middlename, lastname,
			phone,
			addressstate, addresscountry, addresscity, addressstreet, addresshousenumber, addresszip,
			imageurl, imagealt,
			isbusiness, isadmin,
			loginattempts, blockeduntil,
			createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name.First,
		user.Name.Middle,
		user.Name.Last,
		user.Phone,
		user.Address.State,
		user.Address.Country,
		user.Address.City,
		user.Address.Street,
		user.Address.HouseNumber,
		user.Address.Zip,
		user.Image.URL,
		user.Image.Alt,
		user.IsBusiness,
		user.IsAdmin,
		user.LoginAttempts,
		user.BlockedUntil,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a case-insensitive lookup on the account table; the
email column carries a unique index on lower(email).

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE lower(email) = lower($1)`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found with this email")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
UpdateLoginState writes the brute-force counters for a user.

Description: Persists the failed-attempt counter and lockout deadline
together so the two columns can never drift apart.

Parameters:
  - context: context.Context
  - id: string
  - attempts: int
  - blockedUntil: *time.Time (nil clears the lock)

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateLoginState(context context.Context, id string, attempts int, blockedUntil *time.Time) error {
	const query = `
		UPDATE users.account
		SET loginattempts = $2, blockeduntil = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id, attempts, blockedUntil, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_login_state_failed: %w", err)
	}

	return nil
}
