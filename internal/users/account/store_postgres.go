// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/getcardo/cardo/internal/platform/apperr"
	"github.com/getcardo/cardo/internal/users/auth"
)

// # Account Repository

const accountColumns = `
	id, email, passwordhash,
	firstname, middlename, lastname,
	phone,
	addressstate, addresscountry, addresscity, addressstreet, addresshousenumber, addresszip,
	imageurl, imagealt,
	isbusiness, isadmin,
	loginattempts, blockeduntil,
	createdat, updatedat`

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// scanAccount hydrates a full auth.User from a row carrying accountColumns.
func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
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
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
List returns one page of accounts ordered newest first, plus the total count.

Description: Uses a window function so the page rows and the total arrive
in one round trip.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Page of accounts
  - int: Total account count
  - error: Retrieval errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, limit, offset int) ([]*auth.User, int, error) {
	const query = `
		SELECT ` + accountColumns + `, COUNT(*) OVER() AS totalcount
		FROM users.account
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := []*auth.User{}
	total := 0
	for rows.Next() {
		user := &auth.User{}
		err := rows.Scan(
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
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_rows_failed: %w", err)
	}

	return users, total, nil
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes name, phone, address, image, and the business flag.
Credentials, admin status, and lockout columns stay out of this statement so
profile edits can never weaken the security state.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET firstname = $2, middlename = $3, lastname = $4,
			phone = $5,
			addressstate = $6, addresscountry = $7, addresscity = $8,
			addressstreet = $9, addresshousenumber = $10, addresszip = $11,
			imageurl = $12, imagealt = $13,
			isbusiness = $14,
			updatedat = $15
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
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
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete permanently removes an account by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when no row was removed, or execution failures
*/
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM users.account WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}
