// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package card

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

// # Card Repository

// cardSelect joins the like table so every hydrated card carries its full
// list of liking user IDs in one round trip.
const cardSelect = `
	SELECT
		c.id, c.ownerid, c.title, c.slug, c.subtitle, c.description,
		c.phone, c.email, c.web,
		c.imageurl, c.imagealt,
		c.addressstate, c.addresscountry, c.addresscity, c.addressstreet, c.addresshousenumber, c.addresszip,
		c.biznumber, c.createdat, c.updatedat,
		COALESCE(array_agg(l.userid) FILTER (WHERE l.userid IS NOT NULL), '{}') AS likes
	FROM core.card c
	LEFT JOIN core.cardlike l ON l.cardid = c.id`

const cardGroupBy = ` GROUP BY c.id`

// PostgresRepository implements the card Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the card Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// scanCard hydrates a Card from a cardSelect row.
func scanCard(row pgx.Row) (*Card, error) {
	card := &Card{}
	err := row.Scan(
		&card.ID,
		&card.OwnerID,
		&card.Title,
		&card.Slug,
		&card.Subtitle,
		&card.Description,
		&card.Phone,
		&card.Email,
		&card.Web,
		&card.Image.URL,
		&card.Image.Alt,
		&card.Address.State,
		&card.Address.Country,
		&card.Address.City,
		&card.Address.Street,
		&card.Address.HouseNumber,
		&card.Address.Zip,
		&card.BizNumber,
		&card.CreatedAt,
		&card.UpdatedAt,
		&card.Likes,
	)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// collectCards drains a multi-row cardSelect result set.
func collectCards(rows pgx.Rows) ([]*Card, error) {
	defer rows.Close()

	cards := []*Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

/*
List returns one page of the directory plus the total match count.

Description: The optional search query matches title and subtitle
case-insensitively. The count runs as a separate cheap statement because
the like join makes a window function awkward here.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Card: Page of cards, newest first
  - int: Total match count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Card, int, error) {
	const countQuery = `
		SELECT COUNT(*) FROM core.card
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR subtitle ILIKE '%' || $1 || '%')`

	total := 0
	if err := repository.pool.QueryRow(context, countQuery, filter.Query).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_card_repo_count_failed: %w", err)
	}

	query := cardSelect + `
		WHERE ($1 = '' OR c.title ILIKE '%' || $1 || '%' OR c.subtitle ILIKE '%' || $1 || '%')` +
		cardGroupBy + `
		ORDER BY c.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, filter.Query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_card_repo_list_failed: %w", err)
	}

	cards, err := collectCards(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_card_repo_list_scan_failed: %w", err)
	}

	return cards, total, nil
}

/*
FindByID retrieves one card with its likes.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Card: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Card, error) {
	query := cardSelect + ` WHERE c.id = $1` + cardGroupBy

	card, err := scanCard(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Card")
		}
		return nil, fmt.Errorf("postgres_card_repo_find_by_id_failed: %w", err)
	}

	return card, nil
}

/*
FindBySlug retrieves one card by its public slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Card: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Card, error) {
	query := cardSelect + ` WHERE c.slug = $1` + cardGroupBy

	card, err := scanCard(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Card")
		}
		return nil, fmt.Errorf("postgres_card_repo_find_by_slug_failed: %w", err)
	}

	return card, nil
}

/*
FindByBizNumber retrieves one card by its unique business number.

Parameters:
  - context: context.Context
  - bizNumber: int

Returns:
  - *Card: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByBizNumber(context context.Context, bizNumber int) (*Card, error) {
	query := cardSelect + ` WHERE c.biznumber = $1` + cardGroupBy

	card, err := scanCard(repository.pool.QueryRow(context, query, bizNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Card")
		}
		return nil, fmt.Errorf("postgres_card_repo_find_by_biznumber_failed: %w", err)
	}

	return card, nil
}

/*
ListByOwner returns every card published by one member, newest first.

Parameters:
  - context: context.Context
  - ownerID: string

Returns:
  - []*Card: Owner's cards
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string) ([]*Card, error) {
	query := cardSelect + ` WHERE c.ownerid = $1` + cardGroupBy + ` ORDER BY c.createdat DESC`

	rows, err := repository.pool.Query(context, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("postgres_card_repo_list_by_owner_failed: %w", err)
	}

	cards, err := collectCards(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_card_repo_list_by_owner_scan_failed: %w", err)
	}

	return cards, nil
}

/*
ListLikedBy returns every card the given user has liked, newest first.

Description: Filters through the like table with an EXISTS so the outer
join still aggregates the complete like list per card.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Card: Liked cards
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListLikedBy(context context.Context, userID string) ([]*Card, error) {
	query := cardSelect + `
		WHERE EXISTS (
			SELECT 1 FROM core.cardlike mine
			WHERE mine.cardid = c.id AND mine.userid = $1
		)` + cardGroupBy + ` ORDER BY c.createdat DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_card_repo_list_liked_failed: %w", err)
	}

	cards, err := collectCards(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_card_repo_list_liked_scan_failed: %w", err)
	}

	return cards, nil
}

/*
Create persists a new card record into the core.card table.

Parameters:
  - context: context.Context
  - card: *Card

Returns:
  - error: apperr.Conflict on slug/business-number collision, or execution errors
*/
func (repository *PostgresRepository) Create(context context.Context, card *Card) error {
	const query = `
		INSERT INTO core.card (
			id, ownerid, title, slug, subtitle, description,
			phone, email, web,
			imageurl, imagealt,
			addressstate, addresscountry, addresscity, addressstreet, addresshousenumber, addresszip,
			biznumber, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	now := time.Now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		card.ID,
		card.OwnerID,
		card.Title,
		card.Slug,
		card.Subtitle,
		card.Description,
		card.Phone,
		card.Email,
		card.Web,
		card.Image.URL,
		card.Image.Alt,
		card.Address.State,
		card.Address.Country,
		card.Address.City,
		card.Address.Street,
		card.Address.HouseNumber,
		card.Address.Zip,
		card.BizNumber,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Card identifier already in use")
		}
		return fmt.Errorf("postgres_card_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update persists changes to a card's mutable fields and business number.

Description: The slug and owner are immutable after creation and stay out
of this statement.

Parameters:
  - context: context.Context
  - card: *Card

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) Update(context context.Context, card *Card) error {
	const query = `
		UPDATE core.card
		SET title = $2, subtitle = $3, description = $4,
			phone = $5, email = $6, web = $7,
			imageurl = $8, imagealt = $9,
			addressstate = $10, addresscountry = $11, addresscity = $12,
			addressstreet = $13, addresshousenumber = $14, addresszip = $15,
			biznumber = $16,
			updatedat = $17
		WHERE id = $1`

	card.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		card.ID,
		card.Title,
		card.Subtitle,
		card.Description,
		card.Phone,
		card.Email,
		card.Web,
		card.Image.URL,
		card.Image.Alt,
		card.Address.State,
		card.Address.Country,
		card.Address.City,
		card.Address.Street,
		card.Address.HouseNumber,
		card.Address.Zip,
		card.BizNumber,
		card.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Card identifier already in use")
		}
		return fmt.Errorf("postgres_card_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete permanently removes a card. Likes cascade away at the schema level.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when no row was removed, or execution failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.card WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_card_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Card")
	}

	return nil
}

// # Likes

/*
AddLike records a like. ON CONFLICT makes repeated likes harmless.

Parameters:
  - context: context.Context
  - cardID: string
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) AddLike(context context.Context, cardID, userID string) error {
	const query = `
		INSERT INTO core.cardlike (cardid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (cardid, userid) DO NOTHING`

	_, err := repository.pool.Exec(context, query, cardID, userID, time.Now())
	return dberr.Wrap(err, "postgres_card_repo_add_like")
}

/*
RemoveLike withdraws a like. Removing an absent like is a no-op.

Parameters:
  - context: context.Context
  - cardID: string
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) RemoveLike(context context.Context, cardID, userID string) error {
	const query = "DELETE FROM core.cardlike WHERE cardid = $1 AND userid = $2"

	_, err := repository.pool.Exec(context, query, cardID, userID)
	return dberr.Wrap(err, "postgres_card_repo_remove_like")
}
