// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package card

import "context"

// # Card Data Access

// Repository defines the data access contract for cards and likes.
type Repository interface {

	/*
		List returns a filtered, paginated slice of cards and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Search query)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Card: Slice of matching cards
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Card, int, error)

	/*
		FindByID retrieves a card by its UUID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *Card: Hydrated entity with its likes
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Card, error)

	/*
		FindBySlug retrieves a card by its human-readable identifier.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Card: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Card, error)

	/*
		FindByBizNumber retrieves a card by its seven-digit business number.

		Parameters:
		  - context: context.Context
		  - bizNumber: int

		Returns:
		  - *Card: Hydrated entity
		  - error: ErrNotFound if the number is unassigned
	*/
	FindByBizNumber(context context.Context, bizNumber int) (*Card, error)

	/*
		ListByOwner returns every card published by one member.

		Parameters:
		  - context: context.Context
		  - ownerID: string

		Returns:
		  - []*Card: Cards newest first
		  - error: Retrieval failures
	*/
	ListByOwner(context context.Context, ownerID string) ([]*Card, error)

	/*
		ListLikedBy returns every card the given user has liked.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*Card: Cards newest first
		  - error: Retrieval failures
	*/
	ListLikedBy(context context.Context, userID string) ([]*Card, error)

	/*
		Create persists a new card to the store.

		Parameters:
		  - context: context.Context
		  - card: *Card

		Returns:
		  - error: apperr.Conflict on slug or business-number collision
	*/
	Create(context context.Context, card *Card) error

	/*
		Update modifies an existing card's metadata and business number.

		Parameters:
		  - context: context.Context
		  - card: *Card

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, card *Card) error

	/*
		Delete permanently removes a card and its likes.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound when no row was removed
	*/
	Delete(context context.Context, id string) error

	// # Likes

	/*
		AddLike records that a user likes a card. Idempotent.

		Parameters:
		  - context: context.Context
		  - cardID: string
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	AddLike(context context.Context, cardID, userID string) error

	/*
		RemoveLike withdraws a user's like from a card. Idempotent.

		Parameters:
		  - context: context.Context
		  - cardID: string
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	RemoveLike(context context.Context, cardID, userID string) error
}

// # Read Cache

// Cache is a best-effort read-through cache for single-card lookups.
//
// A miss is (nil, nil); infrastructure errors surface so callers can log
// them, but the service never fails a request over a cache problem.
type Cache interface {
	GetByID(context context.Context, id string) (*Card, error)
	GetBySlug(context context.Context, slug string) (*Card, error)
	Set(context context.Context, card *Card) error
	Invalidate(context context.Context, id, slug string) error
}
