// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package card

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/getcardo/cardo/internal/platform/apperr"
	"github.com/getcardo/cardo/internal/platform/sec"
	"github.com/getcardo/cardo/pkg/pagination"
	"github.com/getcardo/cardo/pkg/slug"
	"github.com/getcardo/cardo/pkg/uuid"
)

// # Business Number Allocation

const (
	bizNumberMin = 1_000_000
	bizNumberMax = 9_999_999

	// bizNumberAttempts bounds the random probe loop. With seven digits of
	// space the directory would need millions of cards before more than a
	// couple of probes are ever required.
	bizNumberAttempts = 25
)

// # Service Layer

// Service orchestrates business logic for the card directory.
type Service struct {
	cardRepository Repository
	cardCache      Cache
	logger         *slog.Logger

	// randomBizNumber is swapped in tests for deterministic allocation.
	randomBizNumber func() int
}

// NewService constructs a new card [Service] with its dependencies.
func NewService(cardRepo Repository, cardCache Cache, logger *slog.Logger) *Service {
	return &Service{
		cardRepository: cardRepo,
		cardCache:      cardCache,
		logger:         logger,
		randomBizNumber: func() int {
			return bizNumberMin + rand.IntN(bizNumberMax-bizNumberMin+1)
		},
	}
}

// # Discovery

/*
ListCards returns one page of the public directory.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []*Card: Page of cards
  - pagination.Meta: Page metadata
  - error: Retrieval failures
*/
func (service *Service) ListCards(context context.Context, filter Filter, params pagination.Params) ([]*Card, pagination.Meta, error) {
	cards, total, err := service.cardRepository.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("card_service_list_failed: %w", err)
	}
	return cards, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
GetCard retrieves one card by ID, consulting the read cache first.

Description: Cache problems are logged and ignored; Postgres remains the
source of truth.

Parameters:
  - context: context.Context
  - cardID: string

Returns:
  - *Card: Hydrated entity
  - error: Not found or retrieval failures
*/
func (service *Service) GetCard(context context.Context, cardID string) (*Card, error) {
	if cached, err := service.cardCache.GetByID(context, cardID); err != nil {
		service.logger.Warn("card_cache_read_failed", slog.String("card_id", cardID), slog.Any("error", err))
	} else if cached != nil {
		return cached, nil
	}

	card, err := service.cardRepository.FindByID(context, cardID)
	if err != nil {
		return nil, fmt.Errorf("card_service_get_failed: %w", err)
	}

	if err := service.cardCache.Set(context, card); err != nil {
		service.logger.Warn("card_cache_write_failed", slog.String("card_id", cardID), slog.Any("error", err))
	}

	return card, nil
}

/*
GetCardBySlug retrieves one card by its public slug, cache first.

Parameters:
  - context: context.Context
  - cardSlug: string

Returns:
  - *Card: Hydrated entity
  - error: Not found or retrieval failures
*/
func (service *Service) GetCardBySlug(context context.Context, cardSlug string) (*Card, error) {
	if cached, err := service.cardCache.GetBySlug(context, cardSlug); err != nil {
		service.logger.Warn("card_cache_read_failed", slog.String("slug", cardSlug), slog.Any("error", err))
	} else if cached != nil {
		return cached, nil
	}

	card, err := service.cardRepository.FindBySlug(context, cardSlug)
	if err != nil {
		return nil, fmt.Errorf("card_service_get_by_slug_failed: %w", err)
	}

	if err := service.cardCache.Set(context, card); err != nil {
		service.logger.Warn("card_cache_write_failed", slog.String("slug", cardSlug), slog.Any("error", err))
	}

	return card, nil
}

/*
ListMyCards returns every card published by the calling member.

Parameters:
  - context: context.Context
  - ownerID: string

Returns:
  - []*Card: Owner's cards
  - error: Retrieval failures
*/
func (service *Service) ListMyCards(context context.Context, ownerID string) ([]*Card, error) {
	cards, err := service.cardRepository.ListByOwner(context, ownerID)
	if err != nil {
		return nil, fmt.Errorf("card_service_list_mine_failed: %w", err)
	}
	return cards, nil
}

/*
ListLikedCards returns every card the calling user has liked.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Card: Liked cards
  - error: Retrieval failures
*/
func (service *Service) ListLikedCards(context context.Context, userID string) ([]*Card, error) {
	cards, err := service.cardRepository.ListLikedBy(context, userID)
	if err != nil {
		return nil, fmt.Errorf("card_service_list_liked_failed: %w", err)
	}
	return cards, nil
}

// # Publishing

// CreateCardInput holds the data required to publish a new card.
type CreateCardInput struct {
	Title       string
	Subtitle    string
	Description string
	Phone       string
	Email       string
	Web         string
	Image       Image
	Address     Address
}

/*
CreateCard publishes a new card for a business member.

Description: Allocates a unique seven-digit business number, derives the
slug from the title, and persists the card. A unique-constraint conflict
gets one retry with a freshly allocated number and that number appended to
the slug, which heals both a duplicate title and a concurrent create that
grabbed the same number between allocation and insert.

Parameters:
  - context: context.Context
  - ownerID: string (The publishing business member)
  - input: CreateCardInput

Returns:
  - *Card: The published card
  - error: Conflict or storage failures
*/
func (service *Service) CreateCard(context context.Context, ownerID string, input CreateCardInput) (*Card, error) {
	bizNumber, err := service.allocateBizNumber(context)
	if err != nil {
		return nil, err
	}

	card := &Card{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Phone:       input.Phone,
		Email:       input.Email,
		Web:         input.Web,
		Image:       input.Image,
		Address:     input.Address,
		BizNumber:   bizNumber,
		Likes:       []string{},
	}

	err = service.cardRepository.Create(context, card)
	if err != nil && apperr.IsAppError(err) {
		// The conflict is either the slug or a number grabbed by a concurrent
		// create. A fresh number plus the number-suffixed slug sidesteps both.
		retryNumber, allocErr := service.allocateBizNumber(context)
		if allocErr != nil {
			return nil, allocErr
		}
		card.BizNumber = retryNumber
		card.Slug = slug.From(input.Title) + "-" + strconv.Itoa(retryNumber)
		err = service.cardRepository.Create(context, card)
	}
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("card_service_create_failed: %w", err)
	}

	service.logger.Info("card_published",
		slog.String("card_id", card.ID),
		slog.String("owner_id", ownerID),
		slog.Int("biz_number", card.BizNumber),
	)

	return card, nil
}

// UpdateCardInput defines the mutable subset of card fields.
// Nil pointers leave the stored value untouched.
type UpdateCardInput struct {
	Title       *string
	Subtitle    *string
	Description *string
	Phone       *string
	Email       *string
	Web         *string
	Image       *Image
	Address     *Address
}

/*
UpdateCard applies changes to a published card.

Description: Only the owner or an administrator may edit. The slug and
business number are untouched by edits so shared links and registrations
stay valid even when the title changes.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (The authenticated caller)
  - cardID: string
  - input: UpdateCardInput

Returns:
  - *Card: The updated card
  - error: Forbidden, not found, or storage failures
*/
func (service *Service) UpdateCard(context context.Context, actor *sec.AuthClaims, cardID string, input UpdateCardInput) (*Card, error) {
	card, err := service.cardRepository.FindByID(context, cardID)
	if err != nil {
		return nil, fmt.Errorf("card_service_update_lookup_failed: %w", err)
	}

	if err := sec.RequireOwnerOrAdmin(actor, card.OwnerID); err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Title != nil {
		card.Title = *input.Title
	}
	if input.Subtitle != nil {
		card.Subtitle = *input.Subtitle
	}
	if input.Description != nil {
		card.Description = *input.Description
	}
	if input.Phone != nil {
		card.Phone = *input.Phone
	}
	if input.Email != nil {
		card.Email = *input.Email
	}
	if input.Web != nil {
		card.Web = *input.Web
	}
	if input.Image != nil {
		card.Image = *input.Image
	}
	if input.Address != nil {
		card.Address = *input.Address
	}

	if err := service.cardRepository.Update(context, card); err != nil {
		return nil, fmt.Errorf("card_service_update_failed: %w", err)
	}

	service.invalidateCache(context, card)
	service.logger.Info("card_updated", slog.String("card_id", cardID))

	return card, nil
}

/*
DeleteCard removes a published card.

Description: Only the owner or an administrator may delete.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - cardID: string

Returns:
  - error: Forbidden, not found, or storage failures
*/
func (service *Service) DeleteCard(context context.Context, actor *sec.AuthClaims, cardID string) error {
	card, err := service.cardRepository.FindByID(context, cardID)
	if err != nil {
		return fmt.Errorf("card_service_delete_lookup_failed: %w", err)
	}

	if err := sec.RequireOwnerOrAdmin(actor, card.OwnerID); err != nil {
		return err
	}

	if err := service.cardRepository.Delete(context, cardID); err != nil {
		return fmt.Errorf("card_service_delete_failed: %w", err)
	}

	service.invalidateCache(context, card)
	service.logger.Warn("card_deleted", slog.String("card_id", cardID))

	return nil
}

// # Social

/*
ToggleLike flips the calling user's like on a card.

Description: Liking an already-liked card withdraws the like. Any
authenticated member can like any card, including their own.

Parameters:
  - context: context.Context
  - cardID: string
  - userID: string

Returns:
  - *Card: The card with its refreshed like list
  - error: Not found or storage failures
*/
func (service *Service) ToggleLike(context context.Context, cardID, userID string) (*Card, error) {
	card, err := service.cardRepository.FindByID(context, cardID)
	if err != nil {
		return nil, fmt.Errorf("card_service_like_lookup_failed: %w", err)
	}

	if card.LikedBy(userID) {
		err = service.cardRepository.RemoveLike(context, cardID, userID)
	} else {
		err = service.cardRepository.AddLike(context, cardID, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("card_service_toggle_like_failed: %w", err)
	}

	refreshed, err := service.cardRepository.FindByID(context, cardID)
	if err != nil {
		return nil, fmt.Errorf("card_service_like_refresh_failed: %w", err)
	}

	service.invalidateCache(context, refreshed)

	return refreshed, nil
}

// # Administration

/*
ChangeBizNumber assigns a fresh unique business number to a card.

Description: Admin-only escape hatch for registration disputes. The route
guard enforces the admin requirement.

Parameters:
  - context: context.Context
  - cardID: string

Returns:
  - *Card: The card with its new number
  - error: Not found, allocation, or storage failures
*/
func (service *Service) ChangeBizNumber(context context.Context, cardID string) (*Card, error) {
	card, err := service.cardRepository.FindByID(context, cardID)
	if err != nil {
		return nil, fmt.Errorf("card_service_renumber_lookup_failed: %w", err)
	}

	bizNumber, err := service.allocateBizNumber(context)
	if err != nil {
		return nil, err
	}

	previous := card.BizNumber
	card.BizNumber = bizNumber
	if err := service.cardRepository.Update(context, card); err != nil {
		return nil, fmt.Errorf("card_service_renumber_failed: %w", err)
	}

	service.invalidateCache(context, card)
	service.logger.Info("card_renumbered",
		slog.String("card_id", cardID),
		slog.Int("previous", previous),
		slog.Int("current", bizNumber),
	)

	return card, nil
}

// allocateBizNumber probes random seven-digit numbers until it finds one
// the directory does not already hold.
func (service *Service) allocateBizNumber(context context.Context) (int, error) {
	for attempt := 0; attempt < bizNumberAttempts; attempt++ {
		candidate := service.randomBizNumber()

		_, err := service.cardRepository.FindByBizNumber(context, candidate)
		if err == nil {
			continue // taken
		}
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			return candidate, nil
		}
		return 0, fmt.Errorf("card_service_biznumber_probe_failed: %w", err)
	}

	return 0, apperr.Internal(fmt.Errorf("biznumber space exhausted after %d attempts", bizNumberAttempts))
}

// invalidateCache drops the cached entries for a card, logging failures.
func (service *Service) invalidateCache(context context.Context, card *Card) {
	if err := service.cardCache.Invalidate(context, card.ID, card.Slug); err != nil {
		service.logger.Warn("card_cache_invalidate_failed", slog.String("card_id", card.ID), slog.Any("error", err))
	}
}
