// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getcardo/cardo/internal/users/auth"
	"github.com/getcardo/cardo/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
//
// It ensures that profile updates and the business upgrade follow
// established constraints: credential and lockout state are owned by the
// auth package and are never writable through this service.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

/*
ListProfiles returns one page of the member roster.

Description: Admin-only browse over every registered account, newest first.
The guard runs at the HTTP layer.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*auth.User: Page of accounts
  - pagination.Meta: Page metadata
  - error: Retrieval failures
*/
func (service *Service) ListProfiles(context context.Context, params pagination.Params) ([]*auth.User, pagination.Meta, error) {
	users, total, err := service.accountRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil pointers leave the stored value untouched.
type UpdateProfileInput struct {
	Name    *auth.Name
	Phone   *string
	Address *auth.Address
	Image   *auth.Image
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage. Email, password, role flags,
and lockout counters cannot be reached through this path.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.Name != nil {
		user.Name = *input.Name
	}

	// Apply delta updates
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	// Apply delta updates
	if input.Address != nil {
		user.Address = *input.Address
	}

	// Apply delta updates
	if input.Image != nil {
		user.Image = *input.Image
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
ToggleBusiness flips the business flag on an account.

Description: A regular member becomes a business (gaining the right to
publish cards) and vice versa. Existing cards are not touched when a
business downgrades; they simply stop growing.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) ToggleBusiness(context context.Context, userID string) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_toggle_lookup_failed: %w", err)
	}

	user.IsBusiness = !user.IsBusiness

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_toggle_failed: %w", err)
	}

	service.logger.Info("user_business_toggled",
		slog.String("user_id", userID),
		slog.Bool("is_business", user.IsBusiness),
	)

	return user, nil
}

/*
DeleteAccount permanently removes a user account.

Description: Hard deletion of the account row. Published cards cascade away
with it at the storage level.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {

	if err := service.accountRepository.Delete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}
