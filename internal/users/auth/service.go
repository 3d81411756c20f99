// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/getcardo/cardo/internal/platform/apperr"
	"github.com/getcardo/cardo/internal/platform/sec"
	"github.com/getcardo/cardo/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - isBusiness: Whether the account may publish cards.
	//   - isAdmin: Whether the account holds platform-admin rights.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID string, isBusiness, isAdmin bool) (string, error)
}

// LockoutPolicy configures the brute-force protection applied on login.
type LockoutPolicy struct {
	// MaxAttempts is the number of consecutive failed logins that triggers a lock.
	MaxAttempts int
	// LockDuration is how long a triggered lock stays in force.
	LockDuration time.Duration
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// login, or lockout logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	policy         LockoutPolicy

	// now is swapped in tests to drive the lockout clock.
	now func() time.Time
}

// NewService constructs a new authentication [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, policy LockoutPolicy) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		policy:         policy,
		now:            time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email      string
	Password   string
	Name       Name
	Phone      string
	Address    Address
	Image      Image
	IsBusiness bool
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member. The password is hashed before
anything touches storage, the email is normalized, and the lockout counters
start at their zero values.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - SanitizedUser: Client-safe projection of the created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (SanitizedUser, error) {

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return SanitizedUser{}, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index
	// fragmentation. The email is stored lowercase; lookups fold case too,
	// so the stored form is purely cosmetic consistency.
	user := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(input.Email),
		PasswordHash: hashedPassword,
		Name:         input.Name,
		Phone:        input.Phone,
		Address:      input.Address,
		Image:        input.Image,
		IsBusiness:   input.IsBusiness,
		IsAdmin:      false,
	}

	// Persist the user. The unique email index is the source of truth for
	// duplicates; the repository maps its violation to a Conflict err, which
	// passes through to the client untouched.
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return SanitizedUser{}, err
		}
		return SanitizedUser{}, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user.Sanitized(), nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Token string
	User  *User
}

/*
Login validates user credentials and issues a signed access token.

Description: Verifies identity under the brute-force lockout state machine.
A locked account rejects every attempt until the lock expires, without even
checking the password. An expired lock resets the counters before the
attempt is evaluated. A successful login clears any accumulated failures;
a failed one increments them, and the attempt that reaches the policy
maximum trips a fresh lock.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready token and account
  - err: Unauthorized, Locked, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	now := service.now()

	// Unknown emails get the same generic rejection as bad passwords so the
	// endpoint cannot be used to enumerate accounts. Storage failures are not
	// credential failures and surface as a generic server error instead.
	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// A live lock short-circuits everything: the password is not checked and
	// the counters stay untouched, so hammering a locked account achieves
	// nothing.
	if user.IsLocked(now) {
		return nil, apperr.Locked(*user.BlockedUntil)
	}

	// An expired lock is cleared eagerly so stale state never lingers in
	// storage. The attempt then proceeds against a clean slate.
	if user.BlockedUntil != nil {
		user.LoginAttempts = 0
		user.BlockedUntil = nil
		if err := service.userRepository.UpdateLoginState(context, user.ID, 0, nil); err != nil {
			return nil, fmt.Errorf("auth_service_clear_lock_failed: %w", err)
		}
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, service.recordFailure(context, user, now)
	}

	// Success clears any accumulated failures before a token is issued.
	if user.LoginAttempts > 0 {
		if err := service.userRepository.UpdateLoginState(context, user.ID, 0, nil); err != nil {
			return nil, fmt.Errorf("auth_service_reset_attempts_failed: %w", err)
		}
		user.LoginAttempts = 0
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.IsBusiness, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	return &LoginSession{Token: token, User: user}, nil
}

// recordFailure advances the lockout state machine after a wrong password
// and returns the client-facing rejection.
func (service *Service) recordFailure(context context.Context, user *User, now time.Time) error {
	attempts := user.LoginAttempts + 1

	// The attempt that reaches the maximum trips the lock. The counter is
	// reset to zero at the same time so the account starts clean once the
	// window passes.
	if attempts >= service.policy.MaxAttempts {
		until := now.Add(service.policy.LockDuration)
		if err := service.userRepository.UpdateLoginState(context, user.ID, 0, &until); err != nil {
			return fmt.Errorf("auth_service_lock_failed: %w", err)
		}
		return apperr.Locked(until)
	}

	if err := service.userRepository.UpdateLoginState(context, user.ID, attempts, nil); err != nil {
		return fmt.Errorf("auth_service_record_failure_failed: %w", err)
	}
	return apperr.Unauthorized("Invalid email or password")
}
