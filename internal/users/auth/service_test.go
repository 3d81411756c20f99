// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcardo/cardo/internal/platform/apperr"
	"github.com/getcardo/cardo/internal/platform/sec"
)

// fakeUserRepository is an in-memory UserRepository for service tests.
type fakeUserRepository struct {
	users map[string]*User // keyed by lowercase email

	// findEmailErr, when set, makes FindByEmail fail as if storage were down.
	findEmailErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*User{}}
}

func (repository *fakeUserRepository) Create(_ context.Context, user *User) error {
	key := strings.ToLower(user.Email)
	if _, exists := repository.users[key]; exists {
		return apperr.Conflict("Email is already registered")
	}
	clone := *user
	repository.users[key] = &clone
	return nil
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if repository.findEmailErr != nil {
		return nil, repository.findEmailErr
	}
	user, ok := repository.users[strings.ToLower(email)]
	if !ok {
		return nil, apperr.NotFound("User not found with this email")
	}
	clone := *user
	return &clone, nil
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	for _, user := range repository.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (repository *fakeUserRepository) UpdateLoginState(_ context.Context, id string, attempts int, blockedUntil *time.Time) error {
	for _, user := range repository.users {
		if user.ID == id {
			user.LoginAttempts = attempts
			user.BlockedUntil = blockedUntil
			return nil
		}
	}
	return apperr.NotFound("User not found")
}

// stubTokenProvider issues a fixed token without any signing.
type stubTokenProvider struct{}

func (stubTokenProvider) GenerateAccessToken(userID string, isBusiness, isAdmin bool) (string, error) {
	return "token-for-" + userID, nil
}

// newTestService wires a service with an in-memory repository and a three
// strikes, 24 hour lockout policy.
func newTestService(t *testing.T) (*Service, *fakeUserRepository) {
	t.Helper()
	repository := newFakeUserRepository()
	service := NewService(repository, stubTokenProvider{}, LockoutPolicy{
		MaxAttempts:  3,
		LockDuration: 24 * time.Hour,
	})
	return service, repository
}

// registerTestUser enrolls a user through the real Register path so the
// stored hash is genuine bcrypt output.
func registerTestUser(t *testing.T, service *Service, email, password string) SanitizedUser {
	t.Helper()
	created, err := service.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: password,
		Name:     Name{First: "Dana", Last: "Levi"},
		Phone:    "050-123-4567",
		Address:  Address{Country: "Israel", City: "Tel Aviv", Street: "Dizengoff", HouseNumber: 12, Zip: "61000"},
	})
	require.NoError(t, err)
	return created
}

/*
TestService_Register verifies enrollment hashes the password and returns
only the sanitized projection.
*/
func TestService_Register(t *testing.T) {
	service, repository := newTestService(t)

	created := registerTestUser(t, service, "dana@example.com", "Str0ngPass!")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "dana@example.com", created.Email)
	assert.Equal(t, "Dana", created.Name.First)

	stored, err := repository.FindByEmail(context.Background(), "dana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ngPass!", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("Str0ngPass!", stored.PasswordHash))
	assert.False(t, stored.IsAdmin)
	assert.Zero(t, stored.LoginAttempts)
	assert.Nil(t, stored.BlockedUntil)
}

/*
TestService_Register_DuplicateEmail verifies the unique-email conflict
surfaces as a 409.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	service, _ := newTestService(t)

	registerTestUser(t, service, "dana@example.com", "Str0ngPass!")

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "dana@example.com",
		Password: "AnotherPass1",
		Name:     Name{First: "Dana", Last: "Levi"},
		Phone:    "050-123-4567",
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_Register_NormalizesEmail verifies the stored and returned email
is folded to lowercase regardless of how it was entered.
*/
func TestService_Register_NormalizesEmail(t *testing.T) {
	service, repository := newTestService(t)

	created := registerTestUser(t, service, "Dana@Example.COM", "Str0ngPass!")
	assert.Equal(t, "dana@example.com", created.Email)

	stored, err := repository.FindByEmail(context.Background(), "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", stored.Email)
}

/*
TestService_Login_Success verifies a correct credential pair yields a token.
*/
func TestService_Login_Success(t *testing.T) {
	service, _ := newTestService(t)
	created := registerTestUser(t, service, "dana@example.com", "Str0ngPass!")

	session, err := service.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "Str0ngPass!",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+created.ID, session.Token)
	assert.Equal(t, created.ID, session.User.ID)
}

/*
TestService_Login_UnknownEmail verifies an unknown account gets the same
generic 401 as a wrong password.
*/
func TestService_Login_UnknownEmail(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
	assert.Equal(t, "Invalid email or password", ae.Message)
}

/*
TestService_Login_StoreOutage verifies a storage failure during the email
lookup surfaces as a server error, not a credential rejection.
*/
func TestService_Login_StoreOutage(t *testing.T) {
	service, repository := newTestService(t)
	registerTestUser(t, service, "dana@example.com", "Str0ngPass!")

	repository.findEmailErr = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "Str0ngPass!",
	})
	require.Error(t, err)
	assert.Nil(t, apperr.As(err))
	assert.ErrorContains(t, err, "auth_service_login_lookup_failed")
}

/*
TestService_Login_LockAfterMaxFailures walks the lockout state machine
through three wrong passwords and verifies the third attempt trips the lock.
*/
func TestService_Login_LockAfterMaxFailures(t *testing.T) {
	service, repository := newTestService(t)
	registerTestUser(t, service, "dana@example.com", "Str0ngPass!")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return base }

	// First two failures count up without locking.
	for attempt := 1; attempt <= 2; attempt++ {
		_, err := service.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "wrong",
		})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

		stored, _ := repository.FindByEmail(context.Background(), "dana@example.com")
		assert.Equal(t, attempt, stored.LoginAttempts)
		assert.Nil(t, stored.BlockedUntil)
	}

	// Third failure trips a 24h lock and zeroes the counter.
	_, err := service.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, "LOCKED", apperr.As(err).Code)

	stored, _ := repository.FindByEmail(context.Background(), "dana@example.com")
	assert.Zero(t, stored.LoginAttempts)
	require.NotNil(t, stored.BlockedUntil)
	assert.Equal(t, base.Add(24*time.Hour), *stored.BlockedUntil)
}

/*
TestService_Login_LockedRejectsCorrectPassword verifies a live lock rejects
even the right password and leaves the stored state untouched.
*/
func TestService_Login_LockedRejectsCorrectPassword(t *testing.T) {
	service, repository := newTestService(t)
	registerTestUser(t, service, "dana@example.com", "Str0ngPass!")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		_, _ = service.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "wrong",
		})
	}

	// One hour into the lock window.
	service.now = func() time.Time { return base.Add(time.Hour) }

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "Str0ngPass!",
	})
	require.Error(t, err)
	assert.Equal(t, "LOCKED", apperr.As(err).Code)

	stored, _ := repository.FindByEmail(context.Background(), "dana@example.com")
	require.NotNil(t, stored.BlockedUntil)
	assert.Equal(t, base.Add(24*time.Hour), *stored.BlockedUntil)
}

/*
TestService_Login_ExpiredLockResets verifies that once the lock window
passes, the counters reset and a correct password succeeds immediately.
*/
func TestService_Login_ExpiredLockResets(t *testing.T) {
	service, repository := newTestService(t)
	registerTestUser(t, service, "dana@example.com", "Str0ngPass!")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		_, _ = service.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "wrong",
		})
	}

	// Just past the 24h window.
	service.now = func() time.Time { return base.Add(24*time.Hour + time.Second) }

	session, err := service.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "Str0ngPass!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	stored, _ := repository.FindByEmail(context.Background(), "dana@example.com")
	assert.Zero(t, stored.LoginAttempts)
	assert.Nil(t, stored.BlockedUntil)
}

/*
TestService_Login_SuccessResetsCounter verifies a success after partial
failures clears the accumulated count, so the next streak starts from zero.
*/
func TestService_Login_SuccessResetsCounter(t *testing.T) {
	service, repository := newTestService(t)
	registerTestUser(t, service, "dana@example.com", "Str0ngPass!")

	for i := 0; i < 2; i++ {
		_, _ = service.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "wrong",
		})
	}

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "Str0ngPass!",
	})
	require.NoError(t, err)

	stored, _ := repository.FindByEmail(context.Background(), "dana@example.com")
	assert.Zero(t, stored.LoginAttempts)

	// Two fresh failures still only count to two.
	for i := 0; i < 2; i++ {
		_, err := service.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "wrong",
		})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	}
}
