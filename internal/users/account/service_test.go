// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcardo/cardo/internal/platform/apperr"
	"github.com/getcardo/cardo/internal/users/account"
	"github.com/getcardo/cardo/internal/users/auth"
	"github.com/getcardo/cardo/pkg/pagination"
	"github.com/getcardo/cardo/pkg/pointer"
)

// fakeAccountRepository is an in-memory AccountRepository for service tests.
type fakeAccountRepository struct {
	users map[string]*auth.User
	order []string
}

func newFakeAccountRepository(users ...*auth.User) *fakeAccountRepository {
	repository := &fakeAccountRepository{users: map[string]*auth.User{}}
	for _, user := range users {
		clone := *user
		repository.users[user.ID] = &clone
		repository.order = append(repository.order, user.ID)
	}
	return repository
}

func (repository *fakeAccountRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repository *fakeAccountRepository) List(_ context.Context, limit, offset int) ([]*auth.User, int, error) {
	users := []*auth.User{}
	for i := offset; i < len(repository.order) && len(users) < limit; i++ {
		clone := *repository.users[repository.order[i]]
		users = append(users, &clone)
	}
	return users, len(repository.order), nil
}

func (repository *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := repository.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	clone := *user
	repository.users[user.ID] = &clone
	return nil
}

func (repository *fakeAccountRepository) Delete(_ context.Context, id string) error {
	if _, ok := repository.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repository.users, id)
	return nil
}

func testUser(id string) *auth.User {
	return &auth.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      auth.Name{First: "Noa", Last: "Cohen"},
		Phone:     "050-111-2222",
		CreatedAt: time.Now(),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestService_UpdateProfile verifies partial updates only touch the provided
fields.
*/
func TestService_UpdateProfile(t *testing.T) {
	repository := newFakeAccountRepository(testUser("u1"))
	service := account.NewService(repository, discardLogger())

	updated, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
		Phone: pointer.To("052-999-8877"),
	})
	require.NoError(t, err)

	assert.Equal(t, "052-999-8877", updated.Phone)
	assert.Equal(t, "Noa", updated.Name.First)
	assert.Equal(t, "u1@example.com", updated.Email)
}

/*
TestService_ToggleBusiness verifies the flag flips on each call.
*/
func TestService_ToggleBusiness(t *testing.T) {
	repository := newFakeAccountRepository(testUser("u1"))
	service := account.NewService(repository, discardLogger())

	updated, err := service.ToggleBusiness(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, updated.IsBusiness)

	updated, err = service.ToggleBusiness(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, updated.IsBusiness)
}

/*
TestService_ListProfiles verifies pagination metadata reflects the full
roster size.
*/
func TestService_ListProfiles(t *testing.T) {
	repository := newFakeAccountRepository(testUser("u1"), testUser("u2"), testUser("u3"))
	service := account.NewService(repository, discardLogger())

	users, meta, err := service.ListProfiles(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, users, 2)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

/*
TestService_DeleteAccount verifies deletion removes the record and a second
delete reports not found.
*/
func TestService_DeleteAccount(t *testing.T) {
	repository := newFakeAccountRepository(testUser("u1"))
	service := account.NewService(repository, discardLogger())

	require.NoError(t, service.DeleteAccount(context.Background(), "u1"))

	err := service.DeleteAccount(context.Background(), "u1")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}
