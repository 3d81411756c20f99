// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package card

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcardo/cardo/internal/platform/apperr"
	"github.com/getcardo/cardo/internal/platform/sec"
	"github.com/getcardo/cardo/pkg/pointer"
)

// fakeRepository is an in-memory card Repository for service tests.
type fakeRepository struct {
	cards map[string]*Card
	likes map[string]map[string]bool // cardID -> userID set
	finds int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		cards: map[string]*Card{},
		likes: map[string]map[string]bool{},
	}
}

func (repository *fakeRepository) hydrate(card *Card) *Card {
	clone := *card
	clone.Likes = []string{}
	for userID := range repository.likes[card.ID] {
		clone.Likes = append(clone.Likes, userID)
	}
	return &clone
}

func (repository *fakeRepository) List(_ context.Context, _ Filter, limit, offset int) ([]*Card, int, error) {
	all := []*Card{}
	for _, card := range repository.cards {
		all = append(all, repository.hydrate(card))
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (repository *fakeRepository) FindByID(_ context.Context, id string) (*Card, error) {
	repository.finds++
	card, ok := repository.cards[id]
	if !ok {
		return nil, apperr.NotFound("Card")
	}
	return repository.hydrate(card), nil
}

func (repository *fakeRepository) FindBySlug(_ context.Context, slug string) (*Card, error) {
	for _, card := range repository.cards {
		if card.Slug == slug {
			return repository.hydrate(card), nil
		}
	}
	return nil, apperr.NotFound("Card")
}

func (repository *fakeRepository) FindByBizNumber(_ context.Context, bizNumber int) (*Card, error) {
	for _, card := range repository.cards {
		if card.BizNumber == bizNumber {
			return repository.hydrate(card), nil
		}
	}
	return nil, apperr.NotFound("Card")
}

func (repository *fakeRepository) ListByOwner(_ context.Context, ownerID string) ([]*Card, error) {
	cards := []*Card{}
	for _, card := range repository.cards {
		if card.OwnerID == ownerID {
			cards = append(cards, repository.hydrate(card))
		}
	}
	return cards, nil
}

func (repository *fakeRepository) ListLikedBy(_ context.Context, userID string) ([]*Card, error) {
	cards := []*Card{}
	for cardID, users := range repository.likes {
		if users[userID] {
			cards = append(cards, repository.hydrate(repository.cards[cardID]))
		}
	}
	return cards, nil
}

func (repository *fakeRepository) Create(_ context.Context, card *Card) error {
	for _, existing := range repository.cards {
		if existing.Slug == card.Slug || existing.BizNumber == card.BizNumber {
			return apperr.Conflict("Card identifier already in use")
		}
	}
	clone := *card
	repository.cards[card.ID] = &clone
	return nil
}

func (repository *fakeRepository) Update(_ context.Context, card *Card) error {
	if _, ok := repository.cards[card.ID]; !ok {
		return apperr.NotFound("Card")
	}
	clone := *card
	repository.cards[card.ID] = &clone
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := repository.cards[id]; !ok {
		return apperr.NotFound("Card")
	}
	delete(repository.cards, id)
	delete(repository.likes, id)
	return nil
}

func (repository *fakeRepository) AddLike(_ context.Context, cardID, userID string) error {
	if repository.likes[cardID] == nil {
		repository.likes[cardID] = map[string]bool{}
	}
	repository.likes[cardID][userID] = true
	return nil
}

func (repository *fakeRepository) RemoveLike(_ context.Context, cardID, userID string) error {
	delete(repository.likes[cardID], userID)
	return nil
}

// fakeCache is an in-memory Cache that counts hits for assertions.
type fakeCache struct {
	byID   map[string]*Card
	bySlug map[string]*Card
	hits   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{byID: map[string]*Card{}, bySlug: map[string]*Card{}}
}

func (cache *fakeCache) GetByID(_ context.Context, id string) (*Card, error) {
	if card, ok := cache.byID[id]; ok {
		cache.hits++
		return card, nil
	}
	return nil, nil
}

func (cache *fakeCache) GetBySlug(_ context.Context, slug string) (*Card, error) {
	if card, ok := cache.bySlug[slug]; ok {
		cache.hits++
		return card, nil
	}
	return nil, nil
}

func (cache *fakeCache) Set(_ context.Context, card *Card) error {
	cache.byID[card.ID] = card
	cache.bySlug[card.Slug] = card
	return nil
}

func (cache *fakeCache) Invalidate(_ context.Context, id, slug string) error {
	delete(cache.byID, id)
	delete(cache.bySlug, slug)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepository, *fakeCache) {
	t.Helper()
	repository := newFakeRepository()
	cache := newFakeCache()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, cache, logger), repository, cache
}

func sampleInput(title string) CreateCardInput {
	return CreateCardInput{
		Title:       title,
		Subtitle:    "Best espresso in town",
		Description: "A cozy neighborhood coffee shop.",
		Phone:       "050-123-4567",
		Email:       "hello@coffee.example.com",
		Address:     Address{Country: "Israel", City: "Haifa", Street: "HaNassi", HouseNumber: 7, Zip: "31000"},
	}
}

/*
TestService_CreateCard verifies publishing assigns a slug and a seven-digit
business number.
*/
func TestService_CreateCard(t *testing.T) {
	service, repository, _ := newTestService(t)

	card, err := service.CreateCard(context.Background(), "owner-1", sampleInput("Coffee Corner"))
	require.NoError(t, err)

	assert.Equal(t, "coffee-corner", card.Slug)
	assert.GreaterOrEqual(t, card.BizNumber, 1_000_000)
	assert.LessOrEqual(t, card.BizNumber, 9_999_999)
	assert.Equal(t, "owner-1", card.OwnerID)
	assert.Empty(t, card.Likes)
	assert.Len(t, repository.cards, 1)
}

/*
TestService_CreateCard_BizNumberCollision verifies allocation skips numbers
the directory already holds.
*/
func TestService_CreateCard_BizNumberCollision(t *testing.T) {
	service, _, _ := newTestService(t)

	numbers := []int{5_555_555, 5_555_555, 6_666_666}
	service.randomBizNumber = func() int {
		n := numbers[0]
		if len(numbers) > 1 {
			numbers = numbers[1:]
		}
		return n
	}

	first, err := service.CreateCard(context.Background(), "owner-1", sampleInput("First Shop"))
	require.NoError(t, err)
	assert.Equal(t, 5_555_555, first.BizNumber)

	second, err := service.CreateCard(context.Background(), "owner-1", sampleInput("Second Shop"))
	require.NoError(t, err)
	assert.Equal(t, 6_666_666, second.BizNumber)
}

/*
TestService_CreateCard_SlugCollision verifies a duplicate title gets the
business number appended on retry.
*/
func TestService_CreateCard_SlugCollision(t *testing.T) {
	service, _, _ := newTestService(t)

	first, err := service.CreateCard(context.Background(), "owner-1", sampleInput("Coffee Corner"))
	require.NoError(t, err)
	assert.Equal(t, "coffee-corner", first.Slug)

	second, err := service.CreateCard(context.Background(), "owner-2", sampleInput("Coffee Corner"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "coffee-corner-")
}

// racingRepository simulates another create landing between the number
// availability check and the insert: the first check reports the number
// free even though the directory holds it.
type racingRepository struct {
	*fakeRepository
	lookups int
}

func (repository *racingRepository) FindByBizNumber(ctx context.Context, bizNumber int) (*Card, error) {
	repository.lookups++
	if repository.lookups == 1 {
		return nil, apperr.NotFound("Card")
	}
	return repository.fakeRepository.FindByBizNumber(ctx, bizNumber)
}

/*
TestService_CreateCard_BizNumberRace verifies a concurrent create taking
the allocated number does not surface as a conflict: the retry picks a
fresh number and succeeds.
*/
func TestService_CreateCard_BizNumberRace(t *testing.T) {
	repository := &racingRepository{fakeRepository: newFakeRepository()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(repository, newFakeCache(), logger)

	// The number the racing create already holds.
	taken := &Card{ID: "card-0", OwnerID: "owner-0", Title: "Other Shop", Slug: "other-shop", BizNumber: 7_777_777}
	repository.cards[taken.ID] = taken

	numbers := []int{7_777_777, 8_888_888}
	service.randomBizNumber = func() int {
		n := numbers[0]
		if len(numbers) > 1 {
			numbers = numbers[1:]
		}
		return n
	}

	card, err := service.CreateCard(context.Background(), "owner-1", sampleInput("Coffee Corner"))
	require.NoError(t, err)
	assert.Equal(t, 8_888_888, card.BizNumber)
	assert.Equal(t, "coffee-corner-8888888", card.Slug)
}

/*
TestService_UpdateCard_Authorization verifies only the owner or an admin
can edit.
*/
func TestService_UpdateCard_Authorization(t *testing.T) {
	service, _, _ := newTestService(t)
	card, err := service.CreateCard(context.Background(), "owner-1", sampleInput("Coffee Corner"))
	require.NoError(t, err)

	stranger := &sec.AuthClaims{UserID: "someone-else"}
	_, err = service.UpdateCard(context.Background(), stranger, card.ID, UpdateCardInput{
		Subtitle: pointer.To("Hijacked"),
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	admin := &sec.AuthClaims{UserID: "someone-else", IsAdmin: true}
	updated, err := service.UpdateCard(context.Background(), admin, card.ID, UpdateCardInput{
		Subtitle: pointer.To("Under new management"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Under new management", updated.Subtitle)
	assert.Equal(t, card.Slug, updated.Slug)
}

/*
TestService_ToggleLike verifies the like flips on and off, updating the
hydrated like list.
*/
func TestService_ToggleLike(t *testing.T) {
	service, _, _ := newTestService(t)
	card, err := service.CreateCard(context.Background(), "owner-1", sampleInput("Coffee Corner"))
	require.NoError(t, err)

	liked, err := service.ToggleLike(context.Background(), card.ID, "fan-1")
	require.NoError(t, err)
	assert.True(t, liked.LikedBy("fan-1"))

	unliked, err := service.ToggleLike(context.Background(), card.ID, "fan-1")
	require.NoError(t, err)
	assert.False(t, unliked.LikedBy("fan-1"))
}

/*
TestService_GetCard_Cache verifies the second read is served from the
cache and a write invalidates it.
*/
func TestService_GetCard_Cache(t *testing.T) {
	service, repository, cache := newTestService(t)
	card, err := service.CreateCard(context.Background(), "owner-1", sampleInput("Coffee Corner"))
	require.NoError(t, err)

	_, err = service.GetCard(context.Background(), card.ID)
	require.NoError(t, err)
	findsAfterFirst := repository.finds

	_, err = service.GetCard(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, findsAfterFirst, repository.finds)
	assert.Equal(t, 1, cache.hits)

	owner := &sec.AuthClaims{UserID: "owner-1"}
	_, err = service.UpdateCard(context.Background(), owner, card.ID, UpdateCardInput{
		Subtitle: pointer.To("Refreshed"),
	})
	require.NoError(t, err)

	fromCache, err := cache.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Nil(t, fromCache)
}

/*
TestService_ChangeBizNumber verifies renumbering assigns a fresh unique
number.
*/
func TestService_ChangeBizNumber(t *testing.T) {
	service, _, _ := newTestService(t)
	service.randomBizNumber = func() int { return 3_333_333 }
	card, err := service.CreateCard(context.Background(), "owner-1", sampleInput("Coffee Corner"))
	require.NoError(t, err)

	service.randomBizNumber = func() int { return 4_444_444 }

	renumbered, err := service.ChangeBizNumber(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, 4_444_444, renumbered.BizNumber)
	assert.NotEqual(t, card.BizNumber, renumbered.BizNumber)
}

/*
TestService_DeleteCard verifies deletion and the owner guard.
*/
func TestService_DeleteCard(t *testing.T) {
	service, repository, _ := newTestService(t)
	card, err := service.CreateCard(context.Background(), "owner-1", sampleInput("Coffee Corner"))
	require.NoError(t, err)

	stranger := &sec.AuthClaims{UserID: "someone-else"}
	err = service.DeleteCard(context.Background(), stranger, card.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	owner := &sec.AuthClaims{UserID: "owner-1"}
	require.NoError(t, service.DeleteCard(context.Background(), owner, card.ID))
	assert.Empty(t, repository.cards)
}
