// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package card

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/getcardo/cardo/internal/platform/middleware"
	requestutil "github.com/getcardo/cardo/internal/platform/request"
	"github.com/getcardo/cardo/internal/platform/respond"
	"github.com/getcardo/cardo/internal/platform/validate"
	"github.com/getcardo/cardo/pkg/pagination"
)

// Handler implements the HTTP layer for the card directory.
type Handler struct {
	cardService *Service
}

// NewHandler constructs a new card [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{cardService: service}
}

// RegisterRoutes attaches the card endpoints to the cards resource.
//
// # Endpoints
//   - GET    /                     : Public directory browse (paginated, searchable).
//   - GET    /{id}                 : Public single-card read.
//   - GET    /by-slug/{slug}       : Public single-card read by slug.
//   - GET    /my-cards             : Caller's published cards.
//   - GET    /liked                : Cards the caller has liked.
//   - POST   /                     : Publish a card (business members only).
//   - PUT    /{id}                 : Edit a card (owner or admin).
//   - PATCH  /{id}/like            : Toggle the caller's like.
//   - PATCH  /{id}/biz-number      : Assign a fresh business number (admin only).
//   - DELETE /{id}                 : Remove a card (owner or admin).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public discovery
	router.Get("/", handler.list)
	router.Get("/by-slug/{slug}", handler.getBySlug)
	router.Get("/{id}", handler.get)

	// Authenticated surface
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/my-cards", handler.myCards)
		r.Get("/liked", handler.likedCards)
		r.Patch("/{id}/like", handler.toggleLike)

		r.With(middleware.RequireBusiness).Post("/", handler.create)

		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)

		r.With(middleware.RequireAdmin).Patch("/{id}/biz-number", handler.changeBizNumber)
	})
}

// # Public Endpoints

/*
GET /api/v1/cards.

Description: Browses the public directory with optional q= search over
title and subtitle, plus standard page/limit parameters.

Response:
  - 200: []Card + Meta: One page of the directory
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Query: request.URL.Query().Get("q")}

	cards, metadata, err := handler.cardService.ListCards(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, cards, metadata)
}

/*
GET /api/v1/cards/{id}.

Response:
  - 200: Card: Hydrated card with its like list
  - 404: ErrNotFound: No such card
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	card, err := handler.cardService.GetCard(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, card)
}

/*
GET /api/v1/cards/by-slug/{slug}.

Response:
  - 200: Card: Hydrated card
  - 404: ErrNotFound: No such card
*/
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	card, err := handler.cardService.GetCardBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, card)
}

// # Member Endpoints

/*
GET /api/v1/cards/my-cards.

Response:
  - 200: []Card: Every card published by the caller
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) myCards(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cards, err := handler.cardService.ListMyCards(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, cards)
}

/*
GET /api/v1/cards/liked.

Response:
  - 200: []Card: Every card the caller has liked
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) likedCards(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cards, err := handler.cardService.ListLikedCards(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, cards)
}

/*
PATCH /api/v1/cards/{id}/like.

Description: Flips the caller's like. The response carries the refreshed
like list so clients can render the new state without a second fetch.

Response:
  - 200: Card: The card with its updated likes
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: No such card
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	card, err := handler.cardService.ToggleLike(request.Context(), requestutil.ID(request, "id"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, card)
}

// # Publishing Endpoints

// createCardRequest defines the expected JSON payload for publishing.
type createCardRequest struct {
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Description string  `json:"description"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Web         string  `json:"web"`
	Image       Image   `json:"image"`
	Address     Address `json:"address"`
}

func (input createCardRequest) validate() error {
	v := &validate.Validator{}
	v.Required(FieldTitle, input.Title).
		MinLen(FieldTitle, input.Title, 2).
		MaxLen(FieldTitle, input.Title, 256).
		Required(FieldSubtitle, input.Subtitle).
		MaxLen(FieldSubtitle, input.Subtitle, 256).
		Required(FieldDescription, input.Description).
		MaxLen(FieldDescription, input.Description, 1024).
		Required(FieldPhone, input.Phone).
		Phone(FieldPhone, input.Phone).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		URL(FieldWeb, input.Web).
		URL(FieldImageURL, input.Image.URL).
		Required(FieldCountry, input.Address.Country).
		Required(FieldCity, input.Address.City).
		Required(FieldStreet, input.Address.Street).
		Range(FieldHouseNumber, input.Address.HouseNumber, 1, 99999999)
	return v.Err()
}

/*
POST /api/v1/cards.

Description: Publishes a new card for the calling business member. The
slug and the unique seven-digit business number are assigned server-side.

Request:
  - body: createCardRequest

Response:
  - 201: Card: The published card
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is not a business member
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createCardRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	card, err := handler.cardService.CreateCard(request.Context(), userID, CreateCardInput{
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Phone:       input.Phone,
		Email:       input.Email,
		Web:         input.Web,
		Image:       input.Image,
		Address:     input.Address,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, card)
}

// updateCardRequest defines the expected JSON payload for edits.
// Absent fields keep their stored values.
type updateCardRequest struct {
	Title       *string  `json:"title"`
	Subtitle    *string  `json:"subtitle"`
	Description *string  `json:"description"`
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
	Web         *string  `json:"web"`
	Image       *Image   `json:"image"`
	Address     *Address `json:"address"`
}

func (input updateCardRequest) validate() error {
	v := &validate.Validator{}
	if input.Title != nil {
		v.Required(FieldTitle, *input.Title).MinLen(FieldTitle, *input.Title, 2).MaxLen(FieldTitle, *input.Title, 256)
	}
	if input.Subtitle != nil {
		v.Required(FieldSubtitle, *input.Subtitle).MaxLen(FieldSubtitle, *input.Subtitle, 256)
	}
	if input.Description != nil {
		v.MaxLen(FieldDescription, *input.Description, 1024)
	}
	if input.Phone != nil {
		v.Required(FieldPhone, *input.Phone).Phone(FieldPhone, *input.Phone)
	}
	if input.Email != nil {
		v.Required(FieldEmail, *input.Email).Email(FieldEmail, *input.Email)
	}
	if input.Web != nil {
		v.URL(FieldWeb, *input.Web)
	}
	if input.Image != nil {
		v.URL(FieldImageURL, input.Image.URL)
	}
	if input.Address != nil {
		v.Required(FieldCountry, input.Address.Country)
		v.Required(FieldCity, input.Address.City)
		v.Required(FieldStreet, input.Address.Street)
		v.Range(FieldHouseNumber, input.Address.HouseNumber, 1, 99999999)
	}
	return v.Err()
}

/*
PUT /api/v1/cards/{id}.

Description: Edits a published card. Only the owner or an administrator
may edit; the ownership check runs in the service against the stored row.

Request:
  - body: updateCardRequest (Partial JSON)

Response:
  - 200: Card: The updated card
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is neither the owner nor an admin
  - 404: ErrNotFound: No such card
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateCardRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	card, err := handler.cardService.UpdateCard(request.Context(), claims, requestutil.ID(request, "id"), UpdateCardInput{
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Phone:       input.Phone,
		Email:       input.Email,
		Web:         input.Web,
		Image:       input.Image,
		Address:     input.Address,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, card)
}

/*
DELETE /api/v1/cards/{id}.

Response:
  - 204: No Content: Card removed
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is neither the owner nor an admin
  - 404: ErrNotFound: No such card
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.cardService.DeleteCard(request.Context(), claims, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Admin Endpoints

/*
PATCH /api/v1/cards/{id}/biz-number.

Description: Assigns a fresh unique business number to a card.

Response:
  - 200: Card: The card with its new number
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is not an admin
  - 404: ErrNotFound: No such card
*/
func (handler *Handler) changeBizNumber(writer http.ResponseWriter, request *http.Request) {
	card, err := handler.cardService.ChangeBizNumber(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, card)
}
