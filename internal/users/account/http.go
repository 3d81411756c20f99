// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

/*
Package account provides the HTTP delivery layer for user profile management.

It implements the RESTful interface for members to read and edit their own
accounts and for administrators to browse the roster.

# Security

Every endpoint requires an authenticated caller. Resource-level access is
self-or-admin: a member can only reach their own record unless the caller
holds the admin flag.
*/
package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/getcardo/cardo/internal/platform/middleware"
	requestutil "github.com/getcardo/cardo/internal/platform/request"
	"github.com/getcardo/cardo/internal/platform/respond"
	"github.com/getcardo/cardo/internal/platform/sec"
	"github.com/getcardo/cardo/internal/platform/validate"
	"github.com/getcardo/cardo/internal/users/auth"
	"github.com/getcardo/cardo/pkg/pagination"
	"github.com/getcardo/cardo/pkg/slice"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes attaches the account endpoints to the users resource.
//
// # Endpoints
//   - GET    /       : Admin roster browse (paginated).
//   - GET    /{id}   : Read one profile (self or admin).
//   - PUT    /{id}   : Full profile edit (self or admin).
//   - PATCH  /{id}   : Toggle the business flag (self or admin).
//   - DELETE /{id}   : Remove the account (self or admin).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.With(middleware.RequireAdmin).Get("/", handler.list)

		r.Get("/{id}", handler.get)
		r.Put("/{id}", handler.update)
		r.Patch("/{id}", handler.toggleBusiness)
		r.Delete("/{id}", handler.delete)
	})
}

// # Roster Endpoints

// rosterEntry is the compact admin-roster projection: enough to scan the
// member list without shipping full address and image payloads per row.
type rosterEntry struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       auth.Name `json:"name"`
	IsBusiness bool      `json:"is_business"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

/*
GET /api/v1/users.

Description: Lists every registered account for administrators, newest
first, with standard page/limit query parameters.

Response:
  - 200: []rosterEntry + Meta: One page of the roster
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, metadata, err := handler.accountService.ListProfiles(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	roster := slice.Map(users, func(user *auth.User) rosterEntry {
		return rosterEntry{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			IsBusiness: user.IsBusiness,
			IsAdmin:    user.IsAdmin,
			CreatedAt:  user.CreatedAt,
		}
	})

	respond.Paginated(writer, roster, metadata)
}

// # Profile Endpoints

/*
GET /api/v1/users/{id}.

Description: Retrieves one full profile. Members can only read themselves;
admins can read anyone.

Response:
  - 200: User: Fully hydrated profile
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is neither the owner nor an admin
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")
	if err := sec.RequireSelfOrAdmin(claims, targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), targetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateRequest defines the expected JSON payload for profile updates.
// Absent fields keep their stored values.
type updateRequest struct {
	Name    *auth.Name    `json:"name"`
	Phone   *string       `json:"phone"`
	Address *auth.Address `json:"address"`
	Image   *auth.Image   `json:"image"`
}

/*
PUT /api/v1/users/{id}.

Description: Applies profile changes to an account. Email, password, role
flags, and login security state are not editable through this endpoint.

Request:
  - body: updateRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is neither the owner nor an admin
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")
	if err := sec.RequireSelfOrAdmin(claims, targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Name != nil {
		v.Required(auth.FieldFirstName, input.Name.First)
		v.Required(auth.FieldLastName, input.Name.Last)
	}
	if input.Phone != nil {
		v.Required(auth.FieldPhone, *input.Phone).Phone(auth.FieldPhone, *input.Phone)
	}
	if input.Address != nil {
		v.Required(auth.FieldCountry, input.Address.Country)
		v.Required(auth.FieldCity, input.Address.City)
		v.Required(auth.FieldStreet, input.Address.Street)
	}
	if input.Image != nil {
		v.URL(auth.FieldImageURL, input.Image.URL)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), targetID, UpdateProfileInput{
		Name:    input.Name,
		Phone:   input.Phone,
		Address: input.Address,
		Image:   input.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/{id}.

Description: Flips the business flag on an account, granting or removing
the right to publish cards.

Response:
  - 200: User: The updated profile
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is neither the owner nor an admin
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) toggleBusiness(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")
	if err := sec.RequireSelfOrAdmin(claims, targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.ToggleBusiness(request.Context(), targetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{id}.

Description: Permanently removes an account and its published cards.

Response:
  - 204: No Content: Account deleted successfully
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is neither the owner nor an admin
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")
	if err := sec.RequireSelfOrAdmin(claims, targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
