// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/getcardo/cardo/internal/platform/request"
	"github.com/getcardo/cardo/internal/platform/respond"
	"github.com/getcardo/cardo/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the entry points of the user lifecycle.
//
// # Scope
//
// This handler owns the two anonymous endpoints of the users resource:
// account creation and login. Everything that requires an authenticated
// caller lives in the account package.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// RegisterRoutes attaches the authentication endpoints to the users resource.
//
// # Endpoints
//   - POST /       : Creates a new account.
//   - POST /login  : Authenticates and returns a JWT.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.register)
	router.Post("/login", handler.login)
}

// # Request Payloads

type registerRequest struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Name       Name    `json:"name"`
	Phone      string  `json:"phone"`
	Address    Address `json:"address"`
	Image      Image   `json:"image"`
	IsBusiness bool    `json:"is_business"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

/*
register handles the creation of a new user account.

POST /api/v1/users

Description: Validates input, hashes the password, and persists a new user
profile. The response echoes only the sanitized projection.

Request:
  - Body: registerRequest (Email, Password, Name, Phone, Address, Image, IsBusiness)

Response:
  - 201: SanitizedUser: ID, email, and name of the created account
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Required(FieldFirstName, input.Name.First).
		Required(FieldLastName, input.Name.Last).
		Required(FieldPhone, input.Phone).
		Phone(FieldPhone, input.Phone).
		Required(FieldCountry, input.Address.Country).
		Required(FieldCity, input.Address.City).
		Required(FieldStreet, input.Address.Street).
		URL(FieldImageURL, input.Image.URL)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:      input.Email,
		Password:   input.Password,
		Name:       input.Name,
		Phone:      input.Phone,
		Address:    input.Address,
		Image:      input.Image,
		IsBusiness: input.IsBusiness,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
login authenticates a user and returns a signed access token.

POST /api/v1/users/login

Description: Verifies credentials under the brute-force lockout policy and
issues a JWT on success.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: loginResponse: Signed token and sanitized user profile
  - 401: ErrUnauthorized: Invalid credentials
  - 423: ErrLocked: Account is inside its lockout window
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		Token: session.Token,
		User:  session.User,
	})
}
