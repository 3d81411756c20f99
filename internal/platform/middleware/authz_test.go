// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcardo/cardo/internal/platform/ctxutil"
	"github.com/getcardo/cardo/internal/platform/middleware"
	"github.com/getcardo/cardo/internal/platform/sec"
)

// stubVerifier resolves a fixed set of tokens to claims.
type stubVerifier struct {
	claims map[string]*sec.AuthClaims
}

func (verifier *stubVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if c, ok := verifier.claims[tokenStr]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// echoUser writes 200 and reports whether claims were injected.
func echoUser(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := middleware.GetUser(request.Context())
		if wantUserID == "" {
			assert.Nil(t, claims)
		} else {
			require.NotNil(t, claims)
			assert.Equal(t, wantUserID, claims.UserID)
		}
		writer.WriteHeader(http.StatusOK)
	})
}

func newAuthenticated(verifier middleware.TokenVerifier, next http.Handler) http.Handler {
	return middleware.Authenticate(verifier)(next)
}

/*
TestAuthenticate_Anonymous verifies a request without an Authorization
header passes through with no claims in context.
*/
func TestAuthenticate_Anonymous(t *testing.T) {
	handler := newAuthenticated(&stubVerifier{}, echoUser(t, ""))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestAuthenticate_ValidToken verifies claims land in the request context.
*/
func TestAuthenticate_ValidToken(t *testing.T) {
	verifier := &stubVerifier{claims: map[string]*sec.AuthClaims{
		"good-token": {UserID: "user-1"},
	}}
	handler := newAuthenticated(verifier, echoUser(t, "user-1"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good-token")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestAuthenticate_Rejections verifies malformed headers and bad tokens abort
with 401 before the handler runs.
*/
func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"bad_scheme", "Basic abc123"},
		{"missing_token", "Bearer"},
		{"unknown_token", "Bearer forged-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := newAuthenticated(&stubVerifier{}, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Authorization", tt.header)

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.False(t, called)
		})
	}
}

// serveWithClaims runs a guarded handler with optional claims pre-injected.
func serveWithClaims(guard func(http.Handler) http.Handler, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	handler := guard(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestRequireAuth verifies the anonymous/authenticated gate.
*/
func TestRequireAuth(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serveWithClaims(middleware.RequireAuth, nil).Code)
	assert.Equal(t, http.StatusOK, serveWithClaims(middleware.RequireAuth, &sec.AuthClaims{UserID: "u1"}).Code)
}

/*
TestRequireAdmin verifies anonymous, member, and admin outcomes.
*/
func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serveWithClaims(middleware.RequireAdmin, nil).Code)
	assert.Equal(t, http.StatusForbidden, serveWithClaims(middleware.RequireAdmin, &sec.AuthClaims{UserID: "u1"}).Code)
	assert.Equal(t, http.StatusOK, serveWithClaims(middleware.RequireAdmin, &sec.AuthClaims{UserID: "u1", IsAdmin: true}).Code)
}

/*
TestRequireBusiness verifies anonymous, member, and business outcomes.
*/
func TestRequireBusiness(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serveWithClaims(middleware.RequireBusiness, nil).Code)
	assert.Equal(t, http.StatusForbidden, serveWithClaims(middleware.RequireBusiness, &sec.AuthClaims{UserID: "u1"}).Code)
	assert.Equal(t, http.StatusOK, serveWithClaims(middleware.RequireBusiness, &sec.AuthClaims{UserID: "u1", IsBusiness: true}).Code)
}
