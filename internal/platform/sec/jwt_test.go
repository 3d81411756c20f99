// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcardo/cardo/internal/platform/sec"
)

func newTestTokenService(t *testing.T, ttl time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("test-secret-at-least-32-characters", "getcardo.app", ttl)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies a generated token carries the identity
and role flags back through verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, time.Hour)

	token, err := service.GenerateAccessToken("user-123", true, false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "getcardo.app", claims.Issuer)
	assert.True(t, claims.IsBusiness)
	assert.False(t, claims.IsAdmin)
}

/*
TestTokenService_EmptySecret verifies construction fails loudly without a
signing secret.
*/
func TestTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "getcardo.app", time.Hour)
	require.Error(t, err)
}

/*
TestTokenService_TamperedToken verifies signature validation rejects a
modified payload.
*/
func TestTokenService_TamperedToken(t *testing.T) {
	service := newTestTokenService(t, time.Hour)

	token, err := service.GenerateAccessToken("user-123", false, false)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = service.VerifyToken(tampered)
	require.Error(t, err)
}

/*
TestTokenService_WrongSecret verifies a token signed elsewhere is rejected.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	issuing, err := sec.NewTokenService("one-secret-that-is-long-enough!!", "getcardo.app", time.Hour)
	require.NoError(t, err)
	verifying, err := sec.NewTokenService("a-different-secret-entirely!!!!!", "getcardo.app", time.Hour)
	require.NoError(t, err)

	token, err := issuing.GenerateAccessToken("user-123", false, false)
	require.NoError(t, err)

	_, err = verifying.VerifyToken(token)
	require.Error(t, err)
}

/*
TestTokenService_Expired verifies an expired token no longer validates.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t, -time.Minute)

	token, err := service.GenerateAccessToken("user-123", false, false)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	require.Error(t, err)
}

/*
TestTokenService_Garbage verifies junk input fails cleanly.
*/
func TestTokenService_Garbage(t *testing.T) {
	service := newTestTokenService(t, time.Hour)

	for _, junk := range []string{"", "not-a-token", "a.b.c"} {
		_, err := service.VerifyToken(junk)
		assert.Error(t, err)
	}
}
