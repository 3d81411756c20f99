// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

package sec

import "github.com/getcardo/cardo/internal/platform/apperr"

// # Authorization Guards
//
// Guards are pure predicates evaluated after authentication. Each one is a
// standalone boolean gate over [AuthClaims]; they compose in any order and a
// route may stack several — all must pass.

// RequireAdmin passes only for administrator accounts.
func RequireAdmin(claims *AuthClaims) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !claims.IsAdmin {
		return apperr.Forbidden("Administrator access required")
	}
	return nil
}

// RequireBusiness passes only for business-tier accounts.
func RequireBusiness(claims *AuthClaims) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !claims.IsBusiness {
		return apperr.Forbidden("Business account required")
	}
	return nil
}

// RequireSelfOrAdmin passes if the caller is the target user or an admin.
func RequireSelfOrAdmin(claims *AuthClaims, targetUserID string) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if claims.UserID != targetUserID && !claims.IsAdmin {
		return apperr.Forbidden("You may only access your own account")
	}
	return nil
}

// RequireOwnerOrAdmin passes if the caller owns the resource or is an admin.
//
// The resource owner ID is resolved by the resource's own service (e.g. the
// card store) before this gate runs — guards never touch storage themselves.
func RequireOwnerOrAdmin(claims *AuthClaims, resourceOwnerID string) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if claims.UserID != resourceOwnerID && !claims.IsAdmin {
		return apperr.Forbidden("You may only modify resources you own")
	}
	return nil
}
