// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

/*
Package auth implements the user identity layer of the Cardo platform.

It defines the core domain entity (User) and the logic for registration,
credential verification, and the brute-force lockout lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// Name is the structured personal name carried by every account.
type Name struct {
	First  string `json:"first"`
	Middle string `json:"middle,omitempty"`
	Last   string `json:"last"`
}

// Address is the postal address of an account or a published card.
type Address struct {
	State       string `json:"state,omitempty"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber int    `json:"house_number"`
	Zip         string `json:"zip"`
}

// Image is a URL/alt-text pair for avatars and card artwork.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// User represents a registered member of the Cardo directory.
//
// # Security
//
// PasswordHash, LoginAttempts, and BlockedUntil are omitted from JSON: the
// hash must never reach a client, and the lockout counters are internal
// state owned exclusively by the login flow.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Name          Name       `json:"name"`
	Phone         string     `json:"phone"`
	Address       Address    `json:"address"`
	Image         Image      `json:"image"`
	IsBusiness    bool       `json:"is_business"`
	IsAdmin       bool       `json:"is_admin"`
	LoginAttempts int        `json:"-"`
	BlockedUntil  *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SanitizedUser is the registration response projection: the subset of a
// fresh account that is safe to echo back (never the hash, never the
// lockout state).
type SanitizedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  Name   `json:"name"`
}

// Sanitized returns the client-safe projection of the user.
func (u *User) Sanitized() SanitizedUser {
	return SanitizedUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

// IsLocked reports whether the account is inside its lockout window at the
// given instant.
func (u *User) IsLocked(at time.Time) bool {
	return u.BlockedUntil != nil && u.BlockedUntil.After(at)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFirstName   = "name.first"
	FieldLastName    = "name.last"
	FieldPhone       = "phone"
	FieldCountry     = "address.country"
	FieldCity        = "address.city"
	FieldStreet      = "address.street"
	FieldHouseNumber = "address.house_number"
	FieldImageURL    = "image.url"
	FieldToken       = "token"
	FieldUser        = "user"
)
