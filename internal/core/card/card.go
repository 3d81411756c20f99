// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

/*
Package card manages the business-card directory at the heart of Cardo.

It handles the lifecycle of published cards, from creation by business
members through discovery, likes, and administrative renumbering.

# Core Responsibility

  - Directory: Defines the [Card] entity and its metadata.
  - Social: Manages per-user likes on cards.
  - Identity: Allocates the unique seven-digit business number and the
    human-readable slug used for public lookups.

Ownership rules live here: a card can only be modified by the member who
published it or by an administrator.
*/
package card

import "time"

// # Core Entities

// Address is the physical location printed on a card.
type Address struct {
	State       string `json:"state,omitempty"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber int    `json:"house_number"`
	Zip         string `json:"zip"`
}

// Image is the artwork shown alongside a card.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Card represents one published business card in the directory.
//
// BizNumber is a unique seven-digit identifier assigned at creation and
// changeable only by administrators. Slug is derived from the title at
// creation and stays stable afterwards so shared links never break.
type Card struct {
	ID          string    `json:"id"` // UUIDv7
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Web         string    `json:"web,omitempty"`
	Image       Image     `json:"image"`
	Address     Address   `json:"address"`
	BizNumber   int       `json:"biz_number"`
	Likes       []string  `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LikedBy reports whether the given user has liked this card.
func (card *Card) LikedBy(userID string) bool {
	for _, id := range card.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// # Search & Filtering

// Filter holds parameters for searching and listing cards.
type Filter struct {
	Query string `json:"q"` // Matches title and subtitle
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldSubtitle    = "subtitle"
	FieldDescription = "description"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldWeb         = "web"
	FieldImageURL    = "image.url"
	FieldCountry     = "address.country"
	FieldCity        = "address.city"
	FieldStreet      = "address.street"
	FieldHouseNumber = "address.house_number"
)
