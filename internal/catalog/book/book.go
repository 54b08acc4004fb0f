// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

/*
Package book defines the core domain entities for the Bookden catalogue.

It manages the lifecycle of catalogued publications including metadata,
reader ratings, written reviews, and illustration galleries.

Core Responsibility:

  - Catalogue: Defines books with structured genre/character/keyword lists.
  - Moderation: Manages per-book protection levels gating who may edit content.
  - Community: Tracks one rating and one review per (user, book) pair.

This package acts as the source of truth for all content-related data models.
*/
package book

import "time"

// # Domain Enums

// Protection represents the edit-protection level of a book.
//
// Only superusers may change this value; it gates which identities are
// allowed to modify a book's content.
type Protection string

const (
	// ProtectionNone means anyone authenticated may edit the book.
	ProtectionNone Protection = "no_protection"

	// ProtectionPending marks a book queued for a moderation decision.
	ProtectionPending Protection = "pending_protection"

	// ProtectionSemi restricts edits to established contributors.
	ProtectionSemi Protection = "semi_protection"

	// ProtectionExtended restricts edits to long-standing accounts.
	ProtectionExtended Protection = "extended_protection"

	// ProtectionTemplate marks the book's structure itself as protected.
	ProtectionTemplate Protection = "template_protection"

	// ProtectionFull restricts edits to superusers.
	ProtectionFull Protection = "full_protection"
)

// IsValid reports whether p is a recognised [Protection] value.
func (p Protection) IsValid() bool {
	switch p {
	case
		ProtectionNone,
		ProtectionPending,
		ProtectionSemi,
		ProtectionExtended,
		ProtectionTemplate,
		ProtectionFull:
		return true
	}
	return false
}

// ProtectionValues returns all recognised protection levels as strings,
// in escalation order.
func ProtectionValues() []string {
	return []string{
		string(ProtectionNone),
		string(ProtectionPending),
		string(ProtectionSemi),
		string(ProtectionExtended),
		string(ProtectionTemplate),
		string(ProtectionFull),
	}
}

// # Core Entities

// Book is the central aggregate of the Bookden domain.
// It represents a single catalogued publication.
type Book struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Synopsis   string     `json:"synopsis"`
	CoverKey   string     `json:"-"`         // Object storage key; clients see CoverURL
	CoverURL   string     `json:"cover_url"` // Public media URL, derived from CoverKey
	ISBN10     string     `json:"isbn10,omitempty"`
	ISBN13     string     `json:"isbn13,omitempty"`
	Genres     []string   `json:"genres"`
	Characters []string   `json:"characters"`
	Keywords   []string   `json:"keywords"`
	Protection Protection `json:"protection"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Rating is a single reader's 1-5 star score for a book.
// At most one rating exists per (user, book) pair.
type Rating struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Review is a single reader's written critique of a book.
// At most one review exists per (user, book) pair; it is edited in place,
// never duplicated.
type Review struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Illustration is a gallery image bound to exactly one book.
type Illustration struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	ImageKey  string    `json:"-"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// # Aggregates & Projections

// Detail is the full book-detail view: the book plus its gallery, its
// reviews, and (when the viewer is authenticated) the viewer's own score.
type Detail struct {
	Book          *Book           `json:"book"`
	Illustrations []*Illustration `json:"illustrations"`
	Reviews       []*Review       `json:"reviews"`

	// OwnScore is the requesting user's rating for this book, when one exists.
	OwnScore *int `json:"own_score,omitempty"`
}

// Data is the minimal machine-readable projection of a book.
//
// Its wire shape is consumed by external integrations and must stay stable:
// a single genre string (the first of the list), not the full slice.
type Data struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
	Cover    string `json:"cover"`
	Genre    string `json:"genre"`
}

// # Validation Limits

const (
	// MaxReviewTitleLen bounds the review headline.
	MaxReviewTitleLen = 175

	// MaxReviewTextLen bounds the review body.
	MaxReviewTextLen = 500

	// MinScore and MaxScore bound both ratings and review scores.
	MinScore = 1
	MaxScore = 5
)

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID         = "id"
	FieldTitle      = "title"
	FieldAuthor     = "author"
	FieldSynopsis   = "synopsis"
	FieldCover      = "cover"
	FieldISBN10     = "isbn10"
	FieldISBN13     = "isbn13"
	FieldGenres     = "genres"
	FieldCharacters = "characters"
	FieldKeywords   = "keywords"
	FieldProtection = "protection"
	FieldBookID     = "book_id"
	FieldRating     = "rating"
	FieldText       = "text"
	FieldIDs        = "ids"
	FieldImages     = "images"
	FieldMessage    = "message"
)
