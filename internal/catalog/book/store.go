// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import "context"

// # Storage Contracts

// Repository abstracts persistence for the [Book] aggregate root.
//
// # Implementations
//   - PostgresRepository: Production pgx-backed store.
//   - Test fakes: In-memory maps used by the service test suites.
type Repository interface {
	// List returns every book in the catalogue ordered by ascending ID.
	// The catalogue has no pagination; browsing is a full listing.
	List(context context.Context) ([]*Book, error)

	// FindByID returns a single book or a NotFound error.
	FindByID(context context.Context, bookID int64) (*Book, error)

	// Create persists a new book and populates its generated ID and timestamps.
	Create(context context.Context, book *Book) error

	// Update rewrites a book's editable fields. The cover and protection
	// columns are never touched by this method.
	Update(context context.Context, book *Book) error

	// UpdateProtection sets the protection level of a book.
	UpdateProtection(context context.Context, bookID int64, protection Protection) error
}

// RatingRepository abstracts persistence for reader scores.
//
// The store enforces UNIQUE (userid, bookid), so Upsert is a single atomic
// ON CONFLICT statement rather than a read-then-write sequence.
type RatingRepository interface {
	// Upsert inserts or updates the user's score for a book and returns
	// the persisted value.
	Upsert(context context.Context, userID string, bookID int64, score int) (int, error)

	// FindScore returns the user's score for a book, or NotFound.
	FindScore(context context.Context, userID string, bookID int64) (int, error)

	// Delete removes the user's rating for a book. Returns NotFound when
	// no rating exists.
	Delete(context context.Context, userID string, bookID int64) error
}

// ReviewRepository abstracts persistence for written reviews.
type ReviewRepository interface {
	// ListByBook returns a book's reviews, newest first.
	ListByBook(context context.Context, bookID int64) ([]*Review, error)

	// FindByUserAndBook returns the user's review for a book, or NotFound.
	FindByUserAndBook(context context.Context, userID string, bookID int64) (*Review, error)

	// Create persists a new review. A second review for the same
	// (user, book) pair fails with a Conflict error via the unique constraint.
	Create(context context.Context, review *Review) error

	// Update rewrites the title, text, and score of an existing review.
	Update(context context.Context, review *Review) error
}

// IllustrationRepository abstracts persistence for gallery images.
type IllustrationRepository interface {
	// ListByBook returns a book's illustrations ordered by ascending ID.
	ListByBook(context context.Context, bookID int64) ([]*Illustration, error)

	// CreateBatch inserts one row per image key inside a single transaction
	// and returns the created rows with generated IDs.
	CreateBatch(context context.Context, bookID int64, imageKeys []string) ([]*Illustration, error)

	// DeleteBatch removes the given illustrations inside a single
	// transaction. If any ID does not exist the whole batch is rolled back
	// and a NotFound error is returned. On success the deleted image keys
	// are returned so callers can clean up object storage.
	DeleteBatch(context context.Context, illustrationIDs []int64) ([]string, error)
}
