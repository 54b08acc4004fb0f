// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"context"

	"github.com/vantran-dev/bookden/internal/platform/validate"
)

// # Rating Use Cases

/*
RateBook records or replaces the user's score for a book.

Description: Upsert semantics. Submitting a second score for the same book
updates the existing row in place; exactly one rating row ever exists per
(user, book) pair. The persisted score is returned for the API's
confirmation payload.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - bookID: int64
  - score: int (1-5)

Returns:
  - int: The persisted score
  - error: Validation, NotFound (unknown book), or repository errors
*/
func (service *Service) RateBook(context context.Context, userID string, bookID int64, score int) (int, error) {
	validator := &validate.Validator{}
	validator.Range(FieldRating, score, MinScore, MaxScore)

	if err := validator.Err(); err != nil {
		return 0, err
	}

	// Rating an unknown book is a hard NotFound.
	if _, err := service.bookRepo.FindByID(context, bookID); err != nil {
		return 0, err
	}

	return service.ratingRepo.Upsert(context, userID, bookID, score)
}

/*
UnrateBook removes the user's score for a book.

Description: Removing a rating that does not exist returns NotFound, which
the API layer translates into its explicit "does not exist" payload rather
than a hard failure.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - bookID: int64

Returns:
  - error: NotFound when no rating exists, or repository errors
*/
func (service *Service) UnrateBook(context context.Context, userID string, bookID int64) error {
	return service.ratingRepo.Delete(context, userID, bookID)
}
