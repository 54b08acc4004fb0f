// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"context"

	"github.com/vantran-dev/bookden/internal/platform/apperr"
	"github.com/vantran-dev/bookden/internal/platform/validate"
)

// # Review Use Cases

// ReviewInput holds the fields of the review form.
type ReviewInput struct {
	Title string
	Text  string
	Score int
}

// validateReviewInput applies the shared field constraints of both the
// creation and the edit path.
func validateReviewInput(input ReviewInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxReviewTitleLen).
		Required(FieldText, input.Text).
		MaxLen(FieldText, input.Text, MaxReviewTextLen).
		Range(FieldRating, input.Score, MinScore, MaxScore)
	return validator.Err()
}

/*
GetOwnReview returns the user's review for a book, or NotFound.

Description: The review workflow is a per-(user, book) state machine:
none → submitted → edited (repeatable). This lookup tells the transport
layer which state the pair is in, so the creation endpoint can redirect
to the edit endpoint instead of offering a duplicate form.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - bookID: int64

Returns:
  - *Review: The existing review
  - error: ErrNotFound when the pair is still in the "none" state
*/
func (service *Service) GetOwnReview(context context.Context, userID string, bookID int64) (*Review, error) {
	return service.reviewRepo.FindByUserAndBook(context, userID, bookID)
}

/*
SubmitReview creates the user's review for a book.

Description: A duplicate submission is rejected with a Conflict even though
the GET path already redirects; the unique (user, book) constraint backs
this check at the data layer so racing submissions cannot slip through.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - bookID: int64
  - input: ReviewInput

Returns:
  - *Review: The created review
  - error: Validation, NotFound (unknown book), Conflict, or repository errors
*/
func (service *Service) SubmitReview(context context.Context, userID string, bookID int64, input ReviewInput) (*Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	if _, err := service.bookRepo.FindByID(context, bookID); err != nil {
		return nil, err
	}

	// Presentation-level duplicate check. The unique constraint in the
	// store is the real guard against concurrent duplicates.
	if _, err := service.reviewRepo.FindByUserAndBook(context, userID, bookID); err == nil {
		return nil, apperr.Conflict("You have already reviewed this book")
	}

	review := &Review{
		UserID: userID,
		BookID: bookID,
		Title:  input.Title,
		Text:   input.Text,
		Score:  input.Score,
	}

	if err := service.reviewRepo.Create(context, review); err != nil {
		return nil, err
	}

	return review, nil
}

/*
EditReview updates the user's existing review for a book.

Description: Editing requires an existing review; absence surfaces as
NotFound, which the page flow treats as a navigation no-op (redirect back
to the book detail) rather than a failure.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - bookID: int64
  - input: ReviewInput

Returns:
  - *Review: The updated review
  - error: Validation, NotFound, or repository errors
*/
func (service *Service) EditReview(context context.Context, userID string, bookID int64, input ReviewInput) (*Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	review, err := service.reviewRepo.FindByUserAndBook(context, userID, bookID)
	if err != nil {
		return nil, err
	}

	review.Title = input.Title
	review.Text = input.Text
	review.Score = input.Score

	if err := service.reviewRepo.Update(context, review); err != nil {
		return nil, err
	}

	return review, nil
}
