// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"net/http"

	requestutil "github.com/vantran-dev/bookden/internal/platform/request"
	"github.com/vantran-dev/bookden/internal/platform/respond"
	"github.com/vantran-dev/bookden/internal/platform/validate"
)

// # Review Workflow
//
// One review per (user, book) pair, moving through none → submitted →
// edited (repeatable). The GET endpoints mirror the form pages of the
// frontend: the creation form redirects to the edit form once a review
// exists, and the edit form redirects back to the book detail when there
// is nothing to edit.

type reviewRequest struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

/*
ReviewForm provides the review-creation context for a book.

GET /api/v1/books/{id}/review

Description: When the caller has already reviewed this book, the creation
form is not offered again; the client is redirected to the edit endpoint
instead (idempotent navigation, not an error).

Response:
  - 200: Book: Creation context for the form
  - 303: See Other → /api/v1/books/{id}/review/edit (review already exists)
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) reviewForm(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// An existing review sends the caller to the edit form.
	if _, err := handler.service.GetOwnReview(request.Context(), userID, bookID); err == nil {
		respond.SeeOther(writer, request, detailPath(bookID)+"/review/edit")
		return
	}

	respond.OK(writer, book)
}

/*
SubmitReview creates the caller's review for a book.

POST /api/v1/books/{id}/review

Description: A duplicate submission is rejected with a Conflict payload even
though the GET path already redirects — the POST guard closes the window
for clients that skipped the form.

Request:
  - Body: reviewRequest (Title ≤175, Text ≤500, Rating 1-5)

Response:
  - 303: See Other → /api/v1/books/{id}
  - 400: ValidationError: Field constraint violations
  - 404: ErrNotFound: Book not found
  - 409: ErrConflict: Review already exists for this pair
*/
func (handler *Handler) submitReview(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	_, err = handler.service.SubmitReview(request.Context(), userID, bookID, ReviewInput{
		Title: input.Title,
		Text:  input.Text,
		Score: input.Rating,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.SeeOther(writer, request, detailPath(bookID))
}

/*
EditReviewForm provides the review-edit context for a book.

GET /api/v1/books/{id}/review/edit

Description: Editing requires an existing review. When there is none, the
caller is redirected back to the book detail — a navigation no-op, not a
failure.

Response:
  - 200: Review: The caller's existing review
  - 303: See Other → /api/v1/books/{id} (no review to edit)
*/
func (handler *Handler) editReviewForm(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetOwnReview(request.Context(), userID, bookID)
	if err != nil {
		if isNotFound(err) {
			respond.SeeOther(writer, request, detailPath(bookID))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
EditReview updates the caller's existing review for a book.

PUT /api/v1/books/{id}/review/edit

Description: Same validation as creation. A missing review redirects to the
book detail instead of erroring, mirroring the edit form's behavior.

Request:
  - Body: reviewRequest (Title ≤175, Text ≤500, Rating 1-5)

Response:
  - 303: See Other → /api/v1/books/{id}
  - 400: ValidationError: Field constraint violations
*/
func (handler *Handler) editReview(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	_, err = handler.service.EditReview(request.Context(), userID, bookID, ReviewInput{
		Title: input.Title,
		Text:  input.Text,
		Score: input.Rating,
	})
	if err != nil {
		if isNotFound(err) {
			respond.SeeOther(writer, request, detailPath(bookID))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	respond.SeeOther(writer, request, detailPath(bookID))
}
