// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/vantran-dev/bookden/internal/platform/request"
	"github.com/vantran-dev/bookden/internal/platform/respond"
	"github.com/vantran-dev/bookden/internal/platform/validate"
)

// # Rating API
//
// The rating endpoints speak the compact legacy wire format consumed by the
// frontend's star widget, bypassing the standard envelope:
//
//   - POST success:   {"success": "true", "score": <n>}
//   - DELETE success: {"success": "deleted"}
//   - DELETE missing: {"error": "rating does not exist"}
//   - unauthenticated: {"error": "login_required"} with status 401
//
// These shapes are load-bearing; the widget string-matches on them.

// RatingRoutes returns a [chi.Router] with the flat rating API, intended to
// be mounted at /api/v1/ratings.
//
// The routes sit outside [middleware.RequireAuth] because unauthenticated
// callers must receive the widget's "login_required" payload, not the
// standard envelope.
func (handler *Handler) RatingRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.rateBook)
	router.Delete("/", handler.unrateBook)

	return router
}

type rateRequest struct {
	BookID int64 `json:"book_id"`
	Rating int   `json:"rating"`
}

type unrateRequest struct {
	BookID int64 `json:"book_id"`
}

// requireRatingUser resolves the caller's user ID, writing the widget's
// login-required payload when the request is anonymous.
func requireRatingUser(writer http.ResponseWriter, request *http.Request) (string, bool) {
	claims := requestutil.Claims(request)
	if claims == nil {
		respond.JSON(writer, http.StatusUnauthorized, map[string]string{
			"error": "login_required",
		})
		return "", false
	}
	return claims.UserID, true
}

/*
RateBook upserts the caller's score for a book.

POST /api/v1/ratings

Description: Submitting a second score for the same book replaces the first;
exactly one rating row exists per (user, book) pair afterwards. The response
confirms the persisted score.

Request:
  - Body: {"book_id": <id>, "rating": <1-5>}

Response:
  - 200: {"success": "true", "score": <n>}
  - 400: ValidationError: Score out of range
  - 401: {"error": "login_required"}
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) rateBook(writer http.ResponseWriter, request *http.Request) {
	userID, ok := requireRatingUser(writer, request)
	if !ok {
		return
	}

	var input rateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	score, err := handler.service.RateBook(request.Context(), userID, input.BookID, input.Rating)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		"success": "true",
		"score":   score,
	})
}

/*
UnrateBook removes the caller's score for a book.

DELETE /api/v1/ratings

Description: Removing an absent rating is an explicit "does not exist"
condition, not a hard failure; the widget surfaces it inline. Status stays
200 for both outcomes, matching what the widget expects.

Request:
  - Body: {"book_id": <id>}

Response:
  - 200: {"success": "deleted"} or {"error": "rating does not exist"}
  - 401: {"error": "login_required"}
*/
func (handler *Handler) unrateBook(writer http.ResponseWriter, request *http.Request) {
	userID, ok := requireRatingUser(writer, request)
	if !ok {
		return
	}

	var input unrateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err := handler.service.UnrateBook(request.Context(), userID, input.BookID)
	if err != nil {
		if isNotFound(err) {
			respond.JSON(writer, http.StatusOK, map[string]string{
				"error": "rating does not exist",
			})
			return
		}
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]string{
		"success": "deleted",
	})
}
