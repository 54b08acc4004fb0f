// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

/*
Package book provides the HTTP interface for the catalogue.

It exposes endpoints for browsing books, contributing and editing entries,
rating, reviewing, and gallery management.

# Routing Strategy

  - Public (v1): Browsing endpoints accessible to all visitors (GET /books).
  - Authenticated (v1): Contribution, rating, review, and gallery endpoints.
  - Page flows: Form-style endpoints answer with 303 redirects to the book
    detail resource, mirroring the post/redirect/get cycle of the frontend.

The handler translates between the web/JSON layer and the internal domain [Service].
*/
package book

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vantran-dev/bookden/internal/platform/apperr"
	"github.com/vantran-dev/bookden/internal/platform/constants"
	"github.com/vantran-dev/bookden/internal/platform/middleware"
	requestutil "github.com/vantran-dev/bookden/internal/platform/request"
	"github.com/vantran-dev/bookden/internal/platform/respond"
	"github.com/vantran-dev/bookden/internal/platform/sec"
	"github.com/vantran-dev/bookden/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the catalogue HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the book-scoped catalogue routes,
// intended to be mounted at /api/v1/books.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public browsing
	router.Get("/", handler.listBooks)
	router.Get("/search", handler.searchBooks)
	router.Get("/{id}", handler.bookDetail)
	router.Get("/{id}/data", handler.bookData)
	router.Get("/{id}/illustrations", handler.listIllustrations)

	// Protection changes are open at the routing layer: non-superusers
	// (including anonymous visitors) get the silent redirect no-op.
	router.Post("/{id}/protection", handler.setProtection)

	// Authenticated contribution flows
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.createBook)
		r.Put("/{id}", handler.editBook)
		r.Post("/{id}/illustrations", handler.uploadIllustrations)
		r.Get("/{id}/review", handler.reviewForm)
		r.Post("/{id}/review", handler.submitReview)
		r.Get("/{id}/review/edit", handler.editReviewForm)
		r.Put("/{id}/review/edit", handler.editReview)
	})

	return router
}

// detailPath builds the canonical book-detail location for redirects.
func detailPath(bookID int64) string {
	return fmt.Sprintf("/api/v1/books/%d", bookID)
}

/*
ListBooks returns the entire catalogue.

GET /api/v1/books

Description: Full listing ordered by ascending ID. No pagination, no
filtering; discovery beyond browsing is the (stubbed) search endpoint.

Response:
  - 200: []Book: The catalogue
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	books, err := handler.service.ListBooks(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, books)
}

/*
SearchBooks is a declared but unimplemented discovery endpoint.

GET /api/v1/books/search

Response:
  - 501: NOT_IMPLEMENTED: Search is not available yet
*/
func (handler *Handler) searchBooks(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.NotImplemented("Search is not implemented"))
}

/*
BookDetail returns one book with its gallery, reviews, and the viewer's
own rating when present.

GET /api/v1/books/{id}

Response:
  - 200: Detail: The assembled aggregate
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) bookDetail(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Anonymous viewers simply get no OwnScore.
	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	detail, err := handler.service.GetDetail(request.Context(), bookID, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
BookData returns the minimal machine-readable projection of a book.

GET /api/v1/books/{id}/data

Description: This endpoint bypasses the standard envelope. Its exact wire
shape — a single "book" object with the first genre only — is consumed by
external integrations and must stay stable.

Response:
  - 200: {"book": {title, author, synopsis, cover, genre}}
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) bookData(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	data, err := handler.service.GetData(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]*Data{"book": data})
}

/*
CreateBook accepts the book-contribution form.

POST /api/v1/books

Description: Multipart form carrying the metadata fields plus the required
cover image. On success the contributor's counter is incremented and the
client is redirected to the new book's detail resource.

Request (multipart/form-data):
  - title, author, synopsis, isbn10, isbn13: string fields
  - genres, characters, keywords: repeated string fields
  - cover: file (required)

Response:
  - 303: See Other → /api/v1/books/{id}
  - 400: ValidationError: Missing fields or cover
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldImages, "Invalid or oversized multipart form"))
		return
	}

	input := CreateBookInput{
		Title:      request.FormValue(FieldTitle),
		Author:     request.FormValue(FieldAuthor),
		Synopsis:   request.FormValue(FieldSynopsis),
		ISBN10:     request.FormValue(FieldISBN10),
		ISBN13:     request.FormValue(FieldISBN13),
		Genres:     request.MultipartForm.Value[FieldGenres],
		Characters: request.MultipartForm.Value[FieldCharacters],
		Keywords:   request.MultipartForm.Value[FieldKeywords],
	}

	file, header, err := request.FormFile(FieldCover)
	if err == nil {
		defer file.Close()
		input.Cover = &Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		}
	}

	book, err := handler.service.CreateBook(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.SeeOther(writer, request, detailPath(book.ID))
}

/*
EditBook accepts the book-edit form.

PUT /api/v1/books/{id}

Description: JSON body carrying the editable metadata. The cover and the
protection level are not part of the editable field set. On success the
editor's counter is incremented and the client is redirected to the book's
detail resource.

Request:
  - Body: editBookRequest

Response:
  - 303: See Other → /api/v1/books/{id}
  - 400: ValidationError: Missing fields
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) editBook(writer http.ResponseWriter, request *http.Request) {
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

	var input editBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	book, err := handler.service.EditBook(request.Context(), userID, bookID, EditBookInput{
		Title:      input.Title,
		Author:     input.Author,
		Synopsis:   input.Synopsis,
		ISBN10:     input.ISBN10,
		ISBN13:     input.ISBN13,
		Genres:     input.Genres,
		Characters: input.Characters,
		Keywords:   input.Keywords,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.SeeOther(writer, request, detailPath(book.ID))
}

// editBookRequest is the JSON body of the edit form. Cover and protection
// are deliberately absent.
type editBookRequest struct {
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Synopsis   string   `json:"synopsis"`
	ISBN10     string   `json:"isbn10"`
	ISBN13     string   `json:"isbn13"`
	Genres     []string `json:"genres"`
	Characters []string `json:"characters"`
	Keywords   []string `json:"keywords"`
}

/*
SetProtection changes a book's edit-protection level.

POST /api/v1/books/{id}/protection

Description: Superuser-only state change. A submission from anyone else —
including anonymous visitors — modifies nothing and still answers with the
redirect, so the page flow never surfaces a rejection.

Request:
  - Body: {"protection": "<enum value>"}

Response:
  - 303: See Other → /api/v1/books/{id} (applied or silently ignored)
  - 400: ValidationError: Unknown enum value (superuser only)
  - 404: ErrNotFound: Book not found (superuser only)
*/
func (handler *Handler) setProtection(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Protection string `json:"protection"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Anonymous submitters carry an empty role and hit the silent no-op path.
	var actorRole sec.UserRole
	if claims := requestutil.Claims(request); claims != nil {
		actorRole = sec.UserRole(claims.Role)
	}

	if _, err := handler.service.SetProtection(request.Context(), actorRole, bookID, Protection(input.Protection)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.SeeOther(writer, request, detailPath(bookID))
}
