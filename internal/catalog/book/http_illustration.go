// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vantran-dev/bookden/internal/platform/constants"
	"github.com/vantran-dev/bookden/internal/platform/middleware"
	requestutil "github.com/vantran-dev/bookden/internal/platform/request"
	"github.com/vantran-dev/bookden/internal/platform/respond"
	"github.com/vantran-dev/bookden/internal/platform/validate"
)

// # Illustration Gallery

// IllustrationRoutes returns a [chi.Router] with the flat illustration
// endpoints, intended to be mounted at /api/v1/illustrations.
func (handler *Handler) IllustrationRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Delete("/", handler.deleteIllustrations)
	})

	return router
}

/*
ListIllustrations returns a book's gallery.

GET /api/v1/books/{id}/illustrations

Response:
  - 200: []Illustration: Gallery entries with public URLs
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) listIllustrations(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.service.GetBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	illustrations, err := handler.service.ListIllustrations(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, illustrations)
}

/*
UploadIllustrations attaches a batch of gallery images to a book.

POST /api/v1/books/{id}/illustrations

Description: Accepts an arbitrary number of files under the "images" form
field, creating one gallery row per file. On completion the client is
redirected to the book detail.

Request (multipart/form-data):
  - images: one or more files

Response:
  - 303: See Other → /api/v1/books/{id}
  - 400: ValidationError: No files or oversized form
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) uploadIllustrations(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldImages, "Invalid or oversized multipart form"))
		return
	}

	headers := request.MultipartForm.File[FieldImages]

	uploads := make([]*Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldImages, "Unreadable uploaded file"))
			return
		}
		defer file.Close()

		uploads = append(uploads, &Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		})
	}

	if _, err := handler.service.UploadIllustrations(request.Context(), bookID, uploads); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.SeeOther(writer, request, detailPath(bookID))
}

/*
DeleteIllustrations removes a batch of gallery images by ID.

DELETE /api/v1/illustrations

Description: All-or-nothing. A single unknown ID aborts the whole batch
with NotFound and nothing is deleted.

Request:
  - Body: {"ids": [<id>, ...]}

Response:
  - 200: {"success": "deleted"}
  - 400: ValidationError: Empty ID list
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: One of the IDs does not exist
*/
func (handler *Handler) deleteIllustrations(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		IDs []int64 `json:"ids"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.DeleteIllustrations(request.Context(), input.IDs); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]string{
		"success": "deleted",
	})
}
