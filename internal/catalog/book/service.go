// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/vantran-dev/bookden/internal/platform/apperr"
	"github.com/vantran-dev/bookden/internal/platform/sec"
	"github.com/vantran-dev/bookden/internal/platform/storage"
	"github.com/vantran-dev/bookden/internal/platform/validate"
	"github.com/vantran-dev/bookden/pkg/slug"
	"github.com/vantran-dev/bookden/pkg/uuid"
)

// # Service Layer

// ContributionRecorder credits a user for a successful catalogue contribution.
//
// The users domain implements this; defining the interface here keeps the
// catalogue free of a direct dependency on the auth package.
type ContributionRecorder interface {
	IncrementContributions(context context.Context, userID string) error
}

// Upload carries one file received through a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Service orchestrates the business logic for the book catalogue.
// It acts as the primary entry point for browsing, contribution,
// rating, review, and gallery management.
type Service struct {
	bookRepo         Repository
	ratingRepo       RatingRepository
	reviewRepo       ReviewRepository
	illustrationRepo IllustrationRepository
	objectStore      storage.ObjectStore
	contributions    ContributionRecorder

	// mediaPrefix is the public URL prefix under which stored objects are served.
	mediaPrefix string
}

// NewService constructs a new [Service] with its required dependencies.
func NewService(
	bookRepo Repository,
	ratingRepo RatingRepository,
	reviewRepo ReviewRepository,
	illustrationRepo IllustrationRepository,
	objectStore storage.ObjectStore,
	contributions ContributionRecorder,
	mediaPrefix string,
) *Service {
	return &Service{
		bookRepo:         bookRepo,
		ratingRepo:       ratingRepo,
		reviewRepo:       reviewRepo,
		illustrationRepo: illustrationRepo,
		objectStore:      objectStore,
		contributions:    contributions,
		mediaPrefix:      mediaPrefix,
	}
}

// # Catalogue Lookups

/*
ListBooks retrieves the full catalogue ordered by ascending ID.

Description: Browsing is a complete listing; the catalogue carries no
pagination or filtering. Cover URLs are resolved from storage keys before
the entities leave the service.

Parameters:
  - context: context.Context

Returns:
  - []*Book: Every book in the catalogue
  - error: Repository level errors
*/
func (service *Service) ListBooks(context context.Context) ([]*Book, error) {
	books, err := service.bookRepo.List(context)
	if err != nil {
		return nil, err
	}

	for _, book := range books {
		service.resolveBookURLs(book)
	}

	return books, nil
}

// GetBook returns one book with its resolved cover URL, or NotFound.
func (service *Service) GetBook(context context.Context, bookID int64) (*Book, error) {
	book, err := service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}
	service.resolveBookURLs(book)
	return book, nil
}

/*
GetDetail assembles the full detail view of one book.

Description: Fetches the book or fails with NotFound, then attaches its
illustrations and reviews. When viewerID identifies an authenticated user
with an existing rating for this book, that score rides along as OwnScore.

Parameters:
  - context: context.Context
  - bookID: int64
  - viewerID: string (Empty for anonymous viewers)

Returns:
  - *Detail: The assembled aggregate
  - error: ErrNotFound if the book does not exist
*/
func (service *Service) GetDetail(context context.Context, bookID int64, viewerID string) (*Detail, error) {
	book, err := service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}
	service.resolveBookURLs(book)

	illustrations, err := service.ListIllustrations(context, bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := service.reviewRepo.ListByBook(context, bookID)
	if err != nil {
		return nil, err
	}

	detail := &Detail{
		Book:          book,
		Illustrations: illustrations,
		Reviews:       reviews,
	}

	// Attach the viewer's own score when present. A missing rating is the
	// normal case, not an error.
	if viewerID != "" {
		score, err := service.ratingRepo.FindScore(context, viewerID, bookID)
		if err == nil {
			detail.OwnScore = &score
		} else if !isNotFound(err) {
			return nil, err
		}
	}

	return detail, nil
}

/*
GetData returns the minimal machine-readable projection of a book.

Description: The projection carries a single genre: the first entry of the
genre list, or an empty string for an unclassified book. This shape is
consumed by external integrations and must not change.

Parameters:
  - context: context.Context
  - bookID: int64

Returns:
  - *Data: The stable projection
  - error: ErrNotFound if the book does not exist
*/
func (service *Service) GetData(context context.Context, bookID int64) (*Data, error) {
	book, err := service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}

	firstGenre := ""
	if len(book.Genres) > 0 {
		firstGenre = book.Genres[0]
	}

	return &Data{
		Title:    book.Title,
		Author:   book.Author,
		Synopsis: book.Synopsis,
		Cover:    storage.PublicURL(service.mediaPrefix, book.CoverKey),
		Genre:    firstGenre,
	}, nil
}

// # Contribution & Editing

// CreateBookInput holds the fields of the book-creation form.
type CreateBookInput struct {
	Title      string
	Author     string
	Synopsis   string
	ISBN10     string
	ISBN13     string
	Genres     []string
	Characters []string
	Keywords   []string
	Cover      *Upload // Required at creation, immutable afterwards
}

/*
CreateBook validates and persists a new catalogue entry.

Description: The cover image is required and uploaded to object storage
before the row is written. On success the contributor's contribution
counter is incremented by exactly one.

Parameters:
  - context: context.Context
  - contributorID: string (UUID of the authenticated submitter)
  - input: CreateBookInput

Returns:
  - *Book: The created entity with resolved cover URL
  - error: Validation, storage, or repository errors
*/
func (service *Service) CreateBook(context context.Context, contributorID string, input CreateBookInput) (*Book, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 500).
		Required(FieldAuthor, input.Author).MaxLen(FieldAuthor, input.Author, 300).
		Required(FieldSynopsis, input.Synopsis)
	validator.Custom(FieldCover, input.Cover == nil, "A cover image is required")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	coverKey, err := service.storeImage(context, "covers", input.Cover)
	if err != nil {
		return nil, err
	}

	book := &Book{
		Title:      input.Title,
		Author:     input.Author,
		Synopsis:   input.Synopsis,
		CoverKey:   coverKey,
		ISBN10:     input.ISBN10,
		ISBN13:     input.ISBN13,
		Genres:     input.Genres,
		Characters: input.Characters,
		Keywords:   input.Keywords,
		Protection: ProtectionNone,
	}

	if err := service.bookRepo.Create(context, book); err != nil {
		// The row was never written; drop the orphaned cover object.
		_ = service.objectStore.Remove(context, coverKey)
		return nil, err
	}

	service.creditContribution(context, contributorID)
	service.resolveBookURLs(book)

	return book, nil
}

// EditBookInput holds the fields of the book-edit form.
//
// The cover and protection level are deliberately absent: the cover is
// immutable after creation and protection travels through [SetProtection].
type EditBookInput struct {
	Title      string
	Author     string
	Synopsis   string
	ISBN10     string
	ISBN13     string
	Genres     []string
	Characters []string
	Keywords   []string
}

/*
EditBook validates and applies changes to an existing catalogue entry.

Description: On success the editor's contribution counter is incremented by
exactly one, same as a creation.

Parameters:
  - context: context.Context
  - editorID: string (UUID of the authenticated submitter)
  - bookID: int64
  - input: EditBookInput

Returns:
  - *Book: The updated entity
  - error: Validation, NotFound, or repository errors
*/
func (service *Service) EditBook(context context.Context, editorID string, bookID int64, input EditBookInput) (*Book, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 500).
		Required(FieldAuthor, input.Author).MaxLen(FieldAuthor, input.Author, 300).
		Required(FieldSynopsis, input.Synopsis)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	book, err := service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}

	book.Title = input.Title
	book.Author = input.Author
	book.Synopsis = input.Synopsis
	book.ISBN10 = input.ISBN10
	book.ISBN13 = input.ISBN13
	book.Genres = input.Genres
	book.Characters = input.Characters
	book.Keywords = input.Keywords

	if err := service.bookRepo.Update(context, book); err != nil {
		return nil, err
	}

	service.creditContribution(context, editorID)
	service.resolveBookURLs(book)

	return book, nil
}

// # Protection

/*
SetProtection changes a book's edit-protection level.

Description: Only a superuser may apply a change. A non-superuser submission
is a silent no-op (applied=false, no error): the page flow redirects back to
the detail view without modifying anything, rather than failing loudly.

Parameters:
  - context: context.Context
  - actorRole: sec.UserRole
  - bookID: int64
  - protection: Protection

Returns:
  - bool: Whether the change was applied
  - error: Validation or NotFound errors (only on the superuser path)
*/
func (service *Service) SetProtection(context context.Context, actorRole sec.UserRole, bookID int64, protection Protection) (bool, error) {
	if actorRole != sec.RoleSuperuser {
		return false, nil
	}

	if !protection.IsValid() {
		return false, validate.RequiredError(FieldProtection,
			"Must be one of: "+strings.Join(ProtectionValues(), ", "))
	}

	if err := service.bookRepo.UpdateProtection(context, bookID, protection); err != nil {
		return false, err
	}

	return true, nil
}

// # Internal Helpers

// resolveBookURLs derives the public cover URL from the stored object key.
func (service *Service) resolveBookURLs(book *Book) {
	book.CoverURL = storage.PublicURL(service.mediaPrefix, book.CoverKey)
}

// storeImage uploads one image to object storage under a collision-free key.
func (service *Service) storeImage(context context.Context, folder string, upload *Upload) (string, error) {
	name := slug.From(strings.TrimSuffix(upload.Filename, filepath.Ext(upload.Filename)))
	if name == "" {
		name = "image"
	}

	key := folder + "/" + uuid.New() + "-" + name + strings.ToLower(filepath.Ext(upload.Filename))

	if err := service.objectStore.Put(context, key, upload.Reader, upload.Size, upload.ContentType); err != nil {
		return "", apperr.Internal(err)
	}

	return key, nil
}

// creditContribution bumps the contributor's counter. A failed increment is
// logged upstream but never rolls back an otherwise successful submission.
func (service *Service) creditContribution(context context.Context, userID string) {
	if service.contributions == nil || userID == "" {
		return
	}
	_ = service.contributions.IncrementContributions(context, userID)
}

// isNotFound reports whether err carries a NOT_FOUND application code.
func isNotFound(err error) bool {
	var appError *apperr.AppError
	return errors.As(err, &appError) && appError.Code == "NOT_FOUND"
}
