// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"context"

	"github.com/vantran-dev/bookden/internal/platform/storage"
	"github.com/vantran-dev/bookden/internal/platform/validate"
)

// # Illustration Use Cases

// ListIllustrations returns a book's gallery with resolved public URLs.
func (service *Service) ListIllustrations(context context.Context, bookID int64) ([]*Illustration, error) {
	illustrations, err := service.illustrationRepo.ListByBook(context, bookID)
	if err != nil {
		return nil, err
	}

	for _, illustration := range illustrations {
		illustration.ImageURL = storage.PublicURL(service.mediaPrefix, illustration.ImageKey)
	}

	return illustrations, nil
}

/*
UploadIllustrations attaches a batch of gallery images to a book.

Description: Accepts an arbitrary number of files from one multipart
request. Every file is uploaded to object storage first; the rows are then
created in a single transaction, one per file. If the row batch fails, the
already-uploaded objects are removed again.

Parameters:
  - context: context.Context
  - bookID: int64
  - uploads: []*Upload (At least one file)

Returns:
  - []*Illustration: Created gallery entries with resolved URLs
  - error: Validation, NotFound (unknown book), storage, or repository errors
*/
func (service *Service) UploadIllustrations(context context.Context, bookID int64, uploads []*Upload) ([]*Illustration, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldImages, len(uploads) == 0, "At least one image file is required")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.bookRepo.FindByID(context, bookID); err != nil {
		return nil, err
	}

	imageKeys := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		key, err := service.storeImage(context, "illustrations", upload)
		if err != nil {
			service.removeObjects(context, imageKeys)
			return nil, err
		}
		imageKeys = append(imageKeys, key)
	}

	illustrations, err := service.illustrationRepo.CreateBatch(context, bookID, imageKeys)
	if err != nil {
		service.removeObjects(context, imageKeys)
		return nil, err
	}

	for _, illustration := range illustrations {
		illustration.ImageURL = storage.PublicURL(service.mediaPrefix, illustration.ImageKey)
	}

	return illustrations, nil
}

/*
DeleteIllustrations removes a batch of gallery images by ID.

Description: All-or-nothing semantics. A single unknown ID aborts the whole
batch with NotFound before anything is removed; clients never observe a
partially applied gallery edit. Object storage cleanup happens after the
rows are gone and is best-effort.

Parameters:
  - context: context.Context
  - illustrationIDs: []int64 (At least one ID)

Returns:
  - error: Validation, NotFound, or repository errors
*/
func (service *Service) DeleteIllustrations(context context.Context, illustrationIDs []int64) error {
	validator := &validate.Validator{}
	validator.Custom(FieldIDs, len(illustrationIDs) == 0, "At least one illustration ID is required")

	if err := validator.Err(); err != nil {
		return err
	}

	imageKeys, err := service.illustrationRepo.DeleteBatch(context, illustrationIDs)
	if err != nil {
		return err
	}

	service.removeObjects(context, imageKeys)

	return nil
}

// removeObjects deletes stored objects best-effort.
func (service *Service) removeObjects(context context.Context, keys []string) {
	for _, key := range keys {
		_ = service.objectStore.Remove(context, key)
	}
}
