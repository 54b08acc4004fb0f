// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantran-dev/bookden/internal/platform/apperr"
	"github.com/vantran-dev/bookden/internal/platform/database/schema"
	"github.com/vantran-dev/bookden/internal/platform/dberr"
)

// postgresIllustrationRepository implements [IllustrationRepository] using pgx.
type postgresIllustrationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresIllustrationRepository constructs a PostgreSQL backed illustration store.
func NewPostgresIllustrationRepository(pool *pgxpool.Pool) IllustrationRepository {
	return &postgresIllustrationRepository{pool: pool}
}

// ListByBook returns a book's illustrations ordered by ascending ID.
func (repository *postgresIllustrationRepository) ListByBook(context context.Context, bookID int64) ([]*Illustration, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC",
		schema.CatalogIllustration.ID,
		schema.CatalogIllustration.BookID,
		schema.CatalogIllustration.ImageKey,
		schema.CatalogIllustration.CreatedAt,
		schema.CatalogIllustration.Table,
		schema.CatalogIllustration.BookID,
		schema.CatalogIllustration.ID,
	)

	rows, err := repository.pool.Query(context, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "illustration_list_by_book")
	}
	defer rows.Close()

	var illustrations []*Illustration
	for rows.Next() {
		illustration := &Illustration{}
		err := rows.Scan(
			&illustration.ID,
			&illustration.BookID,
			&illustration.ImageKey,
			&illustration.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "illustration_list_scan")
		}
		illustrations = append(illustrations, illustration)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "illustration_list_rows")
	}

	return illustrations, nil
}

/*
CreateBatch inserts one illustration row per image key atomically.

Description: All rows of an upload succeed or none do. A failure mid-batch
(connection loss, constraint violation) rolls back the transaction so the
gallery never holds a partial upload.

Parameters:
  - context: context.Context
  - bookID: int64
  - imageKeys: []string (Object storage keys, already uploaded)

Returns:
  - []*Illustration: Created rows with generated IDs
  - error: Database execution errors
*/
func (repository *postgresIllustrationRepository) CreateBatch(context context.Context, bookID int64, imageKeys []string) ([]*Illustration, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "illustration_create_batch_begin")
	}
	defer func() { _ = transaction.Rollback(context) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s, %s`,
		schema.CatalogIllustration.Table,
		schema.CatalogIllustration.BookID,
		schema.CatalogIllustration.ImageKey,
		schema.CatalogIllustration.ID,
		schema.CatalogIllustration.CreatedAt,
	)

	illustrations := make([]*Illustration, 0, len(imageKeys))
	for _, imageKey := range imageKeys {
		illustration := &Illustration{BookID: bookID, ImageKey: imageKey}

		err := transaction.QueryRow(context, query, bookID, imageKey).
			Scan(&illustration.ID, &illustration.CreatedAt)
		if err != nil {
			return nil, dberr.Wrap(err, "illustration_create_batch_insert")
		}

		illustrations = append(illustrations, illustration)
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "illustration_create_batch_commit")
	}

	return illustrations, nil
}

/*
DeleteBatch removes a set of illustrations atomically.

Description: All-or-nothing semantics. Each ID is deleted inside one
transaction; the first missing ID aborts the batch with NotFound and the
rollback restores every row already deleted. Clients therefore never see a
partially applied gallery edit.

Parameters:
  - context: context.Context
  - illustrationIDs: []int64

Returns:
  - []string: Image keys of the deleted rows, for object storage cleanup
  - error: NotFound when any ID is missing, or execution errors
*/
func (repository *postgresIllustrationRepository) DeleteBatch(context context.Context, illustrationIDs []int64) ([]string, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "illustration_delete_batch_begin")
	}
	defer func() { _ = transaction.Rollback(context) }()

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1 RETURNING %s",
		schema.CatalogIllustration.Table,
		schema.CatalogIllustration.ID,
		schema.CatalogIllustration.ImageKey,
	)

	imageKeys := make([]string, 0, len(illustrationIDs))
	for _, illustrationID := range illustrationIDs {
		var imageKey string

		err := transaction.QueryRow(context, query, illustrationID).Scan(&imageKey)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperr.NotFound("Illustration")
			}
			return nil, dberr.Wrap(err, "illustration_delete_batch_delete")
		}

		imageKeys = append(imageKeys, imageKey)
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "illustration_delete_batch_commit")
	}

	return imageKeys, nil
}
