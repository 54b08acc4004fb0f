// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantran-dev/bookden/internal/platform/database/schema"
	"github.com/vantran-dev/bookden/internal/platform/dberr"
)

// postgresRatingRepository implements [RatingRepository] using pgx.
type postgresRatingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRatingRepository constructs a PostgreSQL backed rating store.
func NewPostgresRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &postgresRatingRepository{pool: pool}
}

/*
Upsert atomically creates or updates the user's score for a book.

Description: The UNIQUE (userid, bookid) constraint plus ON CONFLICT makes
this a single atomic statement. Two concurrent submissions from the same
user can interleave in any order and still leave exactly one row.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - bookID: int64
  - score: int (1-5, validated upstream)

Returns:
  - int: The persisted score
  - error: Database execution errors
*/
func (repository *postgresRatingRepository) Upsert(context context.Context, userID string, bookID int64, score int) (int, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s)
		DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s`,
		schema.CatalogRating.Table,
		schema.CatalogRating.UserID,
		schema.CatalogRating.BookID,
		schema.CatalogRating.Score,
		schema.CatalogRating.UserID,
		schema.CatalogRating.BookID,
		schema.CatalogRating.Score,
		schema.CatalogRating.Score,
		schema.CatalogRating.UpdatedAt,
		schema.CatalogRating.Score,
	)

	var persisted int
	if err := repository.pool.QueryRow(context, query, userID, bookID, score).Scan(&persisted); err != nil {
		return 0, dberr.Wrap(err, "rating_upsert")
	}

	return persisted, nil
}

// FindScore returns the user's score for a book, or NotFound.
func (repository *postgresRatingRepository) FindScore(context context.Context, userID string, bookID int64) (int, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s = $2",
		schema.CatalogRating.Score,
		schema.CatalogRating.Table,
		schema.CatalogRating.UserID,
		schema.CatalogRating.BookID,
	)

	var score int
	if err := repository.pool.QueryRow(context, query, userID, bookID).Scan(&score); err != nil {
		return 0, dberr.Wrap(err, "rating_find_score")
	}

	return score, nil
}

// Delete removes the user's rating for a book. Deleting a rating that does
// not exist returns NotFound so the API can answer with its explicit
// "does not exist" payload.
func (repository *postgresRatingRepository) Delete(context context.Context, userID string, bookID int64) error {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.CatalogRating.Table,
		schema.CatalogRating.UserID,
		schema.CatalogRating.BookID,
	)

	tag, err := repository.pool.Exec(context, query, userID, bookID)
	if err != nil {
		return dberr.Wrap(err, "rating_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
