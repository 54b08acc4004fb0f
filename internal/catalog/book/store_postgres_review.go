// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantran-dev/bookden/internal/platform/apperr"
	"github.com/vantran-dev/bookden/internal/platform/database/schema"
	"github.com/vantran-dev/bookden/internal/platform/dberr"
)

// postgresReviewRepository implements [ReviewRepository] using pgx.
type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReviewRepository constructs a PostgreSQL backed review store.
func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

// reviewColumns returns the canonical SELECT column list for review rows.
func reviewColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		schema.CatalogReview.ID,
		schema.CatalogReview.UserID,
		schema.CatalogReview.BookID,
		schema.CatalogReview.Title,
		schema.CatalogReview.Text,
		schema.CatalogReview.Score,
		schema.CatalogReview.CreatedAt,
		schema.CatalogReview.UpdatedAt,
	)
}

// scanReview maps a database row onto a [Review] entity.
func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.BookID,
		&review.Title,
		&review.Text,
		&review.Score,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListByBook returns a book's reviews, newest first.
func (repository *postgresReviewRepository) ListByBook(context context.Context, bookID int64) ([]*Review, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC",
		reviewColumns(),
		schema.CatalogReview.Table,
		schema.CatalogReview.BookID,
		schema.CatalogReview.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "review_list_by_book")
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "review_list_scan")
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "review_list_rows")
	}

	return reviews, nil
}

// FindByUserAndBook returns the user's review for a book, or NotFound.
func (repository *postgresReviewRepository) FindByUserAndBook(context context.Context, userID string, bookID int64) (*Review, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s = $2",
		reviewColumns(),
		schema.CatalogReview.Table,
		schema.CatalogReview.UserID,
		schema.CatalogReview.BookID,
	)

	review, err := scanReview(repository.pool.QueryRow(context, query, userID, bookID))
	if err != nil {
		return nil, dberr.Wrap(err, "review_find_by_user_and_book")
	}

	return review, nil
}

/*
Create persists a new review.

Description: The UNIQUE (userid, bookid) constraint is the real duplicate
guard. The service's existence check is presentation-level; a racing second
insert lands here and is translated into a client-visible Conflict.

Parameters:
  - context: context.Context
  - review: *Review

Returns:
  - error: Conflict for a duplicate pair, or execution errors
*/
func (repository *postgresReviewRepository) Create(context context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s, %s`,
		schema.CatalogReview.Table,
		schema.CatalogReview.UserID,
		schema.CatalogReview.BookID,
		schema.CatalogReview.Title,
		schema.CatalogReview.Text,
		schema.CatalogReview.Score,
		schema.CatalogReview.ID,
		schema.CatalogReview.CreatedAt,
		schema.CatalogReview.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		review.UserID,
		review.BookID,
		review.Title,
		review.Text,
		review.Score,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("You have already reviewed this book")
		}
		return dberr.Wrap(err, "review_create")
	}

	return nil
}

// Update rewrites the title, text, and score of an existing review.
func (repository *postgresReviewRepository) Update(context context.Context, review *Review) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4
		RETURNING %s`,
		schema.CatalogReview.Table,
		schema.CatalogReview.Title,
		schema.CatalogReview.Text,
		schema.CatalogReview.Score,
		schema.CatalogReview.UpdatedAt,
		schema.CatalogReview.ID,
		schema.CatalogReview.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		review.Title,
		review.Text,
		review.Score,
		review.ID,
	).Scan(&review.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "review_update")
	}

	return nil
}
