// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

/*
Package book provides the PostgreSQL implementation for the catalogue's data access.

It leans on Postgres features to keep request handling simple and race-free:
  - Native Arrays: Genre/character/keyword lists are text[] columns scanned
    directly into Go slices, avoiding junction tables for simple tag lists.
  - Upsert: Ratings use INSERT ... ON CONFLICT so concurrent submissions from
    the same user can never create duplicate rows.
  - ACID Transactions: Illustration batches are created and deleted atomically.

The repository follows an "Aggregate" pattern where sub-resources (ratings,
reviews, illustrations) are managed through dedicated repositories owned by
the same package to maintain domain integrity.
*/
package book

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantran-dev/bookden/internal/platform/database/schema"
	"github.com/vantran-dev/bookden/internal/platform/dberr"
)

// # PostgreSQL Repositories

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed book store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// bookColumns returns the canonical SELECT column list for book rows.
func bookColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.CatalogBook.ID,
		schema.CatalogBook.Title,
		schema.CatalogBook.Author,
		schema.CatalogBook.Synopsis,
		schema.CatalogBook.CoverKey,
		schema.CatalogBook.ISBN10,
		schema.CatalogBook.ISBN13,
		schema.CatalogBook.Genres,
		schema.CatalogBook.Characters,
		schema.CatalogBook.Keywords,
		schema.CatalogBook.Protection,
		schema.CatalogBook.CreatedAt,
		schema.CatalogBook.UpdatedAt,
	)
}

// scanBook maps a database row onto a [Book] entity.
func scanBook(row pgx.Row) (*Book, error) {
	book := &Book{}
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Synopsis,
		&book.CoverKey,
		&book.ISBN10,
		&book.ISBN13,
		&book.Genres,
		&book.Characters,
		&book.Keywords,
		&book.Protection,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}

/*
List returns the entire catalogue ordered by ascending ID.

Description: Browsing is a deliberate full listing with no pagination or
filtering; discovery beyond the listing is handled by the (stubbed) search
endpoint.

Parameters:
  - context: context.Context

Returns:
  - []*Book: Every book in the catalogue
  - error: Database execution errors
*/
func (repository *postgresRepository) List(context context.Context) ([]*Book, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s ASC",
		bookColumns(), schema.CatalogBook.Table, schema.CatalogBook.ID,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "book_list")
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "book_list_scan")
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "book_list_rows")
	}

	return books, nil
}

// FindByID returns one book or a NotFound error.
func (repository *postgresRepository) FindByID(context context.Context, bookID int64) (*Book, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		bookColumns(), schema.CatalogBook.Table, schema.CatalogBook.ID,
	)

	book, err := scanBook(repository.pool.QueryRow(context, query, bookID))
	if err != nil {
		return nil, dberr.Wrap(err, "book_find_by_id")
	}

	return book, nil
}

/*
Create persists a new book.

Description: The generated serial ID and timestamps are read back via
RETURNING so the caller holds a fully hydrated entity.

Parameters:
  - context: context.Context
  - book: *Book (Protection defaults to no_protection when unset)

Returns:
  - error: Database execution errors
*/
func (repository *postgresRepository) Create(context context.Context, book *Book) error {
	if book.Protection == "" {
		book.Protection = ProtectionNone
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s, %s`,
		schema.CatalogBook.Table,
		schema.CatalogBook.Title,
		schema.CatalogBook.Author,
		schema.CatalogBook.Synopsis,
		schema.CatalogBook.CoverKey,
		schema.CatalogBook.ISBN10,
		schema.CatalogBook.ISBN13,
		schema.CatalogBook.Genres,
		schema.CatalogBook.Characters,
		schema.CatalogBook.Keywords,
		schema.CatalogBook.Protection,
		schema.CatalogBook.ID,
		schema.CatalogBook.CreatedAt,
		schema.CatalogBook.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		book.Title,
		book.Author,
		book.Synopsis,
		book.CoverKey,
		book.ISBN10,
		book.ISBN13,
		book.Genres,
		book.Characters,
		book.Keywords,
		book.Protection,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "book_create")
	}

	return nil
}

/*
Update rewrites a book's editable metadata.

Description: The cover and protection columns are deliberately absent from
the SET list. The cover is immutable after creation and protection changes
travel exclusively through [UpdateProtection].

Parameters:
  - context: context.Context
  - book: *Book

Returns:
  - error: NotFound when the book does not exist, or execution errors
*/
func (repository *postgresRepository) Update(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5,
		    %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $9
		RETURNING %s`,
		schema.CatalogBook.Table,
		schema.CatalogBook.Title,
		schema.CatalogBook.Author,
		schema.CatalogBook.Synopsis,
		schema.CatalogBook.ISBN10,
		schema.CatalogBook.ISBN13,
		schema.CatalogBook.Genres,
		schema.CatalogBook.Characters,
		schema.CatalogBook.Keywords,
		schema.CatalogBook.UpdatedAt,
		schema.CatalogBook.ID,
		schema.CatalogBook.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		book.Title,
		book.Author,
		book.Synopsis,
		book.ISBN10,
		book.ISBN13,
		book.Genres,
		book.Characters,
		book.Keywords,
		book.ID,
	).Scan(&book.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "book_update")
	}

	return nil
}

// UpdateProtection sets the protection level of a book.
func (repository *postgresRepository) UpdateProtection(context context.Context, bookID int64, protection Protection) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2",
		schema.CatalogBook.Table,
		schema.CatalogBook.Protection,
		schema.CatalogBook.UpdatedAt,
		schema.CatalogBook.ID,
	)

	tag, err := repository.pool.Exec(context, query, protection, bookID)
	if err != nil {
		return dberr.Wrap(err, "book_update_protection")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
