// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package schema

// CatalogRatingTable represents the 'catalog.rating' table.
//
// The (userid, bookid) pair carries a UNIQUE constraint so the upsert path
// can rely on ON CONFLICT instead of read-then-write ordering.
type CatalogRatingTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	Score     string
	CreatedAt string
	UpdatedAt string
}

// CatalogRating is the schema definition for catalog.rating
var CatalogRating = CatalogRatingTable{
	Table:     "catalog.rating",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	Score:     "score",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
