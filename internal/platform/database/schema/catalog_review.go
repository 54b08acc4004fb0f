// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package schema

// CatalogReviewTable represents the 'catalog.review' table.
//
// Like ratings, reviews carry a UNIQUE (userid, bookid) constraint enforced
// at the data layer.
type CatalogReviewTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	Title     string
	Text      string
	Score     string
	CreatedAt string
	UpdatedAt string
}

// CatalogReview is the schema definition for catalog.review
var CatalogReview = CatalogReviewTable{
	Table:     "catalog.review",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	Title:     "title",
	Text:      "text",
	Score:     "score",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
