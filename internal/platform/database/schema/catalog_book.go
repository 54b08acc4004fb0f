// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table      string
	ID         string
	Title      string
	Author     string
	Synopsis   string
	CoverKey   string
	ISBN10     string
	ISBN13     string
	Genres     string
	Characters string
	Keywords   string
	Protection string
	CreatedAt  string
	UpdatedAt  string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:      "catalog.book",
	ID:         "id",
	Title:      "title",
	Author:     "author",
	Synopsis:   "synopsis",
	CoverKey:   "coverkey",
	ISBN10:     "isbn10",
	ISBN13:     "isbn13",
	Genres:     "genres",
	Characters: "characters",
	Keywords:   "keywords",
	Protection: "protection",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}
