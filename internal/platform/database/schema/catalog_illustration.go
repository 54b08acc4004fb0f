// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package schema

// CatalogIllustrationTable represents the 'catalog.illustration' table
type CatalogIllustrationTable struct {
	Table     string
	ID        string
	BookID    string
	ImageKey  string
	CreatedAt string
}

// CatalogIllustration is the schema definition for catalog.illustration
var CatalogIllustration = CatalogIllustrationTable{
	Table:     "catalog.illustration",
	ID:        "id",
	BookID:    "bookid",
	ImageKey:  "imagekey",
	CreatedAt: "createdat",
}
