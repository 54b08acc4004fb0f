// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

// Package schema is the central registry of table and column identifiers.
//
// Keeping the physical names in one place lets repositories build SQL with
// fmt.Sprintf instead of scattering string literals across the codebase.
package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table         string
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	Role          string
	Contributions string
	IsVerified    string
	CreatedAt     string
	UpdatedAt     string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:         "users.account",
	ID:            "id",
	Username:      "username",
	Email:         "email",
	PasswordHash:  "passwordhash",
	Role:          "role",
	Contributions: "contributions",
	IsVerified:    "isverified",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}
