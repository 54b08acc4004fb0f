// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantran-dev/bookden/internal/platform/storage"
)

/*
TestPublicURL verifies prefix/key joining regardless of slashes, and the
empty-key passthrough.
*/
func TestPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"plain", "/media", "covers/dune.jpg", "/media/covers/dune.jpg"},
		{"prefix_trailing_slash", "/media/", "covers/dune.jpg", "/media/covers/dune.jpg"},
		{"key_leading_slash", "/media", "/covers/dune.jpg", "/media/covers/dune.jpg"},
		{"absolute_prefix", "https://cdn.bookden.dev/media", "dune.jpg", "https://cdn.bookden.dev/media/dune.jpg"},
		{"empty_key", "/media", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.PublicURL(tt.prefix, tt.key))
		})
	}
}
