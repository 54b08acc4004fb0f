// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

/*
Package storage provides S3-compatible object storage for uploaded media.

Book covers and illustrations are persisted as objects; the relational rows
only carry the object key. Public delivery happens through a CDN or reverse
proxy mounted under the configured media prefix, so the API never streams
image bytes itself.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is the contract the upload handlers depend on.
//
// Defining it here (rather than exposing *minio.Client) lets service tests
// substitute an in-memory fake.
type ObjectStore interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Remove deletes the object with the given key. Removing a missing
	// object is not an error.
	Remove(ctx context.Context, key string) error
}

// MinioStore implements [ObjectStore] for MinIO / S3-compatible storage.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// Options carries the connection settings for [NewMinioStore].
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioStore connects to the object storage endpoint and ensures the
// media bucket exists.
func NewMinioStore(ctx context.Context, opts Options) (*MinioStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize client: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to check bucket %q: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(checkCtx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage: failed to create bucket %q: %w", opts.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: opts.Bucket}, nil
}

// Put uploads an object.
func (store *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := store.client.PutObject(ctx, store.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage: failed to put object %q: %w", key, err)
	}
	return nil
}

// Remove deletes an object.
func (store *MinioStore) Remove(ctx context.Context, key string) error {
	if err := store.client.RemoveObject(ctx, store.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: failed to remove object %q: %w", key, err)
	}
	return nil
}

// PublicURL joins the configured public media prefix with an object key.
//
// An empty key yields an empty URL so callers can pass through optional
// references without special-casing.
func PublicURL(prefix, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(key, "/")
}
