// Package store defines the blob persistence surface the index publisher
// writes through, and composable wrappers over any implementation of it.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Delete for names that do not exist.
// Remote-backed implementations map their provider's not-found errors onto
// it so callers never branch on provider types.
var ErrNotFound = errors.New("store: blob not found")

// BlobStore is a flat named-blob store. Names are opaque here; the publish
// package defines the path schema written through it.
//
// Implementations must treat stored bytes as immutable: Put copies data in,
// Get hands a copy out.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the named blob, or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns the names with the given prefix, in ascending lexical
	// order. The empty prefix lists everything.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the named blob, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
}
