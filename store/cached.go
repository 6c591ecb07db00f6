package store

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached is a read-through LRU in front of another BlobStore. Blob content is
// immutable under a name until deleted, so the only invalidation paths are
// Put and Delete through this same wrapper.
type Cached struct {
	inner BlobStore
	blobs *lru.Cache[string, []byte]
}

// NewCached wraps inner with an LRU holding up to size blobs.
func NewCached(inner BlobStore, size int) (*Cached, error) {
	blobs, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, blobs: blobs}, nil
}

func (c *Cached) Put(ctx context.Context, name string, data []byte) error {
	if err := c.inner.Put(ctx, name, data); err != nil {
		return err
	}
	c.blobs.Add(name, append([]byte(nil), data...))
	return nil
}

func (c *Cached) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := c.blobs.Get(name); ok {
		return append([]byte(nil), data...), nil
	}
	data, err := c.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	c.blobs.Add(name, data)
	return append([]byte(nil), data...), nil
}

// List is not cached; listings change with every publish.
func (c *Cached) List(ctx context.Context, prefix string) ([]string, error) {
	return c.inner.List(ctx, prefix)
}

func (c *Cached) Delete(ctx context.Context, name string) error {
	c.blobs.Remove(name)
	return c.inner.Delete(ctx, name)
}
