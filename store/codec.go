package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgryski/go-farm"
	"github.com/klauspost/compress/zstd"
)

// Compressed frame layout: a 4 byte little-endian farmhash checksum of the
// compressed payload, then the payload. zstd carries its own content
// checksum; this one is cheap and catches truncated or swapped frames before
// a decode is attempted.
const frameHeaderBytes = 4

var (
	ErrChecksum      = errors.New("store: compressed frame checksum mismatch")
	ErrFrameTooShort = errors.New("store: compressed frame too short")
)

// Compressed wraps another BlobStore, storing every blob as a checksummed
// zstd frame. Index blobs compress well: the trie section is dense but the
// value records repeat feature ID prefixes heavily.
type Compressed struct {
	inner BlobStore
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// NewCompressed wraps inner. The zstd encoder and decoder are reused across
// calls; both are safe for concurrent EncodeAll/DecodeAll use.
func NewCompressed(inner BlobStore) (*Compressed, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &Compressed{inner: inner, enc: enc, dec: dec}, nil
}

func (c *Compressed) Put(ctx context.Context, name string, data []byte) error {
	frame := make([]byte, frameHeaderBytes, frameHeaderBytes+len(data)/2)
	frame = c.enc.EncodeAll(data, frame)
	binary.LittleEndian.PutUint32(frame[:frameHeaderBytes], uint32(farm.Hash64(frame[frameHeaderBytes:])))
	return c.inner.Put(ctx, name, frame)
}

func (c *Compressed) Get(ctx context.Context, name string) ([]byte, error) {
	frame, err := c.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(frame) < frameHeaderBytes {
		return nil, ErrFrameTooShort
	}
	want := binary.LittleEndian.Uint32(frame[:frameHeaderBytes])
	if got := uint32(farm.Hash64(frame[frameHeaderBytes:])); got != want {
		return nil, fmt.Errorf("%w: blob %q (%d != %d)", ErrChecksum, name, got, want)
	}
	data, err := c.dec.DecodeAll(frame[frameHeaderBytes:], nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing blob %q: %w", name, err)
	}
	return data, nil
}

func (c *Compressed) List(ctx context.Context, prefix string) ([]string, error) {
	return c.inner.List(ctx, prefix)
}

func (c *Compressed) Delete(ctx context.Context, name string) error {
	return c.inner.Delete(ctx, name)
}
