// Package manifest produces and verifies the signed manifest published next
// to every index blob. The manifest is a COSE Sign1 envelope over a compact
// CBOR payload binding the index name and build id to the blob's size and
// BLAKE3 digest, so a replica can verify a fetched blob before serving it.
package manifest

import (
	"time"

	"github.com/Fayozjon/omim/searchindex"
)

// Manifest is the signed payload. Integer keys keep the encoding compact and
// position-independent; new fields take new keys, absent fields decode to
// zero values.
type Manifest struct {
	// Name is the published index name, the subject of the signature.
	Name string `cbor:"1,keyasint"`

	// BuildID names this build under Name; ids are time-ordered so the
	// largest BuildID is the newest build.
	BuildID uint64 `cbor:"2,keyasint"`

	EntryCount uint64 `cbor:"3,keyasint"`
	KeyCount   uint64 `cbor:"4,keyasint"`

	// BlobBytes is the exact container blob size.
	BlobBytes uint64 `cbor:"5,keyasint"`

	// Digest is the BLAKE3-256 of the blob; ContentID is the same digest as
	// a self-describing multihash.
	Digest    []byte `cbor:"6,keyasint"`
	ContentID []byte `cbor:"7,keyasint"`

	// Timestamp is the unix time in milliseconds read when the manifest was
	// signed. Including it allows the same build to be re-signed.
	Timestamp int64 `cbor:"8,keyasint"`
}

// New binds a built index and its build id into a manifest, timestamped at
// now.
func New(built *searchindex.BuiltIndex, buildID uint64, now time.Time) Manifest {
	return Manifest{
		Name:       built.Name,
		BuildID:    buildID,
		EntryCount: built.EntryCount,
		KeyCount:   built.KeyCount,
		BlobBytes:  uint64(len(built.Blob)),
		Digest:     append([]byte(nil), built.Digest[:]...),
		ContentID:  append([]byte(nil), built.ID...),
		Timestamp:  now.UnixMilli(),
	}
}

// CheckBlob verifies that blob is the exact blob the manifest commits to.
func (m Manifest) CheckBlob(blob []byte) error {
	if uint64(len(blob)) != m.BlobBytes {
		return ErrBlobSizeMismatch
	}
	if err := searchindex.ContentID(m.ContentID).Verify(blob); err != nil {
		return err
	}
	opened, err := searchindex.Open(m.Name, blob)
	if err != nil {
		return err
	}
	if string(opened.Digest[:]) != string(m.Digest) {
		return ErrDigestMismatch
	}
	return nil
}
