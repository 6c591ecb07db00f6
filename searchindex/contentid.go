package searchindex

import (
	"bytes"
	"encoding/hex"
	"fmt"

	mh "github.com/multiformats/go-multihash"
	_ "github.com/multiformats/go-multihash/register/blake3"
)

// ContentID is the self-describing content id of an index blob, a BLAKE3
// multihash: <0x1e><0x20><32 bytes>.
type ContentID []byte

// NewContentID computes the content id of blob.
func NewContentID(blob []byte) (ContentID, error) {
	h, err := mh.Sum(blob, mh.BLAKE3, DigestBytes)
	if err != nil {
		return nil, fmt.Errorf("hashing blob: %w", err)
	}
	return ContentID(h), nil
}

// Verify checks that id matches blob, honouring whatever hash code the id
// itself declares.
func (id ContentID) Verify(blob []byte) error {
	decoded, err := mh.Decode(mh.Multihash(id))
	if err != nil {
		return fmt.Errorf("invalid content id: %w", err)
	}
	computed, err := mh.Sum(blob, decoded.Code, decoded.Length)
	if err != nil {
		return fmt.Errorf("hashing blob: %w", err)
	}
	if !bytes.Equal(computed, id) {
		return ErrContentIDMismatch
	}
	return nil
}

// Hex returns the hex form used in logs and manifests.
func (id ContentID) Hex() string { return hex.EncodeToString(id) }
