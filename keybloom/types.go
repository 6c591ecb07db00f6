package keybloom

import "errors"

const (
	// HeaderBytes is the fixed serialized header size.
	HeaderBytes = 32

	Magic         = "KBLM"
	Version uint8 = 1

	// wordBits is the bitset allocation granularity. Bitset sizes are whole
	// 64 bit words so readers can scan the bitset word at a time.
	wordBits = 64

	// maxHashes bounds k; past this point extra hashes only slow inserts.
	maxHashes = 30
)

var (
	ErrBadMagic      = errors.New("keybloom: header magic invalid")
	ErrBadVersion    = errors.New("keybloom: header version unsupported")
	ErrBadK          = errors.New("keybloom: header hash count invalid")
	ErrBadBits       = errors.New("keybloom: header bit count invalid")
	ErrBadRegionSize = errors.New("keybloom: region too small")
	ErrBadRate       = errors.New("keybloom: false positive rate out of range")
	ErrZeroKeys      = errors.New("keybloom: key count must be positive")
)

// Header carries the filter parameters serialized ahead of the bitset.
type Header struct {
	K     uint8
	MBits uint64
	Added uint64
}
