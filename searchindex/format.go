package searchindex

import (
	"encoding/binary"
	"errors"
)

const (
	// HeaderBytes is the fixed container header size. Section offsets are
	// relative to the start of the blob, so the first section begins here.
	HeaderBytes = 64

	Magic         = "OMSI"
	Version uint8 = 1

	// DigestBytes is the content digest width, BLAKE3-256.
	DigestBytes = 32

	FlagHasBloom uint8 = 1 << 0
	FlagHasRanks uint8 = 1 << 1

	knownFlags = FlagHasBloom | FlagHasRanks
)

const (
	// Container header layout
	//
	// .     | magic | ver | flags | reserved | entries | keys    | trieOff | trieLen | bloomOff | bloomLen | reserved |
	// .     | 0 - 3 |  4  |   5   |  6 - 7   |  8 - 15 | 16 - 23 | 24 - 31 | 32 - 39 | 40 - 47  | 48 - 55  | 56 - 63  |
	// bytes |   4   |  1  |   1   |    2     |    8    |    8    |    8    |    8    |    8     |    8     |    8     |
	//
	// The offsets are stored even though v1 always lays the trie section at
	// HeaderBytes; readers position by the header, not by the version.

	magicFirstByte = 0
	magicSize      = 4
	magicEnd       = magicFirstByte + magicSize

	versionByte = magicEnd
	flagsByte   = versionByte + 1

	entryCountFirstByte = 8
	entryCountSize      = 8
	entryCountEnd       = entryCountFirstByte + entryCountSize
	keyCountFirstByte   = entryCountEnd
	keyCountSize        = 8
	keyCountEnd         = keyCountFirstByte + keyCountSize

	trieOffFirstByte  = keyCountEnd
	trieOffEnd        = trieOffFirstByte + 8
	trieLenFirstByte  = trieOffEnd
	trieLenEnd        = trieLenFirstByte + 8
	bloomOffFirstByte = trieLenEnd
	bloomOffEnd       = bloomOffFirstByte + 8
	bloomLenFirstByte = bloomOffEnd
	bloomLenEnd       = bloomLenFirstByte + 8
)

var (
	ErrBadMagic          = errors.New("searchindex: header magic invalid")
	ErrBadVersion        = errors.New("searchindex: header version unsupported")
	ErrBadFlags          = errors.New("searchindex: header carries unknown flags")
	ErrBadHeaderSize     = errors.New("searchindex: header region too small")
	ErrBadSection        = errors.New("searchindex: section out of bounds")
	ErrContentIDMismatch = errors.New("searchindex: content id does not match blob")
)

// Header describes the sections of one index container blob.
type Header struct {
	Flags      uint8
	EntryCount uint64
	KeyCount   uint64
	TrieOff    uint64
	TrieLen    uint64
	BloomOff   uint64
	BloomLen   uint64
}

func (h Header) HasBloom() bool { return h.Flags&FlagHasBloom != 0 }

func (h Header) HasRanks() bool { return h.Flags&FlagHasRanks != 0 }

func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderBytes)
	if err := EncodeHeader(b, h); err != nil {
		return nil, err
	}
	return b, nil
}

func (h *Header) UnmarshalBinary(b []byte) error {
	dec, err := DecodeHeader(b)
	if err != nil {
		return err
	}
	*h = dec
	return nil
}

// EncodeHeader writes h into the first HeaderBytes of b, clearing the
// reserved bytes.
func EncodeHeader(b []byte, h Header) error {
	if len(b) < HeaderBytes {
		return ErrBadHeaderSize
	}
	if h.Flags&^knownFlags != 0 {
		return ErrBadFlags
	}

	clear(b[:HeaderBytes])
	copy(b[magicFirstByte:magicEnd], Magic)
	b[versionByte] = Version
	b[flagsByte] = h.Flags
	binary.BigEndian.PutUint64(b[entryCountFirstByte:entryCountEnd], h.EntryCount)
	binary.BigEndian.PutUint64(b[keyCountFirstByte:keyCountEnd], h.KeyCount)
	binary.BigEndian.PutUint64(b[trieOffFirstByte:trieOffEnd], h.TrieOff)
	binary.BigEndian.PutUint64(b[trieLenFirstByte:trieLenEnd], h.TrieLen)
	binary.BigEndian.PutUint64(b[bloomOffFirstByte:bloomOffEnd], h.BloomOff)
	binary.BigEndian.PutUint64(b[bloomLenFirstByte:bloomLenEnd], h.BloomLen)
	return nil
}

// DecodeHeader reads and validates a container header from b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderBytes {
		return Header{}, ErrBadHeaderSize
	}
	if string(b[magicFirstByte:magicEnd]) != Magic {
		return Header{}, ErrBadMagic
	}
	if b[versionByte] != Version {
		return Header{}, ErrBadVersion
	}
	if b[flagsByte]&^knownFlags != 0 {
		return Header{}, ErrBadFlags
	}

	return Header{
		Flags:      b[flagsByte],
		EntryCount: binary.BigEndian.Uint64(b[entryCountFirstByte:entryCountEnd]),
		KeyCount:   binary.BigEndian.Uint64(b[keyCountFirstByte:keyCountEnd]),
		TrieOff:    binary.BigEndian.Uint64(b[trieOffFirstByte:trieOffEnd]),
		TrieLen:    binary.BigEndian.Uint64(b[trieLenFirstByte:trieLenEnd]),
		BloomOff:   binary.BigEndian.Uint64(b[bloomOffFirstByte:bloomOffEnd]),
		BloomLen:   binary.BigEndian.Uint64(b[bloomLenFirstByte:bloomLenEnd]),
	}, nil
}

// checkSections validates the header's section spans against the blob size.
func checkSections(h Header, size uint64) error {
	inBounds := func(off, length uint64) bool {
		return off >= HeaderBytes && length <= size && off <= size-length
	}
	if !inBounds(h.TrieOff, h.TrieLen) {
		return ErrBadSection
	}
	if h.HasBloom() {
		if h.BloomLen == 0 || !inBounds(h.BloomOff, h.BloomLen) {
			return ErrBadSection
		}
	} else if h.BloomOff != 0 || h.BloomLen != 0 {
		return ErrBadSection
	}
	return nil
}
