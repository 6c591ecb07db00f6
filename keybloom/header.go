package keybloom

import "encoding/binary"

// Header layout
//
// .     | magic | ver |  k  | reserved | mBits  | added   | reserved |
// .     | 0 - 3 |  4  |  5  |  6 - 7   | 8 - 15 | 16 - 23 | 24 - 31  |
// bytes |   4   |  1  |  1  |    2     |   8    |    8    |    8     |
const (
	magicFirstByte = 0
	magicSize      = 4
	magicEnd       = magicFirstByte + magicSize

	versionByte = magicEnd
	kByte       = versionByte + 1

	bitsFirstByte = 8
	bitsSize      = 8
	bitsEnd       = bitsFirstByte + bitsSize

	addedFirstByte = bitsEnd
	addedSize      = 8
	addedEnd       = addedFirstByte + addedSize
)

// EncodeHeader writes h into the first HeaderBytes of region. The reserved
// bytes are cleared so a rewritten header never carries stale content.
func EncodeHeader(region []byte, h Header) error {
	if len(region) < HeaderBytes {
		return ErrBadRegionSize
	}
	if h.K == 0 {
		return ErrBadK
	}
	if h.MBits == 0 || h.MBits%wordBits != 0 {
		return ErrBadBits
	}

	clear(region[:HeaderBytes])
	copy(region[magicFirstByte:magicEnd], Magic)
	region[versionByte] = Version
	region[kByte] = h.K
	binary.BigEndian.PutUint64(region[bitsFirstByte:bitsEnd], h.MBits)
	binary.BigEndian.PutUint64(region[addedFirstByte:addedEnd], h.Added)
	return nil
}

// DecodeHeader reads and validates a header from region.
func DecodeHeader(region []byte) (Header, error) {
	if len(region) < HeaderBytes {
		return Header{}, ErrBadRegionSize
	}
	if string(region[magicFirstByte:magicEnd]) != Magic {
		return Header{}, ErrBadMagic
	}
	if region[versionByte] != Version {
		return Header{}, ErrBadVersion
	}

	h := Header{
		K:     region[kByte],
		MBits: binary.BigEndian.Uint64(region[bitsFirstByte:bitsEnd]),
		Added: binary.BigEndian.Uint64(region[addedFirstByte:addedEnd]),
	}
	if h.K == 0 {
		return Header{}, ErrBadK
	}
	if h.MBits == 0 || h.MBits%wordBits != 0 {
		return Header{}, ErrBadBits
	}
	return h, nil
}
