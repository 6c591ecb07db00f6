package coding

import (
	"io"

	"github.com/multiformats/go-varint"
)

// scratchLen is large enough for any uint64, including values above the
// multiformats 63-bit reading ceiling. Nothing in this repository writes such
// values, but PutUvarint must never overrun the scratch buffer.
const scratchLen = 10

// ZigZag maps a signed integer onto an unsigned one so that small magnitudes
// of either sign stay small: 0,-1,1,-2,2,... -> 0,1,2,3,4,...
func ZigZag(v int64) uint64 {
	uv := uint64(v) << 1
	if v < 0 {
		uv = ^uv
	}
	return uv
}

// UnZigZag inverts ZigZag.
func UnZigZag(uv uint64) int64 {
	v := int64(uv >> 1)
	if uv&1 != 0 {
		v = ^v
	}
	return v
}

// WriteUvarint writes x to w in the base-128 continuation-bit layout and
// returns the number of bytes written.
func WriteUvarint(w io.Writer, x uint64) (int, error) {
	var scratch [scratchLen]byte
	n := varint.PutUvarint(scratch[:], x)
	return w.Write(scratch[:n])
}

// WriteVarint zigzag-maps v and writes it as an unsigned varint.
func WriteVarint(w io.Writer, v int64) (int, error) {
	return WriteUvarint(w, ZigZag(v))
}

// UvarintLen returns the encoded byte length of x.
func UvarintLen(x uint64) int { return varint.UvarintSize(x) }

// ReadUvarint reads one unsigned varint from r. Non-minimal encodings are
// rejected by the underlying multiformats reader.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	return varint.ReadUvarint(r)
}

// ReadVarint reads one zigzag signed varint from r.
func ReadVarint(r io.ByteReader) (int64, error) {
	uv, err := varint.ReadUvarint(r)
	if err != nil {
		return 0, err
	}
	return UnZigZag(uv), nil
}
