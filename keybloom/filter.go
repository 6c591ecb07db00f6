package keybloom

import (
	"crypto/sha256"
	"encoding/binary"
)

// keyDomain prefixes every hashed key, separating this use of SHA-256 from
// any other hashing of the same key bytes elsewhere in the container.
const keyDomain = 0x4B

// Filter is a single bloom filter over the distinct keys of one index. It
// operates directly on its serialized form: a HeaderBytes header followed by
// the bitset, so Bytes can be embedded in a container section as is.
type Filter struct {
	region []byte
	k      uint8
	mBits  uint64
	added  uint64
}

// New returns an empty filter sized for keyCount distinct keys at the target
// false positive rate.
func New(keyCount uint64, rate float64) (*Filter, error) {
	mBits, err := BitsForRate(keyCount, rate)
	if err != nil {
		return nil, err
	}
	k := HashesForBits(mBits, keyCount)

	region := make([]byte, FilterBytes(mBits))
	if err := EncodeHeader(region, Header{K: k, MBits: mBits}); err != nil {
		return nil, err
	}
	return &Filter{region: region, k: k, mBits: mBits}, nil
}

// Load wraps a serialized filter. The region is aliased, not copied; callers
// that Add through a loaded filter mutate the original bytes.
func Load(region []byte) (*Filter, error) {
	h, err := DecodeHeader(region)
	if err != nil {
		return nil, err
	}
	if uint64(len(region)) < FilterBytes(h.MBits) {
		return nil, ErrBadRegionSize
	}
	return &Filter{region: region, k: h.K, mBits: h.MBits, added: h.Added}, nil
}

// Add marks key as present and increments the header's added counter.
func (f *Filter) Add(key []byte) {
	h1, h2 := hashPair(key)
	bitset := f.region[HeaderBytes:]
	for i := uint64(0); i < uint64(f.k); i++ {
		j := (h1 + i*h2) % f.mBits
		bitset[j>>3] |= 1 << (j & 7)
	}
	f.added++
	binary.BigEndian.PutUint64(f.region[addedFirstByte:addedEnd], f.added)
}

// MaybeContains reports whether key may be present.
//
// false means key is definitely not present. true means key is present, or is
// a false positive.
func (f *Filter) MaybeContains(key []byte) bool {
	h1, h2 := hashPair(key)
	bitset := f.region[HeaderBytes:]
	for i := uint64(0); i < uint64(f.k); i++ {
		j := (h1 + i*h2) % f.mBits
		if bitset[j>>3]&(1<<(j&7)) == 0 {
			return false
		}
	}
	return true
}

// Bytes returns the serialized filter, header included. The slice aliases the
// filter's backing region.
func (f *Filter) Bytes() []byte { return f.region }

// K returns the hash count.
func (f *Filter) K() uint8 { return f.k }

// Bits returns the bitset size in bits.
func (f *Filter) Bits() uint64 { return f.mBits }

// Added returns how many Add calls the filter has absorbed.
func (f *Filter) Added() uint64 { return f.added }

// hashPair derives the double hashing pair for key:
//
//	SHA-256( 0x4B || key )
//
// h1 is the first 8 digest bytes big endian, h2 the next 8. h2 is forced
// nonzero so the probe sequence always advances.
func hashPair(key []byte) (h1, h2 uint64) {
	h := sha256.New()
	h.Write([]byte{keyDomain})
	h.Write(key)
	sum := h.Sum(nil)

	h1 = binary.BigEndian.Uint64(sum[0:8])
	h2 = binary.BigEndian.Uint64(sum[8:16])
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}
