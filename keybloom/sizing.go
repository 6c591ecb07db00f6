package keybloom

import "math"

// BitsForRate returns the bitset size, in bits, needed to hold keyCount
// distinct keys at the target false positive rate, rounded up to whole 64 bit
// words.
func BitsForRate(keyCount uint64, rate float64) (uint64, error) {
	if keyCount == 0 {
		return 0, ErrZeroKeys
	}
	if rate <= 0 || rate >= 1 {
		return 0, ErrBadRate
	}

	// m = -n ln(p) / ln(2)^2, the standard optimum.
	m := math.Ceil(-float64(keyCount) * math.Log(rate) / (math.Ln2 * math.Ln2))
	bits := uint64(m)
	if r := bits % wordBits; r != 0 {
		bits += wordBits - r
	}
	if bits == 0 {
		bits = wordBits
	}
	return bits, nil
}

// HashesForBits returns the hash count minimising the false positive rate for
// a bitset of mBits holding keyCount keys.
func HashesForBits(mBits uint64, keyCount uint64) uint8 {
	if keyCount == 0 {
		return 1
	}
	// k = (m/n) ln(2)
	k := math.Round(float64(mBits) / float64(keyCount) * math.Ln2)
	if k < 1 {
		return 1
	}
	if k > maxHashes {
		return maxHashes
	}
	return uint8(k)
}

// FilterBytes returns the serialized filter size for a bitset of mBits. mBits
// must be a whole number of words, as BitsForRate guarantees.
func FilterBytes(mBits uint64) uint64 {
	return HeaderBytes + mBits/8
}
