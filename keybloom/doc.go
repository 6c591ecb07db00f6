package keybloom

/*

# Key presence sidecar for the search index container

This package implements the bloom filter section of the index container. The
filter covers the index's distinct keys so a front end can reject a token that
is definitely absent without touching the trie section at all.

A bloom filter is a probabilistic prefilter only:

  - "definitely not present" is exact, there are no false negatives.
  - "maybe present" admits false positives at the configured rate.

It is an I/O optimisation, never an authority; a positive answer must still be
resolved against the trie section.

## Layout

The serialized filter is a fixed 32 byte header followed by the bitset:

	+----------------------+  32B header (magic, version, k, mBits, added)
	| header               |
	+----------------------+  mBits/8 bytes
	| bitset               |
	+----------------------+

Header integers are big endian, like every fixed-width integer in this
repository. Bit j of the bitset lives at byte j/8, bit j%8, and bitset sizes
are whole 64 bit words, so reading the bitset as little-endian uint64 words
gives the identical numbering at word granularity for readers that scan that
way.

## Hashing

Membership probes use double hashing over a single SHA-256:

	sum = SHA-256( 0x4B || key )
	h1  = sum[0:8] big endian
	h2  = sum[8:16] big endian, forced nonzero
	bit i of k: (h1 + i*h2) mod mBits

The 0x4B domain byte keeps these probes independent of any other SHA-256 use
over the same key bytes.

Sizing comes from the standard optimum for a target false positive rate; see
BitsForRate and HashesForBits.

*/
