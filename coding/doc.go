package coding

/*

# Low level encoding primitives for the index builders

This package carries the byte-level vocabulary shared by the index formats:

- `Sink`: an append-only byte destination that reports its write position.
  Builders compute subtree byte sizes as position deltas, so the position is
  part of the contract, not an optimisation.
- `BufferSink`: the canonical in-memory Sink. The trie format requires a
  single whole-output byte reversal after building (see the trie package), so
  the raw output must be resident anyway.
- Unsigned varints in the base-128 continuation-bit layout, written with
  `github.com/multiformats/go-varint`. The multiformats reader additionally
  rejects non-minimal encodings, which every writer here produces anyway.
- Signed varints as zigzag (0,-1,1,-2,2,... -> 0,1,2,3,4,...) over the
  unsigned layout, keeping small magnitudes small in either sign.

All multi-byte fixed-width integers elsewhere in this repository are big
endian; varints are the only little-endian-grouped encoding in use.

*/
