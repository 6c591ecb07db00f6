package searchindex

/*

# Search index container

This package assembles the offline search index: sorted (token, feature)
entries streamed through the trie builder and framed, with the sections an
index front end needs around the trie itself.

## Container layout

	+----------------------+  64B header (magic "OMSI", version, flags,
	| header               |   counts, section offsets and lengths)
	+----------------------+
	| trie section         |  the reversed trie builder output
	+----------------------+
	| key bloom section    |  optional, FlagHasBloom
	+----------------------+

Section offsets and lengths are explicit in the header; the digest and
content id cover the whole blob. FlagHasRanks records that every trie edge
carries a one byte maximum-rank summary, which is how a reader knows the
edge value width.

## Identity

Blobs are content addressed twice over:

  - Digest: BLAKE3-256 of the blob, the manifest's binding value.
  - ContentID: the same hash as a self-describing multihash, used in blob
    listings and logs where the hash scheme must travel with the value.

The index name is deliberately not part of the blob; it belongs to the
publishing layer and travels in the signed manifest.

*/
