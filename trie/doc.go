package trie

/*

# Streaming builder for the compressed search trie format

This package turns one ascending stream of (key, value) entries into a
compact, prefix-compressed binary trie, in a single forward pass, holding
only one open frame per character of the current path.

## Core invariants

1. keys arrive in CompareKeys order (equal keys allowed; they share a node)
2. a subtree is flushed the instant the input diverges from it, so every
   node's byte size is known before its parent references it
3. memory is bounded by the longest key, never by the entry count

Violating (1) is recoverable (ErrOutOfOrderKey, before any state changes);
everything else the builder checks is an internal invariant and panics.

## Node formats

Leaf node (no children, not the root):

	[value] ... [value]

Internal node:

	[1: header]: [2: min(valueCount, 3)] [6: min(childCount, 63)]
	[vu valueCount]: if the header field saturated at 3
	[vu childCount]: if the header field saturated at 63
	[value] ... [value]
	[child descriptor] ... [child descriptor]

Child descriptor:

	[1: header]: [1: isLeaf] [1: isShortEdge] [6: low bits]
	[vu edgeLen-1]: if not short and the low bits saturated at 63
	[vi edgeChar deltas]: edgeLen of them, if not short
	[edge aggregation bytes]
	[vu child subtree size]: omitted for the final descriptor

`vu` is an unsigned varint, `vi` a zigzag signed varint (package coding).

Edge characters are delta chained: each character is stored as its signed
difference from the previous one, and the first from a running base
character. The base starts as the node's own label (DefaultChar at the root)
and after every descriptor becomes that edge's first character. A short edge
packs a single-character label whose zigzag delta fits 6 bits directly into
the header's low bits.

## The double reversal

Entries arrive ascending, so subtrees complete in post-order and, within one
parent, from the highest labelled child down. Each node's content is written
byte-reversed, and the sink owner reverses the whole output once after
Finish. The two reversals cancel per node and globally flip the layout: a
forward reader sees the root first, then each node's descriptors and child
subtrees from the highest label down to the lowest, with the final
descriptor's subtree running to the end of the parent's region (which is why
its size can be omitted). Reordering the writes to avoid the reversal would
change the wire format; the reversal is the format.

## Aggregation

Every frame carries an EdgeValues state. Values added at a node feed its own
state; a closing frame merges its state into its parent and stores its
summary onto the new child edge. With MaxEdgeValues a reader can therefore
bound the best value in a subtree from the edge alone and prune its descent.
NopEdgeValues stores nothing and costs nothing.

## Typical use

	sink := coding.NewBufferSink()
	err := trie.Build(sink, entries, trie.Config[[]byte]{
		NewValues:     func() trie.ValueList[[]byte] { return trie.NewRawList() },
		NewEdgeValues: func() trie.EdgeValues { return trie.NopEdgeValues{} },
	})
	...
	sink.Reverse()
	blob := sink.Bytes()

*/
