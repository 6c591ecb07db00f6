package trie

import "errors"

// Char is one character unit of a key. The builder attaches no meaning to a
// Char beyond its integer order; alphabet normalisation happens upstream.
type Char uint32

// DefaultChar is the base character assumed for the root node's first child
// descriptor. Every other node's descriptors are based on the node's own
// label character.
const DefaultChar Char = 0

var (
	// ErrOutOfOrderKey reports an entry whose key sorts before its
	// predecessor. The single forward pass cannot repair ordering after the
	// fact, so the build must be abandoned. The offending Add does not modify
	// builder state.
	ErrOutOfOrderKey = errors.New("trie: key out of order")

	// ErrFinished reports use of a builder after Finish.
	ErrFinished = errors.New("trie: builder already finished")

	// ErrIncompleteConfig reports a missing sink or factory.
	ErrIncompleteConfig = errors.New("trie: sink, NewValues and NewEdgeValues are required")
)
