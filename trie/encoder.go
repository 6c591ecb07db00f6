package trie

import (
	"io"

	"github.com/Fayozjon/omim/coding"
)

const (
	// Internal node header byte: the top 2 bits carry min(valueCount, 3) and
	// the low 6 bits carry min(childCount, 63). A saturated field escapes the
	// true count to a following varint.
	headerValueShift    = 6
	headerValueSaturate = 3
	headerChildSaturate = 63

	// Child descriptor header byte.
	childLeafBit  = 0x80
	childShortBit = 0x40
	childLowMask  = 0x3f

	// Edge labels at or beyond this length indicate a corrupted build, not a
	// plausible key.
	maxEdgeChars = 100000
)

// ChildEdge describes one already-closed child subtree: the compressed edge
// label leading to it, whether it is a leaf, its serialized byte size, and
// the stored aggregation summary for the edge.
type ChildEdge struct {
	Leaf      bool
	Size      uint64
	Edge      []Char
	EdgeValue []byte
}

// WriteNode serializes one node.
//
// A node with no children that is not the root is a leaf: its output is the
// value list bytes alone, no header. Every other node is internal: header
// byte, escaped counts, value list bytes, then one descriptor per child.
//
// Children must be ordered ascending by the first character of their edge
// labels. Descriptors are emitted from the last child down to the first,
// which is the order a reader encounters them in after the whole-blob
// reversal; the first descriptor read is therefore the highest-labelled
// child, and the size of the final (lowest) one is omitted because its
// subtree runs to the end of the node's region.
//
// baseChar seeds the delta chain for the first emitted descriptor; for
// non-root nodes it is the node's own label character, for the root it is
// DefaultChar. After each descriptor the base becomes that edge's first
// character.
func WriteNode[V any](w io.Writer, baseChar Char, values ValueList[V], children []ChildEdge, isRoot bool) error {
	if len(children) == 0 && !isRoot {
		return values.Dump(w)
	}
	valueCount := values.Count()
	if valueCount < 0 {
		panic("trie: negative value count")
	}
	childCount := len(children)

	header := byte(min(uint64(valueCount), headerValueSaturate)<<headerValueShift |
		min(uint64(childCount), headerChildSaturate))
	if _, err := w.Write([]byte{header}); err != nil {
		return err
	}
	if valueCount >= headerValueSaturate {
		if _, err := coding.WriteUvarint(w, uint64(valueCount)); err != nil {
			return err
		}
	}
	if childCount >= headerChildSaturate {
		if _, err := coding.WriteUvarint(w, uint64(childCount)); err != nil {
			return err
		}
	}
	if err := values.Dump(w); err != nil {
		return err
	}
	for i := childCount - 1; i >= 0; i-- {
		if err := writeChildEdge(w, &children[i], baseChar, i == 0); err != nil {
			return err
		}
		baseChar = children[i].Edge[0]
	}
	return nil
}

// writeChildEdge emits one child descriptor. last suppresses the subtree
// size, which is implicit for the final descriptor.
func writeChildEdge(w io.Writer, c *ChildEdge, baseChar Char, last bool) error {
	edgeLen := len(c.Edge)
	if edgeLen == 0 {
		panic("trie: empty edge label")
	}
	if edgeLen >= maxEdgeChars {
		panic("trie: edge label implausibly long")
	}

	header := byte(0)
	if c.Leaf {
		header |= childLeafBit
	}
	diff0 := coding.ZigZag(int64(c.Edge[0]) - int64(baseChar))
	if edgeLen == 1 && diff0&^uint64(childLowMask) == 0 {
		header |= childShortBit | byte(diff0)
		if _, err := w.Write([]byte{header}); err != nil {
			return err
		}
	} else {
		if uint64(edgeLen-1) < childLowMask {
			header |= byte(edgeLen - 1)
			if _, err := w.Write([]byte{header}); err != nil {
				return err
			}
		} else {
			header |= childLowMask
			if _, err := w.Write([]byte{header}); err != nil {
				return err
			}
			if _, err := coding.WriteUvarint(w, uint64(edgeLen-1)); err != nil {
				return err
			}
		}
		base := baseChar
		for _, ch := range c.Edge {
			if _, err := coding.WriteVarint(w, int64(ch)-int64(base)); err != nil {
				return err
			}
			base = ch
		}
	}
	if _, err := w.Write(c.EdgeValue); err != nil {
		return err
	}
	if !last {
		if _, err := coding.WriteUvarint(w, c.Size); err != nil {
			return err
		}
	}
	return nil
}
