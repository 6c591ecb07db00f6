// Package trietest decodes trie blobs by mirroring the builder's format,
// supporting round-trip tests of the encoder and builder. It is test support,
// not a query engine: it materializes the whole node tree, which is exactly
// what the streaming builder exists to avoid.
package trietest

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/Fayozjon/omim/coding"
	"github.com/Fayozjon/omim/trie"
)

// Config parameterizes decoding over the caller-defined value encoding.
type Config[V any] struct {
	// ReadValue decodes one value from r. Leaf regions are drained by calling
	// it until no bytes remain, so the encoding must be self-delimiting.
	ReadValue func(r *bytes.Reader) (V, error)

	// EdgeValueLen is the fixed byte length of the stored edge aggregation
	// summaries: 0 for the no-op policy, the scalar width for max policies.
	EdgeValueLen int
}

// Node is one decoded node. Children appear in read order, which is
// descending by first edge character.
type Node[V any] struct {
	Values   []V
	Children []Child[V]
}

// Child is one decoded child descriptor together with its subtree.
type Child[V any] struct {
	Edge      []trie.Char
	EdgeValue []byte
	Leaf      bool
	Size      uint64
	Node      *Node[V]
}

// Decode parses a complete, already-reversed trie blob starting at its root.
func Decode[V any](blob []byte, cfg Config[V]) (*Node[V], error) {
	if cfg.ReadValue == nil {
		return nil, fmt.Errorf("trietest: ReadValue is required")
	}
	return decodeInternal(blob, trie.DefaultChar, cfg)
}

func decodeInternal[V any](region []byte, base trie.Char, cfg Config[V]) (*Node[V], error) {
	r := bytes.NewReader(region)
	header, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("trietest: node header: %w", err)
	}
	valueCount := uint64(header >> 6)
	childCount := uint64(header & 0x3f)
	if valueCount == 3 {
		if valueCount, err = coding.ReadUvarint(r); err != nil {
			return nil, fmt.Errorf("trietest: escaped value count: %w", err)
		}
	}
	if childCount == 63 {
		if childCount, err = coding.ReadUvarint(r); err != nil {
			return nil, fmt.Errorf("trietest: escaped child count: %w", err)
		}
	}

	n := &Node[V]{}
	for i := uint64(0); i < valueCount; i++ {
		v, err := cfg.ReadValue(r)
		if err != nil {
			return nil, fmt.Errorf("trietest: value %d of %d: %w", i, valueCount, err)
		}
		n.Values = append(n.Values, v)
	}

	for i := uint64(0); i < childCount; i++ {
		c, err := readChild[V](r, &base, i == childCount-1, cfg.EdgeValueLen)
		if err != nil {
			return nil, fmt.Errorf("trietest: descriptor %d of %d: %w", i, childCount, err)
		}
		n.Children = append(n.Children, c)
	}

	if childCount == 0 {
		if r.Len() != 0 {
			return nil, fmt.Errorf("trietest: %d trailing bytes after childless node", r.Len())
		}
		return n, nil
	}

	// Subtree regions follow the descriptors, in descriptor order. The final
	// child's region is whatever remains.
	off := len(region) - r.Len()
	for i := range n.Children {
		c := &n.Children[i]
		var sub []byte
		if i < len(n.Children)-1 {
			end := uint64(off) + c.Size
			if end > uint64(len(region)) {
				return nil, fmt.Errorf("trietest: child %d size %d overruns region", i, c.Size)
			}
			sub = region[off:end]
			off = int(end)
		} else {
			sub = region[off:]
			c.Size = uint64(len(sub))
			off = len(region)
		}
		if c.Leaf {
			c.Node, err = decodeLeaf(sub, cfg)
		} else {
			c.Node, err = decodeInternal(sub, c.Edge[len(c.Edge)-1], cfg)
		}
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func readChild[V any](r *bytes.Reader, base *trie.Char, last bool, edgeValueLen int) (Child[V], error) {
	var c Child[V]
	header, err := r.ReadByte()
	if err != nil {
		return c, err
	}
	c.Leaf = header&0x80 != 0

	if header&0x40 != 0 {
		ch, err := charAt(*base, coding.UnZigZag(uint64(header&0x3f)))
		if err != nil {
			return c, err
		}
		c.Edge = []trie.Char{ch}
	} else {
		edgeLen := uint64(header & 0x3f)
		if edgeLen == 63 {
			if edgeLen, err = coding.ReadUvarint(r); err != nil {
				return c, err
			}
		}
		edgeLen++
		prev := *base
		for range edgeLen {
			d, err := coding.ReadVarint(r)
			if err != nil {
				return c, err
			}
			ch, err := charAt(prev, d)
			if err != nil {
				return c, err
			}
			c.Edge = append(c.Edge, ch)
			prev = ch
		}
	}
	*base = c.Edge[0]

	if edgeValueLen > 0 {
		c.EdgeValue = make([]byte, edgeValueLen)
		if _, err := io.ReadFull(r, c.EdgeValue); err != nil {
			return c, err
		}
	}
	if !last {
		if c.Size, err = coding.ReadUvarint(r); err != nil {
			return c, err
		}
	}
	return c, nil
}

func charAt(base trie.Char, delta int64) (trie.Char, error) {
	x := int64(base) + delta
	if x < 0 || x > math.MaxUint32 {
		return 0, fmt.Errorf("trietest: character delta lands outside the alphabet: %d%+d", base, delta)
	}
	return trie.Char(x), nil
}

func decodeLeaf[V any](region []byte, cfg Config[V]) (*Node[V], error) {
	r := bytes.NewReader(region)
	n := &Node[V]{}
	for r.Len() > 0 {
		v, err := cfg.ReadValue(r)
		if err != nil {
			return nil, fmt.Errorf("trietest: leaf value %d: %w", len(n.Values), err)
		}
		n.Values = append(n.Values, v)
	}
	return n, nil
}

// Entries flattens the decoded trie into ascending (key, value) pairs,
// preserving the per-key value order.
func (n *Node[V]) Entries() []trie.Entry[V] {
	var out []trie.Entry[V]
	collect(n, nil, &out)
	return out
}

func collect[V any](n *Node[V], prefix []trie.Char, out *[]trie.Entry[V]) {
	for _, v := range n.Values {
		key := append([]trie.Char(nil), prefix...)
		*out = append(*out, trie.Entry[V]{Key: key, Value: v})
	}
	// Children were read highest first; walk them backwards for ascending
	// output.
	for i := len(n.Children) - 1; i >= 0; i-- {
		c := n.Children[i]
		key := make([]trie.Char, 0, len(prefix)+len(c.Edge))
		key = append(key, prefix...)
		key = append(key, c.Edge...)
		collect(c.Node, key, out)
	}
}
