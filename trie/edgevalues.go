package trie

import (
	"encoding/binary"
	"io"
)

// EdgeValues accumulates the auxiliary summary stored with every child edge,
// letting a reader prune a subtree without descending into it. One state is
// attached to each open frame; a frame's state absorbs the raw bytes of the
// values added at its own node, and the states of its children as they close.
//
// Merge must be associative and commutative: the order in which subtrees fold
// into their parent is an artifact of the traversal, not of the key order.
type EdgeValues interface {
	Add(raw []byte)
	Merge(other EdgeValues)
	Store(w io.Writer) error
}

// NopEdgeValues discards everything and stores zero bytes. Use it when no
// pruning acceleration is wanted; edges then carry no summary at all.
type NopEdgeValues struct{}

func (NopEdgeValues) Add([]byte) {}

func (NopEdgeValues) Merge(EdgeValues) {}

func (NopEdgeValues) Store(io.Writer) error { return nil }

// Unsigned is the scalar domain available to MaxEdgeValues.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// MaxEdgeValues tracks the maximum of a projection over every value beneath
// an edge. The summary is stored big endian at the scalar's fixed width, so
// readers know the edge value length from the policy alone.
type MaxEdgeValues[S Unsigned] struct {
	project func(raw []byte) S
	max     S
}

// NewMaxEdgeValues returns the neutral state for a max aggregation over
// project. The neutral value is the scalar zero, which is the identity for
// max over an unsigned domain.
func NewMaxEdgeValues[S Unsigned](project func(raw []byte) S) *MaxEdgeValues[S] {
	if project == nil {
		panic("trie: nil max projection")
	}
	return &MaxEdgeValues[S]{project: project}
}

func (m *MaxEdgeValues[S]) Add(raw []byte) {
	if v := m.project(raw); v > m.max {
		m.max = v
	}
}

// Merge folds another max state in. Mixing aggregation policies within one
// build is a caller bug and panics.
func (m *MaxEdgeValues[S]) Merge(other EdgeValues) {
	o, ok := other.(*MaxEdgeValues[S])
	if !ok {
		panic("trie: merging edge values of different policies")
	}
	if o.max > m.max {
		m.max = o.max
	}
}

func (m *MaxEdgeValues[S]) Store(w io.Writer) error {
	return binary.Write(w, binary.BigEndian, m.max)
}

// Max returns the current maximum.
func (m *MaxEdgeValues[S]) Max() S { return m.max }
