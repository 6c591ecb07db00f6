package trie

import "io"

// ValueList accumulates the values attached to exactly one key, in arrival
// order. The builder only ever appends, tests emptiness, counts, and dumps;
// the per-value wire encoding is the implementation's business and is opaque
// to the trie format. Leaf nodes are parsed by reading values until the node
// region is exhausted, so the encoding must be self-delimiting.
type ValueList[V any] interface {
	Append(v V)
	Empty() bool
	Count() int
	Dump(w io.Writer) error
}

// RawList is a ValueList over opaque byte-slice values, dumped back to back
// with no framing. Callers are responsible for the self-delimiting property.
type RawList struct {
	values [][]byte
}

// NewRawList returns an empty RawList.
func NewRawList() *RawList { return &RawList{} }

func (l *RawList) Append(v []byte) { l.values = append(l.values, v) }

func (l *RawList) Empty() bool { return len(l.values) == 0 }

func (l *RawList) Count() int { return len(l.values) }

func (l *RawList) Dump(w io.Writer) error {
	for _, v := range l.values {
		if _, err := w.Write(v); err != nil {
			return err
		}
	}
	return nil
}
