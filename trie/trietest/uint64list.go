package trietest

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/Fayozjon/omim/coding"
	"github.com/Fayozjon/omim/trie"
)

// Uint64List is a trie.ValueList over uint64 values encoded as unsigned
// varints, the simplest self-delimiting value model for exercising the
// builder.
type Uint64List struct {
	values []uint64
}

// NewUint64List returns an empty list.
func NewUint64List() *Uint64List { return &Uint64List{} }

func (l *Uint64List) Append(v uint64) { l.values = append(l.values, v) }

func (l *Uint64List) Empty() bool { return len(l.values) == 0 }

func (l *Uint64List) Count() int { return len(l.values) }

func (l *Uint64List) Dump(w io.Writer) error {
	for _, v := range l.values {
		if _, err := coding.WriteUvarint(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadUint64Value is the Config.ReadValue matching Uint64List.
func ReadUint64Value(r *bytes.Reader) (uint64, error) {
	return coding.ReadUvarint(r)
}

// Uint64Raw is a Config raw-bytes function for uint64 values: 8 bytes big
// endian, so aggregation projections can recover the value.
func Uint64Raw(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

// Uint64Builder returns a builder config over Uint64List with the given
// aggregation policy factory.
func Uint64Builder(newEdgeValues func() trie.EdgeValues) trie.Config[uint64] {
	return trie.Config[uint64]{
		NewValues:     func() trie.ValueList[uint64] { return NewUint64List() },
		NewEdgeValues: newEdgeValues,
		Raw:           Uint64Raw,
		Equal:         func(a, b uint64) bool { return a == b },
	}
}
