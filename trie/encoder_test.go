package trie

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func rawValues(vals ...[]byte) *RawList {
	l := NewRawList()
	for _, v := range vals {
		l.Append(v)
	}
	return l
}

func encodeNode(t *testing.T, baseChar Char, values ValueList[[]byte], children []ChildEdge, isRoot bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteNode(&buf, baseChar, values, children, isRoot))
	return buf.Bytes()
}

func TestWriteNodeLeaf(t *testing.T) {
	got := encodeNode(t, DefaultChar, rawValues([]byte{0x01, 0x02}, []byte{0x03}), nil, false)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, got)
}

func TestWriteNodeEmptyRoot(t *testing.T) {
	got := encodeNode(t, DefaultChar, rawValues(), nil, true)
	require.Equal(t, []byte{0x00}, got)
}

func TestWriteNodeRootSuppressesLeaf(t *testing.T) {
	vals := rawValues([]byte{0xaa})

	asLeaf := encodeNode(t, DefaultChar, vals, nil, false)
	require.Equal(t, []byte{0xaa}, asLeaf)

	asRoot := encodeNode(t, DefaultChar, vals, nil, true)
	require.Equal(t, []byte{0x40, 0xaa}, asRoot)
}

func TestWriteNodeShortEdges(t *testing.T) {
	// Two leaf children, both within short-edge delta range of the running
	// base. Descriptors come out highest first; only the first emitted one
	// carries its size.
	children := []ChildEdge{
		{Leaf: true, Size: 7, Edge: []Char{101}},
		{Leaf: true, Size: 9, Edge: []Char{103}},
	}
	got := encodeNode(t, 100, rawValues(), children, false)
	require.Equal(t, []byte{
		0x02,       // 0 values, 2 children
		0xc6, 0x09, // char 103: leaf, short, zigzag(+3), size 9
		0xc3, // char 101: leaf, short, zigzag(-2) from new base 103, size omitted
	}, got)
}

func TestWriteNodeValueCountEscape(t *testing.T) {
	children := []ChildEdge{{Leaf: true, Size: 1, Edge: []Char{5}}}
	got := encodeNode(t, DefaultChar, rawValues([]byte{0xaa}, []byte{0xbb}, []byte{0xcc}), children, false)
	require.Equal(t, []byte{
		0xc1,             // header saturates the value field at 3
		0x03,             // escaped value count
		0xaa, 0xbb, 0xcc, // values
		0xca, // char 5: leaf, short, zigzag(+5)
	}, got)
}

func TestWriteNodeChildCountEscape(t *testing.T) {
	mkChildren := func(n int) []ChildEdge {
		children := make([]ChildEdge, n)
		for i := range children {
			children[i] = ChildEdge{Leaf: true, Size: 1, Edge: []Char{Char(i + 1)}}
		}
		return children
	}

	got := encodeNode(t, DefaultChar, rawValues(), mkChildren(62), false)
	require.Equal(t, byte(0x3e), got[0])

	got = encodeNode(t, DefaultChar, rawValues(), mkChildren(63), false)
	require.Equal(t, byte(0x3f), got[0])
	require.Equal(t, byte(0x3f), got[1], "child count must escape to a varint at 63")
}

func TestWriteNodeLongEdgeDeltas(t *testing.T) {
	// A multi-character edge chains deltas through the label, starting from
	// the node's base character, and negative deltas stay compact.
	children := []ChildEdge{
		{Leaf: false, Size: 4, Edge: []Char{5, 4, 300}, EdgeValue: []byte{0xee}},
	}
	got := encodeNode(t, 10, rawValues(), children, false)
	require.Equal(t, []byte{
		0x01,       // 0 values, 1 child
		0x02,       // internal child, long edge, edgeLen-1 = 2
		0x09,       // zigzag(5 - 10)
		0x01,       // zigzag(4 - 5)
		0xd0, 0x04, // zigzag(300 - 4) = 592
		0xee, // edge aggregation bytes
	}, got)
}

func TestWriteNodeEdgeLenEscape(t *testing.T) {
	edge := make([]Char, 70)
	for i := range edge {
		edge[i] = Char(i + 1)
	}
	children := []ChildEdge{{Leaf: true, Size: 1, Edge: edge}}
	got := encodeNode(t, DefaultChar, rawValues(), children, false)

	want := []byte{0x01, 0xbf, 0x45}
	want = append(want, bytes.Repeat([]byte{0x02}, 70)...)
	require.Equal(t, want, got)
}

func TestWriteNodeDescriptorOrderAndBaseChaining(t *testing.T) {
	children := []ChildEdge{
		{Leaf: false, Size: 3, Edge: []Char{40, 41}, EdgeValue: []byte{0x09}},
		{Leaf: true, Size: 5, Edge: []Char{45}, EdgeValue: []byte{0x08}},
		{Leaf: false, Size: 100, Edge: []Char{60}, EdgeValue: []byte{0x07}},
	}
	got := encodeNode(t, 50, rawValues(), children, false)
	require.Equal(t, []byte{
		0x03,             // 0 values, 3 children
		0x54, 0x07, 0x64, // char 60: short zigzag(+10), value, size 100
		0xdd, 0x08, 0x05, // char 45: leaf, short zigzag(-15) from base 60, value, size 5
		0x01, 0x09, 0x02, 0x09, // edge 40,41: long, zigzag(-5) from base 45, zigzag(+1), value, no size
	}, got)
}

func TestWriteNodePanicsOnBadEdges(t *testing.T) {
	var buf bytes.Buffer
	require.Panics(t, func() {
		_ = WriteNode(&buf, DefaultChar, rawValues(), []ChildEdge{{Leaf: true, Size: 1}}, false)
	}, "empty edge label")

	require.Panics(t, func() {
		edge := make([]Char, maxEdgeChars)
		_ = WriteNode(&buf, DefaultChar, rawValues(), []ChildEdge{{Leaf: true, Size: 1, Edge: edge}}, false)
	}, "implausibly long edge label")
}

type failingList struct{ RawList }

var errDump = errors.New("dump failed")

func (l *failingList) Dump(io.Writer) error { return errDump }

func TestWriteNodeSurfacesValueListErrors(t *testing.T) {
	var buf bytes.Buffer
	err := WriteNode[[]byte](&buf, DefaultChar, &failingList{}, nil, true)
	require.ErrorIs(t, err, errDump)
}
