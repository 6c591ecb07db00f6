package trie

import (
	"bytes"

	"github.com/Fayozjon/omim/coding"
)

// Entry pairs one key with one value for the convenience Build call.
type Entry[V any] struct {
	Key   []Char
	Value V
}

// Config carries the caller-supplied policies the builder is parameterized
// over.
type Config[V any] struct {
	// NewValues returns an empty value list. One list is created per open
	// frame.
	NewValues func() ValueList[V]

	// NewEdgeValues returns the aggregation policy's neutral state. One state
	// is created per open frame; all states of one build must be of the same
	// policy.
	NewEdgeValues func() EdgeValues

	// Raw returns a value's byte representation, which is what the
	// aggregation policy projects over. May be nil when the policy ignores
	// values entirely (NopEdgeValues).
	Raw func(v V) []byte

	// Equal reports whether two values carry the same payload. Consecutive
	// entries repeating both key and value are collapsed to one. A nil Equal
	// disables the collapsing; repeated entries are then all appended.
	Equal func(a, b V) bool
}

// frame is one open node on the build stack: the deepest suffix of the
// previous key that the next key may still share. begPos snapshots the sink
// position when the frame opened, so the subtree size falls out as a position
// delta when it closes.
type frame[V any] struct {
	begPos   uint64
	char     Char
	children []ChildEdge
	values   ValueList[V]
	edge     EdgeValues
}

// Builder streams ascending (key, value) entries into a serialized trie.
//
// The builder holds one open frame per character of the current key's path,
// plus the root, and nothing else: memory is bounded by the longest key, not
// by the input size. Subtrees are flushed the moment the input diverges from
// them, written byte-reversed; the sink owner must reverse the sink's whole
// contents once after Finish to obtain the readable blob.
type Builder[V any] struct {
	sink     coding.Sink
	cfg      Config[V]
	frames   []frame[V]
	prevKey  []Char
	prevVal  V
	havePrev bool
	finished bool
	err      error
}

// NewBuilder prepares a build writing to sink, with the root frame open.
func NewBuilder[V any](sink coding.Sink, cfg Config[V]) (*Builder[V], error) {
	if sink == nil || cfg.NewValues == nil || cfg.NewEdgeValues == nil {
		return nil, ErrIncompleteConfig
	}
	b := &Builder[V]{sink: sink, cfg: cfg}
	b.frames = append(b.frames, b.newFrame(sink.Pos(), DefaultChar))
	return b, nil
}

func (b *Builder[V]) newFrame(pos uint64, c Char) frame[V] {
	return frame[V]{
		begPos: pos,
		char:   c,
		values: b.cfg.NewValues(),
		edge:   b.cfg.NewEdgeValues(),
	}
}

// Add feeds the next entry. Keys must arrive in CompareKeys order; an entry
// repeating the previous key appends to the same node's value list, and an
// exact repeat of the previous entry is skipped. A key sorting before its
// predecessor returns ErrOutOfOrderKey and leaves the builder untouched.
func (b *Builder[V]) Add(key []Char, v V) error {
	if b.err != nil {
		return b.err
	}
	if b.finished {
		return ErrFinished
	}
	if b.havePrev {
		cmp := CompareKeys(key, b.prevKey)
		if cmp == 0 && b.cfg.Equal != nil && b.cfg.Equal(v, b.prevVal) {
			return nil
		}
		if cmp < 0 {
			return ErrOutOfOrderKey
		}
	}

	nCommon := commonPrefixLen(key, b.prevKey)

	// The root also counts as a common frame, hence the extra 1.
	if err := b.popFrames(len(b.frames) - nCommon - 1); err != nil {
		return err
	}

	pos := b.sink.Pos()
	for i := nCommon; i < len(key); i++ {
		b.frames = append(b.frames, b.newFrame(pos, key[i]))
	}

	deepest := &b.frames[len(b.frames)-1]
	deepest.values.Append(v)
	var raw []byte
	if b.cfg.Raw != nil {
		raw = b.cfg.Raw(v)
	}
	deepest.edge.Add(raw)

	b.prevKey = append(b.prevKey[:0], key...)
	b.prevVal = v
	b.havePrev = true
	return nil
}

// Finish flushes every open frame and writes the root, which is always
// serialized as an internal node so the blob starts with a header even for
// tiny inputs. The builder accepts no further entries afterwards.
func (b *Builder[V]) Finish() error {
	if b.err != nil {
		return b.err
	}
	if b.finished {
		return ErrFinished
	}
	if err := b.popFrames(len(b.frames) - 1); err != nil {
		return err
	}
	if err := b.writeFrame(&b.frames[0], DefaultChar, true); err != nil {
		b.err = err
		return err
	}
	b.finished = true
	return nil
}

// popFrames closes the deepest n frames. A closing frame with no values of
// its own and a single child contributes no node of its own: it folds into
// the child by prefixing its character onto the child's edge label. Any other
// frame is serialized and its byte size recorded. Either way the parent
// absorbs the frame's aggregation state and the new child edge carries the
// frame's stored summary.
func (b *Builder[V]) popFrames(n int) error {
	if n >= len(b.frames) {
		panic("trie: frame stack underflow")
	}
	for ; n > 0; n-- {
		fr := &b.frames[len(b.frames)-1]
		parent := &b.frames[len(b.frames)-2]

		var ce ChildEdge
		if fr.values.Empty() && len(fr.children) <= 1 {
			if len(fr.children) != 1 {
				panic("trie: folding a frame with no child")
			}
			ch := fr.children[0]
			edge := make([]Char, 0, len(ch.Edge)+1)
			edge = append(edge, fr.char)
			edge = append(edge, ch.Edge...)
			ce = ChildEdge{Leaf: ch.Leaf, Size: ch.Size, Edge: edge}
		} else {
			if err := b.writeFrame(fr, fr.char, false); err != nil {
				b.err = err
				return err
			}
			ce = ChildEdge{
				Leaf: len(fr.children) == 0,
				Size: b.sink.Pos() - fr.begPos,
				Edge: []Char{fr.char},
			}
		}

		parent.edge.Merge(fr.edge)
		var ev bytes.Buffer
		if err := fr.edge.Store(&ev); err != nil {
			b.err = err
			return err
		}
		ce.EdgeValue = ev.Bytes()
		parent.children = append(parent.children, ce)

		b.frames = b.frames[:len(b.frames)-1]
	}
	return nil
}

// writeFrame serializes one node into a scratch buffer, reverses the scratch
// bytes, and appends them to the sink. Together with the caller's single
// whole-blob reversal this turns the post-order write sequence into a
// pre-order readable layout.
func (b *Builder[V]) writeFrame(fr *frame[V], baseChar Char, isRoot bool) error {
	var scratch bytes.Buffer
	if err := WriteNode(&scratch, baseChar, fr.values, fr.children, isRoot); err != nil {
		return err
	}
	out := scratch.Bytes()
	coding.ReverseBytes(out)
	_, err := b.sink.Write(out)
	return err
}

// Build streams entries, which must already be sorted ascending by key, into
// sink and finishes the trie. The caller owns the sink and must reverse its
// full contents once Build returns to obtain the readable blob.
func Build[V any](sink coding.Sink, entries []Entry[V], cfg Config[V]) error {
	b, err := NewBuilder(sink, cfg)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := b.Add(e.Key, e.Value); err != nil {
			return err
		}
	}
	return b.Finish()
}
