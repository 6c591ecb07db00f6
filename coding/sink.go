package coding

import "io"

// Sink is an append-only byte destination which knows how many bytes it has
// accepted. Builders record a start position, emit a subtree, and take the
// position delta as the subtree's byte size, so Pos must count every byte
// passed to Write.
type Sink interface {
	io.Writer
	Pos() uint64
}

// BufferSink collects written bytes in memory.
//
// The zero value is ready to use.
type BufferSink struct {
	buf []byte
}

// NewBufferSink returns an empty BufferSink.
func NewBufferSink() *BufferSink { return &BufferSink{} }

func (s *BufferSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Pos returns the number of bytes written so far.
func (s *BufferSink) Pos() uint64 { return uint64(len(s.buf)) }

// Len returns the number of bytes written so far.
func (s *BufferSink) Len() int { return len(s.buf) }

// Bytes returns the written bytes. The slice aliases the sink's internal
// buffer and remains valid only until the next Write.
func (s *BufferSink) Bytes() []byte { return s.buf }

// Reverse reverses the accumulated bytes in place. The trie builder's raw
// output must be reversed exactly once, by the sink owner, after the build
// completes; this is that step.
func (s *BufferSink) Reverse() { ReverseBytes(s.buf) }

// ReverseBytes reverses b in place.
func ReverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
