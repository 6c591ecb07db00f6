package coding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferSinkPosTracksWrites(t *testing.T) {
	s := NewBufferSink()
	require.Equal(t, uint64(0), s.Pos())

	n, err := s.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, uint64(3), s.Pos())

	_, err = s.Write(nil)
	require.NoError(t, err)
	require.Equal(t, uint64(3), s.Pos())

	_, err = s.Write([]byte{4})
	require.NoError(t, err)
	require.Equal(t, uint64(4), s.Pos())
	require.Equal(t, 4, s.Len())
	require.Equal(t, []byte{1, 2, 3, 4}, s.Bytes())
}

func TestBufferSinkReverse(t *testing.T) {
	s := NewBufferSink()
	_, err := s.Write([]byte{1, 2, 3, 4, 5})
	require.NoError(t, err)
	s.Reverse()
	require.Equal(t, []byte{5, 4, 3, 2, 1}, s.Bytes())
}

func TestReverseBytes(t *testing.T) {
	cases := []struct {
		in, want []byte
	}{
		{nil, nil},
		{[]byte{9}, []byte{9}},
		{[]byte{1, 2}, []byte{2, 1}},
		{[]byte{1, 2, 3, 4}, []byte{4, 3, 2, 1}},
	}
	for _, c := range cases {
		b := append([]byte(nil), c.in...)
		ReverseBytes(b)
		require.Equal(t, c.want, b)
	}
}
