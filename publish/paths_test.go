package publish

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobPaths(t *testing.T) {
	require.Equal(t, "v1/indexes/en/", IndexPrefix("en"))
	require.Equal(t, "v1/indexes/en/000000000000002a.omsi", IndexBlobPath("en", 42))
	require.Equal(t, "v1/indexes/en/000000000000002a.manifest", ManifestBlobPath("en", 42))
}

func TestParseBlobPathRoundTrip(t *testing.T) {
	for _, id := range []uint64{0, 1, 42, 1 << 40, math.MaxUint64} {
		name, got, err := ParseIndexBlobPath(IndexBlobPath("en", id))
		require.NoError(t, err)
		require.Equal(t, "en", name)
		require.Equal(t, id, got)

		name, got, err = ParseManifestBlobPath(ManifestBlobPath("routing", id))
		require.NoError(t, err)
		require.Equal(t, "routing", name)
		require.Equal(t, id, got)
	}
}

func TestParseBlobPathRejects(t *testing.T) {
	bad := []string{
		"v2/indexes/en/000000000000002a.omsi",
		"v1/indexes/en/000000000000002a.manifest", // wrong extension for an index blob
		"v1/indexes/en/2a.omsi",                   // unpadded
		"v1/indexes/en/00000000000000zz.omsi",     // not hex
		"v1/indexes/000000000000002a.omsi",        // missing name segment
		"v1/indexes//000000000000002a.omsi",       // empty name
	}
	for _, path := range bad {
		_, _, err := ParseIndexBlobPath(path)
		require.ErrorIs(t, err, ErrBadBlobPath, "path %s", path)
	}
}

func TestLexicalOrderMatchesBuildOrder(t *testing.T) {
	ids := []uint64{0, 1, 9, 10, 0xff, 0x100, 1 << 40, math.MaxUint64}

	var paths []string
	for _, id := range ids {
		paths = append(paths, IndexBlobPath("en", id))
	}
	require.True(t, sort.StringsAreSorted(paths))
}

func TestCheckIndexName(t *testing.T) {
	require.NoError(t, CheckIndexName("en"))
	require.NoError(t, CheckIndexName("fr-CA"))
	require.ErrorIs(t, CheckIndexName(""), ErrBadIndexName)
	require.ErrorIs(t, CheckIndexName("a/b"), ErrBadIndexName)
}
