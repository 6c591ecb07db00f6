package sqlitesource

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Fayozjon/omim/searchindex"
)

func openCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "features.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })
	return c
}

func entry(token string, id uint32, rank uint8) searchindex.Entry {
	return searchindex.Entry{
		Token:   token,
		Feature: searchindex.Feature{ID: id, Rank: rank},
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	// Unsorted on purpose, with one exact duplicate row.
	in := []searchindex.Entry{
		entry("мост", 9, 4),
		entry("bridge", 7, 3),
		entry("b", 2, 1),
		entry("bridge", 7, 3),
		entry("bridge", 2, 9),
	}
	require.NoError(t, c.Put(ctx, in...))

	n, err := c.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(4), n, "exact duplicate rows collapse")

	got, err := c.ReadAll(ctx)
	require.NoError(t, err)

	want := []searchindex.Entry{
		entry("b", 2, 1),
		entry("bridge", 2, 9),
		entry("bridge", 7, 3),
		entry("мост", 9, 4),
	}
	require.Equal(t, want, got)
}

func TestCatalogOrderFeedsBuilder(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx,
		entry("橋", 40, 2),
		entry("bridge", 7, 3),
		entry("brücke", 11, 5),
		entry("b", 2, 1),
		entry("мост", 9, 4),
		entry("мостик", 12, 6),
	))

	entries, err := c.ReadAll(ctx)
	require.NoError(t, err)

	// AssumeSorted makes the build fail on any key out of order, so a clean
	// build proves the catalog order is the builder order.
	built, err := searchindex.BuildIndex(searchindex.Config{Name: "catalog", AssumeSorted: true}, entries)
	require.NoError(t, err)
	require.Equal(t, uint64(6), built.EntryCount)
	require.Equal(t, uint64(6), built.KeyCount)
}

func TestEntriesStopsOnCallbackError(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, entry("a", 1, 1), entry("b", 2, 2), entry("c", 3, 3)))

	sentinel := errors.New("stop here")
	var seen int
	err := c.Entries(ctx, func(searchindex.Entry) error {
		seen++
		if seen == 2 {
			return sentinel
		}
		return nil
	})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 2, seen)
}

func TestEntriesRejectsOutOfRangeRows(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	// A hand-prepared catalog can hold values a Feature cannot.
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO features (token, feature_id, rank) VALUES ('bad', 1, 900)`)
	require.NoError(t, err)

	err = c.Entries(ctx, func(searchindex.Entry) error { return nil })
	require.ErrorIs(t, err, ErrBadRow)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}
