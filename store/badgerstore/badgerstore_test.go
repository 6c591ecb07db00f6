package badgerstore_test

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/Fayozjon/omim/store"
	"github.com/Fayozjon/omim/store/badgerstore"
)

func open(t *testing.T, cfg badgerstore.Config) *badgerstore.Store {
	t.Helper()
	s, err := badgerstore.New(cfg)
	assert.NilError(t, err)
	t.Cleanup(func() { assert.NilError(t, s.Close()) })
	return s
}

func TestOnDiskContract(t *testing.T) {
	ctx := context.Background()
	s := open(t, badgerstore.Config{Dir: t.TempDir()})

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "missing"), store.ErrNotFound)

	assert.NilError(t, s.Put(ctx, "a", []byte("one")))
	assert.NilError(t, s.Put(ctx, "a", []byte("two")))

	got, err := s.Get(ctx, "a")
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []byte("two"))

	assert.NilError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInMemoryList(t *testing.T) {
	ctx := context.Background()
	s := open(t, badgerstore.Config{InMemory: true})

	for _, name := range []string{"p/c", "p/a", "q/z", "p/b"} {
		assert.NilError(t, s.Put(ctx, name, []byte{1}))
	}

	names, err := s.List(ctx, "p/")
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"p/a", "p/b", "p/c"})

	none, err := s.List(ctx, "r/")
	assert.NilError(t, err)
	assert.Assert(t, len(none) == 0)
}

func TestNewRequiresDir(t *testing.T) {
	_, err := badgerstore.New(badgerstore.Config{})
	assert.ErrorContains(t, err, "Dir is required")
}
