package memorystore_test

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/Fayozjon/omim/store"
	"github.com/Fayozjon/omim/store/memorystore"
)

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := memorystore.New()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	data := []byte("payload")
	assert.NilError(t, s.Put(ctx, "a", data))

	got, err := s.Get(ctx, "a")
	assert.NilError(t, err)
	assert.DeepEqual(t, got, data)

	// The store owns its copy; mutating either side must not leak through.
	data[0] = 'X'
	got[1] = 'Y'
	again, err := s.Get(ctx, "a")
	assert.NilError(t, err)
	assert.DeepEqual(t, again, []byte("payload"))

	assert.NilError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), store.ErrNotFound)
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListPrefix(t *testing.T) {
	ctx := context.Background()
	s := memorystore.New()

	for _, name := range []string{"v1/indexes/en/b", "v1/indexes/en/a", "v1/indexes/fr/c", "other"} {
		assert.NilError(t, s.Put(ctx, name, []byte{1}))
	}

	names, err := s.List(ctx, "v1/indexes/en/")
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"v1/indexes/en/a", "v1/indexes/en/b"})

	all, err := s.List(ctx, "")
	assert.NilError(t, err)
	assert.DeepEqual(t, all, []string{"other", "v1/indexes/en/a", "v1/indexes/en/b", "v1/indexes/fr/c"})

	none, err := s.List(ctx, "v2/")
	assert.NilError(t, err)
	assert.Assert(t, len(none) == 0)
}
