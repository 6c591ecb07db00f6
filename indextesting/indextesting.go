// Package indextesting provides the shared scaffolding for pipeline and
// publisher tests: a context carrying a test logger and a memory backed blob
// store, and a seeded corpus generator.
package indextesting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/Fayozjon/omim/store/memorystore"
)

type TestConfig struct {
	// Seed fixes the generator RNG. Force it to some constant so that a
	// test's corpus is identical from run to run.
	Seed            int64
	TestLabelPrefix string
}

type TestContext struct {
	T     *testing.T
	Log   *zap.Logger
	Store *memorystore.Store
}

func NewTestContext(t *testing.T, cfg TestConfig) (TestContext, *EntryGenerator) {
	log := zaptest.NewLogger(t)
	if cfg.TestLabelPrefix != "" {
		log = log.Named(cfg.TestLabelPrefix)
	}
	c := TestContext{
		T:     t,
		Log:   log,
		Store: memorystore.New(),
	}
	return c, NewEntryGenerator(cfg.Seed)
}

func (c *TestContext) GetLog() *zap.Logger { return c.Log }

// DeleteBlobsByPrefix removes every blob under the prefix, for tests that
// reuse one store across scenarios.
func (c *TestContext) DeleteBlobsByPrefix(blobPrefixPath string) {
	ctx := context.Background()

	blobs, err := c.Store.List(ctx, blobPrefixPath)
	require.NoError(c.T, err)

	for _, blobPath := range blobs {
		require.NoError(c.T, c.Store.Delete(ctx, blobPath))
	}
}
