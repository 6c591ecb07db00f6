package publish_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Fayozjon/omim/manifest"
	"github.com/Fayozjon/omim/publish"
	"github.com/Fayozjon/omim/publish/buildid"
	"github.com/Fayozjon/omim/searchindex"
	"github.com/Fayozjon/omim/store"
	"github.com/Fayozjon/omim/store/memorystore"
)

type fixture struct {
	pub    *publish.Publisher
	store  *memorystore.Store
	key    *ecdsa.PrivateKey
	signer *manifest.Signer
	ids    *buildid.Generator
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	signer, err := manifest.NewSigner("index-builder", "key-1", key)
	require.NoError(t, err)

	ids, err := buildid.NewGenerator(buildid.Config{
		IndexEpoch: 1,
		WorkerCIDR: "0.0.0.0/24",
		PodIP:      "10.0.0.7",
		AllowSpins: buildid.MaxSpins,
	})
	require.NoError(t, err)

	mem := memorystore.New()
	pub, err := publish.NewPublisher(publish.Config{
		Log:    zaptest.NewLogger(t),
		Store:  mem,
		Signer: signer,
		IDs:    ids,
	})
	require.NoError(t, err)

	return fixture{pub: pub, store: mem, key: key, signer: signer, ids: ids}
}

func buildTestIndex(t *testing.T, name string) *searchindex.BuiltIndex {
	t.Helper()
	built, err := searchindex.BuildIndex(
		searchindex.Config{Name: name, Ranks: true, Bloom: true},
		[]searchindex.Entry{
			{Token: "bridge", Feature: searchindex.Feature{ID: 7, Rank: 3}},
			{Token: "b", Feature: searchindex.Feature{ID: 2, Rank: 1}},
			{Token: "мост", Feature: searchindex.Feature{ID: 9, Rank: 4}},
		})
	require.NoError(t, err)
	return built
}

func TestPublishFetchRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	built := buildTestIndex(t, "en")
	pub, err := f.pub.Publish(ctx, built)
	require.NoError(t, err)

	name, id, err := publish.ParseIndexBlobPath(pub.IndexPath)
	require.NoError(t, err)
	require.Equal(t, "en", name)
	require.Equal(t, pub.BuildID, id)

	m, blob, err := f.pub.Fetch(ctx, "en", pub.BuildID, &f.key.PublicKey)
	require.NoError(t, err)
	require.Equal(t, built.Blob, blob)
	require.Equal(t, "en", m.Name)
	require.Equal(t, pub.BuildID, m.BuildID)
	require.Equal(t, built.EntryCount, m.EntryCount)
	require.Equal(t, built.KeyCount, m.KeyCount)
}

func TestLatestTracksNewestBuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	built := buildTestIndex(t, "en")
	first, err := f.pub.Publish(ctx, built)
	require.NoError(t, err)
	second, err := f.pub.Publish(ctx, built)
	require.NoError(t, err)
	require.Greater(t, second.BuildID, first.BuildID)

	id, err := f.pub.Latest(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, second.BuildID, id)

	paths, err := f.store.List(ctx, publish.IndexPrefix("en"))
	require.NoError(t, err)
	require.Len(t, paths, 4)

	m, blob, err := f.pub.FetchLatest(ctx, "en", &f.key.PublicKey)
	require.NoError(t, err)
	require.Equal(t, second.BuildID, m.BuildID)
	require.Equal(t, built.Blob, blob)
}

func TestLatestWithNoBuilds(t *testing.T) {
	f := newFixture(t)

	_, err := f.pub.Latest(context.Background(), "en")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestFetchMissingBuild(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.pub.Fetch(context.Background(), "en", 12345, &f.key.PublicKey)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestFetchRejectsTamperedBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pub, err := f.pub.Publish(ctx, buildTestIndex(t, "en"))
	require.NoError(t, err)

	blob, err := f.store.Get(ctx, pub.IndexPath)
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0xff
	require.NoError(t, f.store.Put(ctx, pub.IndexPath, blob))

	_, _, err = f.pub.Fetch(ctx, "en", pub.BuildID, &f.key.PublicKey)
	require.ErrorIs(t, err, searchindex.ErrContentIDMismatch)
}

func TestFetchRejectsWrongKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pub, err := f.pub.Publish(ctx, buildTestIndex(t, "en"))
	require.NoError(t, err)

	other, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	_, _, err = f.pub.Fetch(ctx, "en", pub.BuildID, &other.PublicKey)
	require.Error(t, err)
}

func TestFetchRejectsRelocatedManifest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pub, err := f.pub.Publish(ctx, buildTestIndex(t, "en"))
	require.NoError(t, err)

	// A validly signed manifest copied to another build's path must not
	// vouch for that build.
	signed, err := f.store.Get(ctx, pub.ManifestPath)
	require.NoError(t, err)
	otherID := pub.BuildID + 1
	require.NoError(t, f.store.Put(ctx, publish.ManifestBlobPath("en", otherID), signed))

	_, _, err = f.pub.Fetch(ctx, "en", otherID, &f.key.PublicKey)
	require.ErrorIs(t, err, publish.ErrManifestMismatch)
}

func TestPublishRejectsBadName(t *testing.T) {
	f := newFixture(t)

	built := buildTestIndex(t, "a/b")
	_, err := f.pub.Publish(context.Background(), built)
	require.ErrorIs(t, err, publish.ErrBadIndexName)
}

func TestFetchOnlyPublisher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pub, err := f.pub.Publish(ctx, buildTestIndex(t, "en"))
	require.NoError(t, err)

	// A replica holds a store and the public key, nothing else.
	replica, err := publish.NewPublisher(publish.Config{Store: f.store})
	require.NoError(t, err)

	m, blob, err := replica.FetchLatest(ctx, "en", &f.key.PublicKey)
	require.NoError(t, err)
	require.Equal(t, pub.BuildID, m.BuildID)
	require.NotEmpty(t, blob)

	_, err = replica.Publish(ctx, buildTestIndex(t, "en"))
	require.Error(t, err)
}

// orderRecorder observes the order blobs are written in.
type orderRecorder struct {
	store.BlobStore
	puts []string
}

func (r *orderRecorder) Put(ctx context.Context, name string, data []byte) error {
	r.puts = append(r.puts, name)
	return r.BlobStore.Put(ctx, name, data)
}

func TestPublishWritesBlobBeforeManifest(t *testing.T) {
	f := newFixture(t)
	rec := &orderRecorder{BlobStore: f.store}

	p, err := publish.NewPublisher(publish.Config{
		Log:    zaptest.NewLogger(t),
		Store:  rec,
		Signer: f.signer,
		IDs:    f.ids,
	})
	require.NoError(t, err)

	pub, err := p.Publish(context.Background(), buildTestIndex(t, "en"))
	require.NoError(t, err)
	require.Equal(t, []string{pub.IndexPath, pub.ManifestPath}, rec.puts)
}
