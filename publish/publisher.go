// Package publish names, signs and stores built indexes so that replicas can
// discover and verify them.
//
// Every build of an index lands as two blobs under a shared prefix: the
// container blob and a signed manifest sidecar, both named by the build id in
// padded hex. The manifest is written last, so a listed manifest always
// refers to a blob that is fully present, and the padded names make lexical
// listing order equal to build order.
package publish

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Fayozjon/omim/manifest"
	"github.com/Fayozjon/omim/publish/buildid"
	"github.com/Fayozjon/omim/searchindex"
	"github.com/Fayozjon/omim/store"
)

var ErrManifestMismatch = errors.New("publish: manifest does not match the requested build")

// Config assembles a Publisher. Store is always required. Signer and IDs are
// only needed by Publish; a replica that only fetches can leave them nil.
type Config struct {
	Log    *zap.Logger
	Store  store.BlobStore
	Signer *manifest.Signer
	IDs    *buildid.Generator
}

type Publisher struct {
	log    *zap.Logger
	store  store.BlobStore
	signer *manifest.Signer
	ids    *buildid.Generator
}

// Published records where one build of an index landed.
type Published struct {
	Name         string
	BuildID      uint64
	IndexPath    string
	ManifestPath string
}

func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Store == nil {
		return nil, errors.New("publish: a blob store is required")
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{log: log, store: cfg.Store, signer: cfg.Signer, ids: cfg.IDs}, nil
}

// Publish allocates a build id for the built index, signs its manifest, and
// writes both blobs. The container blob is written before the manifest.
func (p *Publisher) Publish(ctx context.Context, built *searchindex.BuiltIndex) (Published, error) {
	if p.signer == nil {
		return Published{}, errors.New("publish: a manifest signer is required")
	}
	if p.ids == nil {
		return Published{}, errors.New("publish: a build id generator is required")
	}
	if err := CheckIndexName(built.Name); err != nil {
		return Published{}, err
	}

	id, err := p.ids.NextID()
	if err != nil {
		return Published{}, fmt.Errorf("allocating build id: %w", err)
	}

	m := manifest.New(built, id, time.Now())
	signed, err := p.signer.Sign(m)
	if err != nil {
		return Published{}, fmt.Errorf("signing manifest: %w", err)
	}

	pub := Published{
		Name:         built.Name,
		BuildID:      id,
		IndexPath:    IndexBlobPath(built.Name, id),
		ManifestPath: ManifestBlobPath(built.Name, id),
	}

	p.log.Info("publishing index",
		zap.String("name", built.Name),
		zap.String("build_id", fmt.Sprintf("%016x", id)),
		zap.Uint64("entries", built.EntryCount),
		zap.Uint64("keys", built.KeyCount),
		zap.Int("blob_bytes", len(built.Blob)),
	)

	if err = p.store.Put(ctx, pub.IndexPath, built.Blob); err != nil {
		return Published{}, fmt.Errorf("writing %s: %w", pub.IndexPath, err)
	}
	if err = p.store.Put(ctx, pub.ManifestPath, signed); err != nil {
		return Published{}, fmt.Errorf("writing %s: %w", pub.ManifestPath, err)
	}

	p.log.Info("published index",
		zap.String("name", built.Name),
		zap.String("build_id", fmt.Sprintf("%016x", id)),
	)
	return pub, nil
}

// Latest returns the build id of the newest published build of the named
// index. Only manifests count, because the manifest is the blob written
// last. store.ErrNotFound reports that no complete build exists.
func (p *Publisher) Latest(ctx context.Context, name string) (uint64, error) {
	if err := CheckIndexName(name); err != nil {
		return 0, err
	}

	paths, err := p.store.List(ctx, IndexPrefix(name))
	if err != nil {
		if notFound(err) {
			return 0, fmt.Errorf("listing %s: %w", IndexPrefix(name), store.ErrNotFound)
		}
		return 0, err
	}

	// The listing is lexical and the ids are padded, so the newest manifest
	// is the last one.
	for i := len(paths) - 1; i >= 0; i-- {
		if !strings.HasSuffix(paths[i], V1ExtSep+V1ManifestExt) {
			continue
		}
		_, id, err := ParseManifestBlobPath(paths[i])
		if err != nil {
			return 0, err
		}
		return id, nil
	}
	return 0, fmt.Errorf("no builds of %s: %w", name, store.ErrNotFound)
}

// Fetch retrieves one build and verifies it end to end: the manifest
// signature against publicKey, the manifest's binding to the requested name
// and id, and finally the container blob against the manifest.
func (p *Publisher) Fetch(ctx context.Context, name string, id uint64, publicKey *ecdsa.PublicKey) (manifest.Manifest, []byte, error) {
	mpath := ManifestBlobPath(name, id)
	signed, err := p.store.Get(ctx, mpath)
	if err != nil {
		return manifest.Manifest{}, nil, p.fetchErr(mpath, err)
	}

	m, err := manifest.Verify(signed, publicKey)
	if err != nil {
		return manifest.Manifest{}, nil, fmt.Errorf("verifying %s: %w", mpath, err)
	}
	if m.Name != name || m.BuildID != id {
		return manifest.Manifest{}, nil, fmt.Errorf(
			"%s names build %s/%016x: %w", mpath, m.Name, m.BuildID, ErrManifestMismatch)
	}

	bpath := IndexBlobPath(name, id)
	blob, err := p.store.Get(ctx, bpath)
	if err != nil {
		return manifest.Manifest{}, nil, p.fetchErr(bpath, err)
	}
	if err = m.CheckBlob(blob); err != nil {
		return manifest.Manifest{}, nil, fmt.Errorf("checking %s: %w", bpath, err)
	}

	p.log.Debug("fetched index",
		zap.String("name", name),
		zap.String("build_id", fmt.Sprintf("%016x", id)),
		zap.Int("blob_bytes", len(blob)),
	)
	return m, blob, nil
}

// FetchLatest retrieves and verifies the newest build of the named index.
func (p *Publisher) FetchLatest(ctx context.Context, name string, publicKey *ecdsa.PublicKey) (manifest.Manifest, []byte, error) {
	id, err := p.Latest(ctx, name)
	if err != nil {
		return manifest.Manifest{}, nil, err
	}
	return p.Fetch(ctx, name, id, publicKey)
}

func (p *Publisher) fetchErr(path string, err error) error {
	if notFound(err) {
		return fmt.Errorf("%s: %w", path, store.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", path, err)
}

// notFound normalizes the two ways a missing blob surfaces, the package
// sentinel from a direct store and the azure error code from a remote one.
func notFound(err error) bool {
	return errors.Is(err, store.ErrNotFound) || IsBlobNotFound(err)
}
