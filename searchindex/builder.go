package searchindex

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"lukechampine.com/blake3"

	"github.com/Fayozjon/omim/coding"
	"github.com/Fayozjon/omim/keybloom"
	"github.com/Fayozjon/omim/trie"
)

// DefaultBloomRate is the key bloom false positive rate used when the caller
// does not choose one.
const DefaultBloomRate = 0.01

// Config carries the build parameters for one index.
type Config struct {
	// Name is the index name, carried into the built result and the
	// publisher's blob paths. It is not part of the blob.
	Name string

	// Log receives build progress. Nil means no logging.
	Log *zap.Logger

	// Ranks stores the maximum feature rank on every trie edge so readers
	// can prune low rank subtrees.
	Ranks bool

	// Bloom adds the key presence sidecar section.
	Bloom bool

	// BloomRate is the sidecar's target false positive rate; zero means
	// DefaultBloomRate.
	BloomRate float64

	// AssumeSorted attests that entries are already in SortEntries order.
	// The trie builder still rejects violations with
	// trie.ErrOutOfOrderKey; nothing is silently reordered.
	AssumeSorted bool
}

// BuiltIndex is one assembled index container.
type BuiltIndex struct {
	Name string
	Blob []byte

	// Digest is the BLAKE3-256 of Blob; ID is the same digest as a
	// self-describing multihash.
	Digest [DigestBytes]byte
	ID     ContentID

	EntryCount uint64
	KeyCount   uint64

	header Header
}

// Header returns the decoded container header.
func (b *BuiltIndex) Header() Header { return b.header }

// TrieSection returns the trie section bytes, aliasing Blob.
func (b *BuiltIndex) TrieSection() []byte {
	return b.Blob[b.header.TrieOff : b.header.TrieOff+b.header.TrieLen]
}

// BloomSection returns the key bloom section bytes, or nil when the index
// was built without one. The slice aliases Blob.
func (b *BuiltIndex) BloomSection() []byte {
	if !b.header.HasBloom() {
		return nil
	}
	return b.Blob[b.header.BloomOff : b.header.BloomOff+b.header.BloomLen]
}

// BuildIndex assembles the container for entries: header, trie section and
// optionally the key bloom sidecar.
//
// Unless cfg.AssumeSorted, entries is sorted in place first. Consecutive
// exactly-equal (token, feature) pairs collapse to one stored pair.
func BuildIndex(cfg Config, entries []Entry) (*BuiltIndex, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()
	log.Info("building index",
		zap.String("name", cfg.Name),
		zap.String("run_id", runID),
		zap.Int("entries_in", len(entries)),
	)

	if !cfg.AssumeSorted {
		SortEntries(entries)
	}

	tentries := make([]trie.Entry[Feature], len(entries))
	for i, e := range entries {
		tentries[i] = trie.Entry[Feature]{Key: Key(e.Token), Value: e.Feature}
	}

	// Count distinct keys and the pairs that survive duplicate collapsing;
	// the counts are header fields and the bloom wants sizing up front.
	var stored, distinct uint64
	for i := range tentries {
		if i > 0 && trie.CompareKeys(tentries[i].Key, tentries[i-1].Key) == 0 {
			if tentries[i].Value == tentries[i-1].Value {
				continue
			}
			stored++
			continue
		}
		stored++
		distinct++
	}

	var flags uint8
	var bloom *keybloom.Filter
	if cfg.Bloom && distinct > 0 {
		rate := cfg.BloomRate
		if rate == 0 {
			rate = DefaultBloomRate
		}
		var err error
		if bloom, err = keybloom.New(distinct, rate); err != nil {
			return nil, fmt.Errorf("sizing key bloom: %w", err)
		}
		for i, e := range entries {
			if i > 0 && trie.CompareKeys(tentries[i].Key, tentries[i-1].Key) == 0 {
				continue
			}
			bloom.Add([]byte(e.Token))
		}
		flags |= FlagHasBloom
	}

	tcfg := trie.Config[Feature]{
		NewValues:     func() trie.ValueList[Feature] { return &featureList{} },
		NewEdgeValues: func() trie.EdgeValues { return trie.NopEdgeValues{} },
		Raw:           func(f Feature) []byte { return f.Raw() },
		Equal:         func(a, b Feature) bool { return a == b },
	}
	if cfg.Ranks {
		tcfg.NewEdgeValues = func() trie.EdgeValues { return trie.NewMaxEdgeValues(rankOf) }
		flags |= FlagHasRanks
	}

	sink := coding.NewBufferSink()
	if err := trie.Build(sink, tentries, tcfg); err != nil {
		return nil, fmt.Errorf("building trie section: %w", err)
	}
	sink.Reverse()
	trieSection := sink.Bytes()

	h := Header{
		Flags:      flags,
		EntryCount: stored,
		KeyCount:   distinct,
		TrieOff:    HeaderBytes,
		TrieLen:    uint64(len(trieSection)),
	}
	size := HeaderBytes + uint64(len(trieSection))
	if bloom != nil {
		h.BloomOff = size
		h.BloomLen = uint64(len(bloom.Bytes()))
		size += h.BloomLen
	}

	blob := make([]byte, size)
	if err := EncodeHeader(blob, h); err != nil {
		return nil, fmt.Errorf("encoding container header: %w", err)
	}
	copy(blob[h.TrieOff:], trieSection)
	if bloom != nil {
		copy(blob[h.BloomOff:], bloom.Bytes())
	}

	id, err := NewContentID(blob)
	if err != nil {
		return nil, fmt.Errorf("computing content id: %w", err)
	}
	built := &BuiltIndex{
		Name:       cfg.Name,
		Blob:       blob,
		Digest:     blake3.Sum256(blob),
		ID:         id,
		EntryCount: stored,
		KeyCount:   distinct,
		header:     h,
	}

	log.Info("built index",
		zap.String("name", cfg.Name),
		zap.String("run_id", runID),
		zap.Uint64("entries", stored),
		zap.Uint64("keys", distinct),
		zap.Int("blob_bytes", len(blob)),
		zap.String("content_id", built.ID.Hex()),
	)
	return built, nil
}

// Open validates a fetched container blob and recomputes its digest and
// content id. The name is supplied by the caller; it travels in the manifest,
// not the blob.
func Open(name string, blob []byte) (*BuiltIndex, error) {
	h, err := DecodeHeader(blob)
	if err != nil {
		return nil, err
	}
	if err := checkSections(h, uint64(len(blob))); err != nil {
		return nil, err
	}
	id, err := NewContentID(blob)
	if err != nil {
		return nil, fmt.Errorf("computing content id: %w", err)
	}
	return &BuiltIndex{
		Name:       name,
		Blob:       blob,
		Digest:     blake3.Sum256(blob),
		ID:         id,
		EntryCount: h.EntryCount,
		KeyCount:   h.KeyCount,
		header:     h,
	}, nil
}
