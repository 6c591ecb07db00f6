package searchindex

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/Fayozjon/omim/trie"
)

// FeatureBytes is the serialized feature record width: big-endian ID then
// rank.
const FeatureBytes = 5

// Feature identifies one indexed map feature and its display rank. Rank is
// the edge aggregation domain: readers prune subtrees whose maximum rank is
// below their display threshold.
type Feature struct {
	ID   uint32
	Rank uint8
}

// Raw returns the serialized record for f.
func (f Feature) Raw() []byte {
	b := make([]byte, FeatureBytes)
	binary.BigEndian.PutUint32(b[0:4], f.ID)
	b[4] = f.Rank
	return b
}

// ReadFeature reads one serialized feature record from r.
func ReadFeature(r *bytes.Reader) (Feature, error) {
	var rec [FeatureBytes]byte
	if _, err := io.ReadFull(r, rec[:]); err != nil {
		return Feature{}, err
	}
	return Feature{ID: binary.BigEndian.Uint32(rec[0:4]), Rank: rec[4]}, nil
}

// rankOf projects the rank byte out of a serialized feature record.
func rankOf(raw []byte) uint8 { return raw[FeatureBytes-1] }

// Entry is one (token, feature) pair of the index input.
type Entry struct {
	Token   string
	Feature Feature
}

// Key maps a token to its trie key, one character unit per rune.
func Key(token string) []trie.Char {
	key := make([]trie.Char, 0, len(token))
	for _, r := range token {
		key = append(key, trie.Char(r))
	}
	return key
}

// SortEntries establishes the builder's total order: key, then feature ID,
// then rank.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return lessEntry(entries[i], entries[j]) })
}

func lessEntry(a, b Entry) bool {
	if c := trie.CompareKeys(Key(a.Token), Key(b.Token)); c != 0 {
		return c < 0
	}
	if a.Feature.ID != b.Feature.ID {
		return a.Feature.ID < b.Feature.ID
	}
	return a.Feature.Rank < b.Feature.Rank
}

// featureList accumulates the features of one trie node and dumps them as
// fixed-width records.
type featureList struct {
	feats []Feature
}

func (l *featureList) Append(f Feature) { l.feats = append(l.feats, f) }

func (l *featureList) Empty() bool { return len(l.feats) == 0 }

func (l *featureList) Count() int { return len(l.feats) }

func (l *featureList) Dump(w io.Writer) error {
	var rec [FeatureBytes]byte
	for _, f := range l.feats {
		binary.BigEndian.PutUint32(rec[0:4], f.ID)
		rec[4] = f.Rank
		if _, err := w.Write(rec[:]); err != nil {
			return err
		}
	}
	return nil
}
