package indextesting

import (
	"math/rand"

	"github.com/Fayozjon/omim/searchindex"
)

// alphabet spans three script ranges so that generated keys exercise both
// the compact single character child form and wide code point deltas, with
// shared prefixes common enough to fold edges.
var alphabet = []rune{
	'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j',
	'а', 'б', 'в', 'г', 'д', 'е', 'ж', 'з', 'и', 'й',
	'山', '水', '橋', '街', '北', '南',
}

// EntryGenerator produces a deterministic stream of catalog entries from a
// seed. Feature ids are sequential, so every entry is distinct even when
// tokens repeat, and repeated tokens exercise multi value keys.
type EntryGenerator struct {
	rng    *rand.Rand
	nextID uint32
}

func NewEntryGenerator(seed int64) *EntryGenerator {
	return &EntryGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Token returns a token of length 1 to maxLen drawn from the mixed alphabet.
func (g *EntryGenerator) Token(maxLen int) string {
	runes := make([]rune, 1+g.rng.Intn(maxLen))
	for i := range runes {
		runes[i] = alphabet[g.rng.Intn(len(alphabet))]
	}
	return string(runes)
}

func (g *EntryGenerator) Next() searchindex.Entry {
	g.nextID++
	return searchindex.Entry{
		Token:   g.Token(6),
		Feature: searchindex.Feature{ID: g.nextID, Rank: uint8(g.rng.Intn(256))},
	}
}

func (g *EntryGenerator) Entries(n int) []searchindex.Entry {
	entries := make([]searchindex.Entry, n)
	for i := range entries {
		entries[i] = g.Next()
	}
	return entries
}
