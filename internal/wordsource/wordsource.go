// Package wordsource builds target word sequences for a session.
package wordsource

import (
	"bytes"
	_ "embed" // Built-in word lists.
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/typetest/internal/wordlist"
)

const (
	// SetCommon200 samples uniformly from the most common English words.
	SetCommon200 = "common200"
	// SetOxford3000 samples single-token Oxford 3000 entries shorter than MaxConstrainedLen.
	SetOxford3000 = "oxford3000"
	// SetFile samples uniformly from a user-provided word list.
	SetFile = "file"

	// MaxConstrainedLen is the exclusive length bound of constrained sets.
	MaxConstrainedLen = 7
)

//go:embed data/common200.txt
var common200Data []byte

//go:embed data/oxford3000.txt
var oxford3000Data []byte

// Source produces words for a set. Implementations must not block.
type Source interface {
	Generate(count int, setID string) []string
	// Has reports whether setID can be generated without drawing from it.
	Has(setID string) bool
}

// Set is a named word list with an acceptance rule. Candidates failing
// Accept are rejected and resampled.
type Set struct {
	ID     string
	Words  []string
	Accept wordlist.FilterFunc
}

// Generator samples words with replacement from registered sets.
type Generator struct {
	rnd  *rand.Rand
	sets map[string]Set
}

// New returns a Generator over the given sets using rnd for randomness.
// A nil rnd is seeded with the current time.
func New(rnd *rand.Rand, sets ...Set) (*Generator, error) {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Generator{rnd: rnd, sets: make(map[string]Set, len(sets))}
	for _, set := range sets {
		if set.Accept == nil {
			set.Accept = wordlist.KeepAll
		}
		if len(wordlist.Filter(set.Words, set.Accept)) == 0 {
			return nil, fmt.Errorf("word set %q has no usable words", set.ID)
		}
		g.sets[set.ID] = set
	}
	return g, nil
}

// Builtin returns the embedded word sets.
func Builtin() ([]Set, error) {
	common, err := wordlist.ReadWords(bytes.NewReader(common200Data))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", SetCommon200, err)
	}
	oxford, err := wordlist.ReadWords(bytes.NewReader(oxford3000Data))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", SetOxford3000, err)
	}
	return []Set{
		{ID: SetCommon200, Words: common, Accept: wordlist.KeepAll},
		{ID: SetOxford3000, Words: oxford, Accept: wordlist.SingleTokenShorterThan(MaxConstrainedLen)},
	}, nil
}

// FileSet loads a custom word list as the "file" set.
func FileSet(path string) (Set, error) {
	words, err := wordlist.LoadWords(path)
	if err != nil {
		return Set{}, fmt.Errorf("failed to load word list %s: %w", path, err)
	}
	words = wordlist.Filter(wordlist.Normalize(words), wordlist.SingleTokenShorterThan(maxFileWordLen))
	return Set{ID: SetFile, Words: words, Accept: wordlist.KeepAll}, nil
}

// maxFileWordLen matches the host's input limit so every file word is typeable.
const maxFileWordLen = 16

// Has reports whether setID is registered.
func (g *Generator) Has(setID string) bool {
	_, ok := g.sets[setID]
	return ok
}

// IDs lists registered set ids in sorted order.
func (g *Generator) IDs() []string {
	ids := make([]string, 0, len(g.sets))
	for id := range g.sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Generate draws count words from setID. Unknown sets yield nil.
func (g *Generator) Generate(count int, setID string) []string {
	set, ok := g.sets[setID]
	if !ok || count <= 0 {
		return nil
	}
	result := make([]string, 0, count)
	for len(result) < count {
		word := set.Words[g.rnd.Intn(len(set.Words))]
		if !set.Accept(word) {
			continue
		}
		result = append(result, word)
	}
	return result
}
