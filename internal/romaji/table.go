// Package romaji segments Japanese kana into graphemes and validates romaji
// keystrokes against every accepted spelling of a target.
package romaji

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	// ErrEmptyPatterns reports a table entry without any romaji pattern.
	ErrEmptyPatterns = errors.New("romaji: entry has no patterns")
	// ErrNonASCIIPattern reports a pattern outside printable ASCII or with uppercase letters.
	ErrNonASCIIPattern = errors.New("romaji: pattern must be lowercase printable ASCII")
)

const (
	sokuon         = 'っ'
	hiraganaFirst  = 'ぁ'
	hiraganaLast   = 'ゖ'
	katakanaFirst  = 'ァ'
	katakanaLast   = 'ヶ'
	kanaShift      = katakanaFirst - hiraganaFirst
	smallKanaRunes = "ぁぃぅぇぉゃゅょゎ"
)

// Table maps graphemes to their accepted romaji patterns. A Table is
// immutable once built and safe for concurrent use.
type Table struct {
	entries   map[string][]string
	maxKeyLen int
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := newTable(buildEntries())
	if err != nil {
		panic(fmt.Sprintf("romaji: invalid built-in table: %v", err))
	}
	return t
})

// Default returns the built-in table. It is built once on first use.
func Default() *Table {
	return defaultTable()
}

func newTable(entries map[string][]string) (*Table, error) {
	t := &Table{entries: make(map[string][]string, len(entries))}
	for key, patterns := range entries {
		if err := validateEntry(key, patterns); err != nil {
			return nil, err
		}
		t.entries[key] = slices.Clone(patterns)
		if n := utf8.RuneCountInString(key); n > t.maxKeyLen {
			t.maxKeyLen = n
		}
	}
	return t, nil
}

func validateEntry(key string, patterns []string) error {
	if key == "" {
		return fmt.Errorf("romaji: empty grapheme key")
	}
	if len(patterns) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyPatterns, key)
	}
	for _, p := range patterns {
		if p == "" {
			return fmt.Errorf("%w: %q has an empty pattern", ErrEmptyPatterns, key)
		}
		for i := 0; i < len(p); i++ {
			c := p[i]
			if c < 0x20 || c > 0x7e || (c >= 'A' && c <= 'Z') {
				return fmt.Errorf("%w: %q -> %q", ErrNonASCIIPattern, key, p)
			}
		}
	}
	return nil
}

// Extend returns a copy of t with overlay entries merged on top. Hiragana
// keys are mirrored to katakana unless the overlay names the katakana key too.
func (t *Table) Extend(overlay map[string][]string) (*Table, error) {
	merged := make(map[string][]string, len(t.entries)+len(overlay)*2)
	for k, v := range t.entries {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	for k, v := range overlay {
		if kata := toKatakana(k); kata != k {
			if _, explicit := overlay[kata]; !explicit {
				merged[kata] = v
			}
		}
	}
	return newTable(merged)
}

// Lookup returns the patterns for grapheme g and whether g is in the table.
// The returned slice must not be modified.
func (t *Table) Lookup(g string) ([]string, bool) {
	p, ok := t.entries[g]
	return p, ok
}

// Patterns returns a copy of the accepted patterns for g. Graphemes missing
// from the table pass through as their own single pattern.
func (t *Table) Patterns(g string) []string {
	if p, ok := t.entries[g]; ok {
		return slices.Clone(p)
	}
	return []string{g}
}

// Canonical returns the first pattern for g, or g itself when unknown.
func (t *Table) Canonical(g string) string {
	if p, ok := t.entries[g]; ok {
		return p[0]
	}
	return g
}

// MaxKeyLen is the longest grapheme key in runes.
func (t *Table) MaxKeyLen() int {
	return t.maxKeyLen
}

// Len returns the number of graphemes in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns all grapheme keys ordered by length and then code point.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(keys[i]), utf8.RuneCountInString(keys[j])
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func buildEntries() map[string][]string {
	entries := make(map[string][]string, len(baseEntries)*4)
	order := make([]string, 0, len(baseEntries))
	for _, e := range baseEntries {
		entries[e.grapheme] = slices.Clone(e.patterns)
		order = append(order, e.grapheme)
	}
	addSplitContractions(entries, order)
	addGeminates(entries, order)
	for _, key := range order {
		mirrorKatakana(entries, key)
		mirrorKatakana(entries, string(sokuon)+key)
	}
	return entries
}

// addSplitContractions lets contracted sounds be typed as their two parts,
// e.g. しゃ as "shixya".
func addSplitContractions(entries map[string][]string, order []string) {
	for _, key := range order {
		runes := []rune(key)
		if len(runes) != 2 || !strings.ContainsRune(smallKanaRunes, runes[1]) {
			continue
		}
		head, okHead := entries[string(runes[0])]
		tail, okTail := entries[string(runes[1])]
		if !okHead || !okTail {
			continue
		}
		for _, h := range head {
			for _, s := range tail {
				entries[key] = appendUnique(entries[key], h+s)
			}
		}
	}
}

// addGeminates derives っ+X entries by doubling the leading consonant of
// each pattern of X. Entries starting with a vowel or n get no geminate.
func addGeminates(entries map[string][]string, order []string) {
	small := entries[string(sokuon)]
	for _, key := range order {
		first, _ := utf8.DecodeRuneInString(key)
		if !isHiragana(first) || first == sokuon || first == 'ん' || strings.ContainsRune(smallKanaRunes, first) {
			continue
		}
		base := entries[key]
		var doubled []string
		for _, p := range base {
			if isGeminable(p) {
				doubled = appendUnique(doubled, p[:1]+p)
			}
		}
		if len(doubled) == 0 {
			continue
		}
		for _, p := range base {
			if strings.HasPrefix(p, "ch") {
				doubled = appendUnique(doubled, "t"+p)
			}
		}
		for _, s := range small {
			for _, p := range base {
				doubled = appendUnique(doubled, s+p)
			}
		}
		entries[string(sokuon)+key] = doubled
	}
}

func isGeminable(p string) bool {
	c := p[0]
	if c < 'a' || c > 'z' {
		return false
	}
	return !strings.ContainsRune("aeioun", rune(c))
}

func mirrorKatakana(entries map[string][]string, key string) {
	patterns, ok := entries[key]
	if !ok {
		return
	}
	kata := toKatakana(key)
	if kata == key {
		return
	}
	if _, exists := entries[kata]; !exists {
		entries[kata] = slices.Clone(patterns)
	}
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}

func isHiragana(r rune) bool {
	return r >= hiraganaFirst && r <= hiraganaLast
}

func isKatakana(r rune) bool {
	return r >= katakanaFirst && r <= katakanaLast
}

func toKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if isHiragana(r) {
			return r + kanaShift
		}
		return r
	}, s)
}

// ToHiragana folds katakana in s to hiragana. Other runes are unchanged.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if isKatakana(r) {
			return r - kanaShift
		}
		return r
	}, s)
}
