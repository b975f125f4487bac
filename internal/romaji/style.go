package romaji

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Style is a romanization convention used to pick displayed spellings.
type Style int

const (
	Hepburn Style = iota
	Kunrei
	Nihon
)

func (s Style) String() string {
	switch s {
	case Kunrei:
		return "kunrei"
	case Nihon:
		return "nihon"
	default:
		return "hepburn"
	}
}

// ParseStyle resolves a style name. The empty string means Hepburn.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "hepburn":
		return Hepburn, nil
	case "kunrei", "kunreishiki", "kunrei-shiki":
		return Kunrei, nil
	case "nihon", "nippon", "nihonshiki", "nihon-shiki":
		return Nihon, nil
	default:
		return Hepburn, fmt.Errorf("unknown romaji style %q", name)
	}
}

// Preferred returns the spelling of g under style s. The preference only
// applies when the table accepts it; otherwise the canonical pattern wins.
func (t *Table) Preferred(g string, s Style) string {
	patterns, ok := t.entries[g]
	if !ok {
		return g
	}
	if s == Hepburn {
		return patterns[0]
	}
	key := ToHiragana(g)
	if want, ok := styleOverrides[s][key]; ok && slices.Contains(patterns, want) {
		return want
	}
	if first, size := utf8.DecodeRuneInString(key); first == sokuon && size < len(key) {
		base := t.Preferred(key[size:], s)
		if want := base[:1] + base; slices.Contains(patterns, want) {
			return want
		}
	}
	return patterns[0]
}

// Romanize renders source with the preferred spelling of every grapheme.
func (t *Table) Romanize(source string, s Style) string {
	var b strings.Builder
	for _, seg := range t.Segment(source) {
		b.WriteString(t.Preferred(seg, s))
	}
	return b.String()
}
