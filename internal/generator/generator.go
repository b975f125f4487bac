// Package generator builds race targets from word lists and sentence sets.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/wordlist"
)

// easyRunes caps the length of an easy sentence target.
const easyRunes = 30

// Romanizer returns the canonical romaji typed for an entry.
type Romanizer func(wordlist.Entry) string

// Generator produces randomized race targets.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects entries uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(entries []wordlist.Entry, count int, capsPct, punctPct float64, punctSet []rune) []wordlist.Entry {
	if len(entries) == 0 {
		return nil
	}
	result := make([]wordlist.Entry, 0, count)
	for i := 0; i < count; i++ {
		entry := entries[g.rnd.Intn(len(entries))]
		result = append(result, g.decorate(entry, capsPct, punctPct, punctSet))
	}
	return result
}

// GenerateWeighted selects entries with a bias toward weak romaji keys. Each
// entry's weight grows with the number of weak keys in its romanization.
func (g *Generator) GenerateWeighted(entries []wordlist.Entry, count int, capsPct, punctPct float64, punctSet []rune, romanize Romanizer, weakSet map[rune]struct{}, factor float64) []wordlist.Entry {
	if len(entries) == 0 {
		return nil
	}
	if romanize == nil || len(weakSet) == 0 {
		return g.Generate(entries, count, capsPct, punctPct, punctSet)
	}
	weights := make([]float64, len(entries))
	total := 0.0
	for i, entry := range entries {
		weakCount := 0
		for _, r := range romanize(entry) {
			if _, ok := weakSet[unicode.ToLower(r)]; ok {
				weakCount++
			}
		}
		w := 1.0 + float64(weakCount)*factor
		weights[i] = w
		total += w
	}

	result := make([]wordlist.Entry, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(entries) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, g.decorate(entries[idx], capsPct, punctPct, punctSet))
	}
	return result
}

// Sentence picks a sentence target for the given difficulty: easy is the
// first 30 characters of one sentence, medium is one sentence, hard is two
// sentences joined by a space.
func (g *Generator) Sentence(sentences []string, difficulty string) string {
	if len(sentences) == 0 {
		return ""
	}
	first := g.rnd.Intn(len(sentences))
	text := sentences[first]
	switch difficulty {
	case model.DifficultyEasy:
		runes := []rune(text)
		if len(runes) > easyRunes {
			text = strings.TrimRightFunc(string(runes[:easyRunes]), unicode.IsSpace)
		}
	case model.DifficultyHard:
		second := g.rnd.Intn(len(sentences))
		if len(sentences) > 1 {
			for second == first {
				second = g.rnd.Intn(len(sentences))
			}
		}
		text = text + " " + sentences[second]
	}
	return text
}

func (g *Generator) decorate(entry wordlist.Entry, capsPct, punctPct float64, punctSet []rune) wordlist.Entry {
	if !isLatin(entry) {
		return entry
	}
	entry.Surface = applyCaps(g.rnd, entry.Surface, capsPct)
	entry.Surface = applyPunct(g.rnd, entry.Surface, punctPct, punctSet)
	entry.Reading = ""
	return entry
}

// isLatin reports whether the entry is typed as written.
func isLatin(entry wordlist.Entry) bool {
	if entry.Reading != "" && entry.Reading != entry.Surface {
		return false
	}
	for _, r := range entry.Surface {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return entry.Surface != ""
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
