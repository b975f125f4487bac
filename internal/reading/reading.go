// Package reading turns display text into the kana the romaji engine types
// against.
package reading

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/width"

	"github.com/verte-zerg/romarace/internal/romaji"
)

// Target pairs display text with its typeable reading.
type Target struct {
	Text    string
	Reading string
}

// Reader resolves kanji readings with a morphological analyzer.
type Reader struct {
	tok *tokenizer.Tokenizer
}

var shared = sync.OnceValues(func() (*Reader, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to build tokenizer: %w", err)
	}
	return &Reader{tok: t}, nil
})

// Default returns the process-wide reader. The dictionary is loaded on first use.
func Default() (*Reader, error) {
	return shared()
}

// Prepare folds width variants and replaces kanji with their hiragana reading.
// Kana and Latin text pass through unchanged.
func (r *Reader) Prepare(text string) Target {
	folded := width.Fold.String(text)
	if !HasKanji(folded) {
		return Target{Text: text, Reading: folded}
	}

	var b strings.Builder
	rest := folded
	for _, tok := range r.tok.Tokenize(folded) {
		idx := strings.Index(rest, tok.Surface)
		if idx < 0 || tok.Surface == "" {
			continue
		}
		b.WriteString(rest[:idx])
		rest = rest[idx+len(tok.Surface):]
		b.WriteString(tokenReading(tok))
	}
	b.WriteString(rest)
	return Target{Text: text, Reading: b.String()}
}

// PrepareWithReading uses reading when given and falls back to Prepare.
func (r *Reader) PrepareWithReading(text, reading string) Target {
	if reading != "" {
		return Target{Text: text, Reading: width.Fold.String(reading)}
	}
	return r.Prepare(text)
}

func tokenReading(tok tokenizer.Token) string {
	if !HasKanji(tok.Surface) {
		return tok.Surface
	}
	kana, ok := tok.Reading()
	if !ok || kana == "" || kana == "*" {
		return tok.Surface
	}
	return romaji.ToHiragana(kana)
}

// HasKanji reports whether s contains any Han character.
func HasKanji(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
