package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when an entry should be kept.
type FilterFunc func(Entry) bool

// FilterForLang returns a language-specific filter for word lists.
func FilterForLang(lang string) FilterFunc {
	lang = strings.ToLower(lang)
	switch {
	case lang == "en":
		return filterEnglishASCII
	case strings.HasPrefix(lang, "ja"):
		return filterJapanese
	default:
		return func(e Entry) bool { return e.Surface != "" }
	}
}

// Filter keeps entries accepted by keep.
func Filter(entries []Entry, keep FilterFunc) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func filterEnglishASCII(e Entry) bool {
	word := e.Surface
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

// filterJapanese keeps entries whose typed text is kana. Kanji surfaces are
// kept; their reading is resolved later.
func filterJapanese(e Entry) bool {
	text := e.Reading
	if text == "" {
		text = e.Surface
	}
	if text == "" {
		return false
	}
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han):
		case r == 'ー' || r == '々':
		default:
			return false
		}
	}
	return true
}
