// Package wordlist loads race vocabulary and sentence sets.
package wordlist

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

// ErrEmptyWordList is returned when a list has no usable entries.
var ErrEmptyWordList = errors.New("word list is empty")

//go:embed data/*.txt
var builtin embed.FS

// Entry is one vocabulary item. Reading, when set, is the kana typed for
// Surface; an empty Reading means the surface is resolved at race time.
type Entry struct {
	Surface string
	Reading string
}

// Sentence sets shipped with the binary.
const (
	SetEnglish  = "english"
	SetJapanese = "japanese"
	SetRomaji   = "romaji"
)

var builtinWordLists = []string{"ja-easy", "ja-kanji"}

var builtinSentenceSets = []string{SetEnglish, SetJapanese, SetRomaji}

// LoadEntries reads one entry per line from path.
func LoadEntries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	entries, err := ParseEntries(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return entries, nil
}

// ParseEntries reads `surface[<TAB>reading]` lines. Blank lines and lines
// starting with '#' are skipped.
func ParseEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		surface, reading, _ := strings.Cut(line, "\t")
		surface = strings.TrimSpace(surface)
		if surface == "" {
			continue
		}
		entries = append(entries, Entry{Surface: surface, Reading: strings.TrimSpace(reading)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyWordList
	}
	return entries, nil
}

// Builtin returns an embedded word list.
func Builtin(lang string) ([]Entry, bool) {
	if !contains(builtinWordLists, lang) {
		return nil, false
	}
	entries, err := readBuiltin(lang)
	if err != nil {
		return nil, false
	}
	return entries, true
}

// BuiltinLangs lists the embedded word lists.
func BuiltinLangs() []string {
	out := append([]string(nil), builtinWordLists...)
	sort.Strings(out)
	return out
}

// Sentences returns an embedded sentence set.
func Sentences(set string) ([]string, bool) {
	if !contains(builtinSentenceSets, set) {
		return nil, false
	}
	entries, err := readBuiltin(set)
	if err != nil {
		return nil, false
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Surface)
	}
	return out, true
}

// SentenceSets lists the embedded sentence sets.
func SentenceSets() []string {
	return append([]string(nil), builtinSentenceSets...)
}

// SentenceSetFor maps a word-list language to the sentence set raced in
// sentence mode.
func SentenceSetFor(lang string) string {
	lang = strings.ToLower(lang)
	switch {
	case contains(builtinSentenceSets, lang):
		return lang
	case lang == "en":
		return SetEnglish
	case lang == "ja-romaji":
		return SetRomaji
	default:
		return SetJapanese
	}
}

func readBuiltin(name string) ([]Entry, error) {
	f, err := builtin.Open(path.Join("data", name+".txt"))
	if err != nil {
		return nil, err
	}
	defer func() {
		// Best-effort close for embedded data.
		_ = f.Close()
	}()
	return ParseEntries(f)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
