package romaji

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableEntries(t *testing.T) {
	tbl := Default()
	cases := map[string][]string{
		"し":  {"shi", "si", "ci"},
		"ち":  {"chi", "ti"},
		"つ":  {"tsu", "tu"},
		"ふ":  {"fu", "hu"},
		"ん":  {"n", "nn", "xn"},
		"を":  {"wo", "o"},
		"ー":  {"-"},
		"。":  {"."},
		"シ":  {"shi", "si", "ci"},
		"ヴ":  {"vu"},
		"ッ":  {"xtu", "ltu", "xtsu"},
		"ッカ": nil,
	}
	for g, want := range cases {
		got, ok := tbl.Lookup(g)
		require.True(t, ok, "missing %q", g)
		if want != nil {
			assert.Equal(t, want, got, g)
		}
	}
	assert.Equal(t, 3, tbl.MaxKeyLen())
}

func TestGeminatesDerived(t *testing.T) {
	tbl := Default()

	kka, ok := tbl.Lookup("っか")
	require.True(t, ok)
	assert.Equal(t, "kka", kka[0])
	assert.Contains(t, kka, "cca")
	assert.Contains(t, kka, "xtuka")

	cchi, ok := tbl.Lookup("っち")
	require.True(t, ok)
	assert.Equal(t, []string{"cchi", "tti", "tchi"}, cchi[:3])

	sshi, ok := tbl.Lookup("っしゃ")
	require.True(t, ok)
	assert.Equal(t, "ssha", sshi[0])

	_, ok = tbl.Lookup("っあ")
	assert.False(t, ok, "vowels have no geminate form")
	_, ok = tbl.Lookup("っな")
	assert.False(t, ok, "n-row has no geminate form")
}

func TestSplitContractions(t *testing.T) {
	sha, ok := Default().Lookup("しゃ")
	require.True(t, ok)
	assert.Equal(t, "sha", sha[0])
	assert.Contains(t, sha, "shixya")
	assert.Contains(t, sha, "silya")
}

func TestAllPatternsLowercaseASCII(t *testing.T) {
	tbl := Default()
	for _, k := range tbl.Keys() {
		pats, _ := tbl.Lookup(k)
		require.NotEmpty(t, pats, k)
		for _, p := range pats {
			require.NoError(t, validateEntry(k, []string{p}))
		}
	}
}

func TestPassthroughPatterns(t *testing.T) {
	tbl := Default()
	assert.Equal(t, []string{"h"}, tbl.Patterns("h"))
	assert.Equal(t, "漢", tbl.Canonical("漢"))
}

func TestKeysOrdered(t *testing.T) {
	keys := Default().Keys()
	require.NotEmpty(t, keys)
	prev := 0
	for _, k := range keys {
		n := len([]rune(k))
		require.GreaterOrEqual(t, n, prev)
		prev = n
	}
}

func TestExtendOverridesAndMirrors(t *testing.T) {
	tbl, err := Default().Extend(map[string][]string{"し": {"si"}})
	require.NoError(t, err)

	got, _ := tbl.Lookup("し")
	assert.Equal(t, []string{"si"}, got)
	got, _ = tbl.Lookup("シ")
	assert.Equal(t, []string{"si"}, got)

	orig, _ := Default().Lookup("し")
	assert.Equal(t, "shi", orig[0], "default table is not mutated")
}

func TestExtendRejectsInvalid(t *testing.T) {
	_, err := Default().Extend(map[string][]string{"し": {}})
	require.ErrorIs(t, err, ErrEmptyPatterns)

	_, err = Default().Extend(map[string][]string{"し": {"SHI"}})
	require.ErrorIs(t, err, ErrNonASCIIPattern)

	_, err = Default().Extend(map[string][]string{"し": {"しい"}})
	require.ErrorIs(t, err, ErrNonASCIIPattern)
}

func TestParseOverlay(t *testing.T) {
	doc := "patterns:\n  ヴァ: [va, vua]\n  ぢ: [di]\n"
	overlay, err := ParseOverlay(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"va", "vua"}, overlay["ヴァ"])

	empty, err := ParseOverlay(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseOverlay(strings.NewReader("patterns:\n  し: [\"\"]\n"))
	require.ErrorIs(t, err, ErrEmptyPatterns)

	_, err = ParseOverlay(strings.NewReader("unknown: 1\n"))
	require.Error(t, err)
}

func TestToHiragana(t *testing.T) {
	assert.Equal(t, "たいぴんぐー", ToHiragana("タイピングー"))
	assert.Equal(t, "abc", ToHiragana("abc"))
}
