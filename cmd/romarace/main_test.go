package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/romarace/internal/config"
	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/store"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRomanizeCmd(t *testing.T) {
	isolate(t)
	out, err := run(t, "romanize", "しゃしん")
	require.NoError(t, err)
	assert.Equal(t, "shashin\n", out)

	out, err = run(t, "romanize", "--style", "kunrei", "しゃしん")
	require.NoError(t, err)
	assert.Equal(t, "syasin\n", out)

	_, err = run(t, "romanize", "--style", "wapuro", "しゃしん")
	require.Error(t, err)
}

func TestCheckCmd(t *testing.T) {
	isolate(t)
	out, err := run(t, "check", "かんじ", "kanzi")
	require.NoError(t, err)

	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, true, snap["isComplete"])
	assert.Equal(t, "kanzi", snap["displayRomaji"])
	assert.Equal(t, float64(5), snap["totalKeystrokes"])
	assert.Equal(t, []any{}, snap["nextExpectedChars"])
}

func TestCheckCmdStrict(t *testing.T) {
	isolate(t)
	out, err := run(t, "check", "--strict", "つ", "tu")
	require.NoError(t, err)

	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, false, snap["isValid"])
	assert.Equal(t, float64(1), snap["correctLength"])
	assert.Equal(t, float64(1), snap["errorCount"])
}

func TestCheckCmdConfigStyle(t *testing.T) {
	isolate(t)
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[practice]\nstyle = \"kunrei\"\nstrict = true\n"), 0o644))

	out, err := run(t, "check", "し", "shi")
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, false, snap["isValid"])
	assert.Equal(t, "si", snap["displayRomaji"])
}

func TestTableCmd(t *testing.T) {
	isolate(t)
	out, err := run(t, "table", "--hiragana")
	require.NoError(t, err)
	assert.Contains(t, out, "し\tshi si ci\n")
	assert.NotContains(t, out, "シ\t")
}

func TestTableCmdOverlay(t *testing.T) {
	isolate(t)
	overlay := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("patterns:\n  を: [wo, o, uo]\n"), 0o644))

	out, err := run(t, "table", "--table", overlay)
	require.NoError(t, err)
	assert.Contains(t, out, "を\two o uo\n")
}

func TestLangs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLangs(&buf, []string{"en"}))
	out := buf.String()
	assert.Contains(t, out, "ja-easy\tword (built-in)\n")
	assert.Contains(t, out, "japanese\tsentence (built-in)\n")
	assert.Contains(t, out, "en\tword (user)\n")
}

func TestUserWordLists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ja.txt"), []byte("いぬ\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))

	langs, err := userWordLists(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"ja"}, langs)

	langs, err = userWordLists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, langs)
}

func TestLoadEntries(t *testing.T) {
	isolate(t)
	entries, path, err := loadEntries("ja-easy")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Len(t, entries, 30)

	userPath := config.DefaultWordListPath("ja-easy")
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("いぬ\nsushi\n"), 0o644))
	entries, path, err = loadEntries("ja-easy")
	require.NoError(t, err)
	assert.Equal(t, userPath, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "いぬ", entries[0].Surface)

	_, _, err = loadEntries("tlh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "romarace langs")
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{
		Mode:       model.ModeWord,
		Difficulty: model.DifficultyMedium,
		Style:      "hepburn",
		Words:      10,
	}
	require.NoError(t, validateConfig(base))

	cases := map[string]func(*model.Config){
		"mode":       func(c *model.Config) { c.Mode = "marathon" },
		"difficulty": func(c *model.Config) { c.Difficulty = "nightmare" },
		"style":      func(c *model.Config) { c.Style = "wapuro" },
		"words":      func(c *model.Config) { c.Words = 0 },
		"caps":       func(c *model.Config) { c.CapsPct = 1.5 },
		"punct":      func(c *model.Config) { c.PunctPct = 0.5 },
		"weak-top":   func(c *model.Config) { c.WeakTop = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			require.Error(t, validateConfig(cfg))
		})
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Lang)
}

func TestRenderStats(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "romarace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var buf bytes.Buffer
	require.NoError(t, renderStats(context.Background(), &buf, st, model.StatsConfig{CurveWindow: 5}, 80))
	assert.Equal(t, "No sessions found.\n", buf.String())

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	_, err = st.InsertSession(context.Background(), model.SessionStats{
		UUID:              "11111111-1111-1111-1111-111111111111",
		StartedAt:         start,
		EndedAt:           start.Add(time.Minute),
		Mode:              model.ModeWord,
		Lang:              "ja-easy",
		Style:             "hepburn",
		Target:            "すし",
		Words:             1,
		TotalKeystrokes:   6,
		CorrectKeystrokes: 5,
		ErrorCount:        1,
		DurationMs:        60000,
	}, []model.WordStats{{Surface: "すし", Romaji: "sushi", TotalKeystrokes: 6, CorrectKeystrokes: 5, ErrorCount: 1, DurationMs: 3000}},
		[]model.KeyStats{{Key: "s", Correct: 2, Incorrect: 1}, {Key: "u", Correct: 1}})
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, renderStats(context.Background(), &buf, st, model.StatsConfig{CurveWindow: 5}, 80))
	out := buf.String()
	for _, want := range []string{"Races: 1 (1 word, 0 sentence)", "Learning Curves", "Per-Key (Windowed)", "Per-Key Curves", "Slowest Words", "すし"} {
		assert.True(t, strings.Contains(out, want), "missing %q in:\n%s", want, out)
	}
}

func TestCurveKeys(t *testing.T) {
	assert.Equal(t, []string{"s", "h"}, curveKeys("shs", nil))
	aggs := []model.KeyAggregate{{Key: "a", Correct: 1}, {Key: "k", Correct: 5}}
	assert.Equal(t, []string{"k", "a"}, curveKeys("", aggs))
}
