package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/romarace/internal/generator"
	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/race"
	"github.com/verte-zerg/romarace/internal/store"
	"github.com/verte-zerg/romarace/internal/wordlist"
)

func newTestModel(cfg model.Config, st *store.Store) *Model {
	return NewModel(cfg, Deps{
		Store:     st,
		Generator: generator.NewWithSeed(1),
		Entries:   []wordlist.Entry{{Surface: "すし"}},
		Sentences: []string{"すし"},
		Logger:    zerolog.Nop(),
	})
}

func typeKeys(m *Model, keys string) {
	for _, r := range keys {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestWordRaceCompletes(t *testing.T) {
	m := newTestModel(model.Config{Lang: "ja-easy", Mode: model.ModeWord, Words: 2}, nil)
	_, ok := m.racer.(*race.WordRun)
	require.True(t, ok)

	typeKeys(m, "sushi")
	assert.Empty(t, m.input)
	assert.Len(t, m.results.Rows(), 1)

	typeKeys(m, "susi")
	assert.True(t, m.hasLast)
	assert.Equal(t, 9, m.allCorrect)
	assert.Equal(t, 100.0, m.lastAcc)

	// A fresh run is waiting.
	assert.False(t, m.racer.Done())
	assert.Empty(t, m.results.Rows())
}

func TestRejectedKeystrokeCountsError(t *testing.T) {
	m := newTestModel(model.Config{Mode: model.ModeSentence, Difficulty: model.DifficultyMedium}, nil)
	typeKeys(m, "sx")
	assert.Equal(t, "s", string(m.input))
	assert.True(t, m.rejected)

	snap := m.racer.Snapshot()
	assert.Equal(t, 1, snap.ErrorCount)
	assert.Equal(t, 2, snap.TotalKeystrokes)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Empty(t, m.input)
	assert.False(t, m.rejected)
}

func TestSentenceRaceSavesSession(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "romarace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := model.Config{Lang: "ja-easy", Mode: model.ModeSentence, Difficulty: model.DifficultyMedium}
	m := newTestModel(cfg, st)
	typeKeys(m, "sushi")

	sessions, err := st.ListSessions(t.Context(), model.StatsConfig{Lang: "ja-easy"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, model.ModeSentence, sessions[0].Mode)
	assert.Equal(t, 5, sessions[0].Correct)

	again := newTestModel(cfg, st)
	assert.True(t, again.hasLast)
	assert.Equal(t, 5, again.allCorrect)
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(model.Config{Mode: model.ModeSentence, Difficulty: model.DifficultyMedium}, nil)
	m.hasLast = true
	m.lastWPM = 72.4
	m.lastAcc = 97.8
	m.allWPM = 68.1
	m.allAcc = 96.9
	typeKeys(m, "su")

	out := m.renderFooter(m.racer.Snapshot())
	for _, want := range []string{"Progress 40%", "Last 72.4 WPM", "97.8%", "All-time 68.1 WPM", "96.9%"} {
		assert.Contains(t, out, want)
	}
}

func TestViewShowsSurfaceAndRomaji(t *testing.T) {
	m := newTestModel(model.Config{Mode: model.ModeSentence, Difficulty: model.DifficultyMedium}, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	out := m.View()
	assert.Contains(t, out, "すし")
	assert.True(t, strings.Contains(out, "s"), out)
}
