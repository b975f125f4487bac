package race

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/romaji"
	"github.com/verte-zerg/romarace/internal/stats"
)

type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func newClock() *stepClock {
	return &stepClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), step: time.Second}
}

func typeAll(s *Session, text string) Snapshot {
	var snap Snapshot
	for i := range []rune(text) {
		snap = s.Keystroke(string([]rune(text)[:i+1]))
	}
	return snap
}

func TestSessionTypesSentence(t *testing.T) {
	s := NewSession(Target{Surface: "寿司", Text: "すし"}, nil, newClock())
	require.NotEmpty(t, s.ID())
	assert.Equal(t, []string{"す", "し"}, s.Segments())

	initial := s.Snapshot()
	assert.Equal(t, "sushi", initial.DisplayRomaji)
	assert.Equal(t, 100.0, initial.Accuracy)

	snap := typeAll(s, "susi")
	assert.True(t, snap.IsComplete)
	assert.Equal(t, "susi", snap.DisplayRomaji)
	assert.Equal(t, 4, snap.TotalKeystrokes)
	assert.Equal(t, 4, snap.CorrectKeystrokes)
	assert.Equal(t, 100.0, snap.Progress)
	assert.True(t, s.Done())

	rec := s.Record()
	assert.Equal(t, s.ID(), rec.UUID)
	assert.Equal(t, model.ModeSentence, rec.Mode)
	assert.Equal(t, "寿司", rec.Target)
	assert.Equal(t, int64(3000), rec.DurationMs)
}

func TestSessionRejectedKeystrokes(t *testing.T) {
	s := NewSession(Target{Surface: "し", Text: "し"}, nil, newClock())
	s.Keystroke("s")
	snap := s.Keystroke("sx")
	assert.False(t, snap.IsValid)
	assert.Equal(t, 1, snap.CorrectLength)
	assert.Equal(t, 1, snap.ErrorCount)

	// Rejecting the keystroke shrinks the input; counters hold.
	snap = s.Keystroke("s")
	assert.Equal(t, 1, snap.ErrorCount)
	assert.Equal(t, 2, snap.TotalKeystrokes)

	snap = s.Keystroke("si")
	assert.True(t, snap.IsComplete)
	assert.InDelta(t, 66.666, snap.Accuracy, 1e-2)

	keys := s.KeyStats()
	byKey := map[string]model.KeyStats{}
	for _, k := range keys {
		byKey[k.Key] = k
	}
	assert.Equal(t, 1, byKey["s"].Correct)
	assert.Equal(t, 1, byKey["h"].Incorrect)
	assert.Equal(t, 1, byKey["i"].Correct)
}

func TestSessionFoldsFullWidthInput(t *testing.T) {
	s := NewSession(Target{Surface: "か", Text: "か"}, nil, newClock())
	snap := s.Keystroke("ｋａ")
	assert.True(t, snap.IsComplete)
}

func TestSessionLatinTarget(t *testing.T) {
	s := NewSession(Target{Surface: "hello", Text: "hello"}, nil, newClock())
	snap := typeAll(s, "hello")
	assert.True(t, snap.IsComplete)
	assert.Equal(t, "hello", snap.DisplayRomaji)
}

func TestSessionStrictMatcher(t *testing.T) {
	m := romaji.NewMatcher(nil, romaji.WithMode(romaji.Strict))
	s := NewSession(Target{Surface: "つ", Text: "つ"}, m, newClock())
	s.Keystroke("t")
	snap := s.Keystroke("tu")
	assert.False(t, snap.IsValid)
	assert.Equal(t, 1, snap.CorrectLength)
}

func TestSnapshotMergeMonotonic(t *testing.T) {
	prev := Snapshot{TotalKeystrokes: 10, CorrectKeystrokes: 8, ErrorCount: 2, WPM: 40, CorrectLength: 8}
	stale := Snapshot{TotalKeystrokes: 9, CorrectKeystrokes: 8, ErrorCount: 1, WPM: 30, CorrectLength: 7}
	got := prev.Merge(stale)
	assert.Equal(t, 10, got.TotalKeystrokes)
	assert.Equal(t, 8, got.CorrectKeystrokes)
	assert.Equal(t, 2, got.ErrorCount)
	assert.Equal(t, 80.0, got.Accuracy)
	assert.Equal(t, 40.0, got.WPM)
	assert.Equal(t, 7, got.CorrectLength)

	done := Snapshot{IsComplete: true, DisplayRomaji: "kana", CorrectLength: 4, Progress: 100}
	after := done.Merge(Snapshot{DisplayRomaji: "ka", CorrectLength: 2})
	assert.True(t, after.IsComplete)
	assert.Equal(t, "kana", after.DisplayRomaji)
}

func TestSnapshotJSON(t *testing.T) {
	s := NewSession(Target{Surface: "し", Text: "し"}, nil, newClock())
	data, err := json.Marshal(s.Keystroke("sh"))
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"isValid", "correctLength", "isComplete", "progress", "displayRomaji", "nextExpectedChars", "accuracy", "wpm", "totalKeystrokes", "errorCount"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, []any{"i"}, fields["nextExpectedChars"])
}

func TestWordRun(t *testing.T) {
	words := []Target{
		{Surface: "すし", Text: "すし"},
		{Surface: "そら", Text: "そら"},
	}
	r := NewWordRun(words, nil, newClock())
	require.False(t, r.Done())

	cur, idx := r.Current()
	require.Equal(t, 0, idx)
	assert.Equal(t, "すし", cur.Target().Surface)

	for _, in := range []string{"s", "su", "sus", "sush", "sushi"} {
		r.Keystroke(in)
	}
	cur, idx = r.Current()
	require.Equal(t, 1, idx)
	require.NotNil(t, cur)
	assert.InDelta(t, 50.0, r.Snapshot().Progress, 1e-9)

	for _, in := range []string{"s", "so", "sox", "so", "sor", "sora"} {
		r.Keystroke(in)
	}
	require.True(t, r.Done())

	completed := r.Completed()
	require.Len(t, completed, 2)
	assert.Equal(t, "sushi", completed[0].Romaji)
	assert.Equal(t, "sora", completed[1].Romaji)
	assert.Equal(t, 1, completed[1].ErrorCount)

	total := r.Total()
	assert.Equal(t, stats.Finished, total.Phase)
	assert.Equal(t, 9, total.CorrectKeystrokes)
	assert.Equal(t, 1, total.ErrorCount)

	rec := r.Record()
	assert.Equal(t, model.ModeWord, rec.Mode)
	assert.Equal(t, 2, rec.Words)
	assert.Equal(t, "すし そら", rec.Target)

	snap := r.Snapshot()
	assert.True(t, snap.IsComplete)
	assert.Equal(t, 100.0, snap.Progress)
	assert.NotEmpty(t, r.KeyStats())
}
