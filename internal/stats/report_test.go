package stats

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "romarace.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		session := model.SessionStats{
			UUID:              fmt.Sprintf("race-%d", i),
			StartedAt:         start,
			EndedAt:           end,
			Mode:              model.ModeWord,
			Lang:              "ja-easy",
			Style:             "hepburn",
			Words:             2,
			TotalKeystrokes:   11,
			CorrectKeystrokes: 10,
			ErrorCount:        1,
			DurationMs:        end.Sub(start).Milliseconds(),
		}
		words := []model.WordStats{
			{Index: 0, Surface: "すし", Romaji: "sushi", CorrectKeystrokes: 5, DurationMs: 2000},
			{Index: 1, Surface: "そら", Romaji: "sora", CorrectKeystrokes: 4, DurationMs: 800, ErrorCount: 1},
		}
		keys := []model.KeyStats{
			{Key: "s", Correct: 5, Incorrect: 0},
			{Key: "h", Correct: 4, Incorrect: 1},
		}
		id, err := st.InsertSession(ctx, session, words, keys)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Lang: "ja-easy", Last: 2, CurveWindow: 2})
	require.NoError(t, err)
	require.Len(t, report.Sessions, 2)
	assert.Equal(t, ids[1], report.Sessions[0].SessionID)
	assert.Equal(t, ids[2], report.Sessions[1].SessionID)
	assert.Len(t, report.WindowSessionIDs, 2)
	assert.NotEmpty(t, report.KeyAggsAll)
	assert.NotEmpty(t, report.KeyAggsWindow)
	require.NotEmpty(t, report.SlowWords)
	assert.Equal(t, "すし", report.SlowWords[0].Surface)

	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, report.Sessions))
	require.NoError(t, RenderCurves(&buf, report.Sessions, 2, 60))
	require.NoError(t, RenderKeyTable(&buf, report.KeyAggsWindow))
	require.NoError(t, RenderSlowWords(&buf, report.SlowWords))
	out := buf.String()
	assert.Contains(t, out, "Races: 2 (2 word, 0 sentence)")
	assert.Contains(t, out, "Avg WPM: 4.00")
	assert.Contains(t, out, "Per-Key (Windowed)")
	assert.True(t, strings.Index(out, "h ") < strings.Index(out, "s "), "weakest key first")
}

func TestSessionMetrics(t *testing.T) {
	wpm, cpm, acc := SessionMetrics(25, 5, 60000)
	assert.InDelta(t, 5.0, wpm, 1e-9)
	assert.InDelta(t, 25.0, cpm, 1e-9)
	assert.InDelta(t, 83.333, acc, 1e-3)

	wpm, _, acc = SessionMetrics(0, 0, 0)
	assert.Equal(t, 0.0, wpm)
	assert.Equal(t, 100.0, acc)
}

func TestSparklineAndResample(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "+++", Sparkline([]float64{2, 2, 2}))
	assert.Equal(t, " @", Sparkline([]float64{0, 1}))
	assert.Equal(t, []float64{1.5, 3.5}, Resample([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1, 2}, Resample([]float64{1, 2}, 5))
	assert.Equal(t, []float64{1, 1.5, 2.5}, MovingAverage([]float64{1, 2, 3}, 2))
}
