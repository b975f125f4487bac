// Package stats tracks typing attempts and renders race history reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/romarace/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, CPM, and accuracy (percent) for a stored session.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	accuracy = 100
	if den := float64(correct + incorrect); den > 0 {
		accuracy = float64(correct) / den * 100
	}
	if durationMs <= 0 {
		return 0, 0, accuracy
	}
	elapsed := time.Duration(durationMs) * time.Millisecond
	wpm = WordsPerMinute(correct, elapsed)
	cpm = wpm * 5
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Resample averages values into at most width buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No races found.")
		return err
	}
	var totalWPM, totalCPM, totalAcc float64
	bestWPM := 0.0
	words, sentences := 0, 0
	for _, s := range sessions {
		wpm, cpm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalWPM += wpm
		totalCPM += cpm
		totalAcc += acc
		bestWPM = math.Max(bestWPM, wpm)
		if s.Mode == model.ModeWord {
			words++
		} else {
			sentences++
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Races: %d (%d word, %d sentence)", len(sessions), words, sentences),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		"",
	}
	return writeLines(w, lines)
}

// RenderCurves prints WPM and accuracy sparklines no wider than width.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, _, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		wpms[i] = wpm
		accs[i] = acc
	}
	wpms = Resample(MovingAverage(wpms, window), curveWidth(width))
	accs = Resample(MovingAverage(accs, window), curveWidth(width))
	return writeLines(w, []string{
		"Learning Curves",
		fmt.Sprintf("WPM      |%s| %.1f", Sparkline(wpms), wpms[len(wpms)-1]),
		fmt.Sprintf("Accuracy |%s| %.1f%%", Sparkline(accs), accs[len(accs)-1]),
		"",
	})
}

func curveWidth(total int) int {
	const labelWidth = 20
	if total <= labelWidth {
		return 0
	}
	return total - labelWidth
}

// RenderKeyTable prints per-key aggregates, weakest first.
func RenderKeyTable(w io.Writer, aggs []model.KeyAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No key stats found.")
		return err
	}
	sorted := make([]model.KeyAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := accuracy(sorted[i]), accuracy(sorted[j])
		if ai == aj {
			return sorted[i].Key < sorted[j].Key
		}
		return ai < aj
	})

	headers := []string{"Key", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, []string{
			keyLabel(agg.Key),
			fmt.Sprintf("%.2f%%", accuracy(agg)*100),
			fmt.Sprintf("%.1f", avgLatency(agg)),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		})
	}
	lines := append([]string{"Per-Key (Windowed)"}, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})...)
	return writeLines(w, append(lines, ""))
}

// RenderKeyCurves prints accuracy sparklines for selected keys.
func RenderKeyCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.KeyAggregate, keys []string, window, width int) error {
	if len(keys) == 0 || len(sessions) == 0 {
		return nil
	}
	lines := []string{"Per-Key Curves"}
	for _, key := range keys {
		series := make([]float64, len(sessions))
		for i, s := range sessions {
			if agg, ok := perSession[s.SessionID][key]; ok && agg.Correct+agg.Incorrect > 0 {
				series[i] = accuracy(agg) * 100
			}
		}
		series = Resample(MovingAverage(series, window), curveWidth(width))
		lines = append(lines, fmt.Sprintf("%-8s |%s| %.1f%%", keyLabel(key), Sparkline(series), series[len(series)-1]))
	}
	return writeLines(w, append(lines, ""))
}

// RenderSlowWords prints the slowest completed words by time per correct keystroke.
func RenderSlowWords(w io.Writer, words []model.WordStats) error {
	if len(words) == 0 {
		return nil
	}
	headers := []string{"Word", "Romaji", "ms/key", "Errors"}
	rows := make([][]string, 0, len(words))
	for _, ws := range words {
		perKey := 0.0
		if ws.CorrectKeystrokes > 0 {
			perKey = float64(ws.DurationMs) / float64(ws.CorrectKeystrokes)
		}
		rows = append(rows, []string{ws.Surface, ws.Romaji, fmt.Sprintf("%.0f", perKey), fmt.Sprintf("%d", ws.ErrorCount)})
	}
	lines := append([]string{"Slowest Words"}, formatTable(headers, rows, map[int]bool{2: true, 3: true})...)
	return writeLines(w, append(lines, ""))
}

func keyLabel(key string) string {
	if key == " " {
		return "<space>"
	}
	return key
}

func avgLatency(agg model.KeyAggregate) float64 {
	if agg.LatencyCount == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.LatencyCount)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
