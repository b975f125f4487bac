package race

import (
	"sort"
	"time"

	"github.com/verte-zerg/romarace/internal/model"
)

type keyStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// keyLog attributes keystrokes to the romaji character that was expected.
type keyLog struct {
	stats         map[string]*keyStat
	prevCorrectAt time.Time
}

func newKeyLog() *keyLog {
	return &keyLog{stats: map[string]*keyStat{}}
}

func (l *keyLog) record(expected string, correct bool, now time.Time) {
	if expected == "" || expected == " " {
		return
	}
	entry, ok := l.stats[expected]
	if !ok {
		entry = &keyStat{}
		l.stats[expected] = entry
	}
	if !correct {
		entry.incorrect++
		return
	}
	entry.correct++
	if !l.prevCorrectAt.IsZero() {
		entry.latencySumMs += now.Sub(l.prevCorrectAt).Milliseconds()
		entry.latencyCount++
	}
	l.prevCorrectAt = now
}

func (l *keyLog) merge(other *keyLog) {
	for key, src := range other.stats {
		dst, ok := l.stats[key]
		if !ok {
			dst = &keyStat{}
			l.stats[key] = dst
		}
		dst.correct += src.correct
		dst.incorrect += src.incorrect
		dst.latencySumMs += src.latencySumMs
		dst.latencyCount += src.latencyCount
	}
}

func (l *keyLog) list() []model.KeyStats {
	out := make([]model.KeyStats, 0, len(l.stats))
	for key, entry := range l.stats {
		out = append(out, model.KeyStats{
			Key:          key,
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
