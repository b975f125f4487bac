package race

import (
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/romaji"
	"github.com/verte-zerg/romarace/internal/stats"
)

// WordRun races through an ordered list of words. Each word has its own
// attempt, so per-word WPM uses only that word's elapsed time. The run total
// measures from the first keystroke of the first word.
type WordRun struct {
	id        string
	words     []Target
	matcher   *romaji.Matcher
	clock     stats.Clock
	index     int
	current   *Session
	completed []model.WordStats
	total     stats.Attempt
	keys      *keyLog
}

// NewWordRun starts a run on the first word.
func NewWordRun(words []Target, matcher *romaji.Matcher, clock stats.Clock) *WordRun {
	if matcher == nil {
		matcher = romaji.NewMatcher(nil)
	}
	if clock == nil {
		clock = stats.SystemClock
	}
	r := &WordRun{
		id:      uuid.NewString(),
		words:   words,
		matcher: matcher,
		clock:   clock,
		keys:    newKeyLog(),
	}
	if len(words) > 0 {
		r.current = NewSession(words[0], matcher, clock)
	}
	return r
}

// Keystroke applies input to the current word. When the word completes it is
// appended to the completed list and the next word becomes current; the
// returned snapshot describes the word that was typed.
func (r *WordRun) Keystroke(input string) Snapshot {
	if r.current == nil {
		return Snapshot{IsValid: true, IsComplete: true, Progress: 100, Accuracy: r.total.Accuracy(), NextExpectedChars: []string{}}
	}
	before := r.current.Attempt()
	snap := r.current.Keystroke(input)
	after := r.current.Attempt()

	if r.total.Phase == stats.Idle && after.Phase != stats.Idle {
		r.total.Phase = stats.Active
		r.total.StartTime = after.StartTime
	}
	r.total.TotalKeystrokes += after.TotalKeystrokes - before.TotalKeystrokes
	r.total.CorrectKeystrokes += after.CorrectKeystrokes - before.CorrectKeystrokes
	r.total.ErrorCount += after.ErrorCount - before.ErrorCount

	if r.current.Done() {
		r.finishWord()
	}
	return snap
}

func (r *WordRun) finishWord() {
	a := r.current.Attempt()
	r.completed = append(r.completed, model.WordStats{
		Index:             r.index,
		Surface:           r.current.Target().Surface,
		Romaji:            r.current.Snapshot().DisplayRomaji,
		TotalKeystrokes:   a.TotalKeystrokes,
		CorrectKeystrokes: a.CorrectKeystrokes,
		ErrorCount:        a.ErrorCount,
		DurationMs:        a.Elapsed(a.EndTime).Milliseconds(),
	})
	r.keys.merge(r.current.keys)
	r.index++
	if r.index >= len(r.words) {
		r.current = nil
		r.total.Phase = stats.Finished
		r.total.EndTime = a.EndTime
		return
	}
	r.current = NewSession(r.words[r.index], r.matcher, r.clock)
}

// ID returns the run identifier.
func (r *WordRun) ID() string { return r.id }

// Current returns the word being typed and its index.
func (r *WordRun) Current() (*Session, int) { return r.current, r.index }

// Words returns the run's targets.
func (r *WordRun) Words() []Target { return r.words }

// Done reports whether every word has been completed.
func (r *WordRun) Done() bool { return r.current == nil }

// Completed returns stats for finished words in order.
func (r *WordRun) Completed() []model.WordStats {
	out := make([]model.WordStats, len(r.completed))
	copy(out, r.completed)
	return out
}

// Total returns run-level counters.
func (r *WordRun) Total() stats.Attempt { return r.total }

// Snapshot returns run-level progress: completed words over all words, with
// run-level accuracy and WPM.
func (r *WordRun) Snapshot() Snapshot {
	now := r.clock.Now()
	snap := Snapshot{
		IsValid:           true,
		IsComplete:        r.Done(),
		Accuracy:          r.total.Accuracy(),
		WPM:               r.total.WPM(now),
		TotalKeystrokes:   r.total.TotalKeystrokes,
		CorrectKeystrokes: r.total.CorrectKeystrokes,
		ErrorCount:        r.total.ErrorCount,
		NextExpectedChars: []string{},
		Progress:          100,
	}
	if len(r.words) > 0 {
		done := float64(len(r.completed))
		if r.current != nil {
			cur := r.current.Snapshot()
			done += cur.Progress / 100
			snap.IsValid = cur.IsValid
			snap.CorrectLength = cur.CorrectLength
			snap.DisplayRomaji = cur.DisplayRomaji
			snap.NextExpectedChars = cur.NextExpectedChars
		}
		snap.Progress = done / float64(len(r.words)) * 100
	}
	return snap
}

// KeyStats returns per-key counters for completed words and the current one.
func (r *WordRun) KeyStats() []model.KeyStats {
	all := newKeyLog()
	all.merge(r.keys)
	if r.current != nil {
		all.merge(r.current.keys)
	}
	return all.list()
}

// Record summarizes the run for storage. Callers fill in race settings.
func (r *WordRun) Record() model.SessionStats {
	surfaces := make([]string, 0, len(r.words))
	for _, w := range r.words {
		surfaces = append(surfaces, w.Surface)
	}
	rec := record(r.id, strings.Join(surfaces, " "), r.total, r.clock.Now())
	rec.Mode = model.ModeWord
	rec.Words = len(r.words)
	return rec
}
