// Package race runs one participant's typing attempts against the romaji
// engine and produces the snapshots a room broadcasts.
package race

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/width"

	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/romaji"
	"github.com/verte-zerg/romarace/internal/stats"
)

// Target is a text to race on. Surface is shown to the player; Text is what
// the romaji engine matches against (kana, or Latin passthrough).
type Target struct {
	Surface string
	Text    string
}

// Session validates one participant's input against a single target.
// It is not safe for concurrent use; keystrokes must arrive in order.
type Session struct {
	id       string
	target   Target
	segments []string
	matcher  *romaji.Matcher
	clock    stats.Clock
	attempt  stats.Attempt
	keys     *keyLog
	last     Snapshot
}

// NewSession prepares a session. A nil matcher uses the built-in table and a
// nil clock uses the wall clock.
func NewSession(target Target, matcher *romaji.Matcher, clock stats.Clock) *Session {
	if matcher == nil {
		matcher = romaji.NewMatcher(nil)
	}
	if clock == nil {
		clock = stats.SystemClock
	}
	s := &Session{
		id:       uuid.NewString(),
		target:   target,
		segments: matcher.Table().Segment(target.Text),
		matcher:  matcher,
		clock:    clock,
		keys:     newKeyLog(),
	}
	s.last = newSnapshot(matcher.ValidateSegments(s.segments, ""), s.attempt, clock.Now())
	return s
}

// NormalizeInput folds full-width keystrokes to their ASCII forms.
func NormalizeInput(input string) string {
	return width.Fold.String(input)
}

// Keystroke validates the full current input and updates the counters.
func (s *Session) Keystroke(input string) Snapshot {
	input = NormalizeInput(input)
	now := s.clock.Now()
	res := s.matcher.ValidateSegments(s.segments, input)

	prev := s.attempt.Input()
	if s.attempt.Phase != stats.Finished && len(input) > len(prev) && strings.HasPrefix(input, prev) {
		display := []rune(res.DisplayRomaji)
		pos := len([]rune(prev))
		for range []rune(input[len(prev):]) {
			expected := ""
			if pos < len(display) {
				expected = string(display[pos])
			}
			s.keys.record(expected, pos < res.CorrectLength, now)
			pos++
		}
	}
	s.attempt = s.attempt.Apply(input, res.CorrectLength, res.IsComplete, now)
	s.last = s.last.Merge(newSnapshot(res, s.attempt, now))
	return s.last
}

// ID returns the attempt identifier.
func (s *Session) ID() string { return s.id }

// Target returns the race target.
func (s *Session) Target() Target { return s.target }

// Segments returns the segmented target.
func (s *Session) Segments() []string { return s.segments }

// Snapshot returns the latest snapshot, refreshing time-derived fields.
func (s *Session) Snapshot() Snapshot {
	snap := s.last
	snap.WPM = s.attempt.WPM(s.clock.Now())
	return snap
}

// Attempt returns the keystroke counters.
func (s *Session) Attempt() stats.Attempt { return s.attempt }

// Done reports whether the target has been fully typed.
func (s *Session) Done() bool { return s.attempt.Phase == stats.Finished }

// KeyStats returns per-romaji-key counters.
func (s *Session) KeyStats() []model.KeyStats { return s.keys.list() }

// Record summarizes the attempt for storage. Callers fill in race settings.
func (s *Session) Record() model.SessionStats {
	return record(s.id, s.target.Surface, s.attempt, s.clock.Now())
}

func record(id, target string, a stats.Attempt, now time.Time) model.SessionStats {
	end := a.EndTime
	if a.Phase != stats.Finished {
		end = now
	}
	return model.SessionStats{
		UUID:              id,
		StartedAt:         a.StartTime,
		EndedAt:           end,
		Mode:              model.ModeSentence,
		Target:            target,
		Words:             1,
		TotalKeystrokes:   a.TotalKeystrokes,
		CorrectKeystrokes: a.CorrectKeystrokes,
		ErrorCount:        a.ErrorCount,
		DurationMs:        a.Elapsed(now).Milliseconds(),
	}
}
