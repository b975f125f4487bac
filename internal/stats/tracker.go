package stats

import (
	"strings"
	"time"
)

// Phase is the lifecycle state of one typing attempt.
type Phase int

const (
	Idle Phase = iota
	Active
	Finished
)

func (p Phase) String() string {
	switch p {
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "idle"
	}
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Attempt holds keystroke counters for one word or sentence attempt.
// Counters only ever grow.
type Attempt struct {
	Phase             Phase
	StartTime         time.Time
	EndTime           time.Time
	TotalKeystrokes   int
	CorrectKeystrokes int
	ErrorCount        int

	input string
}

// Apply returns the attempt after the input changed to input. correctLength
// and complete come from validating input against the target. Appended
// characters count as correct when they fall inside correctLength and as
// errors otherwise. Any other change counts nothing.
func (a Attempt) Apply(input string, correctLength int, complete bool, now time.Time) Attempt {
	if a.Phase == Finished {
		return a
	}
	prev := a.input
	a.input = input
	if len(input) > len(prev) && strings.HasPrefix(input, prev) {
		if a.Phase == Idle {
			a.Phase = Active
			a.StartTime = now
		}
		pos := len([]rune(prev))
		for range []rune(input[len(prev):]) {
			a.TotalKeystrokes++
			if pos < correctLength {
				a.CorrectKeystrokes++
			} else {
				a.ErrorCount++
			}
			pos++
		}
	}
	if complete && a.Phase == Active {
		a.Phase = Finished
		a.EndTime = now
	}
	return a
}

// Input returns the input last applied.
func (a Attempt) Input() string {
	return a.input
}

// Accuracy is the percentage of keystrokes that were correct, 100 before any.
func (a Attempt) Accuracy() float64 {
	if a.TotalKeystrokes == 0 {
		return 100
	}
	return float64(a.CorrectKeystrokes) / float64(a.TotalKeystrokes) * 100
}

// Elapsed is the time since the first keystroke, frozen once finished.
func (a Attempt) Elapsed(now time.Time) time.Duration {
	switch a.Phase {
	case Idle:
		return 0
	case Finished:
		return a.EndTime.Sub(a.StartTime)
	}
	if d := now.Sub(a.StartTime); d > 0 {
		return d
	}
	return 0
}

// WPM is correct keystrokes over five per elapsed minute.
func (a Attempt) WPM(now time.Time) float64 {
	return WordsPerMinute(a.CorrectKeystrokes, a.Elapsed(now))
}

// WordsPerMinute converts correct keystrokes over elapsed time into WPM.
func WordsPerMinute(correct int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return (float64(correct) / 5.0) / elapsed.Minutes()
}

// Tracker drives an Attempt with a Clock.
type Tracker struct {
	clock   Clock
	attempt Attempt
}

// NewTracker returns an idle tracker. A nil clock means SystemClock.
func NewTracker(clock Clock) *Tracker {
	if clock == nil {
		clock = SystemClock
	}
	return &Tracker{clock: clock}
}

// Update applies the latest input and its validation outcome.
func (t *Tracker) Update(input string, correctLength int, complete bool) Attempt {
	t.attempt = t.attempt.Apply(input, correctLength, complete, t.clock.Now())
	return t.attempt
}

// Attempt returns the current counters.
func (t *Tracker) Attempt() Attempt {
	return t.attempt
}

// WPM reports words per minute as of now.
func (t *Tracker) WPM() float64 {
	return t.attempt.WPM(t.clock.Now())
}

// Reset discards the attempt.
func (t *Tracker) Reset() {
	t.attempt = Attempt{}
}
