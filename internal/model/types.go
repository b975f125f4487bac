// Package model defines shared data structures.
package model

import "time"

// Race modes.
const (
	ModeSentence = "sentence"
	ModeWord     = "word"
)

// Difficulty levels for sentence races.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Config defines race settings.
type Config struct {
	Lang       string
	Mode       string
	Words      int
	Difficulty string
	Style      string
	Strict     bool
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
	TablePath  string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
	Keys        string
}

// SessionStats captures a finished race attempt.
type SessionStats struct {
	UUID              string
	StartedAt         time.Time
	EndedAt           time.Time
	Mode              string
	Lang              string
	Style             string
	Strict            bool
	Target            string
	Words             int
	WordListPath      string
	TotalKeystrokes   int
	CorrectKeystrokes int
	ErrorCount        int
	DurationMs        int64
}

// WordStats records one completed word of a word-mode run.
type WordStats struct {
	Index             int
	Surface           string
	Romaji            string
	TotalKeystrokes   int
	CorrectKeystrokes int
	ErrorCount        int
	DurationMs        int64
}

// KeyStats stores per-romaji-key stats for a session. Key is the character
// the display romaji expected at the keystroke.
type KeyStats struct {
	Key          string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// KeyAggregate aggregates key stats across sessions.
type KeyAggregate struct {
	Key          string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	UUID       string
	EndedAt    time.Time
	Mode       string
	Lang       string
	Correct    int
	Incorrect  int
	DurationMs int64
}
