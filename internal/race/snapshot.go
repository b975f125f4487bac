package race

import (
	"time"

	"github.com/verte-zerg/romarace/internal/romaji"
	"github.com/verte-zerg/romarace/internal/stats"
)

// Snapshot is the per-keystroke state a participant reports to the room.
type Snapshot struct {
	IsValid           bool     `json:"isValid"`
	CorrectLength     int      `json:"correctLength"`
	IsComplete        bool     `json:"isComplete"`
	Progress          float64  `json:"progress"`
	DisplayRomaji     string   `json:"displayRomaji"`
	NextExpectedChars []string `json:"nextExpectedChars"`
	Accuracy          float64  `json:"accuracy"`
	WPM               float64  `json:"wpm"`
	TotalKeystrokes   int      `json:"totalKeystrokes"`
	CorrectKeystrokes int      `json:"correctKeystrokes"`
	ErrorCount        int      `json:"errorCount"`
}

func newSnapshot(res romaji.Result, a stats.Attempt, now time.Time) Snapshot {
	return Snapshot{
		IsValid:           res.IsValid,
		CorrectLength:     res.CorrectLength,
		IsComplete:        res.IsComplete,
		Progress:          res.Progress,
		DisplayRomaji:     res.DisplayRomaji,
		NextExpectedChars: res.NextExpectedChars,
		Accuracy:          a.Accuracy(),
		WPM:               a.WPM(now),
		TotalKeystrokes:   a.TotalKeystrokes,
		CorrectKeystrokes: a.CorrectKeystrokes,
		ErrorCount:        a.ErrorCount,
	}
}

// Merge folds a later report into s. Counters never go backwards even when
// next carries stale cumulative values; completion is sticky.
func (s Snapshot) Merge(next Snapshot) Snapshot {
	stale := next.TotalKeystrokes < s.TotalKeystrokes ||
		next.CorrectKeystrokes < s.CorrectKeystrokes ||
		next.ErrorCount < s.ErrorCount
	out := next
	out.TotalKeystrokes = max(s.TotalKeystrokes, next.TotalKeystrokes)
	out.CorrectKeystrokes = max(s.CorrectKeystrokes, next.CorrectKeystrokes)
	out.ErrorCount = max(s.ErrorCount, next.ErrorCount)
	out.Accuracy = 100
	if out.TotalKeystrokes > 0 {
		out.Accuracy = float64(out.CorrectKeystrokes) / float64(out.TotalKeystrokes) * 100
	}
	if stale {
		out.WPM = max(s.WPM, next.WPM)
	}
	if s.IsComplete {
		out.IsComplete = true
		out.IsValid = true
		out.Progress = 100
		out.CorrectLength = max(s.CorrectLength, next.CorrectLength)
		out.DisplayRomaji = s.DisplayRomaji
		out.NextExpectedChars = []string{}
	}
	return out
}
