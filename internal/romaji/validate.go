package romaji

import "unicode/utf8"

// Result reports how typed input relates to a target.
type Result struct {
	IsValid           bool     `json:"isValid"`
	CorrectLength     int      `json:"correctLength"`
	IsComplete        bool     `json:"isComplete"`
	NextExpectedChars []string `json:"nextExpectedChars"`
	UsedPatterns      []string `json:"usedPatterns,omitempty"`
	DisplayRomaji     string   `json:"displayRomaji"`
	Progress          float64  `json:"progress"`
}

// Validate checks input against target.
func (m *Matcher) Validate(target, input string) Result {
	return m.ValidateSegments(m.table.Segment(target), input)
}

// ValidateSegments checks input against an already segmented target.
func (m *Matcher) ValidateSegments(segments []string, input string) Result {
	state := m.Match(segments, input)
	inputLen := utf8.RuneCountInString(input)

	res := Result{
		IsValid:       state.CorrectLength == inputLen,
		CorrectLength: state.CorrectLength,
		IsComplete:    state.Complete,
		UsedPatterns:  state.UsedPatterns,
		DisplayRomaji: state.DisplayRomaji,
		Progress:      progress(state.CorrectLength, state.DisplayRomaji, state.Complete),
	}
	if !state.Complete {
		prefix := []rune(input)[:state.CorrectLength]
		res.NextExpectedChars = m.nextChars(segments, prefix)
	}
	if res.NextExpectedChars == nil {
		res.NextExpectedChars = []string{}
	}
	return res
}

// Progress returns the completion percentage of input against target.
func (m *Matcher) Progress(target, input string) float64 {
	return m.Validate(target, input).Progress
}

// Romanize renders target in the matcher's style.
func (m *Matcher) Romanize(target string) string {
	return m.table.Romanize(target, m.style)
}

func progress(correct int, display string, complete bool) float64 {
	total := utf8.RuneCountInString(display)
	if total == 0 {
		if complete {
			return 100
		}
		return 0
	}
	pct := float64(correct) / float64(total) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

var defaultMatcher = NewMatcher(nil)

// Validate checks input against target with the built-in table in flexible mode.
func Validate(target, input string) Result {
	return defaultMatcher.Validate(target, input)
}

// CharStatus classifies one rune of the display romaji.
type CharStatus int

const (
	Pending CharStatus = iota
	Correct
	Incorrect
	Current
)

func (c CharStatus) String() string {
	switch c {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Current:
		return "current"
	default:
		return "pending"
	}
}

// Statuses classifies each rune of display. Runes before correctLength are
// correct. When the input runs past correctLength, the rune it diverged on is
// incorrect; otherwise it is the cursor position.
func Statuses(display string, correctLength, inputLength int) []CharStatus {
	out := make([]CharStatus, utf8.RuneCountInString(display))
	for i := range out {
		switch {
		case i < correctLength:
			out[i] = Correct
		case i == correctLength && inputLength > correctLength:
			out[i] = Incorrect
		case i == correctLength:
			out[i] = Current
		default:
			out[i] = Pending
		}
	}
	return out
}
