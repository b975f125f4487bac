package romaji

import (
	"sort"
	"strings"
)

// MatchMode selects which spellings a Matcher accepts.
type MatchMode int

const (
	// Flexible accepts every pattern the table lists for a grapheme.
	Flexible MatchMode = iota
	// Strict accepts only the preferred spelling of the configured style.
	Strict
)

func (m MatchMode) String() string {
	if m == Strict {
		return "strict"
	}
	return "flexible"
}

// Matcher validates typed romaji against segmented targets.
type Matcher struct {
	table *Table
	mode  MatchMode
	style Style
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithMode sets the match mode.
func WithMode(mode MatchMode) Option {
	return func(m *Matcher) { m.mode = mode }
}

// WithStyle sets the style used for display and strict matching.
func WithStyle(style Style) Option {
	return func(m *Matcher) { m.style = style }
}

// NewMatcher returns a Matcher over table. A nil table means Default().
func NewMatcher(table *Table, opts ...Option) *Matcher {
	if table == nil {
		table = Default()
	}
	m := &Matcher{table: table}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Table returns the table the matcher reads from.
func (m *Matcher) Table() *Table {
	return m.table
}

// Style returns the display style.
func (m *Matcher) Style() Style {
	return m.style
}

// Mode returns the match mode.
func (m *Matcher) Mode() MatchMode {
	return m.mode
}

func (m *Matcher) candidates(seg string) []string {
	if m.mode == Strict {
		return []string{m.table.Preferred(seg, m.style)}
	}
	if p, ok := m.table.entries[seg]; ok {
		return p
	}
	return []string{seg}
}

func (m *Matcher) display(seg string) string {
	return m.table.Preferred(seg, m.style)
}

// MatchState is the outcome of aligning input against a segmented target.
type MatchState struct {
	// SegmentIndex counts fully confirmed segments.
	SegmentIndex int
	// InputPosition is the number of input runes consumed by confirmed segments.
	InputPosition int
	// CorrectLength is the length of the longest input prefix that is a
	// prefix of some accepted spelling of the target.
	CorrectLength int
	// UsedPatterns holds the pattern chosen for each confirmed segment.
	UsedPatterns []string
	// CurrentPattern is the pattern the in-progress segment is being typed
	// as, or empty when the input stops on a segment boundary.
	CurrentPattern string
	// DisplayRomaji is the reference spelling implied by the input so far.
	DisplayRomaji string
	Complete      bool
}

type matchStep struct {
	reach    int
	complete bool
	cand     int
	full     bool
}

type matchRun struct {
	m     *Matcher
	segs  []string
	cands [][][]rune
	input []rune
	memo  map[int]matchStep
}

// better reports whether a beats b. Longer reach wins; at equal reach a
// complete alignment wins; otherwise the earlier found is kept.
func (a matchStep) better(b matchStep) bool {
	if a.reach != b.reach {
		return a.reach > b.reach
	}
	return a.complete && !b.complete
}

func (r *matchRun) candidates(s int) [][]rune {
	if r.cands[s] == nil {
		pats := r.m.candidates(r.segs[s])
		out := make([][]rune, len(pats))
		for i, p := range pats {
			out[i] = []rune(p)
		}
		r.cands[s] = out
	}
	return r.cands[s]
}

func (r *matchRun) solve(s, p int) matchStep {
	n, total := len(r.segs), len(r.input)
	if s == n {
		return matchStep{reach: p, complete: p == total, cand: -1}
	}
	if p == total {
		return matchStep{reach: p, cand: -1}
	}
	key := s*(total+1) + p
	if st, ok := r.memo[key]; ok {
		return st
	}

	cands := r.candidates(s)
	rest := r.input[p:]
	lcps := make([]int, len(cands))
	order := make([]int, len(cands))
	for i, c := range cands {
		lcps[i] = commonPrefix(c, rest)
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return lcps[order[i]] > lcps[order[j]] })

	best := matchStep{reach: p, cand: -1}
	for _, i := range order {
		k := lcps[i]
		if k == 0 {
			break
		}
		var st matchStep
		if k == len(cands[i]) {
			sub := r.solve(s+1, p+k)
			st = matchStep{reach: sub.reach, complete: sub.complete, cand: i, full: true}
		} else {
			st = matchStep{reach: p + k, cand: i}
		}
		if st.better(best) {
			best = st
		}
		if best.complete {
			break
		}
	}
	r.memo[key] = best
	return best
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Match aligns input against segments. Candidates are tried greatest common
// prefix first, and a pattern that fully matches is only kept if the rest of
// the input can follow it at least as far as any alternative.
func (m *Matcher) Match(segments []string, input string) MatchState {
	r := &matchRun{
		m:     m,
		segs:  segments,
		cands: make([][][]rune, len(segments)),
		input: []rune(input),
		memo:  make(map[int]matchStep),
	}
	root := r.solve(0, 0)

	state := MatchState{
		CorrectLength: root.reach,
		Complete:      root.complete,
		UsedPatterns:  make([]string, 0, len(segments)),
	}
	var b strings.Builder
	s, p := 0, 0
	for s < len(segments) {
		st := r.solve(s, p)
		if st.cand < 0 {
			break
		}
		pattern := r.candidates(s)[st.cand]
		if !st.full {
			state.CurrentPattern = string(pattern)
			break
		}
		state.UsedPatterns = append(state.UsedPatterns, string(pattern))
		b.WriteString(string(pattern))
		s++
		p += len(pattern)
	}
	state.SegmentIndex = s
	state.InputPosition = p

	for i := s; i < len(segments); i++ {
		if i == s && state.CurrentPattern != "" {
			b.WriteString(state.CurrentPattern)
			continue
		}
		b.WriteString(m.display(segments[i]))
	}
	state.DisplayRomaji = b.String()
	return state
}

// nextChars lists the characters that may legally follow prefix, which must
// itself be a correct prefix of the target.
func (m *Matcher) nextChars(segments []string, prefix []rune) []string {
	var out []string
	seen := make(map[string]bool)
	visited := make(map[int]bool)
	add := func(c rune) {
		s := string(c)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	var visit func(s, p int)
	visit = func(s, p int) {
		key := s*(len(prefix)+1) + p
		if s == len(segments) || visited[key] {
			return
		}
		visited[key] = true
		for _, pat := range m.candidates(segments[s]) {
			c := []rune(pat)
			k := commonPrefix(c, prefix[p:])
			switch {
			case k == len(c):
				visit(s+1, p+k)
			case p+k == len(prefix):
				add(c[k])
			}
		}
	}
	visit(0, 0)
	return out
}
