// Package tui provides the Bubble Tea race interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/romarace/internal/generator"
	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/race"
	"github.com/verte-zerg/romarace/internal/reading"
	"github.com/verte-zerg/romarace/internal/romaji"
	statsPkg "github.com/verte-zerg/romarace/internal/stats"
	"github.com/verte-zerg/romarace/internal/store"
	"github.com/verte-zerg/romarace/internal/wordlist"
)

// weakMinSamples is the keystroke count a key needs before it can be weak.
const weakMinSamples = 5

// resultRows caps the word results table.
const resultRows = 5

// racer is satisfied by race.Session and race.WordRun.
type racer interface {
	Keystroke(input string) race.Snapshot
	Snapshot() race.Snapshot
	Done() bool
	KeyStats() []model.KeyStats
	Record() model.SessionStats
}

// Deps are the collaborators a race screen needs. Store and Reader may be nil.
type Deps struct {
	Store        *store.Store
	Generator    *generator.Generator
	Matcher      *romaji.Matcher
	Reader       *reading.Reader
	Entries      []wordlist.Entry
	Sentences    []string
	WordListPath string
	PunctSet     []rune
	WeakSet      map[rune]struct{}
	Logger       zerolog.Logger
}

// Model implements the Bubble Tea race UI.
type Model struct {
	config model.Config
	deps   Deps
	log    zerolog.Logger

	weakSet     map[rune]struct{}
	weakNoticed bool

	width  int
	height int

	racer    racer
	input    []rune
	rejected bool

	bar     progress.Model
	results table.Model

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	surfaceStyle     = lipgloss.NewStyle().Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a race TUI model.
func NewModel(cfg model.Config, deps Deps) *Model {
	if deps.Matcher == nil {
		deps.Matcher = romaji.NewMatcher(nil)
	}
	if deps.Generator == nil {
		deps.Generator = generator.New()
	}
	m := &Model{
		config:  cfg,
		deps:    deps,
		log:     deps.Logger.With().Str("lang", cfg.Lang).Str("mode", cfg.Mode).Logger(),
		weakSet: deps.WeakSet,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		results: table.New(
			table.WithColumns([]table.Column{
				{Title: "Word", Width: 12},
				{Title: "Romaji", Width: 16},
				{Title: "WPM", Width: 6},
				{Title: "Acc", Width: 7},
			}),
			table.WithHeight(resultRows),
		),
	}
	m.nextRace()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, m.contentWidth())
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleBackspace()
			return m, nil
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
			return m, nil
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.racer == nil {
		return ""
	}
	snap := m.racer.Snapshot()
	content := m.renderRace(snap)
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter(snap)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderRace(snap race.Snapshot) string {
	display := []rune(snap.DisplayRomaji)
	inputLen := len(m.input)
	if m.rejected {
		inputLen = snap.CorrectLength + 1
	}
	statuses := romaji.Statuses(snap.DisplayRomaji, snap.CorrectLength, inputLen)
	styled := buildStyledRunes(display, statuses)

	width := 0
	if m.width > 0 {
		width = m.contentWidth()
	}
	lines := []string{
		lipgloss.NewStyle().Width(max(width, 1)).Render(m.renderSurface()),
		"",
		wrapStyledRunes(styled, width),
		"",
		m.bar.ViewAs(m.runProgress(snap) / 100),
	}
	if run, ok := m.racer.(*race.WordRun); ok && len(run.Completed()) > 0 {
		lines = append(lines, "", m.results.View())
	}
	if width == 0 {
		return strings.Join(lines, "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

// renderSurface shows the text being raced. In word mode the current word is
// highlighted and finished words are dimmed.
func (m *Model) renderSurface() string {
	switch r := m.racer.(type) {
	case *race.Session:
		return surfaceStyle.Render(r.Target().Surface)
	case *race.WordRun:
		_, idx := r.Current()
		parts := make([]string, 0, len(r.Words()))
		for i, w := range r.Words() {
			switch {
			case i < idx:
				parts = append(parts, pendingStyle.Render(w.Surface))
			case i == idx:
				parts = append(parts, surfaceStyle.Inherit(currentWordStyle).Render(w.Surface))
			default:
				parts = append(parts, correctStyle.Render(w.Surface))
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// runProgress is the bar value: run-level in word mode, else the session's.
func (m *Model) runProgress(snap race.Snapshot) float64 {
	if run, ok := m.racer.(*race.WordRun); ok {
		return run.Snapshot().Progress
	}
	return snap.Progress
}

func (m *Model) handleBackspace() {
	m.rejected = false
	if len(m.input) == 0 {
		return
	}
	m.input = m.input[:len(m.input)-1]
	m.racer.Keystroke(string(m.input))
}

// handleRunes feeds each rune to the engine. A rune the engine rejects is
// counted as an error and dropped from the input.
func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if m.racer == nil || m.racer.Done() {
			return
		}
		candidate := append(append([]rune{}, m.input...), r)
		snap := m.racer.Keystroke(string(candidate))
		if !snap.IsValid {
			m.rejected = true
			m.racer.Keystroke(string(m.input))
			continue
		}
		m.rejected = false
		m.input = candidate
		if snap.IsComplete {
			m.input = nil
			m.refreshResults()
		}
		if m.racer.Done() {
			m.finishRace()
			m.nextRace()
		}
	}
}

func (m *Model) refreshResults() {
	run, ok := m.racer.(*race.WordRun)
	if !ok {
		return
	}
	completed := run.Completed()
	if len(completed) > resultRows {
		completed = completed[len(completed)-resultRows:]
	}
	rows := make([]table.Row, 0, len(completed))
	for i := len(completed) - 1; i >= 0; i-- {
		w := completed[i]
		wpm, _, acc := statsPkg.SessionMetrics(w.CorrectKeystrokes, w.ErrorCount, w.DurationMs)
		rows = append(rows, table.Row{w.Surface, w.Romaji, fmt.Sprintf("%.0f", wpm), fmt.Sprintf("%.1f%%", acc)})
	}
	m.results.SetRows(rows)
}

func (m *Model) loadFooterStats() {
	if m.deps.Store == nil {
		return
	}
	ctx := context.Background()
	sessions, err := m.deps.Store.ListSessions(ctx, model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load session stats")
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(last.Correct, last.Incorrect, last.DurationMs)
	m.hasLast = true

	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allIncorrect += s.Incorrect
		m.allDuration += s.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	m.allWPM, _, m.allAcc = statsPkg.SessionMetrics(m.allCorrect, m.allIncorrect, m.allDuration)
}

func (m *Model) renderFooter(snap race.Snapshot) string {
	segments := []string{
		fmt.Sprintf("Progress %d%%", int(m.runProgress(snap))),
		fmt.Sprintf("Now %.1f WPM · %.1f%%", snap.WPM, snap.Accuracy),
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc))
	if len(snap.NextExpectedChars) > 0 && m.rejected {
		segments = append(segments, "Next "+strings.Join(snap.NextExpectedChars, "/"))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) prepare(e wordlist.Entry) race.Target {
	if m.deps.Reader == nil {
		text := e.Reading
		if text == "" {
			text = e.Surface
		}
		return race.Target{Surface: e.Surface, Text: text}
	}
	t := m.deps.Reader.PrepareWithReading(e.Surface, e.Reading)
	return race.Target{Surface: e.Surface, Text: t.Reading}
}

// canonicalRomaji is what weak-key focus weighs entries by.
func (m *Model) canonicalRomaji(e wordlist.Entry) string {
	return m.deps.Matcher.Table().Romanize(m.prepare(e).Text, romaji.Hepburn)
}

func (m *Model) nextRace() {
	m.input = nil
	m.rejected = false
	m.results.SetRows(nil)

	if m.config.Mode == model.ModeSentence {
		text := m.deps.Generator.Sentence(m.deps.Sentences, m.config.Difficulty)
		if text == "" {
			m.racer = nil
			return
		}
		m.racer = race.NewSession(m.prepare(wordlist.Entry{Surface: text}), m.deps.Matcher, nil)
		return
	}

	var entries []wordlist.Entry
	if m.config.FocusWeak && len(m.weakSet) > 0 {
		entries = m.deps.Generator.GenerateWeighted(m.deps.Entries, m.config.Words, m.config.CapsPct, m.config.PunctPct, m.deps.PunctSet, m.canonicalRomaji, m.weakSet, m.config.WeakFactor)
	} else {
		entries = m.deps.Generator.Generate(m.deps.Entries, m.config.Words, m.config.CapsPct, m.config.PunctPct, m.deps.PunctSet)
	}
	if len(entries) == 0 {
		m.racer = nil
		return
	}
	targets := make([]race.Target, 0, len(entries))
	for _, e := range entries {
		targets = append(targets, m.prepare(e))
	}
	m.racer = race.NewWordRun(targets, m.deps.Matcher, nil)
}

func (m *Model) finishRace() {
	rec := m.racer.Record()
	rec.Lang = m.config.Lang
	rec.Style = m.deps.Matcher.Style().String()
	rec.Strict = m.deps.Matcher.Mode() == romaji.Strict
	rec.WordListPath = m.deps.WordListPath

	var words []model.WordStats
	if run, ok := m.racer.(*race.WordRun); ok {
		words = run.Completed()
	}

	if m.deps.Store != nil {
		ctx := context.Background()
		if _, err := m.deps.Store.InsertSession(ctx, rec, words, m.racer.KeyStats()); err != nil {
			m.log.Error().Err(err).Str("session", rec.UUID).Msg("failed to save session")
		}
	}
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(rec.CorrectKeystrokes, rec.ErrorCount, rec.DurationMs)
	m.hasLast = true
	m.allCorrect += rec.CorrectKeystrokes
	m.allIncorrect += rec.ErrorCount
	m.allDuration += rec.DurationMs
	m.recomputeAllTime()
	m.log.Info().Str("session", rec.UUID).Float64("wpm", m.lastWPM).Float64("accuracy", m.lastAcc).Msg("race finished")

	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	if m.deps.Store == nil {
		return
	}
	ctx := context.Background()
	aggs, err := m.deps.Store.GetWeakKeys(ctx, m.config.WeakWindow, m.config.Lang)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load weak keys")
		return
	}
	if len(aggs) == 0 {
		if !m.weakNoticed {
			m.log.Info().Msg("no stats available for weak-key focus yet; using normal generator")
			m.weakNoticed = true
		}
		m.weakSet = map[rune]struct{}{}
		return
	}
	m.weakSet = statsPkg.SelectWeakKeys(aggs, m.config.WeakTop, weakMinSamples)
}
