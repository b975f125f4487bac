// Package main provides the CLI entrypoint for romarace.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/romarace/internal/config"
	"github.com/verte-zerg/romarace/internal/generator"
	"github.com/verte-zerg/romarace/internal/logging"
	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/reading"
	"github.com/verte-zerg/romarace/internal/romaji"
	"github.com/verte-zerg/romarace/internal/stats"
	"github.com/verte-zerg/romarace/internal/store"
	"github.com/verte-zerg/romarace/internal/tui"
	"github.com/verte-zerg/romarace/internal/wordlist"
)

const (
	defaultLang        = "ja-easy"
	defaultMode        = model.ModeWord
	defaultWords       = 10
	defaultDifficulty  = model.DifficultyMedium
	defaultStyle       = "hepburn"
	defaultCaps        = 0.0
	defaultPunct       = 0.0
	defaultWeakTop     = 5
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultWeakSamples = 5
)

const defaultPunctSet = ",.!?"

var (
	practiceLang       string
	practiceMode       string
	practiceWords      int
	practiceDifficulty string
	practiceStyle      string
	practiceStrict     bool
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceTable      string

	logLevel string
	logFile  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "romarace",
		Short:         "Romaji typing race trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "word list or sentence set")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "race mode: word or sentence")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per race in word mode")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "sentence difficulty: easy, medium or hard")
	rootCmd.Flags().BoolVar(&practiceStrict, "strict", false, "accept only the preferred spelling of each kana")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter for Latin words (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per Latin word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak romaji keys")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak keys to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak keys")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak keys")
	addEngineFlags(rootCmd)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default: data dir while racing, stderr otherwise)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newRomanizeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newTableCmd())

	return rootCmd
}

// addEngineFlags registers the flags that shape romaji matching.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceStyle, "style", defaultStyle, "romanization style: hepburn, kunrei or nihon")
	cmd.Flags().StringVar(&practiceTable, "table", "", "YAML pattern table overlay")
}

// loadFileConfig reads .env, the config file and ROMARACE_* variables, then
// lets explicitly set flags win.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.FileConfig{}, err
	}
	fileCfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyStringConfig(cmd, "style", &practiceStyle, fileCfg.Practice.Style)
	applyStringConfig(cmd, "table", &practiceTable, fileCfg.Practice.Table)
	applyBoolConfig(cmd, "strict", &practiceStrict, fileCfg.Practice.Strict)
	return fileCfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		Lang:       practiceLang,
		Mode:       practiceMode,
		Words:      practiceWords,
		Difficulty: practiceDifficulty,
		Style:      practiceStyle,
		Strict:     practiceStrict,
		CapsPct:    practiceCaps,
		PunctPct:   practicePunct,
		PunctSet:   practicePunctSet,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
		TablePath:  practiceTable,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	path := logFile
	if path == "" {
		path = config.DefaultLogPath()
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return err
	}
	defer func() {
		// Best-effort close for the log file.
		_ = f.Close()
	}()
	logger, err := logging.New(f, logLevel)
	if err != nil {
		return err
	}

	matcher, err := newMatcher(cfg.TablePath, cfg.Style, cfg.Strict)
	if err != nil {
		return err
	}

	deps := tui.Deps{
		Generator: generator.New(),
		Matcher:   matcher,
		PunctSet:  []rune(cfg.PunctSet),
		Logger:    logger,
	}
	var texts []string
	if cfg.Mode == model.ModeSentence {
		set := wordlist.SentenceSetFor(cfg.Lang)
		sentences, ok := wordlist.Sentences(set)
		if !ok {
			return fmt.Errorf("unknown sentence set %q", set)
		}
		deps.Sentences = sentences
		texts = sentences
	} else {
		entries, path, err := loadEntries(cfg.Lang)
		if err != nil {
			return err
		}
		deps.Entries = entries
		deps.WordListPath = path
		for _, e := range entries {
			if e.Reading == "" {
				texts = append(texts, e.Surface)
			}
		}
	}
	if needsReader(texts) {
		reader, err := reading.Default()
		if err != nil {
			return err
		}
		deps.Reader = reader
	}

	st, err := store.Open(config.DefaultDBPath(), store.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("failed to close db")
		}
	}()
	deps.Store = st

	if cfg.FocusWeak {
		deps.WeakSet = loadWeakSet(context.Background(), st, cfg, logger)
	}

	logger.Info().Str("lang", cfg.Lang).Str("mode", cfg.Mode).Str("style", matcher.Style().String()).Msg("starting race")
	program := tea.NewProgram(tui.NewModel(cfg, deps), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newMatcher(tablePath, style string, strict bool) (*romaji.Matcher, error) {
	table, err := romaji.LoadTable(tablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern table: %w", err)
	}
	s, err := romaji.ParseStyle(style)
	if err != nil {
		return nil, err
	}
	mode := romaji.Flexible
	if strict {
		mode = romaji.Strict
	}
	return romaji.NewMatcher(table, romaji.WithStyle(s), romaji.WithMode(mode)), nil
}

func loadWeakSet(ctx context.Context, st *store.Store, cfg model.Config, logger zerolog.Logger) map[rune]struct{} {
	aggs, err := st.GetWeakKeys(ctx, cfg.WeakWindow, cfg.Lang)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load weak keys")
		return map[rune]struct{}{}
	}
	weakSet := stats.SelectWeakKeys(aggs, cfg.WeakTop, defaultWeakSamples)
	if len(weakSet) == 0 {
		logger.Info().Msg("no stats available for weak-key focus yet; using normal generator")
	}
	return weakSet
}

// loadEntries prefers a user word list and falls back to the embedded one.
func loadEntries(lang string) ([]wordlist.Entry, string, error) {
	path := config.DefaultWordListPath(lang)
	entries, err := wordlist.LoadEntries(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		builtin, ok := wordlist.Builtin(lang)
		if !ok {
			return nil, "", wordListLoadError(lang, path, err)
		}
		entries, path = builtin, ""
	default:
		return nil, "", wordListLoadError(lang, path, err)
	}
	entries = wordlist.Filter(entries, wordlist.FilterForLang(lang))
	if len(entries) == 0 {
		return nil, "", wordListLoadError(lang, path, wordlist.ErrEmptyWordList)
	}
	return entries, path, nil
}

func needsReader(texts []string) bool {
	for _, t := range texts {
		if reading.HasKanji(t) {
			return true
		}
	}
	return false
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	switch cfg.Mode {
	case model.ModeWord, model.ModeSentence:
	default:
		return fmt.Errorf("--mode must be %q or %q", model.ModeWord, model.ModeSentence)
	}
	switch cfg.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return fmt.Errorf("--difficulty must be easy, medium or hard")
	}
	if _, err := romaji.ParseStyle(cfg.Style); err != nil {
		return fmt.Errorf("--style: %w", err)
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: romarace langs",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

// cliLogger logs to stderr, or to --log-file when set.
func cliLogger(stderr io.Writer) (zerolog.Logger, func(), error) {
	if logFile == "" {
		logger, err := logging.New(stderr, logLevel)
		return logger, func() {}, err
	}
	f, err := logging.OpenFile(logFile)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	logger, err := logging.New(f, logLevel)
	return logger, func() {
		// Best-effort close for the log file.
		_ = f.Close()
	}, err
}
