package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/romarace/internal/config"
	"github.com/verte-zerg/romarace/internal/logging"
	"github.com/verte-zerg/romarace/internal/model"
	"github.com/verte-zerg/romarace/internal/stats"
	"github.com/verte-zerg/romarace/internal/store"
	"github.com/verte-zerg/romarace/internal/wordlist"
)

const (
	defaultStatsWidth = 80
	defaultCurveKeys  = 5
)

var (
	statsLang        string
	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsKeys        string
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# romarace configuration
# Uncomment a value to enable it. ROMARACE_* variables override the file,
# CLI flags override both.

[practice]
# lang = %q          # Word list or sentence set
# mode = %q             # word or sentence
# words = %d              # Words per race in word mode
# difficulty = %q     # easy, medium or hard (sentence mode)
# style = %q        # hepburn, kunrei or nihon
# strict = false          # Accept only the preferred spelling
# caps = %.2f             # Capitalized first letter probability for Latin words (0-1)
# punct = %.2f            # Punctuation probability per Latin word (0-1)
# punct-set = %q      # Punctuation set
# focus-weak = false      # Bias practice toward weak romaji keys
# weak-top = %d            # Number of weak keys to focus on
# weak-factor = %.1f      # Weight factor for weak keys
# weak-window = %d        # Number of recent sessions to compute weak keys
# table = ""              # YAML pattern table overlay

[log]
# level = %q          # debug, info, warn or error
# file = ""               # Log file path
`,
		defaultLang,
		defaultMode,
		defaultWords,
		defaultDifficulty,
		defaultStyle,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		logging.DefaultLevel,
	)
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List word lists and sentence sets",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	user, err := userWordLists(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	return writeLangs(cmd.OutOrStdout(), user)
}

func userWordLists(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(entry.Name(), ".txt"))
	}
	sort.Strings(langs)
	return langs, nil
}

func writeLangs(w io.Writer, user []string) error {
	lines := []string{}
	for _, lang := range wordlist.BuiltinLangs() {
		lines = append(lines, lang+"\tword (built-in)")
	}
	for _, set := range wordlist.SentenceSets() {
		lines = append(lines, set+"\tsentence (built-in)")
	}
	for _, lang := range user {
		lines = append(lines, lang+"\tword (user)")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter: word or sentence")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsKeys, "keys", "", "romaji keys for per-key curves (default: most frequent)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	logger, closeLog, err := cliLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Lang:        statsLang,
		Mode:        statsMode,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Keys:        statsKeys,
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

	return renderStats(cmd.Context(), cmd.OutOrStdout(), st, cfg, terminalWidth())
}

func renderStats(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig, width int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow, width); err != nil {
		return err
	}
	if err := stats.RenderKeyTable(w, report.KeyAggsWindow); err != nil {
		return err
	}

	keys := curveKeys(cfg.Keys, report.KeyAggsWindow)
	if len(keys) > 0 {
		perSession, err := st.ListKeyStatsForSessions(ctx, report.WindowSessionIDs, keys)
		if err != nil {
			return fmt.Errorf("failed to load per-key stats: %w", err)
		}
		windowed := windowSessions(report.Sessions, report.WindowSessionIDs)
		if err := stats.RenderKeyCurves(w, windowed, perSession, keys, cfg.CurveWindow, width); err != nil {
			return err
		}
	}
	return stats.RenderSlowWords(w, report.SlowWords)
}

func curveKeys(flag string, aggs []model.KeyAggregate) []string {
	if flag == "" {
		return stats.TopKeysByFrequency(aggs, defaultCurveKeys)
	}
	keys := []string{}
	seen := map[rune]bool{}
	for _, r := range flag {
		if seen[r] {
			continue
		}
		seen[r] = true
		keys = append(keys, string(r))
	}
	return keys
}

func windowSessions(sessions []model.SessionAggregate, ids []int64) []model.SessionAggregate {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]model.SessionAggregate, 0, len(ids))
	for _, s := range sessions {
		if want[s.SessionID] {
			out = append(out, s)
		}
	}
	return out
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultStatsWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultStatsWidth
	}
	return width
}
