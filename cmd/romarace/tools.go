package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/width"

	"github.com/verte-zerg/romarace/internal/race"
	"github.com/verte-zerg/romarace/internal/reading"
	"github.com/verte-zerg/romarace/internal/romaji"
)

var tableKana bool

func newRomanizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "romanize <text>...",
		Short: "Print the romaji spelling of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRomanizeCmd,
	}
	addEngineFlags(cmd)
	return cmd
}

func runRomanizeCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	matcher, err := newMatcher(practiceTable, practiceStyle, false)
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")
	target, err := prepareTarget(text)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), matcher.Romanize(target.Text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <target> <input>",
		Short: "Validate typed romaji against a target and print the snapshot as JSON",
		Args:  cobra.ExactArgs(2),
		RunE:  runCheckCmd,
	}
	addEngineFlags(cmd)
	cmd.Flags().BoolVar(&practiceStrict, "strict", false, "accept only the preferred spelling of each kana")
	return cmd
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	matcher, err := newMatcher(practiceTable, practiceStyle, practiceStrict)
	if err != nil {
		return err
	}
	target, err := prepareTarget(args[0])
	if err != nil {
		return err
	}
	snap := checkInput(matcher, target, args[1])
	return writeJSON(cmd.OutOrStdout(), snap)
}

// checkInput replays input one keystroke at a time so the counters match a
// live race.
func checkInput(matcher *romaji.Matcher, target race.Target, input string) race.Snapshot {
	s := race.NewSession(target, matcher, nil)
	snap := s.Snapshot()
	runes := []rune(input)
	for i := range runes {
		snap = s.Keystroke(string(runes[:i+1]))
	}
	return snap
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "List the effective romaji pattern table",
		Args:  cobra.NoArgs,
		RunE:  runTableCmd,
	}
	addEngineFlags(cmd)
	cmd.Flags().BoolVar(&tableKana, "hiragana", false, "list hiragana entries only")
	return cmd
}

func runTableCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	table, err := romaji.LoadTable(practiceTable)
	if err != nil {
		return fmt.Errorf("failed to load pattern table: %w", err)
	}
	return writeTable(cmd.OutOrStdout(), table, tableKana)
}

func writeTable(w io.Writer, table *romaji.Table, hiraganaOnly bool) error {
	for _, key := range table.Keys() {
		if hiraganaOnly && romaji.ToHiragana(key) != key {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", key, strings.Join(table.Patterns(key), " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// prepareTarget resolves kanji only when the text has any, so Latin and
// kana targets never load the dictionary.
func prepareTarget(text string) (race.Target, error) {
	if !reading.HasKanji(text) {
		return race.Target{Surface: text, Text: width.Fold.String(text)}, nil
	}
	r, err := reading.Default()
	if err != nil {
		return race.Target{}, err
	}
	t := r.Prepare(text)
	return race.Target{Surface: t.Text, Text: t.Reading}, nil
}
