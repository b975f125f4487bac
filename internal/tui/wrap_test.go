package tui

import (
	"testing"

	"github.com/verte-zerg/romarace/internal/romaji"
)

func plain(text string) []styledRune {
	out := []styledRune{}
	for _, r := range text {
		w := 1
		if r >= 0x3000 {
			w = 2
		}
		out = append(out, styledRune{s: string(r), width: w, isSpace: r == ' '})
	}
	return out
}

func TestBuildStyledRunesCursor(t *testing.T) {
	display := []rune("shi")
	runes := buildStyledRunes(display, romaji.Statuses("shi", 1, 1))
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("s") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != cursorStyle.Render("h") {
		t.Fatalf("expected cursor style for second rune")
	}
	if runes[2].s != currentWordStyle.Render("i") {
		t.Fatalf("expected current word style for pending rune")
	}
}

func TestBuildStyledRunesComplete(t *testing.T) {
	runes := buildStyledRunes([]rune("ka"), romaji.Statuses("ka", 2, 2))
	for i, r := range runes {
		if r.s != correctStyle.Render(string("ka"[i])) {
			t.Fatalf("expected correct style for rune %d", i)
		}
	}
}

func TestBuildStyledRunesRejectedKey(t *testing.T) {
	runes := buildStyledRunes([]rune("ka"), romaji.Statuses("ka", 1, 2))
	if runes[1].s != incorrectStyle.Render("a") {
		t.Fatalf("expected incorrect style at the diverged rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	runes := buildStyledRunes([]rune("one two"), romaji.Statuses("one two", 1, 1))
	if runes[0].s != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	runes := buildStyledRunes([]rune("a b"), romaji.Statuses("a b", 1, 2))
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
}

func TestWrapStyledRunesAtSpace(t *testing.T) {
	got := wrapStyledRunes(plain("ab cd"), 4)
	if got != "ab\ncd" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapStyledRunesWide(t *testing.T) {
	got := wrapStyledRunes(plain("かなかな"), 5)
	if got != "かな\nかな" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapStyledRunesNoWidth(t *testing.T) {
	got := wrapStyledRunes(plain("abc def"), 0)
	if got != "abc def" {
		t.Fatalf("unexpected render: %q", got)
	}
}
