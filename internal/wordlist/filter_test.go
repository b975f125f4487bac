package wordlist

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter(Entry{Surface: "hello"}) {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op"} {
		if filter(Entry{Surface: word}) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterJapanese(t *testing.T) {
	filter := FilterForLang("ja-easy")
	for _, e := range []Entry{
		{Surface: "すし"},
		{Surface: "コーヒー"},
		{Surface: "学校", Reading: "がっこう"},
		{Surface: "日本"},
	} {
		if !filter(e) {
			t.Fatalf("expected %q to pass japanese filter", e.Surface)
		}
	}
	for _, e := range []Entry{{Surface: "sushi"}, {Surface: "すし!"}, {Surface: ""}} {
		if filter(e) {
			t.Fatalf("expected %q to be rejected", e.Surface)
		}
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	got := Filter([]Entry{{Surface: "b"}, {Surface: "B"}, {Surface: "a"}}, FilterForLang("en"))
	if len(got) != 2 || got[0].Surface != "b" || got[1].Surface != "a" {
		t.Fatalf("unexpected filter result: %v", got)
	}
}
