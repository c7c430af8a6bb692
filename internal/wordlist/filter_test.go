package wordlist

import (
	"testing"

	"github.com/verte-zerg/kanatype/internal/charset"
)

func TestFilterForAlphabet(t *testing.T) {
	filter := FilterForAlphabet(charset.Of([]rune("こたかるは")...))
	if !filter("たこ") {
		t.Fatalf("expected たこ to pass filter")
	}
	for _, word := range []string{"", "かに", "たこ焼き", "taco"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	filter := FilterForAlphabet(charset.Of([]rune("こたかるは")...))
	got := Filter([]string{"はる", "なつ", "かたる", "こ"}, filter)
	want := []string{"はる", "かたる", "こ"}
	if len(got) != len(want) {
		t.Fatalf("expected %d words, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %q at %d, got %q", want[i], i, got[i])
		}
	}
}
