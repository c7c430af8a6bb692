// Package wordlist provides word list filtering helpers.
package wordlist

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// Alphabet is the membership test a word must satisfy rune by rune.
type Alphabet interface {
	Contains(r rune) bool
}

// FilterForAlphabet keeps non-empty words made only of alphabet characters.
func FilterForAlphabet(a Alphabet) FilterFunc {
	return func(word string) bool {
		if word == "" {
			return false
		}
		for _, r := range word {
			if !a.Contains(r) {
				return false
			}
		}
		return true
	}
}

// Filter returns the words accepted by keep, preserving order.
func Filter(words []string, keep FilterFunc) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}
