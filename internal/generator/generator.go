// Package generator builds practice questions.
package generator

import (
	"errors"
	"math/rand"
	"time"

	"github.com/verte-zerg/kanatype/internal/charset"
	"github.com/verte-zerg/kanatype/internal/wordlist"
)

// ErrNoEligibleWords is returned when no word consists solely of candidates.
var ErrNoEligibleWords = errors.New("no eligible words for the selected characters")

// Source is the random capability generators draw from. *rand.Rand
// satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// NewSource returns a seeded Source. A zero seed uses the current time.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Random samples fixed-length questions from a candidate set.
type Random struct {
	set     charset.Set
	length  int
	rnd     Source
	weights []float64
	total   float64
}

// NewRandom returns a generator producing questions of length characters.
// Lengths below one are raised to one.
func NewRandom(set charset.Set, length int, rnd Source) (*Random, error) {
	if set.Len() == 0 {
		return nil, charset.ErrEmpty
	}
	if length < 1 {
		length = 1
	}
	return &Random{set: set, length: length, rnd: rnd}, nil
}

// SetWeakChars biases sampling toward the given characters. Each weak
// candidate weighs 1+factor, every other candidate weighs 1. An empty set or
// non-positive factor restores uniform sampling.
func (g *Random) SetWeakChars(weak map[rune]struct{}, factor float64) {
	g.weights = nil
	g.total = 0
	if len(weak) == 0 || factor <= 0 {
		return
	}
	weights := make([]float64, g.set.Len())
	total := 0.0
	hit := false
	for i := range weights {
		w := 1.0
		if _, ok := weak[g.set.At(i)]; ok {
			w += factor
			hit = true
		}
		weights[i] = w
		total += w
	}
	if !hit {
		return
	}
	g.weights = weights
	g.total = total
}

// Next returns a new question.
func (g *Random) Next() ([]rune, error) {
	q := make([]rune, g.length)
	for i := range q {
		q[i] = g.set.At(g.pick())
	}
	return q, nil
}

func (g *Random) pick() int {
	if g.weights == nil {
		return g.rnd.Intn(g.set.Len())
	}
	r := g.rnd.Float64() * g.total
	acc := 0.0
	for j, w := range g.weights {
		acc += w
		if r < acc {
			return j
		}
	}
	return len(g.weights) - 1
}

// Words picks whole words made only of candidate characters.
type Words struct {
	words []string
	rnd   Source
}

// NewWords filters words down to those spelled with set and returns a
// generator over them.
func NewWords(words []string, set charset.Set, rnd Source) (*Words, error) {
	eligible := wordlist.Filter(words, wordlist.FilterForAlphabet(set))
	if len(eligible) == 0 {
		return nil, ErrNoEligibleWords
	}
	return &Words{words: eligible, rnd: rnd}, nil
}

// Len returns the number of eligible words.
func (g *Words) Len() int {
	return len(g.words)
}

// Next returns a uniformly chosen word.
func (g *Words) Next() ([]rune, error) {
	return []rune(g.words[g.rnd.Intn(len(g.words))]), nil
}
