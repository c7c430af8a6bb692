// Package charset derives the practice character set from a selection.
package charset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/kanatype/internal/layout"
)

// ErrEmpty is returned when a selection yields no characters.
var ErrEmpty = errors.New("no characters selected")

// HandSelection picks which halves of the layout are practiced.
type HandSelection string

// Hand selections.
const (
	HandsBoth  HandSelection = "both"
	HandsLeft  HandSelection = "left"
	HandsRight HandSelection = "right"
)

// ParseHands validates a hand selection string.
func ParseHands(v string) (HandSelection, error) {
	switch HandSelection(strings.ToLower(strings.TrimSpace(v))) {
	case HandsBoth:
		return HandsBoth, nil
	case HandsLeft:
		return HandsLeft, nil
	case HandsRight:
		return HandsRight, nil
	default:
		return "", fmt.Errorf("invalid hands %q (want left, right or both)", v)
	}
}

// Hands returns the layout hands covered by the selection.
func (h HandSelection) Hands() []layout.Hand {
	switch h {
	case HandsLeft:
		return []layout.Hand{layout.HandLeft}
	case HandsRight:
		return []layout.Hand{layout.HandRight}
	default:
		return []layout.Hand{layout.HandLeft, layout.HandRight}
	}
}

// Selection describes which rows, hands and shift levels to practice.
type Selection struct {
	Upper  bool
	Middle bool
	Lower  bool

	Hands HandSelection

	// DisableNoShift drops unshifted characters, which are otherwise always
	// included.
	DisableNoShift bool
	NormalShift    bool
	CrossShift     bool

	// AllChars forces both hands and every shift level.
	AllChars bool
}

// Effective returns the selection with AllChars applied.
func (s Selection) Effective() Selection {
	if s.AllChars {
		s.Hands = HandsBoth
		s.NormalShift = true
		s.CrossShift = true
	}
	if s.Hands == "" {
		s.Hands = HandsBoth
	}
	return s
}

// Rows returns the selected rows in table order.
func (s Selection) Rows() []layout.Row {
	var rows []layout.Row
	if s.Upper {
		rows = append(rows, layout.RowUpper)
	}
	if s.Middle {
		rows = append(rows, layout.RowMiddle)
	}
	if s.Lower {
		rows = append(rows, layout.RowLower)
	}
	return rows
}

// Shifts returns the selected shift levels in table order.
func (s Selection) Shifts() []layout.Shift {
	var shifts []layout.Shift
	if !s.DisableNoShift {
		shifts = append(shifts, layout.ShiftNone)
	}
	if s.NormalShift {
		shifts = append(shifts, layout.ShiftNormal)
	}
	if s.CrossShift {
		shifts = append(shifts, layout.ShiftCross)
	}
	return shifts
}

// Set is an ordered set of practice characters.
type Set struct {
	chars   []rune
	members map[rune]struct{}
}

// Build unions the non-blank characters of every selected hand, row and
// shift level.
func Build(l *layout.Layout, sel Selection) (Set, error) {
	sel = sel.Effective()
	set := Set{members: map[rune]struct{}{}}
	for _, h := range sel.Hands.Hands() {
		for _, row := range sel.Rows() {
			for _, shift := range sel.Shifts() {
				for _, r := range l.Keys(row, h, shift) {
					set.add(r)
				}
			}
		}
	}
	if set.Len() == 0 {
		return Set{}, ErrEmpty
	}
	return set, nil
}

// Of builds a Set from explicit characters, dropping duplicates.
func Of(chars ...rune) Set {
	set := Set{members: map[rune]struct{}{}}
	for _, r := range chars {
		set.add(r)
	}
	return set
}

func (s *Set) add(r rune) {
	if _, ok := s.members[r]; ok {
		return
	}
	s.members[r] = struct{}{}
	s.chars = append(s.chars, r)
}

// Contains reports whether r is in the set.
func (s Set) Contains(r rune) bool {
	_, ok := s.members[r]
	return ok
}

// Len returns the number of characters.
func (s Set) Len() int {
	return len(s.chars)
}

// At returns the i-th character in insertion order.
func (s Set) At(i int) rune {
	return s.chars[i]
}

func (s Set) String() string {
	return string(s.chars)
}
