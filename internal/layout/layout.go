// Package layout describes the kana keyboard layout being trained.
package layout

import "fmt"

// Row is a physical key row.
type Row int

// Key rows, top to bottom.
const (
	RowUpper Row = iota
	RowMiddle
	RowLower
)

// Rows lists every row in table order.
var Rows = []Row{RowUpper, RowMiddle, RowLower}

func (r Row) String() string {
	switch r {
	case RowUpper:
		return "upper"
	case RowMiddle:
		return "middle"
	case RowLower:
		return "lower"
	default:
		return fmt.Sprintf("row(%d)", int(r))
	}
}

// Hand is one half of the layout.
type Hand int

// Hands.
const (
	HandLeft Hand = iota
	HandRight
)

// Hands lists both hands in table order.
var Hands = []Hand{HandLeft, HandRight}

func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	default:
		return fmt.Sprintf("hand(%d)", int(h))
	}
}

// Shift is the input layer a character lives on.
type Shift int

// Shift levels. Normal shift is reached with the same-hand modifier, cross
// shift with the opposite-hand modifier.
const (
	ShiftNone Shift = iota
	ShiftNormal
	ShiftCross
)

// Shifts lists every shift level in table order.
var Shifts = []Shift{ShiftNone, ShiftNormal, ShiftCross}

func (s Shift) String() string {
	switch s {
	case ShiftNone:
		return "none"
	case ShiftNormal:
		return "normal"
	case ShiftCross:
		return "cross"
	default:
		return fmt.Sprintf("shift(%d)", int(s))
	}
}

// Blank marks an unassigned key in the source table.
const Blank = '　'

// Position locates a character on the layout.
type Position struct {
	Row    Row
	Hand   Hand
	Shift  Shift
	Column int
}

// Layout is an immutable character to position table.
type Layout struct {
	table     [][][][]rune
	positions map[rune]Position
}

// New builds a Layout from a table indexed [row][hand][shift][column].
// Blank cells are skipped. A character registered more than once keeps the
// position visited last in row, hand, shift, column order.
func New(table [][][][]rune) (*Layout, error) {
	if len(table) != len(Rows) {
		return nil, fmt.Errorf("layout table has %d rows, want %d", len(table), len(Rows))
	}
	cp := make([][][][]rune, len(table))
	positions := map[rune]Position{}
	for ri, hands := range table {
		if len(hands) != len(Hands) {
			return nil, fmt.Errorf("layout row %d has %d hands, want %d", ri, len(hands), len(Hands))
		}
		cp[ri] = make([][][]rune, len(hands))
		for hi, shifts := range hands {
			if len(shifts) != len(Shifts) {
				return nil, fmt.Errorf("layout row %d hand %d has %d shift levels, want %d", ri, hi, len(shifts), len(Shifts))
			}
			cp[ri][hi] = make([][]rune, len(shifts))
			for si, cols := range shifts {
				cp[ri][hi][si] = append([]rune(nil), cols...)
				for ci, r := range cols {
					if r == Blank {
						continue
					}
					positions[r] = Position{Row: Row(ri), Hand: Hand(hi), Shift: Shift(si), Column: ci}
				}
			}
		}
	}
	return &Layout{table: cp, positions: positions}, nil
}

// Lookup returns the position of r.
func (l *Layout) Lookup(r rune) (Position, bool) {
	pos, ok := l.positions[r]
	return pos, ok
}

// Key returns the character at a cell. Blank and out-of-range cells report false.
func (l *Layout) Key(row Row, hand Hand, shift Shift, col int) (rune, bool) {
	cols := l.cell(row, hand, shift)
	if col < 0 || col >= len(cols) {
		return 0, false
	}
	if cols[col] == Blank {
		return 0, false
	}
	return cols[col], true
}

// Keys returns the non-blank characters of a cell in column order.
func (l *Layout) Keys(row Row, hand Hand, shift Shift) []rune {
	cols := l.cell(row, hand, shift)
	out := make([]rune, 0, len(cols))
	for _, r := range cols {
		if r != Blank {
			out = append(out, r)
		}
	}
	return out
}

// Columns returns the widest column count of a row half across shift levels.
func (l *Layout) Columns(row Row, hand Hand) int {
	n := 0
	for _, s := range Shifts {
		if c := len(l.cell(row, hand, s)); c > n {
			n = c
		}
	}
	return n
}

func (l *Layout) cell(row Row, hand Hand, shift Shift) []rune {
	if int(row) < 0 || int(row) >= len(l.table) {
		return nil
	}
	hands := l.table[row]
	if int(hand) < 0 || int(hand) >= len(hands) {
		return nil
	}
	shifts := hands[hand]
	if int(shift) < 0 || int(shift) >= len(shifts) {
		return nil
	}
	return shifts[shift]
}
