package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kanatype/internal/layout"
)

// Keyboard geometry: every key is keyWidth x keyHeight cells including its
// border and the two halves are keyGap cells apart.
const (
	keyWidth    = 4
	keyHeight   = 3
	keyGap      = 3
	handColumns = 5
)

var (
	keyStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Width(keyWidth - 2)
	shiftColors = map[layout.Shift]lipgloss.Color{
		layout.ShiftNone:   lipgloss.Color("#F0F0F0"),
		layout.ShiftNormal: lipgloss.Color("#00AFF0"),
		layout.ShiftCross:  lipgloss.Color("#F0AF00"),
	}
)

// DiagramOptions controls how the keyboard diagram is drawn.
type DiagramOptions struct {
	// Blind hides every key label.
	Blind bool
	// Highlight reverses the key of the current character.
	Highlight bool
}

// RenderDiagram draws the layout at the given shift level. target is shown on
// the highlighted key; highlight may be nil.
func RenderDiagram(l *layout.Layout, target rune, shift layout.Shift, highlight *layout.Position, opts DiagramOptions) string {
	color := shiftColors[shift]
	label := lipgloss.NewStyle().Foreground(color)
	rows := make([]string, 0, len(layout.Rows)+1)
	for _, row := range layout.Rows {
		halves := make([]string, 0, len(layout.Hands)+1)
		for _, hand := range layout.Hands {
			keys := make([]string, 0, l.Columns(row, hand))
			for col := 0; col < l.Columns(row, hand); col++ {
				r, ok := l.Key(row, hand, shift, col)
				if !ok || opts.Blind {
					r = layout.Blank
				}
				style := label
				if opts.Highlight && highlight != nil &&
					highlight.Row == row && highlight.Hand == hand && highlight.Column == col {
					style = label.Reverse(true)
					r = target
					if opts.Blind {
						r = layout.Blank
					}
				}
				keys = append(keys, keyStyle.Render(style.Render(string(r))))
			}
			halves = append(halves, lipgloss.JoinHorizontal(lipgloss.Top, keys...))
			if hand == layout.HandLeft {
				halves = append(halves, strings.Repeat(" ", keyGap))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, halves...))
	}
	rows = append(rows, renderShiftKeys(shift, color))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderShiftKeys draws the two thumb shift keys under the inner columns. The
// left key is held for the normal shift and the right key for the cross shift.
func renderShiftKeys(shift layout.Shift, color lipgloss.Color) string {
	key := func(active bool) string {
		face := lipgloss.NewStyle()
		if active {
			face = face.Foreground(color).Reverse(true)
		}
		return keyStyle.Render(face.Render(string(layout.Blank)))
	}
	indent := strings.Repeat(" ", (handColumns-1)*keyWidth)
	gap := strings.Repeat(" ", keyGap)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		indent,
		key(shift == layout.ShiftNormal),
		gap,
		key(shift == layout.ShiftCross),
	)
}
