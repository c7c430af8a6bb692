package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/kanatype/internal/layout"
)

type column struct {
	title string
	right bool
}

// formatTable lays rows out under cols. Widths are terminal cells, so kana
// take two.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinCells(cols, widths, titles))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		var v string
		if i < len(row) {
			v = row[i]
		}
		if c.right {
			cells[i] = runewidth.FillLeft(v, widths[i])
		} else {
			cells[i] = runewidth.FillRight(v, widths[i])
		}
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

// KeyLabel names the key that produces ch on the built-in layout as
// row/hand/shift initials, e.g. "M/L/cross". Unknown characters give "-".
func KeyLabel(ch string) string {
	runes := []rune(ch)
	if len(runes) != 1 {
		return "-"
	}
	pos, ok := layout.Default().Lookup(runes[0])
	if !ok {
		return "-"
	}
	return strings.ToUpper(pos.Row.String()[:1]) + "/" +
		strings.ToUpper(pos.Hand.String()[:1]) + "/" + pos.Shift.String()
}
