package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cellWidth is the terminal width of one question position. Narrow input
// such as ASCII is padded so the answer row stays aligned under the question.
const cellWidth = 2

type answer struct {
	typed   rune
	correct bool
	set     bool
}

type styledRune struct {
	s     string
	width int
}

func newStyledRune(r rune, style lipgloss.Style) styledRune {
	text := runewidth.FillRight(string(r), cellWidth)
	return styledRune{s: style.Render(text), width: runewidth.StringWidth(text)}
}

// buildQuestionRunes styles the question: answered positions take the answer
// colour and the cursor position is underlined.
func buildQuestionRunes(question []rune, answers []answer, cursorIndex int) []styledRune {
	out := make([]styledRune, 0, len(question))
	for i, r := range question {
		style := pendingStyle
		if i < len(answers) && answers[i].set {
			if answers[i].correct {
				style = correctStyle
			} else {
				style = incorrectStyle
			}
		}
		if i == cursorIndex {
			style = cursorStyle
		}
		out = append(out, newStyledRune(r, style))
	}
	return out
}

// buildAnswerRunes styles the typed characters. Mismatches are reversed.
func buildAnswerRunes(answers []answer) []styledRune {
	out := make([]styledRune, 0, len(answers))
	for _, a := range answers {
		if !a.set {
			break
		}
		style := correctStyle
		if !a.correct {
			style = mismatchStyle
		}
		out = append(out, newStyledRune(a.typed, style))
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks runes into lines no wider than width. Kana carry no
// word boundaries, so lines break at any cell.
func wrapStyledRunes(runes []styledRune, width int) []string {
	if width <= 0 {
		return []string{renderStyledRunes(runes)}
	}
	var lines []string
	start, lineWidth := 0, 0
	for i, item := range runes {
		if lineWidth+item.width > width && i > start {
			lines = append(lines, renderStyledRunes(runes[start:i]))
			start, lineWidth = i, 0
		}
		lineWidth += item.width
	}
	return append(lines, renderStyledRunes(runes[start:]))
}
