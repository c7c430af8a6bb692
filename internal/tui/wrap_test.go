package tui

import (
	"strings"
	"testing"
)

func TestBuildQuestionRunesCursor(t *testing.T) {
	question := []rune("こた")
	answers := []answer{{typed: 'こ', correct: true, set: true}, {}}

	runes := buildQuestionRunes(question, answers, 1)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("こ") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != cursorStyle.Render("た") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildQuestionRunesMarksMismatch(t *testing.T) {
	question := []rune("こた")
	answers := []answer{{typed: 'x', correct: false, set: true}, {}}

	runes := buildQuestionRunes(question, answers, -1)
	if runes[0].s != incorrectStyle.Render("こ") {
		t.Fatalf("expected incorrect style for first rune")
	}
	if runes[1].s != pendingStyle.Render("た") {
		t.Fatalf("expected pending style for second rune")
	}
}

func TestBuildAnswerRunesPadsNarrowInput(t *testing.T) {
	answers := []answer{
		{typed: 'こ', correct: true, set: true},
		{typed: 'x', correct: false, set: true},
		{},
	}
	runes := buildAnswerRunes(answers)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[1].width != cellWidth {
		t.Fatalf("expected padded width %d, got %d", cellWidth, runes[1].width)
	}
	if runes[1].s != mismatchStyle.Render("x ") {
		t.Fatalf("expected mismatch style for padded rune, got %q", runes[1].s)
	}
}

func TestWrapStyledRunesBreaksAtWidth(t *testing.T) {
	runes := buildQuestionRunes([]rune("こたかるは"), nil, -1)
	lines := wrapStyledRunes(runes, 4)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if got := strings.Join(lines, "|"); got != "こた|かる|は" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapStyledRunesKeepsOversizedCell(t *testing.T) {
	lines := wrapStyledRunes(buildQuestionRunes([]rune("こた"), nil, -1), 1)
	if len(lines) != 2 {
		t.Fatalf("expected one cell per line, got %q", lines)
	}
}
