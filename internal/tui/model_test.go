package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/kanatype/internal/session"
)

type queue struct {
	questions []string
}

func (q *queue) Next() ([]rune, error) {
	next := q.questions[0]
	if len(q.questions) > 1 {
		q.questions = q.questions[1:]
	}
	return []rune(next), nil
}

func newSession(t *testing.T, questions ...string) (*Model, *session.Controller) {
	t.Helper()
	m := NewModel(Options{Diagram: DiagramOptions{Highlight: true}})
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	ctrl, err := session.NewController(session.Options{
		Generator: &queue{questions: questions},
		Renderer:  m,
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	m.Attach(ctrl)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if ctrl.State() != session.StateAwaitingInput {
		t.Fatalf("expected session to start on first frame, got %s", ctrl.State())
	}
	return m, ctrl
}

func TestModelStartsSessionOnFirstFrame(t *testing.T) {
	m := NewModel(Options{})
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	ctrl, err := session.NewController(session.Options{
		Generator: &queue{questions: []string{"こた"}},
		Renderer:  m,
		Now:       func() time.Time { return clock },
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	m.Attach(ctrl)

	_, cmd := m.Update(key('こ'))
	if cmd != nil || ctrl.State() != session.StateInit {
		t.Fatalf("keys before the first frame must be dropped, state %s", ctrl.State())
	}

	clock = clock.Add(5 * time.Second)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if string(m.question) != "こた" {
		t.Fatalf("expected question after first frame, got %q", string(m.question))
	}

	clock = clock.Add(time.Second)
	m.Update(key('こ'))
	res := ctrl.Result()
	if got := res.CharStats['こ'].Elapsed; got != time.Second {
		t.Fatalf("expected elapsed from first frame, got %v", got)
	}
	if !res.StartedAt.Equal(time.Date(2024, 5, 1, 9, 0, 5, 0, time.UTC)) {
		t.Fatalf("unexpected start time %v", res.StartedAt)
	}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if ctrl.Position() != 1 {
		t.Fatalf("resize must not restart the session, position %d", ctrl.Position())
	}
}

func key(r ...rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: r}
}

func TestModelRendersQuestion(t *testing.T) {
	m, _ := newSession(t, "こた")
	if string(m.question) != "こた" {
		t.Fatalf("expected question to be drawn, got %q", string(m.question))
	}
	if m.target != 'こ' || m.highlight == nil {
		t.Fatalf("expected diagram target こ with highlight, got %q %v", m.target, m.highlight)
	}
	view := m.View()
	if !strings.Contains(view, "こ") || !strings.Contains(view, "MISS: 0") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestModelMismatchFlashes(t *testing.T) {
	m, ctrl := newSession(t, "こたか")
	if _, cmd := m.Update(key('こ')); cmd != nil {
		t.Fatalf("expected no command for a match")
	}
	_, cmd := m.Update(key('x'))
	if cmd == nil {
		t.Fatalf("expected flash timer after a mismatch")
	}
	if !m.flash || m.missed != 1 {
		t.Fatalf("expected flash and one miss, got flash=%t missed=%d", m.flash, m.missed)
	}
	if !m.answers[0].correct || m.answers[1].correct || m.answers[1].typed != 'x' {
		t.Fatalf("unexpected answers %+v", m.answers)
	}
	m.Update(flashDoneMsg{})
	if m.flash {
		t.Fatalf("expected flash to clear")
	}
	if ctrl.Position() != 2 || m.target != 'か' {
		t.Fatalf("expected cursor on か, got position %d target %q", ctrl.Position(), m.target)
	}
}

func TestModelCompletesQuestionFromIMECommit(t *testing.T) {
	m, ctrl := newSession(t, "こた", "かる")
	m.Update(key('こ', 'た'))
	if string(m.question) != "かる" {
		t.Fatalf("expected next question, got %q", string(m.question))
	}
	for i, a := range m.answers {
		if a.set {
			t.Fatalf("expected answer %d to be cleared", i)
		}
	}
	if ctrl.Stats().Count() != 2 {
		t.Fatalf("expected 2 counted keys, got %d", ctrl.Stats().Count())
	}
}

func TestModelIgnoresBackspace(t *testing.T) {
	m, ctrl := newSession(t, "こた")
	m.Update(key('こ'))
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if ctrl.Position() != 1 || !m.answers[0].set {
		t.Fatalf("backspace must not move the cursor")
	}
}

func TestModelQuitsOnCtrlG(t *testing.T) {
	m, ctrl := newSession(t, "こた")
	m.Update(key('こ'))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if ctrl.State() != session.StateTerminated {
		t.Fatalf("expected terminated controller, got %s", ctrl.State())
	}
	if res := ctrl.Result(); res.Count != 1 {
		t.Fatalf("expected 1 counted key, got %d", res.Count)
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}
}

func TestModelViewReportsSmallTerminal(t *testing.T) {
	m, _ := newSession(t, "こた")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if !strings.Contains(m.View(), "screen height too small") {
		t.Fatalf("expected size warning:\n%s", m.View())
	}
}
