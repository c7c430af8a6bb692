// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kanatype/internal/layout"
	"github.com/verte-zerg/kanatype/internal/logging"
	"github.com/verte-zerg/kanatype/internal/session"
)

const flashDuration = 120 * time.Millisecond

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mismatchStyle  = incorrectStyle.Reverse(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Underline(true)
	statsStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0"))
	alertStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type flashDoneMsg struct{}

// Options configures the practice screen.
type Options struct {
	Layout  *layout.Layout
	Diagram DiagramOptions
	Logger  *slog.Logger
}

// Model implements the Bubble Tea practice UI. It is the session's Renderer:
// the controller calls the Draw methods and View paints the recorded state.
type Model struct {
	layout *layout.Layout
	opts   DiagramOptions
	log    *slog.Logger
	ctrl   *session.Controller

	width  int
	height int

	question  []rune
	answers   []answer
	pace      float64
	missed    int
	target    rune
	shift     layout.Shift
	highlight *layout.Position
	flash     bool

	err error
}

var _ session.Renderer = (*Model)(nil)

// NewModel constructs a practice screen. Attach a controller before running;
// the session starts once the first frame can be painted.
func NewModel(opts Options) *Model {
	if opts.Layout == nil {
		opts.Layout = layout.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Model{layout: opts.Layout, opts: opts.Diagram, log: opts.Logger}
}

// Attach binds the controller that receives key events.
func (m *Model) Attach(ctrl *session.Controller) {
	m.ctrl = ctrl
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// DrawQuestionRow implements session.Renderer.
func (m *Model) DrawQuestionRow(chars []rune) {
	m.question = append(m.question[:0], chars...)
	m.answers = make([]answer, len(chars))
}

// DrawAnswerCell implements session.Renderer.
func (m *Model) DrawAnswerCell(index int, typed rune, correct bool) {
	if index < 0 {
		return
	}
	for len(m.answers) <= index {
		m.answers = append(m.answers, answer{})
	}
	m.answers[index] = answer{typed: typed, correct: correct, set: true}
}

// DrawLiveStats implements session.Renderer.
func (m *Model) DrawLiveStats(pace float64, missed int) {
	m.pace = pace
	m.missed = missed
}

// DrawLayoutDiagram implements session.Renderer.
func (m *Model) DrawLayoutDiagram(target rune, shift layout.Shift, highlight *layout.Position) {
	m.target = target
	m.shift = shift
	m.highlight = nil
	if highlight != nil {
		pos := *highlight
		m.highlight = &pos
	}
}

// ClearRows implements session.Renderer.
func (m *Model) ClearRows(rows ...int) {
	for _, row := range rows {
		switch row {
		case session.RowQuestion:
			m.question = m.question[:0]
		case session.RowAnswer:
			for i := range m.answers {
				m.answers[i] = answer{}
			}
		}
	}
}

// Alert implements session.Renderer. The terminal flashes the stats line.
func (m *Model) Alert() {
	m.flash = true
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.ctrl != nil && m.ctrl.State() == session.StateInit {
			if err := m.ctrl.Start(); err != nil {
				m.err = err
				m.log.Error("session start failed", "err", err)
				return m, tea.Quit
			}
		}
		return m, nil
	case flashDoneMsg:
		m.flash = false
		return m, nil
	case tea.KeyMsg:
		if m.ctrl == nil || m.ctrl.State() == session.StateInit {
			return m, nil
		}
		for _, ev := range EventsFor(msg) {
			if _, err := m.ctrl.Handle(ev); err != nil {
				m.err = err
				m.log.Error("session aborted", "event", ev.String(), "err", err)
				return m, tea.Quit
			}
			if m.ctrl.State() == session.StateTerminated {
				return m, tea.Quit
			}
		}
		if m.flash {
			return m, tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{} })
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width > 0 && m.height > 0 {
		if err := CheckSize(m.width, m.height); err != nil {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, alertStyle.Render(err.Error()))
		}
	}
	cursor := m.cursor()
	lines := wrapStyledRunes(buildQuestionRunes(m.question, m.answers, cursor), m.width)
	lines = append(lines, wrapStyledRunes(buildAnswerRunes(m.answers), m.width)...)
	lines = append(lines, m.renderStats(), "")
	lines = append(lines, RenderDiagram(m.layout, m.target, m.shift, m.highlight, m.opts))
	lines = append(lines, footerStyle.Render("Ctrl-G: finish"))
	return strings.Join(lines, "\n")
}

func (m *Model) cursor() int {
	for i, a := range m.answers {
		if !a.set {
			return i
		}
	}
	return -1
}

func (m *Model) renderStats() string {
	line := fmt.Sprintf("AVG: %.2f s  MISS: %d", m.pace, m.missed)
	if m.flash {
		return alertStyle.Render(line)
	}
	return statsStyle.Render(line)
}
