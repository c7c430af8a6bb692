package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/kanatype/internal/session"
)

// EventsFor translates a key message into session events. An input method
// may commit several characters in one message; each becomes its own event.
func EventsFor(msg tea.KeyMsg) []session.Event {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlG:
		return []session.Event{session.Terminate()}
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		return []session.Event{session.Backspace()}
	case tea.KeySpace:
		return []session.Event{session.Printable(' ')}
	case tea.KeyRunes:
		events := make([]session.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, session.Printable(r))
		}
		return events
	default:
		return []session.Event{session.OtherControl()}
	}
}
