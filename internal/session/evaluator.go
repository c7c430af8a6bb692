package session

import (
	"fmt"
	"time"
)

// EventKind classifies an input event.
type EventKind int

// Input event kinds.
const (
	EventPrintable EventKind = iota
	EventBackspace
	EventTerminate
	EventOtherControl
)

// Event is one keystroke delivered by an InputSource.
type Event struct {
	Kind EventKind
	// Char is set for EventPrintable.
	Char rune
}

// Printable returns a printable-character event.
func Printable(r rune) Event { return Event{Kind: EventPrintable, Char: r} }

// Backspace returns a backspace event.
func Backspace() Event { return Event{Kind: EventBackspace} }

// Terminate returns a terminate event.
func Terminate() Event { return Event{Kind: EventTerminate} }

// OtherControl returns an event for any other control key.
func OtherControl() Event { return Event{Kind: EventOtherControl} }

func (e Event) String() string {
	switch e.Kind {
	case EventPrintable:
		return fmt.Sprintf("printable(%q)", e.Char)
	case EventBackspace:
		return "backspace"
	case EventTerminate:
		return "terminate"
	default:
		return "control"
	}
}

// Outcome is the result of evaluating one event.
type Outcome int

// Outcomes.
const (
	OutcomeIgnored Outcome = iota
	OutcomeMatch
	OutcomeMismatch
	OutcomeTerminate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeTerminate:
		return "terminated"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Scored reports whether the outcome advances the position.
func (o Outcome) Scored() bool {
	return o == OutcomeMatch || o == OutcomeMismatch
}

// Evaluate resolves ev against the expected character.
func Evaluate(expected rune, ev Event) Outcome {
	switch ev.Kind {
	case EventTerminate:
		return OutcomeTerminate
	case EventPrintable:
		if ev.Char == expected {
			return OutcomeMatch
		}
		return OutcomeMismatch
	default:
		return OutcomeIgnored
	}
}

// cursor tracks the position within the current question and when the
// character under it became current.
type cursor struct {
	question []rune
	pos      int
	since    time.Time
}

func (c *cursor) reset(q []rune, now time.Time) {
	c.question = q
	c.pos = 0
	c.since = now
}

func (c *cursor) expected() rune {
	return c.question[c.pos]
}

// resolve evaluates ev at the current position. For scored outcomes it
// returns the time the character was current and advances the position.
func (c *cursor) resolve(ev Event, now time.Time) (Outcome, rune, time.Duration) {
	expected := c.expected()
	outcome := Evaluate(expected, ev)
	if !outcome.Scored() {
		return outcome, expected, 0
	}
	elapsed := now.Sub(c.since)
	if elapsed < 0 {
		elapsed = 0
	}
	c.pos++
	c.since = now
	return outcome, expected, elapsed
}

func (c *cursor) exhausted() bool {
	return c.pos >= len(c.question)
}
