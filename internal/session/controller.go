// Package session runs a practice session: it evaluates keystrokes against
// generated questions, accumulates statistics and drives a Renderer.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/verte-zerg/kanatype/internal/layout"
	"github.com/verte-zerg/kanatype/internal/logging"
	"github.com/verte-zerg/kanatype/internal/model"
)

// Display rows cleared between questions.
const (
	RowQuestion = 0
	RowAnswer   = 1
)

var (
	// ErrNotStarted is returned when events arrive before Start.
	ErrNotStarted = errors.New("session not started")
	// ErrTerminated is returned when events arrive after termination.
	ErrTerminated = errors.New("session terminated")
)

// State is a controller state.
type State int

// Controller states.
const (
	StateInit State = iota
	StateAwaitingInput
	StateEvaluating
	StateQuestionComplete
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateEvaluating:
		return "evaluating"
	case StateQuestionComplete:
		return "question-complete"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// QuestionGenerator produces practice questions.
type QuestionGenerator interface {
	Next() ([]rune, error)
}

// Renderer draws the session. Calls happen synchronously after each
// transition.
type Renderer interface {
	DrawQuestionRow(chars []rune)
	DrawAnswerCell(index int, typed rune, correct bool)
	DrawLiveStats(pace float64, missed int)
	// DrawLayoutDiagram shows the keyboard at shift with target as the
	// current character. highlight is nil when target is not on the layout.
	DrawLayoutDiagram(target rune, shift layout.Shift, highlight *layout.Position)
	ClearRows(rows ...int)
	Alert()
}

// InputSource yields input events. NextEvent blocks until an event is
// available; io.EOF means the source is exhausted.
type InputSource interface {
	NextEvent(ctx context.Context) (Event, error)
}

// Options configures a Controller.
type Options struct {
	Layout     *layout.Layout
	Generator  QuestionGenerator
	Renderer   Renderer
	ID         string
	Conditions model.Conditions
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Controller sequences questions, evaluation and statistics.
type Controller struct {
	layout   *layout.Layout
	gen      QuestionGenerator
	renderer Renderer
	now      func() time.Time
	log      *slog.Logger

	id         string
	conditions model.Conditions

	state  State
	cursor cursor
	stats  *Stats
	result model.SessionResult
}

// NewController validates opts and returns a controller in StateInit.
func NewController(opts Options) (*Controller, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("question generator is required")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if opts.Layout == nil {
		opts.Layout = layout.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Controller{
		layout:     opts.Layout,
		gen:        opts.Generator,
		renderer:   opts.Renderer,
		now:        opts.Now,
		log:        opts.Logger,
		id:         opts.ID,
		conditions: opts.Conditions,
		state:      StateInit,
	}, nil
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Position returns the index of the current character in the question.
func (c *Controller) Position() int { return c.cursor.pos }

// Question returns a copy of the current question.
func (c *Controller) Question() []rune {
	return append([]rune(nil), c.cursor.question...)
}

// Stats returns the live statistics. It is nil before Start.
func (c *Controller) Stats() *Stats { return c.stats }

// Start generates the first question and moves to StateAwaitingInput.
func (c *Controller) Start() error {
	if c.state != StateInit {
		return fmt.Errorf("start in state %s", c.state)
	}
	now := c.now()
	c.stats = NewStats(c.id, c.conditions, now)
	if err := c.nextQuestion(now); err != nil {
		return err
	}
	c.log.Debug("session started", "id", c.id, "question", string(c.cursor.question))
	return nil
}

// Handle evaluates one event and performs the resulting transitions.
func (c *Controller) Handle(ev Event) (Outcome, error) {
	switch c.state {
	case StateInit:
		return OutcomeIgnored, ErrNotStarted
	case StateTerminated:
		return OutcomeIgnored, ErrTerminated
	case StateAwaitingInput:
	default:
		return OutcomeIgnored, fmt.Errorf("event %s in state %s", ev, c.state)
	}

	c.state = StateEvaluating
	now := c.now()
	outcome, expected, elapsed := c.cursor.resolve(ev, now)

	switch outcome {
	case OutcomeIgnored:
		c.state = StateAwaitingInput
		return outcome, nil
	case OutcomeTerminate:
		c.terminate(now)
		return outcome, nil
	}

	c.stats.Record(expected, outcome, elapsed)
	index := c.cursor.pos - 1
	c.renderer.DrawAnswerCell(index, ev.Char, outcome == OutcomeMatch)
	if outcome == OutcomeMismatch {
		c.renderer.Alert()
	}
	c.renderer.DrawLiveStats(c.stats.Pace(), c.stats.Missed())

	if !c.cursor.exhausted() {
		c.state = StateAwaitingInput
		c.drawDiagram()
		return outcome, nil
	}

	c.state = StateQuestionComplete
	if err := c.nextQuestion(now); err != nil {
		c.terminate(now)
		return outcome, err
	}
	return outcome, nil
}

// Run pulls events from src until the session terminates. A closed source or
// cancelled context terminates the session; a context error is returned
// alongside the result.
func (c *Controller) Run(ctx context.Context, src InputSource) (model.SessionResult, error) {
	if c.state == StateInit {
		if err := c.Start(); err != nil {
			return model.SessionResult{}, err
		}
	}
	for c.state != StateTerminated {
		ev, err := src.NextEvent(ctx)
		if err != nil {
			c.terminate(c.now())
			if errors.Is(err, io.EOF) {
				break
			}
			return c.Result(), err
		}
		if _, err := c.Handle(ev); err != nil {
			return c.Result(), err
		}
	}
	return c.Result(), nil
}

// Result returns the final result once terminated, or a provisional
// snapshot while the session is running.
func (c *Controller) Result() model.SessionResult {
	if c.state == StateTerminated {
		return c.result.Clone()
	}
	if c.stats == nil {
		return model.SessionResult{ID: c.id, CharStats: map[rune]model.CharStat{}, Conditions: c.conditions}
	}
	return c.stats.Snapshot(c.now())
}

func (c *Controller) nextQuestion(now time.Time) error {
	q, err := c.gen.Next()
	if err != nil {
		return fmt.Errorf("generate question: %w", err)
	}
	if len(q) == 0 {
		return fmt.Errorf("generate question: empty question")
	}
	c.cursor.reset(q, now)
	c.renderer.ClearRows(RowQuestion, RowAnswer)
	c.renderer.DrawQuestionRow(c.Question())
	c.drawDiagram()
	c.state = StateAwaitingInput
	return nil
}

func (c *Controller) drawDiagram() {
	target := c.cursor.expected()
	pos, ok := c.layout.Lookup(target)
	if !ok {
		c.renderer.DrawLayoutDiagram(target, layout.ShiftNone, nil)
		return
	}
	c.renderer.DrawLayoutDiagram(target, pos.Shift, &pos)
}

func (c *Controller) terminate(now time.Time) {
	if c.state == StateTerminated {
		return
	}
	if c.stats == nil {
		c.stats = NewStats(c.id, c.conditions, now)
	}
	c.result = c.stats.Finalize(now)
	c.state = StateTerminated
	c.log.Debug("session terminated", "id", c.id, "count", c.result.Count, "missed", c.result.Missed)
}
