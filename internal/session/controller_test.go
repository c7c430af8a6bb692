package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kanatype/internal/layout"
	"github.com/verte-zerg/kanatype/internal/model"
)

type fakeRenderer struct {
	calls    []string
	question []rune
	answers  map[int]bool
	alerts   int
	pace     float64
	missed   int
	targets  []rune
	lastPos  *layout.Position
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{answers: map[int]bool{}}
}

func (r *fakeRenderer) DrawQuestionRow(chars []rune) {
	r.calls = append(r.calls, "question")
	r.question = chars
}

func (r *fakeRenderer) DrawAnswerCell(index int, typed rune, correct bool) {
	r.calls = append(r.calls, fmt.Sprintf("answer %d %c %t", index, typed, correct))
	r.answers[index] = correct
}

func (r *fakeRenderer) DrawLiveStats(pace float64, missed int) {
	r.calls = append(r.calls, "stats")
	r.pace = pace
	r.missed = missed
}

func (r *fakeRenderer) DrawLayoutDiagram(target rune, _ layout.Shift, highlight *layout.Position) {
	r.calls = append(r.calls, "diagram")
	r.targets = append(r.targets, target)
	r.lastPos = highlight
}

func (r *fakeRenderer) ClearRows(rows ...int) {
	r.calls = append(r.calls, fmt.Sprintf("clear %v", rows))
	r.answers = map[int]bool{}
}

func (r *fakeRenderer) Alert() {
	r.calls = append(r.calls, "alert")
	r.alerts++
}

type fixedQuestions struct {
	questions []string
	err       error
}

func (g *fixedQuestions) Next() ([]rune, error) {
	if len(g.questions) == 0 {
		if g.err != nil {
			return nil, g.err
		}
		return nil, errors.New("out of questions")
	}
	q := g.questions[0]
	if len(g.questions) > 1 {
		g.questions = g.questions[1:]
	}
	return []rune(q), nil
}

type scriptedSource struct {
	events []Event
}

func (s *scriptedSource) NextEvent(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	if len(s.events) == 0 {
		return Event{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

// stepClock advances by step on every call.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func newController(t *testing.T, questions ...string) (*Controller, *fakeRenderer) {
	t.Helper()
	r := newFakeRenderer()
	clock := &stepClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), step: time.Second}
	c, err := NewController(Options{
		Generator:  &fixedQuestions{questions: questions},
		Renderer:   r,
		ID:         "test-session",
		Conditions: model.Conditions{Middle: true, Hands: "left", NoShift: true},
		Now:        clock.Now,
	})
	require.NoError(t, err)
	return c, r
}

func TestMatchThenMismatch(t *testing.T) {
	c, r := newController(t, "こた")
	require.NoError(t, c.Start())
	assert.Equal(t, StateAwaitingInput, c.State())

	out, err := c.Handle(Printable('こ'))
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatch, out)
	assert.Equal(t, 1, c.Position())

	out, err = c.Handle(Printable('x'))
	require.NoError(t, err)
	assert.Equal(t, OutcomeMismatch, out)
	assert.Equal(t, 1, r.alerts)

	_, err = c.Handle(Terminate())
	require.NoError(t, err)
	require.Equal(t, StateTerminated, c.State())

	res := c.Result()
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 1, res.Missed)
	assert.Equal(t, model.CharStat{Occurrences: 1, Misses: 0, Elapsed: time.Second}, res.CharStats['こ'])
	assert.Equal(t, model.CharStat{Occurrences: 1, Misses: 1, Elapsed: time.Second}, res.CharStats['た'])
	assert.Equal(t, "test-session", res.ID)
	assert.True(t, res.Conditions.Middle)
}

func TestBackspaceIsIgnored(t *testing.T) {
	c, r := newController(t, "こたか")
	require.NoError(t, c.Start())
	_, err := c.Handle(Printable('こ'))
	require.NoError(t, err)
	before := c.Result()
	callCount := len(r.calls)

	for _, ev := range []Event{Backspace(), OtherControl()} {
		out, err := c.Handle(ev)
		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, out)
		assert.Equal(t, StateAwaitingInput, c.State())
		assert.Equal(t, 1, c.Position())
	}

	after := c.Result()
	assert.Equal(t, before.CharStats, after.CharStats)
	assert.Equal(t, before.Count, after.Count)
	assert.Len(t, r.calls, callCount, "ignored events must not render")
}

func TestTerminateOnFreshQuestion(t *testing.T) {
	c, _ := newController(t, "こた")
	require.NoError(t, c.Start())

	out, err := c.Handle(Terminate())
	require.NoError(t, err)
	assert.Equal(t, OutcomeTerminate, out)
	assert.Equal(t, StateTerminated, c.State())

	res := c.Result()
	assert.Zero(t, res.Count)
	assert.Zero(t, res.Missed)
	assert.Empty(t, res.CharStats)
	assert.False(t, res.StartedAt.IsZero())
	assert.True(t, res.EndedAt.After(res.StartedAt))
}

func TestQuestionCompleteGeneratesNext(t *testing.T) {
	c, r := newController(t, "こた", "かる")
	require.NoError(t, c.Start())

	_, err := c.Handle(Printable('こ'))
	require.NoError(t, err)
	_, err = c.Handle(Printable('た'))
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingInput, c.State())
	assert.Equal(t, 0, c.Position())
	assert.Equal(t, "かる", string(c.Question()))
	assert.Equal(t, "かる", string(r.question))
	assert.Empty(t, r.answers, "answer row cleared for the new question")
	assert.Contains(t, r.calls, fmt.Sprintf("clear %v", []int{RowQuestion, RowAnswer}))
	assert.Equal(t, 'か', r.targets[len(r.targets)-1])
}

func TestRenderOrderForScoredKey(t *testing.T) {
	c, r := newController(t, "こた")
	require.NoError(t, c.Start())
	r.calls = nil

	_, err := c.Handle(Printable('x'))
	require.NoError(t, err)
	assert.Equal(t, []string{"answer 0 x false", "alert", "stats", "diagram"}, r.calls)
	assert.Equal(t, 1, r.missed)
	assert.InDelta(t, 1.0, r.pace, 1e-9)
}

func TestHighlightSkippedForUnknownChar(t *testing.T) {
	c, r := newController(t, "aこ")
	require.NoError(t, c.Start())
	assert.Nil(t, r.lastPos)

	_, err := c.Handle(Printable('a'))
	require.NoError(t, err)
	require.NotNil(t, r.lastPos)
	assert.Equal(t, layout.RowMiddle, r.lastPos.Row)
}

func TestHandleOutsideSession(t *testing.T) {
	c, _ := newController(t, "こ")
	_, err := c.Handle(Printable('こ'))
	assert.True(t, errors.Is(err, ErrNotStarted))

	require.NoError(t, c.Start())
	_, err = c.Handle(Terminate())
	require.NoError(t, err)
	_, err = c.Handle(Printable('こ'))
	assert.True(t, errors.Is(err, ErrTerminated))
	assert.Error(t, c.Start())
}

func TestResultIsIdempotentAfterTermination(t *testing.T) {
	c, _ := newController(t, "こたか")
	require.NoError(t, c.Start())
	_, _ = c.Handle(Printable('こ'))
	_, _ = c.Handle(Terminate())

	first := c.Result()
	first.CharStats['こ'] = model.CharStat{Occurrences: 99}
	second := c.Result()
	third := c.Result()
	assert.Equal(t, second, third)
	assert.Equal(t, 1, second.CharStats['こ'].Occurrences, "returned maps are copies")
}

func TestRunPullsUntilTerminate(t *testing.T) {
	c, _ := newController(t, "こた")
	src := &scriptedSource{events: []Event{
		Printable('こ'), Backspace(), Printable('x'), Printable('こ'), Terminate(), Printable('た'),
	}}

	res, err := c.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 1, res.Missed)
	assert.Equal(t, 2, res.CharStats['こ'].Occurrences)
	assert.Len(t, src.events, 1, "events after terminate are not consumed")
}

func TestRunTreatsEOFAsTerminate(t *testing.T) {
	c, _ := newController(t, "こた")
	res, err := c.Run(context.Background(), &scriptedSource{events: []Event{Printable('こ')}})
	require.NoError(t, err)
	assert.Equal(t, StateTerminated, c.State())
	assert.Equal(t, 1, res.Count)
}

func TestRunReturnsContextError(t *testing.T) {
	c, _ := newController(t, "こた")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := c.Run(ctx, &scriptedSource{events: []Event{Printable('こ')}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateTerminated, c.State())
	assert.Zero(t, res.Count)
}

func TestGeneratorFailureTerminates(t *testing.T) {
	r := newFakeRenderer()
	gen := &fixedQuestions{questions: []string{"こ"}}
	c, err := NewController(Options{Generator: gen, Renderer: r})
	require.NoError(t, err)
	require.NoError(t, c.Start())

	gen.questions = nil
	gen.err = errors.New("boom")
	_, err = c.Handle(Printable('こ'))
	require.Error(t, err)
	assert.Equal(t, StateTerminated, c.State())
	assert.Equal(t, 1, c.Result().Count)
}

func TestNewControllerValidates(t *testing.T) {
	_, err := NewController(Options{Renderer: newFakeRenderer()})
	assert.Error(t, err)
	_, err = NewController(Options{Generator: &fixedQuestions{questions: []string{"こ"}}})
	assert.Error(t, err)
}

func TestMissesNeverExceedOccurrences(t *testing.T) {
	c, _ := newController(t, "こたかるは")
	require.NoError(t, c.Start())
	typed := []rune("こxかyはこたzるは")
	for _, r := range typed {
		_, err := c.Handle(Printable(r))
		require.NoError(t, err)
	}
	res := c.Result()
	assert.Equal(t, len(typed), res.Count)
	for ch, st := range res.CharStats {
		assert.LessOrEqual(t, st.Misses, st.Occurrences, "char %c", ch)
	}
}
