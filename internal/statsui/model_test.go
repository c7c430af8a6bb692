package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kanatype/internal/model"
)

type fakeSource struct {
	sessions []model.SessionAggregate
	aggs     []model.CharAggregate
	err      error
	lastCfg  model.StatsConfig
}

func (f *fakeSource) ListSessions(_ context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	f.lastCfg = cfg
	return f.sessions, f.err
}

func (f *fakeSource) ListCharAggregatesForSessions(context.Context, []int64) ([]model.CharAggregate, error) {
	return f.aggs, nil
}

func (f *fakeSource) ListCharStatsForSessions(_ context.Context, ids []int64, chars []string) (map[int64]map[string]model.CharAggregate, error) {
	out := map[int64]map[string]model.CharAggregate{}
	for _, id := range ids {
		out[id] = map[string]model.CharAggregate{}
		for _, agg := range f.aggs {
			for _, ch := range chars {
				if agg.Char == ch {
					out[id][ch] = agg
				}
			}
		}
	}
	return out, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		sessions: []model.SessionAggregate{
			{SessionID: 1, Count: 30, Missed: 3, ElapsedMs: 60000},
			{SessionID: 2, Count: 60, Missed: 0, ElapsedMs: 60000},
		},
		aggs: []model.CharAggregate{
			{Char: "こ", Occur: 50, Missed: 1, ElapsedMs: 25000},
			{Char: "た", Occur: 40, Missed: 2, ElapsedMs: 30000},
		},
	}
}

func resize(m *Model) {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
}

func TestOverviewShowsCards(t *testing.T) {
	m := NewModel(newFakeSource(), model.StatsConfig{CurveWindow: 1})
	resize(m)
	view := m.View()
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "Sessions")
	assert.Contains(t, view, "Best CPM")
	assert.Len(t, strings.Split(view, "\n"), 30)
}

func TestTabNavigationWraps(t *testing.T) {
	m := NewModel(newFakeSource(), model.StatsConfig{CurveWindow: 1})
	resize(m)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabCharCurves, m.activeTab)
	assert.Contains(t, m.View(), "Chars: こ, た")
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabOverview, m.activeTab)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), "Accuracy")
}

func TestCurveWindowKeys(t *testing.T) {
	src := newFakeSource()
	m := NewModel(src, model.StatsConfig{CurveWindow: 1})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'='}})
	assert.Equal(t, 5, m.cfg.CurveWindow)
	assert.Equal(t, 5, src.lastCfg.CurveWindow)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	assert.Equal(t, 1, m.cfg.CurveWindow)
}

func TestCharInputUpdatesSelection(t *testing.T) {
	m := NewModel(newFakeSource(), model.StatsConfig{CurveWindow: 1})
	resize(m)
	m.activeTab = tabCharCurves
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.charInputMode)
	m.charInput.SetValue("た, こ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.charInputMode)
	assert.Equal(t, "たこ", m.cfg.Chars)
	assert.Equal(t, []string{"た", "こ"}, m.report.CurveChars)
}

func TestLoadErrorShownInFooter(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("db locked")
	m := NewModel(src, model.StatsConfig{})
	resize(m)
	assert.Contains(t, m.View(), "db locked")
}

func TestParseFilter(t *testing.T) {
	cfg, err := parseFilter(model.StatsConfig{CurveWindow: 3}, "2024-05-01", "10", "")
	require.NoError(t, err)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, 10, cfg.Last)
	assert.Equal(t, 3, cfg.CurveWindow)

	_, err = parseFilter(model.StatsConfig{}, "yesterday", "", "")
	assert.Error(t, err)
	_, err = parseFilter(model.StatsConfig{}, "", "-1", "")
	assert.Error(t, err)
	_, err = parseFilter(model.StatsConfig{}, "", "", "0")
	assert.Error(t, err)
}

func TestCurveWindowSteps(t *testing.T) {
	assert.Equal(t, 5, nextCurveWindow(1))
	assert.Equal(t, 10, nextCurveWindow(5))
	assert.Equal(t, 10, nextCurveWindow(7))
	assert.Equal(t, 1, prevCurveWindow(5))
	assert.Equal(t, 5, prevCurveWindow(7))
}
