package session

import (
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
)

// Stats accumulates per-character and session counters.
type Stats struct {
	id         string
	conditions model.Conditions
	startedAt  time.Time

	chars   map[rune]model.CharStat
	count   int
	missed  int
	elapsed time.Duration

	final *model.SessionResult
}

// NewStats returns empty stats for a session started at startedAt.
func NewStats(id string, conditions model.Conditions, startedAt time.Time) *Stats {
	return &Stats{
		id:         id,
		conditions: conditions,
		startedAt:  startedAt,
		chars:      map[rune]model.CharStat{},
	}
}

// Record adds a scored keystroke for r. Unscored outcomes and records after
// Finalize are ignored.
func (s *Stats) Record(r rune, outcome Outcome, elapsed time.Duration) {
	if s.final != nil || !outcome.Scored() {
		return
	}
	entry := s.chars[r]
	entry.Occurrences++
	entry.Elapsed += elapsed
	s.count++
	s.elapsed += elapsed
	if outcome == OutcomeMismatch {
		entry.Misses++
		s.missed++
	}
	s.chars[r] = entry
}

// Count returns the number of scored keystrokes.
func (s *Stats) Count() int { return s.count }

// Missed returns the number of mismatches.
func (s *Stats) Missed() int { return s.missed }

// Pace returns the mean seconds spent per scored character.
func (s *Stats) Pace() float64 {
	if s.count == 0 {
		return 0
	}
	return s.elapsed.Seconds() / float64(s.count)
}

// Snapshot returns the result so far, ending at now. After Finalize it
// returns the frozen result regardless of now.
func (s *Stats) Snapshot(now time.Time) model.SessionResult {
	if s.final != nil {
		return s.final.Clone()
	}
	return s.build(now)
}

// Finalize freezes the result with the given end time. Later calls keep the
// first result.
func (s *Stats) Finalize(endedAt time.Time) model.SessionResult {
	if s.final == nil {
		res := s.build(endedAt)
		s.final = &res
	}
	return s.final.Clone()
}

func (s *Stats) build(endedAt time.Time) model.SessionResult {
	res := model.SessionResult{
		ID:         s.id,
		CharStats:  s.chars,
		Elapsed:    endedAt.Sub(s.startedAt),
		Count:      s.count,
		Missed:     s.missed,
		StartedAt:  s.startedAt,
		EndedAt:    endedAt,
		Conditions: s.conditions,
	}
	return res.Clone()
}
