// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/kanatype/internal/charset"
)

// Config defines practice settings.
type Config struct {
	Selection charset.Selection

	WordMode bool
	WordFile string
	// Length is the random question length; zero derives it from the
	// terminal width.
	Length int
	Seed   int64

	Blind     bool
	Highlight bool

	OutputDir string

	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// Conditions records the selection a session was practiced with.
type Conditions struct {
	Upper       bool
	Middle      bool
	Lower       bool
	Hands       string
	NoShift     bool
	NormalShift bool
	CrossShift  bool
	WordMode    bool
}

// ConditionsFor captures the effective selection of cfg.
func ConditionsFor(cfg Config) Conditions {
	sel := cfg.Selection.Effective()
	return Conditions{
		Upper:       sel.Upper,
		Middle:      sel.Middle,
		Lower:       sel.Lower,
		Hands:       string(sel.Hands),
		NoShift:     !sel.DisableNoShift,
		NormalShift: sel.NormalShift,
		CrossShift:  sel.CrossShift,
		WordMode:    cfg.WordMode,
	}
}

// CharStat accumulates results for one character.
type CharStat struct {
	Occurrences int
	Misses      int
	Elapsed     time.Duration
}

// SessionResult is the immutable record of a finished session.
type SessionResult struct {
	ID         string
	CharStats  map[rune]CharStat
	Elapsed    time.Duration
	Count      int
	Missed     int
	StartedAt  time.Time
	EndedAt    time.Time
	Conditions Conditions
}

// Clone returns a deep copy of r.
func (r SessionResult) Clone() SessionResult {
	out := r
	out.CharStats = make(map[rune]CharStat, len(r.CharStats))
	for ch, st := range r.CharStats {
		out.CharStats[ch] = st
	}
	return out
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char      string
	Occur     int
	Missed    int
	ElapsedMs int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID int64
	EndedAt   time.Time
	Count     int
	Missed    int
	ElapsedMs int64
}
