package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/verte-zerg/kanatype/internal/model"
)

const (
	recordTimeLayout = "2006-01-02 15:04:05.000000"
	fileTimeLayout   = "2006-01-02_15-04-05"
)

// CharRecord is the JSON form of a character's stats.
type CharRecord struct {
	Occur   int     `json:"occur"`
	Missed  int     `json:"missed"`
	Elapsed float64 `json:"elapsed"`
}

// StepsRecord lists the practiced rows.
type StepsRecord struct {
	Upper  bool `json:"upper"`
	Middle bool `json:"middle"`
	Lower  bool `json:"lower"`
}

// ShiftsRecord lists the practiced shift levels. None is absent from older
// result files, where unshifted keys were always practiced.
type ShiftsRecord struct {
	Normal bool  `json:"normal"`
	Cross  bool  `json:"cross"`
	None   *bool `json:"none,omitempty"`
}

// ConditionsRecord is the JSON form of the practice selection.
type ConditionsRecord struct {
	Steps    StepsRecord  `json:"steps"`
	Shifts   ShiftsRecord `json:"shifts"`
	Hands    string       `json:"hands,omitempty"`
	WordMode bool         `json:"word_mode,omitempty"`
}

func newConditionsRecord(c model.Conditions) ConditionsRecord {
	none := c.NoShift
	return ConditionsRecord{
		Steps:    StepsRecord{Upper: c.Upper, Middle: c.Middle, Lower: c.Lower},
		Shifts:   ShiftsRecord{Normal: c.NormalShift, Cross: c.CrossShift, None: &none},
		Hands:    c.Hands,
		WordMode: c.WordMode,
	}
}

// Conditions converts the record back, treating a missing shifts.none as
// true.
func (r ConditionsRecord) Conditions() model.Conditions {
	noShift := true
	if r.Shifts.None != nil {
		noShift = *r.Shifts.None
	}
	return model.Conditions{
		Upper:       r.Steps.Upper,
		Middle:      r.Steps.Middle,
		Lower:       r.Steps.Lower,
		Hands:       r.Hands,
		NoShift:     noShift,
		NormalShift: r.Shifts.Normal,
		CrossShift:  r.Shifts.Cross,
		WordMode:    r.WordMode,
	}
}

// Record is the JSON form of a session result. Durations are seconds.
type Record struct {
	ID         string                `json:"id"`
	CharStats  map[string]CharRecord `json:"char_stats"`
	Elapsed    float64               `json:"elapsed"`
	Count      int                   `json:"count"`
	Missed     int                   `json:"missed"`
	Started    string                `json:"started"`
	Ended      string                `json:"ended"`
	Conditions ConditionsRecord      `json:"conditions"`
}

// NewRecord converts a session result to its JSON form.
func NewRecord(res model.SessionResult) Record {
	chars := make(map[string]CharRecord, len(res.CharStats))
	for ch, st := range res.CharStats {
		chars[string(ch)] = CharRecord{
			Occur:   st.Occurrences,
			Missed:  st.Misses,
			Elapsed: st.Elapsed.Seconds(),
		}
	}
	return Record{
		ID:         res.ID,
		CharStats:  chars,
		Elapsed:    res.Elapsed.Seconds(),
		Count:      res.Count,
		Missed:     res.Missed,
		Started:    res.StartedAt.Format(recordTimeLayout),
		Ended:      res.EndedAt.Format(recordTimeLayout),
		Conditions: newConditionsRecord(res.Conditions),
	}
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res model.SessionResult) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(NewRecord(res))
}

// JSONDir writes one JSON file per session into a directory, named after
// the session end time.
type JSONDir struct {
	Dir string
}

// Path returns the file res is written to.
func (d JSONDir) Path(res model.SessionResult) string {
	return filepath.Join(d.Dir, res.EndedAt.Format(fileTimeLayout)+".json")
}

// Save implements Sink.
func (d JSONDir) Save(_ context.Context, res model.SessionResult) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}
	path := d.Path(res)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}
	if err := WriteJSON(file, res); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write result file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close result file: %w", err)
	}
	return nil
}
