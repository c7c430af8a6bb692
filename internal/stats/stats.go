// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/kanatype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes characters per minute, seconds per character and
// accuracy for a session.
func SessionMetrics(count, missed int, elapsedMs int64) (cpm, pace, accuracy float64) {
	if count > 0 {
		accuracy = float64(count-missed) / float64(count)
	}
	if elapsedMs <= 0 || count <= 0 {
		return 0, 0, accuracy
	}
	seconds := float64(elapsedMs) / 1000.0
	cpm = float64(count) / (seconds / 60.0)
	pace = seconds / float64(count)
	return cpm, pace, accuracy
}

// CharMetrics computes accuracy and mean milliseconds per keystroke.
func CharMetrics(agg model.CharAggregate) (accuracy, avgMs float64) {
	if agg.Occur <= 0 {
		return 1, 0
	}
	accuracy = float64(agg.Occur-agg.Missed) / float64(agg.Occur)
	avgMs = float64(agg.ElapsedMs) / float64(agg.Occur)
	return accuracy, avgMs
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample stretches or averages values to exactly width points.
func Resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	if len(values) >= width {
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	for i := range out {
		out[i] = values[i*len(values)/width]
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// RenderSummary prints a summary table for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalCPM, totalPace, totalAcc float64
	bestCPM := 0.0
	chars := 0
	for _, s := range sessions {
		cpm, pace, acc := SessionMetrics(s.Count, s.Missed, s.ElapsedMs)
		totalCPM += cpm
		totalPace += pace
		totalAcc += acc
		chars += s.Count
		if cpm > bestCPM {
			bestCPM = cpm
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Characters: %d", chars),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/count),
		fmt.Sprintf("Best CPM: %.2f", bestCPM),
		fmt.Sprintf("Avg sec/char: %.2f", totalPace/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Series is a named data series for curve rendering.
type Series struct {
	Name   string
	Values []float64
}

// RenderCurves prints learning curves for CPM and accuracy.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	cpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		cpm, _, acc := SessionMetrics(s.Count, s.Missed, s.ElapsedMs)
		cpms[i] = cpm
		accs[i] = acc * 100
	}
	return renderSeries(w, "Learning Curves", []Series{
		{Name: "CPM", Values: MovingAverage(cpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	}, width)
}

func renderSeries(w io.Writer, title string, series []Series, width int) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	labelWidth := 0
	for _, s := range series {
		if len(s.Name) > labelWidth {
			labelWidth = len(s.Name)
		}
	}
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		values := s.Values
		if width > 0 {
			values = Resample(values, width)
		}
		lo, hi := minMax(s.Values)
		if _, err := fmt.Fprintf(w, "%-*s │%s│ min=%.2f max=%.2f\n", labelWidth, s.Name, Sparkline(values), lo, hi); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}
	headers, rows := CharTableRows(aggs)
	cols := make([]column, len(headers))
	for i, h := range headers {
		cols[i] = column{title: h, right: i >= 2}
	}
	lines := formatTable(cols, rows)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CharTableRows returns headers and formatted rows sorted by lowest accuracy.
// The second column is the key label from KeyLabel.
func CharTableRows(aggs []model.CharAggregate) ([]string, [][]string) {
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ai, _ := CharMetrics(sorted[i])
		aj, _ := CharMetrics(sorted[j])
		if ai == aj {
			return sorted[i].Char < sorted[j].Char
		}
		return ai < aj
	})
	headers := []string{"Char", "Key", "Accuracy", "Avg Time (ms)", "Occur", "Missed"}
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		acc, avg := CharMetrics(agg)
		rows = append(rows, []string{
			agg.Char,
			KeyLabel(agg.Char),
			fmt.Sprintf("%.2f%%", acc*100),
			fmt.Sprintf("%.1f", avg),
			fmt.Sprintf("%d", agg.Occur),
			fmt.Sprintf("%d", agg.Missed),
		})
	}
	return headers, rows
}

// RenderCharCurves prints per-character accuracy and timing curves.
func RenderCharCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.CharAggregate, chars []string, window, width int) error {
	if len(chars) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Character Curves"); err != nil {
		return err
	}
	for _, ch := range chars {
		accSeries := make([]float64, len(sessions))
		timeSeries := make([]float64, len(sessions))
		for i, s := range sessions {
			agg, ok := perSession[s.SessionID][ch]
			if !ok {
				continue
			}
			acc, avg := CharMetrics(agg)
			accSeries[i] = acc * 100
			timeSeries[i] = avg
		}
		if err := renderSeries(w, fmt.Sprintf("Char %s", ch), []Series{
			{Name: "Accuracy", Values: MovingAverage(accSeries, window)},
			{Name: "Time (ms)", Values: MovingAverage(timeSeries, window)},
		}, width); err != nil {
			return err
		}
	}
	return nil
}
