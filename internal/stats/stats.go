// Package stats aggregates the phase history and renders text reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/zenfocus/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary holds totals over a set of days.
type Summary struct {
	Days          int
	ActiveDays    int
	FocusSessions int
	FocusTime     time.Duration
	BreakSessions int
	BreakTime     time.Duration
	CurrentStreak int
	LongestStreak int
	BestDay       model.DayTotal
}

// AvgFocusPerActiveDay returns the mean focus time over days with at least
// one focus session.
func (s Summary) AvgFocusPerActiveDay() time.Duration {
	if s.ActiveDays == 0 {
		return 0
	}
	return s.FocusTime / time.Duration(s.ActiveDays)
}

// Summarize totals the days and computes streaks of consecutive calendar
// days with a completed focus session. The current streak counts only if it
// reaches today or yesterday relative to now.
func Summarize(days []model.DayTotal, now time.Time) Summary {
	summary := Summary{Days: len(days)}
	var run int
	var prev time.Time
	var last time.Time
	for _, d := range days {
		summary.FocusSessions += d.FocusSessions
		summary.FocusTime += d.FocusTime
		summary.BreakSessions += d.BreakSessions
		summary.BreakTime += d.BreakTime
		if d.FocusSessions == 0 {
			continue
		}
		summary.ActiveDays++
		if d.FocusTime > summary.BestDay.FocusTime {
			summary.BestDay = d
		}
		if !prev.IsZero() && sameDay(nextDay(prev), d.Day) {
			run++
		} else {
			run = 1
		}
		if run > summary.LongestStreak {
			summary.LongestStreak = run
		}
		prev = d.Day
		last = d.Day
	}
	if !last.IsZero() {
		today := now.In(last.Location())
		if sameDay(last, today) || sameDay(nextDay(last), today) {
			summary.CurrentStreak = run
		}
	}
	return summary
}

// FocusMinutes returns the focus minutes of each day.
func FocusMinutes(days []model.DayTotal) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.FocusTime.Minutes()
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline scaled from zero.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	maxVal := 0.0
	for _, v := range values {
		maxVal = math.Max(maxVal, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if maxVal > 0 {
			idx = int(math.Round(v / maxVal * float64(len(sparkChars)-1)))
		}
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the totals block.
func RenderSummary(w io.Writer, days []model.DayTotal, now time.Time) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No phases recorded.")
		return err
	}
	s := Summarize(days, now)
	lines := []string{
		"Summary",
		fmt.Sprintf("Days: %d (%d with focus)", s.Days, s.ActiveDays),
		fmt.Sprintf("Focus sessions: %d (%s)", s.FocusSessions, FormatDuration(s.FocusTime)),
		fmt.Sprintf("Breaks: %d (%s)", s.BreakSessions, FormatDuration(s.BreakTime)),
		fmt.Sprintf("Avg focus per active day: %s", FormatDuration(s.AvgFocusPerActiveDay())),
		fmt.Sprintf("Streak: %d days (longest %d)", s.CurrentStreak, s.LongestStreak),
	}
	if s.BestDay.FocusSessions > 0 {
		lines = append(lines, fmt.Sprintf("Best day: %s, %d sessions (%s)",
			s.BestDay.Day.Format("2006-01-02"), s.BestDay.FocusSessions, FormatDuration(s.BestDay.FocusTime)))
	}
	lines = append(lines, "Trend: "+Sparkline(FocusMinutes(days)), "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints daily focus minutes and their moving average.
func RenderCurves(w io.Writer, days []model.DayTotal, window int) error {
	return RenderCurvesWithSize(w, days, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints the focus plot sized to a given total width.
func RenderCurvesWithSize(w io.Writer, days []model.DayTotal, window, totalWidth, height int, useColor bool) error {
	if len(days) == 0 {
		return nil
	}
	minutes := FocusMinutes(days)
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Focus Minutes per Day", []Series{
		{Name: "Focus", Values: minutes},
		{Name: fmt.Sprintf("Avg (%d)", max(window, 1)), Values: MovingAverage(minutes, window)},
	}, width, height, useColor)
}

// RenderDayTable prints one row per day, newest first.
func RenderDayTable(w io.Writer, days []model.DayTotal) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No days recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Days"); err != nil {
		return err
	}
	headers, rows := DayRows(days)
	tbl := newTextTable(headers, alignLeft, alignRight, alignRight, alignRight, alignRight)
	for _, row := range rows {
		tbl.addRow(row...)
	}
	for _, line := range tbl.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// DayRows returns table headers and rows for the days, newest first.
func DayRows(days []model.DayTotal) ([]string, [][]string) {
	headers := []string{"Day", "Sessions", "Focus", "Breaks", "Break time"}
	rows := make([][]string, 0, len(days))
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		rows = append(rows, []string{
			d.Day.Format("Mon 2006-01-02"),
			fmt.Sprintf("%d", d.FocusSessions),
			FormatDuration(d.FocusTime),
			fmt.Sprintf("%d", d.BreakSessions),
			FormatDuration(d.BreakTime),
		})
	}
	return headers, rows
}

// FormatDuration renders a duration as "1h05m" or "25m".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func nextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
