package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/zenfocus/internal/model"
)

func day(d, sessions int) model.DayTotal {
	return model.DayTotal{
		Day:           time.Date(2026, 3, d, 0, 0, 0, 0, time.Local),
		FocusSessions: sessions,
		FocusTime:     time.Duration(sessions) * 25 * time.Minute,
		BreakSessions: sessions,
		BreakTime:     time.Duration(sessions) * 5 * time.Minute,
	}
}

func TestSummarizeStreaks(t *testing.T) {
	days := []model.DayTotal{day(1, 2), day(2, 1), day(3, 3), day(5, 1), day(6, 2)}

	now := time.Date(2026, 3, 6, 18, 0, 0, 0, time.Local)
	s := Summarize(days, now)
	if s.LongestStreak != 3 {
		t.Fatalf("expected longest streak 3, got %d", s.LongestStreak)
	}
	if s.CurrentStreak != 2 {
		t.Fatalf("expected current streak 2, got %d", s.CurrentStreak)
	}
	if s.FocusSessions != 9 || s.FocusTime != 225*time.Minute {
		t.Fatalf("unexpected focus totals: %+v", s)
	}
	if s.BestDay.Day.Day() != 3 {
		t.Fatalf("expected best day 3, got %v", s.BestDay.Day)
	}
	if s.AvgFocusPerActiveDay() != 45*time.Minute {
		t.Fatalf("unexpected average: %v", s.AvgFocusPerActiveDay())
	}

	yesterday := time.Date(2026, 3, 7, 9, 0, 0, 0, time.Local)
	if got := Summarize(days, yesterday).CurrentStreak; got != 2 {
		t.Fatalf("expected streak to survive until the next day, got %d", got)
	}
	later := time.Date(2026, 3, 8, 9, 0, 0, 0, time.Local)
	if got := Summarize(days, later).CurrentStreak; got != 0 {
		t.Fatalf("expected broken streak, got %d", got)
	}
}

func TestSummarizeSkipsBreakOnlyDays(t *testing.T) {
	breakOnly := model.DayTotal{
		Day:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local),
		BreakSessions: 1,
		BreakTime:     5 * time.Minute,
	}
	s := Summarize([]model.DayTotal{day(1, 1), breakOnly, day(3, 1)}, time.Date(2026, 3, 3, 12, 0, 0, 0, time.Local))
	if s.ActiveDays != 2 || s.LongestStreak != 1 || s.CurrentStreak != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if got := MovingAverage([]float64{1, 2}, 0); got[1] != 2 {
		t.Fatalf("expected copy for window 0, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 50, 100}); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 0}); got != "  " {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		25 * time.Minute:             "25m",
		65 * time.Minute:             "1h05m",
		2*time.Hour + 30*time.Second: "2h01m",
		0:                            "0m",
	}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderSummaryAndDays(t *testing.T) {
	var buf bytes.Buffer
	days := []model.DayTotal{day(1, 2), day(2, 1)}
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.Local)
	if err := RenderSummary(&buf, days, now); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if err := RenderDayTable(&buf, days); err != nil {
		t.Fatalf("render days: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Focus sessions: 3 (1h15m)",
		"Streak: 2 days (longest 2)",
		"Best day: 2026-03-01, 2 sessions (50m)",
		"Mon 2026-03-02",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "2026-03-02") > strings.Index(out, "Sun 2026-03-01") {
		t.Fatalf("expected newest day first in the table:\n%s", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil, time.Now()); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No phases recorded.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
