// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/zenfocus/internal/timer"
)

// Config defines the resolved timer settings (file values overridden by flags).
type Config struct {
	FocusMinutes int
	BreakMinutes int
	Sound        bool
	Bell         bool
	SoundCommand []string
	History      bool
	LogLevel     string
	LogFile      string
}

// HistoryFilter narrows history queries.
type HistoryFilter struct {
	Phase  timer.Phase
	Since  *time.Time
	Last   int
	Window int
}

// PhaseRecord is one completed phase in the history log.
type PhaseRecord struct {
	ID        int64
	Phase     timer.Phase
	Planned   time.Duration
	StartedAt time.Time
	EndedAt   time.Time
}

// DayTotal aggregates completed phases for one local calendar day.
type DayTotal struct {
	Day           time.Time
	FocusSessions int
	FocusTime     time.Duration
	BreakSessions int
	BreakTime     time.Duration
}
