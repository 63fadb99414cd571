package timer

import (
	"fmt"
	"time"
)

// Snapshot is a read-only copy of the engine state taken after a command or tick.
type Snapshot struct {
	Phase             Phase
	Remaining         time.Duration
	Running           bool
	SessionsCompleted int
	FocusDuration     time.Duration
	BreakDuration     time.Duration
}

// Total returns the configured length of the snapshot's phase.
func (s Snapshot) Total() time.Duration {
	if s.Phase == PhaseBreak {
		return s.BreakDuration
	}
	return s.FocusDuration
}

// Minutes returns the whole minutes left in the phase.
func (s Snapshot) Minutes() int {
	return int(s.Remaining / time.Minute)
}

// Seconds returns the seconds part of the remaining time (0-59).
func (s Snapshot) Seconds() int {
	return int((s.Remaining % time.Minute) / time.Second)
}

// Clock formats the remaining time as MM:SS.
func (s Snapshot) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.Minutes(), s.Seconds())
}

// Progress returns how much of the phase has elapsed, in percent within [0,100].
func (s Snapshot) Progress() float64 {
	total := s.Total()
	if total <= 0 {
		return 100
	}
	pct := float64(total-s.Remaining) / float64(total) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
