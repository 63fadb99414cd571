// Package timer implements the focus/break countdown state machine.
package timer

import (
	"fmt"
	"strings"
	"time"
)

// Phase names one of the two intervals the engine cycles through.
type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

// Duration bounds, in minutes.
const (
	MinFocusMinutes     = 1
	MaxFocusMinutes     = 60
	MinBreakMinutes     = 1
	MaxBreakMinutes     = 30
	DefaultFocusMinutes = 25
	DefaultBreakMinutes = 5
)

// TickInterval is the cadence at which Advance is expected to be called.
const TickInterval = time.Second

// String implements fmt.Stringer.
func (p Phase) String() string {
	return string(p)
}

// Label returns the display label for the phase.
func (p Phase) Label() string {
	if p == PhaseBreak {
		return "BREAK TIME"
	}
	return "FOCUS TIME"
}

// Next returns the phase that follows p.
func (p Phase) Next() Phase {
	if p == PhaseFocus {
		return PhaseBreak
	}
	return PhaseFocus
}

// ParsePhase converts a stored phase name back into a Phase.
func ParsePhase(value string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(PhaseFocus):
		return PhaseFocus, nil
	case string(PhaseBreak):
		return PhaseBreak, nil
	default:
		return "", fmt.Errorf("unknown phase %q", value)
	}
}

func clampMinutes(minutes, lo, hi int) int {
	if minutes < lo {
		return lo
	}
	if minutes > hi {
		return hi
	}
	return minutes
}

// ClampFocus bounds a focus length to [MinFocusMinutes, MaxFocusMinutes].
func ClampFocus(minutes int) int {
	return clampMinutes(minutes, MinFocusMinutes, MaxFocusMinutes)
}

// ClampBreak bounds a break length to [MinBreakMinutes, MaxBreakMinutes].
func ClampBreak(minutes int) int {
	return clampMinutes(minutes, MinBreakMinutes, MaxBreakMinutes)
}
