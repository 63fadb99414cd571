package timer

import (
	"sync"
	"time"
)

// Durations holds the configured phase lengths.
type Durations struct {
	Focus time.Duration
	Break time.Duration
}

// DefaultDurations returns 25 minutes of focus and a 5 minute break.
func DefaultDurations() Durations {
	return Durations{
		Focus: DefaultFocusMinutes * time.Minute,
		Break: DefaultBreakMinutes * time.Minute,
	}
}

// Completion is emitted once per phase boundary.
type Completion struct {
	Phase             Phase
	Planned           time.Duration
	SessionsCompleted int
	At                time.Time
}

// Engine is the focus/break state machine. It has no timer of its own;
// something outside calls Advance once per TickInterval while it runs.
type Engine struct {
	mu                sync.Mutex
	phase             Phase
	remaining         time.Duration
	running           bool
	sessionsCompleted int
	focusDuration     time.Duration
	breakDuration     time.Duration

	subscribers []chan Completion
	closed      bool
	now         func() time.Time
}

// New creates an engine in the paused focus phase. Non-positive durations
// fall back to the defaults; the rest are clamped to the phase bounds.
func New(durations Durations) *Engine {
	defaults := DefaultDurations()
	if durations.Focus <= 0 {
		durations.Focus = defaults.Focus
	}
	if durations.Break <= 0 {
		durations.Break = defaults.Break
	}
	engine := &Engine{
		phase:         PhaseFocus,
		focusDuration: minutes(ClampFocus(int(durations.Focus / time.Minute))),
		breakDuration: minutes(ClampBreak(int(durations.Break / time.Minute))),
		now:           time.Now,
	}
	engine.remaining = engine.focusDuration
	return engine
}

// Subscribe registers an observer for phase completions. Delivery never
// blocks the engine: a completion is dropped for a subscriber whose buffer is full.
func (engine *Engine) Subscribe(buffer int) <-chan Completion {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Completion, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.subscribers = append(engine.subscribers, ch)
	return ch
}

// Close stops the engine and closes every subscriber channel.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.running = false
	subscribers := engine.subscribers
	engine.subscribers = nil
	engine.mu.Unlock()

	for _, ch := range subscribers {
		close(ch)
	}
}

// Snapshot returns the current state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Progress returns the elapsed share of the current phase in percent.
func (engine *Engine) Progress() float64 {
	return engine.Snapshot().Progress()
}

// Start resumes the countdown.
func (engine *Engine) Start() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.closed {
		engine.running = true
	}
	return engine.snapshotLocked()
}

// Pause freezes the countdown.
func (engine *Engine) Pause() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.running = false
	return engine.snapshotLocked()
}

// Toggle pauses a running engine and starts a paused one.
func (engine *Engine) Toggle() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.closed {
		engine.running = !engine.running
	}
	return engine.snapshotLocked()
}

// Reset returns to a paused, full-length focus phase. The session count and
// configured durations are kept.
func (engine *Engine) Reset() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return engine.snapshotLocked()
	}
	engine.running = false
	engine.phase = PhaseFocus
	engine.remaining = engine.focusDuration
	return engine.snapshotLocked()
}

// Configure applies user-entered phase lengths. Empty or unparseable values
// keep the current setting; out-of-range values are clamped.
func (engine *Engine) Configure(focus, brk string) Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return engine.snapshotLocked()
	}
	if m, ok := ParseMinutes(focus); ok {
		engine.setFocusLocked(m)
	}
	if m, ok := ParseMinutes(brk); ok {
		engine.setBreakLocked(m)
	}
	return engine.snapshotLocked()
}

// ConfigureMinutes applies both phase lengths, clamping each to its bounds.
func (engine *Engine) ConfigureMinutes(focus, brk int) Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return engine.snapshotLocked()
	}
	engine.setFocusLocked(focus)
	engine.setBreakLocked(brk)
	return engine.snapshotLocked()
}

// Advance performs one tick. It is a no-op while paused. The tick that
// brings the countdown to zero also completes the phase, so a running
// engine is never observed at zero.
func (engine *Engine) Advance() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || !engine.running {
		return engine.snapshotLocked()
	}
	if engine.remaining > 0 {
		engine.remaining -= TickInterval
		if engine.remaining < 0 {
			engine.remaining = 0
		}
	}
	if engine.remaining == 0 {
		engine.completeLocked()
	}
	return engine.snapshotLocked()
}

func (engine *Engine) completeLocked() {
	completed := engine.phase
	planned := engine.durationLocked(completed)
	if completed == PhaseFocus {
		engine.sessionsCompleted++
	}
	engine.phase = completed.Next()
	engine.remaining = engine.durationLocked(engine.phase)
	engine.running = false

	engine.emitLocked(Completion{
		Phase:             completed,
		Planned:           planned,
		SessionsCompleted: engine.sessionsCompleted,
		At:                engine.now(),
	})
}

func (engine *Engine) setFocusLocked(m int) {
	engine.focusDuration = minutes(ClampFocus(m))
	if engine.phase == PhaseFocus && !engine.running {
		engine.remaining = engine.focusDuration
	}
}

func (engine *Engine) setBreakLocked(m int) {
	engine.breakDuration = minutes(ClampBreak(m))
	if engine.phase == PhaseBreak && !engine.running {
		engine.remaining = engine.breakDuration
	}
}

func (engine *Engine) durationLocked(phase Phase) time.Duration {
	if phase == PhaseBreak {
		return engine.breakDuration
	}
	return engine.focusDuration
}

func (engine *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:             engine.phase,
		Remaining:         engine.remaining,
		Running:           engine.running,
		SessionsCompleted: engine.sessionsCompleted,
		FocusDuration:     engine.focusDuration,
		BreakDuration:     engine.breakDuration,
	}
}

func (engine *Engine) emitLocked(completion Completion) {
	for _, ch := range engine.subscribers {
		select {
		case ch <- completion:
		default:
		}
	}
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
