package timer

import (
	"context"
	"time"
)

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock is a Clock backed by time.Ticker.
type SystemClock struct{}

// NewTicker implements Clock.
func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{ticker: time.NewTicker(d)}
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t systemTicker) C() <-chan time.Time { return t.ticker.C }
func (t systemTicker) Stop()               { t.ticker.Stop() }

// Drive advances a running engine once per TickInterval. It returns nil as
// soon as the engine stops running (pause or phase boundary) and ctx.Err()
// on cancellation. The ticker is stopped on every return path.
func Drive(ctx context.Context, engine *Engine, clock Clock, onTick func(Snapshot)) error {
	if !engine.Snapshot().Running {
		return nil
	}
	ticker := clock.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			snap := engine.Advance()
			if onTick != nil {
				onTick(snap)
			}
			if !snap.Running {
				return nil
			}
		}
	}
}
