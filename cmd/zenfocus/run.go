package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/zenfocus/internal/chime"
	"github.com/verte-zerg/zenfocus/internal/logging"
	"github.com/verte-zerg/zenfocus/internal/model"
	"github.com/verte-zerg/zenfocus/internal/timer"
	"github.com/verte-zerg/zenfocus/internal/tui"
)

const headlessTimeout = 10 * time.Second

var runCycles int

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the timer without the TUI",
		Args:  cobra.NoArgs,
		RunE:  runHeadlessCmd,
	}
	cmd.Flags().IntVar(&runCycles, "cycles", 1, "focus sessions to complete before exiting (0 runs until interrupted)")
	return cmd
}

func runHeadlessCmd(cmd *cobra.Command, _ []string) error {
	if runCycles < 0 {
		return fmt.Errorf("cycles must be >= 0")
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &headless{
		engine:   s.engine,
		clock:    timer.SystemClock{},
		chime:    s.chime,
		recorder: s.recorder(),
		log:      s.log,
		out:      cmd.ErrOrStderr(),
		inline:   term.IsTerminal(int(os.Stderr.Fd())),
		now:      time.Now,
	}
	done, err := r.run(ctx, runCycles)
	if errors.Is(err, context.Canceled) {
		s.log.Info("interrupted after %d sessions", done)
		return nil
	}
	return err
}

// headless cycles the engine through phases on a real or fake clock,
// printing a status line per tick.
type headless struct {
	engine   *timer.Engine
	clock    timer.Clock
	chime    chime.Chime
	recorder tui.Recorder
	log      *logging.Logger
	out      io.Writer
	inline   bool
	now      func() time.Time
}

// run returns the number of focus sessions completed.
func (h *headless) run(ctx context.Context, cycles int) (int, error) {
	completions := h.engine.Subscribe(4)
	done := 0
	for cycles == 0 || done < cycles {
		startedAt := h.now()
		h.engine.Start()
		err := timer.Drive(ctx, h.engine, h.clock, h.printStatus)
		h.endLine()
		if err != nil {
			return done, err
		}
		select {
		case c, ok := <-completions:
			if !ok {
				return done, nil
			}
			h.complete(ctx, c, startedAt)
			if c.Phase == timer.PhaseFocus {
				done++
			}
		default:
			// Drive only returns nil with no completion if something paused the engine.
			return done, nil
		}
	}
	return done, nil
}

func (h *headless) complete(ctx context.Context, c timer.Completion, startedAt time.Time) {
	h.log.Info("%s completed (%d sessions)", c.Phase, c.SessionsCompleted)
	fmt.Fprintf(h.out, "%s phase complete. Sessions completed today: %d\n", c.Phase, c.SessionsCompleted)

	chimeCtx, cancel := context.WithTimeout(ctx, headlessTimeout)
	if err := h.chime.Play(chimeCtx, c.Phase); err != nil {
		h.log.Error("chime failed: %v", err)
	}
	cancel()

	if h.recorder == nil {
		return
	}
	recordCtx, cancel := context.WithTimeout(ctx, headlessTimeout)
	defer cancel()
	id, err := h.recorder.InsertPhase(recordCtx, model.PhaseRecord{
		Phase:     c.Phase,
		Planned:   c.Planned,
		StartedAt: startedAt,
		EndedAt:   c.At,
	})
	if err != nil {
		h.log.Error("failed to record %s: %v", c.Phase, err)
		return
	}
	h.log.Debug("recorded phase %d", id)
}

func (h *headless) printStatus(snap timer.Snapshot) {
	line := fmt.Sprintf("%s %s  sessions %d", snap.Phase.Label(), snap.Clock(), snap.SessionsCompleted)
	if h.inline {
		fmt.Fprintf(h.out, "\r%s", line)
		return
	}
	fmt.Fprintln(h.out, line)
}

func (h *headless) endLine() {
	if h.inline {
		fmt.Fprintln(h.out)
	}
}
