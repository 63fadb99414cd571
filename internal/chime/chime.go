// Package chime plays the cue that marks a phase boundary.
package chime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/verte-zerg/zenfocus/internal/timer"
)

// Chime announces that a phase has completed.
type Chime interface {
	Play(ctx context.Context, completed timer.Phase) error
}

// Silent plays nothing.
type Silent struct{}

// Play implements Chime.
func (Silent) Play(context.Context, timer.Phase) error { return nil }

// Bell rings the terminal bell.
type Bell struct {
	Out io.Writer
}

// Play implements Chime.
func (b Bell) Play(_ context.Context, _ timer.Phase) error {
	if b.Out == nil {
		return nil
	}
	if _, err := io.WriteString(b.Out, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// Command runs an external program. Every "{phase}" in Argv is replaced by
// the completed phase name.
type Command struct {
	Argv []string
}

// Play implements Chime.
func (c Command) Play(ctx context.Context, completed timer.Phase) error {
	argv := c.Expand(completed)
	if len(argv) == 0 {
		return nil
	}
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("sound command %q: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("sound command %q: %w", argv[0], err)
	}
	return nil
}

// Expand returns Argv with placeholders substituted.
func (c Command) Expand(completed timer.Phase) []string {
	if len(c.Argv) == 0 || strings.TrimSpace(c.Argv[0]) == "" {
		return nil
	}
	argv := make([]string, len(c.Argv))
	for i, arg := range c.Argv {
		argv[i] = strings.ReplaceAll(arg, "{phase}", completed.String())
	}
	return argv
}

// Multi plays every chime in order and joins their errors.
type Multi []Chime

// Play implements Chime.
func (m Multi) Play(ctx context.Context, completed timer.Phase) error {
	var errs []error
	for _, c := range m {
		if c == nil {
			continue
		}
		if err := c.Play(ctx, completed); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Options selects the chimes built by FromOptions.
type Options struct {
	Enabled bool
	Bell    bool
	Command []string
	Out     io.Writer
}

// FromOptions builds the chime for the resolved settings.
func FromOptions(opts Options) Chime {
	if !opts.Enabled {
		return Silent{}
	}
	var chimes Multi
	if opts.Bell {
		chimes = append(chimes, Bell{Out: opts.Out})
	}
	if len(opts.Command) > 0 {
		chimes = append(chimes, Command{Argv: opts.Command})
	}
	switch len(chimes) {
	case 0:
		return Silent{}
	case 1:
		return chimes[0]
	}
	return chimes
}
