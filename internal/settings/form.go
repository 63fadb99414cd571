// Package settings holds the in-app form for phase lengths.
package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/verte-zerg/zenfocus/internal/timer"
)

// Form edits the focus and break lengths. The raw input is handed to
// Engine.Configure, which owns parsing and clamping.
type Form struct {
	form *huh.Form

	focus string
	brk   string

	initialFocus string
	initialBreak string
}

// New builds a form pre-filled from the snapshot.
func New(snap timer.Snapshot) *Form {
	f := &Form{
		initialFocus: strconv.Itoa(int(snap.FocusDuration / time.Minute)),
		initialBreak: strconv.Itoa(int(snap.BreakDuration / time.Minute)),
	}
	f.focus = f.initialFocus
	f.brk = f.initialBreak

	keymap := huh.NewDefaultKeyMap()
	keymap.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Focus minutes").
				Description(fmt.Sprintf("%d-%d; blank or non-numeric keeps the current value.", timer.MinFocusMinutes, timer.MaxFocusMinutes)).
				Key("focus").
				CharLimit(8).
				Value(&f.focus),
			huh.NewInput().
				Title("Break minutes").
				Description(fmt.Sprintf("%d-%d; blank or non-numeric keeps the current value.", timer.MinBreakMinutes, timer.MaxBreakMinutes)).
				Key("break").
				CharLimit(8).
				Value(&f.brk),
		),
	).WithKeyMap(keymap).WithShowHelp(true)
	return f
}

// Init starts the form.
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update forwards msg to the form. The command returned once the form has
// completed or aborted is dropped so it cannot quit the host program.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	model, cmd := f.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		f.form = form
	}
	if f.Done() || f.Aborted() {
		return nil
	}
	return cmd
}

// View renders the form.
func (f *Form) View() string {
	return f.form.View()
}

// WithWidth sets the form width.
func (f *Form) WithWidth(width int) *Form {
	f.form = f.form.WithWidth(width)
	return f
}

// Done reports whether the user submitted the form.
func (f *Form) Done() bool {
	return f.form.State == huh.StateCompleted
}

// Aborted reports whether the user cancelled the form.
func (f *Form) Aborted() bool {
	return f.form.State == huh.StateAborted
}

// Values returns the entered strings. A field left at its pre-filled value
// comes back empty so that applying it leaves a paused countdown alone.
func (f *Form) Values() (focus, brk string) {
	focus = strings.TrimSpace(f.focus)
	brk = strings.TrimSpace(f.brk)
	if focus == f.initialFocus {
		focus = ""
	}
	if brk == f.initialBreak {
		brk = ""
	}
	return focus, brk
}

// Apply hands the changed values to the engine.
func (f *Form) Apply(engine *timer.Engine) timer.Snapshot {
	focus, brk := f.Values()
	return engine.Configure(focus, brk)
}
