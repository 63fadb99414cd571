// Package tui provides the Bubble Tea timer interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/zenfocus/internal/chime"
	"github.com/verte-zerg/zenfocus/internal/logging"
	"github.com/verte-zerg/zenfocus/internal/model"
	"github.com/verte-zerg/zenfocus/internal/settings"
	"github.com/verte-zerg/zenfocus/internal/timer"
)

const (
	focusColor  = "#334155"
	breakColor  = "#10B981"
	maxBarWidth = 48

	chimeTimeout  = 10 * time.Second
	recordTimeout = 5 * time.Second
)

// Recorder stores completed phases.
type Recorder interface {
	InsertPhase(ctx context.Context, rec model.PhaseRecord) (int64, error)
}

// Options wires the model's collaborators. Nil fields get defaults.
type Options struct {
	Chime    chime.Chime
	Recorder Recorder
	Logger   *logging.Logger
	Copy     func(string) error
	Now      func() time.Time
}

type tickMsg struct {
	generation int
}

type completionMsg struct {
	completion timer.Completion
}

type chimeDoneMsg struct {
	phase timer.Phase
	err   error
}

type recordedMsg struct {
	id  int64
	err error
}

type copiedMsg struct {
	err error
}

// Model implements the Bubble Tea timer UI.
type Model struct {
	engine      *timer.Engine
	completions <-chan timer.Completion

	chime    chime.Chime
	recorder Recorder
	log      *logging.Logger
	copy     func(string) error
	now      func() time.Time

	snap timer.Snapshot
	// Bumped on every start, pause, reset and boundary. Ticks carrying an
	// older value are dropped.
	generation     int
	phaseStartedAt time.Time

	settings *settings.Form
	bar      progress.Model
	help     help.Model
	keys     keyMap
	status   string

	width  int
	height int
}

var (
	focusBadgeStyle = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Foreground(lipgloss.Color("#F8FAFC")).Background(lipgloss.Color(focusColor))
	breakBadgeStyle = focusBadgeStyle.Background(lipgloss.Color(breakColor))
	clockStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).Padding(1, 0)
	pausedStyle     = clockStyle.Foreground(lipgloss.Color("#8C8C8C"))
	subtitleStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#A3A3A3"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs a timer TUI over engine. The model subscribes to the
// engine's completions; the caller closes the engine when the program ends.
func NewModel(engine *timer.Engine, opts Options) *Model {
	if opts.Chime == nil {
		opts.Chime = chime.Silent{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := &Model{
		engine:      engine,
		completions: engine.Subscribe(4),
		chime:       opts.Chime,
		recorder:    opts.Recorder,
		log:         opts.Logger,
		copy:        opts.Copy,
		now:         opts.Now,
		snap:        engine.Snapshot(),
		bar:         progress.New(progress.WithSolidFill(focusColor), progress.WithoutPercentage()),
		help:        help.New(),
		keys:        defaultKeyMap(),
	}
	m.bar.Width = maxBarWidth
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForCompletion(m.completions)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(max(msg.Width-8, 10), maxBarWidth)
		m.help.Width = msg.Width
		if m.settings != nil {
			m.settings.WithWidth(min(msg.Width, 60))
		}
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case completionMsg:
		return m, m.handleCompletion(msg.completion)
	case chimeDoneMsg:
		if msg.err != nil {
			m.log.Error("chime after %s phase failed: %v", msg.phase, msg.err)
		}
		return m, nil
	case recordedMsg:
		if msg.err != nil {
			m.log.Error("failed to record phase: %v", msg.err)
		} else {
			m.log.Debug("recorded phase %d", msg.id)
		}
		return m, nil
	case copiedMsg:
		if msg.err != nil {
			m.log.Error("failed to copy status: %v", msg.err)
			m.status = "Clipboard unavailable"
		} else {
			m.status = "Copied to clipboard"
		}
		return m, nil
	}

	if m.settings != nil {
		return m, m.updateSettings(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.status = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m, m.apply(m.engine.Toggle())
		case key.Matches(msg, m.keys.Reset):
			m.phaseStartedAt = time.Time{}
			return m, m.apply(m.engine.Reset())
		case key.Matches(msg, m.keys.Settings):
			m.settings = settings.New(m.snap)
			if m.width > 0 {
				m.settings.WithWidth(min(m.width, 60))
			}
			return m, m.settings.Init()
		case key.Matches(msg, m.keys.Copy):
			return m, copyCmd(m.copy, m.StatusLine())
		}
	}
	return m, nil
}

// apply records a snapshot produced by a command and restarts the tick
// chain when the engine is running.
func (m *Model) apply(snap timer.Snapshot) tea.Cmd {
	m.snap = snap
	m.generation++
	if !snap.Running {
		return nil
	}
	if m.phaseStartedAt.IsZero() {
		m.phaseStartedAt = m.now()
	}
	return tick(m.generation)
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.generation != m.generation {
		return nil
	}
	m.snap = m.engine.Advance()
	if !m.snap.Running {
		m.generation++
		return nil
	}
	return tick(m.generation)
}

func (m *Model) handleCompletion(c timer.Completion) tea.Cmd {
	m.snap = m.engine.Snapshot()
	started := m.phaseStartedAt
	if started.IsZero() {
		started = c.At.Add(-c.Planned)
	}
	m.phaseStartedAt = time.Time{}
	m.log.Info("%s phase complete (%s planned, %d sessions)", c.Phase, c.Planned, c.SessionsCompleted)

	cmds := []tea.Cmd{
		chimeCmd(m.chime, c.Phase),
		waitForCompletion(m.completions),
	}
	if m.recorder != nil {
		cmds = append(cmds, recordCmd(m.recorder, model.PhaseRecord{
			Phase:     c.Phase,
			Planned:   c.Planned,
			StartedAt: started,
			EndedAt:   c.At,
		}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateSettings(msg tea.Msg) tea.Cmd {
	cmd := m.settings.Update(msg)
	switch {
	case m.settings.Done():
		focus, brk := m.settings.Values()
		m.snap = m.settings.Apply(m.engine)
		m.log.Verbose("settings applied: focus=%q break=%q -> %s/%s", focus, brk, m.snap.FocusDuration, m.snap.BreakDuration)
		m.settings = nil
		return nil
	case m.settings.Aborted():
		m.settings = nil
		return nil
	}
	return cmd
}

func tick(generation int) tea.Cmd {
	return tea.Tick(timer.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func waitForCompletion(ch <-chan timer.Completion) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return completionMsg{completion: c}
	}
}

func chimeCmd(c chime.Chime, phase timer.Phase) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chimeTimeout)
		defer cancel()
		return chimeDoneMsg{phase: phase, err: c.Play(ctx, phase)}
	}
}

func recordCmd(r Recorder, rec model.PhaseRecord) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		id, err := r.InsertPhase(ctx, rec)
		return recordedMsg{id: id, err: err}
	}
}

func copyCmd(copyText func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: copyText(text)}
	}
}

// Snapshot returns the last state the model rendered from.
func (m *Model) Snapshot() timer.Snapshot {
	return m.snap
}

// StatusLine summarizes the timer in one line.
func (m *Model) StatusLine() string {
	state := "paused"
	if m.snap.Running {
		state = "running"
	}
	return fmt.Sprintf("%s %s (%s), %d sessions completed today",
		m.snap.Phase.Label(), m.snap.Clock(), state, m.snap.SessionsCompleted)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.settings != nil {
		return m.place(m.settings.View(), "")
	}
	return m.place(m.renderTimer(), m.renderFooter())
}

func (m *Model) renderTimer() string {
	badge := focusBadgeStyle
	subtitle := "Deep work session"
	m.bar.FullColor = focusColor
	if m.snap.Phase == timer.PhaseBreak {
		badge = breakBadgeStyle
		subtitle = "Take a mindful break"
		m.bar.FullColor = breakColor
	}
	clock := clockStyle
	if !m.snap.Running {
		clock = pausedStyle
	}
	sections := []string{
		badge.Render(m.snap.Phase.Label()),
		clock.Render(bigClock(m.snap.Clock())),
		m.bar.ViewAs(m.snap.Progress() / 100),
		"",
		subtitleStyle.Render(subtitle),
	}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m *Model) renderFooter() string {
	footer := fmt.Sprintf("Sessions completed today: %d", m.snap.SessionsCompleted)
	if m.width > 0 {
		footer = runewidth.Truncate(footer, m.width, "…")
	}
	return footerStyle.Render(footer) + "\n" + m.help.View(m.keys)
}

func (m *Model) place(content, footer string) string {
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n\n" + footer
	}
	footerHeight := 0
	if footer != "" {
		footerHeight = lipgloss.Height(footer)
	}
	if footerHeight == 0 || m.height <= footerHeight+2 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

// bigClock spaces out the digits of "MM:SS".
func bigClock(clock string) string {
	return strings.Join(strings.Split(clock, ""), " ")
}
