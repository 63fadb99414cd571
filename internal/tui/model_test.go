package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/zenfocus/internal/model"
	"github.com/verte-zerg/zenfocus/internal/timer"
)

type fakeRecorder struct {
	records []model.PhaseRecord
}

func (f *fakeRecorder) InsertPhase(_ context.Context, rec model.PhaseRecord) (int64, error) {
	f.records = append(f.records, rec)
	return int64(len(f.records)), nil
}

type fakeChime struct {
	played []timer.Phase
}

func (f *fakeChime) Play(_ context.Context, phase timer.Phase) error {
	f.played = append(f.played, phase)
	return nil
}

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, focus time.Duration, opts Options) (*Model, *timer.Engine) {
	t.Helper()
	engine := timer.New(timer.Durations{Focus: focus, Break: time.Minute})
	t.Cleanup(engine.Close)
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return NewModel(engine, opts), engine
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	if k == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace}
	} else if k == "esc" {
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func sendTick(m *Model, generation int) tea.Cmd {
	_, cmd := m.Update(tickMsg{generation: generation})
	return cmd
}

// runCmds executes cmd, expanding batches, and returns the produced messages.
func runCmds(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmds(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func TestToggleArmsTickChain(t *testing.T) {
	m, _ := newTestModel(t, 25*time.Minute, Options{})
	if cmd := press(m, " "); cmd == nil {
		t.Fatalf("expected start to arm a tick")
	}
	if !m.Snapshot().Running {
		t.Fatalf("expected running after toggle")
	}
	gen := m.generation
	if cmd := sendTick(m, gen); cmd == nil {
		t.Fatalf("expected tick to re-arm while running")
	}
	if got := m.Snapshot().Remaining; got != 25*time.Minute-time.Second {
		t.Fatalf("expected one second elapsed, got %v", got)
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	m, engine := newTestModel(t, 25*time.Minute, Options{})
	press(m, " ")
	stale := m.generation
	press(m, " ")
	press(m, " ")

	if cmd := sendTick(m, stale); cmd != nil {
		t.Fatalf("expected stale tick not to re-arm")
	}
	if got := engine.Snapshot().Remaining; got != 25*time.Minute {
		t.Fatalf("expected stale tick to be ignored, remaining %v", got)
	}
}

func TestTickWhilePausedDoesNotRearm(t *testing.T) {
	m, _ := newTestModel(t, 25*time.Minute, Options{})
	press(m, " ")
	press(m, " ")
	if cmd := sendTick(m, m.generation); cmd != nil {
		t.Fatalf("expected no re-arm while paused")
	}
	if got := m.Snapshot().Remaining; got != 25*time.Minute {
		t.Fatalf("expected countdown frozen, got %v", got)
	}
}

func TestResetInvalidatesChain(t *testing.T) {
	m, _ := newTestModel(t, 25*time.Minute, Options{})
	press(m, " ")
	gen := m.generation
	sendTick(m, gen)
	press(m, "r")
	snap := m.Snapshot()
	if snap.Running || snap.Remaining != 25*time.Minute || snap.Phase != timer.PhaseFocus {
		t.Fatalf("unexpected snapshot after reset: %+v", snap)
	}
	if cmd := sendTick(m, gen); cmd != nil {
		t.Fatalf("expected tick from before reset to be dropped")
	}
}

func TestBoundaryStopsChainAndRecords(t *testing.T) {
	rec := &fakeRecorder{}
	ch := &fakeChime{}
	m, engine := newTestModel(t, time.Minute, Options{Recorder: rec, Chime: ch})
	press(m, " ")

	var cmd tea.Cmd
	for i := 0; i < 60; i++ {
		cmd = sendTick(m, m.generation)
	}
	if cmd != nil {
		t.Fatalf("expected the boundary tick not to re-arm")
	}
	snap := m.Snapshot()
	if snap.Phase != timer.PhaseBreak || snap.Running || snap.SessionsCompleted != 1 {
		t.Fatalf("unexpected snapshot at boundary: %+v", snap)
	}

	var completion timer.Completion
	select {
	case completion = <-m.completions:
	default:
		t.Fatalf("expected a completion on the subscription")
	}
	_, cmd = m.Update(completionMsg{completion: completion})
	if cmd == nil {
		t.Fatalf("expected completion side effects")
	}

	engine.Close()
	for _, msg := range runCmds(cmd) {
		m.Update(msg)
	}
	if len(ch.played) != 1 || ch.played[0] != timer.PhaseFocus {
		t.Fatalf("expected one focus chime, got %v", ch.played)
	}
	if len(rec.records) != 1 {
		t.Fatalf("expected one recorded phase, got %d", len(rec.records))
	}
	got := rec.records[0]
	if got.Phase != timer.PhaseFocus || got.Planned != time.Minute || !got.StartedAt.Equal(fixedNow) {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !m.phaseStartedAt.IsZero() {
		t.Fatalf("expected phase start to be cleared")
	}
}

func TestCompletionWithoutRecorder(t *testing.T) {
	m, engine := newTestModel(t, time.Minute, Options{})
	_, cmd := m.Update(completionMsg{completion: timer.Completion{Phase: timer.PhaseBreak, Planned: time.Minute, At: fixedNow}})
	engine.Close()
	for _, msg := range runCmds(cmd) {
		if _, ok := msg.(recordedMsg); ok {
			t.Fatalf("expected no record without a recorder")
		}
	}
}

func TestCopyStatusLine(t *testing.T) {
	var copied string
	m, _ := newTestModel(t, 25*time.Minute, Options{Copy: func(s string) error {
		copied = s
		return nil
	}})
	for _, msg := range runCmds(press(m, "y")) {
		m.Update(msg)
	}
	if copied != "FOCUS TIME 25:00 (paused), 0 sessions completed today" {
		t.Fatalf("unexpected copied text %q", copied)
	}
	if m.status != "Copied to clipboard" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m.copy = func(string) error { return errors.New("no clipboard") }
	for _, msg := range runCmds(press(m, "y")) {
		m.Update(msg)
	}
	if m.status != "Clipboard unavailable" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestSettingsOpenAndAbort(t *testing.T) {
	m, _ := newTestModel(t, 25*time.Minute, Options{})
	press(m, " ")
	gen := m.generation
	press(m, "s")
	if m.settings == nil {
		t.Fatalf("expected settings form to open")
	}
	if cmd := sendTick(m, gen); cmd == nil {
		t.Fatalf("expected ticks to keep running behind the form")
	}
	press(m, "q")
	if m.settings == nil {
		t.Fatalf("expected q to be typed into the form, not quit")
	}
	press(m, "esc")
	if m.settings != nil {
		t.Fatalf("expected esc to close the form")
	}
	if m.Snapshot().FocusDuration != 25*time.Minute {
		t.Fatalf("expected durations unchanged after abort")
	}
}

func TestViewRendersPhase(t *testing.T) {
	m, _ := newTestModel(t, 25*time.Minute, Options{})
	out := m.View()
	for _, want := range []string{"FOCUS TIME", "2 5 : 0 0", "Deep work session", "Sessions completed today: 0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.snap.Phase = timer.PhaseBreak
	out = m.View()
	if !strings.Contains(out, "BREAK TIME") || !strings.Contains(out, "Take a mindful break") {
		t.Fatalf("expected break view:\n%s", out)
	}
}

func TestFooterTruncatesToWidth(t *testing.T) {
	m, _ := newTestModel(t, 25*time.Minute, Options{})
	m.width = 12
	first := strings.Split(m.renderFooter(), "\n")[0]
	if !strings.Contains(first, "…") {
		t.Fatalf("expected truncated footer, got %q", first)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, 25*time.Minute, Options{})
	cmd := press(m, "q")
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
