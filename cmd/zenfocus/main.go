// Package main provides the CLI entrypoint for zenfocus.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/zenfocus/internal/chime"
	"github.com/verte-zerg/zenfocus/internal/config"
	"github.com/verte-zerg/zenfocus/internal/logging"
	"github.com/verte-zerg/zenfocus/internal/model"
	"github.com/verte-zerg/zenfocus/internal/store"
	"github.com/verte-zerg/zenfocus/internal/timer"
	"github.com/verte-zerg/zenfocus/internal/tui"
)

const defaultLogLevel = "info"

var (
	timerFocus     int
	timerBreak     int
	timerNoSound   bool
	timerNoHistory bool
	logLevel       string
	logFile        string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "zenfocus",
		Short:         "Focus/break countdown timer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTimerCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&timerFocus, "focus", timer.DefaultFocusMinutes, "focus length in minutes (1-60)")
	flags.IntVar(&timerBreak, "break", timer.DefaultBreakMinutes, "break length in minutes (1-30)")
	flags.BoolVar(&timerNoSound, "no-sound", false, "do not play a cue when a phase ends")
	flags.BoolVar(&timerNoHistory, "no-history", false, "do not record completed phases")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (silent, error, info, verbose, debug)")
	flags.StringVar(&logFile, "log-file", "", "log file path (default $XDG_DATA_HOME/zenfocus/zenfocus.log)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// session bundles what the timer commands need and how to release it.
type session struct {
	cfg    model.Config
	engine *timer.Engine
	chime  chime.Chime
	store  *store.Store
	log    *logging.Logger
}

func openSession(cmd *cobra.Command) (*session, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := resolveConfig(cmd, fileCfg)

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, err := logging.Open(level, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: logger}
	if cfg.History {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			_ = logger.Close()
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		s.store = st
	}

	if clamped := timer.ClampFocus(cfg.FocusMinutes); clamped != cfg.FocusMinutes {
		logger.Info("focus length %d clamped to %d minutes", cfg.FocusMinutes, clamped)
	}
	if clamped := timer.ClampBreak(cfg.BreakMinutes); clamped != cfg.BreakMinutes {
		logger.Info("break length %d clamped to %d minutes", cfg.BreakMinutes, clamped)
	}
	s.engine = timer.New(timer.Durations{
		Focus: time.Duration(cfg.FocusMinutes) * time.Minute,
		Break: time.Duration(cfg.BreakMinutes) * time.Minute,
	})
	s.chime = chime.FromOptions(chime.Options{
		Enabled: cfg.Sound,
		Bell:    cfg.Bell,
		Command: cfg.SoundCommand,
		Out:     os.Stderr,
	})
	logger.Verbose("config: focus=%dm break=%dm sound=%t history=%t", cfg.FocusMinutes, cfg.BreakMinutes, cfg.Sound, cfg.History)
	return s, nil
}

// recorder returns the history store, or nil when history is off.
func (s *session) recorder() tui.Recorder {
	if s.store == nil {
		return nil
	}
	return s.store
}

func (s *session) Close() {
	s.engine.Close()
	if s.store != nil {
		if cerr := s.store.Close(); cerr != nil {
			s.log.Error("failed to close db: %v", cerr)
		}
	}
	if cerr := s.log.Close(); cerr != nil {
		logErrf("failed to close log: %v\n", cerr)
	}
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	m := tui.NewModel(s.engine, tui.Options{
		Chime:    s.chime,
		Recorder: s.recorder(),
		Logger:   s.log,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	s.log.Info("timer started")
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	snap := m.Snapshot()
	s.log.Info("timer stopped after %d sessions", snap.SessionsCompleted)
	return nil
}

// resolveConfig layers explicitly set flags over file values over defaults.
func resolveConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	focus, brk := timerFocus, timerBreak
	applyIntConfig(cmd, "focus", &focus, fileCfg.Timer.Focus)
	applyIntConfig(cmd, "break", &brk, fileCfg.Timer.Break)

	sound := true
	applyNegatedBoolConfig(cmd, "no-sound", timerNoSound, &sound, fileCfg.Sound.Enabled)
	bell := true
	if fileCfg.Sound.Bell != nil {
		bell = *fileCfg.Sound.Bell
	}
	history := true
	applyNegatedBoolConfig(cmd, "no-history", timerNoHistory, &history, fileCfg.History.Enabled)

	level, file := logLevel, logFile
	applyStringConfig(cmd, "log-level", &level, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &file, fileCfg.Log.File)
	if file == "" {
		file = config.DefaultLogPath()
	}

	return model.Config{
		FocusMinutes: focus,
		BreakMinutes: brk,
		Sound:        sound,
		Bell:         bell,
		SoundCommand: append([]string(nil), fileCfg.Sound.Command...),
		History:      history,
		LogLevel:     level,
		LogFile:      file,
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyNegatedBoolConfig resolves a --no-x flag against an "enabled" file key.
func applyNegatedBoolConfig(cmd *cobra.Command, name string, flagValue bool, target, value *bool) {
	if cmd.Flags().Changed(name) {
		*target = !flagValue
		return
	}
	if value != nil {
		*target = *value
	}
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# zenfocus configuration
# Uncomment a value to enable it. CLI flags override config values.

[timer]
# focus = %d              # Focus length in minutes (%d-%d)
# break = %d               # Break length in minutes (%d-%d)

[sound]
# enabled = true          # Play a cue when a phase ends
# bell = true             # Ring the terminal bell
# command = ["paplay", "/usr/share/sounds/freedesktop/stereo/complete.oga"]  # {phase} is replaced by focus or break

[history]
# enabled = true          # Record completed phases for "zenfocus stats"

[log]
# level = %q          # silent, error, info, verbose or debug
# file = ""               # Default %s
`,
		timer.DefaultFocusMinutes, timer.MinFocusMinutes, timer.MaxFocusMinutes,
		timer.DefaultBreakMinutes, timer.MinBreakMinutes, timer.MaxBreakMinutes,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
