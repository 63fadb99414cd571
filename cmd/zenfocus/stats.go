package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/zenfocus/internal/config"
	"github.com/verte-zerg/zenfocus/internal/export"
	"github.com/verte-zerg/zenfocus/internal/model"
	"github.com/verte-zerg/zenfocus/internal/stats"
	"github.com/verte-zerg/zenfocus/internal/statsui"
	"github.com/verte-zerg/zenfocus/internal/store"
	"github.com/verte-zerg/zenfocus/internal/timer"
)

var (
	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool

	exportFormat string
	exportOut    string
	exportSince  string
	exportPhase  string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show focus history stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N days with activity")
	cmd.Flags().IntVar(&statsWindow, "window", stats.DefaultWindow, "moving average window in days")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	since, err := parseSince(statsSince)
	if err != nil {
		return err
	}
	if statsLast < 0 {
		return fmt.Errorf("last must be >= 0")
	}
	if statsWindow <= 0 {
		return fmt.Errorf("window must be > 0")
	}
	filter := model.HistoryFilter{Since: since, Last: statsLast, Window: statsWindow}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, filter)
		if err != nil {
			return err
		}
		return renderPlainStats(cmd.OutOrStdout(), report, time.Now())
	}

	m := statsui.NewModel(st, filter)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, report stats.Report, now time.Time) error {
	if len(report.Days) == 0 {
		_, err := fmt.Fprintln(w, "No completed phases recorded yet.")
		return err
	}
	if err := stats.RenderSummary(w, report.Days, now); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Days, report.Window); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return stats.RenderDayTable(w, report.Days)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Work with the completed phase log",
	}
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export completed phases as csv, json or yaml",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", string(export.FormatCSV), "output format (csv, json, yaml)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "start date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportPhase, "phase", "", "phase filter (focus or break)")
	cmd.AddCommand(exportCmd)
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	since, err := parseSince(exportSince)
	if err != nil {
		return err
	}
	filter := model.HistoryFilter{Since: since}
	if exportPhase != "" {
		phase, err := timer.ParsePhase(exportPhase)
		if err != nil {
			return fmt.Errorf("invalid --phase value: %w", err)
		}
		filter.Phase = phase
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	phases, err := st.ListPhases(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if exportOut == "" {
		return export.Write(cmd.OutOrStdout(), format, phases)
	}
	if err := writeExport(exportOut, format, phases); err != nil {
		return err
	}
	logErrf("Exported %d phases to %s\n", len(phases), exportOut)
	return nil
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
}

// writeExport replaces path atomically so a failed export keeps the old file.
func writeExport(path string, format export.Format, phases []model.PhaseRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*."+string(format))
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := export.Write(writer, format, phases); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
