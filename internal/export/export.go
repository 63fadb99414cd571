// Package export writes the phase history in portable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/zenfocus/internal/model"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (use csv, json or yaml)", name)
}

// Record is the exported shape of one completed phase.
type Record struct {
	ID             int64  `json:"id" yaml:"id"`
	Phase          string `json:"phase" yaml:"phase"`
	PlannedSeconds int64  `json:"planned_seconds" yaml:"planned_seconds"`
	StartedAt      string `json:"started_at" yaml:"started_at"`
	EndedAt        string `json:"ended_at" yaml:"ended_at"`
}

var csvHeader = []string{"id", "phase", "planned_seconds", "started_at", "ended_at"}

// Records converts history entries to their exported shape.
func Records(phases []model.PhaseRecord) []Record {
	out := make([]Record, 0, len(phases))
	for _, p := range phases {
		out = append(out, Record{
			ID:             p.ID,
			Phase:          p.Phase.String(),
			PlannedSeconds: int64(p.Planned / time.Second),
			StartedAt:      p.StartedAt.Format(time.RFC3339),
			EndedAt:        p.EndedAt.Format(time.RFC3339),
		})
	}
	return out
}

// Write encodes phases to w in the given format.
func Write(w io.Writer, format Format, phases []model.PhaseRecord) error {
	records := Records(phases)
	switch format {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown export format %q", format)
}

func writeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Phase,
			strconv.FormatInt(r.PlannedSeconds, 10),
			r.StartedAt,
			r.EndedAt,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
