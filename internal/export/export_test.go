package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/zenfocus/internal/model"
	"github.com/verte-zerg/zenfocus/internal/timer"
)

func samplePhases() []model.PhaseRecord {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return []model.PhaseRecord{
		{ID: 1, Phase: timer.PhaseFocus, Planned: 25 * time.Minute, StartedAt: start, EndedAt: start.Add(25 * time.Minute)},
		{ID: 2, Phase: timer.PhaseBreak, Planned: 5 * time.Minute, StartedAt: start.Add(25 * time.Minute), EndedAt: start.Add(30 * time.Minute)},
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"csv": FormatCSV, "JSON": FormatJSON, "yml": FormatYAML, " yaml ": FormatYAML}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, samplePhases()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(lines))
	}
	if lines[0] != "id,phase,planned_seconds,started_at,ended_at" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "1,focus,1500,2026-03-02T09:00:00Z,2026-03-02T09:25:00Z" {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, samplePhases()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var got []Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(got) != 2 || got[1].Phase != "break" || got[1].PlannedSeconds != 300 {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, samplePhases()); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "planned_seconds: 1500") {
		t.Fatalf("expected snake_case keys in yaml:\n%s", buf.String())
	}
	var got []Record
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(got) != 2 || got[0].EndedAt != "2026-03-02T09:25:00Z" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestWriteEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, nil); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}
