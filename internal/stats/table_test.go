package stats

import "testing"

func TestTextTableAlignsColumns(t *testing.T) {
	tbl := newTextTable([]string{"Day", "Sessions", "Focus"}, alignLeft, alignRight, alignRight)
	tbl.addRow("Mon 2026-03-02", "4", "1h40m")
	tbl.addRow("Tue 2026-03-03", "12", "5h00m")

	lines := tbl.lines()
	want := []string{
		"Day             Sessions  Focus",
		"──────────────  ────────  ─────",
		"Mon 2026-03-02         4  1h40m",
		"Tue 2026-03-03        12  5h00m",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTextTableWideRunes(t *testing.T) {
	tbl := newTextTable([]string{"名前", "n"})
	tbl.addRow("a", "1")
	lines := tbl.lines()
	if lines[2] != "a     1" {
		t.Fatalf("expected padding by display width, got %q", lines[2])
	}
}

func TestTextTableRaggedRows(t *testing.T) {
	tbl := newTextTable(nil)
	tbl.addRow("a")
	tbl.addRow("bb", "c")
	lines := tbl.lines()
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "bb  c" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}
