package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	columnGap = "  "
	ruleRune  = "─"
)

type align int

const (
	alignLeft align = iota
	alignRight
)

// textTable lays out cells in columns sized by display width, with a rule
// under the header.
type textTable struct {
	headers []string
	aligns  []align
	rows    [][]string
}

func newTextTable(headers []string, aligns ...align) *textTable {
	return &textTable{headers: headers, aligns: aligns}
}

func (t *textTable) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *textTable) columns() int {
	n := len(t.headers)
	for _, row := range t.rows {
		n = max(n, len(row))
	}
	return n
}

func (t *textTable) widths() []int {
	widths := make([]int, t.columns())
	measure := func(cells []string) {
		for i, cell := range cells {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *textTable) lines() []string {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.rows)+2)
	if len(t.headers) > 0 {
		rule := make([]string, len(widths))
		for i, w := range widths {
			rule[i] = strings.Repeat(ruleRune, w)
		}
		out = append(out, t.render(t.headers, widths), strings.Join(rule, columnGap))
	}
	for _, row := range t.rows {
		out = append(out, t.render(row, widths))
	}
	return out
}

func (t *textTable) render(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i < len(t.aligns) && t.aligns[i] == alignRight {
			parts[i] = runewidth.FillLeft(cell, w)
		} else {
			parts[i] = runewidth.FillRight(cell, w)
		}
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}
