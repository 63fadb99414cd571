// Package statsui provides the Bubble Tea history browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/zenfocus/internal/model"
	"github.com/verte-zerg/zenfocus/internal/stats"
	"github.com/verte-zerg/zenfocus/internal/timer"
)

const (
	tabOverview = iota
	tabDays
	tabLog
)

const (
	plotHeight = 8
	topDays    = 3
)

const (
	inputPhase = iota
	inputSince
	inputLast
	inputWindow
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#10B981"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#334155"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#334155"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history browser.
type Model struct {
	src    stats.Source
	filter model.HistoryFilter
	now    func() time.Time

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	days      table.Model
	log       table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a history browser reading from src.
func NewModel(src stats.Source, filter model.HistoryFilter) *Model {
	m := &Model{
		src:      src,
		filter:   filter,
		now:      time.Now,
		tabs:     []string{"Overview", "Days", "Log"},
		overview: viewport.New(0, 0),
		days:     newTable(dayColumns()),
		log:      newTable(logColumns()),
	}
	if m.filter.Window <= 0 {
		m.filter.Window = stats.DefaultWindow
	}
	m.initInputs()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=", "+":
			m.filter.Window = nextWindow(m.filter.Window)
			m.report.Window = m.filter.Window
			m.renderOverview()
			return m, nil
		case "-":
			m.filter.Window = prevWindow(m.filter.Window)
			m.report.Window = m.filter.Window
			m.renderOverview()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			m.gotoEdge(true)
			return m, nil
		case "G", "end":
			m.gotoEdge(false)
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabDays:
			m.days, cmd = m.days.Update(msg)
		case tabLog:
			m.log, cmd = m.log.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func newTable(columns []table.Column) table.Model {
	t := table.New(table.WithColumns(columns), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

func dayColumns() []table.Column {
	return []table.Column{
		{Title: "Day", Width: 15},
		{Title: "Sessions", Width: 8},
		{Title: "Focus", Width: 7},
		{Title: "Breaks", Width: 6},
		{Title: "Break time", Width: 10},
	}
}

func logColumns() []table.Column {
	return []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Phase", Width: 6},
		{Title: "Planned", Width: 7},
		{Title: "Started", Width: 8},
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Phase (focus|break): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last days: "),
		newFilterInput("Avg window: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	m.filterInputs[inputPhase].SetValue(m.filter.Phase.String())
	since := ""
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	m.filterInputs[inputSince].SetValue(since)
	last := ""
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	m.filterInputs[inputLast].SetValue(last)
	m.filterInputs[inputWindow].SetValue(strconv.Itoa(m.filter.Window))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range []*table.Model{&m.days, &m.log} {
		t.SetWidth(m.width)
		// Header row and its border take two lines.
		t.SetHeight(max(bodyHeight-2, 1))
	}
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	m.days.Blur()
	m.log.Blur()
	switch m.activeTab {
	case tabDays:
		m.days.Focus()
	case tabLog:
		m.log.Focus()
	}
}

func (m *Model) gotoEdge(top bool) {
	switch m.activeTab {
	case tabDays:
		if top {
			m.days.GotoTop()
		} else {
			m.days.GotoBottom()
		}
	case tabLog:
		if top {
			m.log.GotoTop()
		} else {
			m.log.GotoBottom()
		}
	default:
		if top {
			m.overview.GotoTop()
		} else {
			m.overview.GotoBottom()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + headerStyle.Render(runewidth.Truncate(m.filterSummary(), m.width, "..."))
}

func (m *Model) filterSummary() string {
	phase := "any"
	if m.filter.Phase != "" {
		phase = m.filter.Phase.String()
	}
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	last := "all"
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	return fmt.Sprintf("Filter: phase=%s  since=%s  last=%s days  window=%d", phase, since, last, m.filter.Window)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Filter (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	switch m.activeTab {
	case tabDays:
		if len(m.report.Days) == 0 {
			return "No days recorded."
		}
		return tableMutedStyle.Render(m.days.View())
	case tabLog:
		if len(m.report.Phases) == 0 {
			return "No phases recorded."
		}
		return tableMutedStyle.Render(m.log.View())
	}
	return m.overview.View()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	_, dayRows := stats.DayRows(report.Days)
	m.days.SetRows(toRows(dayRows))
	m.log.SetRows(logRows(report.Phases))
	m.days.GotoTop()
	m.log.GotoTop()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.now(), width))
}

func renderOverview(report stats.Report, now time.Time, width int) string {
	if len(report.Days) == 0 {
		return "No phases recorded."
	}
	parts := []string{renderSummaryCards(stats.Summarize(report.Days, now), width)}

	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, report.Days, report.Window, width, plotHeight, true); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render curves: %v", err))
	} else {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}

	if best := stats.TopDays(report.Days, topDays); len(best) > 0 {
		lines := []string{headerStyle.Render("Top days")}
		for i, d := range best {
			lines = append(lines, fmt.Sprintf("%d. %s  %d sessions  %s",
				i+1, d.Day.Format("Mon 2006-01-02"), d.FocusSessions, stats.FormatDuration(d.FocusTime)))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func renderSummaryCards(s stats.Summary, width int) string {
	cards := []string{
		metricCard("Focus sessions", strconv.Itoa(s.FocusSessions)),
		metricCard("Focus time", stats.FormatDuration(s.FocusTime)),
		metricCard("Avg per day", stats.FormatDuration(s.AvgFocusPerActiveDay())),
		metricCard("Streak", fmt.Sprintf("%d days", s.CurrentStreak)),
		metricCard("Longest", fmt.Sprintf("%d days", s.LongestStreak)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func toRows(rows [][]string) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row(r)
	}
	return out
}

func logRows(phases []model.PhaseRecord) []table.Row {
	rows := make([]table.Row, 0, len(phases))
	for i := len(phases) - 1; i >= 0; i-- {
		p := phases[i]
		rows = append(rows, table.Row{
			p.EndedAt.Local().Format("2006-01-02 15:04"),
			p.Phase.String(),
			stats.FormatDuration(p.Planned),
			p.StartedAt.Local().Format("15:04"),
		})
	}
	return rows
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		filter, err := m.parseFilter()
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filter = filter
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) parseFilter() (model.HistoryFilter, error) {
	var filter model.HistoryFilter

	if raw := strings.TrimSpace(m.filterInputs[inputPhase].Value()); raw != "" && raw != "any" {
		phase, err := timer.ParsePhase(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid phase (use focus or break)")
		}
		filter.Phase = phase
	}

	if raw := strings.TrimSpace(m.filterInputs[inputSince].Value()); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		filter.Since = &parsed
	}

	if raw := strings.TrimSpace(m.filterInputs[inputLast].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return filter, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		filter.Last = parsed
	}

	filter.Window = stats.DefaultWindow
	if raw := strings.TrimSpace(m.filterInputs[inputWindow].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return filter, fmt.Errorf("invalid window (use integer >= 1)")
		}
		filter.Window = parsed
	}
	return filter, nil
}

func nextWindow(n int) int {
	if n < 7 {
		return 7
	}
	return n + 7
}

func prevWindow(n int) int {
	if n <= 7 {
		return 1
	}
	return n - 7
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
