package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orbits/internal/report"
	"github.com/litescript/ls-orbits/internal/state"
)

// Styles shared across views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#14B8A6"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("24"))

	rejectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// ListModel is the target table.
type ListModel struct {
	width    int
	height   int
	offset   int // First visible row
	snapshot state.Snapshot
	lastErr  error
}

// NewListModel creates a new list model.
func NewListModel() ListModel {
	return ListModel{}
}

// SetSize updates the viewport size.
func (m ListModel) SetSize(width, height int) ListModel {
	m.width = width
	m.height = height
	return m.scrollToSelection()
}

// UpdateData updates the model with new data.
func (m ListModel) UpdateData(snapshot state.Snapshot) ListModel {
	m.snapshot = snapshot
	if snapshot.LastError == nil {
		m.lastErr = nil
	}
	return m.scrollToSelection()
}

// SetError sets the last error for display.
func (m ListModel) SetError(err error) ListModel {
	m.lastErr = err
	return m
}

// Update handles key input. Selection changes are sent to the root model,
// which owns the selection through the state manager.
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	n := len(m.snapshot.Targets)
	if n == 0 {
		return m, nil
	}

	cur := m.snapshot.Selected
	switch key.String() {
	case "up", "k":
		if cur > 0 {
			return m, selectCmd(cur - 1)
		}
	case "down", "j":
		if cur < n-1 {
			return m, selectCmd(cur + 1)
		}
	case "pgup":
		return m, selectCmd(max(cur-m.visibleRows(), 0))
	case "pgdown":
		return m, selectCmd(min(cur+m.visibleRows(), n-1))
	case "home", "g":
		return m, selectCmd(0)
	case "end", "G":
		return m, selectCmd(n - 1)
	case "enter":
		return m, openViewCmd(ViewOrbit)
	}
	return m, nil
}

func selectCmd(i int) tea.Cmd {
	return func() tea.Msg { return SelectMsg{Index: i} }
}

func openViewCmd(v ViewMode) tea.Cmd {
	return func() tea.Msg { return OpenViewMsg{View: v} }
}

// visibleRows is how many table rows fit under the title and header.
func (m ListModel) visibleRows() int {
	rows := m.height - 4
	if rows < 1 {
		return 1
	}
	return rows
}

func (m ListModel) scrollToSelection() ListModel {
	sel := m.snapshot.Selected
	rows := m.visibleRows()
	if sel < m.offset {
		m.offset = sel
	}
	if sel >= m.offset+rows {
		m.offset = sel - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m
}

// View renders the target table.
func (m ListModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	if len(m.snapshot.Targets) == 0 {
		if m.lastErr == nil {
			b.WriteString("Waiting for targets...\n")
		}
		return b.String()
	}

	rows := report.GenerateSummaryRows(m.snapshot.Targets)
	ok := 0
	for _, r := range rows {
		if r.Status == "ok" {
			ok++
		}
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Targets · %d loaded, %d propagated", len(rows), ok)))
	b.WriteString("\n")

	header := fmt.Sprintf(" %-9s %-8s %-24s %-8s %-8s %-9s %-12s %-12s %-11s",
		"Kind", "ID", "Name", "Incl", "Ecc", "Period", "Apoapsis", "Periapsis", "Status")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	end := min(m.offset+m.visibleRows(), len(rows))
	for i := m.offset; i < end; i++ {
		r := rows[i]
		line := fmt.Sprintf(" %-9s %-8s %-24s %-8s %-8s %-9s %-12s %-12s %-11s",
			r.Kind, truncate(r.ID, 8), truncate(r.Name, 24), r.Incl, r.Ecc,
			r.Period, r.Apoapsis, r.Periapsis, r.Status)

		switch {
		case i == m.snapshot.Selected:
			b.WriteString(selectedRowStyle.Render(line))
		case r.Status != "ok":
			b.WriteString(rejectedRowStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(rows) > end || m.offset > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" %d-%d of %d", m.offset+1, end, len(rows))))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
