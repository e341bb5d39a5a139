// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/state"
	"github.com/litescript/ls-orbits/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewOrbit
	ViewDetail
)

const viewCount = 3

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a freshly loaded target set.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a load error.
	ErrorMsg struct {
		Error error
	}

	// SelectMsg asks the root model to select the target at Index.
	SelectMsg struct {
		Index int
	}

	// OpenViewMsg switches to another view, keeping the selection.
	OpenViewMsg struct {
		View ViewMode
	}

	// reloadDoneMsg reports the result of a manual reload.
	reloadDoneMsg struct {
		err error
	}
)

// Reloader re-fetches the target set and pushes it into the state manager.
type Reloader func() error

// Model is the root Bubble Tea model.
type Model struct {
	state  *state.Manager
	reload Reloader

	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	reloading bool

	list   ListModel
	orbit  OrbitModel
	detail DetailModel

	snapshot state.Snapshot
}

// New creates a new root UI model. reload may be nil when the source cannot
// be re-read, e.g. a one-shot stdin catalog.
func New(stateMgr *state.Manager, prop *orbit.Propagator, reload Reloader) Model {
	m := Model{
		state:    stateMgr,
		reload:   reload,
		viewMode: ViewList,
		list:     NewListModel(),
		orbit:    NewOrbitModel(prop),
		detail:   NewDetailModel(),
	}
	m.setSnapshot(stateMgr.Snapshot())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.viewMode = ViewList
		case "2", "o":
			m.viewMode = ViewOrbit
		case "3", "i":
			m.viewMode = ViewDetail
		case "esc":
			m.viewMode = ViewList

		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount
		case "shift+tab":
			m.viewMode = (m.viewMode + viewCount - 1) % viewCount

		case "n":
			m.state.Move(1)
			m.setSnapshot(m.state.Snapshot())
		case "N":
			m.state.Move(-1)
			m.setSnapshot(m.state.Snapshot())

		case "r":
			if cmd := m.startReload(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo, tabs and footer take ~12 lines
		contentHeight := msg.Height - 12
		if contentHeight < 4 {
			contentHeight = 4
		}
		m.list = m.list.SetSize(msg.Width, contentHeight)
		m.orbit = m.orbit.SetSize(msg.Width, contentHeight)
		m.detail = m.detail.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.setSnapshot(m.state.Snapshot())
		m.detail = m.detail.SetTime(time.Time(msg))

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		m.orbit = m.orbit.Advance(animInterval)

	case DataUpdateMsg:
		m.setSnapshot(msg.Snapshot)

	case SelectMsg:
		m.state.Select(msg.Index)
		m.setSnapshot(m.state.Snapshot())

	case OpenViewMsg:
		m.viewMode = msg.View

	case reloadDoneMsg:
		m.reloading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Reload failed: %v", msg.err)
			cmds = append(cmds, SendError(msg.err))
		} else {
			m.statusMsg = ""
		}
		cmds = append(cmds, SendDataUpdate(m.state.Snapshot()))

	case ErrorMsg:
		m.list = m.list.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setSnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.list = m.list.UpdateData(snap)
	m.orbit = m.orbit.UpdateData(snap)
	m.detail = m.detail.UpdateData(snap)
}

func (m *Model) startReload() tea.Cmd {
	if m.reload == nil || m.reloading {
		return nil
	}
	m.reloading = true
	m.statusMsg = "Reloading..."
	reload := m.reload
	return func() tea.Msg {
		return reloadDoneMsg{err: reload()}
	}
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewOrbit:
		m.orbit, cmd = m.orbit.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewList:
		content = m.list.View()
	case ViewOrbit:
		content = m.orbit.View()
	case ViewDetail:
		content = m.detail.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗      ██████╗ ██████╗ ██████╗ ██╗████████╗███████╗`,
		`  ██║     ██╔════╝     ██╔═══██╗██╔══██╗██╔══██╗██║╚══██╔══╝██╔════╝`,
		`  ██║     ███████╗████╗██║   ██║██████╔╝██████╔╝██║   ██║   ███████╗`,
		`  ██║     ╚════██║╚═══╝██║   ██║██╔══██╗██╔══██╗██║   ██║   ╚════██║`,
		`  ███████╗███████║     ╚██████╔╝██║  ██║██████╔╝██║   ██║   ███████║`,
		`  ╚══════╝╚══════╝      ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚═╝   ╚═╝   ╚══════╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Two-body orbits from TLEs and NeoWs · v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient,
// teal through blue to violet, fading toward the bottom rows.
func gradientColor(col, row, width, height int) string {
	x := float64(col) / float64(width)
	y := float64(row) / float64(height)

	type rgb struct{ r, g, b float64 }
	stops := []rgb{{20, 184, 166}, {59, 130, 246}, {139, 92, 246}}

	var from, to rgb
	var t float64
	if x < 0.5 {
		from, to, t = stops[0], stops[1], x/0.5
	} else {
		from, to, t = stops[1], stops[2], (x-0.5)/0.5
	}

	fade := 1.0 - y*0.5
	c := func(a, b float64) int {
		v := int((a + t*(b-a)) * fade)
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}
	return fmt.Sprintf("#%02X%02X%02X", c(from.r, to.r), c(from.g, to.g), c(from.b, to.b))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Targets", "[2] Orbit", "[3] Detail"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6"))

	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastLoad.IsZero():
		status = dimStyle.Render(fmt.Sprintf("%s · %d targets", m.snapshot.Source, len(m.snapshot.Targets)))
		if interval := m.state.RefreshInterval(); interval > 0 {
			next := time.Until(m.snapshot.LastLoad.Add(interval)).Round(time.Second)
			if next < 0 {
				next = 0
			}
			status = accentStyle.Render(spinner) + " " + status + dimStyle.Render(fmt.Sprintf(" · refresh in %s", next))
		}
	default:
		status = accentStyle.Render(spinner) + dimStyle.Render(" Waiting for targets...")
	}

	var help string
	switch m.viewMode {
	case ViewOrbit:
		help = "h/l: yaw | j/k: pitch | +/-: zoom | [/]: warp | p: pause | t: stars | v: reset"
	case ViewDetail:
		help = "n/N: next/prev target | r: reload"
	default:
		help = "↑↓: select | enter: orbit | i: detail | r: reload | tab: switch view"
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// ActiveView returns the current view mode.
func (m Model) ActiveView() ViewMode {
	return m.viewMode
}

const (
	tickInterval = 500 * time.Millisecond
	animInterval = 80 * time.Millisecond
)

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(animInterval, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}
