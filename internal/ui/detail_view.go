package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/state"
	"github.com/litescript/ls-orbits/internal/target"
)

// DetailModel shows elements, derived quantities and, for full-width TLEs,
// the SGP4 sub-satellite point of the selected target.
type DetailModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	now      time.Time
	showRaw  bool
}

// NewDetailModel creates a new detail model.
func NewDetailModel() DetailModel {
	return DetailModel{now: time.Now().UTC()}
}

// SetSize updates the viewport size.
func (m DetailModel) SetSize(width, height int) DetailModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DetailModel) UpdateData(snapshot state.Snapshot) DetailModel {
	m.snapshot = snapshot
	return m
}

// SetTime sets the instant the ground point is computed for.
func (m DetailModel) SetTime(t time.Time) DetailModel {
	m.now = t.UTC()
	return m
}

// Update handles messages.
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "w" {
		m.showRaw = !m.showRaw
	}
	return m, nil
}

var (
	detailHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#14B8A6"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Width(18)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	rawStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("235"))
)

// View renders the detail panel.
func (m DetailModel) View() string {
	t := m.snapshot.SelectedTarget()
	if t == nil {
		return "No target selected.\n"
	}

	var b strings.Builder
	name := t.Label()
	b.WriteString(detailHeaderStyle.Render(name))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s %s", t.Kind, t.ID)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", len([]rune(name))+4))
	b.WriteString("\n\n")

	if t.Err != nil {
		b.WriteString(errorStyle.Render("Error: " + t.Err.Error()))
		b.WriteString("\n\n")
		b.WriteString(m.renderRaw(t))
		return b.String()
	}

	b.WriteString(m.renderElements(t))
	b.WriteString("\n")
	b.WriteString(m.renderQuantities(t.Track.Quantities, t.Body))

	if t.TLE != nil {
		b.WriteString("\n")
		b.WriteString(m.renderTLEInfo(t))
		b.WriteString("\n")
		b.WriteString(m.renderGround(t))
	}

	if m.showRaw {
		b.WriteString("\n")
		b.WriteString(m.renderRaw(t))
	}
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(detailLabelStyle.Render(label))
	b.WriteString(detailValueStyle.Render(value))
	b.WriteString("\n")
}

func (m DetailModel) renderElements(t *target.Target) string {
	var b strings.Builder
	el := t.Elements

	b.WriteString(titleStyle.Render("Elements"))
	b.WriteString("\n")
	row(&b, "Semi-major axis:", astro.FormatDistanceKm(el.SemiMajorAxisKm))
	row(&b, "Eccentricity:", fmt.Sprintf("%.7f", el.Eccentricity))
	row(&b, "Inclination:", fmt.Sprintf("%.4f°", el.InclinationDeg))
	row(&b, "RAAN:", fmt.Sprintf("%.4f°", el.RAANDeg))
	row(&b, "Arg. of perigee:", fmt.Sprintf("%.4f°", el.ArgPerigeeDeg))
	if el.HasMeanAnomaly {
		row(&b, "Mean anomaly:", fmt.Sprintf("%.4f°", el.MeanAnomalyDeg))
	} else {
		row(&b, "Mean anomaly:", "n/a")
	}
	if el.MeanMotionRevPerDay > 0 {
		row(&b, "Mean motion:", fmt.Sprintf("%.8f rev/day", el.MeanMotionRevPerDay))
	}
	if !el.Epoch.IsZero() {
		row(&b, "Epoch:", el.Epoch.Format("2006-01-02 15:04:05Z"))
	}
	if t.Class != "" {
		row(&b, "Orbit class:", t.Class)
	}
	return b.String()
}

func (m DetailModel) renderQuantities(q orbit.Quantities, body orbit.Body) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Derived"))
	b.WriteString(dimStyle.Render(" around " + body.Name))
	b.WriteString("\n")
	if !q.Available {
		b.WriteString(dimStyle.Render("  period and apsides unavailable without a mean motion"))
		b.WriteString("\n")
		return b.String()
	}
	row(&b, "Period:", astro.FormatMinutes(q.PeriodMinutes))
	row(&b, "Apoapsis alt:", astro.FormatDistanceKm(q.ApoapsisAltKm))
	row(&b, "Periapsis alt:", astro.FormatDistanceKm(q.PeriapsisAltKm))
	return b.String()
}

func (m DetailModel) renderTLEInfo(t *target.Target) string {
	var b strings.Builder
	e := t.TLE

	b.WriteString(titleStyle.Render("Element set"))
	b.WriteString("\n")
	row(&b, "Catalog:", fmt.Sprintf("%05d%c", e.CatalogNumber, e.Classification))
	if e.IntlDesignator != "" {
		row(&b, "Intl designator:", e.IntlDesignator)
	}
	row(&b, "Age:", formatAge(e.Age(m.now)))
	row(&b, "ṅ/2:", fmt.Sprintf("%.8f rev/day²", e.MeanMotionDot))
	if e.Full() {
		row(&b, "B*:", fmt.Sprintf("%.4e", e.BStar))
		row(&b, "Revolution:", fmt.Sprintf("%d", e.RevolutionNumber))
	}
	return b.String()
}

func (m DetailModel) renderGround(t *target.Target) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SGP4 now"))
	b.WriteString("\n")

	g, err := t.Ground(m.now)
	if err != nil {
		b.WriteString(dimStyle.Render("  " + err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	row(&b, "Latitude:", fmt.Sprintf("%+.3f°", g.LatDeg))
	row(&b, "Longitude:", fmt.Sprintf("%+.3f°", g.LonDeg))
	row(&b, "Altitude:", fmt.Sprintf("%.1f km", g.AltKm))
	row(&b, "Speed:", fmt.Sprintf("%.3f km/s", g.SpeedKmS))

	lit := "sunlit"
	if astro.InShadow(g.ECI, astro.SunDirection(m.now), orbit.Earth.RadiusKm) {
		lit = "eclipsed"
	}
	row(&b, "Lighting:", lit)
	return b.String()
}

func (m DetailModel) renderRaw(t *target.Target) string {
	raw := t.RawText()
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Raw TLE"))
	b.WriteString("\n")
	for _, line := range strings.Split(raw, "\n") {
		b.WriteString(rawStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// formatAge formats an element set age, e.g. "3d 4h" or "in 2h" for an
// epoch in the future.
func formatAge(d time.Duration) string {
	prefix := ""
	if d < 0 {
		prefix = "in "
		d = -d
	}
	switch {
	case d < time.Hour:
		return prefix + fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return prefix + fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		days := int(d.Hours() / 24)
		return prefix + fmt.Sprintf("%dd %dh", days, int(d.Hours())%24)
	}
}

// ShowingRaw reports whether the raw TLE block is visible.
func (m DetailModel) ShowingRaw() bool {
	return m.showRaw
}
