package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/state"
	"github.com/litescript/ls-orbits/internal/target"
)

// Discrete zoom levels for clean stepping
var zoomLevels = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

const defaultZoom = 3 // Index of 1.0

// Simulation speed-ups applied to wall-clock animation time.
var warpLevels = []float64{1, 10, 60, 600, 3600, 86400, 864000}

const defaultWarp = 2

// Canvas glyphs
const (
	glyphPathFront = '•'
	glyphPathBack  = '·'
	glyphBody      = '◆'
	glyphPeri      = 'P'
	glyphApo       = 'A'
	glyphSun       = '☼'
	glyphEarth     = '⊕'
	glyphSunCenter = '☉'
	glyphLimb      = '○'
)

// Character cells are about twice as tall as wide.
const cellAspect = 0.5

// OrbitModel renders the selected target's orbit as a projected polyline.
type OrbitModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	prop     *orbit.Propagator

	view      astro.View
	zoomLevel int
	warpLevel int
	paused    bool
	showStars bool

	// simTime is the instant the position marker is drawn at.
	simTime time.Time
}

// NewOrbitModel creates a new orbit view model.
func NewOrbitModel(prop *orbit.Propagator) OrbitModel {
	return OrbitModel{
		prop:      prop,
		view:      astro.DefaultView(),
		zoomLevel: defaultZoom,
		warpLevel: defaultWarp,
		showStars: true,
		simTime:   time.Now().UTC(),
	}
}

func (m OrbitModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

func (m OrbitModel) warp() float64 {
	if m.warpLevel < 0 || m.warpLevel >= len(warpLevels) {
		return 1.0
	}
	return warpLevels[m.warpLevel]
}

// SetSize updates the viewport size.
func (m OrbitModel) SetSize(width, height int) OrbitModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m OrbitModel) UpdateData(snapshot state.Snapshot) OrbitModel {
	m.snapshot = snapshot
	return m
}

// SetTime moves the simulation clock.
func (m OrbitModel) SetTime(t time.Time) OrbitModel {
	m.simTime = t.UTC()
	return m
}

// Advance moves the simulation clock by wall-clock d times the warp factor.
func (m OrbitModel) Advance(d time.Duration) OrbitModel {
	if m.paused {
		return m
	}
	m.simTime = m.simTime.Add(time.Duration(float64(d) * m.warp()))
	return m
}

// Update handles input messages.
func (m OrbitModel) Update(msg tea.Msg) (OrbitModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "h", "left":
		m.view.YawDeg = astro.NormalizeDeg(m.view.YawDeg - 15)
	case "l", "right":
		m.view.YawDeg = astro.NormalizeDeg(m.view.YawDeg + 15)
	case "k", "up":
		m.view.PitchDeg = math.Min(90, m.view.PitchDeg+15)
	case "j", "down":
		m.view.PitchDeg = math.Max(-90, m.view.PitchDeg-15)
	case "v":
		m.view = astro.DefaultView()
	case "T":
		m.view = astro.TopDownView()

	case "+", "=":
		if m.zoomLevel < len(zoomLevels)-1 {
			m.zoomLevel++
		}
	case "-":
		if m.zoomLevel > 0 {
			m.zoomLevel--
		}
	case "0":
		m.zoomLevel = defaultZoom

	case "]":
		if m.warpLevel < len(warpLevels)-1 {
			m.warpLevel++
		}
	case "[":
		if m.warpLevel > 0 {
			m.warpLevel--
		}
	case "p", " ":
		m.paused = !m.paused
	case "c":
		m.simTime = time.Now().UTC()

	case "t":
		m.showStars = !m.showStars
	}
	return m, nil
}

// View renders the orbit canvas with a HUD.
func (m OrbitModel) View() string {
	t := m.snapshot.SelectedTarget()
	if t == nil {
		return "No target selected.\n"
	}
	if !t.OK() {
		var b strings.Builder
		b.WriteString(titleStyle.Render(t.Label()))
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("No orbit: " + errString(t.Err)))
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString(m.renderHUD(t))
	b.WriteString("\n")
	b.WriteString(m.buildCanvas(t))
	return b.String()
}

// canvas maps projected kilometers to character cells.
type canvas struct {
	grid   [][]rune
	cx, cy int
	ppk    float64 // Cells per projected km along X
}

func newCanvas(width, height int, extent float64, zoom float64) canvas {
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	// Fit the extent into the tighter half-dimension, one cell of margin.
	halfW := float64(width)/2 - 1
	halfH := (float64(height)/2 - 1) / cellAspect
	fit := math.Min(halfW, halfH)
	ppk := 1.0
	if extent > 0 && fit > 0 {
		ppk = fit / extent * zoom
	}
	return canvas{grid: grid, cx: width / 2, cy: height / 2, ppk: ppk}
}

func (c canvas) cell(p astro.ProjectedPoint) (int, int) {
	x := c.cx + int(math.Round(p.X*c.ppk))
	y := c.cy - int(math.Round(p.Y*c.ppk*cellAspect))
	return x, y
}

func (c canvas) inside(x, y int) bool {
	return y >= 0 && y < len(c.grid) && x >= 0 && x < len(c.grid[y])
}

func (c canvas) set(x, y int, r rune) {
	if c.inside(x, y) {
		c.grid[y][x] = r
	}
}

// setEmpty draws r only over blank or starfield cells.
func (c canvas) setEmpty(x, y int, r rune) {
	if !c.inside(x, y) {
		return
	}
	switch c.grid[y][x] {
	case ' ', '∗', '⋆', '˙':
		c.grid[y][x] = r
	}
}

func (m OrbitModel) buildCanvas(t *target.Target) string {
	canvasW := m.width - 4
	canvasH := m.height - 3
	if canvasW < 20 {
		canvasW = 20
	}
	if canvasH < 8 {
		canvasH = 8
	}

	path := t.Track.Path
	extent := astro.Extent(path, m.view)
	cv := newCanvas(canvasW, canvasH, extent, m.scale())

	if m.showStars {
		m.drawStarfield(cv)
	}

	bodyR := t.Body.RadiusKm * cv.ppk
	m.drawCentralBody(cv, t.Body, bodyR)
	m.drawPath(cv, path, t.Body.RadiusKm)
	m.drawApsides(cv, path)

	if t.Kind == target.KindSatellite {
		m.drawSunMarker(cv)
	}

	if pos, ok := t.PositionAt(m.prop, m.simTime); ok {
		x, y := cv.cell(astro.Project(pos, m.view))
		cv.set(x, y, glyphBody)
	}

	return m.renderGrid(cv.grid)
}

// drawStarfield places bright stars on a shell just outside the viewport.
func (m OrbitModel) drawStarfield(cv canvas) {
	shell := float64(len(cv.grid[0])) / cv.ppk
	for _, star := range astro.BrightStars(2.0) {
		p := astro.Project(star.Direction().Scale(shell), m.view)
		if p.Depth > 0 {
			continue // Only the far hemisphere is behind the orbit
		}
		x, y := cv.cell(p)
		cv.setEmpty(x, y, star.Glyph())
	}
}

func (m OrbitModel) drawCentralBody(cv canvas, body orbit.Body, r float64) {
	center := glyphEarth
	if body.Name == orbit.Sun.Name {
		center = glyphSunCenter
	}
	if r >= 1.5 {
		steps := int(math.Min(360, math.Max(16, 2*math.Pi*r)))
		for i := 0; i < steps; i++ {
			theta := 2 * math.Pi * float64(i) / float64(steps)
			x := cv.cx + int(math.Round(r*math.Cos(theta)))
			y := cv.cy - int(math.Round(r*math.Sin(theta)*cellAspect))
			cv.set(x, y, glyphLimb)
		}
	}
	cv.set(cv.cx, cv.cy, center)
}

// drawPath connects consecutive samples so the polyline has no gaps at any
// zoom. Segments hidden behind the central body are skipped.
func (m OrbitModel) drawPath(cv canvas, path []astro.Vec3, bodyRadius float64) {
	for i := 0; i+1 < len(path); i++ {
		a := astro.Project(path[i], m.view)
		b := astro.Project(path[i+1], m.view)
		ax, ay := cv.cell(a)
		bx, by := cv.cell(b)

		steps := max(abs(bx-ax), abs(by-ay), 1)
		for s := 0; s <= steps; s++ {
			f := float64(s) / float64(steps)
			px := a.X + f*(b.X-a.X)
			py := a.Y + f*(b.Y-a.Y)
			depth := a.Depth + f*(b.Depth-a.Depth)
			if depth < 0 && math.Hypot(px, py) < bodyRadius {
				continue
			}
			glyph := glyphPathFront
			if depth < 0 {
				glyph = glyphPathBack
			}
			x := ax + int(math.Round(f*float64(bx-ax)))
			y := ay + int(math.Round(f*float64(by-ay)))
			cv.setEmpty(x, y, glyph)
			if glyph == glyphPathFront && cv.inside(x, y) && cv.grid[y][x] == glyphPathBack {
				cv.grid[y][x] = glyphPathFront
			}
		}
	}
}

// drawApsides marks the first sample (periapsis) and the farthest sample.
func (m OrbitModel) drawApsides(cv canvas, path []astro.Vec3) {
	if len(path) < 2 {
		return
	}
	far := 0
	for i, p := range path {
		if p.Norm() > path[far].Norm() {
			far = i
		}
	}
	px, py := cv.cell(astro.Project(path[0], m.view))
	cv.set(px, py, glyphPeri)
	if far != 0 {
		ax, ay := cv.cell(astro.Project(path[far], m.view))
		cv.set(ax, ay, glyphApo)
	}
}

// drawSunMarker puts the Sun glyph on the canvas edge in the Sun's direction.
func (m OrbitModel) drawSunMarker(cv canvas) {
	dir := astro.Project(astro.SunDirection(m.simTime), m.view)
	n := math.Hypot(dir.X, dir.Y)
	if n < 1e-6 {
		return // Sun along the line of sight
	}
	dx, dy := dir.X/n, dir.Y/n
	h := len(cv.grid)
	w := len(cv.grid[0])
	// Walk out from the center until the next step leaves the grid.
	x, y := cv.cx, cv.cy
	for r := 1.0; ; r++ {
		nx := cv.cx + int(math.Round(dx*r))
		ny := cv.cy - int(math.Round(dy*r*cellAspect))
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			break
		}
		x, y = nx, ny
	}
	cv.set(x, y, glyphSun)
}

func (m OrbitModel) renderGrid(grid [][]rune) string {
	var b strings.Builder

	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	frontStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	backStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("24"))
	bodyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	apsisStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	earthStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	for _, row := range grid {
		b.WriteString("  ")
		for _, ch := range row {
			var style lipgloss.Style
			switch ch {
			case ' ':
				b.WriteRune(ch)
				continue
			case '∗', '⋆', '˙':
				style = starStyle
			case glyphPathFront:
				style = frontStyle
			case glyphPathBack:
				style = backStyle
			case glyphBody:
				style = bodyStyle
			case glyphPeri, glyphApo:
				style = apsisStyle
			case glyphSun, glyphSunCenter:
				style = sunStyle
			case glyphEarth, glyphLimb:
				style = earthStyle
			default:
				style = dimStyle
			}
			b.WriteString(style.Render(string(ch)))
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func (m OrbitModel) renderHUD(t *target.Target) string {
	var b strings.Builder

	headStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	field := func(label, value string) {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(label + " "))
		b.WriteString(valueStyle.Render(value))
	}

	b.WriteString(headStyle.Render("◆ " + t.Label()))
	q := t.Track.Quantities
	if q.Available {
		field("Period", astro.FormatMinutes(q.PeriodMinutes))
		field("Apo", astro.FormatDistanceKm(q.ApoapsisAltKm))
		field("Peri", astro.FormatDistanceKm(q.PeriapsisAltKm))
	}
	field("e", fmt.Sprintf("%.4f", t.Elements.Eccentricity))
	field("i", fmt.Sprintf("%.1f°", t.Elements.InclinationDeg))
	b.WriteString("\n")

	pos, ok := t.PositionAt(m.prop, m.simTime)
	if ok {
		field("r", astro.FormatDistanceKm(pos.Norm()))
	}
	field("Yaw", fmt.Sprintf("%.0f°", m.view.YawDeg))
	field("Pitch", fmt.Sprintf("%.0f°", m.view.PitchDeg))
	field("Zoom", fmt.Sprintf("%.2gx", m.scale()))
	field("Warp", fmt.Sprintf("%gx", m.warp()))
	field("T", m.simTime.Format("2006-01-02 15:04:05Z"))
	if m.paused {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render("PAUSED"))
	}
	return b.String()
}

// Paused reports whether the animation clock is stopped.
func (m OrbitModel) Paused() bool {
	return m.paused
}

// ViewAngles returns the current camera orientation.
func (m OrbitModel) ViewAngles() astro.View {
	return m.view
}

func errString(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
