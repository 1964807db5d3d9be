// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/controls"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/picking"
	"github.com/litescript/ls-orrery/internal/registry"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/selection"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/version"
)

// Layout.
const (
	headerLines = 1
	footerLines = 2
	minWidth    = panelWidth + 24
	minHeight   = 12

	defaultInterval = time.Second / 30
)

// FrameMsg is the display refresh tick.
type FrameMsg time.Time

// PickRecorder receives pick results. A nil PickRecorder is allowed.
type PickRecorder interface {
	Pick(hit bool)
}

// Deps are the simulation components the UI drives.
type Deps struct {
	Catalog   registry.Catalog
	Loop      *sim.Loop
	Store     *orbit.Store
	Graph     *scene.Graph
	Camera    *scene.PerspectiveCamera
	Selection *selection.Machine
	Controls  *controls.Surface
	Home      astro.Vec3    // Camera position for "fly home"
	Interval  time.Duration // Frame interval
	Picks     PickRecorder
	Logger    *logging.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	catalog   registry.Catalog
	loop      *sim.Loop
	store     *orbit.Store
	graph     *scene.Graph
	camera    *scene.PerspectiveCamera
	selection *selection.Machine
	surface   *controls.Surface
	home      astro.Vec3
	interval  time.Duration
	picks     PickRecorder
	logger    *logging.Logger

	// UI state
	width     int
	height    int
	ready     bool
	sliderIdx int
	editing   bool
	editBuf   string
	allLabels bool
	statusMsg string
}

// New creates the root UI model.
func New(deps Deps) Model {
	if deps.Interval <= 0 {
		deps.Interval = defaultInterval
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	return Model{
		catalog:   deps.Catalog,
		loop:      deps.Loop,
		store:     deps.Store,
		graph:     deps.Graph,
		camera:    deps.Camera,
		selection: deps.Selection,
		surface:   deps.Controls,
		home:      deps.Home,
		interval:  deps.Interval,
		picks:     deps.Picks,
		logger:    deps.Logger,
		allLabels: true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.interval)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			m.handleEditKey(msg)
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.pick(msg.X, msg.Y)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()

	case FrameMsg:
		m.loop.Tick()
		return m, frameCmd(m.interval)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return *m, tea.Quit

	case " ", "space":
		if m.loop.TogglePause() {
			m.statusMsg = "paused"
		} else {
			m.statusMsg = "running"
		}
	case "p":
		m.loop.Pause()
		m.statusMsg = "paused"
	case "r":
		m.loop.Resume()
		m.statusMsg = "running"
	case "t":
		m.statusMsg = "theme: " + m.loop.ToggleTheme().String()
	case "l":
		m.allLabels = !m.allLabels

	case "esc", "x":
		m.selection.Close()
	case "c":
		m.selection.Cancel()
	case "h":
		m.selection.FlyTo(m.home, astro.Vec3{})

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.selectIndex(int(key[0] - '1'))

	case "up", "k":
		if m.sliderIdx > 0 {
			m.sliderIdx--
		}
	case "down", "j":
		if m.sliderIdx < len(m.catalog.Bodies)-1 {
			m.sliderIdx++
		}
	case "left", "-":
		m.nudge(-1)
	case "right", "+", "=":
		m.nudge(1)
	case "e", "enter":
		if name, ok := m.sliderName(); ok {
			sl, _ := m.surface.Slider(name)
			m.editing = true
			m.editBuf = controls.FormatSpeed(sl.Value)
		}
	case "0":
		m.surface.Reset(m.catalog.Bodies)
		m.statusMsg = "speeds reset"
	}
	return *m, nil
}

// handleEditKey handles typing a speed value into the focused slider.
func (m *Model) handleEditKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.editBuf = ""
		return
	case tea.KeyEnter:
		name, _ := m.sliderName()
		outcome := m.surface.OnChange(name, m.editBuf)
		if outcome == controls.OutcomeApplied {
			m.statusMsg = fmt.Sprintf("%s speed = %s", name, m.editBuf)
		} else {
			m.statusMsg = fmt.Sprintf("%s: %q not applied (%s)", name, m.editBuf, outcome)
		}
		m.editing = false
		m.editBuf = ""
		return
	case tea.KeyBackspace:
		_, size := utf8.DecodeLastRuneInString(m.editBuf)
		m.editBuf = m.editBuf[:len(m.editBuf)-size]
		return
	case tea.KeyRunes:
		m.editBuf += string(msg.Runes)
	}
}

func (m *Model) sliderName() (string, bool) {
	if m.sliderIdx < 0 || m.sliderIdx >= len(m.catalog.Bodies) {
		return "", false
	}
	return m.catalog.Bodies[m.sliderIdx].Name, true
}

func (m *Model) nudge(steps int) {
	name, ok := m.sliderName()
	if !ok {
		return
	}
	m.surface.Nudge(name, steps)
}

// selectIndex selects the i-th orbiting body as if it had been picked.
func (m *Model) selectIndex(i int) {
	if i < 0 || i >= len(m.catalog.Bodies) {
		return
	}
	name := m.catalog.Bodies[i].Name
	pos, ok := m.bodyPosition(name)
	if !ok {
		return
	}
	st, _ := m.store.Get(name)
	m.sliderIdx = i
	m.selection.Select(name, pos, st.OrbitRadius)
}

func (m *Model) bodyPosition(name string) (astro.Vec3, bool) {
	h, ok := m.loop.Mesh(name)
	if !ok {
		return astro.Vec3{}, false
	}
	mesh, ok := m.graph.Mesh(h)
	if !ok {
		return astro.Vec3{}, false
	}
	return mesh.Position, true
}

// canvasSize returns the character grid the scene is drawn into.
func (m Model) canvasSize() (w, h int) {
	w = m.width - panelWidth
	h = m.height - headerLines - footerLines
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// viewport is the canvas rectangle in terminal cells.
func (m Model) viewport() picking.Viewport {
	w, h := m.canvasSize()
	return picking.Viewport{Left: 0, Top: headerLines, Width: float64(w), Height: float64(h)}
}

// resize keeps the projection's aspect ratio equal to the canvas's.
func (m *Model) resize() {
	w, h := m.canvasSize()
	m.camera.UpdateProjection(float64(w) / (float64(h) * CellAspect))
}

// pick resolves a click at terminal cell (x, y). Only orbiting bodies are
// candidates; a miss changes nothing.
func (m *Model) pick(x, y int) {
	vp := m.viewport()
	ptr := picking.Pointer{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	if !vp.Contains(ptr) {
		return
	}

	hit, ok := picking.Pick(ptr, vp, m.camera, m.candidates())
	if m.picks != nil {
		m.picks.Pick(ok)
	}
	if !ok {
		m.logger.Debug("pick at %d,%d: miss", x, y)
		return
	}

	st, _ := m.store.Get(hit.Name)
	m.logger.Debug("pick at %d,%d: %s", x, y, hit.Name)
	m.selection.Select(hit.Name, hit.Position, st.OrbitRadius)
	for i, d := range m.catalog.Bodies {
		if d.Name == hit.Name {
			m.sliderIdx = i
		}
	}
}

// candidates builds the hit spheres for the orbiting bodies. A sphere is
// never smaller than the cell its glyph occupies so that small bodies can
// still be clicked.
func (m Model) candidates() []picking.Candidate {
	_, h := m.canvasSize()
	out := make([]picking.Candidate, 0, len(m.catalog.Bodies))
	for _, d := range m.catalog.Bodies {
		pos, ok := m.bodyPosition(d.Name)
		if !ok {
			continue
		}
		radius := d.Size
		if p := m.camera.Project(pos); p.Depth > 0 {
			cell := m.camera.WorldPerNDC(p.Depth) * 2 / float64(h)
			if slop := cell * 0.75; slop > radius {
				radius = slop
			}
		}
		out = append(out, picking.Candidate{Name: d.Name, Center: pos, Radius: radius})
	}
	return out
}

// raster draws the last rendered frame at the current canvas size.
func (m Model) raster() *raster {
	w, h := m.canvasSize()
	return rasterize(m.graph.LastFrame(), m.camera, w, h, rasterOptions{
		selected:  m.selection.Selection().Name,
		allLabels: m.allLabels,
		central:   m.catalog.Central.Name,
		satellite: m.catalog.Satellite.Name,
	})
}

// ScreenPosition returns the terminal cell the named body was last drawn
// at.
func (m Model) ScreenPosition(name string) (x, y int, ok bool) {
	col, row, ok := m.raster().position(name)
	return col, row + headerLines, ok
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.width < minWidth || m.height < minHeight {
		return "Terminal too small for the orrery"
	}

	p := newPalette(m.loop.Theme())
	_, h := m.canvasSize()

	canvas := p.render(m.raster())
	side := m.renderSide(p, h)
	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, side)

	view := m.renderHeader(p) + "\n" + body + "\n" + m.renderFooter(p)
	if p.background != nil {
		view = lipgloss.NewStyle().
			Background(p.background).
			Width(m.width).
			Render(view)
	}
	return view
}

func (m Model) renderHeader(p palette) string {
	state := p.accent.Render("▶ running")
	if m.loop.Paused() {
		state = p.warn.Render("❚❚ paused")
	}
	return p.header.Render(fmt.Sprintf(" ls-orrery v%s", version.Version)) +
		p.dim.Render("  |  ") + state +
		p.dim.Render(fmt.Sprintf("  |  %s  |  frame %d  |  %s", m.loop.Mode(), m.loop.Frames(), m.loop.Theme()))
}

func (m Model) renderFooter(p palette) string {
	var help string
	if m.editing {
		help = "type a speed | enter: apply | esc: cancel"
	} else {
		help = "click/1-9: select | space: pause | t: theme | ↑↓: body | ←→: speed | e: edit | h: home | x: close | q: quit"
	}
	footer := " " + p.dim.Render(help)
	if m.statusMsg != "" {
		footer += "\n " + p.text.Render(m.statusMsg)
	} else {
		footer += "\n"
	}
	return footer
}

// Editing reports whether a speed is being typed.
func (m Model) Editing() bool {
	return m.editing
}

// SliderIndex returns the focused slider.
func (m Model) SliderIndex() int {
	return m.sliderIdx
}

// Status returns the last status message.
func (m Model) Status() string {
	return m.statusMsg
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
