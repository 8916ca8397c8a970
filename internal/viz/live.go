package viz

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/scene"
	"github.com/san-kum/softbody/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 120
)

type TickMsg time.Time

// Model steps a scenario in real time and draws it with a braille canvas.
// Parameters of scenarios implementing dynamo.Configurable can be tuned
// while it runs.
type Model struct {
	scenario sim.Scenario
	t, dt    float64
	steps    int

	canvas *Canvas
	camera *Camera
	frame  *Wireframe
	trail  []mgl64.Vec3

	running  bool
	showHelp bool

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	energy []float64

	recording bool
	frames    []*image.Paletted
	GIFPath   string
	status    string
}

func NewModel(sc sim.Scenario, dt float64) Model {
	params := make(map[string]float64)
	initialParams := make(map[string]float64)
	if t, ok := sc.(dynamo.Configurable); ok {
		for k, v := range t.Params() {
			params[k] = v
			initialParams[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := Model{
		scenario:      sc,
		dt:            dt,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		frame:         NewWireframe(),
		running:       true,
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
		energy:        make([]float64, 0, historyCapacity),
		GIFPath:       sc.Name() + ".gif",
	}
	m.camera.Fit(framePoints(sc))
	return m
}

// RunLive blocks until the user quits.
func RunLive(sc sim.Scenario, dt float64) error {
	_, err := tea.NewProgram(NewModel(sc, dt), tea.WithAltScreen()).Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case ".":
			if !m.running {
				m.step()
			}
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "f":
			m.camera.Fit(framePoints(m.scenario))
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.frames = append(m.frames, Frame(m.canvas))
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam scales the selected parameter. Zero values are nudged by
// 0.1 instead so they can leave zero.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key]
	next := val * factor
	if val == 0 {
		next = 0.1 * math.Copysign(1, factor-1)
	}

	t := m.scenario.(dynamo.Configurable)
	if err := t.SetParam(key, next); err != nil {
		m.status = err.Error()
		return
	}
	m.params[key] = next
	m.status = ""
}

func (m *Model) step() {
	m.scenario.Step(m.dt)
	m.t += m.dt
	m.steps++

	m.energy = append(m.energy, metrics.TotalKinetic(m.scenario.Particles()))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}

	if ps := m.scenario.Particles(); len(ps) > 0 {
		if _, ok := m.scenario.(*scene.Pendulum); ok {
			m.trail = append(m.trail, ps[len(ps)-1].Position())
			if len(m.trail) > trailCapacity {
				m.trail = m.trail[1:]
			}
		}
	}
}

// reset restores the initial parameters and state.
func (m *Model) reset() {
	if t, ok := m.scenario.(dynamo.Configurable); ok {
		for k, v := range m.initialParams {
			if err := t.SetParam(k, v); err == nil {
				m.params[k] = v
			}
		}
	}
	m.scenario.Reset()
	m.t, m.steps = 0, 0
	m.energy = m.energy[:0]
	m.trail = m.trail[:0]
	m.status = ""
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		return
	}
	m.recording = false
	if err := SaveGIF(m.GIFPath, m.frames); err != nil {
		m.status = err.Error()
	} else {
		m.status = "saved " + m.GIFPath
		log.Debug("gif saved", "path", m.GIFPath, "frames", len(m.frames))
	}
	m.frames = nil
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.scenario.Name())) + "\n\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.recording {
		status += fmt.Sprintf("  REC %d", len(m.frames))
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle().Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle().Render(fmt.Sprintf("%d", m.steps)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle().Render(fmt.Sprintf("%d", len(m.scenario.Particles()))) + "\n")
	if len(m.energy) > 0 {
		s.WriteString(labelStyle.Render("Energy") + valueStyle().Render(fmt.Sprintf("%.3f J", m.energy[len(m.energy)-1])) + "\n")
	}

	labels, obs := m.scenario.Labels(), m.scenario.Observe()
	for i := 0; i < len(labels) && i < len(obs) && i < 6; i++ {
		s.WriteString(labelStyle.Render(labels[i]) + valueStyle().Render(fmt.Sprintf("%.3f", obs[i])) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		val, initial := m.params[k], m.initialParams[k]
		ratio := 0.5
		if initial != 0 {
			ratio = val / (2 * initial)
		}
		line := fmt.Sprintf("%-16s %s %.3g", k, ProgressBar(ratio, 8), val)
		if i == m.selected {
			s.WriteString(activeStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	if m.status != "" {
		s.WriteString("\n" + mutedStyle().Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nTab:Param ↑↓:Tune ?:Help"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + body
	}
	return body
}

const helpText = `
  Space    pause or resume
  .        single step while paused
  R        reset state and parameters
  Tab      next parameter
  Up/K     increase parameter 5%
  Down/J   decrease parameter 5%
  x/y/z    rotate view (shift reverses)
  +/-      zoom
  F        refit view
  G        start or stop GIF recording
  T        next theme
  ?        toggle this help
  Q        quit`

// draw rebuilds the wireframe for the current scenario and renders it.
func (m *Model) draw() {
	m.canvas.Clear()
	m.frame.Clear()

	switch s := m.scenario.(type) {
	case *scene.Cloth:
		sheet := s.Sheet()
		m.frame.AddCloth(sheet)
		cfg := sheet.Config()
		m.frame.AddGround(m.camera.Target, cfg.GroundHeight, 3, 7)
		Render(m.canvas, m.frame, m.camera)
	case *scene.Stack:
		for _, b := range s.Boxes() {
			m.frame.AddBox(b)
		}
		m.frame.AddGround(m.camera.Target, 0, 4, 9)
		Render(m.canvas, m.frame, m.camera)
		ball := s.Ball()
		m.drawDisc(ball.Position(), ball.Radius)
	case *scene.Pendulum:
		prev := s.Anchor()
		for _, b := range s.Particles() {
			m.frame.AddEdge(prev, b.Position())
			prev = b.Position()
		}
		Render(m.canvas, m.frame, m.camera)
		m.drawTrail(prev)
	case *scene.Bounce:
		m.frame.AddGround(m.camera.Target, 0, 4, 9)
		Render(m.canvas, m.frame, m.camera)
		for i, p := range s.Particles() {
			m.drawDisc(p.Position(), s.Radii()[i])
		}
	case *scene.Fountain:
		e := s.Emitter()
		m.frame.AddGround(m.camera.Target, e.Config().GroundHeight, 3, 7)
		Render(m.canvas, m.frame, m.camera)
		for _, p := range e.Positions() {
			m.drawDisc(p, 0)
		}
	default:
		for _, p := range m.scenario.Particles() {
			m.drawDisc(p.Position(), 0)
		}
	}
}

// drawDisc draws a filled disc whose radius is projected from world units.
func (m *Model) drawDisc(centre mgl64.Vec3, radius float64) {
	cw, ch := m.canvas.SubWidth(), m.canvas.SubHeight()
	x, y, _, ok := m.camera.Project(centre, cw, ch)
	if !ok {
		return
	}
	ex, _, _, _ := m.camera.Project(centre.Add(mgl64.Vec3{radius, 0, 0}), cw, ch)
	m.canvas.FillDisc(x, y, absInt(ex-x))
}

func (m *Model) drawTrail(tip mgl64.Vec3) {
	cw, ch := m.canvas.SubWidth(), m.canvas.SubHeight()
	for _, p := range m.trail {
		if x, y, _, ok := m.camera.Project(p, cw, ch); ok {
			m.canvas.Set(x, y)
		}
	}
	m.drawDisc(tip, 0.15)
}

// framePoints returns the points the camera should keep in view.
func framePoints(sc sim.Scenario) []mgl64.Vec3 {
	switch s := sc.(type) {
	case *scene.Cloth:
		return ClothVertices(s.Sheet())
	case *scene.Fountain:
		cfg := s.Emitter().Config()
		peak := 1.0
		if g := -cfg.Gravity[1]; g > 0 {
			peak = cfg.Velocity[1] * cfg.Velocity[1] / (2 * g)
		}
		spread := math.Max(1, cfg.VelocityVariance[0]+math.Abs(cfg.Velocity[0]))
		return []mgl64.Vec3{
			cfg.Position.Add(mgl64.Vec3{-spread, 0, 0}),
			cfg.Position.Add(mgl64.Vec3{spread, peak, 0}),
			{cfg.Position[0], cfg.GroundHeight, cfg.Position[2]},
		}
	case *scene.Pendulum:
		pts := []mgl64.Vec3{s.Anchor()}
		for _, p := range s.Particles() {
			r := p.Position().Sub(s.Anchor()).Len()
			pts = append(pts, s.Anchor().Add(mgl64.Vec3{-r, -r, 0}), s.Anchor().Add(mgl64.Vec3{r, 0, 0}))
		}
		return pts
	}

	pts := make([]mgl64.Vec3, 0, len(sc.Particles())+1)
	for _, p := range sc.Particles() {
		pts = append(pts, p.Position())
	}
	if len(pts) > 0 {
		pts = append(pts, mgl64.Vec3{pts[0][0], 0, pts[0][2]})
	}
	return pts
}
