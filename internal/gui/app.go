package gui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/scene"
	"github.com/san-kum/softbody/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColCloth   = rl.NewColor(200, 170, 120, 255)
)

const (
	screenW      = 1280
	screenH      = 720
	maxTelemetry = 200
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

// App is a raylib window that runs one scenario at a time. The menu lists
// the registry's scenarios; the config page tunes dynamo.Configurable
// parameters before the run starts.
type App struct {
	Registry *scene.Registry
	Config   *config.Config

	Scenario sim.Scenario
	Name     string
	Time     float64
	Running  bool
	InMenu   bool
	InConfig bool

	Names     []string
	Selected  int
	Params    map[string]float64
	ParamKeys []string
	ParamSel  int

	Camera       rl.Camera3D
	CamPosTarget rl.Vector3
	CamTgtTarget rl.Vector3
	Telemetry    []float64
	ShowNormals  bool
	Font         rl.Font
}

func initWindow() {
	rl.InitWindow(screenW, screenH, "softbody")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp starts in the menu when name is empty, otherwise it loads name
// straight away.
func NewApp(registry *scene.Registry, cfg *config.Config, name string) *App {
	a := &App{
		Registry:  registry,
		Config:    cfg,
		Names:     registry.List(),
		Params:    make(map[string]float64),
		Telemetry: make([]float64, 0, maxTelemetry),
		Font:      loadFont(),
		InMenu:    name == "",
	}
	if name != "" {
		if err := a.load(name); err != nil {
			log.Error("load scenario", "name", name, "err", err)
			a.InMenu = true
		}
	}
	return a
}

// Run opens the window and blocks until it is closed. An empty name opens
// the scenario menu.
func Run(registry *scene.Registry, cfg *config.Config, name string) {
	initWindow()
	defer rl.CloseWindow()
	NewApp(registry, cfg, name).RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) load(name string) error {
	cfg := *a.Config
	cfg.Scenario = name
	sc, err := a.Registry.Get(name, &cfg)
	if err != nil {
		return err
	}

	a.Scenario = sc
	a.Name = name
	a.Time = 0
	a.Running = true
	a.InMenu = false
	a.InConfig = false
	a.Telemetry = a.Telemetry[:0]

	pos, tgt := frameCamera(sc)
	a.Camera = rl.NewCamera3D(pos, tgt, rl.NewVector3(0, 1, 0), 45.0, rl.CameraPerspective)
	a.CamPosTarget, a.CamTgtTarget = pos, tgt

	a.Params = make(map[string]float64)
	if c, ok := sc.(dynamo.Configurable); ok {
		a.Params = c.Params()
	}
	a.ParamKeys = make([]string, 0, len(a.Params))
	for k := range a.Params {
		a.ParamKeys = append(a.ParamKeys, k)
	}
	sort.Strings(a.ParamKeys)
	a.ParamSel = 0
	return nil
}

func (a *App) applyParams() {
	c, ok := a.Scenario.(dynamo.Configurable)
	if !ok {
		return
	}
	for k, v := range a.Params {
		if err := c.SetParam(k, v); err != nil {
			log.Warn("rejected parameter", "name", k, "value", v, "err", err)
		}
	}
	a.Params = c.Params()
}

// Update handles input and advances the scenario. It returns true when the
// user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}

	switch {
	case a.InMenu:
		a.updateMenu()
		return false
	case a.InConfig:
		a.updateConfig()
		return false
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Running = false
		return false
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.InConfig = true
		a.Running = false
		return false
	}

	if a.Running {
		a.Scenario.Step(a.Config.Dt)
		a.Time += a.Config.Dt

		a.Telemetry = append(a.Telemetry, metrics.TotalKinetic(a.Scenario.Particles()))
		if len(a.Telemetry) > maxTelemetry {
			a.Telemetry = a.Telemetry[1:]
		}
	}

	if rl.IsKeyPressed(rl.KeyN) {
		a.ShowNormals = !a.ShowNormals
	}
	a.updateCamera()

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Scenario.Reset()
		a.Time = 0
		a.Telemetry = a.Telemetry[:0]
		a.Running = true
	}
	return false
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	a.Selected = wrap(a.Selected, len(a.Names))

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		if err := a.load(a.Names[a.Selected]); err != nil {
			log.Error("load scenario", "name", a.Names[a.Selected], "err", err)
			return
		}
		a.InConfig = true
		a.Running = false
	}
}

func (a *App) updateConfig() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.InConfig = false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		a.applyParams()
		a.InConfig = false
		a.Running = true
		return
	}
	if len(a.ParamKeys) == 0 {
		return
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel--
	}
	a.ParamSel = wrap(a.ParamSel, len(a.ParamKeys))

	key := a.ParamKeys[a.ParamSel]
	step := paramStep(a.Params[key])
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step *= 10
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.Params[key] += step
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.Params[key] -= step
	}
}

func (a *App) updateCamera() {
	if rl.IsKeyDown(rl.KeyW) {
		a.CamPosTarget.Y += 0.1
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.CamPosTarget.Y -= 0.1
	}
	if rl.IsKeyDown(rl.KeyA) {
		a.CamPosTarget.X -= 0.1
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.CamPosTarget.X += 0.1
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.CamPosTarget.X -= delta.X * 0.05
		a.CamPosTarget.Y += delta.Y * 0.05
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		zoom := wheel * 0.5
		diff := rl.Vector3Subtract(a.CamTgtTarget, a.CamPosTarget)
		if rl.Vector3Length(diff) > 1.0 || zoom < 0 {
			a.CamPosTarget = rl.Vector3Add(a.CamPosTarget, rl.Vector3Scale(rl.Vector3Normalize(diff), zoom))
		}
	}

	lerp := float32(min(5.0*a.Config.Dt, 1.0))
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, a.CamPosTarget, lerp)
	a.Camera.Target = rl.Vector3Lerp(a.Camera.Target, a.CamTgtTarget, lerp)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	switch {
	case a.InMenu:
		a.drawMenu()
	case a.InConfig:
		a.drawConfig()
	default:
		a.drawSim()
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	a.drawText("softbody", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Name), 160, 34, 16, ColText)
	a.drawText(fmt.Sprintf("t = %.2fs", a.Time), 30, 64, 14, ColText)

	labels, obs := a.Scenario.Labels(), a.Scenario.Observe()
	for i := 0; i < len(labels) && i < len(obs); i++ {
		a.drawText(fmt.Sprintf("%-14s %9.3f", labels[i], obs[i]), 30, 90+18*i, 14, ColTextDim)
	}

	a.drawTelemetry()

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	a.drawText("[SPACE] PAUSE  [R] RESET  [TAB] PARAMS  [N] NORMALS  [ESC] MENU  [Q] QUIT", 560, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}
	rectX, rectY := 30, 600
	width, height := 400, 60

	pts := telemetryPoints(a.Telemetry, float32(rectX), float32(rectY), float32(width), float32(height))
	rl.DrawLineStrip(pts, ColAccent)
	a.drawText(fmt.Sprintf("KE: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("softbody", 50, 50, 40, ColSelect)
	a.drawText("Select Scenario", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Names {
		if i == a.Selected {
			a.drawText("> "+name, 50, y, 20, ColSelect)
		} else {
			a.drawText("  "+name, 50, y, 20, ColText)
		}
		y += 28
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}

func (a *App) drawConfig() {
	a.drawText("softbody", 50, 50, 40, ColTextDim)
	a.drawText("configure", 260, 65, 20, ColSelect)
	a.drawText(fmt.Sprintf("Target: %s", a.Name), 50, 110, 16, ColAccent)

	y := 180
	if len(a.ParamKeys) == 0 {
		a.drawText("No configurable parameters.", 50, y, 16, ColTextDim)
	}
	for i, key := range a.ParamKeys {
		line := fmt.Sprintf("%-18s %.3f", key, a.Params[key])
		if i == a.ParamSel {
			a.drawText("> "+line, 50, y, 20, ColSelect)
		} else {
			a.drawText("  "+line, 50, y, 20, ColText)
		}
		y += 28
	}

	a.drawText("ARROWS: ADJUST  SHIFT: x10  ENTER: RUN  ESC: BACK", 780, 680, 14, ColTextDim)
}
