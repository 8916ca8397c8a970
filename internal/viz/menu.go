package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/scene"
)

var scenarioInfo = map[string]string{
	"cloth":    "pinned sheet in wind",
	"fountain": "particle emitter",
	"bounce":   "spheres on a floor",
	"stack":    "boxes and a ball",
	"pendulum": "spring chain",
}

const (
	stageScenario = iota
	stagePreset
	stageLive
)

const defaultPreset = "default"

// Menu picks a scenario and preset, then hands over to a live Model.
type Menu struct {
	registry *scene.Registry
	stage    int

	scenarios []string
	presets   []string
	cursor    int
	selected  string

	live Model
	err  error
}

func NewMenu(registry *scene.Registry) Menu {
	return Menu{registry: registry, scenarios: registry.List()}
}

// RunMenu blocks until the user quits.
func RunMenu(registry *scene.Registry) error {
	_, err := tea.NewProgram(NewMenu(registry), tea.WithAltScreen()).Run()
	return err
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.stage == stageLive {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	items := m.scenarios
	if m.stage == stagePreset {
		items = m.presets
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.stage == stagePreset {
			m.stage, m.cursor = stageScenario, 0
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(items) == 0 {
			return m, nil
		}
		if m.stage == stageScenario {
			m.selected = items[m.cursor]
			m.presets = append([]string{defaultPreset}, config.ListPresets(m.selected)...)
			m.stage, m.cursor = stagePreset, 0
			return m, nil
		}
		return m.start(items[m.cursor])
	}
	return m, nil
}

func (m Menu) start(preset string) (tea.Model, tea.Cmd) {
	cfg := config.DefaultConfig()
	cfg.Scenario = m.selected
	if preset != defaultPreset {
		cfg = config.GetPreset(m.selected, preset)
	}

	sc, err := m.registry.Get(m.selected, cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live = NewModel(sc, cfg.Dt)
	m.stage = stageLive
	m.err = nil
	return m, m.live.Init()
}

func (m Menu) View() string {
	if m.stage == stageLive {
		return m.live.View()
	}

	var b strings.Builder
	title, sub := "SOFTBODY", "particle and cloth simulation"
	items := m.scenarios
	if m.stage == stagePreset {
		title, sub = strings.ToUpper(m.selected), scenarioInfo[m.selected]
		items = m.presets
	}
	b.WriteString("\n\n    " + headerStyle().Render(title) + "\n    " + mutedStyle().Render(sub) + "\n    " + mutedStyle().Render("─────────────────────────") + "\n\n")

	for i, name := range items {
		desc := ""
		if m.stage == stageScenario {
			desc = scenarioInfo[name]
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", activeStyle().Render("▸"), valueStyle().Bold(true).Render(fmt.Sprintf("%-12s", name)), activeStyle().Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", mutedStyle().Render(fmt.Sprintf("%-12s", name)), mutedStyle().Render(desc)))
		}
	}

	if m.err != nil {
		b.WriteString("\n    " + statusStyle(false).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + helpStyle.Render("j/k navigate  enter select  esc back  q quit") + "\n")
	return b.String()
}
