package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geministudio/internal/scene"
)

// SceneViewerModel plays a scene full screen until the user quits
type SceneViewerModel struct {
	scene *scene.Scene
	frame int

	width  int
	height int
	ready  bool
}

// NewSceneViewer creates a viewer for the given scene
func NewSceneViewer(s *scene.Scene) SceneViewerModel {
	return SceneViewerModel{scene: s}
}

// Init starts the animation
func (m SceneViewerModel) Init() tea.Cmd {
	return m.tick()
}

// tick schedules the next frame
func (m SceneViewerModel) tick() tea.Cmd {
	return tea.Tick(animationInterval, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages
func (m SceneViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case animationTickMsg:
		m.frame++
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the current frame across the whole window
func (m SceneViewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	rows := m.height - 1
	if rows < 4 {
		rows = 4
	}
	cols := m.width
	if cols < 10 {
		cols = 10
	}

	canvas := scene.NewCellCanvas(cols, rows)
	m.scene.Frame(float64(m.frame)/animationFPS, canvas)

	var sb strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			sb.WriteString("\n")
		}
		for _, cell := range canvas.Row(y) {
			if cell.Rune == ' ' {
				sb.WriteRune(' ')
				continue
			}
			color := scenePalette[cell.Palette%len(scenePalette)]
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(cell.Rune)))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(statusBarStyle.Render("q: quit"))

	return sb.String()
}

// RunSceneViewer starts the scene viewer and blocks until it exits
func RunSceneViewer(s *scene.Scene) error {
	_, err := tea.NewProgram(NewSceneViewer(s), tea.WithAltScreen()).Run()
	return err
}
