package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/geministudio/internal/models"
)

// SaveSelectorModel lets the user pick generated image candidates to save
type SaveSelectorModel struct {
	images []models.GeneratedImage

	// Selection state
	selected map[int]bool
	cursor   int

	confirmed bool
	cancelled bool

	width  int
	height int
}

// NewSaveSelector creates a selector over generated image candidates.
// All candidates start selected; saving everything is the common case.
func NewSaveSelector(images []models.GeneratedImage) SaveSelectorModel {
	selected := make(map[int]bool, len(images))
	for i := range images {
		selected[i] = true
	}
	return SaveSelectorModel{
		images:   images,
		selected: selected,
	}
}

// Init initializes the model
func (m SaveSelectorModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m SaveSelectorModel) Update(msg tea.Msg) (SaveSelectorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			m.confirmed = true
			return m, nil

		case "up", "k":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.images) - 1
			}

		case "down", "j":
			m.cursor++
			if m.cursor >= len(m.images) {
				m.cursor = 0
			}

		case " ": // Space - toggle selection
			if m.cursor >= 0 && m.cursor < len(m.images) {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}

		case "a": // Select all
			for i := range m.images {
				m.selected[i] = true
			}

		case "n": // Select none
			m.selected = make(map[int]bool)

		case "enter":
			m.confirmed = true
			return m, nil
		}
	}

	return m, nil
}

// View renders the selector
func (m SaveSelectorModel) View() string {
	var b strings.Builder

	b.WriteString(selectorHeaderStyle.Render("Select images to save"))
	b.WriteString("\n\n")

	for i, img := range m.images {
		cursor := "  "
		if i == m.cursor {
			cursor = selectorCursorStyle.Render("> ")
		}

		checkbox := "[ ] "
		if m.selected[i] {
			checkbox = selectorCheckedStyle.Render("[x] ")
		}

		label := fmt.Sprintf("Candidate %d", i+1)
		info := fmt.Sprintf("%s, %s", img.MIMEType, formatByteSize(len(img.Data)))

		if i == m.cursor {
			b.WriteString(cursor + checkbox + selectorSelectedStyle.Render(label))
		} else {
			b.WriteString(cursor + checkbox + selectorItemStyle.Render(label))
		}
		b.WriteString("  " + selectorValueStyle.Render(info))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(selectorDimStyle.Render(
		fmt.Sprintf("  %d of %d selected", m.SelectedCount(), len(m.images))))
	b.WriteString("\n\n")
	b.WriteString(selectorDimStyle.Render(
		"  Space: toggle  a: all  n: none  Enter: save  Esc: cancel"))

	return b.String()
}

// SelectedCount returns the number of selected candidates
func (m SaveSelectorModel) SelectedCount() int {
	count := 0
	for _, v := range m.selected {
		if v {
			count++
		}
	}
	return count
}

// SelectedIndices returns the indices of selected candidates in order
func (m SaveSelectorModel) SelectedIndices() []int {
	var indices []int
	for i := 0; i < len(m.images); i++ {
		if m.selected[i] {
			indices = append(indices, i)
		}
	}
	return indices
}

// IsConfirmed returns whether the user confirmed the selection
func (m SaveSelectorModel) IsConfirmed() bool {
	return m.confirmed && !m.cancelled
}

// IsCancelled returns whether the user cancelled
func (m SaveSelectorModel) IsCancelled() bool {
	return m.cancelled
}

// formatByteSize renders a byte count in human units
func formatByteSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
