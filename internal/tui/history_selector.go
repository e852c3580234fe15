package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geministudio/internal/history"
)

// HistoryStore defines the store operations the selector needs
type HistoryStore interface {
	ListConversations() ([]*history.Conversation, error)
	CreateConversation(model string) (*history.Conversation, error)
	Favorites() (map[string]bool, error)
}

// historyLoadedMsg is sent when conversations are loaded
type historyLoadedMsg struct {
	conversations []*history.Conversation
	favorites     map[string]bool
	err           error
}

// HistorySelectorModel lets the user resume a conversation or start fresh
type HistorySelectorModel struct {
	store     HistoryStore
	modelName string

	conversations []*history.Conversation
	favorites     map[string]bool

	cursor int

	loading   bool
	err       error
	confirmed bool

	// Result
	selectedConv *history.Conversation // nil means new conversation
	isNewConv    bool

	width  int
	height int
	ready  bool
}

// NewHistorySelectorModel creates a new history selector model
func NewHistorySelectorModel(store HistoryStore, modelName string) HistorySelectorModel {
	return HistorySelectorModel{
		store:     store,
		modelName: modelName,
		loading:   true,
		cursor:    0, // Start at "New Conversation"
	}
}

// Init initializes the model and starts loading conversations
func (m HistorySelectorModel) Init() tea.Cmd {
	return m.loadConversations()
}

// loadConversations returns a command that loads conversations from the store
func (m HistorySelectorModel) loadConversations() tea.Cmd {
	return func() tea.Msg {
		conversations, err := m.store.ListConversations()
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		// Favorites only decorate the list; ignore sidecar errors
		favorites, _ := m.store.Favorites()
		return historyLoadedMsg{conversations: conversations, favorites: favorites}
	}
}

// Update handles messages and updates the model
func (m HistorySelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case historyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.conversations = msg.conversations
			m.favorites = msg.favorites
		}

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "up", "k":
			m.cursor--
			if m.cursor < 0 {
				// Wrap to last item (+1 for "New Conversation" option)
				m.cursor = len(m.conversations)
			}

		case "down", "j":
			m.cursor++
			if m.cursor > len(m.conversations) {
				m.cursor = 0
			}

		case "enter":
			m.confirmed = true
			if m.cursor == 0 {
				m.isNewConv = true
				m.selectedConv = nil
			} else {
				m.isNewConv = false
				m.selectedConv = m.conversations[m.cursor-1]
			}
			return m, tea.Quit

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = len(m.conversations)
		}
	}

	return m, nil
}

// View renders the selector
func (m HistorySelectorModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.loading {
		return loadingStyle.Render("  Loading conversations...")
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("  Error: %v", m.err))
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		m.renderHeader(contentWidth),
		m.renderList(contentWidth),
		m.renderStatusBar(contentWidth),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the header panel
func (m HistorySelectorModel) renderHeader(width int) string {
	title := selectorTitleStyle.Render("Resume Conversation")
	subtitle := hintStyle.Render(fmt.Sprintf("  Model: %s", m.modelName))
	return selectorHeaderStyle.Width(width).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, title, subtitle))
}

// renderList renders the conversation list
func (m HistorySelectorModel) renderList(width int) string {
	title := selectorSectionTitleStyle.Render("Conversations")

	var items []string

	// "New Conversation" option (always first)
	items = append(items, m.renderNewItem())

	if len(m.conversations) == 0 {
		items = append(items, hintStyle.Render("  No saved conversations"))
	} else {
		// Visible window around the cursor
		availableHeight := m.height - 12
		maxItems := max(5, availableHeight)

		scrollOffset := 0
		if m.cursor >= maxItems {
			scrollOffset = m.cursor - maxItems + 1
		}
		endIdx := min(scrollOffset+maxItems, len(m.conversations)+1)

		for i := scrollOffset; i < endIdx; i++ {
			if i == 0 {
				// Already rendered "New Conversation"
				continue
			}
			items = append(items, m.renderItem(i, m.conversations[i-1]))
		}

		if scrollOffset > 0 {
			items = append([]string{hintStyle.Render("  ...")}, items...)
		}
		if endIdx < len(m.conversations)+1 {
			items = append(items, hintStyle.Render("  ..."))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{title, ""}, items...)...)
	return selectorPanelStyle.Width(width).Render(content)
}

// renderNewItem renders the "New Conversation" entry
func (m HistorySelectorModel) renderNewItem() string {
	cursor := "  "
	style := selectorItemStyle
	if m.cursor == 0 {
		cursor = selectorCursorStyle.Render("> ")
		style = selectorSelectedStyle
	}
	return cursor + style.Render("+ New Conversation")
}

// renderItem renders a single conversation entry
func (m HistorySelectorModel) renderItem(index int, conv *history.Conversation) string {
	cursor := "  "
	style := selectorItemStyle
	if index == m.cursor {
		cursor = selectorCursorStyle.Render("> ")
		style = selectorSelectedStyle
	}

	star := ""
	if m.favorites[conv.ID] {
		star = selectorCheckedStyle.Render("★ ")
	}

	info := fmt.Sprintf(" [%s, %d msgs]", conv.Model, len(conv.Messages))
	age := ""
	if !conv.UpdatedAt.IsZero() {
		age = selectorDimStyle.Render(" - " + history.FormatRelativeTime(conv.UpdatedAt))
	}

	return cursor + star + style.Render(conv.Title) + hintStyle.Render(info) + age
}

// renderStatusBar renders the bottom status bar
func (m HistorySelectorModel) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"", "Navigate"},
		{"Enter", "Select"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return selectorStatusBarStyle.Width(width).Align(lipgloss.Center).
		Render(strings.Join(items, "  |  "))
}

// Result returns the selected conversation (nil for new) and whether confirmed
func (m HistorySelectorModel) Result() (*history.Conversation, bool, bool) {
	return m.selectedConv, m.isNewConv, m.confirmed
}

// HistorySelectorResult contains the result of running the history selector
type HistorySelectorResult struct {
	Conversation *history.Conversation // nil for new conversation
	IsNew        bool                  // true if user selected "New Conversation"
	Confirmed    bool                  // true if user confirmed selection
}

// RunHistorySelector starts the history selector TUI and returns the result
func RunHistorySelector(store HistoryStore, modelName string) (HistorySelectorResult, error) {
	m := NewHistorySelectorModel(store, modelName)

	finalModel, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return HistorySelectorResult{}, err
	}

	if hm, ok := finalModel.(HistorySelectorModel); ok {
		conv, isNew, confirmed := hm.Result()
		return HistorySelectorResult{
			Conversation: conv,
			IsNew:        isNew,
			Confirmed:    confirmed,
		}, nil
	}

	return HistorySelectorResult{}, nil
}
