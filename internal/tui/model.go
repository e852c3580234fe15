package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geministudio/internal/api"
	"github.com/diogo/geministudio/internal/config"
	"github.com/diogo/geministudio/internal/history"
	"github.com/diogo/geministudio/internal/models"
	"github.com/diogo/geministudio/internal/render"
	"github.com/diogo/geministudio/internal/scene"
)

const (
	// Animation frame rate for the preview scene
	animationFPS      = 12
	animationInterval = time.Second / animationFPS

	// Preview panel height in terminal rows
	previewRows = 9

	// Captured frames are rendered at this raster size
	captureWidth  = 640
	captureHeight = 480
)

// animationTickMsg advances the preview scene animation
type animationTickMsg time.Time

// Message types for async work
type (
	// responseMsg carries a completed chat response
	responseMsg struct {
		output *models.ModelOutput
	}

	// imagesGeneratedMsg carries freshly generated image candidates
	imagesGeneratedMsg struct {
		prompt string
		images []models.GeneratedImage
	}

	// imageEditedMsg carries an edit result and the saved output paths
	imageEditedMsg struct {
		output *models.ModelOutput
		saved  []string
	}

	// imagesSavedMsg carries paths written by the save selector
	imagesSavedMsg struct {
		paths []string
	}

	// attachmentMsg carries a completed image upload
	attachmentMsg struct {
		path    string
		file    *api.UploadedFile
		preview string
	}

	errMsg struct {
		err error
	}
)

// chatEntry is one rendered item of the transcript
type chatEntry struct {
	role      string // "user", "model", or "note"
	content   string
	thoughts  string
	citations []models.Citation
	images    []string // saved or attached file paths
}

// StudioOptions configures a studio session
type StudioOptions struct {
	Config       config.Config
	Scene        *scene.Scene
	Store        *history.Store
	Conversation *history.Conversation
}

// Model is the main studio TUI model
type Model struct {
	client  api.GeminiClientInterface
	session *api.ChatSession
	cfg     config.Config

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Preview panel state
	scene *scene.Scene
	frame int

	entries []chatEntry

	// Current image attachment, shown in the preview panel
	attachment     *api.UploadedFile
	attachmentPath string
	preview        string

	// Last generated or edited candidates, offered by /save
	generated    []models.GeneratedImage
	saveSelector *SaveSelectorModel

	// Conversation persistence (nil disables history)
	store        *history.Store
	conversation *history.Conversation

	loading  bool
	ticking  bool // one animation tick loop is armed
	status   string
	err      error
	width    int
	height   int
	ready    bool
	quitting bool
}

// NewModel creates a studio model bound to a client and chat session
func NewModel(client api.GeminiClientInterface, session *api.ChatSession, opts StudioOptions) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe, ask, or /generate an image..."
	ta.Focus()
	ta.Prompt = ""
	ta.CharLimit = 8192
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	sc := opts.Scene
	if sc == nil {
		sc = scene.Default()
	}

	m := Model{
		client:       client,
		session:      session,
		cfg:          opts.Config,
		textarea:     ta,
		spinner:      sp,
		scene:        sc,
		store:        opts.Store,
		conversation: opts.Conversation,
		ticking:      true, // Init arms the first tick
	}

	// Replay persisted messages into the transcript when resuming
	if opts.Conversation != nil {
		for _, msg := range opts.Conversation.Messages {
			m.entries = append(m.entries, entryFromHistory(msg))
		}
	}

	return m
}

// entryFromHistory converts a persisted message into a transcript entry
func entryFromHistory(msg history.Message) chatEntry {
	entry := chatEntry{
		role:     msg.Role,
		content:  msg.Content,
		thoughts: msg.Thoughts,
		images:   msg.Images,
	}
	for _, c := range msg.Citations {
		entry.citations = append(entry.citations, models.Citation{Title: c.Title, URI: c.URI})
	}
	return entry
}

// Init starts the preview animation and textarea blink
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.animationTick())
}

// animationTick schedules the next scene frame
func (m Model) animationTick() tea.Cmd {
	return tea.Tick(animationInterval, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The save selector captures all input while open
	if m.saveSelector != nil {
		return m.updateSaveSelector(msg)
	}

	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEsc:
			if m.loading {
				// Abandon the wait; a late result is dropped by the
				// loading guard in the msg handlers below
				m.loading = false
				m.status = "Request abandoned"
				return m, m.restartAnimation()
			}
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.err = nil
			m.status = ""
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			return m.startChat(input)
		}

	case animationTickMsg:
		if !m.animating() {
			// The loop goes idle; restartAnimation re-arms it
			m.ticking = false
			return m, nil
		}
		m.frame++
		return m, m.animationTick()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case responseMsg:
		if !m.loading {
			return m, nil
		}
		m.loading = false
		m.applyResponse(msg.output)
		return m, m.restartAnimation()

	case imagesGeneratedMsg:
		if !m.loading {
			return m, nil
		}
		m.loading = false
		m.generated = msg.images
		m.addEntry(chatEntry{
			role: "note",
			content: fmt.Sprintf("Generated %d image candidate(s) for %q. Use /save to keep them.",
				len(msg.images), msg.prompt),
		})
		return m, m.restartAnimation()

	case imageEditedMsg:
		if !m.loading {
			return m, nil
		}
		m.loading = false
		m.applyEditResult(msg)
		return m, m.restartAnimation()

	case imagesSavedMsg:
		m.status = fmt.Sprintf("Saved %d image(s)", len(msg.paths))
		m.addEntry(chatEntry{role: "note", content: "Saved images:", images: msg.paths})
		return m, nil

	case attachmentMsg:
		if !m.loading {
			return m, nil
		}
		m.loading = false
		m.attachment = msg.file
		m.attachmentPath = msg.path
		m.preview = msg.preview
		m.status = fmt.Sprintf("Attached %s", filepath.Base(msg.path))
		return m, nil

	// errMsg has no loading guard: the save selector's write command
	// reports failures through it outside the loading state
	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, m.restartAnimation()
	}

	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

// animating reports whether the scene animation should run. The scene
// pauses while a request is in flight and is replaced by the attachment
// thumbnail once an image is loaded.
func (m Model) animating() bool {
	return m.attachment == nil && m.preview == "" && !m.loading && !m.quitting
}

// restartAnimation re-arms the tick loop after it went idle. The loop
// stops itself when animating() turns false; arming a second one would
// multiply the frame rate.
func (m *Model) restartAnimation() tea.Cmd {
	if m.ticking || !m.animating() {
		return nil
	}
	m.ticking = true
	return m.animationTick()
}

// resize recalculates component dimensions from the window size
func (m *Model) resize() {
	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	m.textarea.SetWidth(contentWidth)

	viewportHeight := m.height - previewRows - 12
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(contentWidth, viewportHeight)
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = viewportHeight
	}

	// Re-render the thumbnail at the new panel size
	if m.attachmentPath != "" {
		if preview, err := render.PreviewFile(m.attachmentPath, m.previewCols(), previewRows); err == nil {
			m.preview = preview
		}
	}
}

// previewCols returns the preview panel's inner width in cells
func (m Model) previewCols() int {
	cols := m.width - 6
	if cols < 10 {
		cols = 10
	}
	return cols
}

// startChat submits a plain chat turn
func (m Model) startChat(prompt string) (tea.Model, tea.Cmd) {
	entry := chatEntry{role: models.RoleUser, content: prompt}
	if m.attachmentPath != "" {
		entry.images = []string{m.attachmentPath}
	}
	m.addEntry(entry)
	m.persistUserMessage(prompt, entry.images)

	m.loading = true
	session := m.session
	file := m.attachment
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		var files []*api.UploadedFile
		if file != nil {
			files = append(files, file)
		}
		output, err := session.SendMessage(prompt, files)
		if err != nil {
			return errMsg{err}
		}
		return responseMsg{output}
	})
}

// applyResponse folds a chat response into the transcript
func (m *Model) applyResponse(output *models.ModelOutput) {
	entry := chatEntry{
		role:      models.RoleModel,
		content:   output.Text(),
		citations: output.Citations(),
	}
	if m.cfg.ShowThoughts {
		entry.thoughts = output.Thoughts()
	}
	m.addEntry(entry)
	m.persistModelMessage(entry)

	if imgs := output.Images(); len(imgs) > 0 {
		m.generated = imgs
		m.status = fmt.Sprintf("%d inline image(s) returned. Use /save to keep them", len(imgs))
	}
}

// applyEditResult folds an image edit into the transcript and swaps the
// preview to the first edited output
func (m *Model) applyEditResult(msg imageEditedMsg) {
	entry := chatEntry{
		role:    models.RoleModel,
		content: msg.output.Text(),
		images:  msg.saved,
	}
	if entry.content == "" {
		entry.content = "Done. The edited image is shown in the preview."
	}
	m.addEntry(entry)
	m.persistModelMessage(entry)
	m.generated = msg.output.Images()

	if len(msg.saved) > 0 {
		// The edited file becomes the working image. The upload happens
		// lazily on the next turn that references it.
		m.attachmentPath = msg.saved[0]
		m.attachment = nil
		if preview, err := render.PreviewFile(msg.saved[0], m.previewCols(), previewRows); err == nil {
			m.preview = preview
		}
		m.status = fmt.Sprintf("Edited image saved to %s", msg.saved[0])
	}
}

// handleCommand dispatches a slash command
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd, arg := splitCommand(input)

	switch cmd {
	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit

	case "/help":
		m.addEntry(chatEntry{role: "note", content: helpText})
		return m, nil

	case "/clear":
		m.session.Reset()
		m.entries = nil
		m.attachment = nil
		m.attachmentPath = ""
		m.preview = ""
		m.generated = nil
		m.status = "Conversation cleared"
		m.updateViewport()
		return m, m.restartAnimation()

	case "/think":
		m.session.SetThinking(!m.session.ThinkingEnabled())
		m.status = toggleStatus("Thinking", m.session.ThinkingEnabled())
		return m, nil

	case "/search":
		m.session.SetSearch(!m.session.SearchEnabled())
		m.status = toggleStatus("Search grounding", m.session.SearchEnabled())
		return m, nil

	case "/model":
		if arg == "" {
			m.status = "Usage: /model <fast|pro|image>"
			return m, nil
		}
		model := models.ModelFromName(arg)
		if model.IsUnspecified() {
			m.err = fmt.Errorf("unknown model: %s", arg)
			return m, nil
		}
		m.session.SetModel(model)
		m.status = fmt.Sprintf("Model switched to %s", model.Name)
		return m, nil

	case "/persona":
		if arg == "" {
			names, err := config.ListPersonaNames()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.status = "Personas: " + strings.Join(names, ", ")
			return m, nil
		}
		persona, err := config.GetPersona(arg)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.session.SetPersona(persona)
		if m.store != nil && m.conversation != nil {
			_ = m.store.SetPersona(m.conversation.ID, persona.Name)
		}
		m.status = fmt.Sprintf("Persona set to %s", persona.Name)
		return m, nil

	case "/attach":
		if arg == "" {
			m.status = "Usage: /attach <image-path>"
			return m, nil
		}
		return m.startAttach(expandPath(arg))

	case "/capture":
		return m.startCapture()

	case "/edit":
		if arg == "" {
			m.status = "Usage: /edit <instruction>"
			return m, nil
		}
		if m.attachmentPath == "" {
			m.err = fmt.Errorf("no image attached; use /attach or /capture first")
			return m, nil
		}
		return m.startEdit(arg)

	case "/generate", "/imagine":
		if arg == "" {
			m.status = "Usage: /generate <prompt>"
			return m, nil
		}
		return m.startGenerate(arg)

	case "/save":
		if len(m.generated) == 0 {
			m.status = "Nothing to save; /generate or /edit first"
			return m, nil
		}
		selector := NewSaveSelector(m.generated)
		m.saveSelector = &selector
		return m, nil

	case "/copy":
		text := m.lastModelText()
		if text == "" {
			m.status = "No response to copy"
			return m, nil
		}
		if err := clipboard.WriteAll(text); err != nil {
			m.err = fmt.Errorf("clipboard copy failed: %w", err)
			return m, nil
		}
		m.status = "Copied last response to clipboard"
		return m, nil

	default:
		m.err = fmt.Errorf("unknown command: %s (try /help)", cmd)
		return m, nil
	}
}

// startAttach uploads an image and builds its preview asynchronously
func (m Model) startAttach(path string) (tea.Model, tea.Cmd) {
	m.loading = true
	client := m.client
	cols := m.previewCols()
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		file, err := client.UploadFile(path)
		if err != nil {
			return errMsg{err}
		}
		preview, err := render.PreviewFile(path, cols, previewRows)
		if err != nil {
			preview = ""
		}
		return attachmentMsg{path: path, file: file, preview: preview}
	})
}

// startCapture saves the current scene frame as a PNG and attaches it
func (m Model) startCapture() (tea.Model, tea.Cmd) {
	dir, err := config.GetDownloadDir(m.cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	path := filepath.Join(dir, fmt.Sprintf("capture_%s.png", time.Now().Format("20060102_150405")))

	m.loading = true
	t := m.sceneTime()
	sc := m.scene
	client := m.client
	cols := m.previewCols()
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		if err := scene.SaveFramePNG(path, sc, t, captureWidth, captureHeight); err != nil {
			return errMsg{err}
		}
		file, err := client.UploadFile(path)
		if err != nil {
			return errMsg{err}
		}
		preview, err := render.PreviewFile(path, cols, previewRows)
		if err != nil {
			preview = ""
		}
		return attachmentMsg{path: path, file: file, preview: preview}
	})
}

// startEdit submits an image edit instruction for the attached image
func (m Model) startEdit(instruction string) (tea.Model, tea.Cmd) {
	entry := chatEntry{
		role:    models.RoleUser,
		content: "(edit) " + instruction,
		images:  []string{m.attachmentPath},
	}
	m.addEntry(entry)
	m.persistUserMessage(entry.content, entry.images)

	m.loading = true
	client := m.client
	imagePath := m.attachmentPath
	saveOpts := m.saveOptions("edit")
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		output, err := client.EditImage(instruction, imagePath, nil)
		if err != nil {
			return errMsg{err}
		}
		saved, err := client.SaveImages(output.Images(), saveOpts)
		if err != nil {
			return errMsg{err}
		}
		return imageEditedMsg{output: output, saved: saved}
	})
}

// startGenerate submits a text-to-image request
func (m Model) startGenerate(prompt string) (tea.Model, tea.Cmd) {
	entry := chatEntry{role: models.RoleUser, content: "(generate) " + prompt}
	m.addEntry(entry)
	m.persistUserMessage(entry.content, nil)

	m.loading = true
	client := m.client
	opts := &api.ImagineOptions{
		Count:       m.cfg.ImageCount,
		AspectRatio: m.cfg.AspectRatio,
	}
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		images, err := client.GenerateImages(prompt, opts)
		if err != nil {
			return errMsg{err}
		}
		return imagesGeneratedMsg{prompt: prompt, images: images}
	})
}

// updateSaveSelector routes input to the save selector overlay
func (m Model) updateSaveSelector(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tea.WindowSizeMsg, spinner.TickMsg, animationTickMsg:
		// Keep background state ticking under the overlay
		selector := m.saveSelector
		model, cmd := m.withoutSelector().Update(msg)
		studio := model.(Model)
		studio.saveSelector = selector
		return studio, cmd
	}

	selector, cmd := m.saveSelector.Update(msg)
	m.saveSelector = &selector

	if selector.IsCancelled() {
		m.saveSelector = nil
		m.status = "Save cancelled"
		return m, nil
	}

	if selector.IsConfirmed() {
		indices := selector.SelectedIndices()
		m.saveSelector = nil
		if len(indices) == 0 {
			m.status = "Nothing selected"
			return m, nil
		}
		picked := make([]models.GeneratedImage, 0, len(indices))
		for _, i := range indices {
			picked = append(picked, m.generated[i])
		}
		client := m.client
		saveOpts := m.saveOptions("imagine")
		return m, func() tea.Msg {
			paths, err := client.SaveImages(picked, saveOpts)
			if err != nil {
				return errMsg{err}
			}
			return imagesSavedMsg{paths: paths}
		}
	}

	return m, cmd
}

// withoutSelector returns a copy with the overlay detached so background
// messages go through the normal Update path
func (m Model) withoutSelector() Model {
	m.saveSelector = nil
	return m
}

// saveOptions builds image save options from the configured download dir
func (m Model) saveOptions(prefix string) api.SaveOptions {
	opts := api.DefaultSaveOptions()
	opts.Prefix = prefix
	if dir, err := config.GetDownloadDir(m.cfg); err == nil {
		opts.Directory = dir
	}
	return opts
}

// sceneTime converts the frame counter to scene time in seconds
func (m Model) sceneTime() float64 {
	return float64(m.frame) / animationFPS
}

// addEntry appends to the transcript and scrolls to the bottom
func (m *Model) addEntry(entry chatEntry) {
	m.entries = append(m.entries, entry)
	m.updateViewport()
}

// lastModelText returns the most recent model response text
func (m Model) lastModelText() string {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].role == models.RoleModel {
			return m.entries[i].content
		}
	}
	return ""
}

// persistUserMessage writes a user turn to the history store
func (m *Model) persistUserMessage(content string, images []string) {
	if m.store == nil || m.conversation == nil {
		return
	}
	msg := history.Message{
		Role:      models.RoleUser,
		Content:   content,
		Images:    images,
		Timestamp: time.Now(),
	}
	// The store names the conversation after the first user message
	if err := m.store.AddMessage(m.conversation.ID, msg); err != nil {
		m.status = "History save failed: " + err.Error()
		return
	}
	m.conversation.Messages = append(m.conversation.Messages, msg)
}

// persistModelMessage writes a model turn to the history store
func (m *Model) persistModelMessage(entry chatEntry) {
	if m.store == nil || m.conversation == nil {
		return
	}
	msg := history.Message{
		Role:      models.RoleModel,
		Content:   entry.content,
		Thoughts:  entry.thoughts,
		Images:    entry.images,
		Timestamp: time.Now(),
	}
	for _, c := range entry.citations {
		msg.Citations = append(msg.Citations, history.Citation{Title: c.Title, URI: c.URI})
	}
	if err := m.store.AddMessage(m.conversation.ID, msg); err != nil {
		m.status = "History save failed: " + err.Error()
		return
	}
	m.conversation.Messages = append(m.conversation.Messages, msg)
}

// updateViewport rebuilds the transcript content
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var sb strings.Builder
	width := m.viewport.Width - 4

	if len(m.entries) == 0 {
		m.viewport.SetContent(renderWelcome(m.viewport.Width))
		return
	}

	for i, entry := range m.entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch entry.role {
		case models.RoleUser:
			sb.WriteString(userLabelStyle.Render("You"))
			sb.WriteString("\n")
			sb.WriteString(userBubbleStyle.Render(entry.content))
		case models.RoleModel:
			sb.WriteString(assistantLabelStyle.Render("Gemini"))
			sb.WriteString("\n")
			if entry.thoughts != "" {
				sb.WriteString(thoughtsStyle.Width(width).Render("💭 " + entry.thoughts))
				sb.WriteString("\n")
			}
			rendered, err := render.MarkdownWithWidth(entry.content, width)
			if err != nil {
				rendered = entry.content
			}
			sb.WriteString(assistantBubbleStyle.Render(strings.TrimRight(rendered, "\n")))
			if len(entry.citations) > 0 {
				sb.WriteString("\n")
				sb.WriteString(renderCitations(entry.citations))
			}
		default:
			sb.WriteString(hintStyle.Render(entry.content))
		}
		if len(entry.images) > 0 {
			sb.WriteString("\n")
			for _, path := range entry.images {
				sb.WriteString(imagePathStyle.Render("  🖼 " + path))
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

// renderWelcome fills the empty transcript with a short intro
func renderWelcome(width int) string {
	lines := []string{
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		welcomeTitleStyle.Width(width).Render("Gemini Studio"),
		"",
		welcomeStyle.Width(width).Render("Chat about the scene, attach an image, or type /help for commands."),
	}
	return strings.Join(lines, "\n")
}

// renderCitations formats grounding sources under a response
func renderCitations(citations []models.Citation) string {
	var sb strings.Builder
	sb.WriteString(citationHeaderStyle.Render("Sources:"))
	for _, c := range citations {
		sb.WriteString("\n  ")
		if c.Title != "" {
			sb.WriteString(citationTitleStyle.Render(c.Title))
			sb.WriteString(" ")
		}
		sb.WriteString(citationLinkStyle.Render(c.URI))
	}
	return sb.String()
}

// View renders the complete studio layout
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.saveSelector != nil {
		return m.saveSelector.View()
	}

	sections := []string{
		m.headerView(),
		m.previewView(),
		messagesAreaStyle.Width(m.width - 2).Render(m.viewport.View()),
		m.inputView(),
		m.footerView(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// headerView renders the title bar with model and toggle state
func (m Model) headerView() string {
	parts := []string{
		titleStyle.Render("✦ Gemini Studio"),
		subtitleStyle.Render(m.session.GetModel().Name),
	}
	if p := m.session.GetPersona(); p != nil && p.Name != "default" {
		parts = append(parts, subtitleStyle.Render("persona:"+p.Name))
	}
	parts = append(parts,
		toggleView("think", m.session.ThinkingEnabled()),
		toggleView("search", m.session.SearchEnabled()),
	)

	return headerStyle.Width(m.width - 2).Render(strings.Join(parts, "  "))
}

// toggleView renders one on/off indicator
func toggleView(name string, on bool) string {
	if on {
		return toggleOnStyle.Render("◉ " + name)
	}
	return toggleOffStyle.Render("○ " + name)
}

// previewView renders the scene animation or the attached image thumbnail
func (m Model) previewView() string {
	body := m.preview
	if body == "" {
		body = m.sceneView()
	}
	return previewPanelStyle.Width(m.width - 2).Render(body)
}

// sceneView rasterizes the current animation frame onto terminal cells,
// colored through the theme's scene palette
func (m Model) sceneView() string {
	cols := m.previewCols()
	canvas := scene.NewCellCanvas(cols, previewRows)
	m.scene.Frame(m.sceneTime(), canvas)

	var sb strings.Builder
	for y := 0; y < previewRows; y++ {
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
	return sb.String()
}

// inputView renders the textarea or the loading indicator
func (m Model) inputView() string {
	if m.loading {
		return inputPanelStyle.Width(m.width - 2).Render(
			m.spinner.View() + loadingStyle.Render(" Working... (esc to abandon)"))
	}
	return inputPanelStyle.Width(m.width - 2).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, inputLabelStyle.Render(">"), m.textarea.View()))
}

// footerView renders the status line, errors, and key hints
func (m Model) footerView() string {
	var lines []string

	if m.err != nil {
		lines = append(lines, FormatError(m.err))
	} else if m.status != "" {
		lines = append(lines, statusDescStyle.Render(m.status))
	}

	keys := []string{
		statusKeyStyle.Render("enter") + statusDescStyle.Render(" send"),
		statusKeyStyle.Render("/help") + statusDescStyle.Render(" commands"),
		statusKeyStyle.Render("esc") + statusDescStyle.Render(" quit"),
	}
	lines = append(lines, statusBarStyle.Render(strings.Join(keys, "  •  ")))

	return strings.Join(lines, "\n")
}

const helpText = `Commands:
  /attach <path>      Attach an image from disk
  /capture            Snapshot the animated scene and attach it
  /edit <text>        Edit the attached image with an instruction
  /generate <text>    Generate images from a prompt
  /save               Choose generated images to save
  /copy               Copy the last response to the clipboard
  /think              Toggle thought summaries
  /search             Toggle web-search grounding
  /model <name>       Switch model (fast, pro, image)
  /persona <name>     Switch persona (empty to list)
  /clear              Reset the conversation
  /quit               Exit`

// splitCommand separates a slash command from its argument
func splitCommand(input string) (cmd, arg string) {
	parts := strings.SplitN(input, " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

// toggleStatus formats a toggle state change message
func toggleStatus(name string, on bool) string {
	if on {
		return name + " enabled"
	}
	return name + " disabled"
}

// expandPath resolves a leading ~ in user-supplied paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Run starts the studio TUI and blocks until it exits
func Run(client api.GeminiClientInterface, session *api.ChatSession, opts StudioOptions) error {
	model := NewModel(client, session, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
