package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/geministudio/internal/api"
	"github.com/diogo/geministudio/internal/history"
	"github.com/diogo/geministudio/internal/models"
)

func newTestModel() (Model, *api.MockGeminiClient) {
	client := &api.MockGeminiClient{Model: models.ModelFast}
	session := client.StartChat()
	m := NewModel(client, session, StudioOptions{})
	m.width = 80
	m.height = 40
	m.ready = true
	m.resize()
	return m, client
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel()

	if m.loading {
		t.Error("new model should not be loading")
	}
	if len(m.entries) != 0 {
		t.Errorf("expected empty transcript, got %d entries", len(m.entries))
	}
	if m.scene == nil {
		t.Error("expected default scene when none given")
	}
}

func TestNewModelReplaysConversation(t *testing.T) {
	client := &api.MockGeminiClient{Model: models.ModelFast}
	conv := &history.Conversation{
		ID: "conv-12345678",
		Messages: []history.Message{
			{Role: "user", Content: "hello"},
			{Role: "model", Content: "hi there", Citations: []history.Citation{{URI: "https://example.com"}}},
		},
	}
	m := NewModel(client, client.StartChat(), StudioOptions{Conversation: conv})

	if len(m.entries) != 2 {
		t.Fatalf("expected 2 replayed entries, got %d", len(m.entries))
	}
	if m.entries[0].role != models.RoleUser || m.entries[0].content != "hello" {
		t.Errorf("unexpected first entry: %+v", m.entries[0])
	}
	if len(m.entries[1].citations) != 1 {
		t.Errorf("expected citation to survive replay, got %+v", m.entries[1])
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input string
		cmd   string
		arg   string
	}{
		{"/help", "/help", ""},
		{"/model pro", "/model", "pro"},
		{"/edit make it warmer", "/edit", "make it warmer"},
		{"/ATTACH photo.png", "/attach", "photo.png"},
		{"/generate  a red cube ", "/generate", "a red cube"},
	}

	for _, tt := range tests {
		cmd, arg := splitCommand(tt.input)
		if cmd != tt.cmd || arg != tt.arg {
			t.Errorf("splitCommand(%q) = (%q, %q), want (%q, %q)",
				tt.input, cmd, arg, tt.cmd, tt.arg)
		}
	}
}

func TestToggleCommands(t *testing.T) {
	m, _ := newTestModel()

	result, _ := m.handleCommand("/think")
	m = result.(Model)
	if !m.session.ThinkingEnabled() {
		t.Error("/think should enable thinking")
	}

	result, _ = m.handleCommand("/think")
	m = result.(Model)
	if m.session.ThinkingEnabled() {
		t.Error("/think twice should disable thinking")
	}

	result, _ = m.handleCommand("/search")
	m = result.(Model)
	if !m.session.SearchEnabled() {
		t.Error("/search should enable grounding")
	}
}

func TestModelCommand(t *testing.T) {
	m, _ := newTestModel()

	result, _ := m.handleCommand("/model pro")
	m = result.(Model)
	if m.session.GetModel().Name != models.ModelPro.Name {
		t.Errorf("expected model switch to pro, got %s", m.session.GetModel().Name)
	}

	result, _ = m.handleCommand("/model bogus")
	m = result.(Model)
	if m.err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestUnknownCommand(t *testing.T) {
	m, _ := newTestModel()

	result, _ := m.handleCommand("/frobnicate")
	m = result.(Model)
	if m.err == nil {
		t.Error("expected error for unknown command")
	}
	if !strings.Contains(m.err.Error(), "/frobnicate") {
		t.Errorf("error should name the command, got %v", m.err)
	}
}

func TestEditRequiresAttachment(t *testing.T) {
	m, client := newTestModel()

	result, cmd := m.handleCommand("/edit brighten it")
	m = result.(Model)
	if m.err == nil {
		t.Error("expected error when editing without an attachment")
	}
	if cmd != nil {
		t.Error("no command should be issued without an attachment")
	}
	if client.EditImageCalled != 0 {
		t.Error("EditImage should not have been called")
	}
}

func TestGenerateCommandStartsLoading(t *testing.T) {
	m, _ := newTestModel()

	result, cmd := m.handleCommand("/generate a sunset")
	m = result.(Model)
	if !m.loading {
		t.Error("expected loading state after /generate")
	}
	if cmd == nil {
		t.Error("expected an async command")
	}
	if len(m.entries) != 1 || m.entries[0].role != models.RoleUser {
		t.Errorf("expected user entry in transcript, got %+v", m.entries)
	}
}

func TestImagesGeneratedMsg(t *testing.T) {
	m, _ := newTestModel()
	m.loading = true

	result, _ := m.Update(imagesGeneratedMsg{
		prompt: "a sunset",
		images: []models.GeneratedImage{{MIMEType: "image/png", Data: []byte("x")}},
	})
	m = result.(Model)

	if m.loading {
		t.Error("loading should clear on result")
	}
	if len(m.generated) != 1 {
		t.Errorf("expected 1 generated candidate, got %d", len(m.generated))
	}
	if len(m.entries) != 1 || m.entries[0].role != "note" {
		t.Errorf("expected note entry, got %+v", m.entries)
	}
}

func TestLateResultDroppedAfterAbandon(t *testing.T) {
	m, _ := newTestModel()
	m.loading = true

	// Esc abandons the wait
	result, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = result.(Model)
	if m.loading {
		t.Fatal("esc should abandon the wait")
	}

	// The stale result must not alter the transcript
	result, _ = m.Update(responseMsg{output: &models.ModelOutput{
		Candidates: []models.Candidate{{Text: "late"}},
	}})
	m = result.(Model)
	if len(m.entries) != 0 {
		t.Errorf("late response should be dropped, got %d entries", len(m.entries))
	}
}

func TestResponseMsgAppendsModelEntry(t *testing.T) {
	m, _ := newTestModel()
	m.loading = true
	m.cfg.ShowThoughts = true

	output := &models.ModelOutput{
		Candidates: []models.Candidate{{
			Text:      "the answer",
			Thoughts:  "pondering",
			Citations: []models.Citation{{Title: "ref", URI: "https://example.com"}},
		}},
	}
	result, _ := m.Update(responseMsg{output: output})
	m = result.(Model)

	if len(m.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.entries))
	}
	entry := m.entries[0]
	if entry.role != models.RoleModel || entry.content != "the answer" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.thoughts != "pondering" {
		t.Error("thoughts should be kept when ShowThoughts is on")
	}
	if len(entry.citations) != 1 {
		t.Error("citations should be carried into the transcript")
	}
}

func TestClearCommand(t *testing.T) {
	m, _ := newTestModel()
	m.entries = []chatEntry{{role: models.RoleUser, content: "hi"}}
	m.generated = []models.GeneratedImage{{MIMEType: "image/png"}}
	m.attachmentPath = "/tmp/x.png"

	result, _ := m.handleCommand("/clear")
	m = result.(Model)

	if len(m.entries) != 0 || len(m.generated) != 0 || m.attachmentPath != "" {
		t.Error("/clear should reset transcript, candidates, and attachment")
	}
}

func TestSaveWithoutCandidates(t *testing.T) {
	m, _ := newTestModel()

	result, _ := m.handleCommand("/save")
	m = result.(Model)
	if m.saveSelector != nil {
		t.Error("selector should not open without candidates")
	}
	if m.status == "" {
		t.Error("expected a status hint")
	}
}

func TestSaveOpensSelector(t *testing.T) {
	m, _ := newTestModel()
	m.generated = []models.GeneratedImage{{MIMEType: "image/png", Data: []byte("a")}}

	result, _ := m.handleCommand("/save")
	m = result.(Model)
	if m.saveSelector == nil {
		t.Fatal("expected save selector to open")
	}

	// Esc closes the overlay without saving
	result, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = result.(Model)
	if m.saveSelector != nil {
		t.Error("esc should close the selector")
	}
}

func TestAnimationTickAdvancesFrame(t *testing.T) {
	m, _ := newTestModel()
	before := m.frame

	result, cmd := m.Update(animationTickMsg{})
	m = result.(Model)
	if m.frame != before+1 {
		t.Errorf("frame should advance, got %d", m.frame)
	}
	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
}

func TestAnimationStopsWithAttachment(t *testing.T) {
	m, _ := newTestModel()
	m.attachment = &api.UploadedFile{URI: "files/x"}
	m.preview = "thumb"
	before := m.frame

	result, cmd := m.Update(animationTickMsg{})
	m = result.(Model)
	if m.frame != before {
		t.Error("frame should freeze while an image is attached")
	}
	if cmd != nil {
		t.Error("no further tick should be scheduled")
	}
}

func TestAnimationPausesWhileLoading(t *testing.T) {
	m, _ := newTestModel()
	m.loading = true
	before := m.frame

	result, cmd := m.Update(animationTickMsg{})
	m = result.(Model)
	if m.frame != before {
		t.Error("frame should not advance while a request is in flight")
	}
	if cmd != nil {
		t.Error("the tick loop should go idle while loading")
	}
}

func TestResponseKeepsSingleTickLoop(t *testing.T) {
	m, _ := newTestModel()
	m.loading = true // the loop armed by Init is still live

	result, cmd := m.Update(responseMsg{output: &models.ModelOutput{
		Candidates: []models.Candidate{{Text: "ok"}},
	}})
	m = result.(Model)

	if m.loading {
		t.Fatal("loading should clear on result")
	}
	if cmd != nil {
		t.Error("a result must not arm a second tick loop while one is live")
	}
}

func TestResponseRestartsIdleAnimation(t *testing.T) {
	m, _ := newTestModel()
	m.loading = true

	// A tick arriving mid-request parks the loop
	result, _ := m.Update(animationTickMsg{})
	m = result.(Model)

	result, cmd := m.Update(responseMsg{output: &models.ModelOutput{
		Candidates: []models.Candidate{{Text: "ok"}},
	}})
	m = result.(Model)

	if cmd == nil {
		t.Error("the parked loop should restart when the response lands")
	}
}

func TestLateAttachmentDropped(t *testing.T) {
	m, _ := newTestModel()

	// The upload finished after the wait was abandoned
	result, _ := m.Update(attachmentMsg{path: "/tmp/late.png", file: &api.UploadedFile{URI: "files/late"}})
	m = result.(Model)

	if m.attachment != nil || m.attachmentPath != "" {
		t.Error("an abandoned upload should not attach")
	}
}

func TestSceneViewRendersCells(t *testing.T) {
	m, _ := newTestModel()

	view := m.sceneView()
	if view == "" {
		t.Fatal("scene view should not be empty")
	}
	if len(strings.Split(view, "\n")) != previewRows {
		t.Errorf("expected %d rows, got %d", previewRows, len(strings.Split(view, "\n")))
	}
}

func TestExpandPath(t *testing.T) {
	if got := expandPath("/abs/path.png"); got != "/abs/path.png" {
		t.Errorf("absolute path should pass through, got %q", got)
	}
	if got := expandPath("~/photo.png"); strings.HasPrefix(got, "~") {
		t.Errorf("tilde should expand, got %q", got)
	}
}

func TestLastModelText(t *testing.T) {
	m, _ := newTestModel()
	m.entries = []chatEntry{
		{role: models.RoleUser, content: "q1"},
		{role: models.RoleModel, content: "a1"},
		{role: models.RoleUser, content: "q2"},
		{role: models.RoleModel, content: "a2"},
		{role: "note", content: "saved"},
	}

	if got := m.lastModelText(); got != "a2" {
		t.Errorf("lastModelText() = %q, want %q", got, "a2")
	}
}
