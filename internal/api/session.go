package api

import (
	"sync"

	"github.com/diogo/geministudio/internal/config"
	"github.com/diogo/geministudio/internal/models"
)

// ChatSession maintains conversation context across messages. The API is
// stateless, so the session keeps the transcript itself and replays it as
// the contents list on every send.
type ChatSession struct {
	client   GeminiClientInterface
	mu       sync.RWMutex // protects everything below
	model    models.Model
	history  []Content
	persona  *config.Persona
	search   bool
	thinking bool

	lastPrompt string
	lastOutput *models.ModelOutput
}

// ChatOption configures a new chat session
type ChatOption func(*ChatSession)

// ChatWithModel sets the session's model
func ChatWithModel(model models.Model) ChatOption {
	return func(s *ChatSession) {
		s.model = model
	}
}

// ChatWithPersona applies a persona's system prompt, preferred model,
// and temperature to the session.
func ChatWithPersona(p *config.Persona) ChatOption {
	return func(s *ChatSession) {
		s.persona = p
		if p != nil && p.Model != "" {
			if m := models.ModelFromName(p.Model); !m.IsUnspecified() {
				s.model = m
			}
		}
	}
}

// ChatWithHistory seeds the session with prior turns, oldest first.
// Used when resuming a stored conversation.
func ChatWithHistory(history []Content) ChatOption {
	return func(s *ChatSession) {
		s.history = copyContents(history)
	}
}

// copyContents copies the turn list so callers cannot mutate session state
func copyContents(h []Content) []Content {
	if h == nil {
		return nil
	}
	result := make([]Content, len(h))
	for i, c := range h {
		parts := make([]Part, len(c.Parts))
		copy(parts, c.Parts)
		result[i] = Content{Role: c.Role, Parts: parts}
	}
	return result
}

// SendMessage sends a message in the chat session and appends both the
// user turn and the model's reply to the transcript.
// files is optional - pass nil when no files are attached.
func (s *ChatSession) SendMessage(prompt string, files []*UploadedFile) (*models.ModelOutput, error) {
	s.mu.RLock()
	opts := &GenerateOptions{
		Model:    s.model,
		History:  copyContents(s.history),
		Files:    files,
		Search:   s.search,
		Thinking: s.thinking,
	}
	if s.persona != nil {
		opts.SystemPrompt = s.persona.SystemPrompt
		opts.Temperature = s.persona.Temperature
	}
	s.mu.RUnlock()

	// GenerateContent is thread-safe, no lock needed
	output, err := s.client.GenerateContent(prompt, opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.history = append(s.history, UserContent(prompt, files), ModelContent(output.Text()))
	s.lastPrompt = prompt
	s.lastOutput = output
	s.mu.Unlock()

	return output, nil
}

// History returns a copy of the session transcript
func (s *ChatSession) History() []Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyContents(s.history)
}

// Len returns the number of turns in the transcript
func (s *ChatSession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// Reset clears the transcript, starting a fresh conversation
func (s *ChatSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.lastPrompt = ""
	s.lastOutput = nil
}

// GetModel returns the session's model
func (s *ChatSession) GetModel() models.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// SetModel changes the session's model mid-conversation
func (s *ChatSession) SetModel(model models.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// SetPersona changes the session's persona
func (s *ChatSession) SetPersona(p *config.Persona) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persona = p
}

// GetPersona returns the session's persona, or nil
func (s *ChatSession) GetPersona() *config.Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persona
}

// SetSearch toggles web-search grounding for subsequent sends
func (s *ChatSession) SetSearch(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = enabled
}

// SearchEnabled reports whether search grounding is on
func (s *ChatSession) SearchEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}

// SetThinking toggles thought summaries for subsequent sends
func (s *ChatSession) SetThinking(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thinking = enabled
}

// ThinkingEnabled reports whether thought summaries are on
func (s *ChatSession) ThinkingEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thinking
}

// LastOutput returns the last response from the session
func (s *ChatSession) LastOutput() *models.ModelOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastOutput
}

// ChooseCandidate selects a different candidate from the last output and
// rewrites the transcript's final model turn to match, so the chosen
// reply is what future sends build on.
func (s *ChatSession) ChooseCandidate(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastOutput == nil {
		return
	}
	if index < 0 || index >= len(s.lastOutput.Candidates) {
		return
	}

	s.lastOutput.Chosen = index
	if n := len(s.history); n > 0 && s.history[n-1].Role == models.RoleModel {
		s.history[n-1] = ModelContent(s.lastOutput.Text())
	}
}
