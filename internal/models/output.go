package models

// Citation is a web source that grounded part of a response
type Citation struct {
	Title string
	URI   string
}

// GeneratedImage is an inline image returned by a model
type GeneratedImage struct {
	MIMEType string
	Data     []byte
}

// Ext returns a file extension matching the image MIME type
func (g GeneratedImage) Ext() string {
	switch g.MIMEType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}

// Candidate represents a single response candidate from Gemini
type Candidate struct {
	Text      string
	Thoughts  string // Only populated when thought summaries are requested
	Citations []Citation
	Images    []GeneratedImage
}

// ModelOutput represents the complete API response from a generate call
type ModelOutput struct {
	Candidates []Candidate
	Chosen     int    // Index of selected candidate
	Model      string // Model version reported by the API
}

// Text returns the chosen candidate's text
func (m *ModelOutput) Text() string {
	if c := m.ChosenCandidate(); c != nil {
		return c.Text
	}
	return ""
}

// Thoughts returns the chosen candidate's thoughts
func (m *ModelOutput) Thoughts() string {
	if c := m.ChosenCandidate(); c != nil {
		return c.Thoughts
	}
	return ""
}

// Citations returns the chosen candidate's grounding sources
func (m *ModelOutput) Citations() []Citation {
	if c := m.ChosenCandidate(); c != nil {
		return c.Citations
	}
	return nil
}

// Images returns the chosen candidate's inline images
func (m *ModelOutput) Images() []GeneratedImage {
	if c := m.ChosenCandidate(); c != nil {
		return c.Images
	}
	return nil
}

// ChosenCandidate returns a pointer to the chosen candidate
func (m *ModelOutput) ChosenCandidate() *Candidate {
	if len(m.Candidates) == 0 {
		return nil
	}
	if m.Chosen < 0 || m.Chosen >= len(m.Candidates) {
		return &m.Candidates[0]
	}
	return &m.Candidates[m.Chosen]
}
