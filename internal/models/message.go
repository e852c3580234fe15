package models

// Roles used in generate requests and transcripts
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message represents a transcript entry for TUI display
type Message struct {
	Role      string // "user" or "model"
	Content   string
	Thoughts  string
	Citations []Citation
	Images    []string // paths of attached or saved images
}
