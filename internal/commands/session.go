package commands

import (
	"github.com/diogo/geministudio/internal/api"
	"github.com/diogo/geministudio/internal/history"
	"github.com/diogo/geministudio/internal/models"
)

// buildSessionHistory converts persisted conversation messages into API
// turns so a resumed session carries its full context. Image-only turns
// are replayed as text references; the files themselves are not
// re-uploaded.
func buildSessionHistory(conv *history.Conversation) []api.Content {
	if conv == nil {
		return nil
	}

	contents := make([]api.Content, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case models.RoleUser:
			contents = append(contents, api.UserContent(msg.Content, nil))
		case models.RoleModel:
			contents = append(contents, api.ModelContent(msg.Content))
		}
	}
	return contents
}
