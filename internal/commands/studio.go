package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/diogo/geministudio/internal/api"
	"github.com/diogo/geministudio/internal/config"
	"github.com/diogo/geministudio/internal/history"
	"github.com/diogo/geministudio/internal/models"
	"github.com/diogo/geministudio/internal/render"
	"github.com/diogo/geministudio/internal/scene"
	"github.com/diogo/geministudio/internal/tui"
)

var (
	resumeFlag    bool
	sceneFileFlag string
)

// studioCmd starts the interactive studio TUI
var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Start the interactive studio",
	Long: `Start the interactive studio: an animated preview panel, chat about
attached images, natural-language image editing, and text-to-image
generation in one terminal session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudio()
	},
}

func init() {
	studioCmd.Flags().BoolVar(&resumeFlag, "resume", false, "Pick a saved conversation to resume")
	studioCmd.Flags().StringVar(&sceneFileFlag, "scene", "", "Scene definition file for the preview panel")
}

// runStudio wires up the client, history, and scene, then hands off to
// the TUI
func runStudio() error {
	cfg, _ := config.LoadConfig()

	// Apply the configured theme before any styles render
	if cfg.TUITheme != "" {
		if !render.SetTUITheme(cfg.TUITheme) {
			fmt.Printf("Warning: unknown theme '%s', using default\n", cfg.TUITheme)
		}
		tui.UpdateTheme()
	}

	modelName := getModel()
	model := models.ModelFromName(modelName)
	if model.IsUnspecified() {
		model = models.Model{Name: modelName}
	}

	spin := newSpinner("Connecting to Gemini")
	spin.start()

	client, err := newClient(model)
	if err != nil {
		spin.stopWithError()
		fmt.Println(formatErrorMessage(err, "Failed to create client"))
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if err := client.Init(); err != nil {
		spin.stopWithError()
		fmt.Println(formatErrorMessage(err, "Failed to initialize"))
		return fmt.Errorf("failed to initialize: %w", err)
	}
	spin.stopWithSuccess("Connected")

	// Load the preview scene: flag wins, then config, then the default
	previewScene, err := loadScene(sceneFileFlag, cfg)
	if err != nil {
		return err
	}

	// History store; the studio still works if it cannot be created
	store, err := history.DefaultStore()
	if err != nil {
		slog.Debug("history disabled", "error", err)
		store = nil
	}

	conversation, err := pickConversation(store, model.Name)
	if err != nil {
		return err
	}

	persona, err := resolvePersona()
	if err != nil {
		return err
	}
	if store != nil && conversation != nil && persona != nil && conversation.Persona != persona.Name {
		if err := store.SetPersona(conversation.ID, persona.Name); err != nil {
			slog.Debug("could not record persona", "error", err)
		}
	}

	sessionOpts := []api.ChatOption{api.ChatWithModel(model)}
	if persona != nil {
		sessionOpts = append(sessionOpts, api.ChatWithPersona(persona))
	}
	if conversation != nil && len(conversation.Messages) > 0 {
		sessionOpts = append(sessionOpts, api.ChatWithHistory(buildSessionHistory(conversation)))
	}

	session := client.StartChatWithOptions(sessionOpts...)
	session.SetSearch(cfg.SearchGrounding)
	session.SetThinking(cfg.ShowThoughts)

	return tui.Run(client, session, tui.StudioOptions{
		Config:       cfg,
		Scene:        previewScene,
		Store:        store,
		Conversation: conversation,
	})
}

// loadScene resolves the preview scene from the flag, config, or default
func loadScene(flagPath string, cfg config.Config) (*scene.Scene, error) {
	path := flagPath
	if path == "" {
		path = cfg.SceneFile
	}
	if path == "" {
		return scene.Default(), nil
	}

	def, err := scene.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return scene.New(def)
}

// pickConversation creates a new conversation, or lets the user resume
// one when --resume is set. Returns nil when history is unavailable.
func pickConversation(store *history.Store, modelName string) (*history.Conversation, error) {
	if store == nil {
		return nil, nil
	}

	if resumeFlag {
		result, err := tui.RunHistorySelector(store, modelName)
		if err != nil {
			return nil, fmt.Errorf("history selector failed: %w", err)
		}
		if !result.Confirmed {
			return nil, fmt.Errorf("cancelled")
		}
		if !result.IsNew && result.Conversation != nil {
			return result.Conversation, nil
		}
	}

	conv, err := store.CreateConversation(modelName)
	if err != nil {
		slog.Debug("could not create conversation", "error", err)
		return nil, nil
	}
	return conv, nil
}
