package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/geministudio/internal/config"
	"github.com/diogo/geministudio/internal/models"
	"github.com/diogo/geministudio/internal/render"
)

// configCmd manages persistent settings
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings",
	Long: `Manage persistent settings stored in ~/.geministudio/config.json.

Examples:
  geministudio config show
  geministudio config set model pro
  geministudio config set theme catppuccin
  geministudio config set-key AIza...
  geministudio config path`,
}

// configShowCmd prints the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("model:           %s\n", cfg.DefaultModel)
		fmt.Printf("image-model:     %s\n", cfg.ImageModel)
		fmt.Printf("aspect:          %s\n", cfg.AspectRatio)
		fmt.Printf("count:           %d\n", cfg.ImageCount)
		fmt.Printf("search:          %t\n", cfg.SearchGrounding)
		fmt.Printf("think:           %t\n", cfg.ShowThoughts)
		fmt.Printf("theme:           %s\n", cfg.TUITheme)
		fmt.Printf("download-dir:    %s\n", cfg.DownloadDir)
		fmt.Printf("scene-file:      %s\n", cfg.SceneFile)
		fmt.Printf("clipboard:       %t\n", cfg.CopyToClipboard)
		fmt.Printf("verbose:         %t\n", cfg.Verbose)
		fmt.Printf("markdown-style:  %s\n", cfg.Markdown.Style)
		return nil
	},
}

// configSetCmd updates one setting
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if err := applyConfigValue(&cfg, args[0], args[1]); err != nil {
			return err
		}

		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

// configPathCmd prints the config file location
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

// configSetKeyCmd stores the API key in the credentials file
var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <api-key>",
	Short: "Store the Gemini API key",
	Long: `Store the Gemini API key in ~/.geministudio/credentials.json.
The GEMINI_API_KEY environment variable takes precedence when set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ImportKey(args[0]); err != nil {
			return err
		}
		fmt.Println("API key saved")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetKeyCmd)
}

// applyConfigValue validates and applies one key/value pair
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "model":
		if models.ModelFromName(value).IsUnspecified() {
			return fmt.Errorf("unknown model %q (try: %s)", value, strings.Join(config.AvailableModels(), ", "))
		}
		cfg.DefaultModel = value

	case "image-model":
		cfg.ImageModel = value

	case "aspect":
		if !models.ValidAspectRatio(value) {
			return fmt.Errorf("invalid aspect ratio %q", value)
		}
		cfg.AspectRatio = value

	case "count":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > models.MaxImageCount {
			return fmt.Errorf("count must be between 1 and %d", models.MaxImageCount)
		}
		cfg.ImageCount = n

	case "search":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("search must be true or false")
		}
		cfg.SearchGrounding = b

	case "think":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("think must be true or false")
		}
		cfg.ShowThoughts = b

	case "theme":
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown theme %q (try: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
		cfg.TUITheme = value

	case "download-dir":
		cfg.DownloadDir = value

	case "scene-file":
		cfg.SceneFile = value

	case "clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("clipboard must be true or false")
		}
		cfg.CopyToClipboard = b

	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false")
		}
		cfg.Verbose = b

	case "markdown-style":
		cfg.Markdown.Style = value

	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	return nil
}
