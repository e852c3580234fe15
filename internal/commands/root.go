// Package commands provides CLI commands for geministudio.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/geministudio/internal/config"
)

var (
	// Global flags
	modelFlag   string
	verboseFlag bool

	// Root query flags
	outputFlag     string
	fileFlag       string
	imageFlag      string
	personaFlag    string
	searchFlag     bool
	thinkFlag      bool
	saveImagesFlag string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "geministudio [prompt]",
	Short: "Terminal studio for the Gemini API",
	Long: `geministudio is a terminal front end for Google's generative AI models:
chat about images, edit them with natural language, and generate new
ones, all against the Generative Language API with an API key.

Examples:
  geministudio studio                   Start the interactive studio
  geministudio "What is Go?"            Send a single query
  geministudio --image photo.png "What is in this picture?"
  geministudio imagine "a red cube on a beach"
  geministudio edit -i photo.png "make the sky purple"
  geministudio -f prompt.md             Read prompt from file
  cat prompt.md | geministudio          Read prompt from stdin
  geministudio "Hello" -o response.md   Save response to file`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check for version flag
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("geministudio %s (built %s)\n", Version, BuildTime)
			return nil
		}

		rawOutput := !isStdoutTTY()

		// Check for file input
		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), rawOutput)
		}

		// Check for stdin input
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), rawOutput)
		}

		// Check for positional argument
		if len(args) > 0 {
			return runQuery(args[0], rawOutput)
		}

		// No input - show help
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (fast, pro, image, or an API model name)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable debug logging")

	// Root query flags
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Path to image file to include")
	rootCmd.Flags().StringVar(&personaFlag, "persona", "", "Persona to apply as system instruction")
	rootCmd.Flags().BoolVar(&searchFlag, "search", false, "Enable web-search grounding")
	rootCmd.Flags().BoolVar(&thinkFlag, "think", false, "Request thought summaries")
	rootCmd.Flags().StringVar(&saveImagesFlag, "save-images", "", "Directory for saving returned images")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(studioCmd)
	rootCmd.AddCommand(imagineCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}

// setupLogging configures the default slog logger. Debug level is
// enabled by --verbose or the config file.
func setupLogging() {
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	} else if cfg, err := config.LoadConfig(); err == nil && cfg.Verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// getModel returns the model to use (from flag or config)
func getModel() string {
	if modelFlag != "" {
		return modelFlag
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return "fast"
	}

	return cfg.DefaultModel
}
