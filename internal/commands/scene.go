package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/geministudio/internal/config"
	"github.com/diogo/geministudio/internal/render"
	"github.com/diogo/geministudio/internal/scene"
	"github.com/diogo/geministudio/internal/tui"
)

var (
	scenePathFlag   string
	sceneGIFFlag    string
	sceneFramesFlag int
	sceneFPSFlag    float64
	sceneSizeFlag   string
)

// sceneCmd plays or exports the animated placeholder scene
var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Play or export the animated scene",
	Long: `Play the animated placeholder scene full screen, or export it as a
looping GIF.

Examples:
  geministudio scene                         Play the default scene
  geministudio scene --file my-scene.json    Play a custom scene
  geministudio scene --gif out.gif           Export as an animated GIF
  geministudio scene --gif out.gif --size 960x540 --frames 200`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScene()
	},
}

// sceneInitCmd writes the default scene definition for customization
var sceneInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the default scene definition to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scene.WriteFile(args[0], scene.DefaultDef()); err != nil {
			return err
		}
		fmt.Printf("Scene definition written to %s\n", args[0])
		return nil
	},
}

func init() {
	sceneCmd.Flags().StringVar(&scenePathFlag, "file", "", "Scene definition file")
	sceneCmd.Flags().StringVar(&sceneGIFFlag, "gif", "", "Export an animated GIF to this path instead of playing")
	sceneCmd.Flags().IntVar(&sceneFramesFlag, "frames", 0, "Number of GIF frames")
	sceneCmd.Flags().Float64Var(&sceneFPSFlag, "fps", 0, "GIF frame rate")
	sceneCmd.Flags().StringVar(&sceneSizeFlag, "size", "", "GIF frame size as WIDTHxHEIGHT, e.g. 480x270")
	sceneCmd.AddCommand(sceneInitCmd)
}

// parseSize parses a WIDTHxHEIGHT specification
func parseSize(s string) (w, h int, err error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q, expected WIDTHxHEIGHT", s)
	}
	w, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

// runScene plays the scene, or exports it when --gif is set
func runScene() error {
	cfg, _ := config.LoadConfig()

	s, err := loadScene(scenePathFlag, cfg)
	if err != nil {
		return err
	}

	if sceneGIFFlag != "" {
		return exportGIF(s)
	}

	if cfg.TUITheme != "" {
		render.SetTUITheme(cfg.TUITheme)
		tui.UpdateTheme()
	}
	return tui.RunSceneViewer(s)
}

// exportGIF writes the scene animation as a looping GIF
func exportGIF(s *scene.Scene) error {
	opts := scene.DefaultGIFOptions()
	if sceneFramesFlag > 0 {
		opts.Frames = sceneFramesFlag
	}
	if sceneFPSFlag > 0 {
		opts.FPS = sceneFPSFlag
	}
	if sceneSizeFlag != "" {
		w, h, err := parseSize(sceneSizeFlag)
		if err != nil {
			return err
		}
		opts.Width, opts.Height = w, h
	}

	f, err := os.Create(sceneGIFFlag)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := scene.EncodeGIF(f, s, opts); err != nil {
		return fmt.Errorf("GIF export failed: %w", err)
	}

	fmt.Printf("Exported %d frames to %s\n", opts.Frames, sceneGIFFlag)
	return nil
}
