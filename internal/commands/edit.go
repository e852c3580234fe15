package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/geministudio/internal/api"
	"github.com/diogo/geministudio/internal/config"
	"github.com/diogo/geministudio/internal/models"
)

var (
	editImageFlag string
	editOutFlag   string
)

// editCmd edits an image with a natural-language instruction
var editCmd = &cobra.Command{
	Use:   "edit <instruction>",
	Short: "Edit an image with a natural-language instruction",
	Long: `Edit an image with a natural-language instruction. The image is sent
inline to an image-capable model and every returned image is saved.

Examples:
  geministudio edit -i photo.png "make the sky purple"
  geministudio edit -i logo.png --out ./drafts "remove the background"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(args[0])
	},
}

func init() {
	editCmd.Flags().StringVarP(&editImageFlag, "image", "i", "", "Path to the image to edit (required)")
	editCmd.Flags().StringVar(&editOutFlag, "out", "", "Output directory for edited images")
	_ = editCmd.MarkFlagRequired("image")
}

// runEdit edits the image and saves the results
func runEdit(instruction string) error {
	cfg, _ := config.LoadConfig()

	spin := newSpinner("Editing image")
	spin.start()

	client, err := newClient(models.DefaultModel)
	if err != nil {
		spin.stopWithError()
		fmt.Println(formatErrorMessage(err, "Failed to create client"))
		return err
	}
	defer client.Close()

	if err := client.Init(); err != nil {
		spin.stopWithError()
		fmt.Println(formatErrorMessage(err, "Failed to initialize"))
		return err
	}

	output, err := client.EditImage(instruction, editImageFlag, nil)
	if err != nil {
		spin.stopWithError()
		fmt.Println(formatErrorMessage(err, "Edit failed"))
		return err
	}

	images := output.Images()
	if len(images) == 0 {
		spin.stopWithError()
		return fmt.Errorf("the model returned no edited image")
	}
	spin.stopWithSuccess(fmt.Sprintf("Received %d edited image(s)", len(images)))

	saveOpts := api.DefaultSaveOptions()
	saveOpts.Prefix = "edit"
	if editOutFlag != "" {
		saveOpts.Directory = editOutFlag
	} else if dir, err := config.GetDownloadDir(cfg); err == nil {
		saveOpts.Directory = dir
	}

	paths, err := client.SaveImages(images, saveOpts)
	if err != nil {
		return fmt.Errorf("failed to save edited images: %w", err)
	}

	// The model often narrates what it changed
	if text := output.Text(); text != "" {
		fmt.Println(text)
	}
	for _, path := range paths {
		fmt.Println(path)
	}
	return nil
}
