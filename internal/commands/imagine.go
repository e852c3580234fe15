package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/diogo/geministudio/internal/api"
	"github.com/diogo/geministudio/internal/config"
	"github.com/diogo/geministudio/internal/models"
)

var (
	imagineCountFlag    int
	imagineAspectFlag   string
	imagineNegativeFlag string
	imagineOutFlag      string
)

// imagineCmd generates images from a text prompt
var imagineCmd = &cobra.Command{
	Use:   "imagine <prompt>",
	Short: "Generate images from a text prompt",
	Long: `Generate images from a text prompt with the configured image model.
Requests for more candidates than the API allows per call are fanned
out over parallel rate-limited batches.

Examples:
  geministudio imagine "a red cube on a beach"
  geministudio imagine -n 8 --aspect 1:1 "low-poly mountain range"
  geministudio imagine --negative "text, watermark" "movie poster"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImagine(args[0])
	},
}

func init() {
	imagineCmd.Flags().IntVarP(&imagineCountFlag, "count", "n", 0, "Number of images to generate")
	imagineCmd.Flags().StringVar(&imagineAspectFlag, "aspect", "", "Aspect ratio (1:1, 3:4, 4:3, 9:16, 16:9)")
	imagineCmd.Flags().StringVar(&imagineNegativeFlag, "negative", "", "Negative prompt: what to avoid")
	imagineCmd.Flags().StringVar(&imagineOutFlag, "out", "", "Output directory for generated images")
}

// batchSizes splits a candidate count into per-request batches capped at
// the API's per-call maximum
func batchSizes(total, max int) []int {
	if total <= 0 {
		return nil
	}
	var batches []int
	for total > 0 {
		n := total
		if n > max {
			n = max
		}
		batches = append(batches, n)
		total -= n
	}
	return batches
}

// runImagine generates images and saves them to the output directory
func runImagine(prompt string) error {
	cfg, _ := config.LoadConfig()

	count := imagineCountFlag
	if count <= 0 {
		count = cfg.ImageCount
	}
	if count <= 0 {
		count = models.DefaultImageCount
	}

	aspect := imagineAspectFlag
	if aspect == "" {
		aspect = cfg.AspectRatio
	}
	if aspect != "" && !models.ValidAspectRatio(aspect) {
		return fmt.Errorf("invalid aspect ratio: %s", aspect)
	}

	spin := newSpinner(fmt.Sprintf("Generating %d image(s)", count))
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

	images, err := generateBatched(client, prompt, count, aspect, imagineNegativeFlag)
	if err != nil {
		spin.stopWithError()
		fmt.Println(formatErrorMessage(err, "Generation failed"))
		return err
	}
	spin.stopWithSuccess(fmt.Sprintf("Generated %d image(s)", len(images)))

	saveOpts := api.DefaultSaveOptions()
	saveOpts.Prefix = "imagine"
	if imagineOutFlag != "" {
		saveOpts.Directory = imagineOutFlag
	} else if dir, err := config.GetDownloadDir(cfg); err == nil {
		saveOpts.Directory = dir
	}

	paths, err := client.SaveImages(images, saveOpts)
	if err != nil {
		return fmt.Errorf("failed to save images: %w", err)
	}

	for _, path := range paths {
		fmt.Println(path)
	}
	return nil
}

// generateBatched fans out the request over rate-limited parallel calls
// when the candidate count exceeds the per-call maximum. Results keep
// batch order.
func generateBatched(client api.GeminiClientInterface, prompt string, count int, aspect, negative string) ([]models.GeneratedImage, error) {
	batches := batchSizes(count, models.MaxImageCount)

	if len(batches) == 1 {
		return client.GenerateImages(prompt, &api.ImagineOptions{
			Count:          batches[0],
			AspectRatio:    aspect,
			NegativePrompt: negative,
		})
	}

	slog.Debug("fanning out image generation", "count", count, "batches", len(batches))

	// One predict call per second keeps the fan-out under quota
	limiter := rate.NewLimiter(rate.Every(time.Second), 1)

	var (
		mu      sync.Mutex
		results = make([][]models.GeneratedImage, len(batches))
	)

	g, ctx := errgroup.WithContext(context.Background())
	for i, n := range batches {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			images, err := client.GenerateImages(prompt, &api.ImagineOptions{
				Count:          n,
				AspectRatio:    aspect,
				NegativePrompt: negative,
			})
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = images
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.GeneratedImage
	for _, batch := range results {
		all = append(all, batch...)
	}
	return all, nil
}
