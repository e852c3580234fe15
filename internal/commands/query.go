package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/geministudio/internal/api"
	"github.com/diogo/geministudio/internal/config"
	apierrors "github.com/diogo/geministudio/internal/errors"
	"github.com/diogo/geministudio/internal/models"
	"github.com/diogo/geministudio/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorAccent   = lipgloss.Color("#7dcfff")
)

// Styles matching the studio TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginBottom(0)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	thoughtsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorTextDim).
			BorderLeft(true).
			Foreground(colorTextDim).
			PaddingLeft(1).
			MarginLeft(1).
			Italic(true)

	citationStyle = lipgloss.NewStyle().
			Foreground(colorAccent)
)

// spinner handles the animated loading indicator
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(os.Stderr, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	// Spinner characters
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	// Build spinner character with color
	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	// Build animated bar
	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	// Build animated dots
	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	// Message with color
	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	// Print animation (clear line first)
	fmt.Fprintf(os.Stderr, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(os.Stderr, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// newClient builds an initialized API client from stored credentials
func newClient(model models.Model) (*api.GeminiClient, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}

	cfg, _ := config.LoadConfig()
	opts := []api.ClientOption{api.WithModel(model)}
	if cfg.ImageModel != "" {
		opts = append(opts, api.WithImageModel(cfg.ImageModel))
	}

	return api.NewClient(creds, opts...)
}

// resolvePersona returns the persona to apply: the --persona flag wins,
// otherwise a configured non-trivial default persona
func resolvePersona() (*config.Persona, error) {
	if personaFlag != "" {
		persona, err := config.GetPersona(personaFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to load persona '%s': %w", personaFlag, err)
		}
		return persona, nil
	}

	defaultPersona, err := config.GetDefaultPersona()
	if err == nil && defaultPersona != nil && defaultPersona.Name != "default" && defaultPersona.SystemPrompt != "" {
		return defaultPersona, nil
	}
	return nil, nil
}

// runQuery executes a single query and outputs the response.
// If rawOutput is true, only the raw response text is printed without decoration.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg, _ := config.LoadConfig()

	modelName := getModel()
	model := models.ModelFromName(modelName)
	if model.IsUnspecified() {
		model = models.Model{Name: modelName}
	}

	persona, err := resolvePersona()
	if err != nil {
		return err
	}
	if persona != nil {
		slog.Debug("using persona", "name", persona.Name)
	}
	slog.Debug("query", "model", model.Name)

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Connecting to Gemini")
		spin.start()
	}

	client, err := newClient(model)
	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to create client"))
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if err := client.Init(); err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to initialize"))
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess("Connected")
	}

	// Upload image if provided
	var files []*api.UploadedFile
	if imageFlag != "" {
		if !rawOutput {
			spin = newSpinner("Uploading image")
			spin.start()
		}

		file, err := client.UploadFile(imageFlag)
		if err != nil {
			if !rawOutput {
				spin.stopWithError()
				fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to upload image"))
			}
			return fmt.Errorf("failed to upload image: %w", err)
		}
		files = append(files, file)
		if !rawOutput {
			spin.stopWithSuccess("Image uploaded")
		}
	}

	// Generate content
	if !rawOutput {
		spin = newSpinner("Generating response")
		spin.start()
	}

	opts := &api.GenerateOptions{
		Files:    files,
		Search:   searchFlag || cfg.SearchGrounding,
		Thinking: thinkFlag || cfg.ShowThoughts,
	}
	if persona != nil {
		opts.SystemPrompt = persona.SystemPrompt
		opts.Temperature = persona.Temperature
	}

	startTime := time.Now()
	output, err := client.GenerateContent(prompt, opts)
	requestDuration := time.Since(startTime)

	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Generation failed"))
		}
		return fmt.Errorf("generation failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}

	slog.Debug("request finished",
		"model", output.Model,
		"duration", requestDuration.Round(time.Millisecond),
		"citations", len(output.Citations()),
		"images", len(output.Images()))

	// Save returned inline images if requested
	if saveImagesFlag != "" {
		if imgs := output.Images(); len(imgs) > 0 {
			saveOpts := api.DefaultSaveOptions()
			saveOpts.Directory = saveImagesFlag
			paths, err := client.SaveImages(imgs, saveOpts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save some images: %v\n", err)
			} else if !rawOutput {
				fmt.Fprintf(os.Stderr, "Saved %d image(s) to %s\n", len(paths), saveImagesFlag)
			}
		}
	}

	text := output.Text()

	// Raw output mode: output only the raw text
	if rawOutput {
		if outputFlag != "" {
			if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		fmt.Print(text)
		return nil
	}

	// Decorated output mode (TTY)
	fmt.Fprintln(os.Stderr)

	// Copy to clipboard if enabled in config
	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(text); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(os.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(os.Stderr, clipMsg)
		}
	}

	// Output to file if specified
	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", outputFlag),
		)
		fmt.Fprintln(os.Stderr, successMsg)
		return nil
	}

	// Get terminal width for proper formatting
	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	// Print assistant label (similar to studio TUI)
	label := assistantLabelStyle.Render("✦ Gemini")
	fmt.Println(label)

	// Print thoughts if present (with styled border)
	if thoughts := output.Thoughts(); thoughts != "" {
		thoughtsContent := thoughtsStyle.Width(contentWidth).Render("💭 " + thoughts)
		fmt.Println(thoughtsContent)
	}

	// Render markdown for terminal output using user config
	renderOpts := render.LoadOptionsFromConfigWithWidth(contentWidth)
	rendered, err := render.Markdown(text, renderOpts)
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
	fmt.Println(bubble)

	// Print grounding sources under the response
	if citations := output.Citations(); len(citations) > 0 {
		fmt.Println(lipgloss.NewStyle().Foreground(colorTextDim).Bold(true).Render("Sources:"))
		for _, c := range citations {
			line := "  " + c.URI
			if c.Title != "" {
				line = "  " + c.Title + " - " + c.URI
			}
			fmt.Println(citationStyle.Render(line))
		}
	}

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	// Extract additional context from structured errors
	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if code := apierrors.GetErrorCode(err); code != apierrors.ErrCodeUnknown {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Error Code: %d (%s)", code, code.String())))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	// Show response body if available (contains detailed error info)
	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		// Provide helpful hints based on error type only if no body
		switch {
		case apierrors.IsAuthError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Set GEMINI_API_KEY or run 'geministudio config set-key <api-key>'"))
		case apierrors.IsRateLimitError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later or use a different model"))
		case apierrors.IsBlockedError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The prompt or response was blocked by safety filters. Rephrase and retry"))
		case apierrors.IsNetworkError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
		case apierrors.IsTimeoutError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or check your connection"))
		case apierrors.IsUploadError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: File upload failed. Check the file exists and is accessible"))
		}
	}

	return sb.String()
}
