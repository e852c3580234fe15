// Package tui provides the terminal user interface for geministudio.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geministudio/internal/errors"
	"github.com/diogo/geministudio/internal/render"
)

// Color variables (updated from theme)
var (
	// Base colors
	colorSurface lipgloss.Color
	colorBorder  lipgloss.Color

	// Accent colors
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	// Text colors
	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color

	// Scene palette for the preview panel
	scenePalette []lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	// Header panel style
	headerStyle lipgloss.Style

	// Title style for header
	titleStyle lipgloss.Style

	// Subtitle/model name style
	subtitleStyle lipgloss.Style

	// Hint text style
	hintStyle lipgloss.Style

	// Preview panel (scene animation or image thumbnail)
	previewPanelStyle lipgloss.Style

	// Messages area panel
	messagesAreaStyle lipgloss.Style

	// User message bubble
	userBubbleStyle lipgloss.Style

	// User label style
	userLabelStyle lipgloss.Style

	// Assistant message bubble
	assistantBubbleStyle lipgloss.Style

	// Assistant label style
	assistantLabelStyle lipgloss.Style

	// Thoughts panel style
	thoughtsStyle lipgloss.Style

	// Citation styles
	citationHeaderStyle lipgloss.Style
	citationLinkStyle   lipgloss.Style
	citationTitleStyle  lipgloss.Style

	// Image path line under a message
	imagePathStyle lipgloss.Style

	// Toggle indicator styles for the header
	toggleOnStyle  lipgloss.Style
	toggleOffStyle lipgloss.Style

	// Input area panel
	inputPanelStyle lipgloss.Style

	// Input label style
	inputLabelStyle lipgloss.Style

	// Loading/spinner style
	loadingStyle lipgloss.Style

	// Status bar styles
	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	// Error style
	errorStyle lipgloss.Style

	// Welcome styles
	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style

	// Selector overlay styles (save selector, history selector)
	selectorHeaderStyle       lipgloss.Style
	selectorTitleStyle        lipgloss.Style
	selectorPanelStyle        lipgloss.Style
	selectorSectionTitleStyle lipgloss.Style
	selectorItemStyle         lipgloss.Style
	selectorSelectedStyle     lipgloss.Style
	selectorCursorStyle       lipgloss.Style
	selectorValueStyle        lipgloss.Style
	selectorCheckedStyle      lipgloss.Style
	selectorDimStyle          lipgloss.Style
	selectorStatusBarStyle    lipgloss.Style
)

// Gradient colors for animated spinner (fixed colors)
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

// init loads the default theme on package initialization
func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	// Update color variables
	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute
	scenePalette = theme.ScenePalette()

	// Rebuild all styles with new colors
	rebuildStyles()
}

// rebuildStyles creates all lipgloss styles with current color values
func rebuildStyles() {
	// Header panel style
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	// Title style for header
	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	// Subtitle/model name style
	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	// Hint text style
	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	// Preview panel
	previewPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	// Messages area panel
	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	// User message bubble
	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	// User label style
	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	// Assistant message bubble
	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	// Assistant label style
	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	// Thoughts panel style
	thoughtsStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorTextDim).
		BorderLeft(true).
		Foreground(colorTextDim).
		PaddingLeft(1).
		MarginLeft(1).
		Italic(true)

	// Citation styles
	citationHeaderStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	citationLinkStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Underline(true)

	citationTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Italic(true)

	// Image path line under a message
	imagePathStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	// Toggle indicators for the header
	toggleOnStyle = lipgloss.NewStyle().
		Foreground(colorSecondary)

	toggleOffStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	// Input area panel
	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	// Input label style
	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	// Loading/spinner style
	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	// Status bar styles
	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	// Error style
	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	// Welcome styles
	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Align(lipgloss.Center)

	// Selector overlay styles
	selectorHeaderStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginBottom(1).
		Align(lipgloss.Center)

	selectorTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		MarginBottom(1).
		PaddingLeft(1)

	selectorPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)

	selectorSectionTitleStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginTop(1)

	selectorItemStyle = lipgloss.NewStyle().
		Foreground(colorText).
		PaddingLeft(2)

	selectorSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	selectorCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	selectorValueStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	selectorCheckedStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	selectorDimStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	selectorStatusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1).
		Align(lipgloss.Center)
}

// FormatError returns a styled error message with additional context.
// It extracts details from the structured error types if available.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	// Use colors from theme
	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	// Extract additional context from structured errors
	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if code := errors.GetErrorCode(err); code != errors.ErrCodeUnknown {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Error Code: %d (%s)", code, code.String())))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	// Show response body if available (contains detailed error info)
	if body := errors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		// Provide helpful hints based on error type only if no body
		switch {
		case errors.IsAuthError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Set GEMINI_API_KEY or run 'geministudio config set-key <api-key>'"))
		case errors.IsRateLimitError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later or use a different model"))
		case errors.IsBlockedError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The prompt or response was blocked by safety filters. Rephrase and retry"))
		case errors.IsNetworkError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
		case errors.IsTimeoutError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or check your connection"))
		case errors.IsUploadError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: File upload failed. Check the file exists and is accessible"))
		}
	}

	return sb.String()
}

// PrintError prints a styled error message to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Println(FormatError(err))
}
