package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/charmbracelet/lipgloss"
)

// PreviewFile renders an image file as colored half-block text for the
// preview panel, fitting within cols columns and rows rows.
func PreviewFile(path string, cols, rows int) (string, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	return Preview(img, cols, rows), nil
}

// Preview renders an image as half-block cells. Each cell shows two
// vertically stacked pixels: the upper half block colored with the top
// pixel over a background of the bottom pixel.
func Preview(img image.Image, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}

	w, h := fitRect(img.Bounds().Dx(), img.Bounds().Dy(), cols, rows*2)
	resized := transform.Resize(img, w, h, transform.Linear)

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(resized.At(x, y))))
			if y+1 < h {
				style = style.Background(lipgloss.Color(hexColor(resized.At(x, y+1))))
			}
			b.WriteString(style.Render("▀"))
		}
		if y+2 < h {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// fitRect scales a w x h rectangle to fit within maxW x maxH while
// keeping the aspect ratio. Results are at least 1x1.
func fitRect(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}

	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	sw := int(math.Round(float64(w) * scale))
	sh := int(math.Round(float64(h) * scale))
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return sw, sh
}

// hexColor converts a color to a #rrggbb string for lipgloss
func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
