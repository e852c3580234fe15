package render

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	return img
}

func TestPreview(t *testing.T) {
	out := Preview(testImage(4, 4), 4, 2)

	if out == "" {
		t.Fatal("expected non-empty preview")
	}
	if !strings.Contains(out, "▀") {
		t.Error("preview should contain half-block cells")
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 preview lines for a 4x4 image, got %d", len(lines))
	}
}

func TestPreviewSingleRow(t *testing.T) {
	// An 8x2 image fit into 4 columns resizes to 4x1: one line of
	// foreground-only half blocks.
	out := Preview(testImage(8, 2), 4, 4)

	if strings.Contains(out, "\n") {
		t.Errorf("expected a single line, got: %q", out)
	}
	if strings.Count(out, "▀") != 4 {
		t.Errorf("expected 4 cells, got %d", strings.Count(out, "▀"))
	}
}

func TestPreviewInvalidSize(t *testing.T) {
	img := testImage(4, 4)

	if out := Preview(img, 0, 2); out != "" {
		t.Errorf("expected empty preview for zero cols, got %q", out)
	}
	if out := Preview(img, 4, 0); out != "" {
		t.Errorf("expected empty preview for zero rows, got %q", out)
	}
}

func TestPreviewFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "geministudio-preview-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "sample.png")
	if err := imgio.Save(path, testImage(6, 6), imgio.PNGEncoder()); err != nil {
		t.Fatalf("failed to save test image: %v", err)
	}

	out, err := PreviewFile(path, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "▀") {
		t.Error("preview should contain half-block cells")
	}
}

func TestPreviewFileMissing(t *testing.T) {
	_, err := PreviewFile("/nonexistent/image.png", 10, 5)
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFitRect(t *testing.T) {
	testCases := []struct {
		name                 string
		w, h, maxW, maxH     int
		expectedW, expectedH int
	}{
		{"exact fit", 10, 10, 10, 10, 10, 10},
		{"downscale wide", 100, 50, 10, 10, 10, 5},
		{"downscale tall", 50, 100, 10, 10, 5, 10},
		{"upscale", 2, 2, 8, 8, 8, 8},
		{"min 1x1", 1000, 1, 10, 10, 10, 1},
		{"zero input", 0, 0, 10, 10, 1, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := fitRect(tc.w, tc.h, tc.maxW, tc.maxH)
			if w != tc.expectedW || h != tc.expectedH {
				t.Errorf("fitRect(%d, %d, %d, %d) = (%d, %d), want (%d, %d)",
					tc.w, tc.h, tc.maxW, tc.maxH, w, h, tc.expectedW, tc.expectedH)
			}
		})
	}
}
