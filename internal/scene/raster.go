package scene

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/anthonynsimon/bild/imgio"
)

// DefaultPalette holds the colors used by raster renders, matching the
// TUI accent palette.
var DefaultPalette = []color.RGBA{
	{R: 0xcd, G: 0xd6, B: 0xf4, A: 0xff}, // text
	{R: 0x89, G: 0xb4, B: 0xfa, A: 0xff}, // blue
	{R: 0xa6, G: 0xe3, B: 0xa1, A: 0xff}, // green
	{R: 0xf3, G: 0x8b, B: 0xa8, A: 0xff}, // red
	{R: 0xfa, G: 0xb3, B: 0x87, A: 0xff}, // peach
	{R: 0xcb, G: 0xa6, B: 0xf7, A: 0xff}, // mauve
}

// Background color for raster renders
var rasterBackground = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}

// RasterCanvas plots wireframes into an RGBA image, fading color with
// depth the way the cell canvas fades shade runes.
type RasterCanvas struct {
	img     *image.RGBA
	depth   []float64
	palette []color.RGBA
}

// NewRasterCanvas creates a canvas of width x height pixels using the
// default palette.
func NewRasterCanvas(width, height int) *RasterCanvas {
	c := &RasterCanvas{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		palette: DefaultPalette,
	}
	c.Reset()
	return c
}

// Size returns the canvas dimensions in pixels
func (c *RasterCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Aspect reports square pixels
func (c *RasterCanvas) Aspect() float64 {
	return 1
}

// Reset fills the canvas with the background color
func (c *RasterCanvas) Reset() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(rasterBackground), image.Point{}, draw.Src)
	n := c.img.Bounds().Dx() * c.img.Bounds().Dy()
	c.depth = make([]float64, n)
	for i := range c.depth {
		c.depth[i] = math.Inf(1)
	}
}

// Plot colors one pixel if it is in range and nearer than what is there
func (c *RasterCanvas) Plot(x, y int, depth float64, palette int) {
	w, h := c.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	i := y*w + x
	if depth >= c.depth[i] {
		return
	}
	c.depth[i] = depth
	c.img.SetRGBA(x, y, fadeColor(c.paletteColor(palette), depth*0.7))
}

// Image returns the rendered image
func (c *RasterCanvas) Image() *image.RGBA {
	return c.img
}

func (c *RasterCanvas) paletteColor(i int) color.RGBA {
	if i < 0 || i >= len(c.palette) {
		return c.palette[0]
	}
	return c.palette[i]
}

// fadeColor blends a color toward the background by factor f in [0,1]
func fadeColor(c color.RGBA, f float64) color.RGBA {
	blend := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-f) + float64(b)*f)
	}
	return color.RGBA{
		R: blend(c.R, rasterBackground.R),
		G: blend(c.G, rasterBackground.G),
		B: blend(c.B, rasterBackground.B),
		A: 0xff,
	}
}

// SaveFramePNG renders one frame at time t and writes it as a PNG
func SaveFramePNG(path string, s *Scene, t float64, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	canvas := NewRasterCanvas(width, height)
	s.Frame(t, canvas)
	if err := imgio.Save(path, canvas.Image(), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save frame: %w", err)
	}
	return nil
}

// GIFOptions controls animated GIF export
type GIFOptions struct {
	Width  int
	Height int
	Frames int
	FPS    float64
}

// DefaultGIFOptions returns export settings that loop the default
// scene's orbit exactly.
func DefaultGIFOptions() GIFOptions {
	return GIFOptions{Width: 480, Height: 270, Frames: 100, FPS: 20}
}

// EncodeGIF renders an animation and encodes it as a looping GIF
func EncodeGIF(w io.Writer, s *Scene, o GIFOptions) error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", o.Width, o.Height)
	}
	if o.Frames <= 0 {
		return fmt.Errorf("frame count must be positive, got %d", o.Frames)
	}
	if o.FPS <= 0 {
		o.FPS = 20
	}
	delay := int(math.Round(100 / o.FPS)) // GIF delays are in centiseconds
	if delay < 2 {
		delay = 2
	}

	pal := gifPalette()
	anim := &gif.GIF{LoopCount: 0}
	canvas := NewRasterCanvas(o.Width, o.Height)

	for i := 0; i < o.Frames; i++ {
		canvas.Reset()
		s.Frame(float64(i)/o.FPS, canvas)

		frame := image.NewPaletted(canvas.Image().Bounds(), pal)
		draw.Draw(frame, frame.Bounds(), canvas.Image(), image.Point{}, draw.Src)
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	return gif.EncodeAll(w, anim)
}

// gifPalette builds the quantization palette: the background plus each
// accent color at a few depth fades.
func gifPalette() color.Palette {
	pal := color.Palette{rasterBackground}
	for _, c := range DefaultPalette {
		for _, f := range []float64{0, 0.25, 0.5, 0.7} {
			pal = append(pal, fadeColor(c, f))
		}
	}
	return pal
}
