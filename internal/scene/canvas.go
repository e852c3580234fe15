package scene

import (
	"math"
	"strings"
)

// Cell is one rendered terminal cell
type Cell struct {
	Rune    rune
	Palette int
}

// Shade runes by depth band, nearest first
var shadeRunes = []rune{'█', '▓', '▒', '░'}

// CellCanvas plots wireframes into a rune grid with a per-cell depth
// test so nearer edges overwrite farther ones.
type CellCanvas struct {
	width  int
	height int
	cells  []Cell
	depth  []float64
}

// NewCellCanvas creates a blank canvas of width x height cells
func NewCellCanvas(width, height int) *CellCanvas {
	c := &CellCanvas{width: width, height: height}
	c.Reset()
	return c
}

// Size returns the canvas dimensions in cells
func (c *CellCanvas) Size() (int, int) {
	return c.width, c.height
}

// Aspect reports that one vertical cell spans two horizontal ones
func (c *CellCanvas) Aspect() float64 {
	return 2
}

// Reset clears all cells to blanks
func (c *CellCanvas) Reset() {
	c.cells = make([]Cell, c.width*c.height)
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' '}
	}
	c.depth = make([]float64, c.width*c.height)
	for i := range c.depth {
		c.depth[i] = math.Inf(1)
	}
}

// Plot marks one cell if it is in range and nearer than what is there
func (c *CellCanvas) Plot(x, y int, depth float64, palette int) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := y*c.width + x
	if depth >= c.depth[i] {
		return
	}
	c.depth[i] = depth
	c.cells[i] = Cell{Rune: shadeRune(depth), Palette: palette}
}

// shadeRune picks the shade for a normalized depth
func shadeRune(depth float64) rune {
	band := int(depth * float64(len(shadeRunes)))
	if band >= len(shadeRunes) {
		band = len(shadeRunes) - 1
	}
	if band < 0 {
		band = 0
	}
	return shadeRunes[band]
}

// Row returns the cells of one row; nil if y is out of range
func (c *CellCanvas) Row(y int) []Cell {
	if y < 0 || y >= c.height {
		return nil
	}
	return c.cells[y*c.width : (y+1)*c.width]
}

// String returns the canvas as plain text, one line per row
func (c *CellCanvas) String() string {
	var b strings.Builder
	b.Grow(c.height * (c.width + 1))
	for y := 0; y < c.height; y++ {
		for _, cell := range c.Row(y) {
			b.WriteRune(cell.Rune)
		}
		if y < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
