// Package scene renders the animated placeholder shown while no image is
// loaded: wireframe cubes spinning and orbiting in 3D, projected onto
// terminal cells or RGBA pixels. Frames are a pure function of time, so
// rendering has no state to corrupt and no error paths.
package scene

import (
	"fmt"
	"math"
)

// Vec3 is a 3D point or direction
type Vec3 struct {
	X, Y, Z float64
}

// V3 returns a new Vec3
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add adds the other vector to this one, returning a new vector
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// MulScalar multiplies each component by the scalar, returning a new vector
func (v Vec3) MulScalar(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// RotateX rotates the vector around the X axis by a radians
func (v Vec3) RotateX(a float64) Vec3 {
	sin, cos := math.Sincos(a)
	return Vec3{v.X, v.Y*cos - v.Z*sin, v.Y*sin + v.Z*cos}
}

// RotateY rotates the vector around the Y axis by a radians
func (v Vec3) RotateY(a float64) Vec3 {
	sin, cos := math.Sincos(a)
	return Vec3{v.X*cos + v.Z*sin, v.Y, -v.X*sin + v.Z*cos}
}

// CubeSpec describes one cube in a scene definition. A cube with zero
// Radius sits at the origin; otherwise it orbits the origin in the XZ
// plane, completing Speed revolutions per second starting at Phase.
type CubeSpec struct {
	Size    float64 `json:"size"`
	Radius  float64 `json:"radius,omitempty"`
	Speed   float64 `json:"speed,omitempty"`
	Phase   float64 `json:"phase,omitempty"`
	SpinX   float64 `json:"spin_x,omitempty"` // self-rotation around X, radians per second
	SpinY   float64 `json:"spin_y,omitempty"` // self-rotation around Y, radians per second
	Palette int     `json:"palette,omitempty"`
}

// CameraDef positions the projection
type CameraDef struct {
	Distance float64 `json:"distance"` // camera offset along Z, must exceed the scene extent
	Scale    float64 `json:"scale"`    // projection scale factor
	Tilt     float64 `json:"tilt"`     // fixed scene tilt around X, radians
}

// Def is a complete scene definition
type Def struct {
	Camera CameraDef  `json:"camera"`
	Cubes  []CubeSpec `json:"cubes"`
}

// extent returns an upper bound on any vertex's distance from the origin
func (d Def) extent() float64 {
	var m float64
	for _, c := range d.Cubes {
		if r := c.Radius + c.Size; r > m {
			m = r
		}
	}
	if m == 0 {
		m = 1
	}
	return m
}

// Validate checks that the definition describes a renderable scene
func (d Def) Validate() error {
	if len(d.Cubes) == 0 {
		return fmt.Errorf("scene needs at least one cube")
	}
	for i, c := range d.Cubes {
		if c.Size <= 0 {
			return fmt.Errorf("cube %d: size must be positive, got %v", i, c.Size)
		}
		if c.Radius < 0 {
			return fmt.Errorf("cube %d: radius must not be negative, got %v", i, c.Radius)
		}
		if c.Palette < 0 {
			return fmt.Errorf("cube %d: palette index must not be negative, got %d", i, c.Palette)
		}
	}
	if d.Camera.Scale <= 0 {
		return fmt.Errorf("camera scale must be positive, got %v", d.Camera.Scale)
	}
	ext := d.extent()
	if d.Camera.Distance <= ext {
		return fmt.Errorf("camera distance %v must exceed the scene extent %v", d.Camera.Distance, ext)
	}
	// Worst-case projected offset must stay inside the viewport
	if d.Camera.Scale*ext/(d.Camera.Distance-ext) > 1 {
		return fmt.Errorf("scene does not fit the viewport: reduce scale or increase camera distance")
	}
	return nil
}

// Scene renders a cube arrangement at any point in time
type Scene struct {
	def    Def
	extent float64
}

// New creates a Scene from a validated definition
func New(def Def) (*Scene, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Scene{def: def, extent: def.extent()}, nil
}

// Default returns the built-in placeholder scene
func Default() *Scene {
	s, err := New(DefaultDef())
	if err != nil {
		// The built-in definition is a constant; it cannot fail validation
		panic(err)
	}
	return s
}

// Def returns the scene's definition
func (s *Scene) Def() Def {
	return s.def
}

// Plotter is a rendering surface for wireframe segments
type Plotter interface {
	// Size returns the plot area in plot units
	Size() (w, h int)
	// Aspect returns how many horizontal units span one vertical unit
	// visually: 2 for terminal cells, 1 for square pixels
	Aspect() float64
	// Plot marks one unit. depth is normalized to [0,1], 0 nearest.
	// Out-of-range coordinates are ignored.
	Plot(x, y int, depth float64, palette int)
}

// Segment is a wireframe edge projected into plot coordinates.
// Depth values are normalized to [0,1] where 0 is nearest.
type Segment struct {
	X1, Y1, D1 float64
	X2, Y2, D2 float64
	Palette    int
}

// Cube edges as vertex index pairs; vertex i has corner signs (bit0=X,
// bit1=Y, bit2=Z).
var cubeEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Segments projects every cube edge at time t into a w-by-h viewport.
// aspect is the plotter's horizontal-units-per-vertical-unit factor.
func (s *Scene) Segments(t float64, w, h int, aspect float64) []Segment {
	segs := make([]Segment, 0, len(s.def.Cubes)*len(cubeEdges))
	cx, cy := float64(w)/2, float64(h)/2
	unit := math.Min(cx/aspect, cy) * 0.9

	for _, cube := range s.def.Cubes {
		verts := s.cubeVertices(cube, t)
		for _, e := range cubeEdges {
			x1, y1, d1, ok1 := s.project(verts[e[0]], cx, cy, unit, aspect)
			x2, y2, d2, ok2 := s.project(verts[e[1]], cx, cy, unit, aspect)
			if !ok1 || !ok2 {
				continue
			}
			segs = append(segs, Segment{x1, y1, d1, x2, y2, d2, cube.Palette})
		}
	}
	return segs
}

// Frame renders the scene at time t onto p. Same t, same frame.
func (s *Scene) Frame(t float64, p Plotter) {
	w, h := p.Size()
	for _, seg := range s.Segments(t, w, h, p.Aspect()) {
		drawSegment(p, seg)
	}
}

// cubeVertices places a cube's 8 corners at time t, including its spin,
// orbit position, and the fixed camera tilt.
func (s *Scene) cubeVertices(c CubeSpec, t float64) [8]Vec3 {
	center := orbitPosition(c, t)
	ax, ay := c.SpinX*t, c.SpinY*t
	half := c.Size / 2

	var verts [8]Vec3
	for i := range verts {
		v := V3(
			float64((i&1)*2-1),
			float64((i>>1&1)*2-1),
			float64((i>>2&1)*2-1),
		).MulScalar(half)
		v = v.RotateX(ax).RotateY(ay).Add(center)
		verts[i] = v.RotateX(s.def.Camera.Tilt)
	}
	return verts
}

// orbitPosition returns a cube's center at time t
func orbitPosition(c CubeSpec, t float64) Vec3 {
	if c.Radius == 0 {
		return Vec3{}
	}
	a := 2*math.Pi*c.Speed*t + c.Phase
	return Vec3{X: c.Radius * math.Cos(a), Z: c.Radius * math.Sin(a)}
}

// project maps a scene point to plot coordinates with perspective.
// ok is false for points at or behind the camera plane.
func (s *Scene) project(v Vec3, cx, cy, unit, aspect float64) (x, y, depth float64, ok bool) {
	z := v.Z + s.def.Camera.Distance
	if z <= 0.1 {
		return 0, 0, 0, false
	}
	f := s.def.Camera.Scale / z
	x = cx + v.X*f*unit*aspect
	y = cy - v.Y*f*unit
	depth = clamp((v.Z+s.extent)/(2*s.extent), 0, 1)
	return x, y, depth, true
}

// drawSegment steps along the segment one plot unit at a time,
// interpolating depth between the endpoints.
func drawSegment(p Plotter, s Segment) {
	dx, dy := s.X2-s.X1, s.Y2-s.Y1
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		x := int(math.Round(s.X1 + dx*f))
		y := int(math.Round(s.Y1 + dy*f))
		p.Plot(x, y, s.D1+(s.D2-s.D1)*f, s.Palette)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
