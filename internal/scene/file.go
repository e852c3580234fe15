package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// DefaultDef returns the built-in placeholder: a spinning center cube
// with three smaller cubes orbiting it.
func DefaultDef() Def {
	return Def{
		Camera: CameraDef{Distance: 6, Scale: 1.7, Tilt: 0.35},
		Cubes: []CubeSpec{
			{Size: 1.6, SpinX: 0.6, SpinY: 0.9, Palette: 1},
			{Size: 0.45, Radius: 1.7, Speed: 0.2, Phase: 0, SpinX: 1.1, SpinY: 1.7, Palette: 2},
			{Size: 0.45, Radius: 1.7, Speed: 0.2, Phase: 2 * math.Pi / 3, SpinX: 1.3, SpinY: 0.8, Palette: 3},
			{Size: 0.45, Radius: 1.7, Speed: 0.2, Phase: 4 * math.Pi / 3, SpinX: 0.9, SpinY: 1.5, Palette: 4},
		},
	}
}

// LoadFile reads a scene definition from a JSON file
func LoadFile(path string) (Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Def{}, fmt.Errorf("failed to read scene file: %w", err)
	}

	def, err := Parse(data)
	if err != nil {
		return Def{}, fmt.Errorf("scene file %s: %w", path, err)
	}
	return def, nil
}

// Parse decodes and validates a scene definition. Missing camera values
// get defaults sized to the scene.
func Parse(data []byte) (Def, error) {
	var def Def
	if err := json.Unmarshal(data, &def); err != nil {
		return Def{}, fmt.Errorf("failed to parse scene definition: %w", err)
	}

	def = def.withCameraDefaults()
	if err := def.Validate(); err != nil {
		return Def{}, err
	}
	return def, nil
}

// withCameraDefaults fills zero camera values with defaults that fit
// the scene's extent.
func (d Def) withCameraDefaults() Def {
	ext := d.extent()
	if d.Camera.Distance == 0 {
		d.Camera.Distance = ext * 2.8
	}
	if d.Camera.Scale == 0 {
		d.Camera.Scale = 1.7
	}
	return d
}

// WriteFile saves a scene definition as indented JSON
func WriteFile(path string, def Def) error {
	if err := def.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scene definition: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}
