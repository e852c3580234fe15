package scene

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDef(t *testing.T) {
	def := DefaultDef()

	require.NoError(t, def.Validate())
	assert.Len(t, def.Cubes, 4)

	// Center cube plus a ring of orbiters
	assert.Zero(t, def.Cubes[0].Radius)
	for _, c := range def.Cubes[1:] {
		assert.Greater(t, c.Radius, 0.0)
	}
}

func TestParse_Minimal(t *testing.T) {
	def, err := Parse([]byte(`{"cubes":[{"size":1}]}`))
	require.NoError(t, err)

	// Camera defaults are sized to the scene
	assert.Greater(t, def.Camera.Distance, def.extent())
	assert.Greater(t, def.Camera.Scale, 0.0)

	_, err = New(def)
	assert.NoError(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"bad json", `{"cubes": [`, "parse"},
		{"no cubes", `{"cubes": []}`, "at least one cube"},
		{"zero size", `{"cubes": [{"size": 0}]}`, "size"},
		{"camera too close", `{"cubes":[{"size":1}],"camera":{"distance":0.5,"scale":1}}`, "must exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	def := DefaultDef()

	require.NoError(t, WriteFile(path, def))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, def, loaded)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read")
}

func TestWriteFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	assert.Error(t, WriteFile(path, Def{}))
}
