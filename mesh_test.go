package shadecam

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMesh(t *testing.T) {
	p := testParams()
	p.TotalHeight = 2
	p.LayerHeight = 0.5
	p.NumPoints = 16

	layers := GenerateLayers(&p)
	require.Len(t, layers, 4)

	solid, err := BuildMesh(layers, &p)
	require.NoError(t, err)

	// wall: 2 triangles per rib quad per band, caps: n fan triangles each
	n := p.NumPoints
	want := 2*n*(len(layers)-1) + 2*n
	assert.Len(t, solid.Triangles, want)
	assert.Equal(t, "lamp_shade_linear", solid.Name)

	// every triangle sits within the z range of the stack
	zmin := float32(layers[0].Z)
	zmax := float32(layers[len(layers)-1].Z)
	for _, tri := range solid.Triangles {
		for _, v := range tri.Vertices {
			assert.GreaterOrEqual(t, v[2], zmin)
			assert.LessOrEqual(t, v[2], zmax)
		}
	}
}

func TestBuildMeshErrors(t *testing.T) {
	p := testParams()

	_, err := BuildMesh(nil, &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 layers")

	// mismatched point counts across layers
	a := GenerateLayer(1, &p, 16)
	b := GenerateLayer(2, &p, 24)
	_, err = BuildMesh([]Layer{a, b}, &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 16")
}

func TestWriteSTL(t *testing.T) {
	p := testParams()
	p.TotalHeight = 2
	p.LayerHeight = 0.5
	p.NumPoints = 16

	layers := GenerateLayers(&p)
	path := filepath.Join(t.TempDir(), "shade.stl")
	require.NoError(t, WriteSTL(layers, &p, path))

	info, err := os.Stat(path)
	require.NoError(t, err)

	// binary STL: 80-byte header + 4-byte count + 50 bytes per triangle
	nTri := 2*p.NumPoints*(len(layers)-1) + 2*p.NumPoints
	assert.Equal(t, int64(84+50*nTri), info.Size())
}
