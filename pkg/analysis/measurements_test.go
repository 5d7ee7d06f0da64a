package analysis

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/stlvol/internal/meshgen"
	"github.com/philipparndt/stlvol/pkg/geometry"
	"github.com/philipparndt/stlvol/pkg/stl"
)

func cubeSoup(t *testing.T, size float32) *stl.Soup {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, stl.WriteBinary(&buf, "", meshgen.Cube(geometry.Vector3{}, size)))
	soup, err := stl.Decode(buf.Bytes())
	require.NoError(t, err)
	return soup
}

func TestAnalyzeCube(t *testing.T) {
	result := Analyze(cubeSoup(t, 2))

	assert.Equal(t, 12, result.TriangleCount)
	assert.Equal(t, 36, result.EdgeCount)
	assert.Zero(t, result.Degenerate)
	assert.InDelta(t, 24.0, result.SurfaceArea, 1e-4)
	assert.InDelta(t, 8.0, result.Volume, 1e-4)
	assert.InDelta(t, 8.0, result.BoxVolume, 1e-4)
	assert.Equal(t, geometry.NewVector3(2, 2, 2), result.Dimensions)
	assert.InDelta(t, 2.0, result.MinEdgeLength, 1e-6)
	assert.InDelta(t, 2.0*1.41421356, result.MaxEdgeLength, 1e-5)
}

func TestLongestAndShortestEdges(t *testing.T) {
	result := Analyze(cubeSoup(t, 1))

	longest := LongestEdges(result, 3)
	require.Len(t, longest, 3)
	for _, e := range longest {
		assert.InDelta(t, 1.41421356, e.Length, 1e-5)
	}

	shortest := ShortestEdges(result, 100)
	assert.Len(t, shortest, 36)
	assert.InDelta(t, 1.0, shortest[0].Length, 1e-6)

	assert.Empty(t, ShortestEdges(result, -1))
}

func TestFormatMeasurement(t *testing.T) {
	assert.Equal(t, "1.500000 units", FormatMeasurement(1.5, ""))
	assert.Equal(t, "2.000000 mm", FormatMeasurement(2, "mm"))
	assert.Equal(t, "(1.000000, 2.000000, 3.000000)", FormatVector(geometry.NewVector3(1, 2, 3)))
}

func TestNearestVertexSnapsToCorner(t *testing.T) {
	soup := cubeSoup(t, 2)

	nearest, dist := NearestVertex(soup, geometry.NewVector3(2.1, 1.9, 2))
	assert.Equal(t, geometry.NewVector3(2, 2, 2), nearest)
	assert.InDelta(t, 0.141421, dist, 1e-5)

	exact, dist := NearestVertex(soup, geometry.NewVector3(0, 0, 0))
	assert.Equal(t, geometry.Vector3{}, exact)
	assert.Zero(t, dist)
}

func TestNearestVertexEmptySoup(t *testing.T) {
	p := geometry.NewVector3(1, 2, 3)
	nearest, dist := NearestVertex(&stl.Soup{}, p)
	assert.Equal(t, p, nearest)
	assert.Zero(t, dist)
}
