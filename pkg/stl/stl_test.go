package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/stlvol/internal/meshgen"
	"github.com/philipparndt/stlvol/pkg/geometry"
)

func encodeBinary(t *testing.T, header string, tris []geometry.Triangle) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, header, tris))
	return buf.Bytes()
}

func encodeASCII(t *testing.T, tris []geometry.Triangle) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteASCII(&buf, "test", tris))
	return buf.Bytes()
}

func flip(tris []geometry.Triangle) []geometry.Triangle {
	out := make([]geometry.Triangle, len(tris))
	for i, tri := range tris {
		out[i] = tri.Flipped()
	}
	return out
}

func TestUnitCubeVolume(t *testing.T) {
	cube := meshgen.Cube(geometry.Vector3{}, 1)

	for name, data := range map[string][]byte{
		"binary": encodeBinary(t, "cube", cube),
		"ascii":  encodeASCII(t, cube),
	} {
		t.Run(name, func(t *testing.T) {
			soup, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, 12, soup.TriangleCount())
			assert.InDelta(t, 1.0, soup.Volume(), 1e-6)
		})
	}
}

func TestVolumeIgnoresWindingAndPosition(t *testing.T) {
	cube := meshgen.Cube(geometry.NewVector3(-4, 1.25, 3), 10)

	outward, err := Decode(encodeBinary(t, "", cube))
	require.NoError(t, err)
	inward, err := Decode(encodeBinary(t, "", flip(cube)))
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, outward.Volume(), 0.5)
	assert.InDelta(t, outward.Volume(), inward.Volume(), 1e-3)
	assert.Greater(t, outward.SignedSum, float32(0))
	assert.InDelta(t, -outward.SignedSum, inward.SignedSum, 1e-2)
}

func TestBinaryAndASCIIAgree(t *testing.T) {
	cube := meshgen.Cube(geometry.NewVector3(1, 2, 3), 4)

	bin, err := Decode(encodeBinary(t, "", cube))
	require.NoError(t, err)
	txt, err := Decode(encodeASCII(t, cube))
	require.NoError(t, err)

	assert.Equal(t, bin.Positions, txt.Positions)
	assert.Equal(t, bin.Normals, txt.Normals)
	assert.Equal(t, bin.Bounds, txt.Bounds)
	assert.Equal(t, bin.Volume(), txt.Volume())
}

func TestArrayLayout(t *testing.T) {
	soup, err := Decode(encodeBinary(t, "", meshgen.Cube(geometry.Vector3{}, 2)))
	require.NoError(t, err)

	assert.Len(t, soup.Positions, 9*12)
	assert.Len(t, soup.Normals, 9*12)
	assert.Equal(t, 36, soup.VertexCount())

	for i := 0; i < soup.TriangleCount(); i++ {
		n := soup.Normals[i*9 : i*9+9]
		assert.Equal(t, n[0:3], n[3:6])
		assert.Equal(t, n[0:3], n[6:9])
		assert.InDelta(t, 1.0, math32.Sqrt(n[0]*n[0]+n[1]*n[1]+n[2]*n[2]), 1e-6)
	}

	assert.Equal(t, geometry.NewVector3(0, 0, 0), soup.Bounds.Min)
	assert.Equal(t, geometry.NewVector3(2, 2, 2), soup.Bounds.Max)
}

func TestIsBinaryLengthRule(t *testing.T) {
	for count := 0; count < 6; count++ {
		data := make([]byte, 84+50*count)
		binary.LittleEndian.PutUint32(data[80:], uint32(count))
		assert.True(t, IsBinary(data), "count %d", count)

		assert.False(t, IsBinary(append(data, 0)), "count %d plus one byte", count)
		assert.False(t, IsBinary(data[:len(data)-1]), "count %d minus one byte", count)
	}

	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary(make([]byte, 83)))
}

func TestIsBinaryHugeCount(t *testing.T) {
	data := make([]byte, 84)
	binary.LittleEndian.PutUint32(data[80:], 0xFFFFFFFF)
	assert.False(t, IsBinary(data))
}

func TestBinaryWithSolidHeader(t *testing.T) {
	data := encodeBinary(t, "solid looks like ascii", meshgen.Cube(geometry.Vector3{}, 1))
	require.True(t, IsBinary(data))

	soup, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 12, soup.TriangleCount())
}

func TestZeroTriangles(t *testing.T) {
	data := make([]byte, 84)
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrNoTriangles)

	_, err = Measure(data)
	assert.ErrorIs(t, err, ErrNoTriangles)

	_, err = Decode([]byte("solid empty\nendsolid empty\n"))
	assert.ErrorIs(t, err, ErrNoTriangles)
}

func TestDecodeBinaryTruncated(t *testing.T) {
	_, err := decodeBinary(make([]byte, 10), true)
	assert.ErrorIs(t, err, ErrTruncated)

	data := make([]byte, 84+50)
	binary.LittleEndian.PutUint32(data[80:], 2)
	_, err = decodeBinary(data, true)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestASCIIExponentNotation(t *testing.T) {
	src := `solid s
facet normal 0 0 0
outer loop
vertex 0 0 0
vertex 1e0 0 0
vertex 0 +1.0E+00 -0.0
endloop
endfacet
endsolid s
`
	soup, err := Decode([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, soup.Positions)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, soup.Normals)
}

func TestASCIITrailingPartialGroupDropped(t *testing.T) {
	src := "vertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nvertex 5 5 5\nvertex 6 6 6\n"
	soup, err := Decode([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, 1, soup.TriangleCount())
	assert.Len(t, soup.Positions, 9)
}

func TestASCIIIgnoresOtherKeywords(t *testing.T) {
	src := "solid x\n facet normal 9 9 9\n outer loop\n vertex 0 0 0 vertex 2 0 0 vertex 0 2 0\n endloop\n endfacet\n"
	soup, err := Decode([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, 1, soup.TriangleCount())
	assert.Equal(t, []float32{0, 0, 1}, soup.Normals[:3])
}

func TestVertexCountIsMultipleOfThree(t *testing.T) {
	soup, err := Decode(encodeASCII(t, meshgen.Sphere(geometry.Vector3{}, 1, 6, 8)))
	require.NoError(t, err)
	assert.Zero(t, soup.VertexCount()%3)
}

func TestSphereVolume(t *testing.T) {
	const r = 10
	sphere := meshgen.Sphere(geometry.NewVector3(3, -4, 5), r, 64, 128)

	soup, err := Decode(encodeBinary(t, "", sphere))
	require.NoError(t, err)

	expected := 4.0 / 3.0 * math32.Pi * r * r * r
	assert.InEpsilon(t, expected, soup.Volume(), 0.01)
}

func TestMeasureMatchesDecode(t *testing.T) {
	data := encodeBinary(t, "", meshgen.Sphere(geometry.Vector3{}, 2, 12, 16))

	soup, err := Decode(data)
	require.NoError(t, err)
	m, err := Measure(data)
	require.NoError(t, err)

	assert.Equal(t, soup.Measure(), m)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cube.stl")
	require.NoError(t, os.WriteFile(path, encodeASCII(t, meshgen.Cube(geometry.Vector3{}, 3)), 0o644))

	soup, err := ReadFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 27.0, soup.Volume(), 1e-4)

	_, err = ReadFile(filepath.Join(dir, "missing.stl"))
	assert.Error(t, err)
}

func TestHasSTLExt(t *testing.T) {
	assert.True(t, HasSTLExt("part.stl"))
	assert.True(t, HasSTLExt("dir/PART.STL"))
	assert.True(t, HasSTLExt("a.StL"))
	assert.False(t, HasSTLExt("part.obj"))
	assert.False(t, HasSTLExt("stl"))
	assert.False(t, HasSTLExt("part.stl.bak"))
}
