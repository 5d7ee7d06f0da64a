package stl

import (
	"github.com/chewxy/math32"
	"github.com/philipparndt/stlvol/pkg/geometry"
)

// Soup is a decoded triangle soup: nine position floats and nine normal
// floats per triangle, with no shared-vertex indexing.
type Soup struct {
	Positions []float32
	Normals   []float32
	Bounds    geometry.BoundingBox
	SignedSum float32
}

// TriangleCount returns the number of triangles in the soup
func (s *Soup) TriangleCount() int {
	return len(s.Positions) / 9
}

// VertexCount returns the number of vertices in the soup
func (s *Soup) VertexCount() int {
	return len(s.Positions) / 3
}

// Volume returns the raw enclosed volume in the file's native unit cubed
func (s *Soup) Volume() float32 {
	return math32.Abs(s.SignedSum) / 6
}

// Triangle returns the i-th triangle
func (s *Soup) Triangle(i int) geometry.Triangle {
	return geometry.NewTriangle(
		geometry.VectorAt(s.Positions, i*3),
		geometry.VectorAt(s.Positions, i*3+1),
		geometry.VectorAt(s.Positions, i*3+2),
	)
}

// Measurement is the volume-only result of decoding a file whose geometry
// is not going to be displayed.
type Measurement struct {
	Triangles int
	Volume    float32
	Bounds    geometry.BoundingBox
}

// Measure returns the volume-only summary of the soup
func (s *Soup) Measure() Measurement {
	return Measurement{
		Triangles: s.TriangleCount(),
		Volume:    s.Volume(),
		Bounds:    s.Bounds,
	}
}
