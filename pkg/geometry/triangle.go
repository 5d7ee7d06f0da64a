package geometry

// Triangle is one facet of a triangle soup. Vertices are stored in file order;
// the winding decides the sign of SignedVolume6 but nothing else.
type Triangle struct {
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(v1, v2, v3 Vector3) Triangle {
	return Triangle{V1: v1, V2: v2, V3: v3}
}

// Normal computes the unit face normal from the winding (V2-V1)x(V3-V1).
func (t Triangle) Normal() Vector3 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float32 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float32 {
	return [3]float32{
		t.V2.Sub(t.V1).Length(),
		t.V3.Sub(t.V2).Length(),
		t.V1.Sub(t.V3).Length(),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float32 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Vector3{
		X: (t.V1.X + t.V2.X + t.V3.X) / 3.0,
		Y: (t.V1.Y + t.V2.Y + t.V3.Y) / 3.0,
		Z: (t.V1.Z + t.V2.Z + t.V3.Z) / 3.0,
	}
}

// SignedVolume6 returns V1 · (V2 × V3): six times the signed volume of the
// tetrahedron spanned by the facet and the origin.
func (t Triangle) SignedVolume6() float32 {
	return t.V1.Dot(t.V2.Cross(t.V3))
}

// Flipped returns the triangle with reversed winding
func (t Triangle) Flipped() Triangle {
	return Triangle{V1: t.V1, V2: t.V3, V3: t.V2}
}
