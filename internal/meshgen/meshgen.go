// Package meshgen builds closed sample meshes with outward winding.
package meshgen

import (
	"github.com/chewxy/math32"
	"github.com/philipparndt/stlvol/pkg/geometry"
)

// Cube returns the 12 triangles of an axis-aligned cube with the given edge
// length and its minimum corner at origin.
func Cube(origin geometry.Vector3, size float32) []geometry.Triangle {
	p := func(x, y, z float32) geometry.Vector3 {
		return origin.Add(geometry.NewVector3(x*size, y*size, z*size))
	}
	quads := [6][4]geometry.Vector3{
		{p(0, 0, 0), p(0, 1, 0), p(1, 1, 0), p(1, 0, 0)}, // -z
		{p(0, 0, 1), p(1, 0, 1), p(1, 1, 1), p(0, 1, 1)}, // +z
		{p(0, 0, 0), p(1, 0, 0), p(1, 0, 1), p(0, 0, 1)}, // -y
		{p(0, 1, 0), p(0, 1, 1), p(1, 1, 1), p(1, 1, 0)}, // +y
		{p(0, 0, 0), p(0, 0, 1), p(0, 1, 1), p(0, 1, 0)}, // -x
		{p(1, 0, 0), p(1, 1, 0), p(1, 1, 1), p(1, 0, 1)}, // +x
	}
	out := make([]geometry.Triangle, 0, 12)
	for _, q := range quads {
		out = append(out,
			geometry.NewTriangle(q[0], q[1], q[2]),
			geometry.NewTriangle(q[0], q[2], q[3]),
		)
	}
	return out
}

// Sphere returns a UV sphere centred at center. stacks and slices are
// clamped to at least 2 and 3.
func Sphere(center geometry.Vector3, radius float32, stacks, slices int) []geometry.Triangle {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}
	point := func(i, j int) geometry.Vector3 {
		theta := math32.Pi * float32(i) / float32(stacks)
		phi := 2 * math32.Pi * float32(j%slices) / float32(slices)
		st, ct := math32.Sincos(theta)
		sp, cp := math32.Sincos(phi)
		return center.Add(geometry.NewVector3(radius*st*cp, radius*st*sp, radius*ct))
	}

	var out []geometry.Triangle
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := point(i, j)
			b := point(i+1, j)
			c := point(i+1, j+1)
			d := point(i, j+1)
			if i != 0 {
				out = append(out, geometry.NewTriangle(a, b, d))
			}
			if i != stacks-1 {
				out = append(out, geometry.NewTriangle(b, c, d))
			}
		}
	}
	return out
}

// Positions flattens triangles into the nine-floats-per-triangle layout
func Positions(triangles []geometry.Triangle) []float32 {
	out := make([]float32, 0, len(triangles)*9)
	for _, t := range triangles {
		out = t.V3.AppendTo(t.V2.AppendTo(t.V1.AppendTo(out)))
	}
	return out
}
