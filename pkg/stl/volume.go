package stl

import (
	"github.com/chewxy/math32"
	"github.com/philipparndt/stlvol/pkg/geometry"
)

// accumulator is the format-agnostic sink both decoders feed triangles into.
// It sums the scalar triple product A·(B×C) in single precision and in file
// order, tracks the bounds, and optionally retains positions and flat normals.
type accumulator struct {
	keep      bool
	positions []float32
	normals   []float32
	bounds    geometry.BoundingBox
	signedSum float32
	triangles int
}

func newAccumulator(keep bool, capacity int) *accumulator {
	acc := &accumulator{
		keep:   keep,
		bounds: geometry.NewBoundingBox(),
	}
	if keep && capacity > 0 {
		acc.positions = make([]float32, 0, capacity*9)
		acc.normals = make([]float32, 0, capacity*9)
	}
	return acc
}

func (a *accumulator) add(ax, ay, az, bx, by, bz, cx, cy, cz float32) {
	a.signedSum += ax*(by*cz-bz*cy) - ay*(bx*cz-bz*cx) + az*(bx*cy-by*cx)
	a.triangles++

	a.bounds.ExtendXYZ(ax, ay, az)
	a.bounds.ExtendXYZ(bx, by, bz)
	a.bounds.ExtendXYZ(cx, cy, cz)

	if !a.keep {
		return
	}

	nx, ny, nz := faceNormal(ax, ay, az, bx, by, bz, cx, cy, cz)
	a.positions = append(a.positions, ax, ay, az, bx, by, bz, cx, cy, cz)
	a.normals = append(a.normals, nx, ny, nz, nx, ny, nz, nx, ny, nz)
}

func (a *accumulator) soup() *Soup {
	return &Soup{
		Positions: a.positions,
		Normals:   a.normals,
		Bounds:    a.bounds,
		SignedSum: a.signedSum,
	}
}

func (a *accumulator) measurement() Measurement {
	return Measurement{
		Triangles: a.triangles,
		Volume:    math32.Abs(a.signedSum) / 6,
		Bounds:    a.bounds,
	}
}

// faceNormal returns the unit normal of (B-A)x(C-A). Stored normals are never
// trusted; zero-area facets get a zero normal.
func faceNormal(ax, ay, az, bx, by, bz, cx, cy, cz float32) (float32, float32, float32) {
	ux, uy, uz := bx-ax, by-ay, bz-az
	vx, vy, vz := cx-ax, cy-ay, cz-az
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	length := math32.Sqrt(nx*nx + ny*ny + nz*nz)
	if length == 0 {
		return 0, 0, 0
	}
	return nx / length, ny / length, nz / length
}
