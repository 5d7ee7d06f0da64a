package geometry

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestNormalizeRecenters(t *testing.T) {
	positions := []float32{
		10, 20, 30,
		14, 20, 30,
		10, 26, 31,
	}
	box := BoundsOf(positions)

	maxDim := Normalize(positions, box)

	if maxDim != 6 {
		t.Errorf("maxDim failed: expected 6, got %v", maxDim)
	}
	after := BoundsOf(positions)
	center := after.Center()
	if center.Length() > 1e-5 {
		t.Errorf("re-centered box should sit on the origin, center %v", center)
	}
	if math32.Abs(after.Size().X-4) > 1e-5 {
		t.Errorf("size should be preserved, got %v", after.Size())
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	positions := []float32{
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	}

	maxDim := Normalize(positions, BoundsOf(positions))

	if maxDim != 1 {
		t.Errorf("degenerate mesh should floor maxDim to 1, got %v", maxDim)
	}
	for i, p := range positions {
		if p != 0 {
			t.Errorf("position %d should be re-centered to 0, got %v", i, p)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if maxDim := Normalize(nil, NewBoundingBox()); maxDim != 1 {
		t.Errorf("empty input should report 1, got %v", maxDim)
	}
}
