package geometry

import (
	"testing"

	"github.com/chewxy/math32"
)

func rightTriangle() Triangle {
	return NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)
}

func TestTriangleArea(t *testing.T) {
	area := rightTriangle().Area()

	if math32.Abs(area-6) > 1e-6 {
		t.Errorf("Area failed: expected 6, got %v", area)
	}
}

func TestTriangleEdgeLengths(t *testing.T) {
	lengths := rightTriangle().EdgeLengths()

	expected := [3]float32{3, 5, 4}
	for i := range expected {
		if math32.Abs(lengths[i]-expected[i]) > 1e-6 {
			t.Errorf("Edge %d length failed: expected %v, got %v", i, expected[i], lengths[i])
		}
	}
}

func TestTrianglePerimeter(t *testing.T) {
	perimeter := rightTriangle().Perimeter()

	if math32.Abs(perimeter-12) > 1e-6 {
		t.Errorf("Perimeter failed: expected 12, got %v", perimeter)
	}
}

func TestTriangleNormal(t *testing.T) {
	normal := rightTriangle().Normal()

	expected := NewVector3(0, 0, 1)
	if normal != expected {
		t.Errorf("Normal failed: expected %v, got %v", expected, normal)
	}
	if flipped := rightTriangle().Flipped().Normal(); flipped != NewVector3(-expected.X, -expected.Y, -expected.Z) {
		t.Errorf("Flipped normal failed: got %v", flipped)
	}
}

func TestTriangleSignedVolumeFlipsWithWinding(t *testing.T) {
	tri := NewTriangle(
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
		NewVector3(0, 0, 1),
	)

	v := tri.SignedVolume6()
	if v != 1 {
		t.Errorf("SignedVolume6 failed: expected 1, got %v", v)
	}
	if flipped := tri.Flipped().SignedVolume6(); flipped != -v {
		t.Errorf("Flipped SignedVolume6 failed: expected %v, got %v", -v, flipped)
	}
}
