package geometry

// Normalize re-centers a flat xyz position array on the origin, in place,
// and returns the largest box dimension. Degenerate or empty input reports 1
// so callers can always divide by the result.
func Normalize(positions []float32, box BoundingBox) float32 {
	center := box.Center()
	for i := 0; i+2 < len(positions); i += 3 {
		positions[i] -= center.X
		positions[i+1] -= center.Y
		positions[i+2] -= center.Z
	}

	maxDim := box.Size().MaxComponent()
	if !(maxDim > 0) {
		return 1
	}
	return maxDim
}

// BoundsOf computes the bounding box of a flat xyz position array
func BoundsOf(positions []float32) BoundingBox {
	box := NewBoundingBox()
	for i := 0; i+2 < len(positions); i += 3 {
		box.ExtendXYZ(positions[i], positions[i+1], positions[i+2])
	}
	return box
}
