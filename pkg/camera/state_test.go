package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestNewStateIsHome(t *testing.T) {
	s := NewState()
	assert.Equal(t, float32(0), s.Yaw)
	assert.Equal(t, float32(0), s.Pitch)
	assert.Equal(t, float32(1), s.Zoom)
}

func TestPitchClamped(t *testing.T) {
	s := NewState()
	limit := 80 * math32.Pi / 180

	s.Rotate(0, 10)
	assert.InDelta(t, limit, s.Pitch, 1e-6)

	s.Rotate(0, -100)
	assert.InDelta(t, -limit, s.Pitch, 1e-6)
}

func TestYawWraps(t *testing.T) {
	s := NewState()
	s.Rotate(2*math32.Pi+0.5, 0)
	assert.InDelta(t, 0.5, s.Yaw, 1e-5)

	s.Rotate(-1, 0)
	assert.InDelta(t, 2*math32.Pi-0.5, s.Yaw, 1e-5)
}

func TestZoomClamped(t *testing.T) {
	s := NewState()
	s.ZoomBy(100)
	assert.Equal(t, float32(4), s.Zoom)

	s.SetZoom(0.01)
	assert.Equal(t, float32(0.4), s.Zoom)

	s.ZoomBy(0)
	s.ZoomBy(-2)
	assert.Equal(t, float32(0.4), s.Zoom)
}

func TestNonFiniteInputIgnored(t *testing.T) {
	s := NewState()
	s.Rotate(0.25, 0.1)

	s.Rotate(math32.NaN(), math32.Inf(1))
	s.ZoomBy(math32.NaN())
	s.SetZoom(math32.Inf(-1))

	assert.InDelta(t, 0.25, s.Yaw, 1e-6)
	assert.InDelta(t, 0.1, s.Pitch, 1e-6)
	assert.Equal(t, float32(1), s.Zoom)
}

func TestCustomLimits(t *testing.T) {
	s := &State{Zoom: 1, Limits: Limits{MaxPitch: 0.5, ZoomMin: 1, ZoomMax: 2}}
	s.Rotate(0, 1)
	s.ZoomBy(10)
	assert.Equal(t, float32(0.5), s.Pitch)
	assert.Equal(t, float32(2), s.Zoom)
}
