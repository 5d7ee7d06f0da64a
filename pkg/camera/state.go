package camera

import "github.com/chewxy/math32"

// Limits bounds the camera state
type Limits struct {
	MaxPitch float32
	ZoomMin  float32
	ZoomMax  float32
}

// DefaultLimits returns ±80° pitch and a 0.4 to 4.0 zoom range
func DefaultLimits() Limits {
	return Limits{
		MaxPitch: 80 * math32.Pi / 180,
		ZoomMin:  0.4,
		ZoomMax:  4.0,
	}
}

// State is the orbit camera: yaw and pitch in radians, zoom as a
// multiplier on the eye distance divisor.
type State struct {
	Yaw    float32
	Pitch  float32
	Zoom   float32
	Limits Limits
}

// NewState returns the home view with default limits
func NewState() *State {
	s := &State{Limits: DefaultLimits()}
	s.Reset()
	return s
}

// Reset returns to the home view
func (s *State) Reset() {
	s.Yaw = 0
	s.Pitch = 0
	s.Zoom = 1
}

// Rotate adds the deltas to yaw and pitch
func (s *State) Rotate(dYaw, dPitch float32) {
	if finite(dYaw) {
		s.Yaw += dYaw
	}
	if finite(dPitch) {
		s.Pitch += dPitch
	}
	s.Clamp()
}

// ZoomBy multiplies zoom by factor
func (s *State) ZoomBy(factor float32) {
	if !finite(factor) || factor <= 0 {
		return
	}
	s.Zoom *= factor
	s.Clamp()
}

// SetZoom sets zoom directly
func (s *State) SetZoom(zoom float32) {
	if !finite(zoom) {
		return
	}
	s.Zoom = zoom
	s.Clamp()
}

// Clamp wraps yaw into [0, 2π) and limits pitch and zoom
func (s *State) Clamp() {
	limits := s.Limits
	if limits == (Limits{}) {
		limits = DefaultLimits()
	}

	s.Yaw = math32.Mod(s.Yaw, 2*math32.Pi)
	if s.Yaw < 0 {
		s.Yaw += 2 * math32.Pi
	}
	if s.Yaw >= 2*math32.Pi {
		s.Yaw = 0
	}

	s.Pitch = clamp(s.Pitch, -limits.MaxPitch, limits.MaxPitch)
	s.Zoom = clamp(s.Zoom, limits.ZoomMin, limits.ZoomMax)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
