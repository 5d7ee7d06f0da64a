package viewer

import (
	"github.com/chewxy/math32"

	"github.com/philipparndt/stlvol/pkg/camera"
)

// Nudge is a fixed camera step bound to an on-screen button or key
type Nudge int

const (
	NudgeLeft Nudge = iota
	NudgeRight
	NudgeUp
	NudgeDown
	NudgeZoomIn
	NudgeZoomOut
	NudgeReset
)

// Settings tunes how input maps to camera motion
type Settings struct {
	RotateSpeed      float32 // radians per pixel dragged
	WheelSpeed       float32 // zoom exponent per wheel unit
	NudgeAngle       float32 // radians per rotate button press
	NudgeZoom        float32 // zoom factor per zoom button press
	BurstFrames      int
	AutoRotateFrames int
	AutoRotateStep   float32 // radians of yaw per auto-rotate frame
}

// DefaultSettings returns the stock input tuning
func DefaultSettings() Settings {
	return Settings{
		RotateSpeed:      0.01,
		WheelSpeed:       0.0015,
		NudgeAngle:       15 * math32.Pi / 180,
		NudgeZoom:        1.2,
		BurstFrames:      30,
		AutoRotateFrames: 120,
		AutoRotateStep:   0.015,
	}
}

// Controller turns pointer, wheel, pinch and button input into camera
// updates and render requests. It is owned by the UI goroutine.
type Controller struct {
	cam      *camera.State
	settings Settings
	burst    *Burst

	dragging  bool
	pinchDist float32
	autoLeft  int
}

// NewController drives cam with the given settings
func NewController(cam *camera.State, settings Settings) *Controller {
	return &Controller{
		cam:      cam,
		settings: settings,
		burst:    NewBurst(settings.BurstFrames),
	}
}

// Camera returns a copy of the current camera state
func (c *Controller) Camera() camera.State {
	return *c.cam
}

// Settings returns the input tuning
func (c *Controller) Settings() Settings {
	return c.settings
}

// RequestRedraw asks for a burst of frames without moving the camera
func (c *Controller) RequestRedraw() {
	c.burst.Request()
}

func (c *Controller) input() {
	c.autoLeft = 0
	c.burst.Request()
}

// BeginDrag starts a pointer drag
func (c *Controller) BeginDrag() {
	c.dragging = true
	c.input()
}

// Drag rotates by the pointer movement since the previous event
func (c *Controller) Drag(dx, dy float32) {
	c.dragging = true
	c.cam.Rotate(dx*c.settings.RotateSpeed, dy*c.settings.RotateSpeed)
	c.input()
}

// EndDrag finishes a pointer drag
func (c *Controller) EndDrag() {
	c.dragging = false
	c.burst.Request()
}

// Dragging reports whether a drag is in progress
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Wheel zooms exponentially; positive deltas zoom out
func (c *Controller) Wheel(delta float32) {
	c.cam.ZoomBy(math32.Exp(-delta * c.settings.WheelSpeed))
	c.input()
}

// PinchStart records the initial distance between two touch points
func (c *Controller) PinchStart(dist float32) {
	c.pinchDist = dist
	c.input()
}

// Pinch zooms by the ratio of the new to the previous touch distance
func (c *Controller) Pinch(dist float32) {
	if c.pinchDist > 0 && dist > 0 {
		c.cam.ZoomBy(dist / c.pinchDist)
	}
	if dist > 0 {
		c.pinchDist = dist
	}
	c.input()
}

// Nudge applies a fixed step
func (c *Controller) Nudge(n Nudge) {
	step := c.settings.NudgeAngle
	switch n {
	case NudgeLeft:
		c.cam.Rotate(-step, 0)
	case NudgeRight:
		c.cam.Rotate(step, 0)
	case NudgeUp:
		c.cam.Rotate(0, -step)
	case NudgeDown:
		c.cam.Rotate(0, step)
	case NudgeZoomIn:
		c.cam.ZoomBy(c.settings.NudgeZoom)
	case NudgeZoomOut:
		c.cam.ZoomBy(1 / c.settings.NudgeZoom)
	case NudgeReset:
		c.cam.Reset()
	}
	c.input()
}

// StartAutoRotate arms the idle turntable, typically after a new model is
// bound.
func (c *Controller) StartAutoRotate() {
	c.autoLeft = c.settings.AutoRotateFrames
	c.burst.Request()
}

// AutoRotating reports whether turntable frames remain
func (c *Controller) AutoRotating() bool {
	return c.autoLeft > 0
}

// Tick is called once per display refresh and reports whether a frame
// should be drawn. Auto-rotate frames are held while a drag is active.
func (c *Controller) Tick() bool {
	if c.autoLeft > 0 && !c.dragging {
		c.cam.Rotate(c.settings.AutoRotateStep, 0)
		c.autoLeft--
		c.burst.Next()
		return true
	}
	return c.burst.Next()
}
