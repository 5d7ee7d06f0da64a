// Package render draws a triangle soup with a fixed shader program through
// a pluggable Device.
package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/philipparndt/stlvol/pkg/camera"
)

const (
	// FitScale is the size the largest model dimension is scaled to
	FitScale = 1.8
	// EyeDistance is the camera distance at zoom 1
	EyeDistance = 4.5
	// FieldOfView is the vertical field of view in degrees
	FieldOfView = 40
	Near        = 0.1
	Far         = 100
	RimStrength = 0.35
)

// ErrNotReady is returned by Capture before anything was drawn
var ErrNotReady = errors.New("renderer not ready")

// State is the lifecycle of an Engine
type State int

const (
	Uninitialized State = iota
	ContextReady
	ProgramLinked
	ReadyToDraw
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case ContextReady:
		return "context-ready"
	case ProgramLinked:
		return "program-linked"
	case ReadyToDraw:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Engine owns the program, the two vertex buffers and everything derived
// from the bound geometry. Once an initialization step fails it stays
// Failed and every call becomes a no-op.
type Engine struct {
	device   Device
	logger   *log.Logger
	material Material

	state   State
	err     error
	message string

	program   Program
	positions Buffer
	normals   Buffer

	vertexCount int
	scale       float32
	width       int
	height      int
	drawn       bool
}

// NewEngine creates an engine for device. A nil logger discards output.
func NewEngine(device Device, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		device:   device,
		logger:   logger,
		material: WaxMaterial(),
		scale:    FitScale,
		width:    1,
		height:   1,
	}
}

// Init acquires the context and builds the program
func (e *Engine) Init() error {
	if e.state != Uninitialized {
		return e.err
	}
	if err := e.device.Init(); err != nil {
		return e.fail("3D view unavailable: no graphics context", err)
	}
	e.state = ContextReady

	program, err := e.device.Compile(VertexShader, FragmentShader)
	if err != nil {
		return e.fail("3D view unavailable: shader build failed", err)
	}
	e.program = program
	e.state = ProgramLinked
	return nil
}

func (e *Engine) fail(message string, err error) error {
	e.state = Failed
	e.message = message
	e.err = fmt.Errorf("%s: %w", message, err)
	e.logger.Printf("render: %v", e.err)
	return e.err
}

// State returns the lifecycle state
func (e *Engine) State() State {
	return e.state
}

// Err returns the captured initialization or draw failure
func (e *Engine) Err() error {
	return e.err
}

// Message returns a short user-facing description of the failure, if any
func (e *Engine) Message() string {
	return e.message
}

// Upload replaces the bound geometry. maxDim is the largest extent of the
// normalized model; non-positive or NaN values are treated as 1.
func (e *Engine) Upload(positions, normals []float32, maxDim float32) {
	if e.state != ProgramLinked && e.state != ReadyToDraw {
		return
	}
	if e.positions == nil {
		buf, err := e.device.NewBuffer()
		if err != nil {
			e.fail("3D view unavailable: buffer allocation failed", err)
			return
		}
		e.positions = buf
	}
	if e.normals == nil {
		buf, err := e.device.NewBuffer()
		if err != nil {
			e.fail("3D view unavailable: buffer allocation failed", err)
			return
		}
		e.normals = buf
	}
	if err := e.positions.Upload(positions); err != nil {
		e.fail("3D view unavailable: upload failed", err)
		return
	}
	if err := e.normals.Upload(normals); err != nil {
		e.fail("3D view unavailable: upload failed", err)
		return
	}

	if !(maxDim > 0) || math32.IsInf(maxDim, 0) {
		maxDim = 1
	}
	e.vertexCount = len(positions) / 3
	e.scale = FitScale / maxDim
	e.state = ReadyToDraw
}

// Clear drops the bound geometry; frames draw nothing until the next
// Upload. The buffers are kept for reuse.
func (e *Engine) Clear() {
	if e.state != ReadyToDraw {
		return
	}
	e.state = ProgramLinked
	e.vertexCount = 0
	e.drawn = false
}

// Resize sets the viewport size in pixels
func (e *Engine) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	e.width, e.height = width, height
}

// Size returns the viewport size
func (e *Engine) Size() (int, int) {
	return e.width, e.height
}

// VertexCount returns the number of vertices bound
func (e *Engine) VertexCount() int {
	return e.vertexCount
}

// Scale returns the uniform model scale derived from the last upload
func (e *Engine) Scale() float32 {
	return e.scale
}

// Uniforms computes the program inputs for a camera state
func (e *Engine) Uniforms(cam camera.State) Uniforms {
	zoom := cam.Zoom
	if !(zoom > 0) {
		zoom = 1
	}
	eye := mgl32.Vec3{0, 0, EyeDistance / zoom}
	aspect := float32(e.width) / float32(e.height)

	return Uniforms{
		Projection: camera.Perspective(mgl32.DegToRad(FieldOfView), aspect, Near, Far),
		View:       camera.LookAt(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
		Model:      camera.BuildModel(cam.Yaw, cam.Pitch, e.scale),
		Normal:     camera.BuildNormal(cam.Yaw, cam.Pitch),
		Eye:        eye,
		Material:   e.material,
	}
}

// Frame draws the bound geometry once
func (e *Engine) Frame(cam camera.State) {
	if e.state != ReadyToDraw {
		return
	}
	err := e.program.Draw(DrawCall{
		Width:       e.width,
		Height:      e.height,
		Uniforms:    e.Uniforms(cam),
		Positions:   e.positions,
		Normals:     e.normals,
		VertexCount: e.vertexCount,
	})
	if err != nil {
		e.fail("3D view stopped: draw failed", err)
		return
	}
	e.drawn = true
}

// Capture returns the last drawn frame
func (e *Engine) Capture() (image.Image, error) {
	capturer, ok := e.device.(Capturer)
	if e.state != ReadyToDraw || !e.drawn || !ok {
		return nil, ErrNotReady
	}
	return capturer.Capture()
}
