// Package rldevice runs the viewer program through raylib. The window and
// its GL context belong to raylib; the device only compiles the program,
// keeps the mesh and draws it between BeginDrawing and EndDrawing, which
// the caller owns.
package rldevice

import (
	"errors"
	"fmt"
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/philipparndt/stlvol/pkg/render"
)

// ErrNoWindow is returned by Init before rl.InitWindow
var ErrNoWindow = errors.New("raylib window not initialized")

// Device implements render.Device on top of raylib
type Device struct {
	programs []*program
}

// New creates a device. Call rl.InitWindow before Init.
func New() *Device {
	return &Device{}
}

// Init checks that raylib owns a window
func (d *Device) Init() error {
	if !rl.IsWindowReady() {
		return ErrNoWindow
	}
	return nil
}

// Compile loads the 330 variant of the program
func (d *Device) Compile(vertexSrc, fragmentSrc string) (render.Program, error) {
	vs, err := translate(vertexSrc)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	fs, err := translate(fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}

	shader := rl.LoadShaderFromMemory(vs, fs)
	if !rl.IsShaderValid(shader) {
		return nil, fmt.Errorf("failed to link program")
	}

	material := rl.LoadMaterialDefault()
	material.Shader = shader

	p := &program{shader: shader, material: material}
	p.lookupUniforms()
	d.programs = append(d.programs, p)
	return p, nil
}

// NewBuffer returns a CPU-side stream; the mesh is rebuilt from it on the
// next draw
func (d *Device) NewBuffer() (render.Buffer, error) {
	return &buffer{}, nil
}

// Capture reads the back buffer. Call it before EndDrawing.
func (d *Device) Capture() (image.Image, error) {
	img := rl.LoadImageFromScreen()
	if img == nil {
		return nil, fmt.Errorf("failed to read screen")
	}
	defer rl.UnloadImage(img)
	return img.ToImage(), nil
}

// Release unloads meshes and shaders. Call it before rl.CloseWindow.
func (d *Device) Release() {
	for _, p := range d.programs {
		p.release()
	}
	d.programs = nil
}

type buffer struct {
	data    []float32
	version int
}

func (b *buffer) Upload(data []float32) error {
	b.data = append(b.data[:0], data...)
	b.version++
	return nil
}

// toMatrix converts a column-major mgl32 matrix to raylib's layout, whose
// Mi fields use the same column-major index
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
