// Package soft is a CPU render.Device. Programs are Go stage pairs selected
// by the name tag of the shader sources, rasterized into an RGBA image with
// a float32 depth buffer.
package soft

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/philipparndt/stlvol/pkg/render"
)

// ErrNotInitialized is returned when the device is used before Init
var ErrNotInitialized = errors.New("soft device not initialized")

// Device is a software rasterizer
type Device struct {
	mu     sync.Mutex
	ready  bool
	target *image.RGBA
	depth  []float32
}

// New creates an uninitialized device
func New() *Device {
	return &Device{}
}

// Init marks the device usable
func (d *Device) Init() error {
	d.ready = true
	return nil
}

// Compile selects the Go stages named by the sources
func (d *Device) Compile(vertexSrc, fragmentSrc string) (render.Program, error) {
	if !d.ready {
		return nil, ErrNotInitialized
	}
	vname, err := render.ShaderName(vertexSrc)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	fname, err := render.ShaderName(fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	vertex, ok := vertexStages[vname]
	if !ok {
		return nil, fmt.Errorf("vertex shader: unknown program %q", vname)
	}
	fragment, ok := fragmentStages[fname]
	if !ok {
		return nil, fmt.Errorf("fragment shader: unknown program %q", fname)
	}
	return &program{device: d, vertex: vertex, fragment: fragment}, nil
}

// NewBuffer allocates a host-memory buffer
func (d *Device) NewBuffer() (render.Buffer, error) {
	if !d.ready {
		return nil, ErrNotInitialized
	}
	return &buffer{}, nil
}

// Capture returns a copy of the last frame
func (d *Device) Capture() (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.target == nil {
		return nil, render.ErrNotReady
	}
	out := image.NewRGBA(d.target.Rect)
	copy(out.Pix, d.target.Pix)
	return out, nil
}

// begin returns a cleared colour and depth buffer of the requested size
func (d *Device) begin(width, height int) (*image.RGBA, []float32) {
	if d.target == nil || d.target.Rect.Dx() != width || d.target.Rect.Dy() != height {
		d.target = image.NewRGBA(image.Rect(0, 0, width, height))
		d.depth = make([]float32, width*height)
	} else {
		clear(d.target.Pix)
	}
	for i := range d.depth {
		d.depth[i] = 1
	}
	return d.target, d.depth
}

type buffer struct {
	data []float32
}

func (b *buffer) Upload(data []float32) error {
	b.data = append(b.data[:0], data...)
	return nil
}
