// Package gldevice runs the viewer program on OpenGL 4.1 core. All calls
// must happen on the goroutine that owns the current GL context.
package gldevice

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/philipparndt/stlvol/pkg/render"
)

// Device is an OpenGL render.Device
type Device struct {
	vao           uint32
	width, height int
	drawn         bool
}

// New creates a device. A GL context must be current before Init.
func New() *Device {
	return &Device{}
}

// Init loads the GL function pointers and sets fixed state
func (d *Device) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	gl.GenVertexArrays(1, &d.vao)
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 0)
	return nil
}

// Clear wipes the framebuffer, for frames where nothing is drawn
func (d *Device) Clear(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Version returns the driver version string
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Compile compiles and links the two GLSL stages
func (d *Device) Compile(vertexSrc, fragmentSrc string) (render.Program, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragShader)

	id := gl.CreateProgram()
	gl.AttachShader(id, vertShader)
	gl.AttachShader(id, fragShader)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("failed to link program: %s", strings.TrimRight(log, "\x00"))
	}

	p := &program{device: d, id: id}
	p.lookupUniforms()
	return p, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// NewBuffer allocates a vertex buffer object
func (d *Device) NewBuffer() (render.Buffer, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return nil, fmt.Errorf("glGenBuffers returned no buffer")
	}
	return &buffer{id: id}, nil
}

// Capture reads back the default framebuffer
func (d *Device) Capture() (image.Image, error) {
	if !d.drawn || d.width <= 0 || d.height <= 0 {
		return nil, render.ErrNotReady
	}
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(d.width), int32(d.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&img.Pix[0]))

	// GL rows start at the bottom
	stride := img.Stride
	row := make([]byte, stride)
	for top, bottom := 0, d.height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*stride : (top+1)*stride]
		b := img.Pix[bottom*stride : (bottom+1)*stride]
		copy(row, a)
		copy(a, b)
		copy(b, row)
	}
	return img, nil
}

// Release deletes the vertex array
func (d *Device) Release() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

type buffer struct {
	id uint32
}

func (b *buffer) Upload(data []float32) error {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return nil
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	return nil
}
