package render

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Device is a graphics backend able to run the fixed viewer program
type Device interface {
	// Init acquires the drawing context
	Init() error
	// Compile compiles and links a vertex/fragment source pair
	Compile(vertexSrc, fragmentSrc string) (Program, error)
	// NewBuffer allocates a float vertex attribute buffer
	NewBuffer() (Buffer, error)
}

// Buffer holds one vertex attribute stream of three floats per vertex
type Buffer interface {
	Upload(data []float32) error
}

// Program is a linked shader program
type Program interface {
	Draw(call DrawCall) error
}

// Capturer is implemented by devices that can read back the last frame
type Capturer interface {
	Capture() (image.Image, error)
}

// DrawCall is everything one frame needs
type DrawCall struct {
	Width, Height int
	Uniforms      Uniforms
	Positions     Buffer
	Normals       Buffer
	VertexCount   int
}

// Uniforms are the program inputs shared by every vertex of a draw
type Uniforms struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Model      mgl32.Mat4
	Normal     mgl32.Mat3
	Eye        mgl32.Vec3
	Material   Material
}

// Light is a directional light; Dir points from the surface to the light
type Light struct {
	Dir      mgl32.Vec3
	Strength float32
}

// Material is the fixed wax look of the viewer
type Material struct {
	Color   mgl32.Vec3
	Lights  [2]Light
	Ambient float32
	Rim     float32
}

// WaxMaterial returns the default material: base colour #caa06f, a key and
// a fill light, and a rim term.
func WaxMaterial() Material {
	return Material{
		Color: mgl32.Vec3{0xca / 255.0, 0xa0 / 255.0, 0x6f / 255.0},
		Lights: [2]Light{
			{Dir: mgl32.Vec3{0.5, 0.8, 0.6}.Normalize(), Strength: 0.8},
			{Dir: mgl32.Vec3{-0.6, -0.3, -0.5}.Normalize(), Strength: 0.35},
		},
		Ambient: 0.25,
		Rim:     RimStrength,
	}
}
