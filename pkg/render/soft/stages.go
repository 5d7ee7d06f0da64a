package soft

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/philipparndt/stlvol/pkg/render"
)

// varying is the per-vertex output of a vertex stage
type varying struct {
	clip   mgl32.Vec4
	world  mgl32.Vec3
	normal mgl32.Vec3
}

func lerpVarying(a, b varying, t float32) varying {
	return varying{
		clip:   a.clip.Add(b.clip.Sub(a.clip).Mul(t)),
		world:  a.world.Add(b.world.Sub(a.world).Mul(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).Mul(t)),
	}
}

type vertexStage func(u *render.Uniforms, mvp mgl32.Mat4, position, normal mgl32.Vec3) varying

type fragmentStage func(u *render.Uniforms, world, normal mgl32.Vec3) [3]float32

var vertexStages = map[string]vertexStage{
	render.VertexShaderName: waxVertex,
}

var fragmentStages = map[string]fragmentStage{
	render.FragmentShaderName: waxFragment,
}

func waxVertex(u *render.Uniforms, mvp mgl32.Mat4, position, normal mgl32.Vec3) varying {
	world := u.Model.Mul4x1(position.Vec4(1))
	return varying{
		clip:   mvp.Mul4x1(position.Vec4(1)),
		world:  world.Vec3(),
		normal: u.Normal.Mul3x1(normal),
	}
}

func waxFragment(u *render.Uniforms, world, normal mgl32.Vec3) [3]float32 {
	m := &u.Material

	n := normal
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	v := u.Eye.Sub(world)
	if l := v.Len(); l > 0 {
		v = v.Mul(1 / l)
	}
	if n.Dot(v) < 0 {
		n = n.Mul(-1)
	}

	diffuse := m.Ambient
	for _, light := range m.Lights {
		diffuse += math32.Max(n.Dot(light.Dir), 0) * light.Strength
	}
	rim := math32.Pow(1-math32.Max(n.Dot(v), 0), 3) * m.Rim

	return [3]float32{
		math32.Min(m.Color[0]*diffuse+rim, 1),
		math32.Min(m.Color[1]*diffuse+rim, 1),
		math32.Min(m.Color[2]*diffuse+rim, 1),
	}
}
