package rldevice

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/stlvol/pkg/render"
)

type program struct {
	shader   rl.Shader
	material rl.Material

	mesh      rl.Mesh
	uploaded  bool
	positions *buffer
	normals   *buffer
	versions  [2]int

	projection, view, model, normal int32
	eye, color, lightDir             int32
	lightStrength, ambient, rim      int32
}

func (p *program) lookupUniforms() {
	loc := func(name string) int32 { return rl.GetShaderLocation(p.shader, name) }
	p.projection = loc("uProjection")
	p.view = loc("uView")
	p.model = loc("uModel")
	p.normal = loc("uNormal")
	p.eye = loc("uEye")
	p.color = loc("uColor")
	p.lightDir = loc("uLightDir")
	p.lightStrength = loc("uLightStrength")
	p.ambient = loc("uAmbient")
	p.rim = loc("uRim")
}

// syncMesh re-uploads the mesh when either stream changed since the last
// draw
func (p *program) syncMesh(positions, normals *buffer, count int) error {
	if p.uploaded && positions == p.positions && normals == p.normals &&
		p.versions == [2]int{positions.version, normals.version} {
		return nil
	}
	if len(positions.data) < count*3 || len(normals.data) < count*3 {
		return fmt.Errorf("buffers hold fewer than %d vertices", count)
	}
	if p.uploaded {
		rl.UnloadMesh(&p.mesh)
		p.uploaded = false
	}

	mesh := rl.Mesh{
		VertexCount:   int32(count),
		TriangleCount: int32(count / 3),
	}
	if count > 0 {
		mesh.Vertices = &positions.data[0]
		mesh.Normals = &normals.data[0]
	}
	rl.UploadMesh(&mesh, false)

	p.mesh = mesh
	p.uploaded = true
	p.positions, p.normals = positions, normals
	p.versions = [2]int{positions.version, normals.version}
	return nil
}

func (p *program) Draw(call render.DrawCall) error {
	positions, ok := call.Positions.(*buffer)
	if !ok {
		return fmt.Errorf("foreign position buffer %T", call.Positions)
	}
	normals, ok := call.Normals.(*buffer)
	if !ok {
		return fmt.Errorf("foreign normal buffer %T", call.Normals)
	}
	if err := p.syncMesh(positions, normals, call.VertexCount); err != nil {
		return err
	}

	u := call.Uniforms
	m := u.Material
	s := p.shader
	rl.SetShaderValueMatrix(s, p.projection, toMatrix(u.Projection))
	rl.SetShaderValueMatrix(s, p.view, toMatrix(u.View))
	rl.SetShaderValueMatrix(s, p.model, toMatrix(u.Model))
	rl.SetShaderValueMatrix(s, p.normal, toMatrix(u.Normal.Mat4()))
	rl.SetShaderValue(s, p.eye, u.Eye[:], rl.ShaderUniformVec3)
	rl.SetShaderValue(s, p.color, m.Color[:], rl.ShaderUniformVec3)
	dirs := []float32{
		m.Lights[0].Dir[0], m.Lights[0].Dir[1], m.Lights[0].Dir[2],
		m.Lights[1].Dir[0], m.Lights[1].Dir[1], m.Lights[1].Dir[2],
	}
	rl.SetShaderValueV(s, p.lightDir, dirs, rl.ShaderUniformVec3, 2)
	rl.SetShaderValueV(s, p.lightStrength, []float32{m.Lights[0].Strength, m.Lights[1].Strength}, rl.ShaderUniformFloat, 2)
	rl.SetShaderValue(s, p.ambient, []float32{m.Ambient}, rl.ShaderUniformFloat)
	rl.SetShaderValue(s, p.rim, []float32{m.Rim}, rl.ShaderUniformFloat)

	// the camera only switches raylib into 3D state; the program uses its
	// own matrices
	rl.BeginMode3D(rl.Camera3D{
		Position:   rl.Vector3{X: u.Eye[0], Y: u.Eye[1], Z: u.Eye[2]},
		Target:     rl.Vector3{},
		Up:         rl.Vector3{Y: 1},
		Fovy:       render.FieldOfView,
		Projection: rl.CameraPerspective,
	})
	rl.DisableBackfaceCulling()
	rl.DrawMesh(p.mesh, p.material, rl.MatrixIdentity())
	rl.EnableBackfaceCulling()
	rl.EndMode3D()
	return nil
}

func (p *program) release() {
	if p.uploaded {
		rl.UnloadMesh(&p.mesh)
		p.uploaded = false
	}
	rl.UnloadShader(p.shader)
}
