package gldevice

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/philipparndt/stlvol/pkg/render"
)

type program struct {
	device *Device
	id     uint32

	projection    int32
	view          int32
	model         int32
	normal        int32
	eye           int32
	color         int32
	lightDir      int32
	lightStrength int32
	ambient       int32
	rim           int32
}

func (p *program) uniform(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

func (p *program) lookupUniforms() {
	p.projection = p.uniform("uProjection")
	p.view = p.uniform("uView")
	p.model = p.uniform("uModel")
	p.normal = p.uniform("uNormal")
	p.eye = p.uniform("uEye")
	p.color = p.uniform("uColor")
	p.lightDir = p.uniform("uLightDir")
	p.lightStrength = p.uniform("uLightStrength")
	p.ambient = p.uniform("uAmbient")
	p.rim = p.uniform("uRim")
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

	d := p.device
	d.width, d.height = call.Width, call.Height
	gl.Viewport(0, 0, int32(call.Width), int32(call.Height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	u := call.Uniforms
	m := u.Material
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.projection, 1, false, &u.Projection[0])
	gl.UniformMatrix4fv(p.view, 1, false, &u.View[0])
	gl.UniformMatrix4fv(p.model, 1, false, &u.Model[0])
	gl.UniformMatrix3fv(p.normal, 1, false, &u.Normal[0])
	gl.Uniform3fv(p.eye, 1, &u.Eye[0])
	gl.Uniform3fv(p.color, 1, &m.Color[0])
	dirs := [6]float32{
		m.Lights[0].Dir[0], m.Lights[0].Dir[1], m.Lights[0].Dir[2],
		m.Lights[1].Dir[0], m.Lights[1].Dir[1], m.Lights[1].Dir[2],
	}
	strengths := [2]float32{m.Lights[0].Strength, m.Lights[1].Strength}
	gl.Uniform3fv(p.lightDir, 2, &dirs[0])
	gl.Uniform1fv(p.lightStrength, 2, &strengths[0])
	gl.Uniform1f(p.ambient, m.Ambient)
	gl.Uniform1f(p.rim, m.Rim)

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, positions.id)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, normals.id)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))

	if call.VertexCount > 0 {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(call.VertexCount))
	}
	gl.BindVertexArray(0)
	d.drawn = true

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("GL error 0x%x", code)
	}
	return nil
}
