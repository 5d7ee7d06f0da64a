package soft

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/philipparndt/stlvol/pkg/render"
)

type program struct {
	device   *Device
	vertex   vertexStage
	fragment fragmentStage
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
	count := call.VertexCount
	if n := len(positions.data) / 3; count > n {
		count = n
	}
	if n := len(normals.data) / 3; count > n {
		count = n
	}
	count -= count % 3

	d := p.device
	d.mu.Lock()
	defer d.mu.Unlock()
	img, depth := d.begin(call.Width, call.Height)

	u := &call.Uniforms
	mvp := u.Projection.Mul4(u.View).Mul4(u.Model)

	var tri [3]varying
	for i := 0; i < count; i += 3 {
		for k := 0; k < 3; k++ {
			o := (i + k) * 3
			pos := mgl32.Vec3{positions.data[o], positions.data[o+1], positions.data[o+2]}
			nrm := mgl32.Vec3{normals.data[o], normals.data[o+1], normals.data[o+2]}
			tri[k] = p.vertex(u, mvp, pos, nrm)
		}
		poly := clipNear(tri)
		for k := 1; k+1 < len(poly); k++ {
			p.rasterize(img, depth, u, poly[0], poly[k], poly[k+1])
		}
	}
	return nil
}

// clipNear clips a triangle against the near plane (z >= -w) and returns
// the resulting convex polygon, possibly empty.
func clipNear(tri [3]varying) []varying {
	inside := func(v varying) bool { return v.clip[2] >= -v.clip[3] }
	if inside(tri[0]) && inside(tri[1]) && inside(tri[2]) {
		return tri[:]
	}

	out := make([]varying, 0, 4)
	for i := 0; i < 3; i++ {
		a, b := tri[i], tri[(i+1)%3]
		ina, inb := inside(a), inside(b)
		if ina {
			out = append(out, a)
		}
		if ina != inb {
			da := a.clip[2] + a.clip[3]
			db := b.clip[2] + b.clip[3]
			out = append(out, lerpVarying(a, b, da/(da-db)))
		}
	}
	return out
}

type screenVertex struct {
	x, y, z float32
	invW    float32
	v       varying
}

func toScreen(v varying, width, height int) screenVertex {
	invW := 1 / v.clip[3]
	return screenVertex{
		x:    (v.clip[0]*invW + 1) * 0.5 * float32(width),
		y:    (1 - v.clip[1]*invW) * 0.5 * float32(height),
		z:    v.clip[2]*invW*0.5 + 0.5,
		invW: invW,
		v:    v,
	}
}

// rasterize fills one triangle with a barycentric bounding-box walk,
// depth testing against depth and interpolating attributes with
// perspective correction.
func (p *program) rasterize(img *image.RGBA, depth []float32, u *render.Uniforms, a, b, c varying) {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	s0 := toScreen(a, width, height)
	s1 := toScreen(b, width, height)
	s2 := toScreen(c, width, height)

	area := (s1.x-s0.x)*(s2.y-s0.y) - (s2.x-s0.x)*(s1.y-s0.y)
	if area == 0 || math32.IsNaN(area) {
		return
	}
	invArea := 1 / area

	minX := int(math32.Floor(math32.Min(s0.x, math32.Min(s1.x, s2.x))))
	maxX := int(math32.Ceil(math32.Max(s0.x, math32.Max(s1.x, s2.x))))
	minY := int(math32.Floor(math32.Min(s0.y, math32.Min(s1.y, s2.y))))
	maxY := int(math32.Ceil(math32.Max(s0.y, math32.Max(s1.y, s2.y))))
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, width-1)
	maxY = min(maxY, height-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		row := y * width
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			w0 := ((s1.x-px)*(s2.y-py) - (s2.x-px)*(s1.y-py)) * invArea
			w1 := ((s2.x-px)*(s0.y-py) - (s0.x-px)*(s2.y-py)) * invArea
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*s0.z + w1*s1.z + w2*s2.z
			if z < 0 || z > 1 || z >= depth[row+x] {
				continue
			}

			// perspective-correct weights
			p0, p1, p2 := w0*s0.invW, w1*s1.invW, w2*s2.invW
			norm := 1 / (p0 + p1 + p2)
			p0, p1, p2 = p0*norm, p1*norm, p2*norm

			world := s0.v.world.Mul(p0).Add(s1.v.world.Mul(p1)).Add(s2.v.world.Mul(p2))
			normal := s0.v.normal.Mul(p0).Add(s1.v.normal.Mul(p1)).Add(s2.v.normal.Mul(p2))

			rgb := p.fragment(u, world, normal)
			depth[row+x] = z

			o := img.PixOffset(x, y)
			img.Pix[o] = toByte(rgb[0])
			img.Pix[o+1] = toByte(rgb[1])
			img.Pix[o+2] = toByte(rgb[2])
			img.Pix[o+3] = 0xff
		}
	}
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
