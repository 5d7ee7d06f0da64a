// Package camera holds the view math for the model viewer: column-major
// matrices built in closed form, and the orbit camera state they are fed from.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective builds a right-handed projection matrix mapping view-space
// depth [-near, -far] to clip-space [-1, 1]. fovy is in radians.
func Perspective(fovy, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / math32.Tan(fovy/2)
	nf := 1 / (near - far)
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// LookAt builds a view matrix placing the camera at eye, facing center
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up.Normalize()).Normalize()
	u := s.Cross(f)

	return mgl32.Mat4{
		s[0], u[0], -f[0], 0,
		s[1], u[1], -f[1], 0,
		s[2], u[2], -f[2], 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Multiply returns a·b
func Multiply(a, b mgl32.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// BuildModel returns Rx(pitch)·Ry(yaw)·S(scale) without multiplying
func BuildModel(yaw, pitch, scale float32) mgl32.Mat4 {
	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)
	return mgl32.Mat4{
		cy * scale, sp * sy * scale, -cp * sy * scale, 0,
		0, cp * scale, sp * scale, 0,
		sy * scale, -sp * cy * scale, cp * cy * scale, 0,
		0, 0, 0, 1,
	}
}

// BuildNormal returns the rotation part of BuildModel. The model scale is
// uniform, so the rotation alone transforms normals correctly.
func BuildNormal(yaw, pitch float32) mgl32.Mat3 {
	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)
	return mgl32.Mat3{
		cy, sp * sy, -cp * sy,
		0, cp, sp,
		sy, -sp * cy, cp * cy,
	}
}
