package gr

import "github.com/chewxy/math32"

// Mat3 is a column-major 3x3 matrix, the layout mat3 uniforms expect.
type Mat3 [9]float32

// Mat4 is a column-major 4x4 matrix, the layout mat4 uniforms expect.
type Mat4 [16]float32

func IdentityMat3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func IdentityMat4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func TranslateMat4(x, y, z float32) Mat4 {
	m := IdentityMat4()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

func ScaleMat4(x, y, z float32) Mat4 {
	m := IdentityMat4()
	m[0] = x
	m[5] = y
	m[10] = z
	return m
}

// RotateXMat4 rotates by angle radians about the X axis.
func RotateXMat4(angle float32) Mat4 {
	s, c := math32.Sin(angle), math32.Cos(angle)
	m := IdentityMat4()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

func RotateYMat4(angle float32) Mat4 {
	s, c := math32.Sin(angle), math32.Cos(angle)
	m := IdentityMat4()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

func RotateZMat4(angle float32) Mat4 {
	s, c := math32.Sin(angle), math32.Cos(angle)
	m := IdentityMat4()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// OrthoMat4 maps the box [left,right]x[bottom,top]x[-near,-far] to clip space.
func OrthoMat4(left, right, bottom, top, near, far float32) Mat4 {
	var m Mat4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	m[15] = 1
	return m
}

// PerspectiveMat4 builds a right-handed projection with vertical field of
// view fovY radians.
func PerspectiveMat4(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// MulMat4 returns a*b (column-major, vectors on the right).
func MulMat4(a, b Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			r[c*4+row] =
				a[0*4+row]*b[c*4+0] +
					a[1*4+row]*b[c*4+1] +
					a[2*4+row]*b[c*4+2] +
					a[3*4+row]*b[c*4+3]
		}
	}
	return r
}

// Mat3 returns the upper-left 3x3 block, e.g. for a normal matrix.
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Apply transforms the point (x, y, z, 1) and returns its x, y, z.
func (m Mat4) Apply(x, y, z float32) (float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14]
}
