package fx

import "github.com/chewxy/math32"

// Mat4 is a 4x4 float32 matrix stored column-major, the layout WGSL
// mat4x4<f32> expects in a uniform buffer:
//
//	| m[0] m[4] m[8]  m[12] |
//	| m[1] m[5] m[9]  m[13] |
//	| m[2] m[6] m[10] m[14] |
//	| m[3] m[7] m[11] m[15] |
type Mat4 [16]float32

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate4 creates a translation matrix.
func Translate4(x, y, z float32) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale4 creates a scaling matrix.
func Scale4(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateY4 creates a rotation about the Y axis (angle in radians).
func RotateY4(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// Perspective creates a right-handed perspective projection with a [0,1]
// depth range (fovy in radians).
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovy/2)
	nf := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far * nf, -1,
		0, 0, far * near * nf, 0,
	}
}

// LookAt creates a right-handed view matrix.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Mul returns m * n (n is applied first).
func (m Mat4) Mul(n Mat4) Mat4 {
	var r Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[k*4+row] * n[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// Transform returns m * v.
func (m Mat4) Transform(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Row returns row i as a vector.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{X: m[i], Y: m[4+i], Z: m[8+i], W: m[12+i]}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for col := range 4 {
		for row := range 4 {
			r[row*4+col] = m[col*4+row]
		}
	}
	return r
}
