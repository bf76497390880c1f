package fx

import "github.com/chewxy/math32"

// Vec2 is a two-component float32 vector with shader layout.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a three-component float32 vector.
// It occupies 12 bytes; packed layouts pad it to 16 where the shader expects vec3.
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 is a four-component float32 vector.
type Vec4 struct {
	X, Y, Z, W float32
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// V4 is a convenience function to create a Vec4.
func V4(x, y, z, w float32) Vec4 { return Vec4{X: x, Y: y, Z: z, W: w} }

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z} }

// Sub returns the difference of two vectors.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z} }

// Mul returns the vector scaled by s.
func (v Vec3) Mul(s float32) Vec3 { return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s} }

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float32 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the length of the vector.
func (v Vec3) Length() float32 { return math32.Sqrt(v.Dot(v)) }

// Normalize returns a unit vector, or the zero vector if v has zero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Vec4 extends v with w.
func (v Vec3) Vec4(w float32) Vec4 { return Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w} }

// Mul returns the vector scaled by s.
func (v Vec4) Mul(s float32) Vec4 { return Vec4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, W: v.W * s} }

// Vec3 drops the w component.
func (v Vec4) Vec3() Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// Slice returns the components in order.
func (v Vec2) Slice() []float32 { return []float32{v.X, v.Y} }

// Slice returns the components in order.
func (v Vec3) Slice() []float32 { return []float32{v.X, v.Y, v.Z} }

// Slice returns the components in order.
func (v Vec4) Slice() []float32 { return []float32{v.X, v.Y, v.Z, v.W} }
