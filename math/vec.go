package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vector and matrix types are mgl32's column-major, column-vector types so
// they can be handed to OpenGL without conversion.
type (
	Vec2 = mgl32.Vec2
	Vec3 = mgl32.Vec3
	Vec4 = mgl32.Vec4
	Mat3 = mgl32.Mat3
	Mat4 = mgl32.Mat4
)

var (
	Vec3Zero  = Vec3{0, 0, 0}
	Vec3One   = Vec3{1, 1, 1}
	Vec3Up    = Vec3{0, 1, 0}
	Vec3Down  = Vec3{0, -1, 0}
	Vec3Right = Vec3{1, 0, 0}
	Vec3Left  = Vec3{-1, 0, 0}
	Vec3Front = Vec3{0, 0, 1}
	Vec3Back  = Vec3{0, 0, -1}
)

func NewVec2(x, y float32) Vec2 {
	return Vec2{x, y}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// Splat returns a vector with all three components set to s.
func Splat(s float32) Vec3 {
	return Vec3{s, s, s}
}

// MulVec multiplies two vectors component-wise.
func MulVec(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// DivScalar divides every component of v by s.
func DivScalar(v Vec3, s float32) Vec3 {
	return v.Mul(1 / s)
}

// Normalize returns v scaled to unit length, or v unchanged when it has zero
// length (mgl32's Normalize would produce NaNs).
func Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l > 0 {
		return v.Mul(1 / l)
	}
	return v
}

// Lerp interpolates between a and b.
func Lerp(a, b Vec3, t float32) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Reflect mirrors the incident vector i about the normal n (GLSL reflect).
func Reflect(i, n Vec3) Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

// MaxComponent returns the largest component of v.
func MaxComponent(v Vec3) float32 {
	return math32.Max(v[0], math32.Max(v[1], v[2]))
}

// IsFinite reports whether every component of v is neither NaN nor infinite.
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
