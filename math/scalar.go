package math

import (
	"github.com/chewxy/math32"
)

const Pi = math32.Pi

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180 / Pi
}

func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Saturate clamps x to [0, 1].
func Saturate(x float32) float32 {
	return Clamp(x, 0, 1)
}

// Mix is GLSL's mix for scalars.
func Mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// WrapDegrees maps an angle onto the half-open interval (-180, 180].
// -180 itself maps to 180 so every direction has exactly one representation.
func WrapDegrees(deg float32) float32 {
	w := math32.Mod(deg, 360)
	if w <= -180 {
		w += 360
	} else if w > 180 {
		w -= 360
	}
	return w
}

// IsFiniteScalar reports whether x is neither NaN nor infinite.
func IsFiniteScalar(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// Spherical converts a polar angle theta (measured from +Y) and an azimuth phi
// (measured from +Z towards +X), both in degrees, into a point on a sphere of
// the given radius centred at the origin.
func Spherical(thetaDeg, phiDeg, radius float32) Vec3 {
	theta := Radians(thetaDeg)
	phi := Radians(phiDeg)
	sinTheta, cosTheta := math32.Sincos(theta)
	sinPhi, cosPhi := math32.Sincos(phi)
	return Vec3{
		sinTheta * sinPhi * radius,
		cosTheta * radius,
		sinTheta * cosPhi * radius,
	}
}
