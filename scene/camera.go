package scene

import (
	"deferred-pbr/math"
)

const (
	MinPolarDegrees = 20
	MaxPolarDegrees = 160
)

// Camera orbits the origin at a fixed radius. Its position is derived from a
// polar angle Theta (from +Y) and an azimuth Phi (from +Z towards +X), both in
// degrees; the matrices are pure functions of the fields.
type Camera struct {
	Position    math.Vec3
	Target      math.Vec3
	Up          math.Vec3
	FOV         float32 // vertical, radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	Radius float32
	Theta  float32
	Phi    float32
}

// NewOrbitCamera places a camera on a sphere of the given radius around the
// origin at the default orbit (theta 90, phi 0).
func NewOrbitCamera(radius, fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	c := &Camera{
		Target:      math.Vec3Zero,
		Up:          math.Vec3Up,
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		Radius:      radius,
		Theta:       90,
		Phi:         0,
	}
	c.updatePosition()
	return c
}

// DefaultCamera matches the demo setup: radius 4, 45° fov, 16:9.
func DefaultCamera() *Camera {
	return NewOrbitCamera(4, math.Radians(45), 1440.0/810.0, 0.1, 100)
}

// SetOrbit moves the camera to the given angles. Theta is clamped to
// [20, 160] to keep away from the poles where the up vector degenerates; phi
// is wrapped into (-180, 180]. A non-finite angle leaves that angle unchanged.
func (c *Camera) SetOrbit(theta, phi float32) {
	if math.IsFiniteScalar(theta) {
		c.Theta = math.Clamp(theta, MinPolarDegrees, MaxPolarDegrees)
	}
	if math.IsFiniteScalar(phi) {
		c.Phi = math.WrapDegrees(phi)
	}
	c.updatePosition()
}

// Orbit offsets the current angles.
func (c *Camera) Orbit(deltaTheta, deltaPhi float32) {
	c.SetOrbit(c.Theta+deltaTheta, c.Phi+deltaPhi)
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

func (c *Camera) updatePosition() {
	c.Position = c.Target.Add(math.Spherical(c.Theta, c.Phi, c.Radius))
}

func (c *Camera) ViewMatrix() math.Mat4 {
	return math.Mat4LookAt(c.Position, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

// SkyboxViewMatrix is the view matrix with its translation removed.
func (c *Camera) SkyboxViewMatrix() math.Mat4 {
	return math.StripTranslation(c.ViewMatrix())
}

func (c *Camera) ViewProjectionMatrix() math.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}
