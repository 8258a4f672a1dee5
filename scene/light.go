package scene

import "deferred-pbr/math"

// PointLight is an isotropic light. Intensity is RGB radiant intensity; the
// radiance reaching a point falls off with the inverse square of distance.
type PointLight struct {
	Position  math.Vec3
	Intensity math.Vec3
}

// DefaultLights returns the four-light rig used by the demo: one light per
// quadrant of the z = 10 plane.
func DefaultLights() []PointLight {
	intensity := math.Splat(300)
	return []PointLight{
		{Position: math.NewVec3(-10, 10, 10), Intensity: intensity},
		{Position: math.NewVec3(10, 10, 10), Intensity: intensity},
		{Position: math.NewVec3(-10, -10, 10), Intensity: intensity},
		{Position: math.NewVec3(10, -10, 10), Intensity: intensity},
	}
}
