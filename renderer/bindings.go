package renderer

import (
	"deferred-pbr/core"
	"deferred-pbr/ibl"
	"deferred-pbr/math"
	"deferred-pbr/scene"
)

// MaxPointLights bounds the light list; the GPU backend sizes its uniform
// block with it.
const MaxPointLights = 64

// Each pass receives everything it reads through one of these values.
// Nothing is carried over between passes except the G-buffer and the HDR
// target owned by the backend.

type GeometryBindings struct {
	View       math.Mat4
	Projection math.Mat4
	Items      []*scene.Object
}

type LightingBindings struct {
	CameraPosition math.Vec3
	Lights         []scene.PointLight
	Environment    *ibl.EnvironmentAsset
}

type SkyboxBindings struct {
	View        math.Mat4 // translation removed
	Projection  math.Mat4
	Viewport    core.Viewport
	Environment *ibl.EnvironmentAsset
}

type PresentBindings struct {
	Exposure float32
}
