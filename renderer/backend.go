package renderer

import (
	"image"

	"deferred-pbr/core"
	"deferred-pbr/ibl"
	"deferred-pbr/scene"
)

// Backend executes the fixed pass sequence. The OpenGL backend renders on the
// GPU; the software backend implements the same pipeline on the CPU.
type Backend interface {
	// Viewport is the fixed resolution of the G-buffer and HDR target.
	Viewport() core.Viewport
	// Prepare uploads the environment and every object's mesh and material.
	// It runs once, before the first frame.
	Prepare(env *ibl.EnvironmentAsset, objects []*scene.Object) error

	GeometryPass(GeometryBindings) error
	LightingPass(LightingBindings) error
	SkyboxPass(SkyboxBindings) error
	Present(PresentBindings) error

	// ReadPixels returns the last presented frame, top row first.
	ReadPixels() (*image.RGBA, error)
	Destroy()
}
