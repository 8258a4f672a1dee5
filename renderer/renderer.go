package renderer

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"deferred-pbr/core"
	"deferred-pbr/ibl"
	"deferred-pbr/internal/logger"
	"deferred-pbr/scene"
)

// Scene is everything a frame draws.
type Scene struct {
	Camera      *scene.Camera
	Lights      []scene.PointLight
	Objects     []*scene.Object
	Environment *ibl.EnvironmentAsset
}

type Options struct {
	Exposure float32
}

func DefaultOptions() Options {
	return Options{Exposure: 1}
}

// Orchestrator drives one backend through geometry, lighting, skybox and
// present for every frame. It is single-threaded and frames never overlap.
type Orchestrator struct {
	backend Backend
	scene   Scene
	opts    Options
	state   FrameState
	frames  uint64
}

// New validates the scene, fits the camera to the backend viewport and
// uploads the environment and objects.
func New(backend Backend, sc Scene, opts Options) (*Orchestrator, error) {
	if backend == nil {
		return nil, core.NewPipelineConfigError("renderer", "no backend")
	}
	if sc.Camera == nil {
		return nil, core.NewPipelineConfigError("renderer", "no camera")
	}
	if sc.Environment == nil {
		return nil, core.NewPipelineConfigError("renderer", "no environment")
	}
	if err := validateLights(sc.Lights); err != nil {
		return nil, err
	}
	for _, obj := range sc.Objects {
		if obj == nil || obj.Mesh == nil || obj.Material == nil {
			return nil, core.NewPipelineConfigError("renderer", "object without mesh or material")
		}
	}

	vp := backend.Viewport()
	sc.Camera.UpdateAspectRatio(float32(vp.Width), float32(vp.Height))

	if err := backend.Prepare(sc.Environment, sc.Objects); err != nil {
		return nil, fmt.Errorf("prepare backend: %w", err)
	}
	logger.Log.Info("renderer ready",
		zap.Int("width", vp.Width),
		zap.Int("height", vp.Height),
		zap.Int("objects", len(sc.Objects)),
		zap.Int("lights", len(sc.Lights)))

	return &Orchestrator{backend: backend, scene: sc, opts: opts}, nil
}

func validateLights(lights []scene.PointLight) error {
	if len(lights) > MaxPointLights {
		return core.NewPipelineConfigError("lights", "%d lights exceed the limit of %d", len(lights), MaxPointLights)
	}
	return nil
}

func (o *Orchestrator) Camera() *scene.Camera {
	return o.scene.Camera
}

// SetOrbit forwards to the camera, which clamps and wraps the angles.
func (o *Orchestrator) SetOrbit(theta, phi float32) {
	o.scene.Camera.SetOrbit(theta, phi)
}

// SetLights replaces the ordered light list.
func (o *Orchestrator) SetLights(lights []scene.PointLight) error {
	if err := validateLights(lights); err != nil {
		return err
	}
	o.scene.Lights = append([]scene.PointLight(nil), lights...)
	return nil
}

func (o *Orchestrator) SetExposure(exposure float32) {
	o.opts.Exposure = exposure
}

// RenderFrame runs the four passes in order. A failing pass aborts the frame.
func (o *Orchestrator) RenderFrame() error {
	cam := o.scene.Camera
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()

	if err := o.run(PassGeometry, func() error {
		return o.backend.GeometryPass(GeometryBindings{View: view, Projection: proj, Items: o.scene.Objects})
	}); err != nil {
		return err
	}
	if err := o.run(PassLighting, func() error {
		return o.backend.LightingPass(LightingBindings{
			CameraPosition: cam.Position,
			Lights:         o.scene.Lights,
			Environment:    o.scene.Environment,
		})
	}); err != nil {
		return err
	}
	if err := o.run(PassSkybox, func() error {
		return o.backend.SkyboxPass(SkyboxBindings{
			View:        cam.SkyboxViewMatrix(),
			Projection:  proj,
			Viewport:    o.backend.Viewport(),
			Environment: o.scene.Environment,
		})
	}); err != nil {
		return err
	}
	if err := o.run(PassPresent, func() error {
		return o.backend.Present(PresentBindings{Exposure: o.opts.Exposure})
	}); err != nil {
		return err
	}

	o.frames++
	if o.frames == 1 {
		logger.Log.Debug("first frame presented")
	}
	return nil
}

func (o *Orchestrator) run(p Pass, fn func() error) error {
	if err := o.state.Begin(p); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return fmt.Errorf("%s pass: %w", p, err)
	}
	return nil
}

// Frames counts presented frames.
func (o *Orchestrator) Frames() uint64 {
	return o.frames
}

// Screenshot returns the last presented frame, top row first.
func (o *Orchestrator) Screenshot() (*image.RGBA, error) {
	if !o.state.Presented() {
		return nil, core.NewRuntimeStateError(PassPresent.String(), "no frame has been presented")
	}
	img, err := o.backend.ReadPixels()
	if err != nil {
		return nil, fmt.Errorf("read pixels: %w", err)
	}
	return img, nil
}

// Close releases the backend's resources.
func (o *Orchestrator) Close() {
	o.backend.Destroy()
}
