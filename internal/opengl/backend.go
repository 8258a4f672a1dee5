// Package opengl is the GPU backend of the deferred pipeline. All calls must
// come from the goroutine that owns the current OpenGL 4.1 context.
package opengl

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"deferred-pbr/core"
	"deferred-pbr/ibl"
	"deferred-pbr/internal/logger"
	"deferred-pbr/math"
	"deferred-pbr/renderer"
	"deferred-pbr/scene"
)

// Texture units per pass.
const (
	unitMaterial   = 0 // geometry: base color, normal, metallic, roughness
	unitGBuffer    = 0 // lighting: position, base color, normal, packed, depth
	unitPrefilter  = 5
	unitBRDF       = 6
	unitEnvCube    = 0 // skybox
	unitSkyDepth   = 1
	unitHDRPresent = 0
)

type Options struct {
	Width, Height int
	// ShaderDir optionally overrides built-in programs with <name>.vert and
	// <name>.frag files.
	ShaderDir string
	// Screen reports the default framebuffer size. When nil the presented
	// image is only kept off-screen.
	Screen func() (width, height int)
}

// Backend implements renderer.Backend with OpenGL.
type Backend struct {
	opts     Options
	viewport core.Viewport

	shaders  *ShaderLibrary
	gbuffer  *GBuffer
	target   *HDRTarget
	lights   *lightBlock
	skyCube  *skyboxCube
	programs map[string]*uniforms

	envAsset  *ibl.EnvironmentAsset
	env       *Environment
	meshes    map[*scene.Mesh]*GPUMesh
	materials map[*scene.SurfaceMaterial]*gpuMaterial

	state renderer.FrameState
}

var _ renderer.Backend = (*Backend)(nil)

// New initialises OpenGL and allocates the render targets. The window's
// context must be current.
func New(opts Options) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Log.Info("opengl initialised",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	b := &Backend{
		opts:      opts,
		viewport:  core.Viewport{Width: opts.Width, Height: opts.Height},
		programs:  make(map[string]*uniforms),
		meshes:    make(map[*scene.Mesh]*GPUMesh),
		materials: make(map[*scene.SurfaceMaterial]*gpuMaterial),
	}
	if err := b.init(); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

func (b *Backend) init() error {
	var err error
	if b.shaders, err = NewShaderLibrary(b.opts.ShaderDir); err != nil {
		return err
	}
	for _, name := range []string{ShaderGBuffer, ShaderPBRResolve, ShaderSkybox, ShaderPresent} {
		prog, err := b.shaders.Program(name)
		if err != nil {
			return err
		}
		b.programs[name] = newUniforms(prog)
	}
	if b.gbuffer, err = NewGBuffer(b.opts.Width, b.opts.Height); err != nil {
		return err
	}
	if b.target, err = NewHDRTarget(b.opts.Width, b.opts.Height); err != nil {
		return err
	}
	b.lights = newLightBlock()
	b.skyCube = newSkyboxCube()
	b.bindSamplers()
	return nil
}

// bindSamplers assigns each sampler uniform its fixed texture unit.
func (b *Backend) bindSamplers() {
	set := func(program string, units map[string]int32) {
		u := b.programs[program]
		gl.UseProgram(u.prog)
		for name, unit := range units {
			gl.Uniform1i(u.loc(name), unit)
		}
	}
	set(ShaderGBuffer, map[string]int32{
		"baseColorTex": unitMaterial,
		"normalTex":    unitMaterial + 1,
		"metallicTex":  unitMaterial + 2,
		"roughnessTex": unitMaterial + 3,
	})
	set(ShaderPBRResolve, map[string]int32{
		"gPosition":          unitGBuffer + gPosition,
		"gBaseColor":         unitGBuffer + gBaseColor,
		"gNormal":            unitGBuffer + gNormal,
		"gMetallicRoughness": unitGBuffer + gMetallicRoughness,
		"gDepth":             unitGBuffer + int32(len(gBufferAttachments)),
		"prefiltered":        unitPrefilter,
		"brdfLUT":            unitBRDF,
	})
	set(ShaderSkybox, map[string]int32{
		"environment": unitEnvCube,
		"gDepth":      unitSkyDepth,
	})
	set(ShaderPresent, map[string]int32{"hdrBuffer": unitHDRPresent})
	gl.UseProgram(0)

	resolve := b.programs[ShaderPBRResolve].prog
	idx := gl.GetUniformBlockIndex(resolve, gl.Str("LightBlock\x00"))
	gl.UniformBlockBinding(resolve, idx, lightBlockBinding)
}

func (b *Backend) Viewport() core.Viewport {
	return b.viewport
}

// Prepare uploads the environment and every distinct mesh and material.
func (b *Backend) Prepare(env *ibl.EnvironmentAsset, objects []*scene.Object) error {
	gpuEnv, err := UploadEnvironment(env)
	if err != nil {
		return err
	}
	if b.env != nil {
		b.env.Destroy()
	}
	b.env, b.envAsset = gpuEnv, env

	for _, obj := range objects {
		if _, ok := b.meshes[obj.Mesh]; !ok {
			gpu, err := UploadMesh(obj.Mesh)
			if err != nil {
				return err
			}
			b.meshes[obj.Mesh] = gpu
		}
		if _, ok := b.materials[obj.Material]; !ok {
			if err := obj.Material.Validate(); err != nil {
				return err
			}
			gpu, err := uploadMaterial(obj.Material)
			if err != nil {
				return err
			}
			b.materials[obj.Material] = gpu
		}
	}
	logger.Log.Debug("opengl backend prepared",
		zap.Int("meshes", len(b.meshes)),
		zap.Int("materials", len(b.materials)),
		zap.Float32("max_lod", b.env.MaxLod))
	return nil
}

func (b *Backend) checkEnvironment(p renderer.Pass, env *ibl.EnvironmentAsset) error {
	if env == nil {
		return core.NewPipelineConfigError(p.String(), "no environment bound")
	}
	if env != b.envAsset || b.env == nil {
		return core.NewRuntimeStateError(p.String(), "environment was not prepared")
	}
	return nil
}

// GeometryPass clears the G-buffer and draws every item with depth LESS.
func (b *Backend) GeometryPass(in renderer.GeometryBindings) error {
	if err := b.state.Begin(renderer.PassGeometry); err != nil {
		return err
	}
	b.gbuffer.Bind()
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)

	u := b.programs[ShaderGBuffer]
	gl.UseProgram(u.prog)
	gl.UniformMatrix4fv(u.loc("view"), 1, false, &in.View[0])
	gl.UniformMatrix4fv(u.loc("projection"), 1, false, &in.Projection[0])

	for _, obj := range in.Items {
		mesh, ok := b.meshes[obj.Mesh]
		if !ok {
			return core.NewRuntimeStateError(renderer.PassGeometry.String(), "mesh %q was not prepared", obj.Mesh.Name)
		}
		mat, ok := b.materials[obj.Material]
		if !ok {
			return core.NewRuntimeStateError(renderer.PassGeometry.String(), "material %q was not prepared", obj.Material.Name)
		}
		model := obj.Model
		normal := math.NormalMatrix(model)
		gl.UniformMatrix4fv(u.loc("model"), 1, false, &model[0])
		gl.UniformMatrix3fv(u.loc("normalMatrix"), 1, false, &normal[0])
		mat.bind(unitMaterial)
		mesh.Draw()
	}
	return nil
}

// LightingPass resolves the G-buffer into the HDR target with one
// fullscreen draw. Empty pixels are written black.
func (b *Backend) LightingPass(in renderer.LightingBindings) error {
	if err := b.state.Begin(renderer.PassLighting); err != nil {
		return err
	}
	if len(in.Lights) > renderer.MaxPointLights {
		return core.NewPipelineConfigError("lights", "%d lights exceed the limit of %d", len(in.Lights), renderer.MaxPointLights)
	}
	if err := b.checkEnvironment(renderer.PassLighting, in.Environment); err != nil {
		return err
	}

	b.target.Bind()
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)

	u := b.programs[ShaderPBRResolve]
	gl.UseProgram(u.prog)
	b.gbuffer.BindTextures(unitGBuffer)
	gl.ActiveTexture(gl.TEXTURE0 + unitPrefilter)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, b.env.PrefilterCube)
	gl.ActiveTexture(gl.TEXTURE0 + unitBRDF)
	gl.BindTexture(gl.TEXTURE_2D, b.env.BRDFLUT)

	cam := in.CameraPosition
	gl.Uniform3f(u.loc("cameraPos"), cam[0], cam[1], cam[2])
	gl.Uniform1f(u.loc("maxLod"), b.env.MaxLod)
	b.lights.upload(in.Lights)

	b.target.DrawFullscreen()
	return nil
}

// SkyboxPass draws the environment cube into the HDR target. Depth testing
// is off; the fragment stage discards wherever the G-buffer holds geometry.
func (b *Backend) SkyboxPass(in renderer.SkyboxBindings) error {
	if err := b.state.Begin(renderer.PassSkybox); err != nil {
		return err
	}
	if err := b.checkEnvironment(renderer.PassSkybox, in.Environment); err != nil {
		return err
	}
	if in.Viewport != b.viewport {
		return core.NewPipelineConfigError("skybox", "viewport %dx%d does not match target %dx%d",
			in.Viewport.Width, in.Viewport.Height, b.viewport.Width, b.viewport.Height)
	}

	b.target.Use()
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	u := b.programs[ShaderSkybox]
	gl.UseProgram(u.prog)
	gl.UniformMatrix4fv(u.loc("view"), 1, false, &in.View[0])
	gl.UniformMatrix4fv(u.loc("projection"), 1, false, &in.Projection[0])
	gl.Uniform2f(u.loc("viewport"), float32(in.Viewport.Width), float32(in.Viewport.Height))
	gl.ActiveTexture(gl.TEXTURE0 + unitEnvCube)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, b.env.EnvCube)
	gl.ActiveTexture(gl.TEXTURE0 + unitSkyDepth)
	gl.BindTexture(gl.TEXTURE_2D, b.gbuffer.DepthTex)

	b.skyCube.draw()
	return nil
}

// Present tone maps the HDR target into the presentation buffer and, with a
// visible window, copies it to the screen.
func (b *Backend) Present(in renderer.PresentBindings) error {
	if err := b.state.Begin(renderer.PassPresent); err != nil {
		return err
	}
	b.target.UseLDR()
	gl.Disable(gl.DEPTH_TEST)

	u := b.programs[ShaderPresent]
	gl.UseProgram(u.prog)
	gl.Uniform1f(u.loc("exposure"), in.Exposure)
	gl.ActiveTexture(gl.TEXTURE0 + unitHDRPresent)
	gl.BindTexture(gl.TEXTURE_2D, b.target.ColorTex)
	b.target.DrawFullscreen()

	if b.opts.Screen != nil {
		w, h := b.opts.Screen()
		b.target.BlitToScreen(int32(w), int32(h))
	}
	return nil
}

func (b *Backend) ReadPixels() (*image.RGBA, error) {
	if !b.state.Presented() {
		return nil, core.NewRuntimeStateError(renderer.PassPresent.String(), "no frame has been presented")
	}
	return b.target.ReadPixels(), nil
}

// Destroy frees every GPU resource the backend created.
func (b *Backend) Destroy() {
	for mesh, gpu := range b.meshes {
		gpu.Destroy()
		delete(b.meshes, mesh)
	}
	for mat, gpu := range b.materials {
		gpu.destroy()
		delete(b.materials, mat)
	}
	if b.env != nil {
		b.env.Destroy()
		b.env = nil
	}
	if b.skyCube != nil {
		b.skyCube.destroy()
	}
	if b.lights != nil {
		b.lights.destroy()
	}
	if b.target != nil {
		b.target.Destroy()
	}
	if b.gbuffer != nil {
		b.gbuffer.Destroy()
	}
	if b.shaders != nil {
		b.shaders.Destroy()
	}
}
