// Package software is a CPU implementation of the deferred pipeline. It
// produces the same G-buffer, HDR target and presented image as the OpenGL
// backend and serves headless rendering and tests.
package software

import (
	"context"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"go.uber.org/zap"

	"deferred-pbr/core"
	"deferred-pbr/ibl"
	"deferred-pbr/internal/logger"
	"deferred-pbr/internal/parallel"
	"deferred-pbr/math"
	"deferred-pbr/renderer"
	"deferred-pbr/scene"
	"deferred-pbr/shading"
)

const bandRows = 16

type Options struct {
	Width, Height int
	Workers       int // < 1 selects GOMAXPROCS
}

// Backend implements renderer.Backend.
type Backend struct {
	viewport core.Viewport
	raster   Rasterizer
	workers  int

	gbuf *GBuffer
	hdr  []math.Vec3
	ldr  *image.RGBA

	env      *ibl.EnvironmentAsset
	prepared map[*scene.Mesh]struct{}
	state    renderer.FrameState
}

var _ renderer.Backend = (*Backend)(nil)

func New(opts Options) (*Backend, error) {
	gbuf, err := NewGBuffer(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	return &Backend{
		viewport: core.Viewport{Width: opts.Width, Height: opts.Height},
		raster:   Rasterizer{Width: opts.Width, Height: opts.Height},
		workers:  parallel.Workers(opts.Workers),
		gbuf:     gbuf,
		hdr:      make([]math.Vec3, opts.Width*opts.Height),
		ldr:      image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		prepared: make(map[*scene.Mesh]struct{}),
	}, nil
}

func (b *Backend) Viewport() core.Viewport {
	return b.viewport
}

// Prepare validates the environment and every mesh and material. Nothing is
// copied; the CPU passes read the scene data in place.
func (b *Backend) Prepare(env *ibl.EnvironmentAsset, objects []*scene.Object) error {
	if env == nil || env.Environment == nil || env.Prefiltered == nil || env.BRDF == nil {
		return core.NewPipelineConfigError("environment", "incomplete environment asset")
	}
	for _, obj := range objects {
		if err := obj.Mesh.ValidateLayout(); err != nil {
			return err
		}
		if err := obj.Material.Validate(); err != nil {
			return err
		}
		b.prepared[obj.Mesh] = struct{}{}
	}
	b.env = env
	logger.Log.Debug("software backend prepared",
		zap.Int("meshes", len(b.prepared)),
		zap.Int("workers", b.workers))
	return nil
}

// GBuffer exposes the attachments written by the last geometry pass.
func (b *Backend) GBuffer() *GBuffer {
	return b.gbuf
}

// HDR returns the linear color at (x, y) of the HDR target.
func (b *Backend) HDR(x, y int) math.Vec3 {
	return b.hdr[y*b.viewport.Width+x]
}

// objectVertices holds one object's vertices in world and clip space.
type objectVertices struct {
	material  *scene.SurfaceMaterial
	position  []math.Vec3
	normal    []math.Vec3
	tangent   []math.Vec3
	bitangent []math.Vec3
	uv        []math.Vec2
}

type draw struct {
	tri    Triangle
	object int
	index  [3]uint32
}

func transformObject(obj *scene.Object, viewProj math.Mat4) (objectVertices, []math.Vec4) {
	n := len(obj.Mesh.Vertices)
	ov := objectVertices{
		material:  obj.Material,
		position:  make([]math.Vec3, n),
		normal:    make([]math.Vec3, n),
		tangent:   make([]math.Vec3, n),
		bitangent: make([]math.Vec3, n),
		uv:        make([]math.Vec2, n),
	}
	clip := make([]math.Vec4, n)
	normalMat := math.NormalMatrix(obj.Model)
	for i, v := range obj.Mesh.Vertices {
		world := obj.Model.Mul4x1(v.Position.Vec4(1))
		ov.position[i] = world.Vec3()
		ov.normal[i] = math.TransformDir(normalMat, v.Normal)
		ov.tangent[i] = math.TransformDir(normalMat, v.Tangent)
		ov.bitangent[i] = math.TransformDir(normalMat, v.Bitangent)
		ov.uv[i] = v.UV
		clip[i] = viewProj.Mul4x1(world)
	}
	return ov, clip
}

// GeometryPass clears the G-buffer and rasterizes every item with a LESS
// depth test. Bands of rows are shaded concurrently; a pixel belongs to one
// band so the depth test needs no locking.
func (b *Backend) GeometryPass(in renderer.GeometryBindings) error {
	if err := b.state.Begin(renderer.PassGeometry); err != nil {
		return err
	}
	b.gbuf.Clear()

	viewProj := in.Projection.Mul4(in.View)
	objects := make([]objectVertices, len(in.Items))
	var draws []draw
	for oi, obj := range in.Items {
		if _, ok := b.prepared[obj.Mesh]; !ok {
			return core.NewRuntimeStateError(renderer.PassGeometry.String(), "mesh %q was not prepared", obj.Mesh.Name)
		}
		ov, clip := transformObject(obj, viewProj)
		objects[oi] = ov
		obj.Mesh.ForEachTriangle(func(i0, i1, i2 uint32) {
			if t, ok := b.raster.Setup([3]math.Vec4{clip[i0], clip[i1], clip[i2]}); ok {
				draws = append(draws, draw{tri: t, object: oi, index: [3]uint32{i0, i1, i2}})
			}
		})
	}

	return parallel.Bands(context.Background(), b.workers, b.viewport.Height, bandRows, func(y0, y1 int) {
		for i := range draws {
			d := &draws[i]
			if !d.tri.Overlaps(y0, y1) {
				continue
			}
			ov := &objects[d.object]
			d.tri.Scan(y0, y1, func(f Fragment) {
				b.writeFragment(ov, d.index, f)
			})
		}
	})
}

func interpolate3(attr []math.Vec3, idx [3]uint32, w [3]float32) math.Vec3 {
	return attr[idx[0]].Mul(w[0]).Add(attr[idx[1]].Mul(w[1])).Add(attr[idx[2]].Mul(w[2]))
}

func (b *Backend) writeFragment(ov *objectVertices, idx [3]uint32, f Fragment) {
	g := b.gbuf
	i := g.index(f.X, f.Y)
	if f.Depth < 0 || f.Depth >= g.Depth[i] {
		return
	}
	w := f.Weights
	uv := ov.uv[idx[0]].Mul(w[0]).Add(ov.uv[idx[1]].Mul(w[1])).Add(ov.uv[idx[2]].Mul(w[2]))
	mat := ov.material

	N := math.Normalize(interpolate3(ov.normal, idx, w))
	T := math.Normalize(interpolate3(ov.tangent, idx, w))
	B := math.Normalize(interpolate3(ov.bitangent, idx, w))
	tn := mat.Normal.SampleBilinear(uv[0], uv[1])
	n := T.Mul(tn[0]*2 - 1).Add(B.Mul(tn[1]*2 - 1)).Add(N.Mul(tn[2]*2 - 1))

	g.Depth[i] = f.Depth
	g.Position[i] = interpolate3(ov.position, idx, w)
	g.BaseColor[i] = mat.BaseColor.SampleBilinear(uv[0], uv[1]).Vec3()
	g.Normal[i] = math.Normalize(n)
	g.MetallicRoughness[i] = shading.PackMetallicRoughness(
		mat.Metallic.SampleBilinear(uv[0], uv[1])[0],
		mat.Roughness.SampleBilinear(uv[0], uv[1])[0],
	)
}

// LightingPass resolves every covered pixel into the HDR target and clears
// the rest to black.
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
	var env shading.Environment
	if in.Environment != nil {
		env = in.Environment
	}

	w := b.viewport.Width
	return parallel.Bands(context.Background(), b.workers, b.viewport.Height, bandRows, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				if !b.gbuf.Covered(x, y) {
					b.hdr[i] = math.Vec3{}
					continue
				}
				b.hdr[i] = shading.Shade(b.gbuf.Surface(x, y), in.CameraPosition, in.Lights, env)
			}
		}
	})
}

func (b *Backend) checkEnvironment(p renderer.Pass, env *ibl.EnvironmentAsset) error {
	if env != nil && env != b.env {
		return core.NewRuntimeStateError(p.String(), "environment was not prepared")
	}
	return nil
}

// SkyboxPass fills the pixels the geometry pass left empty with the
// environment seen along each pixel's view ray. Covered pixels fail the
// LEQUAL test against depth 1 for any depth below it and keep their color.
func (b *Backend) SkyboxPass(in renderer.SkyboxBindings) error {
	if err := b.state.Begin(renderer.PassSkybox); err != nil {
		return err
	}
	if in.Environment == nil {
		return core.NewPipelineConfigError("skybox", "no environment bound")
	}
	if err := b.checkEnvironment(renderer.PassSkybox, in.Environment); err != nil {
		return err
	}
	if in.Viewport != b.viewport {
		return core.NewPipelineConfigError("skybox", "viewport %dx%d does not match target %dx%d",
			in.Viewport.Width, in.Viewport.Height, b.viewport.Width, b.viewport.Height)
	}

	invViewProj := in.Projection.Mul4(in.View).Inv()
	w, h := b.viewport.Width, b.viewport.Height
	return parallel.Bands(context.Background(), b.workers, h, bandRows, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			ndcY := 1 - 2*(float32(y)+0.5)/float32(h)
			for x := 0; x < w; x++ {
				if b.gbuf.Covered(x, y) {
					continue
				}
				ndcX := 2*(float32(x)+0.5)/float32(w) - 1
				p := invViewProj.Mul4x1(math.Vec4{ndcX, ndcY, 1, 1})
				dir := math.Normalize(math.DivScalar(p.Vec3(), p[3]))
				b.hdr[y*w+x] = in.Environment.SampleEnvironment(dir)
			}
		}
	})
}

// Present tone maps and gamma encodes the HDR target into the 8-bit image.
func (b *Backend) Present(in renderer.PresentBindings) error {
	if err := b.state.Begin(renderer.PassPresent); err != nil {
		return err
	}
	w := b.viewport.Width
	return parallel.Bands(context.Background(), b.workers, b.viewport.Height, bandRows, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := b.ldr.Pix[y*b.ldr.Stride:]
			for x := 0; x < w; x++ {
				c := shading.Present(b.hdr[y*w+x], in.Exposure)
				row[x*4+0] = shading.ToByte(c[0])
				row[x*4+1] = shading.ToByte(c[1])
				row[x*4+2] = shading.ToByte(c[2])
				row[x*4+3] = 255
			}
		}
	})
}

// ReadPixels copies the last presented image.
func (b *Backend) ReadPixels() (*image.RGBA, error) {
	if !b.state.Presented() {
		return nil, core.NewRuntimeStateError(renderer.PassPresent.String(), "no frame has been presented")
	}
	return clone.AsRGBA(b.ldr), nil
}

func (b *Backend) Destroy() {
	b.gbuf = nil
	b.hdr = nil
	b.ldr = nil
	b.env = nil
	b.prepared = nil
}
