package software

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"deferred-pbr/core"
	"deferred-pbr/ibl"
	"deferred-pbr/math"
	"deferred-pbr/scene"
)

func constantEnvironment(t *testing.T, value float32) *ibl.EnvironmentAsset {
	t.Helper()
	const w, h = 16, 8
	data := make([]float32, 4*w*h)
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = value, value, value, 1
	}
	pano := scene.NewFloatTexture("constant", w, h, data)
	pano.WrapT = scene.WrapClampToEdge

	env, err := ibl.Precompute(context.Background(), pano, ibl.Options{
		CubeSize:       8,
		PrefilterSize:  8,
		MipLevels:      4,
		SampleCount:    16,
		LUTSize:        8,
		LUTSampleCount: 16,
		Workers:        2,
	})
	require.NoError(t, err)
	return env
}

func sphereObject(material *scene.SurfaceMaterial) *scene.Object {
	mesh := scene.CreateSphere(1, scene.DefaultSphereSegments, scene.DefaultSphereRings)
	return scene.NewObject("sphere", mesh, material)
}

// floorObject is a list-topology quad on the plane y = -1 running from near
// the camera far into the distance.
func floorObject() *scene.Object {
	n := math.Vec3Up
	tangent := math.Vec3Right
	bitangent := math.Vec3Front
	vertex := func(x, z, u, v float32) core.Vertex {
		return core.Vertex{
			Position:  math.NewVec3(x, -1, z),
			Normal:    n,
			UV:        math.NewVec2(u, v),
			Tangent:   tangent,
			Bitangent: bitangent,
		}
	}
	verts := []core.Vertex{
		vertex(-3, 2, 0, 1),
		vertex(3, 2, 1, 1),
		vertex(3, -20, 1, 0),
		vertex(-3, -20, 0, 0),
	}
	mesh := scene.CreateMeshFromData("floor", verts, []uint32{0, 1, 2, 0, 2, 3}, scene.TriangleList)
	return scene.NewObject("floor", mesh, scene.DefaultSurfaceMaterial())
}

func newTestBackend(t *testing.T, width, height int, env *ibl.EnvironmentAsset, objects ...*scene.Object) (*Backend, *scene.Camera) {
	t.Helper()
	b, err := New(Options{Width: width, Height: height, Workers: 3})
	require.NoError(t, err)
	require.NoError(t, b.Prepare(env, objects))
	cam := scene.DefaultCamera()
	cam.UpdateAspectRatio(float32(width), float32(height))
	return b, cam
}
