package scene

import (
	"github.com/chewxy/math32"

	"deferred-pbr/core"
	"deferred-pbr/math"
)

const (
	DefaultSphereSegments = 64
	DefaultSphereRings    = 64
)

// CreateSphere generates a UV sphere as a single triangle strip. Rows are
// walked in alternating directions so consecutive rows share their end
// vertices and no restart index is needed. Tangents and bitangents are the
// analytic longitude and latitude derivatives.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	vertices := make([]core.Vertex, 0, (segments+1)*(rings+1))
	for y := 0; y <= rings; y++ {
		v := float32(y) / float32(rings)
		sinLat, cosLat := math32.Sincos(v * math.Pi)
		for x := 0; x <= segments; x++ {
			u := float32(x) / float32(segments)
			sinLon, cosLon := math32.Sincos(u * 2 * math.Pi)

			normal := math.Vec3{cosLon * sinLat, cosLat, sinLon * sinLat}
			vertices = append(vertices, core.Vertex{
				Position:  normal.Mul(radius),
				Normal:    normal,
				UV:        math.Vec2{u, v},
				Tangent:   math.Vec3{-sinLon, 0, cosLon},
				Bitangent: math.Vec3{cosLon * cosLat, -sinLat, sinLon * cosLat},
			})
		}
	}

	stride := uint32(segments + 1)
	indices := make([]uint32, 0, rings*(segments+1)*2)
	for y := uint32(0); y < uint32(rings); y++ {
		if y%2 == 0 {
			for x := uint32(0); x <= uint32(segments); x++ {
				indices = append(indices, y*stride+x, (y+1)*stride+x)
			}
		} else {
			for x := int(segments); x >= 0; x-- {
				indices = append(indices, (y+1)*stride+uint32(x), y*stride+uint32(x))
			}
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices, TriangleStrip)
}

// CreateScreenQuad is a clip-space quad covering the viewport, drawn as a
// four-vertex strip. UV (0,0) is the bottom-left corner.
func CreateScreenQuad() *Mesh {
	n := math.Vec3Front
	vertices := []core.Vertex{
		{Position: math.Vec3{-1, 1, 0}, Normal: n, UV: math.Vec2{0, 1}},
		{Position: math.Vec3{-1, -1, 0}, Normal: n, UV: math.Vec2{0, 0}},
		{Position: math.Vec3{1, 1, 0}, Normal: n, UV: math.Vec2{1, 1}},
		{Position: math.Vec3{1, -1, 0}, Normal: n, UV: math.Vec2{1, 0}},
	}
	for i := range vertices {
		vertices[i].Tangent = math.Vec3Right
		vertices[i].Bitangent = math.Vec3Up
	}
	return CreateMeshFromData("ScreenQuad", vertices, []uint32{0, 1, 2, 3}, TriangleStrip)
}

// CreateCube generates an axis-aligned cube centred on the origin with
// per-face normals. The skybox draws it with edge length 2.
func CreateCube(size float32) *Mesh {
	s := size / 2

	type face struct {
		normal  math.Vec3
		corners [4]math.Vec3
	}
	faces := []face{
		{math.Vec3Front, [4]math.Vec3{{-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s}}},
		{math.Vec3Back, [4]math.Vec3{{s, -s, -s}, {-s, -s, -s}, {-s, s, -s}, {s, s, -s}}},
		{math.Vec3Up, [4]math.Vec3{{-s, s, s}, {s, s, s}, {s, s, -s}, {-s, s, -s}}},
		{math.Vec3Down, [4]math.Vec3{{-s, -s, -s}, {s, -s, -s}, {s, -s, s}, {-s, -s, s}}},
		{math.Vec3Right, [4]math.Vec3{{s, -s, s}, {s, -s, -s}, {s, s, -s}, {s, s, s}}},
		{math.Vec3Left, [4]math.Vec3{{-s, -s, -s}, {-s, -s, s}, {-s, s, s}, {-s, s, -s}}},
	}
	uvs := [4]math.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for i, p := range f.corners {
			vertices = append(vertices, core.Vertex{Position: p, Normal: f.normal, UV: uvs[i]})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	m := CreateMeshFromData("Cube", vertices, indices, TriangleList)
	ComputeTangents(m)
	return m
}
