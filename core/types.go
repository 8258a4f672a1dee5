package core

import (
	"deferred-pbr/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// RGB drops the alpha channel.
func (c Color) RGB() math.Vec3 {
	return math.Vec3{c.R, c.G, c.B}
}

// Vertex is the layout shared by every mesh the geometry pass draws.
// Attribute locations: 0 position, 1 normal, 2 uv, 3 tangent, 4 bitangent.
type Vertex struct {
	Position  math.Vec3
	Normal    math.Vec3
	UV        math.Vec2
	Tangent   math.Vec3
	Bitangent math.Vec3
}

type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

type Viewport struct {
	Width, Height int
}

// Aspect returns width / height.
func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}
