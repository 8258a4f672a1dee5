package software

import (
	"deferred-pbr/core"
	"deferred-pbr/math"
	"deferred-pbr/shading"
)

// GBuffer stores one attribute per slice. Depth is window depth cleared to
// 1; a pixel holds geometry exactly when its depth is below 1.
type GBuffer struct {
	Width, Height     int
	Position          []math.Vec3
	BaseColor         []math.Vec3
	Normal            []math.Vec3
	MetallicRoughness []uint32 // shading.PackMetallicRoughness
	Depth             []float32
}

func NewGBuffer(width, height int) (*GBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, core.NewPipelineConfigError("gbuffer", "invalid size %dx%d", width, height)
	}
	n := width * height
	g := &GBuffer{
		Width:             width,
		Height:            height,
		Position:          make([]math.Vec3, n),
		BaseColor:         make([]math.Vec3, n),
		Normal:            make([]math.Vec3, n),
		MetallicRoughness: make([]uint32, n),
		Depth:             make([]float32, n),
	}
	g.Clear()
	return g, nil
}

// Clear zeroes the color attachments and resets depth to 1.
func (g *GBuffer) Clear() {
	clear(g.Position)
	clear(g.BaseColor)
	clear(g.Normal)
	clear(g.MetallicRoughness)
	for i := range g.Depth {
		g.Depth[i] = 1
	}
}

func (g *GBuffer) index(x, y int) int {
	return y*g.Width + x
}

// Covered reports whether geometry was written at (x, y).
func (g *GBuffer) Covered(x, y int) bool {
	return g.Depth[g.index(x, y)] < 1
}

// Surface decodes the sample at (x, y).
func (g *GBuffer) Surface(x, y int) shading.Surface {
	i := g.index(x, y)
	metallic, roughness := shading.UnpackMetallicRoughness(g.MetallicRoughness[i])
	return shading.Surface{
		Position:  g.Position[i],
		Normal:    g.Normal[i],
		Albedo:    g.BaseColor[i],
		Metallic:  metallic,
		Roughness: roughness,
	}
}
