package ibl

import (
	"github.com/chewxy/math32"

	"deferred-pbr/core"
	"deferred-pbr/math"
	"deferred-pbr/scene"
)

// ValidatePanorama checks that tex is a usable equirectangular environment:
// float texels, a 2:1 aspect ratio (one pixel of slack), and radiance that
// is finite and non-negative everywhere.
func ValidatePanorama(tex *scene.Texture) error {
	if tex == nil {
		return core.NewAssetError("panorama", "no panorama")
	}
	if tex.Width <= 0 || tex.Height <= 0 {
		return core.NewAssetError(tex.Name, "empty panorama (%dx%d)", tex.Width, tex.Height)
	}
	if tex.Format != scene.FormatRGBA32F {
		return core.NewAssetError(tex.Name, "panorama must hold float radiance")
	}
	if d := tex.Width - 2*tex.Height; d < -1 || d > 1 {
		return core.NewAssetError(tex.Name, "panorama is %dx%d, want a 2:1 aspect ratio", tex.Width, tex.Height)
	}
	if len(tex.Float) != 4*tex.Width*tex.Height {
		return core.NewAssetError(tex.Name, "panorama has %d floats, want %d", len(tex.Float), 4*tex.Width*tex.Height)
	}
	for i, v := range tex.Float {
		if math32.IsNaN(v) || math32.IsInf(v, 0) || v < 0 {
			px := i / 4
			return core.NewAssetError(tex.Name, "invalid radiance %v at pixel (%d, %d)", v, px%tex.Width, px/tex.Width)
		}
	}
	return nil
}

// EquirectUV maps a direction onto panorama coordinates. Longitude comes
// from atan2(z, x) and latitude from asin(y); v = 0 is the top row.
func EquirectUV(dir math.Vec3) (u, v float32) {
	d := math.Normalize(dir)
	u = math32.Atan2(d[2], d[0])/(2*math.Pi) + 0.5
	lat := math32.Asin(math.Clamp(d[1], -1, 1))/math.Pi + 0.5
	return u, 1 - lat
}

// SampleEquirect returns the panorama radiance seen along dir.
func SampleEquirect(pano *scene.Texture, dir math.Vec3) math.Vec3 {
	u, v := EquirectUV(dir)
	return pano.SampleBilinear(u, v).Vec3()
}
