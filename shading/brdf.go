// Package shading holds the reflectance model shared by every backend: the
// Cook-Torrance terms, the importance sampler used by the environment
// precompute, G-buffer packing and the present transfer. The GLSL in
// internal/opengl mirrors these functions one to one.
package shading

import (
	"github.com/chewxy/math32"

	"deferred-pbr/math"
)

// MinRoughness keeps the GGX lobe finite for mirror-like surfaces.
const MinRoughness = 0.04

// DielectricF0 is the normal-incidence reflectance assumed for non-metals.
const DielectricF0 = 0.04

// ClampRoughness restricts r to [MinRoughness, 1].
func ClampRoughness(r float32) float32 {
	return math.Clamp(r, MinRoughness, 1)
}

// DistributionGGX is the Trowbridge-Reitz normal distribution with the
// Disney alpha = roughness² remapping.
func DistributionGGX(NdotH, roughness float32) float32 {
	a := roughness * roughness
	a2 := a * a
	NdotH = math32.Max(NdotH, 0)
	denom := NdotH*NdotH*(a2-1) + 1
	return a2 / (math.Pi * denom * denom)
}

// DirectK is the Schlick-GGX k used for analytic lights.
func DirectK(roughness float32) float32 {
	r := roughness + 1
	return r * r / 8
}

// IBLK is the Schlick-GGX k used when integrating the environment.
func IBLK(roughness float32) float32 {
	return roughness * roughness / 2
}

func GeometrySchlickGGX(NdotV, k float32) float32 {
	return NdotV / (NdotV*(1-k) + k)
}

// GeometrySmith combines the masking and shadowing terms for view and light.
func GeometrySmith(NdotV, NdotL, k float32) float32 {
	return GeometrySchlickGGX(math32.Max(NdotV, 0), k) * GeometrySchlickGGX(math32.Max(NdotL, 0), k)
}

func FresnelSchlick(cosTheta float32, F0 math.Vec3) math.Vec3 {
	f := math32.Pow(math.Saturate(1-cosTheta), 5)
	return F0.Add(math.Vec3One.Sub(F0).Mul(f))
}

// FresnelSchlickRoughness damps the grazing Fresnel gain on rough surfaces.
func FresnelSchlickRoughness(cosTheta float32, F0 math.Vec3, roughness float32) math.Vec3 {
	f := math32.Pow(math.Saturate(1-cosTheta), 5)
	g := 1 - roughness
	var out math.Vec3
	for i := 0; i < 3; i++ {
		out[i] = F0[i] + (math32.Max(g, F0[i])-F0[i])*f
	}
	return out
}

// BaseReflectivity is F0 = mix(0.04, albedo, metallic).
func BaseReflectivity(albedo math.Vec3, metallic float32) math.Vec3 {
	return math.Lerp(math.Splat(DielectricF0), albedo, metallic)
}
