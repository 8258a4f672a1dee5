package shading

import (
	"github.com/chewxy/math32"

	"deferred-pbr/math"
	"deferred-pbr/scene"
)

// Surface is one decoded G-buffer sample.
type Surface struct {
	Position  math.Vec3
	Normal    math.Vec3
	Albedo    math.Vec3
	Metallic  float32
	Roughness float32
}

// Environment is the read-only view of a precomputed environment that the
// ambient term needs.
type Environment interface {
	// SamplePrefiltered samples the specular prefilter at a fractional mip level.
	SamplePrefiltered(dir math.Vec3, lod float32) math.Vec3
	// MaxLod is the index of the roughest prefilter level.
	MaxLod() float32
	// LookupBRDF returns the split-sum scale and bias.
	LookupBRDF(NdotV, roughness float32) (scale, bias float32)
}

// LightTerms keeps the two lobes of a direct contribution apart.
type LightTerms struct {
	Diffuse  math.Vec3
	Specular math.Vec3
}

func (t LightTerms) Sum() math.Vec3 {
	return t.Diffuse.Add(t.Specular)
}

const specularEpsilon = 1e-4

// EvaluatePointLight returns the outgoing radiance towards viewPos caused by
// one point light, already weighted by N·L and inverse-square attenuation.
func EvaluatePointLight(s Surface, viewPos math.Vec3, light scene.PointLight) LightTerms {
	roughness := ClampRoughness(s.Roughness)
	N := math.Normalize(s.Normal)
	V := math.Normalize(viewPos.Sub(s.Position))
	toLight := light.Position.Sub(s.Position)
	dist2 := toLight.LenSqr()
	if dist2 == 0 {
		return LightTerms{}
	}
	L := toLight.Mul(1 / math32.Sqrt(dist2))
	H := math.Normalize(V.Add(L))

	NdotL := math32.Max(N.Dot(L), 0)
	if NdotL == 0 {
		return LightTerms{}
	}
	NdotV := math32.Max(N.Dot(V), 0)
	radiance := light.Intensity.Mul(1 / dist2)

	F0 := BaseReflectivity(s.Albedo, s.Metallic)
	D := DistributionGGX(N.Dot(H), roughness)
	G := GeometrySmith(NdotV, NdotL, DirectK(roughness))
	F := FresnelSchlick(math32.Max(H.Dot(V), 0), F0)

	specular := F.Mul(D * G / math32.Max(4*NdotV*NdotL, specularEpsilon))
	kD := math.Vec3One.Sub(F).Mul(1 - s.Metallic)
	diffuse := math.MulVec(kD, s.Albedo).Mul(1 / math.Pi)

	w := NdotL
	return LightTerms{
		Diffuse:  math.MulVec(diffuse, radiance).Mul(w),
		Specular: math.MulVec(specular, radiance).Mul(w),
	}
}

// EvaluateAmbient is the split-sum image-based term. The roughest prefilter
// level stands in for the irradiance map.
func EvaluateAmbient(s Surface, viewPos math.Vec3, env Environment) LightTerms {
	roughness := ClampRoughness(s.Roughness)
	N := math.Normalize(s.Normal)
	V := math.Normalize(viewPos.Sub(s.Position))
	NdotV := math32.Max(N.Dot(V), 0)
	R := math.Reflect(V.Mul(-1), N)

	F0 := BaseReflectivity(s.Albedo, s.Metallic)
	F := FresnelSchlickRoughness(NdotV, F0, roughness)
	kD := math.Vec3One.Sub(F).Mul(1 - s.Metallic)

	irradiance := env.SamplePrefiltered(N, env.MaxLod())
	diffuse := math.MulVec(kD, math.MulVec(irradiance, s.Albedo))

	prefiltered := env.SamplePrefiltered(R, roughness*env.MaxLod())
	a, b := env.LookupBRDF(NdotV, roughness)
	specular := math.MulVec(prefiltered, F.Mul(a).Add(math.Splat(b)))

	return LightTerms{Diffuse: diffuse, Specular: specular}
}

// Shade returns the HDR radiance leaving s towards viewPos: the ambient term
// plus every light in order.
func Shade(s Surface, viewPos math.Vec3, lights []scene.PointLight, env Environment) math.Vec3 {
	var color math.Vec3
	if env != nil {
		color = EvaluateAmbient(s, viewPos, env).Sum()
	}
	for _, l := range lights {
		color = color.Add(EvaluatePointLight(s, viewPos, l).Sum())
	}
	return color
}
