package shading

import (
	"math/bits"

	"github.com/chewxy/math32"

	"deferred-pbr/math"
)

// RadicalInverse mirrors the bits of i around the binary point (van der
// Corput sequence in base 2).
func RadicalInverse(i uint32) float32 {
	return float32(bits.Reverse32(i)) * 2.3283064365386963e-10 // 1 / 2^32
}

// Hammersley returns point i of an n-point Hammersley set in [0,1)².
func Hammersley(i, n uint32) math.Vec2 {
	return math.Vec2{float32(i) / float32(n), RadicalInverse(i)}
}

// TangentBasis builds an orthonormal tangent and bitangent around n.
func TangentBasis(n math.Vec3) (tangent, bitangent math.Vec3) {
	up := math.Vec3{0, 0, 1}
	if math32.Abs(n[2]) >= 0.999 {
		up = math.Vec3{1, 0, 0}
	}
	tangent = math.Normalize(up.Cross(n))
	bitangent = n.Cross(tangent)
	return tangent, bitangent
}

// ImportanceSampleGGX maps a point of the unit square to a half vector
// around n distributed proportionally to D(h)·(n·h).
func ImportanceSampleGGX(xi math.Vec2, n math.Vec3, roughness float32) math.Vec3 {
	a := roughness * roughness

	phi := 2 * math.Pi * xi[0]
	cosTheta := math32.Sqrt((1 - xi[1]) / (1 + (a*a-1)*xi[1]))
	sinTheta := math32.Sqrt(math32.Max(0, 1-cosTheta*cosTheta))
	sinPhi, cosPhi := math32.Sincos(phi)

	tangent, bitangent := TangentBasis(n)
	h := tangent.Mul(cosPhi * sinTheta).
		Add(bitangent.Mul(sinPhi * sinTheta)).
		Add(n.Mul(cosTheta))
	return math.Normalize(h)
}

// SampleSolidAngle is the solid angle a GGX sample with the given half-vector
// terms stands for when sampleCount samples are drawn; it drives the source
// mip selection of the specular prefilter.
func SampleSolidAngle(NdotH, HdotV, roughness float32, sampleCount int) float32 {
	pdf := DistributionGGX(NdotH, roughness)*NdotH/(4*HdotV) + 1e-4
	return 1 / (float32(sampleCount) * pdf)
}
