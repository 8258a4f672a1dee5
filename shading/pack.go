package shading

import (
	"github.com/chewxy/math32"

	"deferred-pbr/math"
)

const unorm16Max = 65535

func toUnorm16(x float32) uint32 {
	return uint32(math32.Floor(math.Saturate(x)*unorm16Max + 0.5))
}

// PackMetallicRoughness stores two [0,1] values as unorm16 in one word,
// metallic in the high half. Out-of-range inputs are clamped.
func PackMetallicRoughness(metallic, roughness float32) uint32 {
	return toUnorm16(metallic)<<16 | toUnorm16(roughness)
}

func UnpackMetallicRoughness(packed uint32) (metallic, roughness float32) {
	return float32(packed>>16) / unorm16Max, float32(packed&0xffff) / unorm16Max
}
