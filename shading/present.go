package shading

import (
	"github.com/chewxy/math32"

	"deferred-pbr/math"
)

const Gamma = 2.2

// ToneMap applies the exposure curve 1 - exp(-c * exposure) per channel.
func ToneMap(hdr math.Vec3, exposure float32) math.Vec3 {
	var out math.Vec3
	for i, c := range hdr {
		out[i] = 1 - math32.Exp(-math32.Max(c, 0)*exposure)
	}
	return out
}

// GammaEncode raises each channel to 1/Gamma.
func GammaEncode(c math.Vec3) math.Vec3 {
	var out math.Vec3
	for i, v := range c {
		out[i] = math32.Pow(math.Saturate(v), 1/Gamma)
	}
	return out
}

// Present maps an HDR color to display-referred [0,1].
func Present(hdr math.Vec3, exposure float32) math.Vec3 {
	return GammaEncode(ToneMap(hdr, exposure))
}

// ToByte quantises a [0,1] channel.
func ToByte(c float32) uint8 {
	return uint8(math.Saturate(c)*255 + 0.5)
}
