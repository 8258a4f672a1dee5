package ibl

import (
	"deferred-pbr/scene"
)

func constantPanorama(w, h int, value float32) *scene.Texture {
	data := make([]float32, 4*w*h)
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = value, value, value, 1
	}
	t := scene.NewFloatTexture("constant", w, h, data)
	t.WrapT = scene.WrapClampToEdge
	return t
}

func smallOptions() Options {
	return Options{
		CubeSize:       16,
		PrefilterSize:  8,
		MipLevels:      4,
		SampleCount:    64,
		LUTSize:        8,
		LUTSampleCount: 32,
		Workers:        3,
	}
}

// gradientPanorama is bright at the zenith row and dark at the nadir row.
func gradientPanorama(w, h int) *scene.Texture {
	data := make([]float32, 4*w*h)
	for y := 0; y < h; y++ {
		v := 1 - (float32(y)+0.5)/float32(h)
		for x := 0; x < w; x++ {
			i := 4 * (y*w + x)
			data[i], data[i+1], data[i+2], data[i+3] = 4*v, 2*v, v, 1
		}
	}
	t := scene.NewFloatTexture("gradient", w, h, data)
	t.WrapT = scene.WrapClampToEdge
	return t
}
