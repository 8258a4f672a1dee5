package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-pbr/core"
	"deferred-pbr/ibl"
)

// Environment holds the GPU copies of an ibl.EnvironmentAsset.
type Environment struct {
	EnvCube       uint32
	PrefilterCube uint32
	BRDFLUT       uint32
	MaxLod        float32
}

func UploadEnvironment(asset *ibl.EnvironmentAsset) (*Environment, error) {
	if asset == nil || asset.Environment == nil || asset.Prefiltered == nil || asset.BRDF == nil {
		return nil, core.NewPipelineConfigError("environment", "incomplete environment asset")
	}
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	e := &Environment{
		EnvCube:       uploadCube(asset.Environment, 1),
		PrefilterCube: uploadCube(asset.Prefiltered, asset.Prefiltered.MipLevels()),
		BRDFLUT:       uploadLUT(asset.BRDF),
		MaxLod:        asset.MaxLod(),
	}
	return e, nil
}

// uploadCube uploads the first levels mips of c as RGB16F faces. Every mip
// is provided explicitly; nothing is generated on the GPU.
func uploadCube(c *ibl.CubeMap, levels int) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for l := 0; l < levels; l++ {
		level := &c.Levels[l]
		for f, face := range level.Faces {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(f), int32(l), gl.RGB16F,
				int32(level.Size), int32(level.Size), 0, gl.RGB, gl.FLOAT, gl.Ptr(face))
		}
	}
	minFilter := int32(gl.LINEAR)
	if levels > 1 {
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_BASE_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, int32(levels-1))
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return id
}

// uploadLUT stores the split-sum table as RG16F with s = NdotV and
// t = roughness.
func uploadLUT(lut *ibl.BRDFLUT) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RG16F, int32(lut.Size), int32(lut.Size), 0, gl.RG, gl.FLOAT, gl.Ptr(lut.Data))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

func (e *Environment) Destroy() {
	for _, tex := range []*uint32{&e.EnvCube, &e.PrefilterCube, &e.BRDFLUT} {
		if *tex != 0 {
			gl.DeleteTextures(1, tex)
			*tex = 0
		}
	}
}
