package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-pbr/core"
	"deferred-pbr/scene"
)

func glWrap(m scene.WrapMode) int32 {
	if m == scene.WrapClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

// UploadTexture creates a mipmapped 2D texture from tex. sRGB color data is
// stored as SRGB8_ALPHA8 so sampling returns linear values.
func UploadTexture(tex *scene.Texture) (uint32, error) {
	if tex == nil {
		return 0, core.NewPipelineConfigError("texture upload", "nil texture")
	}
	internal, format, xtype := int32(gl.RGBA8), uint32(gl.RGBA), uint32(gl.UNSIGNED_BYTE)
	var pixels []byte
	var floats []float32
	switch tex.Format {
	case scene.FormatRGBA8:
		if len(tex.Pixels) < 4*tex.Width*tex.Height {
			return 0, core.NewAssetError(tex.Name, "texture has no pixel data")
		}
		if tex.SRGB {
			internal = gl.SRGB8_ALPHA8
		}
		pixels = tex.Pixels
	case scene.FormatRGBA32F:
		if len(tex.Float) < 4*tex.Width*tex.Height {
			return 0, core.NewAssetError(tex.Name, "texture has no pixel data")
		}
		internal, xtype = gl.RGBA32F, gl.FLOAT
		floats = tex.Float
	default:
		return 0, core.NewAssetError(tex.Name, "unsupported texture format %d", tex.Format)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(tex.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(tex.WrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if pixels != nil {
		gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(tex.Width), int32(tex.Height), 0, format, xtype, gl.Ptr(pixels))
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(tex.Width), int32(tex.Height), 0, format, xtype, gl.Ptr(floats))
	}
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id, nil
}

// gpuMaterial is one uploaded SurfaceMaterial, in sampler order.
type gpuMaterial struct {
	textures [4]uint32 // base color, normal, metallic, roughness
}

func uploadMaterial(m *scene.SurfaceMaterial) (*gpuMaterial, error) {
	g := &gpuMaterial{}
	for i, tex := range []*scene.Texture{m.BaseColor, m.Normal, m.Metallic, m.Roughness} {
		id, err := UploadTexture(tex)
		if err != nil {
			g.destroy()
			return nil, err
		}
		g.textures[i] = id
	}
	return g, nil
}

func (g *gpuMaterial) bind(unit uint32) {
	for i, id := range g.textures {
		gl.ActiveTexture(gl.TEXTURE0 + unit + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, id)
	}
}

func (g *gpuMaterial) destroy() {
	for i := range g.textures {
		if g.textures[i] != 0 {
			gl.DeleteTextures(1, &g.textures[i])
			g.textures[i] = 0
		}
	}
}
