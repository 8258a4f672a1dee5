package scene

import (
	"deferred-pbr/core"
)

// SurfaceMaterial is the single PBR texture set the geometry pass samples.
// Metallic and roughness are read from the red channel of their textures.
type SurfaceMaterial struct {
	Name      string
	BaseColor *Texture // sRGB
	Normal    *Texture // tangent space, [0,1] encoded
	Metallic  *Texture
	Roughness *Texture
}

// MaterialPaths names the four texture files of a material. An empty path
// selects the flat fallback for that slot.
type MaterialPaths struct {
	BaseColor string
	Normal    string
	Metallic  string
	Roughness string
}

// DefaultSurfaceMaterial is a mid-gray dielectric with a flat normal map and
// roughness 0.5.
func DefaultSurfaceMaterial() *SurfaceMaterial {
	base := NewSolidTexture("fallback_base_color", 188, 188, 188, 255)
	base.SRGB = true
	return &SurfaceMaterial{
		Name:      "Default",
		BaseColor: base,
		Normal:    NewSolidTexture("fallback_normal", 128, 128, 255, 255),
		Metallic:  NewSolidTexture("fallback_metallic", 0, 0, 0, 255),
		Roughness: NewSolidTexture("fallback_roughness", 128, 128, 128, 255),
	}
}

// NewUniformMaterial builds a material from constant values; base color is
// given in sRGB bytes.
func NewUniformMaterial(name string, r, g, b uint8, metallic, roughness float32) *SurfaceMaterial {
	base := NewSolidTexture(name+"_base_color", r, g, b, 255)
	base.SRGB = true
	m := unitByte(metallic)
	ro := unitByte(roughness)
	return &SurfaceMaterial{
		Name:      name,
		BaseColor: base,
		Normal:    NewSolidTexture(name+"_normal", 128, 128, 255, 255),
		Metallic:  NewSolidTexture(name+"_metallic", m, m, m, 255),
		Roughness: NewSolidTexture(name+"_roughness", ro, ro, ro, 255),
	}
}

func unitByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// LoadSurfaceMaterial loads the four textures of a material from disk.
func LoadSurfaceMaterial(name string, paths MaterialPaths) (*SurfaceMaterial, error) {
	mat := DefaultSurfaceMaterial()
	mat.Name = name

	slots := []struct {
		path string
		dst  **Texture
		srgb bool
	}{
		{paths.BaseColor, &mat.BaseColor, true},
		{paths.Normal, &mat.Normal, false},
		{paths.Metallic, &mat.Metallic, false},
		{paths.Roughness, &mat.Roughness, false},
	}
	for _, s := range slots {
		if s.path == "" {
			continue
		}
		tex, err := LoadTexture(s.path)
		if err != nil {
			return nil, err
		}
		tex.SRGB = s.srgb
		*s.dst = tex
	}
	return mat, nil
}

// Validate reports a missing texture slot.
func (m *SurfaceMaterial) Validate() error {
	for slot, tex := range map[string]*Texture{
		"base color": m.BaseColor,
		"normal":     m.Normal,
		"metallic":   m.Metallic,
		"roughness":  m.Roughness,
	} {
		if tex == nil {
			return core.NewAssetError(m.Name, "missing %s texture", slot)
		}
		if tex.Width <= 0 || tex.Height <= 0 {
			return core.NewAssetError(tex.Name, "%s texture has size %dx%d", slot, tex.Width, tex.Height)
		}
	}
	return nil
}
