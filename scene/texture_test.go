package scene

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deferred-pbr/core"
)

func TestSampleBilinearRepeat(t *testing.T) {
	tex := NewFloatTexture("ramp", 2, 1, []float32{
		0, 0, 0, 1,
		1, 1, 1, 1,
	})
	// texel centres
	assert.InDelta(t, 0, tex.SampleBilinear(0.25, 0.5)[0], 1e-6)
	assert.InDelta(t, 1, tex.SampleBilinear(0.75, 0.5)[0], 1e-6)
	assert.InDelta(t, 0.5, tex.SampleBilinear(0.5, 0.5)[0], 1e-6)
	// u = 0 sits between the last and first texel under repeat
	assert.InDelta(t, 0.5, tex.SampleBilinear(0, 0.5)[0], 1e-6)
	assert.InDelta(t, 0.5, tex.SampleBilinear(1, 0.5)[0], 1e-6)

	tex.WrapS = WrapClampToEdge
	assert.InDelta(t, 0, tex.SampleBilinear(0, 0.5)[0], 1e-6)
}

func TestSRGBTexel(t *testing.T) {
	tex := NewSolidTexture("gray", 188, 188, 188, 255)
	assert.InDelta(t, 188.0/255, tex.Texel(0, 0)[0], 1e-6)
	tex.SRGB = true
	assert.InDelta(t, 0.5, tex.Texel(0, 0)[0], 0.01)
	assert.InDelta(t, 1, tex.Texel(0, 0)[3], 1e-6)
}

func TestDecodeTexturePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tex, err := DecodeTexture("small.png", &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, 2, tex.Height)
	require.Len(t, tex.Pixels, 3*2*4)
	i := (1*3 + 2) * 4
	assert.Equal(t, []byte{10, 20, 30, 255}, tex.Pixels[i:i+4])
}

func TestDecodeTextureGarbage(t *testing.T) {
	_, err := DecodeTexture("junk.png", bytes.NewReader([]byte("not an image")))
	var assetErr *core.AssetError
	require.True(t, errors.As(err, &assetErr))
	assert.Equal(t, "junk.png", assetErr.Asset)
}

func TestTextureFromSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	sub := img.SubImage(image.Rect(1, 1, 3, 3))

	tex, err := TextureFromImage("sub", sub)
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width)
	assert.Len(t, tex.Pixels, 2*2*4)
	assert.Equal(t, byte(255), tex.Pixels[0])
}

func TestPanoramaFromLDRImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	pano, err := PanoramaFromImage("white", img)
	require.NoError(t, err)
	assert.Equal(t, FormatRGBA32F, pano.Format)
	assert.Equal(t, WrapClampToEdge, pano.WrapT)
	assert.InDelta(t, 1, pano.Texel(3, 1)[1], 1e-5)

	_, err = PanoramaFromImage("empty", image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}

func TestDefaultMaterialIsComplete(t *testing.T) {
	m := DefaultSurfaceMaterial()
	require.NoError(t, m.Validate())
	assert.True(t, m.BaseColor.SRGB)
	assert.False(t, m.Normal.SRGB)

	m.Roughness = nil
	assert.Error(t, m.Validate())

	u := NewUniformMaterial("gold", 255, 200, 80, 1, 0.25)
	assert.Equal(t, byte(255), u.Metallic.Pixels[0])
	assert.Equal(t, byte(64), u.Roughness.Pixels[0])
}

func TestLoadSurfaceMaterialMissingFile(t *testing.T) {
	_, err := LoadSurfaceMaterial("m", MaterialPaths{BaseColor: "does/not/exist.png"})
	var assetErr *core.AssetError
	assert.True(t, errors.As(err, &assetErr))

	m, err := LoadSurfaceMaterial("flat", MaterialPaths{})
	require.NoError(t, err)
	assert.Equal(t, "flat", m.Name)
}
