package scene

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/chewxy/math32"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"deferred-pbr/core"
	"deferred-pbr/math"
)

type TextureFormat int

const (
	FormatRGBA8   TextureFormat = iota // Pixels, 4 bytes per texel
	FormatRGBA32F                      // Float, 4 float32 per texel
)

type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClampToEdge
)

// Texture holds CPU-side pixel data for a 2D texture, row-major and
// top-to-bottom.
type Texture struct {
	Name   string
	Width  int
	Height int
	Format TextureFormat
	// SRGB marks RGBA8 color data that must be linearised when sampled.
	SRGB bool

	Pixels []byte
	Float  []float32

	WrapS, WrapT WrapMode
}

// LoadTexture reads an image file (PNG, JPEG, BMP, TIFF, WebP) and returns it
// as an RGBA8 texture.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.AssetError{Asset: path, Err: err}
	}
	defer f.Close()
	return DecodeTexture(path, f)
}

// DecodeTexture decodes an LDR image from r.
func DecodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &core.AssetError{Asset: name, Err: fmt.Errorf("decode: %w", err)}
	}
	return TextureFromImage(name, img)
}

// TextureFromImage converts any image to an RGBA8 texture.
func TextureFromImage(name string, img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, core.NewAssetError(name, "empty image")
	}
	rgba := clone.AsRGBA(img)
	pix := rgba.Pix
	if rgba.Stride != 4*b.Dx() || len(pix) != 4*b.Dx()*b.Dy() {
		pix = make([]byte, 0, 4*b.Dx()*b.Dy())
		for y := 0; y < b.Dy(); y++ {
			row := rgba.Pix[y*rgba.Stride:]
			pix = append(pix, row[:4*b.Dx()]...)
		}
	}
	return &Texture{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: FormatRGBA8,
		Pixels: pix,
	}, nil
}

// NewSolidTexture creates a 1x1 texture with the given RGBA color values (0-255).
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Format: FormatRGBA8,
		Pixels: []byte{r, g, b, a},
	}
}

// NewFloatTexture wraps RGBA32F data.
func NewFloatTexture(name string, width, height int, data []float32) *Texture {
	return &Texture{
		Name:   name,
		Width:  width,
		Height: height,
		Format: FormatRGBA32F,
		Float:  data,
	}
}

// LoadPanorama reads a Radiance .hdr equirectangular panorama into an
// RGBA32F texture that wraps horizontally and clamps vertically.
func LoadPanorama(path string) (*Texture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.AssetError{Asset: path, Err: err}
	}
	img, err := rgbe.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &core.AssetError{Asset: path, Err: fmt.Errorf("decode radiance hdr: %w", err)}
	}
	return PanoramaFromImage(path, img)
}

// PanoramaFromImage converts an image into a float panorama. High dynamic
// range images keep their linear values; LDR images are linearised from sRGB.
func PanoramaFromImage(name string, img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, core.NewAssetError(name, "empty panorama")
	}
	w, h := b.Dx(), b.Dy()
	data := make([]float32, 0, 4*w*h)

	if himg, ok := img.(hdr.Image); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := himg.HDRAt(x, y).HDRRGBA()
				data = append(data, float32(r), float32(g), float32(bl), 1)
			}
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				data = append(data,
					SRGBToLinear(float32(r)/0xffff),
					SRGBToLinear(float32(g)/0xffff),
					SRGBToLinear(float32(bl)/0xffff),
					1)
			}
		}
	}

	t := NewFloatTexture(name, w, h, data)
	t.WrapT = WrapClampToEdge
	return t, nil
}

// Texel returns the texel at integer coordinates as linear floats; sRGB
// textures are decoded.
func (t *Texture) Texel(x, y int) math.Vec4 {
	i := (y*t.Width + x) * 4
	if t.Format == FormatRGBA32F {
		return math.Vec4{t.Float[i], t.Float[i+1], t.Float[i+2], t.Float[i+3]}
	}
	c := math.Vec4{
		float32(t.Pixels[i]) / 255,
		float32(t.Pixels[i+1]) / 255,
		float32(t.Pixels[i+2]) / 255,
		float32(t.Pixels[i+3]) / 255,
	}
	if t.SRGB {
		c[0], c[1], c[2] = SRGBToLinear(c[0]), SRGBToLinear(c[1]), SRGBToLinear(c[2])
	}
	return c
}

// SampleBilinear filters the four texels around (u, v) with texel centres at
// (i + 0.5) / size, like GL_LINEAR. v = 0 is the first row.
func (t *Texture) SampleBilinear(u, v float32) math.Vec4 {
	x := u*float32(t.Width) - 0.5
	y := v*float32(t.Height) - 0.5
	x0f, y0f := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0f, y-y0f

	x0 := wrapCoord(int(x0f), t.Width, t.WrapS)
	x1 := wrapCoord(int(x0f)+1, t.Width, t.WrapS)
	y0 := wrapCoord(int(y0f), t.Height, t.WrapT)
	y1 := wrapCoord(int(y0f)+1, t.Height, t.WrapT)

	c00 := t.Texel(x0, y0)
	c10 := t.Texel(x1, y0)
	c01 := t.Texel(x0, y1)
	c11 := t.Texel(x1, y1)

	top := c00.Mul(1 - fx).Add(c10.Mul(fx))
	bottom := c01.Mul(1 - fx).Add(c11.Mul(fx))
	return top.Mul(1 - fy).Add(bottom.Mul(fy))
}

func wrapCoord(i, n int, mode WrapMode) int {
	if mode == WrapClampToEdge {
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// SRGBToLinear applies the sRGB electro-optical transfer function.
func SRGBToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}
