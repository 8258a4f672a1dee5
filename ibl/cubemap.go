package ibl

import (
	"github.com/chewxy/math32"

	"deferred-pbr/math"
)

// CubeLevel is one mip of a cube map: six square faces of RGB float32
// texels, row-major. Row 0 of a face is the first row glTexImage2D uploads.
type CubeLevel struct {
	Size  int
	Faces [math.CubeFaceCount][]float32
}

func newCubeLevel(size int) CubeLevel {
	l := CubeLevel{Size: size}
	for f := range l.Faces {
		l.Faces[f] = make([]float32, 3*size*size)
	}
	return l
}

func (l *CubeLevel) Texel(face math.CubeFace, x, y int) math.Vec3 {
	i := 3 * (y*l.Size + x)
	p := l.Faces[face]
	return math.Vec3{p[i], p[i+1], p[i+2]}
}

func (l *CubeLevel) SetTexel(face math.CubeFace, x, y int, c math.Vec3) {
	i := 3 * (y*l.Size + x)
	p := l.Faces[face]
	p[i], p[i+1], p[i+2] = c[0], c[1], c[2]
}

// Sample filters the level bilinearly at direction dir. Filtering stops at
// face edges.
func (l *CubeLevel) Sample(dir math.Vec3) math.Vec3 {
	face, u, v := math.DirectionToCube(dir)
	n := l.Size
	x := u*float32(n) - 0.5
	y := v*float32(n) - 0.5
	x0f, y0f := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0f, y-y0f
	x0, y0 := clampIndex(int(x0f), n), clampIndex(int(y0f), n)
	x1, y1 := clampIndex(int(x0f)+1, n), clampIndex(int(y0f)+1, n)

	top := math.Lerp(l.Texel(face, x0, y0), l.Texel(face, x1, y0), fx)
	bottom := math.Lerp(l.Texel(face, x0, y1), l.Texel(face, x1, y1), fx)
	return math.Lerp(top, bottom, fy)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// CubeMap is a mip-mapped cube map in linear HDR RGB.
type CubeMap struct {
	Levels []CubeLevel
}

// NewCubeMap allocates size>>l faces for every level (never below 1).
func NewCubeMap(size, levels int) *CubeMap {
	c := &CubeMap{Levels: make([]CubeLevel, levels)}
	for l := range c.Levels {
		c.Levels[l] = newCubeLevel(max(1, size>>l))
	}
	return c
}

func (c *CubeMap) Size() int { return c.Levels[0].Size }

func (c *CubeMap) MipLevels() int { return len(c.Levels) }

// SampleLod filters trilinearly between the two levels around lod.
func (c *CubeMap) SampleLod(dir math.Vec3, lod float32) math.Vec3 {
	maxLod := float32(len(c.Levels) - 1)
	lod = math.Clamp(lod, 0, maxLod)
	l0 := int(lod)
	if l0 >= len(c.Levels)-1 {
		return c.Levels[len(c.Levels)-1].Sample(dir)
	}
	t := lod - float32(l0)
	a := c.Levels[l0].Sample(dir)
	if t == 0 {
		return a
	}
	return math.Lerp(a, c.Levels[l0+1].Sample(dir), t)
}

// buildMipChain fills levels 1.. of c by 2x2 box filtering the level above.
func (c *CubeMap) buildMipChain() {
	for l := 1; l < len(c.Levels); l++ {
		src, dst := &c.Levels[l-1], &c.Levels[l]
		for f := 0; f < math.CubeFaceCount; f++ {
			face := math.CubeFace(f)
			for y := 0; y < dst.Size; y++ {
				for x := 0; x < dst.Size; x++ {
					sx, sy := min(2*x, src.Size-1), min(2*y, src.Size-1)
					sx1, sy1 := min(sx+1, src.Size-1), min(sy+1, src.Size-1)
					sum := src.Texel(face, sx, sy).
						Add(src.Texel(face, sx1, sy)).
						Add(src.Texel(face, sx, sy1)).
						Add(src.Texel(face, sx1, sy1))
					dst.SetTexel(face, x, y, sum.Mul(0.25))
				}
			}
		}
	}
}

// fullMipCount is the number of levels down to 1x1.
func fullMipCount(size int) int {
	n := 1
	for size > 1 {
		size >>= 1
		n++
	}
	return n
}
