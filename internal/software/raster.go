package software

import (
	"github.com/chewxy/math32"

	"deferred-pbr/math"
)

// nearW rejects vertices at or behind the eye.
const nearW = 1e-5

// screenVertex is a vertex after the perspective divide and viewport
// mapping. Row 0 is the top of the image.
type screenVertex struct {
	x, y  float32
	depth float32 // window depth in [0,1]
	invW  float32
}

// Rasterizer maps clip-space triangles onto a Width x Height pixel grid.
type Rasterizer struct {
	Width, Height int
}

// Triangle is a set-up triangle ready for scan conversion.
type Triangle struct {
	v                      [3]screenVertex
	area                   float32
	minX, maxX, minY, maxY int
}

// Fragment is one covered pixel centre.
type Fragment struct {
	X, Y  int
	Depth float32
	// Weights are perspective-correct barycentrics for interpolating vertex
	// attributes; they sum to one.
	Weights [3]float32
}

// Setup projects a clip-space triangle. Triangles that cross the near plane,
// have no area, or fall outside the viewport are rejected rather than
// clipped; the demo camera never gets that close to geometry.
func (r *Rasterizer) Setup(clip [3]math.Vec4) (Triangle, bool) {
	var t Triangle
	for i, c := range clip {
		w := c[3]
		if w <= nearW || c[2] < -w {
			return t, false
		}
		inv := 1 / w
		t.v[i] = screenVertex{
			x:     (c[0]*inv*0.5 + 0.5) * float32(r.Width),
			y:     (0.5 - c[1]*inv*0.5) * float32(r.Height),
			depth: c[2]*inv*0.5 + 0.5,
			invW:  inv,
		}
	}
	t.area = edge(t.v[0], t.v[1], t.v[2].x, t.v[2].y)
	if t.area == 0 {
		return t, false
	}

	minX := math32.Min(t.v[0].x, math32.Min(t.v[1].x, t.v[2].x))
	maxX := math32.Max(t.v[0].x, math32.Max(t.v[1].x, t.v[2].x))
	minY := math32.Min(t.v[0].y, math32.Min(t.v[1].y, t.v[2].y))
	maxY := math32.Max(t.v[0].y, math32.Max(t.v[1].y, t.v[2].y))
	t.minX = max(0, int(math32.Floor(minX)))
	t.maxX = min(r.Width-1, int(math32.Ceil(maxX)))
	t.minY = max(0, int(math32.Floor(minY)))
	t.maxY = min(r.Height-1, int(math32.Ceil(maxY)))
	if t.minX > t.maxX || t.minY > t.maxY {
		return t, false
	}
	return t, true
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// Overlaps reports whether the triangle touches rows [y0, y1).
func (t *Triangle) Overlaps(y0, y1 int) bool {
	return t.maxY >= y0 && t.minY < y1
}

// Scan calls fn for every pixel centre in rows [y0, y1) inside the triangle.
// Both windings are accepted.
func (t *Triangle) Scan(y0, y1 int, fn func(Fragment)) {
	ys, ye := max(y0, t.minY), min(y1-1, t.maxY)
	inv := 1 / t.area
	for y := ys; y <= ye; y++ {
		py := float32(y) + 0.5
		for x := t.minX; x <= t.maxX; x++ {
			px := float32(x) + 0.5
			b0 := edge(t.v[1], t.v[2], px, py) * inv
			b1 := edge(t.v[2], t.v[0], px, py) * inv
			b2 := edge(t.v[0], t.v[1], px, py) * inv
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}
			p0, p1, p2 := b0*t.v[0].invW, b1*t.v[1].invW, b2*t.v[2].invW
			norm := 1 / (p0 + p1 + p2)
			fn(Fragment{
				X:       x,
				Y:       y,
				Depth:   b0*t.v[0].depth + b1*t.v[1].depth + b2*t.v[2].depth,
				Weights: [3]float32{p0 * norm, p1 * norm, p2 * norm},
			})
		}
	}
}
