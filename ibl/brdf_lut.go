package ibl

import (
	"context"

	"github.com/chewxy/math32"

	"deferred-pbr/internal/parallel"
	"deferred-pbr/math"
	"deferred-pbr/shading"
)

// BRDFLUT holds the split-sum scale and bias terms. Texel (i, j) covers
// NdotV = (i+0.5)/Size and roughness = (j+0.5)/Size; Data is row-major with
// one row per roughness, two floats per texel.
type BRDFLUT struct {
	Size int
	Data []float32
}

// IntegrateBRDF evaluates the scale and bias of the specular split sum for
// one (NdotV, roughness) pair with n GGX importance samples.
func IntegrateBRDF(NdotV, roughness float32, n int) (scale, bias float32) {
	NdotV = math32.Max(NdotV, 1e-4)
	V := math.Vec3{math32.Sqrt(1 - NdotV*NdotV), 0, NdotV}
	N := math.Vec3{0, 0, 1}
	k := shading.IBLK(roughness)

	for i := 0; i < n; i++ {
		xi := shading.Hammersley(uint32(i), uint32(n))
		H := shading.ImportanceSampleGGX(xi, N, roughness)
		L := math.Reflect(V.Mul(-1), H)

		NdotL := math32.Max(L[2], 0)
		if NdotL <= 0 {
			continue
		}
		NdotH := math32.Max(H[2], 0)
		VdotH := math32.Max(V.Dot(H), 0)

		G := shading.GeometrySmith(NdotV, NdotL, k)
		gVis := G * VdotH / (NdotH * NdotV)
		fc := math32.Pow(1-VdotH, 5)

		scale += (1 - fc) * gVis
		bias += fc * gVis
	}
	return scale / float32(n), bias / float32(n)
}

// ComputeBRDFLUT integrates every texel of a size x size table.
func ComputeBRDFLUT(ctx context.Context, size, sampleCount, workers int) (*BRDFLUT, error) {
	lut := &BRDFLUT{Size: size, Data: make([]float32, 2*size*size)}
	err := parallel.Rows(ctx, workers, size, func(j int) {
		roughness := (float32(j) + 0.5) / float32(size)
		for i := 0; i < size; i++ {
			NdotV := (float32(i) + 0.5) / float32(size)
			a, b := IntegrateBRDF(NdotV, roughness, sampleCount)
			lut.Data[2*(j*size+i)] = a
			lut.Data[2*(j*size+i)+1] = b
		}
	})
	if err != nil {
		return nil, err
	}
	return lut, nil
}

func (l *BRDFLUT) texel(i, j int) (float32, float32) {
	k := 2 * (j*l.Size + i)
	return l.Data[k], l.Data[k+1]
}

// Lookup filters the table bilinearly, clamping to the edge texels.
func (l *BRDFLUT) Lookup(NdotV, roughness float32) (scale, bias float32) {
	x := math.Saturate(NdotV)*float32(l.Size) - 0.5
	y := math.Saturate(roughness)*float32(l.Size) - 0.5
	x0f, y0f := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0f, y-y0f
	x0, y0 := clampIndex(int(x0f), l.Size), clampIndex(int(y0f), l.Size)
	x1, y1 := clampIndex(int(x0f)+1, l.Size), clampIndex(int(y0f)+1, l.Size)

	a00, b00 := l.texel(x0, y0)
	a10, b10 := l.texel(x1, y0)
	a01, b01 := l.texel(x0, y1)
	a11, b11 := l.texel(x1, y1)

	scale = math.Mix(math.Mix(a00, a10, fx), math.Mix(a01, a11, fx), fy)
	bias = math.Mix(math.Mix(b00, b10, fx), math.Mix(b01, b11, fx), fy)
	return scale, bias
}
