package ibl

import (
	"context"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A perfect mirror reflects everything: scale + bias is exactly the Fresnel
// split of one.
func TestIntegrateBRDFMirror(t *testing.T) {
	for _, v := range []float32{0.1, 0.5, 0.9} {
		a, b := IntegrateBRDF(v, 0, 64)
		fc := math32.Pow(1-v, 5)
		assert.InDelta(t, 1-fc, a, 1e-4, "NdotV %v", v)
		assert.InDelta(t, fc, b, 1e-4, "NdotV %v", v)
	}
}

// Near grazing view angles the stored Fresnel bias only drops as the surface
// gets rougher. The scale term rises instead: spreading the half vectors away
// from the mirror direction moves Fresnel weight from bias into scale.
func TestBRDFGrazingTermsInRoughness(t *testing.T) {
	const size, samples = 32, 1024
	lut, err := ComputeBRDFLUT(context.Background(), size, samples, 4)
	require.NoError(t, err)

	// Hammersley integration error shrinks as 1/n.
	tol := float32(1) / samples
	for i := 0; i < 4; i++ {
		firstScale, prevBias := lut.texel(i, 0)
		for j := 1; j < size; j++ {
			_, b := lut.texel(i, j)
			assert.LessOrEqual(t, b, prevBias+tol, "column %d row %d", i, j)
			prevBias = b
		}
		lastScale, _ := lut.texel(i, size-1)
		assert.Greater(t, lastScale, firstScale, "column %d", i)
	}
}

func TestBRDFTermsAreBounded(t *testing.T) {
	for _, v := range []float32{0.3, 0.7, 1} {
		for _, r := range []float32{0.1, 0.5, 1} {
			a, b := IntegrateBRDF(v, r, 128)
			assert.GreaterOrEqual(t, a, float32(0))
			assert.GreaterOrEqual(t, b, float32(0))
			assert.LessOrEqual(t, a+b, float32(1.02))
		}
	}
}

func TestLUTLookupHitsTexelCentres(t *testing.T) {
	const size, samples = 8, 32
	lut, err := ComputeBRDFLUT(context.Background(), size, samples, 4)
	require.NoError(t, err)
	require.Len(t, lut.Data, 2*size*size)

	for _, ij := range [][2]int{{0, 0}, {3, 5}, {7, 7}, {6, 1}} {
		v := (float32(ij[0]) + 0.5) / size
		r := (float32(ij[1]) + 0.5) / size
		wantA, wantB := IntegrateBRDF(v, r, samples)
		gotA, gotB := lut.Lookup(v, r)
		assert.InDelta(t, wantA, gotA, 1e-5)
		assert.InDelta(t, wantB, gotB, 1e-5)
	}

	// outside the centres the lookup clamps to the edge texels
	a0, _ := lut.Lookup(0, 0)
	c0, _ := IntegrateBRDF(0.5/size, 0.5/size, samples)
	assert.InDelta(t, c0, a0, 1e-5)
}
