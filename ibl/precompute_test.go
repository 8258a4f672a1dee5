package ibl

import (
	"context"
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deferred-pbr/core"
	"deferred-pbr/math"
)

// Prefiltering a constant environment must reproduce the constant on every
// level: the convolution is a normalised weighted average.
func TestPrefilterConstantPanorama(t *testing.T) {
	const radiance = 0.7
	asset, err := Precompute(context.Background(), constantPanorama(32, 16, radiance), smallOptions())
	require.NoError(t, err)

	require.Equal(t, 1, asset.Environment.MipLevels())
	require.Equal(t, 4, asset.Prefiltered.MipLevels())
	for l, level := range asset.Prefiltered.Levels {
		assert.Equal(t, max(1, 8>>l), level.Size)
		for f, face := range level.Faces {
			for i, v := range face {
				require.InDelta(t, radiance, v, 1e-4, "level %d face %d texel %d", l, f, i/3)
			}
		}
	}
	for _, face := range asset.Environment.Levels[0].Faces {
		for _, v := range face {
			require.InDelta(t, radiance, v, 1e-6)
		}
	}
}

func TestPrecomputeIsDeterministicAcrossWorkerCounts(t *testing.T) {
	pano := gradientPanorama(32, 16)
	a := smallOptions()
	a.Workers = 1
	b := smallOptions()
	b.Workers = 7

	ea, err := Precompute(context.Background(), pano, a)
	require.NoError(t, err)
	eb, err := Precompute(context.Background(), pano, b)
	require.NoError(t, err)

	assert.Equal(t, ea.Prefiltered.Levels, eb.Prefiltered.Levels)
	assert.Equal(t, ea.BRDF.Data, eb.BRDF.Data)
}

func TestEnvironmentOrientation(t *testing.T) {
	asset, err := Precompute(context.Background(), gradientPanorama(32, 16), smallOptions())
	require.NoError(t, err)

	up := asset.SampleEnvironment(math.Vec3Up)
	down := asset.SampleEnvironment(math.Vec3Down)
	side := asset.SampleEnvironment(math.Vec3Front)
	assert.Greater(t, up[0], side[0])
	assert.Greater(t, side[0], down[0])
}

func TestMirrorLevelMatchesSource(t *testing.T) {
	pano := gradientPanorama(32, 16)
	opts := smallOptions()
	asset, err := Precompute(context.Background(), pano, opts)
	require.NoError(t, err)

	level := &asset.Prefiltered.Levels[0]
	for f := 0; f < math.CubeFaceCount; f++ {
		face := math.CubeFace(f)
		for y := 0; y < level.Size; y++ {
			dir := math.CubeTexelDirection(face, 0, y, level.Size)
			want := asset.Environment.SampleLod(dir, 0)
			got := level.Texel(face, 0, y)
			assert.InDelta(t, want[0], got[0], 1e-5)
		}
	}
}

// Wider lobes average over more of the sky, so a direction that looks at the
// bright zenith sees less radiance on the roughest level.
func TestPrefilterBlursWithRoughness(t *testing.T) {
	asset, err := Precompute(context.Background(), gradientPanorama(64, 32), smallOptions())
	require.NoError(t, err)

	sharp := asset.SamplePrefiltered(math.Vec3Up, 0)
	for lod := float32(1); lod <= asset.MaxLod(); lod++ {
		c := asset.SamplePrefiltered(math.Vec3Up, lod)
		assert.Less(t, c[0], sharp[0], "lod %v", lod)
	}
	rough := asset.SamplePrefiltered(math.Vec3Up, asset.MaxLod())
	assert.Less(t, rough[0], 0.9*sharp[0])
}

func TestPrecomputeRejectsBadInput(t *testing.T) {
	ctx := context.Background()

	_, err := Precompute(ctx, constantPanorama(30, 10, 1), smallOptions())
	var assetErr *core.AssetError
	assert.True(t, errors.As(err, &assetErr), "aspect: %v", err)

	nan := constantPanorama(16, 8, 1)
	nan.Float[4*17+1] = math32.NaN()
	_, err = Precompute(ctx, nan, smallOptions())
	assert.True(t, errors.As(err, &assetErr), "nan: %v", err)
	assert.Contains(t, err.Error(), "(1, 1)")

	neg := constantPanorama(16, 8, 1)
	neg.Float[0] = -1
	_, err = Precompute(ctx, neg, smallOptions())
	assert.True(t, errors.As(err, &assetErr), "negative: %v", err)

	_, err = Precompute(ctx, nil, smallOptions())
	assert.True(t, errors.As(err, &assetErr))

	// one pixel of slack on the aspect ratio
	_, err = Precompute(ctx, constantPanorama(17, 8, 1), smallOptions())
	assert.NoError(t, err)

	bad := smallOptions()
	bad.PrefilterSize = 4 // 4 levels need at least 8
	_, err = Precompute(ctx, constantPanorama(16, 8, 1), bad)
	var cfgErr *core.PipelineConfigError
	assert.True(t, errors.As(err, &cfgErr), "options: %v", err)
}

func TestPrecomputeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Precompute(ctx, constantPanorama(32, 16, 1), smallOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptions(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, float32(4), opts.RoughnessToLod(1))
	assert.Equal(t, float32(2), opts.RoughnessToLod(0.5))
	assert.Equal(t, float32(0.25), opts.LevelRoughness(1))
}

func TestEquirectUV(t *testing.T) {
	u, v := EquirectUV(math.Vec3{1, 0, 0})
	assert.InDelta(t, 0.5, u, 1e-6)
	assert.InDelta(t, 0.5, v, 1e-6)

	u, _ = EquirectUV(math.Vec3{0, 0, 1})
	assert.InDelta(t, 0.75, u, 1e-6)

	_, v = EquirectUV(math.Vec3{0, 1, 0})
	assert.InDelta(t, 0, v, 1e-6)
	_, v = EquirectUV(math.Vec3{0, -1, 0})
	assert.InDelta(t, 1, v, 1e-6)
}

func TestCubeMapSampleLodBlendsLevels(t *testing.T) {
	c := NewCubeMap(4, 3)
	for l := range c.Levels {
		for f := range c.Levels[l].Faces {
			for i := range c.Levels[l].Faces[f] {
				c.Levels[l].Faces[f][i] = float32(l)
			}
		}
	}
	dir := math.Normalize(math.NewVec3(0.3, -0.2, 0.9))
	assert.InDelta(t, 0.25, c.SampleLod(dir, 0.25)[0], 1e-6)
	assert.InDelta(t, 1.5, c.SampleLod(dir, 1.5)[1], 1e-6)
	assert.InDelta(t, 2, c.SampleLod(dir, 9)[2], 1e-6)
	assert.InDelta(t, 0, c.SampleLod(dir, -1)[0], 1e-6)
	assert.Equal(t, 1, c.Levels[2].Size)
}
