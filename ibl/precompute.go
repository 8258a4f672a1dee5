// Package ibl turns an equirectangular HDR panorama into the environment
// data image-based lighting samples: an environment cube map, a GGX
// prefiltered specular cube map and the split-sum BRDF table.
package ibl

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"deferred-pbr/internal/logger"
	"deferred-pbr/internal/parallel"
	"deferred-pbr/math"
	"deferred-pbr/scene"
	"deferred-pbr/shading"
)

// EnvironmentAsset is the immutable result of Precompute. It is shared
// read-only by the lighting and skybox passes.
type EnvironmentAsset struct {
	Options     Options
	Environment *CubeMap // one level, Options.CubeSize
	Prefiltered *CubeMap // Options.MipLevels levels from Options.PrefilterSize
	BRDF        *BRDFLUT
}

// SampleEnvironment returns the unfiltered radiance along dir.
func (e *EnvironmentAsset) SampleEnvironment(dir math.Vec3) math.Vec3 {
	return e.Environment.Levels[0].Sample(dir)
}

func (e *EnvironmentAsset) SamplePrefiltered(dir math.Vec3, lod float32) math.Vec3 {
	return e.Prefiltered.SampleLod(dir, lod)
}

func (e *EnvironmentAsset) MaxLod() float32 {
	return float32(e.Prefiltered.MipLevels() - 1)
}

func (e *EnvironmentAsset) LookupBRDF(NdotV, roughness float32) (float32, float32) {
	return e.BRDF.Lookup(NdotV, roughness)
}

// Precompute builds an EnvironmentAsset from a float panorama. It is
// deterministic for a given input and options, and is meant to run once at
// startup, never inside the frame loop.
func Precompute(ctx context.Context, panorama *scene.Texture, opts Options) (*EnvironmentAsset, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ValidatePanorama(panorama); err != nil {
		return nil, err
	}
	workers := parallel.Workers(opts.Workers)
	start := time.Now()

	source, err := equirectToCube(ctx, panorama, opts.CubeSize, workers)
	if err != nil {
		return nil, fmt.Errorf("equirect to cube: %w", err)
	}
	logger.Log.Debug("environment cube built", zap.Int("size", opts.CubeSize), zap.Duration("elapsed", time.Since(start)))

	prefiltered, err := prefilter(ctx, source, opts, workers)
	if err != nil {
		return nil, fmt.Errorf("specular prefilter: %w", err)
	}
	logger.Log.Debug("specular prefilter built", zap.Int("size", opts.PrefilterSize), zap.Int("levels", opts.MipLevels), zap.Duration("elapsed", time.Since(start)))

	lut, err := ComputeBRDFLUT(ctx, opts.LUTSize, opts.LUTSampleCount, workers)
	if err != nil {
		return nil, fmt.Errorf("brdf lut: %w", err)
	}
	logger.Log.Debug("brdf lut built", zap.Int("size", opts.LUTSize), zap.Duration("elapsed", time.Since(start)))

	return &EnvironmentAsset{
		Options:     opts,
		Environment: &CubeMap{Levels: source.Levels[:1]},
		Prefiltered: prefiltered,
		BRDF:        lut,
	}, nil
}

// equirectToCube resamples the panorama onto a cube map with a full mip
// chain. Only level 0 is exposed; the chain feeds the prefilter.
func equirectToCube(ctx context.Context, pano *scene.Texture, size, workers int) (*CubeMap, error) {
	cube := NewCubeMap(size, fullMipCount(size))
	base := &cube.Levels[0]
	err := parallel.Rows(ctx, workers, math.CubeFaceCount*size, func(row int) {
		face, y := math.CubeFace(row/size), row%size
		for x := 0; x < size; x++ {
			dir := math.CubeTexelDirection(face, x, y, size)
			base.SetTexel(face, x, y, SampleEquirect(pano, dir))
		}
	})
	if err != nil {
		return nil, err
	}
	cube.buildMipChain()
	return cube, nil
}

func prefilter(ctx context.Context, source *CubeMap, opts Options, workers int) (*CubeMap, error) {
	out := NewCubeMap(opts.PrefilterSize, opts.MipLevels)
	texelSolidAngle := math.CubeTexelSolidAngle(source.Size())
	for l := range out.Levels {
		level := &out.Levels[l]
		roughness := opts.LevelRoughness(l)
		size := level.Size
		err := parallel.Rows(ctx, workers, math.CubeFaceCount*size, func(row int) {
			face, y := math.CubeFace(row/size), row%size
			for x := 0; x < size; x++ {
				N := math.CubeTexelDirection(face, x, y, size)
				level.SetTexel(face, x, y, prefilterTexel(source, N, roughness, opts.SampleCount, texelSolidAngle))
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// prefilterTexel convolves the environment with the GGX lobe around N under
// the N = V = R assumption. Samples of wide lobes read from coarser source
// mips in proportion to the solid angle each sample represents.
func prefilterTexel(source *CubeMap, N math.Vec3, roughness float32, sampleCount int, texelSolidAngle float32) math.Vec3 {
	if roughness == 0 {
		return source.SampleLod(N, 0)
	}
	V := N
	var sum math.Vec3
	var weight float32
	for i := 0; i < sampleCount; i++ {
		xi := shading.Hammersley(uint32(i), uint32(sampleCount))
		H := shading.ImportanceSampleGGX(xi, N, roughness)
		L := math.Reflect(V.Mul(-1), H)

		NdotL := N.Dot(L)
		if NdotL <= 0 {
			continue
		}
		NdotH := math32.Max(N.Dot(H), 0)
		HdotV := math32.Max(H.Dot(V), 1e-4)
		sampleSolidAngle := shading.SampleSolidAngle(NdotH, HdotV, roughness, sampleCount)
		lod := math32.Max(0.5*math32.Log2(sampleSolidAngle/texelSolidAngle), 0)

		sum = sum.Add(source.SampleLod(L, lod).Mul(NdotL))
		weight += NdotL
	}
	if weight == 0 {
		return source.SampleLod(N, 0)
	}
	return sum.Mul(1 / weight)
}
