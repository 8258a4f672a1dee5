package ibl

import (
	"runtime"

	"deferred-pbr/core"
)

// Options sizes the precomputed environment.
type Options struct {
	CubeSize       int // face size of the unfiltered environment
	PrefilterSize  int // face size of prefilter mip 0
	MipLevels      int // prefilter levels; level l encodes roughness l/(MipLevels-1)
	SampleCount    int // GGX samples per prefilter texel
	LUTSize        int
	LUTSampleCount int
	Workers        int
}

func DefaultOptions() Options {
	return Options{
		CubeSize:       512,
		PrefilterSize:  128,
		MipLevels:      5,
		SampleCount:    1024,
		LUTSize:        512,
		LUTSampleCount: 1024,
		Workers:        runtime.GOMAXPROCS(0),
	}
}

func (o Options) Validate() error {
	const component = "environment precompute"
	switch {
	case o.CubeSize < 1:
		return core.NewPipelineConfigError(component, "cube size %d < 1", o.CubeSize)
	case o.MipLevels < 2:
		return core.NewPipelineConfigError(component, "need at least 2 prefilter levels, got %d", o.MipLevels)
	case o.PrefilterSize < 1<<(o.MipLevels-1):
		return core.NewPipelineConfigError(component, "prefilter size %d too small for %d levels", o.PrefilterSize, o.MipLevels)
	case o.SampleCount < 1:
		return core.NewPipelineConfigError(component, "sample count %d < 1", o.SampleCount)
	case o.LUTSize < 1:
		return core.NewPipelineConfigError(component, "LUT size %d < 1", o.LUTSize)
	case o.LUTSampleCount < 1:
		return core.NewPipelineConfigError(component, "LUT sample count %d < 1", o.LUTSampleCount)
	}
	return nil
}

// RoughnessToLod maps a roughness onto the prefilter mip range.
func (o Options) RoughnessToLod(roughness float32) float32 {
	return roughness * float32(o.MipLevels-1)
}

// LevelRoughness is the roughness encoded by prefilter level l.
func (o Options) LevelRoughness(l int) float32 {
	return float32(l) / float32(o.MipLevels-1)
}
