package core

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsMatchThroughWrapping(t *testing.T) {
	base := &AssetError{Asset: "sky.hdr", Err: io.ErrUnexpectedEOF}
	wrapped := fmt.Errorf("load environment: %w", base)

	var assetErr *AssetError
	require.True(t, errors.As(wrapped, &assetErr))
	assert.Equal(t, "sky.hdr", assetErr.Asset)
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)

	var cfgErr *PipelineConfigError
	assert.False(t, errors.As(wrapped, &cfgErr))
}

func TestErrorMessages(t *testing.T) {
	assert.EqualError(t, NewPipelineConfigError("gbuffer", "size %dx%d", 0, 4), "pipeline gbuffer: size 0x4")
	assert.EqualError(t, NewRuntimeStateError("lighting", "g-buffer not written"), "frame state (lighting pass): g-buffer not written")
	assert.Contains(t, NewAssetError("albedo.png", "empty image").Error(), `"albedo.png"`)
}

func TestViewportAspect(t *testing.T) {
	assert.InDelta(t, 16.0/9.0, Viewport{Width: 1440, Height: 810}.Aspect(), 1e-6)
	assert.Equal(t, float32(1), Viewport{}.Aspect())
}
