package core

import "fmt"

// AssetError reports an input asset that could not be decoded or is not
// usable (wrong dimensions, non-finite radiance). Fatal at startup.
type AssetError struct {
	Asset string
	Err   error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %q: %v", e.Asset, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// PipelineConfigError reports a pipeline that cannot be built: shader
// compile or link failures, incomplete framebuffers, mismatched attachments,
// invalid precompute options or an unsupported vertex layout.
type PipelineConfigError struct {
	Component string
	Err       error
}

func (e *PipelineConfigError) Error() string {
	return fmt.Sprintf("pipeline %s: %v", e.Component, e.Err)
}

func (e *PipelineConfigError) Unwrap() error { return e.Err }

// RuntimeStateError reports a violated per-frame contract, such as a pass
// running before the pass it depends on. It indicates a programming error.
type RuntimeStateError struct {
	Pass string
	Err  error
}

func (e *RuntimeStateError) Error() string {
	return fmt.Sprintf("frame state (%s pass): %v", e.Pass, e.Err)
}

func (e *RuntimeStateError) Unwrap() error { return e.Err }

func NewAssetError(asset string, format string, args ...any) error {
	return &AssetError{Asset: asset, Err: fmt.Errorf(format, args...)}
}

func NewPipelineConfigError(component string, format string, args ...any) error {
	return &PipelineConfigError{Component: component, Err: fmt.Errorf(format, args...)}
}

func NewRuntimeStateError(pass string, format string, args ...any) error {
	return &RuntimeStateError{Pass: pass, Err: fmt.Errorf(format, args...)}
}
