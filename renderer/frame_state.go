package renderer

import (
	"deferred-pbr/core"
)

type Pass int

const (
	PassGeometry Pass = iota
	PassLighting
	PassSkybox
	PassPresent
)

func (p Pass) String() string {
	switch p {
	case PassGeometry:
		return "geometry"
	case PassLighting:
		return "lighting"
	case PassSkybox:
		return "skybox"
	case PassPresent:
		return "present"
	default:
		return "unknown"
	}
}

// FrameState tracks which passes ran in the current frame so a backend can
// refuse to read the G-buffer before it was written. The geometry pass opens
// a new frame; every other pass must follow its predecessor exactly once.
type FrameState struct {
	ran       [PassPresent + 1]bool
	presented bool
}

// Begin records that pass p is starting, or returns a RuntimeStateError if
// the passes it depends on have not run this frame.
func (s *FrameState) Begin(p Pass) error {
	if p == PassGeometry {
		s.ran = [PassPresent + 1]bool{}
		s.ran[PassGeometry] = true
		return nil
	}
	if p < PassGeometry || p > PassPresent {
		return core.NewRuntimeStateError(p.String(), "unknown pass %d", int(p))
	}
	prev := p - 1
	if !s.ran[prev] {
		if !s.ran[PassGeometry] {
			return core.NewRuntimeStateError(p.String(), "g-buffer read before the geometry pass wrote it")
		}
		return core.NewRuntimeStateError(p.String(), "%s pass has not run this frame", prev)
	}
	if s.ran[p] {
		return core.NewRuntimeStateError(p.String(), "pass already ran this frame")
	}
	s.ran[p] = true
	if p == PassPresent {
		s.presented = true
	}
	return nil
}

// Presented reports whether any frame has completed.
func (s *FrameState) Presented() bool {
	return s.presented
}
