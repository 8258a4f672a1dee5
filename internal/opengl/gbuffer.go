package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-pbr/core"
)

// attachment describes one color target of the G-buffer.
type attachment struct {
	internal int32
	format   uint32
	xtype    uint32
}

var gBufferAttachments = [...]attachment{
	{gl.RGBA32F, gl.RGBA, gl.FLOAT},             // world position
	{gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT},        // linear base color
	{gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT},        // world normal
	{gl.R32UI, gl.RED_INTEGER, gl.UNSIGNED_INT}, // metallic << 16 | roughness
}

const (
	gPosition = iota
	gBaseColor
	gNormal
	gMetallicRoughness
)

// GBuffer is the multi-target framebuffer the geometry pass writes. All
// attachments share one size; depth is a sampleable 32-bit float texture.
type GBuffer struct {
	FBO      uint32
	Color    [len(gBufferAttachments)]uint32
	DepthTex uint32
	Width    int32
	Height   int32
}

func NewGBuffer(width, height int) (*GBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, core.NewPipelineConfigError("gbuffer", "invalid size %dx%d", width, height)
	}
	g := &GBuffer{Width: int32(width), Height: int32(height)}

	gl.GenFramebuffers(1, &g.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, g.FBO)

	drawBuffers := make([]uint32, len(gBufferAttachments))
	for i, a := range gBufferAttachments {
		g.Color[i] = newTargetTexture(a, g.Width, g.Height)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(i), gl.TEXTURE_2D, g.Color[i], 0)
		drawBuffers[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])

	g.DepthTex = newTargetTexture(attachment{gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT}, g.Width, g.Height)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, g.DepthTex, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		g.Destroy()
		return nil, core.NewPipelineConfigError("gbuffer", "framebuffer incomplete: status=0x%X", status)
	}
	return g, nil
}

// newTargetTexture allocates a NEAREST-filtered, edge-clamped render target.
func newTargetTexture(a attachment, width, height int32) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, a.internal, width, height, 0, a.format, a.xtype, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

// Bind makes the G-buffer the draw target and clears it: color to zero,
// packed material to zero, depth to 1.
func (g *GBuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, g.FBO)
	gl.Viewport(0, 0, g.Width, g.Height)

	zero := [4]float32{}
	for i := range gBufferAttachments {
		if i == gMetallicRoughness {
			var packed [4]uint32
			gl.ClearBufferuiv(gl.COLOR, int32(i), &packed[0])
			continue
		}
		gl.ClearBufferfv(gl.COLOR, int32(i), &zero[0])
	}
	depth := float32(1)
	gl.ClearBufferfv(gl.DEPTH, 0, &depth)
}

// BindTextures binds the attachments to consecutive texture units starting
// at unit: position, base color, normal, packed material, depth.
func (g *GBuffer) BindTextures(unit uint32) {
	for i, tex := range g.Color {
		gl.ActiveTexture(gl.TEXTURE0 + unit + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, tex)
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit + uint32(len(g.Color)))
	gl.BindTexture(gl.TEXTURE_2D, g.DepthTex)
}

func (g *GBuffer) Destroy() {
	if g.FBO != 0 {
		gl.DeleteFramebuffers(1, &g.FBO)
		g.FBO = 0
	}
	for i := range g.Color {
		if g.Color[i] != 0 {
			gl.DeleteTextures(1, &g.Color[i])
			g.Color[i] = 0
		}
	}
	if g.DepthTex != 0 {
		gl.DeleteTextures(1, &g.DepthTex)
		g.DepthTex = 0
	}
}
