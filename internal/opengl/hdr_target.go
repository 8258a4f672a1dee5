package opengl

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-pbr/core"
)

// HDRTarget is the RGBA16F buffer the lighting and skybox passes write, plus
// the RGBA8 buffer present tone maps into. The presented image is blitted
// to the default framebuffer when one is visible and read back from here.
type HDRTarget struct {
	FBO      uint32
	ColorTex uint32
	LDRFBO   uint32
	LDRTex   uint32
	Width    int32
	Height   int32

	quadVAO uint32 // empty VAO for the fullscreen triangle
}

func NewHDRTarget(width, height int) (*HDRTarget, error) {
	t := &HDRTarget{Width: int32(width), Height: int32(height)}
	gl.GenVertexArrays(1, &t.quadVAO)

	var err error
	t.FBO, t.ColorTex, err = singleTargetFBO(attachment{gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT}, t.Width, t.Height)
	if err != nil {
		t.Destroy()
		return nil, err
	}
	t.LDRFBO, t.LDRTex, err = singleTargetFBO(attachment{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}, t.Width, t.Height)
	if err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

func singleTargetFBO(a attachment, width, height int32) (uint32, uint32, error) {
	var fbo uint32
	tex := newTargetTexture(a, width, height)
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &tex)
		return 0, 0, core.NewPipelineConfigError("hdr target", "framebuffer incomplete: status=0x%X", status)
	}
	return fbo, tex, nil
}

// Bind makes the HDR buffer the draw target and clears it to black.
func (t *HDRTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.Viewport(0, 0, t.Width, t.Height)
	black := [4]float32{0, 0, 0, 1}
	gl.ClearBufferfv(gl.COLOR, 0, &black[0])
}

// Use makes the HDR buffer the draw target without clearing it.
func (t *HDRTarget) Use() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.Viewport(0, 0, t.Width, t.Height)
}

// UseLDR makes the presentation buffer the draw target.
func (t *HDRTarget) UseLDR() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.LDRFBO)
	gl.Viewport(0, 0, t.Width, t.Height)
}

// DrawFullscreen issues the three-vertex fullscreen triangle.
func (t *HDRTarget) DrawFullscreen() {
	gl.BindVertexArray(t.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

// BlitToScreen copies the presented image to the default framebuffer.
func (t *HDRTarget) BlitToScreen(screenW, screenH int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.LDRFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, t.Width, t.Height, 0, 0, screenW, screenH, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadPixels returns the presented image top row first. GL rows start at
// the bottom, so the read-back is flipped.
func (t *HDRTarget) ReadPixels() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(t.Width), int(t.Height)))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.LDRFBO)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, t.Width, t.Height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return transform.FlipV(img)
}

func (t *HDRTarget) Destroy() {
	for _, fbo := range []*uint32{&t.FBO, &t.LDRFBO} {
		if *fbo != 0 {
			gl.DeleteFramebuffers(1, fbo)
			*fbo = 0
		}
	}
	for _, tex := range []*uint32{&t.ColorTex, &t.LDRTex} {
		if *tex != 0 {
			gl.DeleteTextures(1, tex)
			*tex = 0
		}
	}
	if t.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &t.quadVAO)
		t.quadVAO = 0
	}
}
