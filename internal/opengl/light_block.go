package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-pbr/renderer"
	"deferred-pbr/scene"
)

const lightBlockBinding = 0

// lightBlockData mirrors the std140 LightBlock in the resolve shader: each
// light is two vec4s, followed by an ivec4 whose x is the count.
type lightBlockData struct {
	Lights [renderer.MaxPointLights]struct {
		Position  [4]float32
		Intensity [4]float32
	}
	Count [4]int32
}

const sizeofLightBlock = unsafe.Sizeof(lightBlockData{})

type lightBlock struct {
	ubo  uint32
	data lightBlockData
}

func newLightBlock() *lightBlock {
	b := &lightBlock{}
	gl.GenBuffers(1, &b.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, int(sizeofLightBlock), nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return b
}

// upload rewrites the whole block; lights beyond the count are zeroed.
func (b *lightBlock) upload(lights []scene.PointLight) {
	b.data = lightBlockData{}
	for i, l := range lights {
		b.data.Lights[i].Position = [4]float32{l.Position[0], l.Position[1], l.Position[2], 1}
		b.data.Lights[i].Intensity = [4]float32{l.Intensity[0], l.Intensity[1], l.Intensity[2], 0}
	}
	b.data.Count[0] = int32(len(lights))

	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, int(sizeofLightBlock), gl.Ptr(&b.data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, lightBlockBinding, b.ubo)
}

func (b *lightBlock) destroy() {
	if b.ubo != 0 {
		gl.DeleteBuffers(1, &b.ubo)
		b.ubo = 0
	}
}
