package opengl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"deferred-pbr/core"
	"deferred-pbr/internal/logger"
)

// Logical program names.
const (
	ShaderGBuffer    = "gBuffer"
	ShaderPBRResolve = "pbrResolve"
	ShaderSkybox     = "skybox"
	ShaderPresent    = "present"
)

type ShaderSource struct {
	Vertex   string
	Fragment string
}

func builtinShaders() map[string]ShaderSource {
	return map[string]ShaderSource{
		ShaderGBuffer:    {Vertex: gBufferVertSrc, Fragment: gBufferFragSrc},
		ShaderPBRResolve: {Vertex: fullscreenVertSrc, Fragment: pbrResolveFragSrc},
		ShaderSkybox:     {Vertex: skyboxVertSrc, Fragment: skyboxFragSrc},
		ShaderPresent:    {Vertex: fullscreenVertSrc, Fragment: presentFragSrc},
	}
}

// ShaderLibrary compiles programs by logical name. Sources come from the
// built-in set unless dir holds <name>.vert or <name>.frag.
type ShaderLibrary struct {
	sources  map[string]ShaderSource
	programs map[string]uint32
}

func NewShaderLibrary(dir string) (*ShaderLibrary, error) {
	sources := builtinShaders()
	if dir != "" {
		for name, src := range sources {
			vert, err := readOverride(filepath.Join(dir, name+".vert"))
			if err != nil {
				return nil, err
			}
			frag, err := readOverride(filepath.Join(dir, name+".frag"))
			if err != nil {
				return nil, err
			}
			if vert != "" {
				src.Vertex = vert
			}
			if frag != "" {
				src.Fragment = frag
			}
			if vert != "" || frag != "" {
				logger.Log.Info("shader override", zap.String("program", name), zap.String("dir", dir))
			}
			sources[name] = src
		}
	}
	return &ShaderLibrary{sources: sources, programs: make(map[string]uint32)}, nil
}

func readOverride(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &core.AssetError{Asset: path, Err: err}
	}
	return string(b), nil
}

// Program returns the linked program for name, compiling it on first use.
func (l *ShaderLibrary) Program(name string) (uint32, error) {
	if prog, ok := l.programs[name]; ok {
		return prog, nil
	}
	src, ok := l.sources[name]
	if !ok {
		return 0, core.NewPipelineConfigError("shader library", "unknown program %q", name)
	}
	prog, err := newProgram(src.Vertex, src.Fragment)
	if err != nil {
		return 0, &core.PipelineConfigError{Component: "shader " + name, Err: err}
	}
	l.programs[name] = prog
	return prog, nil
}

func (l *ShaderLibrary) Destroy() {
	for name, prog := range l.programs {
		gl.DeleteProgram(prog)
		delete(l.programs, name)
	}
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// uniforms caches uniform locations of one program.
type uniforms struct {
	prog uint32
	locs map[string]int32
}

func newUniforms(prog uint32) *uniforms {
	return &uniforms{prog: prog, locs: make(map[string]int32)}
}

func (u *uniforms) loc(name string) int32 {
	if l, ok := u.locs[name]; ok {
		return l
	}
	l := gl.GetUniformLocation(u.prog, gl.Str(name+"\x00"))
	u.locs[name] = l
	return l
}
