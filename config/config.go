// Package config loads the viewer settings from TOML. Every field has a
// default; a file only needs to name what it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"deferred-pbr/core"
	"deferred-pbr/ibl"
	"deferred-pbr/math"
	"deferred-pbr/scene"
)

type Config struct {
	Window      Window      `toml:"window"`
	Camera      Camera      `toml:"camera"`
	Lights      []Light     `toml:"lights"`
	Environment Environment `toml:"environment"`
	Material    Material    `toml:"material"`
	Render      Render      `toml:"render"`
}

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

type Camera struct {
	Theta      float32 `toml:"theta"`
	Phi        float32 `toml:"phi"`
	Radius     float32 `toml:"radius"`
	FOVDegrees float32 `toml:"fov_degrees"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
}

type Light struct {
	Position  [3]float32 `toml:"position"`
	Intensity [3]float32 `toml:"intensity"`
}

type Environment struct {
	Panorama       string `toml:"panorama"`
	CubeSize       int    `toml:"cube_size"`
	PrefilterSize  int    `toml:"prefilter_size"`
	MipLevels      int    `toml:"mip_levels"`
	SampleCount    int    `toml:"sample_count"`
	LUTSize        int    `toml:"lut_size"`
	LUTSampleCount int    `toml:"lut_sample_count"`
	Workers        int    `toml:"workers"` // 0 selects GOMAXPROCS
}

// Material names the four texture files; an empty path keeps the flat
// fallback for that slot.
type Material struct {
	BaseColor string `toml:"base_color"`
	Normal    string `toml:"normal"`
	Metallic  string `toml:"metallic"`
	Roughness string `toml:"roughness"`
}

type Render struct {
	Exposure  float32 `toml:"exposure"`
	ShaderDir string  `toml:"shader_dir"`
	Model     string  `toml:"model"` // optional .obj, .gltf or .glb replacing the sphere
	LogLevel  string  `toml:"log_level"`
}

func Default() Config {
	env := ibl.DefaultOptions()
	cfg := Config{
		Window: Window{Width: 1440, Height: 810, Title: "Deferred Shading", VSync: true},
		Camera: Camera{Theta: 90, Phi: 0, Radius: 4, FOVDegrees: 45, Near: 0.1, Far: 100},
		Environment: Environment{
			CubeSize:       env.CubeSize,
			PrefilterSize:  env.PrefilterSize,
			MipLevels:      env.MipLevels,
			SampleCount:    env.SampleCount,
			LUTSize:        env.LUTSize,
			LUTSampleCount: env.LUTSampleCount,
		},
		Render: Render{Exposure: 1, LogLevel: "info"},
	}
	for _, l := range scene.DefaultLights() {
		cfg.Lights = append(cfg.Lights, Light{Position: l.Position, Intensity: l.Intensity})
	}
	return cfg
}

// Load overlays the file at path on the defaults. Unknown keys are an error.
// A [[lights]] table in the file replaces the default rig entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, &core.AssetError{Asset: path, Err: err}
	}
	if err := Decode(raw, &cfg); err != nil {
		return cfg, &core.AssetError{Asset: path, Err: err}
	}
	return cfg, cfg.Validate()
}

// Decode overlays TOML data on cfg.
func Decode(data []byte, cfg *Config) error {
	var probe struct {
		Lights []Light `toml:"lights"`
	}
	if err := toml.Unmarshal(data, &probe); err != nil {
		return describe(err)
	}
	if probe.Lights != nil {
		cfg.Lights = nil
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return describe(err)
	}
	return nil
}

func describe(err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return fmt.Errorf("unknown keys:\n%s", strict.String())
	}
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return fmt.Errorf("line %d column %d: %w", row, col, err)
	}
	return err
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return core.NewPipelineConfigError("config window", "invalid size %dx%d", c.Window.Width, c.Window.Height)
	case c.Camera.Radius <= 0:
		return core.NewPipelineConfigError("config camera", "radius %g must be positive", c.Camera.Radius)
	case c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180:
		return core.NewPipelineConfigError("config camera", "fov %g outside (0, 180)", c.Camera.FOVDegrees)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return core.NewPipelineConfigError("config camera", "clip planes near %g far %g", c.Camera.Near, c.Camera.Far)
	case c.Render.Exposure <= 0:
		return core.NewPipelineConfigError("config render", "exposure %g must be positive", c.Render.Exposure)
	}
	for i, l := range c.Lights {
		for _, v := range append(l.Position[:], l.Intensity[:]...) {
			if !math.IsFiniteScalar(v) {
				return core.NewPipelineConfigError("config lights", "light %d has a non-finite value", i)
			}
		}
		for _, v := range l.Intensity {
			if v < 0 {
				return core.NewPipelineConfigError("config lights", "light %d has negative intensity", i)
			}
		}
	}
	return c.IBLOptions().Validate()
}

func (c Config) IBLOptions() ibl.Options {
	e := c.Environment
	return ibl.Options{
		CubeSize:       e.CubeSize,
		PrefilterSize:  e.PrefilterSize,
		MipLevels:      e.MipLevels,
		SampleCount:    e.SampleCount,
		LUTSize:        e.LUTSize,
		LUTSampleCount: e.LUTSampleCount,
		Workers:        e.Workers,
	}
}

// NewCamera builds the orbit camera for an aspect ratio.
func (c Config) NewCamera(aspect float32) *scene.Camera {
	cam := scene.NewOrbitCamera(c.Camera.Radius, math.Radians(c.Camera.FOVDegrees), aspect, c.Camera.Near, c.Camera.Far)
	cam.SetOrbit(c.Camera.Theta, c.Camera.Phi)
	return cam
}

func (c Config) PointLights() []scene.PointLight {
	out := make([]scene.PointLight, len(c.Lights))
	for i, l := range c.Lights {
		out[i] = scene.PointLight{Position: l.Position, Intensity: l.Intensity}
	}
	return out
}

func (c Config) MaterialPaths() scene.MaterialPaths {
	return scene.MaterialPaths{
		BaseColor: c.Material.BaseColor,
		Normal:    c.Material.Normal,
		Metallic:  c.Material.Metallic,
		Roughness: c.Material.Roughness,
	}
}
