package main

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"deferred-pbr/config"
	"deferred-pbr/ibl"
	"deferred-pbr/internal/logger"
	"deferred-pbr/renderer"
	"deferred-pbr/scene"
)

// buildScene loads or generates every asset and precomputes the environment.
func buildScene(ctx context.Context, cfg config.Config, aspect float32) (renderer.Scene, error) {
	pano, err := loadPanorama(cfg.Environment.Panorama)
	if err != nil {
		return renderer.Scene{}, err
	}

	start := time.Now()
	env, err := ibl.Precompute(ctx, pano, cfg.IBLOptions())
	if err != nil {
		return renderer.Scene{}, fmt.Errorf("precompute environment: %w", err)
	}
	logger.Log.Info("environment ready",
		zap.String("panorama", pano.Name),
		zap.Duration("elapsed", time.Since(start)))

	material, err := scene.LoadSurfaceMaterial("surface", cfg.MaterialPaths())
	if err != nil {
		return renderer.Scene{}, err
	}

	mesh := scene.CreateSphere(1, scene.DefaultSphereSegments, scene.DefaultSphereRings)
	if cfg.Render.Model != "" {
		if mesh, err = scene.LoadModel(cfg.Render.Model); err != nil {
			return renderer.Scene{}, err
		}
	}

	return renderer.Scene{
		Camera:      cfg.NewCamera(aspect),
		Lights:      cfg.PointLights(),
		Objects:     []*scene.Object{scene.NewObject(mesh.Name, mesh, material)},
		Environment: env,
	}, nil
}

func loadPanorama(path string) (*scene.Texture, error) {
	if path != "" {
		return scene.LoadPanorama(path)
	}
	logger.Log.Info("no panorama configured, using a generated sky")
	return gradientSky(256, 128), nil
}

// gradientSky is a stand-in panorama: a bright blue zenith fading to a warm
// horizon over a dark ground.
func gradientSky(w, h int) *scene.Texture {
	data := make([]float32, 4*w*h)
	for y := 0; y < h; y++ {
		elevation := 1 - 2*(float32(y)+0.5)/float32(h) // +1 zenith, -1 nadir
		var r, g, b float32
		if elevation >= 0 {
			t := math32.Pow(elevation, 0.5)
			r, g, b = 1.2-0.9*t, 1.1-0.6*t, 1.0+0.4*t
		} else {
			t := math32.Min(-elevation*4, 1)
			r, g, b = 1.2-0.9*t, 1.1-0.85*t, 1.0-0.8*t
		}
		for x := 0; x < w; x++ {
			i := 4 * (y*w + x)
			data[i], data[i+1], data[i+2], data[i+3] = r, g, b, 1
		}
	}
	t := scene.NewFloatTexture("generated_sky", w, h, data)
	t.WrapT = scene.WrapClampToEdge
	return t
}
