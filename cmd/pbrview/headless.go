package main

import (
	"context"

	"github.com/anthonynsimon/bild/imgio"
	"go.uber.org/zap"

	"deferred-pbr/config"
	"deferred-pbr/internal/logger"
	"deferred-pbr/internal/software"
	"deferred-pbr/renderer"
)

// runHeadless renders one frame with the CPU backend and writes it as PNG.
func runHeadless(ctx context.Context, cfg config.Config, out string) error {
	backend, err := software.New(software.Options{
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Workers: cfg.Environment.Workers,
	})
	if err != nil {
		return err
	}
	sc, err := buildScene(ctx, cfg, backend.Viewport().Aspect())
	if err != nil {
		return err
	}
	r, err := renderer.New(backend, sc, renderer.Options{Exposure: cfg.Render.Exposure})
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.RenderFrame(); err != nil {
		return err
	}
	return saveScreenshot(r, out)
}

func saveScreenshot(r *renderer.Orchestrator, path string) error {
	img, err := r.Screenshot()
	if err != nil {
		return err
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return err
	}
	logger.Log.Info("screenshot saved", zap.String("path", path))
	return nil
}
