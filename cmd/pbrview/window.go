package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"deferred-pbr/config"
	"deferred-pbr/core/window"
	"deferred-pbr/internal/logger"
	"deferred-pbr/internal/opengl"
	"deferred-pbr/renderer"
)

// orbitStep is the angle one arrow key press moves the camera, in degrees.
const orbitStep = 5

func runWindow(ctx context.Context, cfg config.Config) error {
	win, err := window.New(window.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	backend, err := opengl.New(opengl.Options{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		ShaderDir: cfg.Render.ShaderDir,
		Screen:    win.FramebufferSize,
	})
	if err != nil {
		return err
	}
	sc, err := buildScene(ctx, cfg, backend.Viewport().Aspect())
	if err != nil {
		backend.Destroy()
		return err
	}
	r, err := renderer.New(backend, sc, renderer.Options{Exposure: cfg.Render.Exposure})
	if err != nil {
		backend.Destroy()
		return err
	}
	defer r.Close()

	screenshots := 0
	win.SetKeyCallback(func(key int) {
		cam := r.Camera()
		switch key {
		case window.KeyEscape:
			win.Close()
		case window.KeyLeft:
			r.SetOrbit(cam.Theta, cam.Phi-orbitStep)
		case window.KeyRight:
			r.SetOrbit(cam.Theta, cam.Phi+orbitStep)
		case window.KeyUp:
			r.SetOrbit(cam.Theta-orbitStep, cam.Phi)
		case window.KeyDown:
			r.SetOrbit(cam.Theta+orbitStep, cam.Phi)
		case window.KeyP:
			path := "screenshot.png"
			if screenshots > 0 {
				path = fmt.Sprintf("screenshot-%d.png", screenshots)
			}
			if err := saveScreenshot(r, path); err != nil {
				logger.Log.Error("screenshot failed", zap.Error(err))
				return
			}
			screenshots++
		}
	})

	for !win.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.RenderFrame(); err != nil {
			return err
		}
		win.SwapBuffers()
		win.PollEvents()
	}
	logger.Log.Info("window closed", zap.Uint64("frames", r.Frames()))
	return nil
}
