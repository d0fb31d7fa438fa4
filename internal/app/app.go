// Package app wires the window, renderer, input and mascot viewer into the
// main loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tux-viewer/internal/config"
	"github.com/Faultbox/tux-viewer/internal/engine/capture"
	"github.com/Faultbox/tux-viewer/internal/engine/input"
	"github.com/Faultbox/tux-viewer/internal/engine/lighting"
	"github.com/Faultbox/tux-viewer/internal/engine/renderer"
	"github.com/Faultbox/tux-viewer/internal/engine/window"
	"github.com/Faultbox/tux-viewer/internal/logger"
	"github.com/Faultbox/tux-viewer/internal/mascot/loader"
	"github.com/Faultbox/tux-viewer/internal/mascot/viewer"
)

// Frames rendered after the load resolves before a screenshot is taken.
const settleFrames = 3

// screenshotTimeout bounds a --screenshot run.
const screenshotTimeout = 30 * time.Second

// Window and renderer constructors, replaced in tests.
var (
	openWindow   = window.New
	openRenderer = renderer.New
)

// Options holds per-run settings that do not belong in the config file.
type Options struct {
	Screenshot string // Write one frame here and exit
}

// App is the running viewer application.
type App struct {
	config  *config.Config
	opts    Options
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	viewer   *viewer.Viewer
	status   viewer.Status
}

// New creates the window and renderer and builds the viewer on top of them.
// When no window or GL renderer can be created the app holds an inert viewer
// and Run returns immediately.
func New(cfg *config.Config, opts Options) *App {
	a := &App{
		config: cfg,
		opts:   opts,
		log:    logger.Named("app"),
	}
	a.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("asset", cfg.Asset.Path),
	)

	viewerOpts := viewer.OptionsFromConfig(cfg)
	viewerLog := logger.Named("viewer")

	// Window (this also creates the OpenGL context). The offscreen target
	// does its own multisampling, so the default framebuffer has none.
	var err error
	a.window, err = openWindow(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Hidden:     opts.Screenshot != "",
	})
	if err != nil {
		a.log.Warn("no display surface", zap.Error(err))
		a.viewer = viewer.New(nil, nil, nil, viewerOpts, viewerLog)
		return a
	}

	// Renderer AFTER window, since OpenGL context must exist
	a.renderer, err = openRenderer(renderer.Config{
		Samples:    cfg.Render.Samples,
		Exposure:   cfg.Render.Exposure,
		ClearColor: cfg.Render.ClearColor,
		Lights:     lighting.MascotRig(),
	}, a.window)
	if err != nil {
		a.log.Warn("no GL renderer", zap.Error(err))
		a.window.Close()
		a.window = nil
		a.renderer = nil
		a.viewer = viewer.New(nil, nil, nil, viewerOpts, viewerLog)
		return a
	}

	a.input = input.New()
	a.viewer = viewer.New(a.window, a.renderer, loader.New(logger.Named("loader")), viewerOpts, viewerLog)

	a.log.Info("viewer initialized successfully")
	return a
}

// Viewer returns the mascot viewer.
func (a *App) Viewer() *viewer.Viewer {
	return a.viewer
}

// Run starts the main loop and blocks until the window closes, ctx is
// canceled or a screenshot has been written.
func (a *App) Run(ctx context.Context) error {
	if errors.Is(a.viewer.Err(), viewer.ErrHostUnavailable) {
		a.log.Info("nothing to display")
		return nil
	}

	a.viewer.Start(ctx)
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()
	started := time.Now()
	settled := 0

	a.log.Info("starting main loop")

	for a.running {
		if ctx.Err() != nil {
			break
		}

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		input.Dispatch(a.input.Events(), a.viewer)

		// 2. Update and render
		if err := a.viewer.Frame(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		a.updateTitle()

		// 3. Screenshot runs stop once the asset has settled
		if a.opts.Screenshot != "" {
			if !a.viewer.Loading() {
				settled++
			}
			if settled >= settleFrames || time.Since(started) > screenshotTimeout {
				return a.screenshot()
			}
		}

		// 4. Present (swap buffers)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Stringer("mode", a.viewer.Mode()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// updateTitle shows the load state in the window title when it changes.
func (a *App) updateTitle() {
	s := a.viewer.Status()
	if s == a.status {
		return
	}
	a.status = s
	a.window.SetTitle(windowTitle(a.config.Window.Title, s))
}

func windowTitle(base string, s viewer.Status) string {
	if s == viewer.StatusModel {
		return base
	}
	return fmt.Sprintf("%s (%s)", base, s)
}

func (a *App) screenshot() error {
	pixels, w, h := a.renderer.ReadPixels()
	if err := capture.Write(a.opts.Screenshot, pixels, w, h); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	a.log.Info("screenshot saved",
		zap.String("path", a.opts.Screenshot),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Stringer("status", a.viewer.Status()),
	)
	return nil
}

// Close cleans up application resources. The viewer releases the renderer.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.viewer != nil {
		a.viewer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
