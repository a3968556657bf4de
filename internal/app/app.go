// Package app wires the window, input, config and pipeline into the
// viewer's main loop.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-floor/internal/config"
	"github.com/Faultbox/midgard-floor/internal/engine/debug"
	"github.com/Faultbox/midgard-floor/internal/engine/input"
	"github.com/Faultbox/midgard-floor/internal/engine/window"
	"github.com/Faultbox/midgard-floor/internal/logger"
	"github.com/Faultbox/midgard-floor/internal/metrics"
	"github.com/Faultbox/midgard-floor/internal/pipeline"
	"github.com/Faultbox/midgard-floor/pkg/math"
)

// App is the floor viewer instance.
type App struct {
	cfg     *config.Config
	floor   config.FloorConfig
	running bool
	capture bool
	start   time.Time
	log     *zap.Logger

	window    *window.Window
	canvas    *windowCanvas
	input     *input.Input
	frames    *frameQueue
	pipeline  *pipeline.Pipeline
	resize    *Debouncer
	watcher   *config.Watcher
	collector *metrics.Collector
	shots     *debug.Screenshots

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the window and initializes the pipeline.
func New(cfg *config.Config) (*App, error) {
	settings, err := Settings(cfg.Floor)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		floor:  cfg.Floor,
		start:  time.Now(),
		log:    logger.Named("app"),
		input:  input.New(),
		frames: &frameQueue{},
		resize: NewDebouncer(cfg.Resize.DebounceTimeout),
		shots:  debug.NewScreenshots(cfg.Debug.ScreenshotDir, "floor"),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	math.SetStrict(cfg.Debug.StrictNumerics)

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	a.canvas = &windowCanvas{win: a.window}

	opts := []pipeline.Option{
		pipeline.WithSettings(settings),
		pipeline.WithNow(a.millis),
	}
	if cfg.Metrics.Addr != "" {
		a.collector = metrics.New()
		opts = append(opts, pipeline.WithMetrics(a.collector))
		metrics.Serve(a.ctx, metrics.NewServer(cfg.Metrics.Addr, a.collector))
	}

	a.pipeline, err = pipeline.New(a.canvas, a.frames, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	if err := a.pipeline.Initialize(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	if cfg.Watch.Enabled {
		a.startWatcher()
	}

	a.log.Info("viewer initialized", zap.Stringer("status", a.pipeline.Status()))
	return a, nil
}

// Run starts the pipeline and runs the main loop until quit.
func (a *App) Run() error {
	if err := a.pipeline.Start(); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}
	a.running = true
	a.log.Info("starting main loop")

	for a.running {
		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}

		now := time.Now()
		for _, event := range a.input.Events() {
			switch event.Type {
			case input.EventWindowResize:
				if a.cfg.Resize.Listen {
					a.resize.Trigger(now)
				}
			case input.EventKeyDown:
				a.handleKey(event.Key)
			}
		}

		// 2. Apply debounced resize and config reloads
		if a.resize.Fire(now) {
			if err := a.pipeline.Recalculate(); err != nil {
				a.log.Warn("resize rejected", zap.Error(err))
			}
		}
		a.applyReloads()

		// 3. Render
		if a.frames.run(a.millis()) {
			if a.capture {
				a.saveScreenshot()
			}
			a.window.SwapBuffers()
		}
	}

	a.pipeline.Stop()
	a.log.Info("main loop stopped")
	return nil
}

// Close releases GPU, window and background resources.
func (a *App) Close() {
	a.cancel()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("close config watcher", zap.Error(err))
		}
	}
	if a.pipeline != nil {
		a.pipeline.Close()
	}
	if a.canvas != nil {
		a.canvas.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// Pipeline returns the render pipeline.
func (a *App) Pipeline() *pipeline.Pipeline { return a.pipeline }

func (a *App) millis() float64 {
	return float64(time.Since(a.start)) / float64(time.Millisecond)
}

func (a *App) handleKey(key input.Key) {
	if key == input.KeyScreenshot {
		a.capture = true
		return
	}
	next, quit := Control(key, a.floor)
	if quit {
		a.running = false
		return
	}
	a.apply(next)
}

// apply forwards changed fields and keeps the values the pipeline accepted.
func (a *App) apply(next config.FloorConfig) {
	if err := Bind(a.floor, next, a.pipeline); err != nil {
		a.log.Warn("floor settings rejected", zap.Error(err))
	}
	a.floor = FloorConfig(a.pipeline.Settings())
}

func (a *App) saveScreenshot() {
	a.capture = false
	pixels, width, height, err := a.pipeline.ReadFrame()
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	path, err := a.shots.Save(pixels, width, height)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

func (a *App) startWatcher() {
	path := config.ResolvePath()
	w, err := config.NewWatcher(path, a.cfg.Watch.Debounce)
	if err != nil {
		a.log.Warn("config hot reload disabled", zap.Error(err))
		return
	}
	if err := w.Start(a.ctx); err != nil {
		a.log.Warn("config hot reload disabled", zap.Error(err))
		w.Close()
		return
	}
	a.watcher = w
}

func (a *App) applyReloads() {
	if a.watcher == nil {
		return
	}
	select {
	case cfg := <-a.watcher.Updates():
		a.apply(cfg.Floor)
		a.cfg.Resize = cfg.Resize
		a.resize.SetTimeout(cfg.Resize.DebounceTimeout)
		if !cfg.Resize.Listen {
			a.resize.Cancel()
		}
		math.SetStrict(cfg.Debug.StrictNumerics)
	default:
	}
}
