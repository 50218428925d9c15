// Package app hosts a vga.Screen: it owns the output surface, drives the
// fixed-rate update/draw loop, routes terminal input to the console and
// applies configuration reloads between frames.
package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sabrevga/internal/config"
	"github.com/dshills/sabrevga/internal/config/watcher"
	"github.com/dshills/sabrevga/internal/logging"
	"github.com/dshills/sabrevga/internal/renderer/backend"
	"github.com/dshills/sabrevga/internal/renderer/core"
	"github.com/dshills/sabrevga/internal/vga"
)

// DefaultBanner is printed when the console starts.
const DefaultBanner = "SABREVGA READY\n"

// Options configures the application.
type Options struct {
	// ConfigPath is the file watched for reloads when Host.Watch is set.
	ConfigPath string

	// Reload rebuilds the configuration when ConfigPath changes. The
	// default is config.Resolve, which does not know about command-line
	// overrides.
	Reload watcher.LoadFunc

	// Mode overrides the resolved host mode.
	Mode *Mode

	// Banner is printed at startup. Empty prints nothing.
	Banner string

	// TerminalScreen replaces the process terminal, e.g. with a tcell
	// simulation screen.
	TerminalScreen tcell.Screen

	Logger *logging.Logger
}

// Application is the console host.
type Application struct {
	mu sync.Mutex

	cfg    *config.Config
	opts   Options
	mode   Mode
	logger *logging.Logger

	screen *vga.Screen
	term   *backend.Terminal
	raster *backend.Raster

	// blink is applied to typed characters; F4 toggles it.
	blink bool

	events  chan backend.Event
	reloads chan *config.Config

	running atomic.Bool
	frames  atomic.Int64
}

// New creates the host surface and the screen. cfg must be valid.
func New(cfg *config.Config, opts Options) (*Application, error) {
	app := &Application{
		cfg:     cfg.Clone(),
		opts:    opts,
		logger:  opts.Logger,
		events:  make(chan backend.Event, 64),
		reloads: make(chan *config.Config, 1),
	}
	if app.logger == nil {
		app.logger = logging.Default()
	}
	app.logger = app.logger.WithComponent("app")

	if opts.Mode != nil {
		app.mode = *opts.Mode
	} else {
		mode, err := ResolveMode(cfg.Host.Mode)
		if err != nil {
			return nil, &InitError{Component: "host", Err: err}
		}
		app.mode = mode
	}

	font, err := LoadFont(cfg.Font)
	if err != nil {
		return nil, &InitError{Component: "font", Err: err}
	}

	screenOpts, err := cfg.ScreenOptions()
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	screenOpts.Logger = opts.Logger

	var dev backend.Device
	switch app.mode {
	case ModeTerminal:
		if err := app.initTerminal(); err != nil {
			return nil, err
		}
		screenOpts.Size = app.term.Size()
		dev = app.term
	case ModeHeadless:
		raster, err := backend.NewRaster(screenOpts.Size)
		if err != nil {
			return nil, &InitError{Component: "raster", Err: err}
		}
		app.raster = raster
		dev = raster
	default:
		return nil, &InitError{Component: "host", Err: fmt.Errorf("%w: %v", ErrUnknownMode, app.mode)}
	}

	screen, err := vga.New(dev, font, screenOpts)
	if err != nil {
		app.shutdownHost()
		return nil, &InitError{Component: "screen", Err: err}
	}
	app.screen = screen

	if opts.Banner != "" {
		screen.Print(opts.Banner)
	}

	app.logger.Info("started in %s mode, grid %dx%d", app.mode, screen.Columns(), screen.Rows())
	return app, nil
}

func (app *Application) initTerminal() error {
	cell := core.Sz(app.cfg.Screen.CellWidth, app.cfg.Screen.CellHeight)

	var (
		t   *backend.Terminal
		err error
	)
	if app.opts.TerminalScreen != nil {
		t, err = backend.NewTerminalWithScreen(app.opts.TerminalScreen, cell)
	} else {
		t, err = backend.NewTerminal(cell)
	}
	if err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	if err := t.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	app.term = t
	return nil
}

// Screen returns the hosted screen.
func (app *Application) Screen() *vga.Screen {
	return app.screen
}

// Mode returns the host mode.
func (app *Application) Mode() Mode {
	return app.mode
}

// Raster returns the headless surface, or nil in terminal mode.
func (app *Application) Raster() *backend.Raster {
	return app.raster
}

// Config returns the configuration currently applied.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg.Clone()
}

// Frames returns the number of frames drawn.
func (app *Application) Frames() int {
	return int(app.frames.Load())
}

// Run drives the frame loop until ctx is done, the user quits, or a
// headless run has rendered its frames. Quitting from the keyboard returns
// ErrQuit.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.opts.ConfigPath != "" && app.cfg.Host.Watch {
		app.startWatcher(ctx)
	}

	if app.mode == ModeHeadless {
		return app.runHeadless(ctx)
	}
	return app.runTerminal(ctx)
}

func (app *Application) frameInterval() time.Duration {
	app.mu.Lock()
	defer app.mu.Unlock()
	return time.Second / time.Duration(max(app.cfg.Host.FPS, 1))
}

func (app *Application) runTerminal(ctx context.Context) error {
	go app.pollInput(ctx)

	interval := app.frameInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := app.frame(0); err != nil {
		return err
	}
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-app.events:
			if err := app.handleEvent(ev); err != nil {
				return err
			}

		case cfg := <-app.reloads:
			app.ApplyConfig(cfg)
			if next := app.frameInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}

		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			if err := app.frame(delta); err != nil {
				return err
			}
		}
	}
}

func (app *Application) pollInput(ctx context.Context) {
	for {
		ev := app.term.PollEvent()
		if ctx.Err() != nil {
			return
		}
		if ev.Type == backend.EventNone {
			continue
		}
		select {
		case app.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (app *Application) runHeadless(ctx context.Context) error {
	app.mu.Lock()
	frames := app.cfg.Host.Frames
	output := app.cfg.Host.Output
	app.mu.Unlock()

	delta := app.frameInterval()
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil
		}
		select {
		case cfg := <-app.reloads:
			app.ApplyConfig(cfg)
		default:
		}
		if err := app.frame(delta); err != nil {
			return err
		}
	}

	if output == "" {
		return nil
	}
	return app.writePNG(output)
}

// frame advances the screen by delta and draws it to the host.
func (app *Application) frame(delta time.Duration) error {
	app.screen.Update(delta)

	var err error
	switch app.mode {
	case ModeTerminal:
		app.term.BeginFrame()
		err = app.screen.Draw(app.term)
		app.term.Show()
	case ModeHeadless:
		app.raster.Clear(core.Black)
		err = app.screen.Draw(app.raster)
	}

	n := app.frames.Add(1)
	if err != nil {
		return &FrameError{Frame: int(n), Err: err}
	}
	return nil
}

func (app *Application) writePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := app.raster.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	app.logger.Info("wrote %s after %d frames", path, app.Frames())
	return nil
}

func (app *Application) startWatcher(ctx context.Context) {
	w, err := watcher.New(app.opts.ConfigPath,
		watcher.WithLogger(app.logger),
		watcher.WithLoader(app.opts.Reload),
	)
	if err != nil {
		app.logger.Warn("config watch disabled: %v", err)
		return
	}

	go func() {
		defer w.Close()
		_ = w.Run(ctx, func(cfg *config.Config, err error) {
			if err != nil {
				app.logger.Warn("keeping current config: %v", err)
				return
			}
			app.queueReload(cfg)
		})
	}()
}

// queueReload hands cfg to the frame loop, replacing any reload still
// waiting.
func (app *Application) queueReload(cfg *config.Config) {
	for {
		select {
		case app.reloads <- cfg:
			return
		default:
		}
		select {
		case <-app.reloads:
		default:
		}
	}
}

// Close releases the screen and restores the terminal.
func (app *Application) Close() error {
	var err error
	if app.screen != nil {
		err = app.screen.Close()
	}
	app.shutdownHost()
	return err
}

func (app *Application) shutdownHost() {
	if app.term != nil {
		app.term.Shutdown()
	}
}
