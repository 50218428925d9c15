package app

import (
	"github.com/dshills/sabrevga/internal/config"
	"github.com/dshills/sabrevga/internal/renderer/backend"
	"github.com/dshills/sabrevga/internal/renderer/cursor"
	"github.com/dshills/sabrevga/internal/vga"
)

// handleEvent processes a host event.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize()
	case backend.EventKey:
		return app.handleKey(ev)
	default:
		return nil
	}
}

func (app *Application) handleResize() error {
	if app.term == nil {
		return nil
	}
	app.screen.Resize(app.term.Size())
	app.logger.Debug("resized to %dx%d", app.screen.Columns(), app.screen.Rows())
	return nil
}

func (app *Application) handleKey(ev backend.Event) error {
	s := app.screen
	cur := s.Cursor()

	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyUp:
		cur.Move(0, -1)
	case backend.KeyDown:
		cur.Move(0, 1)
	case backend.KeyLeft:
		cur.Move(-1, 0)
	case backend.KeyRight:
		cur.Move(1, 0)
	case backend.KeyHome:
		cur.Home()
	case backend.KeyEnd:
		w := s.WritableRect()
		cur.SetPosition(w.Right-1, w.Bottom-1)
	case backend.KeyEnter:
		s.Print("\n")
	case backend.KeyBackspace:
		s.Print("\b")
	case backend.KeyTab:
		s.Print("    ", vga.WithBlink(app.blink))
	case backend.KeyDelete:
		x, y := cur.Position()
		_ = s.Write(x, y, ' ')
	case backend.KeyF1:
		cur.SetShape(nextShape(cur.Shape()))
	case backend.KeyF2:
		s.Scroll()
	case backend.KeyF3:
		s.Clear()
		cur.Home()
	case backend.KeyF4:
		app.blink = !app.blink
	case backend.KeyCtrlL:
		if app.term != nil {
			app.term.Sync()
		}
	case backend.KeyRune:
		if ev.Mod&(backend.ModCtrl|backend.ModAlt|backend.ModMeta) != 0 {
			return nil
		}
		s.Print(string(ev.Rune), vga.WithBlink(app.blink))
	}

	cur.Reset()
	return nil
}

func nextShape(s cursor.Shape) cursor.Shape {
	switch s {
	case cursor.ShapeBlock:
		return cursor.ShapePipe
	case cursor.ShapePipe:
		return cursor.ShapeUnderscore
	default:
		return cursor.ShapeBlock
	}
}

// ApplyConfig applies a reloaded configuration between frames. Colors,
// cursor, margins, blink rate, position and cell size take effect; the
// pixel size follows the terminal in terminal mode. Geometry changes clear
// the grid.
func (app *Application) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	opts, err := cfg.ScreenOptions()
	if err != nil {
		app.logger.Warn("ignoring reload: %v", err)
		return
	}

	app.mu.Lock()
	prev := app.cfg
	app.cfg = cfg.Clone()
	app.mu.Unlock()

	s := app.screen
	s.SetActiveColors(opts.Foreground, opts.Background)
	s.SetFixedCursorColor(opts.FixedCursorColor)
	s.SetBlinkInterval(opts.BlinkInterval)
	s.SetPosition(opts.Position)
	s.Cursor().SetConfig(opts.Cursor)

	if opts.CellSize != s.CellSize() {
		if app.term != nil {
			app.term.SetCellSize(opts.CellSize)
		}
		s.SetCellSize(opts.CellSize.W, opts.CellSize.H)
	}
	if app.term != nil {
		if size := app.term.Size(); size != s.Size() {
			s.Resize(size)
		}
	} else if opts.Size != s.Size() {
		raster, err := backend.NewRaster(opts.Size)
		if err != nil {
			app.logger.Warn("keeping %dx%d surface: %v", s.Size().W, s.Size().H, err)
		} else {
			app.raster = raster
			s.Resize(opts.Size)
		}
	}

	if opts.Margins != s.Margins() {
		_ = s.SetMargins(opts.Margins)
	}

	if prev.Font != cfg.Font {
		if font, err := LoadFont(cfg.Font); err != nil {
			app.logger.Warn("keeping current font: %v", err)
		} else {
			s.SetFont(font)
		}
	}

	app.logger.Info("config applied")
}
