package backend

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sabrevga/internal/renderer/core"
)

// Terminal is a Context that renders to a character terminal through tcell.
// Every terminal cell stands for one pixel block of CellSize, so a grid
// whose cell size equals CellSize maps one grid cell to one terminal cell.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	cell   core.Size
	frame  *frame
}

// NewTerminal creates a terminal host on the process's terminal.
func NewTerminal(cell core.Size) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, cell)
}

// NewTerminalWithScreen creates a terminal host on an existing tcell screen,
// for example a simulation screen.
func NewTerminalWithScreen(screen tcell.Screen, cell core.Size) (*Terminal, error) {
	if cell.IsEmpty() {
		return nil, fmt.Errorf("%w: cell %dx%d", ErrInvalidTargetSize, cell.W, cell.H)
	}
	return &Terminal{screen: screen, cell: cell, frame: newFrame(0, 0, cell)}, nil
}

// Init initializes the terminal.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	cols, rows := t.screen.Size()
	t.frame.resize(cols, rows, t.cell)
	return nil
}

// Shutdown restores the terminal. PollEvent returns EventNone afterwards.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the host size in pixels.
func (t *Terminal) Size() core.Size {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols, rows := t.frame.size()
	return core.Sz(cols*t.cell.W, rows*t.cell.H)
}

// CellSize returns the pixel size of one terminal cell.
func (t *Terminal) CellSize() core.Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cell
}

// SetCellSize changes the pixel size of one terminal cell.
func (t *Terminal) SetCellSize(cell core.Size) {
	if cell.IsEmpty() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cell = cell
	cols, rows := t.frame.size()
	t.frame.resize(cols, rows, cell)
}

// BeginFrame resets the back buffer before drawing a new frame.
func (t *Terminal) BeginFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame.back.clear(core.Transparent)
}

// Show pushes changed cells to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ch := range t.frame.diff() {
		r := ch.Cell.Rune
		if r == 0 {
			r = ' '
		}
		t.screen.SetContent(ch.X, ch.Y, r, nil, convertStyle(ch.Cell))
	}
	t.frame.sync()
	t.screen.Show()
}

// Sync forces a full redraw on the next Show.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame.invalidate()
	t.screen.Sync()
}

// NewTarget implements Device. The target is quantized to whole terminal cells.
func (t *Terminal) NewTarget(size core.Size) (Target, error) {
	if size.IsEmpty() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTargetSize, size.W, size.H)
	}
	t.mu.Lock()
	cell := t.cell
	t.mu.Unlock()
	return &TerminalTarget{size: size, grid: gridForPixels(size, cell)}, nil
}

// Clear implements Canvas.
func (t *Terminal) Clear(c core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame.back.clear(c)
}

// ClearRect implements Canvas.
func (t *Terminal) ClearRect(r core.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame.back.clearRect(r)
}

// FillRect implements Canvas.
func (t *Terminal) FillRect(r core.Rect, c core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame.back.fillRect(r, c)
}

// DrawString implements Canvas.
func (t *Terminal) DrawString(font Font, text string, origin core.Point, fn GlyphFunc) {
	placed := Layout(font, text, origin, fn)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame.back.drawGlyphs(placed)
}

// DrawTarget implements Context. The position is snapped to the terminal
// cell containing it.
func (t *Terminal) DrawTarget(target Target, pos core.Point) {
	tt, ok := target.(*TerminalTarget)
	if !ok {
		return
	}

	tt.mu.Lock()
	defer tt.mu.Unlock()
	if tt.released {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame.back.drawGrid(tt.grid, floorDiv(pos.X, t.cell.W), floorDiv(pos.Y, t.cell.H))
}

// PollEvent waits for the next terminal event.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventNone}
	}
	return t.convertEvent(ev)
}

func (t *Terminal) convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		t.mu.Lock()
		t.frame.resize(w, h, t.cell)
		t.mu.Unlock()
		return Event{
			Type:   EventResize,
			Width:  w,
			Height: h,
		}

	default:
		return Event{Type: EventNone}
	}
}

// TerminalTarget is an off-screen target quantized to terminal cells.
type TerminalTarget struct {
	mu       sync.Mutex
	size     core.Size
	grid     *cellGrid
	released bool
}

// Size implements Target.
func (t *TerminalTarget) Size() core.Size {
	return t.size
}

// Release implements Target.
func (t *TerminalTarget) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.released = true
	t.grid = newCellGrid(0, 0, t.grid.cell)
}

// Clear implements Canvas.
func (t *TerminalTarget) Clear(c core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grid.clear(c)
}

// ClearRect implements Canvas.
func (t *TerminalTarget) ClearRect(r core.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grid.clearRect(r)
}

// FillRect implements Canvas.
func (t *TerminalTarget) FillRect(r core.Rect, c core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grid.fillRect(r, c)
}

// DrawString implements Canvas.
func (t *TerminalTarget) DrawString(font Font, text string, origin core.Point, fn GlyphFunc) {
	placed := Layout(font, text, origin, fn)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grid.drawGlyphs(placed)
}

// convertStyle converts a rasterized cell to a tcell style. Transparent
// colors use the terminal default.
func convertStyle(c termCell) tcell.Style {
	style := tcell.StyleDefault
	if !c.Fg.IsTransparent() {
		style = style.Foreground(convertColor(c.Fg))
	}
	if !c.Bg.IsTransparent() {
		style = style.Background(convertColor(c.Bg))
	}
	if c.Underline && c.Rune != 0 && !isBlockElement(c.Rune) {
		style = style.Underline(true)
	}
	return style
}

func convertColor(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func isBlockElement(r rune) bool {
	return r >= 0x2580 && r <= 0x259F
}

// convertKey converts a tcell key to Key.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyF1:
		return KeyF1
	case tcell.KeyF2:
		return KeyF2
	case tcell.KeyF3:
		return KeyF3
	case tcell.KeyF4:
		return KeyF4
	case tcell.KeyCtrlC:
		return KeyCtrlC
	case tcell.KeyCtrlL:
		return KeyCtrlL
	default:
		return KeyNone
	}
}

// convertMod converts tcell modifiers to ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
