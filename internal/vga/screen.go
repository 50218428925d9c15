// Package vga implements a text-mode console surface: a grid of colored,
// optionally blinking character cells inside configurable margins, a
// blinking cursor, and a background/foreground layer pair that is
// re-rasterized only where the grid changed.
//
// A Screen is owned by one goroutine. The host calls Update once per tick
// and Draw once per frame, and mutates the grid between frames.
package vga

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/sabrevga/internal/logging"
	"github.com/dshills/sabrevga/internal/renderer/backend"
	"github.com/dshills/sabrevga/internal/renderer/core"
	"github.com/dshills/sabrevga/internal/renderer/cursor"
	"github.com/dshills/sabrevga/internal/renderer/dirty"
)

// Screen is a grid of character cells.
type Screen struct {
	id  uuid.UUID
	log *logging.Logger

	device backend.Device
	font   backend.Font

	size     core.Size
	cellSize core.Size
	cols     int
	rows     int
	margins  core.Margins
	position core.Point

	// cells is indexed row*cols + col.
	cells []core.Cell

	activeFg core.Color
	activeBg core.Color

	blinkInterval time.Duration
	blinkTimer    time.Duration
	blinkVisible  bool

	cursor           *cursor.Cursor
	fixedCursorColor bool

	glyphOffsets map[rune]core.Point

	background backend.Target
	foreground backend.Target
	dirty      *dirty.Tracker

	closed bool
}

// New creates a screen whose layers are allocated from dev and whose glyphs
// are measured with font.
func New(dev backend.Device, font backend.Font, opts Options) (*Screen, error) {
	if dev == nil || font == nil {
		return nil, ErrNoDevice
	}

	s := &Screen{
		id:               uuid.New(),
		device:           dev,
		font:             font,
		size:             opts.Size,
		cellSize:         opts.CellSize,
		margins:          opts.Margins,
		position:         opts.Position,
		activeFg:         opts.Foreground,
		activeBg:         opts.Background,
		blinkInterval:    opts.BlinkInterval,
		blinkVisible:     true,
		fixedCursorColor: opts.FixedCursorColor,
		glyphOffsets:     make(map[rune]core.Point),
		dirty:            dirty.NewTracker(0),
	}

	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	s.log = log.WithComponent("vga").WithField("screen", s.id.String())

	s.cursor = cursor.New(s, opts.Cursor)
	s.recalculate()

	if err := s.acquireTargets(); err != nil {
		return nil, err
	}

	s.log.Debug("created %dx%d grid of %dx%d cells", s.cols, s.rows, s.cellSize.W, s.cellSize.H)
	return s, nil
}

// ID returns the screen's identifier.
func (s *Screen) ID() uuid.UUID {
	return s.id
}

// Columns returns the total number of columns, margins included.
func (s *Screen) Columns() int {
	return s.cols
}

// Rows returns the total number of rows, margins included.
func (s *Screen) Rows() int {
	return s.rows
}

// Margins returns the current margins.
func (s *Screen) Margins() core.Margins {
	return s.margins
}

// WindowColumns returns the number of writable columns.
func (s *Screen) WindowColumns() int {
	return s.cols - s.margins.Left - s.margins.Right
}

// WindowRows returns the number of writable rows.
func (s *Screen) WindowRows() int {
	return s.rows - s.margins.Top - s.margins.Bottom
}

// WritableRect returns the cell rectangle inside the margins.
func (s *Screen) WritableRect() core.CellRect {
	return s.margins.Writable(s.cols, s.rows)
}

// Size returns the pixel size the grid was computed from.
func (s *Screen) Size() core.Size {
	return s.size
}

// CellSize returns the pixel size of one cell.
func (s *Screen) CellSize() core.Size {
	return s.cellSize
}

// Len returns the number of cells.
func (s *Screen) Len() int {
	return len(s.cells)
}

// Position returns the pixel offset at which the screen is composited.
func (s *Screen) Position() core.Point {
	return s.position
}

// SetPosition moves the screen on the host surface.
func (s *Screen) SetPosition(p core.Point) {
	s.position = p
}

// Cursor returns the screen's cursor.
func (s *Screen) Cursor() *cursor.Cursor {
	return s.cursor
}

// Font returns the glyph font.
func (s *Screen) Font() backend.Font {
	return s.font
}

// SetFont replaces the glyph font and redraws everything.
func (s *Screen) SetFont(font backend.Font) {
	if font == nil {
		return
	}
	s.font = font
	s.dirty.MarkChange(dirty.Change{Type: dirty.ChangeFont})
}

// ActiveForeground returns the color used by writes that omit a foreground.
func (s *Screen) ActiveForeground() core.Color {
	return s.activeFg
}

// ActiveBackground returns the color used by writes that omit a background.
func (s *Screen) ActiveBackground() core.Color {
	return s.activeBg
}

// SetActiveColors sets the colors used by writes that omit them.
func (s *Screen) SetActiveColors(fg, bg core.Color) {
	s.activeFg = fg
	s.activeBg = bg
}

// BlinkVisible reports whether blinking cells currently show their glyph.
func (s *Screen) BlinkVisible() bool {
	return s.blinkVisible
}

// BlinkInterval returns the cell blink period.
func (s *Screen) BlinkInterval() time.Duration {
	return s.blinkInterval
}

// SetBlinkInterval sets the cell blink period. Non-positive stops blinking
// with glyphs shown.
func (s *Screen) SetBlinkInterval(d time.Duration) {
	s.blinkInterval = d
	s.blinkTimer = 0
	if d <= 0 && !s.blinkVisible {
		s.blinkVisible = true
		s.markBlinkRows()
	}
}

// SetFixedCursorColor controls whether the cursor keeps its own color
// instead of following the active foreground.
func (s *Screen) SetFixedCursorColor(fixed bool) {
	s.fixedCursorColor = fixed
}

// SetGlyphOffset nudges every glyph of r by p pixels inside its cell.
func (s *Screen) SetGlyphOffset(r rune, p core.Point) {
	if p == (core.Point{}) {
		delete(s.glyphOffsets, r)
	} else {
		s.glyphOffsets[r] = p
	}
	s.dirty.MarkFull()
}

// ClearGlyphOffsets removes all glyph offsets.
func (s *Screen) ClearGlyphOffsets() {
	if len(s.glyphOffsets) == 0 {
		return
	}
	clear(s.glyphOffsets)
	s.dirty.MarkFull()
}

// index validates a cell address. Failures are logged and returned.
func (s *Screen) index(op string, col, row int) (int, error) {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		err := &BoundsError{Op: op, Col: col, Row: row, Columns: s.cols, Rows: s.rows}
		s.log.Warn("%v", err)
		return 0, err
	}
	return row*s.cols + col, nil
}

// Write stores r at (col, row). Omitted options use the active colors and
// no blink. Out-of-bounds writes change nothing and return a *BoundsError.
func (s *Screen) Write(col, row int, r rune, opts ...WriteOption) error {
	i, err := s.index("write", col, row)
	if err != nil {
		return err
	}

	cell := core.Cell{Rune: r, Foreground: s.activeFg, Background: s.activeBg}
	for _, opt := range opts {
		opt(&cell)
	}
	s.cells[i] = cell
	s.dirty.MarkChange(dirty.Change{Type: dirty.ChangeWrite, Region: dirty.SingleRow(row)})
	return nil
}

// WriteString writes s starting at (col, row), stopping at the right edge
// of the grid. It returns the number of cells written.
func (s *Screen) WriteString(col, row int, text string, opts ...WriteOption) (int, error) {
	if _, err := s.index("write_string", col, row); err != nil {
		return 0, err
	}

	n := 0
	for _, r := range text {
		if col+n >= s.cols {
			break
		}
		if err := s.Write(col+n, row, r, opts...); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// SetColor changes the colors of (col, row), keeping its character.
func (s *Screen) SetColor(col, row int, fg, bg core.Color) error {
	i, err := s.index("set_color", col, row)
	if err != nil {
		return err
	}
	s.cells[i].Foreground = fg
	s.cells[i].Background = bg
	s.dirty.MarkChange(dirty.Change{Type: dirty.ChangeColor, Region: dirty.SingleRow(row)})
	return nil
}

// Cell returns the cell at (col, row). Out-of-bounds reads return a blank
// cell and a *BoundsError.
func (s *Screen) Cell(col, row int) (core.Cell, error) {
	i, err := s.index("cell", col, row)
	if err != nil {
		return core.BlankCell(), err
	}
	return s.cells[i], nil
}

// SetCell replaces the cell at (col, row).
func (s *Screen) SetCell(col, row int, cell core.Cell) error {
	i, err := s.index("set_cell", col, row)
	if err != nil {
		return err
	}
	s.cells[i] = cell
	s.dirty.MarkChange(dirty.Change{Type: dirty.ChangeWrite, Region: dirty.SingleRow(row)})
	return nil
}

// CellAt returns the cell at a flat index, row*Columns()+col.
func (s *Screen) CellAt(index int) (core.Cell, error) {
	if index < 0 || index >= len(s.cells) {
		err := &BoundsError{Op: "cell_at", Col: index, Row: -1, Columns: s.cols, Rows: s.rows}
		s.log.Warn("%v", err)
		return core.BlankCell(), err
	}
	return s.cells[index], nil
}

// Snapshot returns a copy of every cell, row-major.
func (s *Screen) Snapshot() []core.Cell {
	return append([]core.Cell(nil), s.cells...)
}

// Clear resets every writable cell to a space with the given colors and no
// blink. Colors default to DefaultForeground and DefaultBackground. Cells in
// the margins are untouched.
func (s *Screen) Clear(opts ...ClearOption) {
	cfg := clearConfig{fg: core.DefaultForeground, bg: core.DefaultBackground}
	for _, opt := range opts {
		opt(&cfg)
	}

	blank := core.NewCell(' ', cfg.fg, cfg.bg)
	w := s.WritableRect()
	for row := w.Top; row < w.Bottom; row++ {
		base := row * s.cols
		for col := w.Left; col < w.Right; col++ {
			s.cells[base+col] = blank
		}
	}

	if cfg.setActive {
		s.activeFg = cfg.fg
		s.activeBg = cfg.bg
	}
	s.markWritable(dirty.ChangeClear)
}

// ClearText blanks the characters of every writable cell, keeping colors.
func (s *Screen) ClearText() {
	w := s.WritableRect()
	for row := w.Top; row < w.Bottom; row++ {
		base := row * s.cols
		for col := w.Left; col < w.Right; col++ {
			s.cells[base+col].Rune = ' '
			s.cells[base+col].Blink = false
		}
	}
	s.markWritable(dirty.ChangeClear)
}

// Scroll moves every writable row up by one and blanks the bottom writable
// row with default colors. The top writable row is discarded.
func (s *Screen) Scroll() {
	w := s.WritableRect()
	if w.IsEmpty() {
		return
	}

	for row := w.Top; row < w.Bottom-1; row++ {
		dst := row*s.cols + w.Left
		src := (row+1)*s.cols + w.Left
		copy(s.cells[dst:dst+w.Width()], s.cells[src:src+w.Width()])
	}

	last := (w.Bottom-1)*s.cols + w.Left
	for i := last; i < last+w.Width(); i++ {
		s.cells[i] = core.BlankCell()
	}
	s.markWritable(dirty.ChangeScroll)
}

func (s *Screen) markWritable(ct dirty.ChangeType) {
	w := s.WritableRect()
	if w.IsEmpty() {
		return
	}
	s.dirty.MarkChange(dirty.Change{Type: ct, Region: dirty.NewRegion(w.Top, w.Bottom-1)})
}

// SetMargins sets the margins. Margins that leave no writable cell fall
// back to one cell on every side, or none if the grid is too small for
// that, and ErrDegenerateMargins is returned.
func (s *Screen) SetMargins(m core.Margins) error {
	s.margins = m
	return s.checkMargins()
}

// FailsafeReset restores one-cell margins.
func (s *Screen) FailsafeReset() {
	s.margins = core.UniformMargins(1)
	_ = s.checkMargins()
}

func (s *Screen) checkMargins() error {
	if s.margins.Valid(s.cols, s.rows) {
		return nil
	}

	bad := s.margins
	s.margins = core.UniformMargins(1)
	if !s.margins.Valid(s.cols, s.rows) {
		s.margins = core.Margins{}
	}
	err := fmt.Errorf("%w: %+v on %dx%d grid", ErrDegenerateMargins, bad, s.cols, s.rows)
	s.log.Error("%v, using %+v", err, s.margins)
	return err
}

// Resize recomputes the grid for a new pixel size. The cells are
// reallocated blank and the cursor returns to the top-left writable cell.
func (s *Screen) Resize(size core.Size) {
	s.size = size
	s.recalculate()
}

// SetCellSize recomputes the grid for a new cell size. Sizes below one
// pixel are raised to one.
func (s *Screen) SetCellSize(w, h int) {
	s.cellSize = core.Sz(w, h)
	s.recalculate()
}

// recalculate derives the grid dimensions and reallocates everything that
// depends on them.
func (s *Screen) recalculate() {
	if s.cellSize.W < 1 || s.cellSize.H < 1 {
		s.log.Error("%v: cell size %dx%d, using at least 1x1", ErrInvalidSize, s.cellSize.W, s.cellSize.H)
		s.cellSize = core.Sz(max(s.cellSize.W, 1), max(s.cellSize.H, 1))
	}

	cols, rows := s.size.Div(s.cellSize)
	if cols < 1 || rows < 1 {
		s.log.Error("%v: %dx%d px holds no %dx%d cell, using at least 1x1",
			ErrInvalidSize, s.size.W, s.size.H, s.cellSize.W, s.cellSize.H)
		cols, rows = max(cols, 1), max(rows, 1)
	}
	s.cols, s.rows = cols, rows
	_ = s.checkMargins()

	s.cells = make([]core.Cell, cols*rows)
	for i := range s.cells {
		s.cells[i] = core.BlankCell()
	}

	s.cursor.Home()
	s.dirty.SetRows(rows)
	s.dirty.MarkChange(dirty.Change{Type: dirty.ChangeResize})
	s.releaseTargets()
}

// Update advances the cell blink timer and the cursor by delta.
func (s *Screen) Update(delta time.Duration) {
	if s.blinkInterval > 0 {
		s.blinkTimer += delta
		if s.blinkTimer >= s.blinkInterval {
			s.blinkVisible = !s.blinkVisible
			s.blinkTimer = 0
			s.markBlinkRows()
		}
	}

	if !s.fixedCursorColor {
		s.cursor.SetColor(s.activeFg)
	}
	s.cursor.Update(delta)
}

// markBlinkRows marks every row holding a blinking cell dirty.
func (s *Screen) markBlinkRows() {
	for row := 0; row < s.rows; row++ {
		base := row * s.cols
		for col := 0; col < s.cols; col++ {
			if s.cells[base+col].Blink {
				s.dirty.MarkChange(dirty.Change{Type: dirty.ChangeBlink, Region: dirty.SingleRow(row)})
				break
			}
		}
	}
}

// Close releases the render layers. Drawing a closed screen fails.
func (s *Screen) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.releaseTargets()
	s.log.Debug("closed")
	return nil
}
