// Package cursor provides the grid cursor: a clamped cell position, a shape,
// and a blink state machine advanced by explicit time deltas.
package cursor

import (
	"strings"
	"time"

	"github.com/dshills/sabrevga/internal/renderer/backend"
	"github.com/dshills/sabrevga/internal/renderer/core"
)

// Shape is the visual form of the cursor.
type Shape uint8

const (
	// ShapeBlock fills the whole cell.
	ShapeBlock Shape = iota
	// ShapePipe is a 1px vertical bar at the left of the cell.
	ShapePipe
	// ShapeUnderscore is a 2px bar along the bottom of the cell.
	ShapeUnderscore
)

// ShapeFromString converts a name to a shape. Unknown names give ShapeBlock.
func ShapeFromString(s string) Shape {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pipe", "bar":
		return ShapePipe
	case "underscore", "underline":
		return ShapeUnderscore
	default:
		return ShapeBlock
	}
}

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapePipe:
		return "pipe"
	case ShapeUnderscore:
		return "underscore"
	default:
		return "block"
	}
}

// State is the blink phase.
type State uint8

const (
	Visible State = iota
	Hidden
)

// String returns the state name.
func (s State) String() string {
	if s == Hidden {
		return "hidden"
	}
	return "visible"
}

// Bounds is the cursor's view of its grid.
type Bounds interface {
	Columns() int
	Rows() int
	Margins() core.Margins
}

// Config holds cursor configuration.
type Config struct {
	Shape Shape

	// BlinkInterval is the time between visibility flips.
	// Non-positive disables blinking.
	BlinkInterval time.Duration

	Color core.Color

	// Offset is added to the cursor's pixel origin.
	Offset core.Point

	// Padding is added to the shape's size.
	Padding core.Size

	// AllowOutOfWindow lets the cursor enter the margins.
	AllowOutOfWindow bool

	ForceVisible bool
	ForceHidden  bool
}

// DefaultConfig returns the default cursor configuration.
func DefaultConfig() Config {
	return Config{
		Shape:         ShapeBlock,
		BlinkInterval: 225 * time.Millisecond,
		Color:         core.White,
	}
}

// Cursor is a position on a grid. Coordinates are clamped into the legal
// range on every read and write. A Cursor is owned by one grid and is not
// safe for concurrent use.
type Cursor struct {
	bounds Bounds
	config Config

	x, y  int
	state State
	timer time.Duration
}

// New creates a cursor at the top-left writable cell of bounds.
func New(bounds Bounds, config Config) *Cursor {
	c := &Cursor{bounds: bounds, config: config}
	c.Home()
	return c
}

// Config returns the current configuration.
func (c *Cursor) Config() Config {
	return c.config
}

// SetConfig replaces the configuration. The position is re-clamped.
func (c *Cursor) SetConfig(config Config) {
	c.config = config
	c.SetPosition(c.x, c.y)
}

// X returns the clamped column.
func (c *Cursor) X() int {
	lo, hi := c.rangeX()
	c.x = clamp(c.x, lo, hi)
	return c.x
}

// Y returns the clamped row.
func (c *Cursor) Y() int {
	lo, hi := c.rangeY()
	c.y = clamp(c.y, lo, hi)
	return c.y
}

// Position returns the clamped column and row.
func (c *Cursor) Position() (x, y int) {
	return c.X(), c.Y()
}

// SetX moves the cursor to column x, clamped.
func (c *Cursor) SetX(x int) {
	lo, hi := c.rangeX()
	c.x = clamp(x, lo, hi)
}

// SetY moves the cursor to row y, clamped.
func (c *Cursor) SetY(y int) {
	lo, hi := c.rangeY()
	c.y = clamp(y, lo, hi)
}

// SetPosition moves the cursor, clamped.
func (c *Cursor) SetPosition(x, y int) {
	c.SetX(x)
	c.SetY(y)
}

// Move moves the cursor by a relative amount, clamped.
func (c *Cursor) Move(dx, dy int) {
	x, y := c.Position()
	c.SetPosition(x+dx, y+dy)
}

// Home moves the cursor to the top-left writable cell.
func (c *Cursor) Home() {
	m := c.bounds.Margins()
	c.SetPosition(m.Left, m.Top)
}

// rangeX returns the legal column range, inclusive.
func (c *Cursor) rangeX() (lo, hi int) {
	cols := c.bounds.Columns()
	if c.config.AllowOutOfWindow {
		return 0, cols - 1
	}
	m := c.bounds.Margins()
	return m.Left, cols - 1 - m.Right
}

// rangeY returns the legal row range, inclusive.
func (c *Cursor) rangeY() (lo, hi int) {
	rows := c.bounds.Rows()
	if c.config.AllowOutOfWindow {
		return 0, rows - 1
	}
	m := c.bounds.Margins()
	return m.Top, rows - 1 - m.Bottom
}

// clamp checks the upper bound first so an inverted range resolves to hi.
func clamp(v, lo, hi int) int {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

// Update advances the blink timer by delta.
func (c *Cursor) Update(delta time.Duration) {
	if c.config.ForceHidden {
		c.state = Hidden
		return
	}
	if c.config.ForceVisible {
		c.state = Visible
		return
	}
	if c.config.BlinkInterval <= 0 {
		c.state = Visible
		return
	}

	c.timer += delta
	if c.timer >= c.config.BlinkInterval {
		c.toggle()
		c.timer = 0
	}
}

func (c *Cursor) toggle() {
	if c.state == Visible {
		c.state = Hidden
	} else {
		c.state = Visible
	}
}

// Reset returns the blink state machine to visible with a zero timer.
func (c *Cursor) Reset() {
	c.state = Visible
	c.timer = 0
}

// State returns the blink phase.
func (c *Cursor) State() State {
	return c.state
}

// Visible reports whether the cursor would be drawn. The force flags take
// effect immediately, without waiting for Update.
func (c *Cursor) Visible() bool {
	switch {
	case c.config.ForceHidden:
		return false
	case c.config.ForceVisible:
		return true
	default:
		return c.state == Visible
	}
}

// Rect returns the cursor shape in grid pixel coordinates.
func (c *Cursor) Rect(cellW, cellH int) core.Rect {
	x, y := c.Position()
	origin := core.Pt(x*cellW, y*cellH).Add(c.config.Offset)
	pad := c.config.Padding

	switch c.config.Shape {
	case ShapePipe:
		return core.RectAt(origin, core.Sz(1+pad.W, cellH+pad.H))
	case ShapeUnderscore:
		origin.Y += cellH - 2
		return core.RectAt(origin, core.Sz(cellW+pad.W, 2+pad.H))
	default:
		return core.RectAt(origin, core.Sz(cellW+pad.W, cellH+pad.H))
	}
}

// Draw fills the cursor shape on canvas with the grid's top-left at origin.
// It reports whether anything was drawn.
func (c *Cursor) Draw(canvas backend.Canvas, origin core.Point, cellW, cellH int) bool {
	if !c.Visible() {
		return false
	}
	canvas.FillRect(c.Rect(cellW, cellH).Translate(origin), c.config.Color)
	return true
}

// Shape returns the cursor shape.
func (c *Cursor) Shape() Shape { return c.config.Shape }

// SetShape sets the cursor shape.
func (c *Cursor) SetShape(s Shape) { c.config.Shape = s }

// BlinkInterval returns the blink interval.
func (c *Cursor) BlinkInterval() time.Duration { return c.config.BlinkInterval }

// SetBlinkInterval sets the blink interval.
func (c *Cursor) SetBlinkInterval(d time.Duration) { c.config.BlinkInterval = d }

// Color returns the cursor color.
func (c *Cursor) Color() core.Color { return c.config.Color }

// SetColor sets the cursor color.
func (c *Cursor) SetColor(color core.Color) { c.config.Color = color }

// Offset returns the pixel offset.
func (c *Cursor) Offset() core.Point { return c.config.Offset }

// SetOffset sets the pixel offset.
func (c *Cursor) SetOffset(p core.Point) { c.config.Offset = p }

// Padding returns the shape padding.
func (c *Cursor) Padding() core.Size { return c.config.Padding }

// SetPadding sets the shape padding.
func (c *Cursor) SetPadding(s core.Size) { c.config.Padding = s }

// AllowOutOfWindow reports whether the cursor may enter the margins.
func (c *Cursor) AllowOutOfWindow() bool { return c.config.AllowOutOfWindow }

// SetAllowOutOfWindow sets whether the cursor may enter the margins.
// Tightening the range re-clamps the position.
func (c *Cursor) SetAllowOutOfWindow(allow bool) {
	c.config.AllowOutOfWindow = allow
	c.SetPosition(c.x, c.y)
}

// ForceVisible reports whether the cursor is pinned visible.
func (c *Cursor) ForceVisible() bool { return c.config.ForceVisible }

// SetForceVisible pins the cursor visible.
func (c *Cursor) SetForceVisible(v bool) { c.config.ForceVisible = v }

// ForceHidden reports whether the cursor is pinned hidden.
func (c *Cursor) ForceHidden() bool { return c.config.ForceHidden }

// SetForceHidden pins the cursor hidden. It wins over ForceVisible.
func (c *Cursor) SetForceHidden(v bool) { c.config.ForceHidden = v }
