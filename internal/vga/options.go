package vga

import (
	"time"

	"github.com/dshills/sabrevga/internal/logging"
	"github.com/dshills/sabrevga/internal/renderer/core"
	"github.com/dshills/sabrevga/internal/renderer/cursor"
)

// DefaultBlinkInterval is the cell blink period.
const DefaultBlinkInterval = 500 * time.Millisecond

// Options configures a Screen.
type Options struct {
	// Size is the pixel size of the screen.
	Size core.Size

	// CellSize is the pixel size of one cell.
	CellSize core.Size

	Margins core.Margins

	// Foreground and Background are the initial active colors.
	Foreground core.Color
	Background core.Color

	// BlinkInterval is the cell blink period. Non-positive disables cell blink.
	BlinkInterval time.Duration

	Cursor cursor.Config

	// FixedCursorColor keeps Cursor.Color instead of following the active
	// foreground.
	FixedCursorColor bool

	// Position is the pixel offset at which the screen is composited.
	Position core.Point

	// Logger receives diagnostics. Nil uses logging.Default().
	Logger *logging.Logger
}

// DefaultOptions returns a 640x480 screen of 16x16 cells with one cell of
// margin on every side.
func DefaultOptions() Options {
	return Options{
		Size:          core.Sz(640, 480),
		CellSize:      core.Sz(16, 16),
		Margins:       core.UniformMargins(1),
		Foreground:    core.DefaultForeground,
		Background:    core.DefaultBackground,
		BlinkInterval: DefaultBlinkInterval,
		Cursor:        cursor.DefaultConfig(),
	}
}

// WriteOption overrides a field of a written cell.
type WriteOption func(*core.Cell)

// WithForeground sets the glyph color.
func WithForeground(c core.Color) WriteOption {
	return func(cell *core.Cell) { cell.Foreground = c }
}

// WithBackground sets the fill color.
func WithBackground(c core.Color) WriteOption {
	return func(cell *core.Cell) { cell.Background = c }
}

// WithBlink sets the blink flag.
func WithBlink(blink bool) WriteOption {
	return func(cell *core.Cell) { cell.Blink = blink }
}

type clearConfig struct {
	fg, bg    core.Color
	setActive bool
}

// ClearOption configures Clear.
type ClearOption func(*clearConfig)

// ClearColors sets the colors cleared cells receive.
func ClearColors(fg, bg core.Color) ClearOption {
	return func(c *clearConfig) {
		c.fg = fg
		c.bg = bg
	}
}

// SetActive makes the clear colors the active colors for later writes.
func SetActive() ClearOption {
	return func(c *clearConfig) { c.setActive = true }
}
