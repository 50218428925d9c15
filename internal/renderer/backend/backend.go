// Package backend defines the drawing surfaces a grid renders into and the
// glyph provider that places characters on them.
//
// A Context is the host surface for one frame. It hands out off-screen
// Targets, accepts fill and text commands directly (used for the cursor
// overlay) and composites Targets at a pixel position. Three implementations
// are provided: Recorder (in-memory, for tests), Raster (image.RGBA, for
// headless output) and Terminal (tcell).
package backend

import (
	"errors"

	"github.com/dshills/sabrevga/internal/renderer/core"
)

// ErrReleased is returned when a released target is used.
var ErrReleased = errors.New("target released")

// ErrInvalidTargetSize is returned when a target is requested with an empty size.
var ErrInvalidTargetSize = errors.New("invalid target size")

// GlyphMetrics describes one glyph of a font in pixels.
type GlyphMetrics struct {
	// Advance is the horizontal distance to the next glyph's origin.
	Advance int
	// Width and Height are the glyph's bitmap extent.
	Width  int
	Height int
	// Ascent is the distance from the top of the line to the baseline.
	Ascent int
}

// Font measures glyphs. Rasterization is the surface's concern.
type Font interface {
	// Metrics returns the metrics of r.
	Metrics(r rune) GlyphMetrics
	// LineHeight returns the distance between consecutive baselines.
	LineHeight() int
}

// GlyphTransform is the final placement of one glyph.
type GlyphTransform struct {
	// Position is the top-left of the glyph box.
	Position core.Point
	// Color is the glyph color. Transparent glyphs are not drawn.
	Color core.Color
}

// GlyphFunc is called once per glyph of a string with the rune, its index in
// the string, the default top-left position and the glyph metrics. It returns
// the placement actually used.
type GlyphFunc func(r rune, index int, pos core.Point, m GlyphMetrics) GlyphTransform

// Canvas accepts drawing commands.
type Canvas interface {
	// Clear fills the whole canvas with c, replacing what was there.
	Clear(c core.Color)
	// ClearRect resets r to transparent.
	ClearRect(r core.Rect)
	// FillRect composites a filled rectangle.
	FillRect(r core.Rect, c core.Color)
	// DrawString lays out text starting at origin and draws each glyph as
	// placed by fn. A nil fn draws every glyph in White at its default position.
	DrawString(font Font, text string, origin core.Point, fn GlyphFunc)
}

// Target is an off-screen surface.
type Target interface {
	Canvas
	// Size returns the target's pixel size.
	Size() core.Size
	// Release frees the target. Further drawing is ignored.
	Release()
}

// Device allocates off-screen targets.
type Device interface {
	NewTarget(size core.Size) (Target, error)
}

// Context is the host surface for a frame.
type Context interface {
	Device
	Canvas
	// DrawTarget composites t with its top-left corner at pos.
	DrawTarget(t Target, pos core.Point)
}
