package backend

import "github.com/dshills/sabrevga/internal/renderer/core"

// PlacedGlyph is one glyph after layout.
type PlacedGlyph struct {
	Rune    rune
	Index   int
	Metrics GlyphMetrics
	GlyphTransform
}

// Layout walks text rune by rune, advancing a pen from origin by each glyph's
// advance, and asks fn for the final placement of every glyph. It is the
// shared implementation of Canvas.DrawString for all surfaces.
// Index counts runes, not bytes.
func Layout(font Font, text string, origin core.Point, fn GlyphFunc) []PlacedGlyph {
	placed := make([]PlacedGlyph, 0, len(text))
	pen := origin
	index := 0

	for _, r := range text {
		m := font.Metrics(r)
		t := GlyphTransform{Position: pen, Color: core.White}
		if fn != nil {
			t = fn(r, index, pen, m)
		}
		placed = append(placed, PlacedGlyph{
			Rune:           r,
			Index:          index,
			Metrics:        m,
			GlyphTransform: t,
		})
		pen.X += m.Advance
		index++
	}

	return placed
}

// FixedFont is a monospace font with identical metrics for every rune.
// Useful for tests and for the terminal surface, where a glyph is a cell.
type FixedFont struct {
	Width  int
	Height int
}

// NewFixedFont creates a monospace font of the given cell size.
func NewFixedFont(width, height int) FixedFont {
	return FixedFont{Width: width, Height: height}
}

// Metrics implements Font.
func (f FixedFont) Metrics(rune) GlyphMetrics {
	return GlyphMetrics{
		Advance: f.Width,
		Width:   f.Width,
		Height:  f.Height,
		Ascent:  f.Height,
	}
}

// LineHeight implements Font.
func (f FixedFont) LineHeight() int {
	return f.Height
}
