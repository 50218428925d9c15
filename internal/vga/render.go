package vga

import (
	"fmt"

	"github.com/dshills/sabrevga/internal/renderer/backend"
	"github.com/dshills/sabrevga/internal/renderer/core"
)

// pixelSize returns the pixel extent of the whole grid.
func (s *Screen) pixelSize() core.Size {
	return core.Sz(s.cols*s.cellSize.W, s.rows*s.cellSize.H)
}

// acquireTargets allocates both layers if they are missing.
func (s *Screen) acquireTargets() error {
	if s.background != nil && s.foreground != nil {
		return nil
	}
	s.releaseTargets()

	size := s.pixelSize()
	bg, err := s.device.NewTarget(size)
	if err != nil {
		s.log.Error("allocate background layer %dx%d: %v", size.W, size.H, err)
		return fmt.Errorf("allocate background layer: %w", err)
	}
	fg, err := s.device.NewTarget(size)
	if err != nil {
		bg.Release()
		s.log.Error("allocate foreground layer %dx%d: %v", size.W, size.H, err)
		return fmt.Errorf("allocate foreground layer: %w", err)
	}

	s.background, s.foreground = bg, fg
	s.dirty.MarkFull()
	return nil
}

// releaseTargets frees both layers. The next Draw reallocates them.
func (s *Screen) releaseTargets() {
	if s.background != nil {
		s.background.Release()
		s.background = nil
	}
	if s.foreground != nil {
		s.foreground.Release()
		s.foreground = nil
	}
}

// Draw composites the screen onto ctx at Position: background layer,
// cursor, then foreground layer. Layer rows changed since the last Draw are
// re-rasterized first.
func (s *Screen) Draw(ctx backend.Context) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.acquireTargets(); err != nil {
		return err
	}

	s.rasterize()

	ctx.DrawTarget(s.background, s.position)
	s.cursor.Draw(ctx, s.position, s.cellSize.W, s.cellSize.H)
	ctx.DrawTarget(s.foreground, s.position)
	return nil
}

// rasterize redraws the dirty rows of both layers. Backgrounds never leave
// their cell, so that layer is always redrawn by row. Glyphs that can reach
// into a neighbouring row force the whole foreground layer.
func (s *Screen) rasterize() {
	if !s.dirty.IsDirty() {
		return
	}

	full := s.dirty.NeedsFullRedraw()
	fgFull := full || s.glyphsOverhang()
	if full {
		s.background.Clear(core.Transparent)
	}
	if fgFull {
		s.foreground.Clear(core.Transparent)
	}

	width := s.cols * s.cellSize.W
	for _, region := range s.dirty.Regions() {
		band := core.Rect{X: 0, Y: region.Start * s.cellSize.H, W: width, H: region.Count() * s.cellSize.H}
		if !full {
			s.background.ClearRect(band)
		}
		if !fgFull {
			s.foreground.ClearRect(band)
		}
		for row := region.Start; row <= region.End; row++ {
			s.drawBackgroundRow(row)
			if !fgFull {
				s.drawForegroundRow(row)
			}
		}
	}
	if fgFull {
		for row := 0; row < s.rows; row++ {
			s.drawForegroundRow(row)
		}
	}

	s.dirty.Clear()
}

// glyphsOverhang reports whether any glyph can be drawn outside its row.
func (s *Screen) glyphsOverhang() bool {
	maxY := 0
	for _, p := range s.glyphOffsets {
		if p.Y < 0 {
			return true
		}
		maxY = max(maxY, p.Y)
	}
	return s.font.LineHeight()+maxY > s.cellSize.H
}

// drawBackgroundRow fills one rectangle per cell with a visible background.
func (s *Screen) drawBackgroundRow(row int) {
	cw, ch := s.cellSize.W, s.cellSize.H
	base := row * s.cols
	for col := 0; col < s.cols; col++ {
		bg := s.cells[base+col].Background
		if bg.IsTransparent() {
			continue
		}
		s.background.FillRect(core.Rect{X: col * cw, Y: row * ch, W: cw, H: ch}, bg)
	}
}

// drawForegroundRow draws the row's characters as one text run.
func (s *Screen) drawForegroundRow(row int) {
	base := row * s.cols
	runes := make([]rune, s.cols)
	visible := false
	for col := range runes {
		c := s.cells[base+col]
		if c.IsBlank() {
			runes[col] = ' '
			continue
		}
		runes[col] = c.Rune
		visible = true
	}
	if !visible {
		return
	}

	s.foreground.DrawString(s.font, string(runes), core.Pt(0, row*s.cellSize.H), s.glyphFunc(row))
}

// glyphFunc places each glyph of a row centred in its cell, applies the
// per-character offset, and hides blinking glyphs during the off phase.
func (s *Screen) glyphFunc(row int) backend.GlyphFunc {
	cw, ch := s.cellSize.W, s.cellSize.H
	base := row * s.cols

	return func(r rune, index int, _ core.Point, m backend.GlyphMetrics) backend.GlyphTransform {
		if index >= s.cols {
			return backend.GlyphTransform{}
		}
		cell := s.cells[base+index]

		color := cell.Foreground
		if cell.IsBlank() || (cell.Blink && !s.blinkVisible) {
			color = core.Transparent
		}

		pos := core.Pt(index*cw+cw/2-m.Width/2, row*ch)
		pos = pos.Add(s.glyphOffsets[r])
		return backend.GlyphTransform{Position: pos, Color: color}
	}
}
