package backend

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/sabrevga/internal/renderer/core"
)

// Block elements used to approximate partial cell fills, indexed by
// eighths covered minus one.
var (
	lowerBlocks = [7]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇'}
	leftBlocks  = [7]rune{'▏', '▎', '▍', '▌', '▋', '▊', '▉'}
)

// termCell is one terminal character cell after rasterization.
type termCell struct {
	Rune      rune
	Fg        core.Color
	Bg        core.Color
	Underline bool
}

// composite draws src over c.
func (c *termCell) composite(src termCell) {
	c.Bg = src.Bg.Over(c.Bg)
	if src.Rune != 0 && !src.Fg.IsTransparent() {
		c.Rune = src.Rune
		c.Fg = src.Fg.Over(c.Bg)
	}
	if src.Underline {
		c.Underline = true
	}
}

// cellGrid is a surface quantized to terminal cells. Each terminal cell
// covers cell.W by cell.H pixels.
type cellGrid struct {
	cols, rows int
	cell       core.Size
	cells      [][]termCell
}

func newCellGrid(cols, rows int, cell core.Size) *cellGrid {
	g := &cellGrid{cols: max(cols, 0), rows: max(rows, 0), cell: cell}
	g.cells = make([][]termCell, g.rows)
	for y := range g.cells {
		g.cells[y] = make([]termCell, g.cols)
	}
	return g
}

// gridForPixels allocates a grid large enough to cover size.
func gridForPixels(size core.Size, cell core.Size) *cellGrid {
	cols := (size.W + cell.W - 1) / cell.W
	rows := (size.H + cell.H - 1) / cell.H
	return newCellGrid(cols, rows, cell)
}

func (g *cellGrid) at(x, y int) *termCell {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return nil
	}
	return &g.cells[y][x]
}

// span returns the terminal cells overlapped by a pixel rectangle, clipped
// to the grid. Right and bottom are exclusive.
func (g *cellGrid) span(r core.Rect) (left, top, right, bottom int) {
	if r.IsEmpty() {
		return 0, 0, 0, 0
	}
	left = max(floorDiv(r.X, g.cell.W), 0)
	top = max(floorDiv(r.Y, g.cell.H), 0)
	right = min(floorDiv(r.X+r.W-1, g.cell.W)+1, g.cols)
	bottom = min(floorDiv(r.Y+r.H-1, g.cell.H)+1, g.rows)
	return left, top, right, bottom
}

func (g *cellGrid) clear(c core.Color) {
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x] = termCell{Bg: c}
		}
	}
}

func (g *cellGrid) clearRect(r core.Rect) {
	left, top, right, bottom := g.span(r)
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			g.cells[y][x] = termCell{}
		}
	}
}

// fillRect composites c over every overlapped cell. Cells covered only in
// part get a block element when the coverage is a bottom or left strip.
func (g *cellGrid) fillRect(r core.Rect, c core.Color) {
	if c.IsTransparent() {
		return
	}
	left, top, right, bottom := g.span(r)
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			cellRect := core.Rect{X: x * g.cell.W, Y: y * g.cell.H, W: g.cell.W, H: g.cell.H}
			g.fillCell(&g.cells[y][x], cellRect, r.Intersect(cellRect), c)
		}
	}
}

func (g *cellGrid) fillCell(tc *termCell, cellRect, covered core.Rect, c core.Color) {
	switch {
	case covered == cellRect:
		tc.Bg = c.Over(tc.Bg)
	case covered.W == cellRect.W && covered.Y+covered.H == cellRect.Y+cellRect.H:
		n := eighths(covered.H, cellRect.H)
		if n == 8 {
			tc.Bg = c.Over(tc.Bg)
			return
		}
		tc.Rune = lowerBlocks[n-1]
		tc.Fg = c
		tc.Underline = true
	case covered.H == cellRect.H && covered.X == cellRect.X:
		n := eighths(covered.W, cellRect.W)
		if n == 8 {
			tc.Bg = c.Over(tc.Bg)
			return
		}
		tc.Rune = leftBlocks[n-1]
		tc.Fg = c
	case covered.W*covered.H*2 >= cellRect.W*cellRect.H:
		tc.Bg = c.Over(tc.Bg)
	}
}

// drawGlyphs places glyphs into the cell under each glyph's centre.
// Runes that do not occupy exactly one terminal column are shown as '?'.
func (g *cellGrid) drawGlyphs(placed []PlacedGlyph) {
	for _, pg := range placed {
		if pg.Color.IsTransparent() || pg.Rune == ' ' {
			continue
		}
		cx := floorDiv(pg.Position.X+pg.Metrics.Width/2, g.cell.W)
		cy := floorDiv(pg.Position.Y+pg.Metrics.Height/2, g.cell.H)
		tc := g.at(cx, cy)
		if tc == nil {
			continue
		}
		r := pg.Rune
		if runewidth.RuneWidth(r) != 1 {
			r = '?'
		}
		tc.Rune = r
		tc.Fg = pg.Color
	}
}

// drawGrid composites src onto g with src's top-left cell at (ox, oy).
func (g *cellGrid) drawGrid(src *cellGrid, ox, oy int) {
	for y := 0; y < src.rows; y++ {
		for x := 0; x < src.cols; x++ {
			if tc := g.at(x+ox, y+oy); tc != nil {
				tc.composite(src.cells[y][x])
			}
		}
	}
}

func eighths(part, whole int) int {
	if whole <= 0 {
		return 8
	}
	n := (part*8 + whole/2) / whole
	return min(max(n, 1), 8)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
