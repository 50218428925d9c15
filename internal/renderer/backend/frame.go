package backend

import "github.com/dshills/sabrevga/internal/renderer/core"

// frame provides double-buffered terminal output with change tracking.
// Drawing goes to back; front holds what the terminal currently shows.
// On sync only changed cells are pushed.
type frame struct {
	back       *cellGrid
	front      [][]termCell
	fullRedraw bool
}

func newFrame(cols, rows int, cell core.Size) *frame {
	f := &frame{}
	f.allocate(cols, rows, cell)
	return f
}

func (f *frame) allocate(cols, rows int, cell core.Size) {
	f.back = newCellGrid(cols, rows, cell)
	f.front = make([][]termCell, f.back.rows)
	for y := range f.front {
		f.front[y] = make([]termCell, f.back.cols)
	}
	f.fullRedraw = true
}

// resize reallocates both buffers. Content is not preserved; the next
// frame redraws everything.
func (f *frame) resize(cols, rows int, cell core.Size) {
	if cols == f.back.cols && rows == f.back.rows && cell == f.back.cell {
		return
	}
	f.allocate(cols, rows, cell)
}

func (f *frame) size() (cols, rows int) {
	return f.back.cols, f.back.rows
}

// frameChange is a cell that differs from what is displayed.
type frameChange struct {
	X, Y int
	Cell termCell
}

// diff returns the changes needed to update the display.
func (f *frame) diff() []frameChange {
	var changes []frameChange
	for y := 0; y < f.back.rows; y++ {
		for x := 0; x < f.back.cols; x++ {
			c := f.back.cells[y][x]
			if f.fullRedraw || c != f.front[y][x] {
				changes = append(changes, frameChange{X: x, Y: y, Cell: c})
			}
		}
	}
	return changes
}

// sync marks the back buffer as displayed.
func (f *frame) sync() {
	for y := range f.front {
		copy(f.front[y], f.back.cells[y])
	}
	f.fullRedraw = false
}

// invalidate forces the next diff to include every cell.
func (f *frame) invalidate() {
	f.fullRedraw = true
}
