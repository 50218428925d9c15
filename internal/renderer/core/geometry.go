package core

// Point is a pixel position.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p offset by o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p minus o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Size is a pixel extent.
type Size struct {
	W, H int
}

// Sz is shorthand for Size{W: w, H: h}.
func Sz(w, h int) Size {
	return Size{W: w, H: h}
}

// Add returns s grown by o. Padding may be negative.
func (s Size) Add(o Size) Size {
	return Size{W: s.W + o.W, H: s.H + o.H}
}

// Div returns s divided by a cell size, rounded down.
func (s Size) Div(cell Size) (columns, rows int) {
	if cell.W <= 0 || cell.H <= 0 {
		return 0, 0
	}
	return s.W / cell.W, s.H / cell.H
}

// IsEmpty returns true if either dimension is not positive.
func (s Size) IsEmpty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is a pixel rectangle anchored at its top-left corner.
type Rect struct {
	X, Y int
	W, H int
}

// RectAt creates a rectangle from a position and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// Max returns the exclusive bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.X + r.W, Y: r.Y + r.H}
}

// Size returns the rectangle's extent.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Translate returns r moved by p.
func (r Rect) Translate(p Point) Rect {
	r.X += p.X
	r.Y += p.Y
	return r
}

// Contains returns true if p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersect returns the overlap of two rectangles, or an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
