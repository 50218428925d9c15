package core

// Default cell colors.
var (
	DefaultForeground = Gray
	DefaultBackground = Transparent
)

// Cell is one character position in the grid.
type Cell struct {
	// Rune is the character code displayed in the cell.
	Rune rune

	// Foreground is the glyph color.
	Foreground Color

	// Background is the fill color behind the glyph.
	Background Color

	// Blink hides the glyph while the grid's blink phase is off.
	Blink bool
}

// BlankCell returns a space with default colors.
func BlankCell() Cell {
	return Cell{
		Rune:       ' ',
		Foreground: DefaultForeground,
		Background: DefaultBackground,
	}
}

// NewCell creates a non-blinking cell.
func NewCell(r rune, fg, bg Color) Cell {
	return Cell{Rune: r, Foreground: fg, Background: bg}
}

// IsBlank returns true if the cell shows no glyph.
func (c Cell) IsBlank() bool {
	return c.Rune == ' ' || c.Rune == 0
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c == other
}

// Margins are per-side cell insets around the writable region.
type Margins struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// UniformMargins returns margins of n cells on every side.
func UniformMargins(n int) Margins {
	return Margins{Left: n, Top: n, Right: n, Bottom: n}
}

// Valid reports whether the margins leave a non-empty writable region
// inside a grid of the given dimensions.
func (m Margins) Valid(columns, rows int) bool {
	if m.Left < 0 || m.Top < 0 || m.Right < 0 || m.Bottom < 0 {
		return false
	}
	return m.Left+m.Right < columns && m.Top+m.Bottom < rows
}

// Writable returns the writable region in cell coordinates.
// The result may be empty when the margins are not Valid.
func (m Margins) Writable(columns, rows int) CellRect {
	return CellRect{
		Left:   m.Left,
		Top:    m.Top,
		Right:  columns - m.Right,
		Bottom: rows - m.Bottom,
	}
}

// CellRect is a region of cells. Left/Top inclusive, Right/Bottom exclusive.
type CellRect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the number of columns in the region.
func (r CellRect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the number of rows in the region.
func (r CellRect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty returns true if the region has no cells.
func (r CellRect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Contains returns true if the cell (col, row) is inside the region.
func (r CellRect) Contains(col, row int) bool {
	return col >= r.Left && col < r.Right && row >= r.Top && row < r.Bottom
}
