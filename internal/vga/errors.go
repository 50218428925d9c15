package vga

import (
	"errors"
	"fmt"
)

// Screen errors.
var (
	// ErrOutOfBounds indicates a cell address outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")

	// ErrDegenerateMargins indicates margins that leave no writable cells.
	ErrDegenerateMargins = errors.New("degenerate margins")

	// ErrInvalidSize indicates a pixel or cell size that yields no cells.
	ErrInvalidSize = errors.New("invalid size")

	// ErrClosed indicates use of a closed screen.
	ErrClosed = errors.New("screen closed")

	// ErrNoDevice indicates a screen constructed without a device or font.
	ErrNoDevice = errors.New("no render device")
)

// BoundsError records a rejected cell access.
type BoundsError struct {
	Op string

	// Col and Row are the requested cell. Row is -1 for flat index access,
	// in which case Col holds the index.
	Col, Row int

	Columns, Rows int
}

// Error implements error.
func (e *BoundsError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: index %d outside %d cells: %v", e.Op, e.Col, e.Columns*e.Rows, ErrOutOfBounds)
	}
	return fmt.Sprintf("%s: (%d,%d) outside %dx%d grid: %v", e.Op, e.Col, e.Row, e.Columns, e.Rows, ErrOutOfBounds)
}

// Unwrap returns ErrOutOfBounds.
func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// IsOutOfBounds returns true if err is a bounds error.
func IsOutOfBounds(err error) bool {
	return errors.Is(err, ErrOutOfBounds)
}
