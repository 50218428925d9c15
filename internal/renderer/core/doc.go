// Package core provides the value types shared by the grid, the cursor and
// the render backends: colors, cells, margins and pixel geometry.
// It has no dependencies on the other renderer packages.
package core
