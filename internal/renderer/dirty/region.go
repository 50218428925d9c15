// Package dirty tracks which grid rows need re-rasterizing. Adjacent and
// overlapping row ranges are coalesced, and a frame that touches most rows
// collapses into a full redraw.
package dirty

// Region is an inclusive range of grid rows.
type Region struct {
	Start int
	End   int
}

// NewRegion creates a region covering rows start through end.
func NewRegion(start, end int) Region {
	if end < start {
		start, end = end, start
	}
	return Region{Start: start, End: end}
}

// SingleRow creates a region for one row.
func SingleRow(row int) Region {
	return Region{Start: row, End: row}
}

// IsEmpty returns true if the region covers no rows.
func (r Region) IsEmpty() bool {
	return r.Start > r.End
}

// Count returns the number of rows covered.
func (r Region) Count() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains returns true if the region covers row.
func (r Region) Contains(row int) bool {
	return row >= r.Start && row <= r.End
}

// Overlaps returns true if two regions share a row.
func (r Region) Overlaps(other Region) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Adjacent returns true if other starts right after r ends, or vice versa.
func (r Region) Adjacent(other Region) bool {
	return r.End+1 == other.Start || other.End+1 == r.Start
}

// Merge combines two regions that overlap or touch.
func (r Region) Merge(other Region) (Region, bool) {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		return Region{}, false
	}
	return Region{Start: min(r.Start, other.Start), End: max(r.End, other.End)}, true
}

// Clamp restricts the region to rows [0, rows).
func (r Region) Clamp(rows int) Region {
	return Region{Start: max(r.Start, 0), End: min(r.End, rows-1)}
}
