package dirty

import (
	"slices"
	"sync"
)

// ChangeType represents the kind of grid mutation.
type ChangeType uint8

const (
	// ChangeWrite indicates cell content changed.
	ChangeWrite ChangeType = iota

	// ChangeColor indicates only colors changed.
	ChangeColor

	// ChangeClear indicates the writable region was cleared.
	ChangeClear

	// ChangeScroll indicates the writable region scrolled.
	ChangeScroll

	// ChangeBlink indicates the blink phase flipped.
	ChangeBlink

	// ChangeResize indicates the grid was reallocated.
	ChangeResize

	// ChangeFont indicates glyph metrics changed.
	ChangeFont
)

// String returns the string representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeWrite:
		return "write"
	case ChangeColor:
		return "color"
	case ChangeClear:
		return "clear"
	case ChangeScroll:
		return "scroll"
	case ChangeBlink:
		return "blink"
	case ChangeResize:
		return "resize"
	case ChangeFont:
		return "font"
	default:
		return "unknown"
	}
}

// Change represents a single change event.
type Change struct {
	Type   ChangeType
	Region Region
}

// Tracker tracks dirty rows and coalesces them.
type Tracker struct {
	mu sync.RWMutex

	regions    []Region
	fullRedraw bool
	rows       int

	// maxRegions is the number of disjoint regions before coalescing into a
	// full redraw.
	maxRegions int

	// coalesceThreshold is the dirty fraction of rows that triggers a full
	// redraw.
	coalesceThreshold float64
}

// NewTracker creates a tracker for a grid of the given row count.
// A new tracker starts with a full redraw pending.
func NewTracker(rows int) *Tracker {
	return &Tracker{
		regions:           make([]Region, 0, 16),
		fullRedraw:        true,
		rows:              max(rows, 0),
		maxRegions:        16,
		coalesceThreshold: 0.75,
	}
}

// SetRows updates the grid height. Pending regions refer to the old grid
// and are dropped; callers follow with a ChangeResize.
func (t *Tracker) SetRows(rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = max(rows, 0)
	t.regions = t.regions[:0]
}

// MarkFull marks every row dirty.
func (t *Tracker) MarkFull() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// MarkChange marks rows dirty based on a change event.
func (t *Tracker) MarkChange(change Change) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fullRedraw {
		return
	}

	switch change.Type {
	case ChangeResize, ChangeFont:
		t.fullRedraw = true
		t.regions = t.regions[:0]
	default:
		t.addRegion(change.Region)
	}
}

// addRegion adds a region and coalesces with existing regions.
func (t *Tracker) addRegion(region Region) {
	if t.rows == 0 {
		return
	}
	region = region.Clamp(t.rows)
	if region.IsEmpty() {
		return
	}

	merged := false
	for i := range t.regions {
		if m, ok := t.regions[i].Merge(region); ok {
			t.regions[i] = m
			merged = true
			break
		}
	}
	if merged {
		t.coalesceRegions()
	} else {
		t.regions = append(t.regions, region)
	}

	if len(t.regions) > t.maxRegions || t.dirtyRatio() > t.coalesceThreshold {
		t.fullRedraw = true
		t.regions = t.regions[:0]
	}
}

// coalesceRegions merges overlapping or adjacent regions.
func (t *Tracker) coalesceRegions() {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(t.regions) && !changed; i++ {
			for j := i + 1; j < len(t.regions); j++ {
				if m, ok := t.regions[i].Merge(t.regions[j]); ok {
					t.regions[i] = m
					t.regions = append(t.regions[:j], t.regions[j+1:]...)
					changed = true
					break
				}
			}
		}
	}
}

func (t *Tracker) dirtyRatio() float64 {
	if t.rows == 0 {
		return 0
	}
	n := 0
	for _, r := range t.regions {
		n += r.Count()
	}
	return float64(n) / float64(t.rows)
}

// IsDirty returns true if any row needs redrawing.
func (t *Tracker) IsDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.fullRedraw || len(t.regions) > 0
}

// NeedsFullRedraw returns true if every row needs redrawing.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.fullRedraw
}

// Regions returns a copy of the dirty regions, sorted by start row.
// A full redraw is reported as one region covering every row.
func (t *Tracker) Regions() []Region {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.fullRedraw {
		if t.rows == 0 {
			return nil
		}
		return []Region{{Start: 0, End: t.rows - 1}}
	}

	result := slices.Clone(t.regions)
	slices.SortFunc(result, func(a, b Region) int { return a.Start - b.Start })
	return result
}

// Clear resets all dirty state after a redraw.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fullRedraw = false
	t.regions = t.regions[:0]
}
