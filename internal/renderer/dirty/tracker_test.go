package dirty

import (
	"sync"
	"testing"
)

func newClean(rows int) *Tracker {
	tr := NewTracker(rows)
	tr.Clear()
	return tr
}

func markRows(tr *Tracker, start, end int) {
	tr.MarkChange(Change{Type: ChangeWrite, Region: NewRegion(start, end)})
}

func rowDirty(tr *Tracker, row int) bool {
	for _, r := range tr.Regions() {
		if r.Contains(row) {
			return true
		}
	}
	return false
}

func TestNewTrackerNeedsFullRedraw(t *testing.T) {
	tr := NewTracker(30)
	if !tr.NeedsFullRedraw() {
		t.Error("new tracker should need a full redraw")
	}
	regions := tr.Regions()
	if len(regions) != 1 || regions[0] != NewRegion(0, 29) {
		t.Errorf("Regions() = %+v, want [{0 29}]", regions)
	}
}

func TestTrackerClear(t *testing.T) {
	tr := NewTracker(30)
	tr.Clear()
	if tr.IsDirty() {
		t.Error("IsDirty() after Clear = true")
	}
	if len(tr.Regions()) != 0 {
		t.Error("Regions() after Clear should be empty")
	}
}

func TestTrackerWritesCoalesce(t *testing.T) {
	tr := newClean(30)
	markRows(tr, 3, 3)
	markRows(tr, 5, 5)
	markRows(tr, 4, 4)

	regions := tr.Regions()
	if len(regions) != 1 || regions[0] != NewRegion(3, 5) {
		t.Errorf("Regions() = %+v, want [{3 5}]", regions)
	}
	for row, want := range map[int]bool{2: false, 3: true, 4: true, 5: true, 6: false} {
		if got := rowDirty(tr, row); got != want {
			t.Errorf("row %d dirty = %v, want %v", row, got, want)
		}
	}
}

func TestTrackerRegionsSorted(t *testing.T) {
	tr := newClean(30)
	markRows(tr, 20, 20)
	markRows(tr, 2, 2)
	markRows(tr, 10, 11)

	regions := tr.Regions()
	want := []Region{SingleRow(2), NewRegion(10, 11), SingleRow(20)}
	if len(regions) != len(want) {
		t.Fatalf("Regions() = %+v, want %+v", regions, want)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Errorf("Regions()[%d] = %+v, want %+v", i, regions[i], want[i])
		}
	}
}

func TestTrackerClampsToRows(t *testing.T) {
	tr := newClean(10)
	markRows(tr, -5, 2)
	markRows(tr, 40, 40)

	regions := tr.Regions()
	if len(regions) != 1 || regions[0] != NewRegion(0, 2) {
		t.Errorf("Regions() = %+v, want [{0 2}]", regions)
	}
}

func TestTrackerThreshold(t *testing.T) {
	tr := newClean(10)
	markRows(tr, 0, 7)
	if !tr.NeedsFullRedraw() {
		t.Error("marking 80% of rows should force a full redraw")
	}
}

func TestTrackerMaxRegions(t *testing.T) {
	tr := newClean(100)
	for row := 0; row < 40; row += 2 {
		markRows(tr, row, row)
	}
	if !tr.NeedsFullRedraw() {
		t.Error("too many disjoint regions should force a full redraw")
	}
}

func TestTrackerMarkChange(t *testing.T) {
	tests := []struct {
		name     string
		change   Change
		wantFull bool
	}{
		{"write", Change{Type: ChangeWrite, Region: SingleRow(3)}, false},
		{"scroll", Change{Type: ChangeScroll, Region: NewRegion(1, 5)}, false},
		{"resize", Change{Type: ChangeResize}, true},
		{"font", Change{Type: ChangeFont}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newClean(30)
			tr.MarkChange(tt.change)
			if got := tr.NeedsFullRedraw(); got != tt.wantFull {
				t.Errorf("NeedsFullRedraw() = %v, want %v", got, tt.wantFull)
			}
			if !tr.IsDirty() {
				t.Error("IsDirty() = false after change")
			}
		})
	}
}

func TestTrackerSetRows(t *testing.T) {
	tr := newClean(10)
	markRows(tr, 8, 9)
	tr.SetRows(20)
	if tr.IsDirty() {
		t.Errorf("SetRows kept regions of the old grid: %+v", tr.Regions())
	}

	tr.MarkChange(Change{Type: ChangeResize})
	if !tr.NeedsFullRedraw() {
		t.Error("ChangeResize should force a full redraw")
	}
	if !rowDirty(tr, 19) || rowDirty(tr, 20) {
		t.Error("full redraw should cover exactly the new rows")
	}
}

func TestTrackerZeroRows(t *testing.T) {
	tr := newClean(0)
	markRows(tr, 0, 0)
	if tr.IsDirty() {
		t.Error("zero-row tracker should ignore marks")
	}
}

func TestChangeTypeString(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeWrite, "write"},
		{ChangeColor, "color"},
		{ChangeClear, "clear"},
		{ChangeScroll, "scroll"},
		{ChangeBlink, "blink"},
		{ChangeResize, "resize"},
		{ChangeFont, "font"},
		{ChangeType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("ChangeType(%d).String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestTrackerConcurrency(t *testing.T) {
	tr := newClean(1000)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				markRows(tr, base*100+j, base*100+j)
				_ = tr.IsDirty()
				_ = tr.Regions()
			}
		}(i)
	}
	wg.Wait()
	if !tr.IsDirty() {
		t.Error("IsDirty() = false after concurrent marks")
	}
}
