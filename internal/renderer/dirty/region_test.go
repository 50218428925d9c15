package dirty

import "testing"

func TestNewRegion(t *testing.T) {
	r := NewRegion(5, 2)
	if r.Start != 2 || r.End != 5 {
		t.Errorf("NewRegion(5, 2) = %+v, want {2 5}", r)
	}
	if r.Count() != 4 {
		t.Errorf("Count() = %d, want 4", r.Count())
	}
}

func TestRegionIsEmpty(t *testing.T) {
	if (Region{Start: 3, End: 2}).IsEmpty() != true {
		t.Error("inverted region should be empty")
	}
	if SingleRow(0).IsEmpty() {
		t.Error("single row should not be empty")
	}
	if (Region{Start: 3, End: 2}).Count() != 0 {
		t.Error("empty region should count 0 rows")
	}
}

func TestRegionMerge(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Region
		want   Region
		wantOK bool
	}{
		{"overlap", NewRegion(1, 4), NewRegion(3, 6), NewRegion(1, 6), true},
		{"adjacent", NewRegion(1, 2), NewRegion(3, 3), NewRegion(1, 3), true},
		{"adjacent reversed", NewRegion(5, 6), NewRegion(2, 4), NewRegion(2, 6), true},
		{"contained", NewRegion(0, 10), NewRegion(4, 5), NewRegion(0, 10), true},
		{"gap", NewRegion(1, 2), NewRegion(4, 5), Region{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Merge(tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Merge() = %+v, %v, want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRegionClamp(t *testing.T) {
	got := NewRegion(-3, 50).Clamp(10)
	if got != NewRegion(0, 9) {
		t.Errorf("Clamp() = %+v, want {0 9}", got)
	}
	if !NewRegion(12, 14).Clamp(10).IsEmpty() {
		t.Error("region past the end should clamp to empty")
	}
}
