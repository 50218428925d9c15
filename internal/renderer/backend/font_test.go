package backend

import "testing"

func TestDefaultFont(t *testing.T) {
	f := DefaultFont()
	m := f.Metrics('A')

	if m.Advance != 7 {
		t.Errorf("Advance = %d, want 7", m.Advance)
	}
	if f.LineHeight() != 13 {
		t.Errorf("LineHeight() = %d, want 13", f.LineHeight())
	}
	if m.Ascent != 11 {
		t.Errorf("Ascent = %d, want 11", m.Ascent)
	}
	if f.Face() == nil {
		t.Error("Face() = nil")
	}
}

func TestGoMono(t *testing.T) {
	f, err := GoMono(16)
	if err != nil {
		t.Fatalf("GoMono() error = %v", err)
	}
	a, i := f.Metrics('A'), f.Metrics('i')
	if a.Advance <= 0 {
		t.Errorf("Advance = %d, want > 0", a.Advance)
	}
	if a.Advance != i.Advance {
		t.Errorf("monospace advances differ: %d vs %d", a.Advance, i.Advance)
	}
	if f.LineHeight() < 16 {
		t.Errorf("LineHeight() = %d, want >= 16", f.LineHeight())
	}
}

func TestParseTrueTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		size float64
	}{
		{"garbage", []byte("not a font"), 12},
		{"zero size", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTrueType(tt.data, tt.size); err == nil {
				t.Error("ParseTrueType() error = nil, want error")
			}
		})
	}
}

func TestLoadTrueTypeMissingFile(t *testing.T) {
	if _, err := LoadTrueType("/nonexistent/font.ttf", 12); err == nil {
		t.Error("LoadTrueType() error = nil, want error")
	}
}
