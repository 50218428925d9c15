package core

import (
	"image/color"
	"testing"
)

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"#FF0000", RGB(255, 0, 0), false},
		{"00ff00", RGB(0, 255, 0), false},
		{"#fff", RGB(255, 255, 255), false},
		{"#80808080", RGBA(128, 128, 128, 128), false},
		{"#00000000", Transparent, false},
		{"#12345", Color{}, true},
		{"#GGGGGG", Color{}, true},
		{"", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ColorFromHex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ColorFromHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ColorFromHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	for _, c := range []Color{Gray, Cyan, RGBA(1, 2, 3, 4)} {
		got, err := ColorFromHex(c.Hex())
		if err != nil {
			t.Fatalf("ColorFromHex(%q) error: %v", c.Hex(), err)
		}
		if got != c {
			t.Errorf("round trip of %v gave %v", c, got)
		}
	}
}

func TestColorImplementsImageColor(t *testing.T) {
	var c color.Color = RGBA(255, 0, 0, 128)
	r, g, b, a := c.RGBA()
	if a != 0x8080 {
		t.Errorf("alpha = %#x, want 0x8080", a)
	}
	if r != 0x8080 || g != 0 || b != 0 {
		t.Errorf("premultiplied rgb = %#x %#x %#x, want 0x8080 0 0", r, g, b)
	}

	r, g, b, a = Transparent.RGBA()
	if r|g|b|a != 0 {
		t.Errorf("Transparent.RGBA() not zero")
	}
}

func TestColorBlend(t *testing.T) {
	if got := Black.Blend(White, 0); got != Black {
		t.Errorf("Blend(0) = %v, want Black", got)
	}
	if got := Black.Blend(White, 1); got != White {
		t.Errorf("Blend(1) = %v, want White", got)
	}
	mid := Black.Blend(White, 0.5)
	if mid.R < 126 || mid.R > 129 || mid.R != mid.G || mid.G != mid.B {
		t.Errorf("Blend(0.5) = %v, want mid gray", mid)
	}
	if mid.A != 255 {
		t.Errorf("Blend alpha = %d, want 255", mid.A)
	}
}

func TestColorOver(t *testing.T) {
	if got := Transparent.Over(Red); got != Red {
		t.Errorf("Transparent over Red = %v", got)
	}
	if got := Blue.Over(Red); got != Blue {
		t.Errorf("opaque Blue over Red = %v", got)
	}
	if got := Blue.WithAlpha(128).Over(Transparent); got != Blue.WithAlpha(128) {
		t.Errorf("half Blue over Transparent = %v", got)
	}
	half := White.WithAlpha(128).Over(Black)
	if half.A != 255 || half.R < 120 || half.R > 135 {
		t.Errorf("half White over Black = %v", half)
	}
}

func TestColorPredicates(t *testing.T) {
	if !Transparent.IsTransparent() {
		t.Error("Transparent.IsTransparent() = false")
	}
	if Gray.IsTransparent() {
		t.Error("Gray.IsTransparent() = true")
	}
	if !Gray.IsOpaque() {
		t.Error("Gray.IsOpaque() = false")
	}
	if got := Gray.String(); got != "#808080FF" {
		t.Errorf("Gray.String() = %q", got)
	}
}
