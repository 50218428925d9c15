package backend

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dshills/sabrevga/internal/renderer/core"
)

func TestRasterInvalidSize(t *testing.T) {
	if _, err := NewRaster(core.Sz(0, 0)); !errors.Is(err, ErrInvalidTargetSize) {
		t.Errorf("NewRaster(0x0) error = %v, want ErrInvalidTargetSize", err)
	}
	host, _ := NewRaster(core.Sz(4, 4))
	if _, err := host.NewTarget(core.Sz(4, 0)); !errors.Is(err, ErrInvalidTargetSize) {
		t.Errorf("NewTarget(4x0) error = %v, want ErrInvalidTargetSize", err)
	}
}

func TestRasterDrawTarget(t *testing.T) {
	host, err := NewRaster(core.Sz(16, 16))
	if err != nil {
		t.Fatalf("NewRaster() error = %v", err)
	}
	tgt, err := host.NewTarget(core.Sz(4, 4))
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}

	tgt.FillRect(core.Rect{W: 4, H: 4}, core.Red)
	host.DrawTarget(tgt, core.Pt(2, 2))

	if got := host.At(2, 2); got != core.Red {
		t.Errorf("At(2,2) = %v, want Red", got)
	}
	if got := host.At(5, 5); got != core.Red {
		t.Errorf("At(5,5) = %v, want Red", got)
	}
	if got := host.At(6, 6); got != core.Transparent {
		t.Errorf("At(6,6) = %v, want Transparent", got)
	}
	if got := host.At(0, 0); got != core.Transparent {
		t.Errorf("At(0,0) = %v, want Transparent", got)
	}
}

func TestRasterTransparentTargetKeepsHost(t *testing.T) {
	host, _ := NewRaster(core.Sz(8, 8))
	host.Clear(core.Blue)

	tgt, _ := host.NewTarget(core.Sz(8, 8))
	tgt.FillRect(core.Rect{W: 2, H: 2}, core.White)
	host.DrawTarget(tgt, core.Point{})

	if got := host.At(0, 0); got != core.White {
		t.Errorf("At(0,0) = %v, want White", got)
	}
	if got := host.At(4, 4); got != core.Blue {
		t.Errorf("At(4,4) = %v, want Blue", got)
	}
}

func TestRasterClearRect(t *testing.T) {
	host, _ := NewRaster(core.Sz(8, 8))
	tgt, _ := host.NewTarget(core.Sz(8, 8))
	rt := tgt.(*RasterTarget)

	rt.Clear(core.Green)
	rt.ClearRect(core.Rect{X: 0, Y: 4, W: 8, H: 4})

	if got := rt.At(0, 0); got != core.Green {
		t.Errorf("At(0,0) = %v, want Green", got)
	}
	if got := rt.At(0, 4); got != core.Transparent {
		t.Errorf("At(0,4) = %v, want Transparent", got)
	}
}

func TestRasterReleasedTargetNotDrawn(t *testing.T) {
	host, _ := NewRaster(core.Sz(8, 8))
	tgt, _ := host.NewTarget(core.Sz(8, 8))
	tgt.Clear(core.Red)
	tgt.Release()

	host.DrawTarget(tgt, core.Point{})
	if got := host.At(0, 0); got != core.Transparent {
		t.Errorf("At(0,0) = %v, want Transparent", got)
	}
}

func TestRasterDrawStringBoxes(t *testing.T) {
	host, _ := NewRaster(core.Sz(16, 8))
	host.DrawString(NewFixedFont(4, 8), "ab", core.Point{}, func(r rune, i int, pos core.Point, m GlyphMetrics) GlyphTransform {
		if r == 'b' {
			return GlyphTransform{Position: pos, Color: core.Transparent}
		}
		return GlyphTransform{Position: pos, Color: core.Yellow}
	})

	if got := host.At(1, 1); got != core.Yellow {
		t.Errorf("At(1,1) = %v, want Yellow", got)
	}
	if got := host.At(5, 1); got != core.Transparent {
		t.Errorf("At(5,1) = %v, want Transparent", got)
	}
}

func TestRasterDrawStringFace(t *testing.T) {
	host, _ := NewRaster(core.Sz(16, 16))
	font := DefaultFont()
	host.DrawString(font, "W", core.Point{}, func(r rune, i int, pos core.Point, m GlyphMetrics) GlyphTransform {
		return GlyphTransform{Position: pos, Color: core.White}
	})

	inked := false
	for y := 0; y < font.LineHeight(); y++ {
		for x := 0; x < 7; x++ {
			if !host.At(x, y).IsTransparent() {
				inked = true
			}
		}
	}
	if !inked {
		t.Error("DrawString() left the glyph box empty")
	}
}

func TestRasterWritePNG(t *testing.T) {
	host, _ := NewRaster(core.Sz(4, 4))
	host.Clear(core.Black)

	var buf bytes.Buffer
	if err := host.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("WritePNG() did not produce a PNG")
	}
}
