package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sabrevga/internal/renderer/core"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	term, err := NewTerminalWithScreen(sim, core.Sz(8, 16))
	if err != nil {
		t.Fatalf("NewTerminalWithScreen() error = %v", err)
	}
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(term.Shutdown)
	return term, sim
}

func TestTerminalInvalidCell(t *testing.T) {
	if _, err := NewTerminalWithScreen(tcell.NewSimulationScreen(""), core.Sz(0, 16)); err == nil {
		t.Error("NewTerminalWithScreen() error = nil, want error")
	}
}

func TestTerminalSize(t *testing.T) {
	term, sim := newSimTerminal(t)
	cols, rows := sim.Size()

	want := core.Sz(cols*8, rows*16)
	if got := term.Size(); got != want {
		t.Errorf("Size() = %v, want %v", got, want)
	}
	if term.CellSize() != core.Sz(8, 16) {
		t.Errorf("CellSize() = %v, want 8x16", term.CellSize())
	}
}

func TestTerminalShowComposites(t *testing.T) {
	term, sim := newSimTerminal(t)
	font := NewFixedFont(8, 16)

	bg, err := term.NewTarget(core.Sz(32, 32))
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	fg, _ := term.NewTarget(core.Sz(32, 32))

	bg.FillRect(core.Rect{X: 8, Y: 0, W: 8, H: 16}, core.Blue)
	fg.DrawString(font, "AB", core.Pt(8, 0), func(r rune, i int, pos core.Point, m GlyphMetrics) GlyphTransform {
		return GlyphTransform{Position: pos, Color: core.Red}
	})

	term.BeginFrame()
	term.DrawTarget(bg, core.Point{})
	term.FillRect(core.Rect{X: 16, Y: 14, W: 8, H: 2}, core.White)
	term.DrawTarget(fg, core.Point{})
	term.Show()

	mainc, _, style, _ := sim.GetContent(1, 0) //nolint:staticcheck // GetContent is the correct API
	if mainc != 'A' {
		t.Errorf("rune at (1,0) = %q, want 'A'", mainc)
	}
	fgc, bgc, _ := style.Decompose()
	if fgc != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("fg at (1,0) = %v, want red", fgc)
	}
	if bgc != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("bg at (1,0) = %v, want blue", bgc)
	}

	mainc, _, style, _ = sim.GetContent(2, 0) //nolint:staticcheck // GetContent is the correct API
	if mainc != 'B' {
		t.Errorf("rune at (2,0) = %q, want 'B'", mainc)
	}
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrUnderline == 0 {
		t.Error("underscore cursor under glyph should underline it")
	}

	mainc, _, style, _ = sim.GetContent(0, 0) //nolint:staticcheck // GetContent is the correct API
	if mainc != ' ' {
		t.Errorf("rune at (0,0) = %q, want ' '", mainc)
	}
	if _, bgc, _ := style.Decompose(); bgc != tcell.ColorDefault {
		t.Errorf("bg at (0,0) = %v, want default", bgc)
	}
}

func TestTerminalTargetPositionSnapsToCells(t *testing.T) {
	term, sim := newSimTerminal(t)

	tgt, _ := term.NewTarget(core.Sz(8, 16))
	tgt.FillRect(core.Rect{W: 8, H: 16}, core.Green)

	term.BeginFrame()
	term.DrawTarget(tgt, core.Pt(16, 16))
	term.Show()

	_, _, style, _ := sim.GetContent(2, 1) //nolint:staticcheck // GetContent is the correct API
	if _, bgc, _ := style.Decompose(); bgc != tcell.NewRGBColor(0, 128, 0) {
		t.Errorf("bg at (2,1) = %v, want green", bgc)
	}
}

func TestTerminalReleasedTarget(t *testing.T) {
	term, sim := newSimTerminal(t)

	tgt, _ := term.NewTarget(core.Sz(8, 16))
	tgt.FillRect(core.Rect{W: 8, H: 16}, core.Green)
	tgt.Release()

	term.BeginFrame()
	term.DrawTarget(tgt, core.Point{})
	term.Show()

	_, _, style, _ := sim.GetContent(0, 0) //nolint:staticcheck // GetContent is the correct API
	if _, bgc, _ := style.Decompose(); bgc != tcell.ColorDefault {
		t.Errorf("bg at (0,0) = %v, want default", bgc)
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyRune, KeyRune},
		{tcell.KeyEscape, KeyEscape},
		{tcell.KeyEnter, KeyEnter},
		{tcell.KeyBackspace2, KeyBackspace},
		{tcell.KeyUp, KeyUp},
		{tcell.KeyF2, KeyF2},
		{tcell.KeyCtrlC, KeyCtrlC},
		{tcell.KeyF12, KeyNone},
	}
	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertMod(t *testing.T) {
	got := convertMod(tcell.ModShift | tcell.ModAlt)
	if got != ModShift|ModAlt {
		t.Errorf("convertMod() = %v, want Shift|Alt", got)
	}
}
