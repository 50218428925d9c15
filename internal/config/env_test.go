package config

import (
	"errors"
	"testing"
	"time"
)

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	environ := []string{
		"SABREVGA_SCREEN_CELL_WIDTH=8",
		"SABREVGA_SCREEN_MARGINS_LEFT=3",
		"SABREVGA_SCREEN_BLINK_INTERVAL=250ms",
		"SABREVGA_CURSOR_ALLOW_OUT_OF_WINDOW=true",
		"SABREVGA_COLORS_FOREGROUND=#ffffff",
		"SABREVGA_FONT_SIZE=16.5",
		"SABREVGA_LOG_LEVEL=debug",
		"SABREVGA_FPS=60",
		"SABREVGA_CONFIG=/tmp/ignored.toml",
		"HOME=/root",
	}

	if err := cfg.applyEnv(EnvPrefix, environ); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}

	if cfg.Screen.CellWidth != 8 {
		t.Errorf("CellWidth = %d, want 8", cfg.Screen.CellWidth)
	}
	if cfg.Screen.Margins.Left != 3 {
		t.Errorf("Margins.Left = %d, want 3", cfg.Screen.Margins.Left)
	}
	if cfg.Screen.Margins.Top != 1 {
		t.Errorf("Margins.Top = %d, want 1", cfg.Screen.Margins.Top)
	}
	if cfg.Screen.BlinkInterval.Std() != 250*time.Millisecond {
		t.Errorf("BlinkInterval = %v, want 250ms", cfg.Screen.BlinkInterval.Std())
	}
	if !cfg.Cursor.AllowOutOfWindow {
		t.Error("AllowOutOfWindow should be true")
	}
	if cfg.Colors.Foreground != "#ffffff" {
		t.Errorf("Foreground = %q, want #ffffff", cfg.Colors.Foreground)
	}
	if cfg.Font.Size != 16.5 {
		t.Errorf("Font.Size = %v, want 16.5", cfg.Font.Size)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Host.FPS != 60 {
		t.Errorf("FPS = %d, want 60", cfg.Host.FPS)
	}
	if cfg.Screen.Width != 640 {
		t.Errorf("Width = %d, want untouched 640", cfg.Screen.Width)
	}
}

func TestApplyEnvKeepsFileValues(t *testing.T) {
	cfg := Default()
	cfg.Screen.Width = 1024
	cfg.Cursor.Shape = "pipe"

	if err := cfg.applyEnv(EnvPrefix, []string{"SABREVGA_HEIGHT=200"}); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Screen.Width != 1024 || cfg.Cursor.Shape != "pipe" {
		t.Errorf("file values lost: width %d shape %q", cfg.Screen.Width, cfg.Cursor.Shape)
	}
	if cfg.Screen.Height != 200 {
		t.Errorf("Height = %d, want 200", cfg.Screen.Height)
	}
}

func TestApplyEnvTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{"int", "SABREVGA_SCREEN_WIDTH=wide"},
		{"bool", "SABREVGA_HOST_WATCH=perhaps"},
		{"float", "SABREVGA_FONT_SIZE=big"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(EnvPrefix, []string{tt.env})
			if !errors.Is(err, ErrTypeMismatch) {
				t.Fatalf("error = %v, want ErrTypeMismatch", err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %T, want *ParseError", err)
			}
			if *cfg != *Default() {
				t.Error("config changed despite the error")
			}
		})
	}
}

func TestApplyEnvBadDuration(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(EnvPrefix, []string{"SABREVGA_CURSOR_BLINK_INTERVAL=often"})
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if cfg.Cursor.BlinkInterval.Std() != 225*time.Millisecond {
		t.Errorf("BlinkInterval = %v, want unchanged 225ms", cfg.Cursor.BlinkInterval.Std())
	}
}

func TestApplyEnvNothingSet(t *testing.T) {
	cfg := Default()
	if err := cfg.applyEnv(EnvPrefix, []string{"PATH=/bin", "SABREVGA_SCREEN=1"}); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if *cfg != *Default() {
		t.Error("config changed with no matching variables")
	}
}

func TestEnvToPath(t *testing.T) {
	tree := map[string]any{
		"screen": map[string]any{
			"width":      int64(1),
			"cell_width": int64(1),
			"margins":    map[string]any{"left": int64(1)},
		},
		"log": map[string]any{"level": "info"},
	}

	tests := []struct {
		words []string
		want  string
	}{
		{[]string{"screen", "width"}, "screen.width"},
		{[]string{"screen", "cell", "width"}, "screen.cell_width"},
		{[]string{"screen", "margins", "left"}, "screen.margins.left"},
		{[]string{"log", "level"}, "log.level"},
		{[]string{"screen"}, ""},
		{[]string{"screen", "margins"}, ""},
		{[]string{"screen", "depth"}, ""},
		{[]string{"paths"}, ""},
	}

	for _, tt := range tests {
		got := envToPath(tree, tt.words)
		joined := ""
		for i, p := range got {
			if i > 0 {
				joined += "."
			}
			joined += p
		}
		if joined != tt.want {
			t.Errorf("envToPath(%v) = %q, want %q", tt.words, joined, tt.want)
		}
	}
}
