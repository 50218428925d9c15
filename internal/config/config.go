// Package config loads sabrevga settings from TOML or YAML files and
// SABREVGA_* environment variables.
//
// Settings are layered: built-in defaults, then the file, then the
// environment. Every layer decodes into the same Config struct so a file
// only needs to name the values it changes.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/sabrevga/internal/logging"
	"github.com/dshills/sabrevga/internal/renderer/core"
	"github.com/dshills/sabrevga/internal/renderer/cursor"
	"github.com/dshills/sabrevga/internal/vga"
)

// Duration is a time.Duration that reads and writes as "500ms" style text.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the complete sabrevga configuration.
type Config struct {
	Screen ScreenConfig  `toml:"screen" yaml:"screen"`
	Cursor CursorSection `toml:"cursor" yaml:"cursor"`
	Colors ColorsConfig  `toml:"colors" yaml:"colors"`
	Font   FontConfig    `toml:"font" yaml:"font"`
	Log    LogConfig     `toml:"log" yaml:"log"`
	Host   HostConfig    `toml:"host" yaml:"host"`
}

// ScreenConfig holds grid geometry.
type ScreenConfig struct {
	// Width and Height are the surface size in pixels.
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`

	CellWidth  int `toml:"cell_width" yaml:"cell_width"`
	CellHeight int `toml:"cell_height" yaml:"cell_height"`

	Margins MarginsConfig `toml:"margins" yaml:"margins"`

	// BlinkInterval is the cell blink period. Zero disables cell blink.
	BlinkInterval Duration `toml:"blink_interval" yaml:"blink_interval"`

	// X and Y are the pixel offset the screen is drawn at.
	X int `toml:"x" yaml:"x"`
	Y int `toml:"y" yaml:"y"`
}

// MarginsConfig holds per-side insets in cells.
type MarginsConfig struct {
	Left   int `toml:"left" yaml:"left"`
	Top    int `toml:"top" yaml:"top"`
	Right  int `toml:"right" yaml:"right"`
	Bottom int `toml:"bottom" yaml:"bottom"`
}

// CursorSection holds cursor appearance and blink settings.
type CursorSection struct {
	// Shape is "block", "pipe" or "underscore".
	Shape string `toml:"shape" yaml:"shape"`

	BlinkInterval Duration `toml:"blink_interval" yaml:"blink_interval"`

	// Visibility is "blink", "visible" or "hidden".
	Visibility string `toml:"visibility" yaml:"visibility"`

	OffsetX int `toml:"offset_x" yaml:"offset_x"`
	OffsetY int `toml:"offset_y" yaml:"offset_y"`

	PadWidth  int `toml:"pad_width" yaml:"pad_width"`
	PadHeight int `toml:"pad_height" yaml:"pad_height"`

	AllowOutOfWindow bool `toml:"allow_out_of_window" yaml:"allow_out_of_window"`
}

// ColorsConfig holds hex colors.
type ColorsConfig struct {
	Foreground string `toml:"foreground" yaml:"foreground"`
	Background string `toml:"background" yaml:"background"`

	// Cursor pins the cursor color. Empty follows the active foreground.
	Cursor string `toml:"cursor" yaml:"cursor"`
}

// FontConfig selects the glyph face.
type FontConfig struct {
	// Face is "basic", "gomono" or a path to a TrueType file.
	Face string  `toml:"face" yaml:"face"`
	Size float64 `toml:"size" yaml:"size"`
}

// CheckFace returns ErrUnknownFace unless Face names a built-in face or a
// .ttf file.
func (f FontConfig) CheckFace() error {
	switch f.Face {
	case FaceBasic, FaceGoMono:
		return nil
	}
	if strings.EqualFold(filepath.Ext(f.Face), ".ttf") {
		return nil
	}
	return fmt.Errorf("%w %q: want %q, %q or a .ttf file", ErrUnknownFace, f.Face, FaceBasic, FaceGoMono)
}

// LogConfig configures diagnostics.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`

	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// HostConfig configures the frame loop and output surface.
type HostConfig struct {
	// Mode is "auto", "terminal" or "headless".
	Mode string `toml:"mode" yaml:"mode"`

	FPS int `toml:"fps" yaml:"fps"`

	// Frames is the number of frames a headless run renders.
	Frames int `toml:"frames" yaml:"frames"`

	// Output is the PNG path a headless run writes.
	Output string `toml:"output" yaml:"output"`

	// Watch reloads the config file when it changes.
	Watch bool `toml:"watch" yaml:"watch"`
}

// Host modes.
const (
	ModeAuto     = "auto"
	ModeTerminal = "terminal"
	ModeHeadless = "headless"
)

// Cursor visibility modes.
const (
	VisibilityBlink   = "blink"
	VisibilityVisible = "visible"
	VisibilityHidden  = "hidden"
)

// Font faces.
const (
	FaceBasic  = "basic"
	FaceGoMono = "gomono"
)

// Default returns the built-in configuration.
func Default() *Config {
	opts := vga.DefaultOptions()
	return &Config{
		Screen: ScreenConfig{
			Width:      opts.Size.W,
			Height:     opts.Size.H,
			CellWidth:  opts.CellSize.W,
			CellHeight: opts.CellSize.H,
			Margins: MarginsConfig{
				Left:   opts.Margins.Left,
				Top:    opts.Margins.Top,
				Right:  opts.Margins.Right,
				Bottom: opts.Margins.Bottom,
			},
			BlinkInterval: Duration(opts.BlinkInterval),
		},
		Cursor: CursorSection{
			Shape:         opts.Cursor.Shape.String(),
			BlinkInterval: Duration(opts.Cursor.BlinkInterval),
			Visibility:    VisibilityBlink,
		},
		Colors: ColorsConfig{
			Foreground: opts.Foreground.Hex(),
			Background: opts.Background.Hex(),
		},
		Font: FontConfig{
			Face: FaceBasic,
			Size: 13,
		},
		Log: LogConfig{
			Level: "info",
		},
		Host: HostConfig{
			Mode:   ModeAuto,
			FPS:    30,
			Frames: 1,
			Output: "sabrevga.png",
		},
	}
}

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	s := c.Screen
	if s.Width <= 0 {
		add("screen.width", "must be positive", s.Width)
	}
	if s.Height <= 0 {
		add("screen.height", "must be positive", s.Height)
	}
	if s.CellWidth <= 0 {
		add("screen.cell_width", "must be positive", s.CellWidth)
	}
	if s.CellHeight <= 0 {
		add("screen.cell_height", "must be positive", s.CellHeight)
	}
	m := s.Margins
	if m.Left < 0 || m.Top < 0 || m.Right < 0 || m.Bottom < 0 {
		add("screen.margins", "must not be negative", m)
	}
	if s.BlinkInterval < 0 {
		add("screen.blink_interval", "must not be negative", s.BlinkInterval.Std().String())
	}

	switch strings.ToLower(c.Cursor.Shape) {
	case "block", "pipe", "bar", "underscore", "underline":
	default:
		add("cursor.shape", "unknown shape", c.Cursor.Shape)
	}
	switch c.Cursor.Visibility {
	case VisibilityBlink, VisibilityVisible, VisibilityHidden:
	default:
		add("cursor.visibility", "must be blink, visible or hidden", c.Cursor.Visibility)
	}
	if c.Cursor.PadWidth < 0 || c.Cursor.PadHeight < 0 {
		add("cursor.padding", "must not be negative", fmt.Sprintf("%dx%d", c.Cursor.PadWidth, c.Cursor.PadHeight))
	}

	colors := []struct{ path, hex string }{
		{"colors.foreground", c.Colors.Foreground},
		{"colors.background", c.Colors.Background},
		{"colors.cursor", c.Colors.Cursor},
	}
	for _, col := range colors {
		if col.hex == "" && col.path == "colors.cursor" {
			continue
		}
		if _, err := core.ColorFromHex(col.hex); err != nil {
			add(col.path, err.Error(), col.hex)
		}
	}

	if c.Font.Face == "" {
		add("font.face", "must not be empty", c.Font.Face)
	} else if c.Font.CheckFace() != nil {
		add("font.face", `unknown face, want "basic", "gomono" or a .ttf file`, c.Font.Face)
	}
	if c.Font.Size <= 0 {
		add("font.size", "must be positive", c.Font.Size)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", "unknown level", c.Log.Level)
	}

	switch c.Host.Mode {
	case ModeAuto, ModeTerminal, ModeHeadless:
	default:
		add("host.mode", "must be auto, terminal or headless", c.Host.Mode)
	}
	if c.Host.FPS <= 0 {
		add("host.fps", "must be positive", c.Host.FPS)
	}
	if c.Host.Frames < 1 {
		add("host.frames", "must be at least 1", c.Host.Frames)
	}

	return errors.Join(errs...)
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// ScreenOptions converts the configuration to vga.Options.
func (c *Config) ScreenOptions() (vga.Options, error) {
	fg, err := core.ColorFromHex(c.Colors.Foreground)
	if err != nil {
		return vga.Options{}, fmt.Errorf("colors.foreground: %w", err)
	}
	bg, err := core.ColorFromHex(c.Colors.Background)
	if err != nil {
		return vga.Options{}, fmt.Errorf("colors.background: %w", err)
	}
	cur, err := c.CursorConfig()
	if err != nil {
		return vga.Options{}, err
	}

	s := c.Screen
	return vga.Options{
		Size:     core.Sz(s.Width, s.Height),
		CellSize: core.Sz(s.CellWidth, s.CellHeight),
		Margins: core.Margins{
			Left:   s.Margins.Left,
			Top:    s.Margins.Top,
			Right:  s.Margins.Right,
			Bottom: s.Margins.Bottom,
		},
		Foreground:       fg,
		Background:       bg,
		BlinkInterval:    s.BlinkInterval.Std(),
		Cursor:           cur,
		FixedCursorColor: c.Colors.Cursor != "",
		Position:         core.Pt(s.X, s.Y),
	}, nil
}

// CursorConfig converts the cursor and cursor color settings.
func (c *Config) CursorConfig() (cursor.Config, error) {
	cfg := cursor.DefaultConfig()
	cfg.Shape = cursor.ShapeFromString(c.Cursor.Shape)
	cfg.BlinkInterval = c.Cursor.BlinkInterval.Std()
	cfg.Offset = core.Pt(c.Cursor.OffsetX, c.Cursor.OffsetY)
	cfg.Padding = core.Sz(c.Cursor.PadWidth, c.Cursor.PadHeight)
	cfg.AllowOutOfWindow = c.Cursor.AllowOutOfWindow

	switch c.Cursor.Visibility {
	case VisibilityVisible:
		cfg.ForceVisible = true
	case VisibilityHidden:
		cfg.ForceHidden = true
	}

	hex := c.Colors.Cursor
	if hex == "" {
		hex = c.Colors.Foreground
	}
	col, err := core.ColorFromHex(hex)
	if err != nil {
		return cursor.Config{}, fmt.Errorf("cursor color: %w", err)
	}
	cfg.Color = col
	return cfg, nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
