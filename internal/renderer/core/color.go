package core

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a straight (non-premultiplied) 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{R: 0, G: 0, B: 0, A: 255}
	White       = Color{R: 255, G: 255, B: 255, A: 255}
	Gray        = Color{R: 128, G: 128, B: 128, A: 255}
	Red         = Color{R: 255, G: 0, B: 0, A: 255}
	Green       = Color{R: 0, G: 128, B: 0, A: 255}
	Lime        = Color{R: 0, G: 255, B: 0, A: 255}
	Blue        = Color{R: 0, G: 0, B: 255, A: 255}
	Yellow      = Color{R: 255, G: 255, B: 0, A: 255}
	Cyan        = Color{R: 0, G: 255, B: 255, A: 255}
	Magenta     = Color{R: 255, G: 0, B: 255, A: 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color with the given alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ColorFromHex parses "#rgb", "#rrggbb" or "#rrggbbaa".
// The leading '#' is optional.
func ColorFromHex(hex string) (Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	var alpha uint8 = 255
	switch len(s) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(s[6:8], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", hex)
		}
		alpha = uint8(a)
		s = s[:6]
	default:
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	c, err := colorful.Hex("#" + s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// MustHex is ColorFromHex for package-level literals. It panics on bad input.
func MustHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBA implements image/color.Color. Values are alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	a |= a << 8
	r = uint32(c.R)
	r |= r << 8
	r = r * a / 0xffff
	g = uint32(c.G)
	g |= g << 8
	g = g * a / 0xffff
	b = uint32(c.B)
	b |= b << 8
	b = b * a / 0xffff
	return r, g, b, a
}

// IsTransparent reports whether the color has zero alpha.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

// IsOpaque reports whether the color has full alpha.
func (c Color) IsOpaque() bool {
	return c.A == 255
}

// Opaque returns the color with full alpha.
func (c Color) Opaque() Color {
	c.A = 255
	return c
}

// WithAlpha returns the color with the given alpha.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Blend mixes other into c by amount (0 = c, 1 = other) in RGB space.
// Alpha is interpolated linearly.
func (c Color) Blend(other Color, amount float64) Color {
	if amount <= 0 {
		return c
	}
	if amount >= 1 {
		return other
	}
	mixed := c.colorful().BlendRgb(other.colorful(), amount).Clamped()
	r, g, b := mixed.RGB255()
	a := float64(c.A)*(1-amount) + float64(other.A)*amount
	return Color{R: r, G: g, B: b, A: uint8(a + 0.5)}
}

// Over composites c over dst using c's alpha and returns an opaque result
// when dst is opaque.
func (c Color) Over(dst Color) Color {
	switch c.A {
	case 0:
		return dst
	case 255:
		return c
	}
	if dst.A == 0 {
		return c
	}
	out := dst.Blend(c.Opaque(), float64(c.A)/255)
	out.A = max(dst.A, c.A)
	return out
}

// Equals returns true if two colors are identical.
func (c Color) Equals(other Color) bool {
	return c == other
}

// String returns the #RRGGBBAA representation.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Hex returns the #RRGGBB representation, or #RRGGBBAA when not opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return c.String()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}
