package backend

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
)

// FaceProvider is implemented by fonts that can be rasterized.
type FaceProvider interface {
	Face() font.Face
}

// FaceFont adapts an x/image font.Face to Font.
type FaceFont struct {
	face       font.Face
	ascent     int
	lineHeight int
}

// NewFaceFont wraps face.
func NewFaceFont(face font.Face) *FaceFont {
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := (m.Ascent + m.Descent).Ceil()
	if h := m.Height.Ceil(); h > height {
		height = h
	}
	return &FaceFont{face: face, ascent: ascent, lineHeight: height}
}

// DefaultFont returns the built-in 7x13 bitmap font.
func DefaultFont() *FaceFont {
	return NewFaceFont(basicfont.Face7x13)
}

// GoMono returns the Go Mono TrueType font at the given point size.
func GoMono(size float64) (*FaceFont, error) {
	return ParseTrueType(gomono.TTF, size)
}

// ParseTrueType parses TrueType data and returns a font at the given point size.
func ParseTrueType(data []byte, size float64) (*FaceFont, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return NewFaceFont(face), nil
}

// LoadTrueType reads a TrueType file from disk.
func LoadTrueType(path string, size float64) (*FaceFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return ParseTrueType(data, size)
}

// Face implements FaceProvider.
func (f *FaceFont) Face() font.Face {
	return f.face
}

// Metrics implements Font.
func (f *FaceFont) Metrics(r rune) GlyphMetrics {
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		adv, _ = f.face.GlyphAdvance('?')
	}
	w := adv.Ceil()
	return GlyphMetrics{
		Advance: w,
		Width:   w,
		Height:  f.lineHeight,
		Ascent:  f.ascent,
	}
}

// LineHeight implements Font.
func (f *FaceFont) LineHeight() int {
	return f.lineHeight
}
