package backend

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/sabrevga/internal/renderer/core"
)

// surface is an RGBA canvas shared by the raster host and its targets.
type surface struct {
	mu       sync.Mutex
	img      *image.RGBA
	released bool
}

func newSurface(size core.Size) *surface {
	return &surface{img: image.NewRGBA(image.Rect(0, 0, size.W, size.H))}
}

func toImageRect(r core.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (s *surface) Clear(c core.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *surface) ClearRect(r core.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	draw.Draw(s.img, toImageRect(r).Intersect(s.img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

func (s *surface) FillRect(r core.Rect, c core.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || c.IsTransparent() {
		return
	}
	draw.Draw(s.img, toImageRect(r).Intersect(s.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// DrawString rasterizes glyphs with the font's face. Fonts that do not
// provide a face are drawn as filled glyph boxes.
func (s *surface) DrawString(f Font, text string, origin core.Point, fn GlyphFunc) {
	placed := Layout(f, text, origin, fn)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}

	var face font.Face
	if fp, ok := f.(FaceProvider); ok {
		face = fp.Face()
	}

	for _, g := range placed {
		if g.Color.IsTransparent() {
			continue
		}
		if face == nil {
			box := core.RectAt(g.Position, core.Sz(g.Metrics.Width, g.Metrics.Height))
			draw.Draw(s.img, toImageRect(box).Intersect(s.img.Bounds()), image.NewUniform(g.Color), image.Point{}, draw.Over)
			continue
		}
		d := font.Drawer{
			Dst:  s.img,
			Src:  image.NewUniform(g.Color),
			Face: face,
			Dot:  fixed.P(g.Position.X, g.Position.Y+g.Metrics.Ascent),
		}
		d.DrawString(string(g.Rune))
	}
}

// Raster is a Context backed by an in-memory RGBA image.
type Raster struct {
	*surface
}

// NewRaster creates a raster host of the given pixel size.
func NewRaster(size core.Size) (*Raster, error) {
	if size.IsEmpty() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTargetSize, size.W, size.H)
	}
	return &Raster{surface: newSurface(size)}, nil
}

// NewTarget implements Device.
func (r *Raster) NewTarget(size core.Size) (Target, error) {
	if size.IsEmpty() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTargetSize, size.W, size.H)
	}
	return &RasterTarget{surface: newSurface(size)}, nil
}

// DrawTarget implements Context. Targets from other devices are ignored.
func (r *Raster) DrawTarget(t Target, pos core.Point) {
	rt, ok := t.(*RasterTarget)
	if !ok {
		return
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.released {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	b := rt.img.Bounds()
	dst := image.Rect(pos.X, pos.Y, pos.X+b.Dx(), pos.Y+b.Dy())
	draw.Draw(r.img, dst, rt.img, image.Point{}, draw.Over)
}

// Size returns the host's pixel size.
func (r *Raster) Size() core.Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.img.Bounds()
	return core.Sz(b.Dx(), b.Dy())
}

// Image returns a copy of the host image.
func (r *Raster) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := image.NewRGBA(r.img.Bounds())
	copy(out.Pix, r.img.Pix)
	return out
}

// At returns the color of one host pixel.
func (r *Raster) At(x, y int) core.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.img.RGBAAt(x, y)
	return unpremultiply(c.R, c.G, c.B, c.A)
}

// WritePNG encodes the host image as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.Image())
}

// RasterTarget is an off-screen RGBA target.
type RasterTarget struct {
	*surface
}

// Size implements Target.
func (t *RasterTarget) Size() core.Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.img.Bounds()
	return core.Sz(b.Dx(), b.Dy())
}

// Release implements Target.
func (t *RasterTarget) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.released = true
	t.img = image.NewRGBA(image.Rectangle{})
}

// At returns the color of one target pixel.
func (t *RasterTarget) At(x, y int) core.Color {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.img.RGBAAt(x, y)
	return unpremultiply(c.R, c.G, c.B, c.A)
}

func unpremultiply(r, g, b, a uint8) core.Color {
	if a == 0 {
		return core.Transparent
	}
	if a == 255 {
		return core.RGB(r, g, b)
	}
	un := func(v uint8) uint8 {
		return uint8((uint32(v)*255 + uint32(a)/2) / uint32(a))
	}
	return core.RGBA(un(r), un(g), un(b), a)
}
