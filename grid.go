package colorsplash

import (
	"fmt"
	"image"
	"image/color"
	"slices"
)

// RGB is a 3-channel 8-bit pixel grid stored row-major and interleaved in
// B,G,R order, len(Pix) = W*H*3.
type RGB struct {
	W, H int
	Pix  []uint8
}

// NewRGB returns a black w×h grid.
func NewRGB(w, h int) RGB {
	return RGB{W: w, H: h, Pix: make([]uint8, w*h*3)}
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 3
}

func maskOffset(w, x, y int) int {
	return (y*w + x) * 4
}

// In reports whether (x, y) lies inside the grid.
func (g RGB) In(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the B,G,R sample at (x, y).
func (g RGB) At(x, y int) [3]uint8 {
	off := pixOffset(g.W, x, y)
	return [3]uint8{g.Pix[off], g.Pix[off+1], g.Pix[off+2]}
}

// Set writes the B,G,R sample at (x, y).
func (g RGB) Set(x, y int, c [3]uint8) {
	off := pixOffset(g.W, x, y)
	g.Pix[off] = c[0]
	g.Pix[off+1] = c[1]
	g.Pix[off+2] = c[2]
}

// Clone returns a deep copy.
func (g RGB) Clone() RGB {
	return RGB{W: g.W, H: g.H, Pix: append([]uint8(nil), g.Pix...)}
}

// Image converts the grid to an opaque RGBA image for display and encoding.
func (g RGB) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for y := range g.H {
		for x := range g.W {
			off := pixOffset(g.W, x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: g.Pix[off+2],
				G: g.Pix[off+1],
				B: g.Pix[off],
				A: 255,
			})
		}
	}
	return img
}

// RGBFromImage samples any image into a B,G,R grid. Alpha is dropped.
func RGBFromImage(src image.Image) RGB {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := NewRGB(w, h)
	for y := range h {
		for x := range w {
			r, gg, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := pixOffset(w, x, y)
			g.Pix[off] = uint8(b >> 8)
			g.Pix[off+1] = uint8(gg >> 8)
			g.Pix[off+2] = uint8(r >> 8)
		}
	}
	return g
}

// Pixel is a B,G,R,A mask sample.
type Pixel [4]uint8

// Mask category values.
var (
	Border = Pixel{0, 255, 0, 255}
	Fill   = Pixel{0, 0, 255, 100}
	Empty  = Pixel{0, 0, 0, 0}
)

// Category is the semantic class of a mask pixel.
type Category int

const (
	CategoryEmpty Category = iota
	CategoryFill
	CategoryBorder
)

func (c Category) String() string {
	switch c {
	case CategoryBorder:
		return "border"
	case CategoryFill:
		return "fill"
	default:
		return "empty"
	}
}

// Pixel returns the canonical value for c.
func (c Category) Pixel() Pixel {
	switch c {
	case CategoryBorder:
		return Border
	case CategoryFill:
		return Fill
	default:
		return Empty
	}
}

// CategoryOf classifies p by its green and red channels: green 255 is a
// border, otherwise red 255 is a fill, anything else is empty.
func CategoryOf(p Pixel) Category {
	if p[1] == 255 {
		return CategoryBorder
	}
	if p[2] == 255 {
		return CategoryFill
	}
	return CategoryEmpty
}

// Mask is a 4-channel B,G,R,A grid whose pixels are Border, Fill or Empty,
// len(Pix) = W*H*4.
type Mask struct {
	W, H int
	Pix  []uint8
}

// NewMask returns an all-Empty w×h mask.
func NewMask(w, h int) Mask {
	return Mask{W: w, H: h, Pix: make([]uint8, w*h*4)}
}

// In reports whether (x, y) lies inside the mask.
func (m Mask) In(x, y int) bool {
	return x >= 0 && x < m.W && y >= 0 && y < m.H
}

// At returns the pixel at (x, y).
func (m Mask) At(x, y int) Pixel {
	off := maskOffset(m.W, x, y)
	return Pixel{m.Pix[off], m.Pix[off+1], m.Pix[off+2], m.Pix[off+3]}
}

// Set writes the pixel at (x, y).
func (m Mask) Set(x, y int, p Pixel) {
	off := maskOffset(m.W, x, y)
	copy(m.Pix[off:off+4], p[:])
}

// CategoryAt classifies the pixel at (x, y).
func (m Mask) CategoryAt(x, y int) Category {
	return CategoryOf(m.At(x, y))
}

func (m Mask) isBorder(x, y int) bool {
	return m.Pix[maskOffset(m.W, x, y)+1] == 255
}

// Clone returns a deep copy.
func (m Mask) Clone() Mask {
	return Mask{W: m.W, H: m.H, Pix: append([]uint8(nil), m.Pix...)}
}

// Equal reports whether both masks have the same size and pixels.
func (m Mask) Equal(o Mask) bool {
	return m.W == o.W && m.H == o.H && slices.Equal(m.Pix, o.Pix)
}

// WellFormed reports whether every pixel is exactly Border, Fill or Empty.
func (m Mask) WellFormed() bool {
	for y := range m.H {
		for x := range m.W {
			switch m.At(x, y) {
			case Border, Fill, Empty:
			default:
				return false
			}
		}
	}
	return true
}

// Count returns the number of pixels in category c.
func (m Mask) Count(c Category) int {
	n := 0
	for y := range m.H {
		for x := range m.W {
			if m.CategoryAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

// Image converts the mask to a non-premultiplied RGBA image.
func (m Mask) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := range m.H {
		for x := range m.W {
			p := m.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]})
		}
	}
	return img
}

func mustMatch(op string, w1, h1, w2, h2 int) {
	if w1 != w2 || h1 != h2 {
		panic(fmt.Sprintf("colorsplash: %s: size mismatch %dx%d vs %dx%d", op, w1, h1, w2, h2))
	}
}
