package colorsplash

import (
	"image"
	"image/color"
)

// EdgeDetector produces a binary edge map from an intensity image. Every
// output pixel must be 0 or 255, and the output must have the bounds of src.
type EdgeDetector interface {
	Detect(src *image.Gray, low, high int) *image.Gray
}

// Grayscale averages the three channels of every pixel and replicates the
// result into all three channels of a new grid.
func Grayscale(src RGB) RGB {
	out := NewRGB(src.W, src.H)
	for y := range src.H {
		for x := range src.W {
			off := pixOffset(src.W, x, y)
			sum := float64(src.Pix[off]) + float64(src.Pix[off+1]) + float64(src.Pix[off+2])
			sum = max(0, min(765, sum))
			avg := uint8(sum / 3)
			out.Pix[off] = avg
			out.Pix[off+1] = avg
			out.Pix[off+2] = avg
		}
	}
	return out
}

// Intensity returns channel C0 of src as a gray image.
func Intensity(src RGB) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, src.W, src.H))
	for y := range src.H {
		for x := range src.W {
			gray.SetGray(x, y, color.Gray{Y: src.Pix[pixOffset(src.W, x, y)]})
		}
	}
	return gray
}

// BuildMask runs d over the intensity of src and turns every edge pixel
// into Border and everything else into Empty.
func BuildMask(src RGB, d EdgeDetector, th Thresholds) Mask {
	edges := d.Detect(Intensity(src), th.Min, th.Max)
	b := edges.Bounds()
	mustMatch("BuildMask", src.W, src.H, b.Dx(), b.Dy())

	m := NewMask(src.W, src.H)
	for y := range src.H {
		for x := range src.W {
			if edges.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 255 {
				m.Set(x, y, Border)
			}
		}
	}
	Logger().Debug("mask built",
		"min", th.Min, "max", th.Max,
		"border", m.Count(CategoryBorder))
	return m
}

// Swap turns every Fill pixel into Empty and every Empty pixel into Fill.
// Borders are kept.
func Swap(m Mask) Mask {
	out := NewMask(m.W, m.H)
	for y := range m.H {
		for x := range m.W {
			switch m.CategoryAt(x, y) {
			case CategoryBorder:
				out.Set(x, y, Border)
			case CategoryFill:
				out.Set(x, y, Empty)
			default:
				out.Set(x, y, Fill)
			}
		}
	}
	return out
}
