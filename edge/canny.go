// Package edge provides the binary edge detector used to seed colorsplash
// masks.
package edge

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Canny is a Canny edge detector. Its output contains only 0 and 255.
type Canny struct {
	// Standard deviation of the Gaussian pre-blur. 0 disables it, which
	// matches the behaviour of a plain 3×3 Sobel Canny.
	Sigma float64
}

const (
	tan22 = 0.41421356237309503 // tan(22.5°)
	tan67 = 2.414213562373095   // tan(67.5°)
)

// Detect returns the edge map of src. Gradient magnitudes are L1
// (|gx|+|gy|) on the 0-255 scale; pixels above high are strong edges and
// pixels above low survive if they are 8-connected to a strong edge.
// When low > high the two are swapped.
func (c Canny) Detect(src *image.Gray, low, high int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	if w == 0 || h == 0 {
		return out
	}
	if low > high {
		low, high = high, low
	}

	lum := make([]float64, w*h)
	for y := range h {
		for x := range w {
			lum[y*w+x] = float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	if c.Sigma > 0 {
		lum = gaussianBlur(lum, w, h, c.Sigma)
	}

	gx := make([]float64, w*h)
	gy := make([]float64, w*h)
	mag := make([]float64, w*h)
	at := func(x, y int) float64 {
		return lum[clamp(y, 0, h-1)*w+clamp(x, 0, w-1)]
	}
	for y := range h {
		for x := range w {
			sx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			sy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			i := y*w + x
			gx[i], gy[i] = sx, sy
			mag[i] = math.Abs(sx) + math.Abs(sy)
		}
	}

	magAt := func(x, y int) float64 {
		if x < 0 || x >= w || y < 0 || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	// Non-maximum suppression, then classify.
	const (
		none = iota
		weak
		strong
	)
	class := make([]uint8, w*h)
	var stack []int
	lo, hi := float64(low), float64(high)
	for y := range h {
		for x := range w {
			i := y*w + x
			m := mag[i]
			if m <= lo {
				continue
			}
			ax, ay := math.Abs(gx[i]), math.Abs(gy[i])
			var n1, n2 float64
			switch {
			case ay <= ax*tan22:
				n1, n2 = magAt(x-1, y), magAt(x+1, y)
			case ay >= ax*tan67:
				n1, n2 = magAt(x, y-1), magAt(x, y+1)
			case gx[i]*gy[i] > 0:
				n1, n2 = magAt(x-1, y-1), magAt(x+1, y+1)
			default:
				n1, n2 = magAt(x+1, y-1), magAt(x-1, y+1)
			}
			if m <= n1 || m < n2 {
				continue
			}
			if m > hi {
				class[i] = strong
				stack = append(stack, i)
			} else {
				class[i] = weak
			}
		}
	}

	// Hysteresis: promote weak pixels reachable from a strong one.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: 255})
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if class[j] == weak {
					class[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}
	return out
}

// gaussianBlur applies a separable Gaussian with radius ceil(3σ) and
// replicated borders.
func gaussianBlur(src []float64, w, h int, sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	tmp := make([]float64, w*h)
	for y := range h {
		for x := range w {
			var s float64
			for k, kv := range kernel {
				s += kv * src[y*w+clamp(x+k-radius, 0, w-1)]
			}
			tmp[y*w+x] = s
		}
	}
	dst := make([]float64, w*h)
	for y := range h {
		for x := range w {
			var s float64
			for k, kv := range kernel {
				s += kv * tmp[clamp(y+k-radius, 0, h-1)*w+x]
			}
			dst[y*w+x] = s
		}
	}
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
