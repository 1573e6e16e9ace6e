package edge

import (
	"image"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// DefaultAutoSigma is the spread used around the median by AutoThresholds.
const DefaultAutoSigma = 0.33

// AutoThresholds derives a (low, high) pair from the median intensity of
// src: low = (1-sigma)·median, high = (1+sigma)·median, rounded and clamped to
// [0,255]. An empty image yields (0, 0).
func AutoThresholds(src *image.Gray, sigma float64) (low, high int) {
	b := src.Bounds()
	if b.Empty() {
		return 0, 0
	}
	if sigma < 0 {
		sigma = 0
	}
	vals := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			vals = append(vals, float64(src.GrayAt(x, y).Y))
		}
	}
	slices.Sort(vals)
	median := stat.Quantile(0.5, stat.Empirical, vals, nil)

	low = clamp(int(math.Round((1-sigma)*median)), 0, 255)
	high = clamp(int(math.Round((1+sigma)*median)), 0, 255)
	return low, high
}
