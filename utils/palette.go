package utils

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/setanarut/colorsplash"
)

// PaletteMethod selects how a region palette is computed.
type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	if m == PaletteMethodKMeans {
		return "kmeans"
	}
	return "dominantcolor"
}

// maxSamples caps how many region pixels are handed to kmeans.
const maxSamples = 12000

// swatch is a candidate palette colour and how much of the region it covers.
type swatch struct {
	c colorful.Color
	w float64
}

// RegionImage copies the pixels of img for which keep returns true and
// leaves every other pixel fully transparent. keep receives coordinates
// relative to the image origin.
func RegionImage(img image.Image, keep func(x, y int) bool) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			if !keep(x, y) {
				continue
			}
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.SetNRGBA(x, y, color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: 255})
		}
	}
	return out
}

// SortPaletteByBrightness orders colors from darkest to brightest by
// relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	luma := func(c colorful.Color) float64 {
		r, g, b := c.LinearRgb()
		return 0.2126*r + 0.7152*g + 0.0722*b
	}
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		return cmp.Compare(luma(a), luma(b))
	})
}

// PaletteHex formats the palette as space separated #rrggbb values.
func PaletteHex(palette []colorful.Color) string {
	hex := make([]string, len(palette))
	for i, c := range palette {
		hex[i] = c.Clamped().Hex()
	}
	return strings.Join(hex, " ")
}

// ExtractDominantPalette asks dominantcolor for a generous candidate set and
// keeps the k most distinct of them.
func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	found := dominantcolor.FindWeight(img, max(24, k*8))
	cands := make([]swatch, 0, len(found))
	for _, f := range found {
		c, _ := colorful.MakeColor(f.RGBA)
		cands = append(cands, swatch{c: c, w: f.Weight})
	}
	return pickDiverse(cands, k)
}

// ExtractKMeansPalette clusters the opaque pixels of img and keeps the k
// most distinct cluster centres. Fully transparent pixels are skipped, so a
// RegionImage only contributes its kept pixels.
func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	obs := opaqueSamples(img)
	if len(obs) == 0 {
		return nil
	}

	groups, err := kmeans.New().Partition(obs, min(max(k*4, k+2), len(obs)))
	if err != nil {
		colorsplash.Logger().Debug("kmeans partition failed", "err", err)
		return nil
	}
	cands := make([]swatch, 0, len(groups))
	for _, g := range groups {
		if len(g.Center) < 3 || len(g.Observations) == 0 {
			continue
		}
		c := colorful.Color{R: g.Center[0], G: g.Center[1], B: g.Center[2]}
		cands = append(cands, swatch{c: c, w: float64(len(g.Observations))})
	}
	return pickDiverse(cands, k)
}

// opaqueSamples returns the opaque pixels of img as unit RGB coordinates,
// striding over the image when it holds more than maxSamples of them.
func opaqueSamples(img image.Image) clusters.Observations {
	b := img.Bounds()
	opaque := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				opaque++
			}
		}
	}
	stride := 1
	if opaque > maxSamples {
		stride = int(math.Ceil(float64(opaque) / maxSamples))
	}

	obs := make(clusters.Observations, 0, min(opaque, maxSamples+1))
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			if i%stride == 0 {
				obs = append(obs, clusters.Coordinates{
					float64(r) / 0xffff,
					float64(g) / 0xffff,
					float64(bl) / 0xffff,
				})
			}
			i++
		}
	}
	return obs
}

// pickDiverse greedily picks up to k colours. The heaviest candidate comes
// first; every later pick maximises its Lab distance to the colours already
// chosen, damped for candidates that cover little of the region.
func pickDiverse(cands []swatch, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	heaviest := 0.0
	for i := range cands {
		cands[i].c = cands[i].c.Clamped()
		cands[i].w = max(cands[i].w, 1e-6)
		heaviest = max(heaviest, cands[i].w)
	}

	first := 0
	for i, s := range cands {
		if s.w > cands[first].w {
			first = i
		}
	}
	taken := make([]bool, len(cands))
	taken[first] = true
	out := []colorful.Color{cands[first].c}

	for len(out) < min(k, len(cands)) {
		best, bestScore := -1, -1.0
		for i, s := range cands {
			if taken[i] {
				continue
			}
			nearest := math.Inf(1)
			for _, c := range out {
				nearest = min(nearest, s.c.DistanceLab(c))
			}
			score := nearest * (0.55 + 0.45*math.Sqrt(s.w/heaviest))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		taken[best] = true
		out = append(out, cands[best].c)
	}
	return out
}

// ExtractPalette returns up to k representative colors of img. The kmeans
// method falls back to dominantcolor when clustering yields nothing.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	if method == PaletteMethodKMeans {
		if p := ExtractKMeansPalette(img, k); len(p) != 0 {
			return p
		}
		colorsplash.Logger().Debug("kmeans returned empty palette, falling back to dominantcolor")
	}
	return ExtractDominantPalette(img, k)
}

// SavePalette writes the palette as a row of tile×tile swatches.
func SavePalette(palette []colorful.Color, tile int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("%w: empty palette", ErrEncode)
	}
	if tile <= 0 {
		tile = 64
	}
	img := image.NewRGBA(image.Rect(0, 0, tile*len(palette), tile))
	for y := range tile {
		for x := range img.Rect.Dx() {
			r, g, b := palette[x/tile].Clamped().RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return SaveImage(img, filename)
}
