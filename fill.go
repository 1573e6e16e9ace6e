package colorsplash

import "image"

// FloodFill sets every pixel 4-connected to seed, without crossing a wall
// pixel, to newVal. The input is never modified. If the seed is outside the
// mask or already equals newVal or wall, an unchanged copy is returned.
//
// The fill does not look at diagonals; a border only contains a fill when it
// is closed under 4-connectivity (see Dilate and Bridge).
func FloodFill(m Mask, seed image.Point, newVal, wall Pixel) Mask {
	out := m.Clone()
	if !m.In(seed.X, seed.Y) {
		return out
	}
	if cur := m.At(seed.X, seed.Y); cur == newVal || cur == wall {
		return out
	}

	out.Set(seed.X, seed.Y, newVal)
	frontier := []image.Point{seed}
	var next []image.Point
	for len(frontier) > 0 {
		next = next[:0]
		for _, p := range frontier {
			for _, d := range cardinal {
				nx, ny := p.X+d[0], p.Y+d[1]
				if !out.In(nx, ny) {
					continue
				}
				cur := out.At(nx, ny)
				if cur == wall || cur == newVal {
					continue
				}
				out.Set(nx, ny, newVal)
				next = append(next, image.Pt(nx, ny))
			}
		}
		frontier, next = next, frontier
	}
	return out
}

// FillAt toggles the region under p: an empty region becomes filled and a
// filled region becomes empty. Clicks on a border or outside the mask are
// ignored.
func FillAt(m Mask, p image.Point) Mask {
	if !m.In(p.X, p.Y) {
		return m.Clone()
	}
	switch c := m.CategoryAt(p.X, p.Y); c {
	case CategoryEmpty:
		return FloodFill(m, p, Fill, Border)
	case CategoryFill:
		return FloodFill(m, p, Empty, Border)
	default:
		Logger().Debug("click on border ignored", "x", p.X, "y", p.Y)
		return m.Clone()
	}
}
