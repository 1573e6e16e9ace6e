package colorsplash

// Dilate grows every border by one pixel in the four cardinal directions.
// Neighbours outside the mask are skipped.
func Dilate(m Mask) Mask {
	out := m.Clone()
	for y := range m.H {
		for x := range m.W {
			if m.isBorder(x, y) {
				continue
			}
			for _, d := range cardinal {
				nx, ny := x+d[0], y+d[1]
				if m.In(nx, ny) && m.isBorder(nx, ny) {
					out.Set(x, y, Border)
					break
				}
			}
		}
	}
	return out
}

// Bridge closes one-pixel gaps: an interior pixel whose opposite neighbours
// are both borders, along either axis or diagonal, becomes a border.
func Bridge(m Mask) Mask {
	out := m.Clone()
	for y := 1; y < m.H-1; y++ {
		for x := 1; x < m.W-1; x++ {
			if m.isBorder(x, y) {
				continue
			}
			spans := (m.isBorder(x+1, y-1) && m.isBorder(x-1, y+1)) ||
				(m.isBorder(x, y-1) && m.isBorder(x, y+1)) ||
				(m.isBorder(x+1, y) && m.isBorder(x-1, y)) ||
				(m.isBorder(x-1, y-1) && m.isBorder(x+1, y+1))
			if spans {
				out.Set(x, y, Border)
			}
		}
	}
	return out
}

// cardinal lists the 4-connected neighbour offsets as (dx, dy).
var cardinal = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
