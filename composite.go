package colorsplash

// Overlay alpha-blends the colour of every mask pixel over bg using the
// mask's own alpha, so selected regions show as translucent red and
// borders as solid green.
func Overlay(bg RGB, m Mask) RGB {
	mustMatch("Overlay", bg.W, bg.H, m.W, m.H)
	out := NewRGB(bg.W, bg.H)
	for y := range bg.H {
		for x := range bg.W {
			moff := maskOffset(m.W, x, y)
			off := pixOffset(bg.W, x, y)
			a := float64(m.Pix[moff+3]) / 255.0
			if a == 0 {
				copy(out.Pix[off:off+3], bg.Pix[off:off+3])
				continue
			}
			oneMinusA := 1 - a
			for ch := range 3 {
				v := a*float64(m.Pix[moff+ch]) + oneMinusA*float64(bg.Pix[off+ch])
				out.Pix[off+ch] = uint8(v)
			}
		}
	}
	return out
}

// Finalize takes fg wherever the mask has any alpha and bg everywhere else.
// Unlike Overlay there is no blending: the cut is pixel exact.
func Finalize(bg, fg RGB, m Mask) RGB {
	mustMatch("Finalize", bg.W, bg.H, fg.W, fg.H)
	mustMatch("Finalize", bg.W, bg.H, m.W, m.H)
	out := NewRGB(bg.W, bg.H)
	for y := range bg.H {
		for x := range bg.W {
			off := pixOffset(bg.W, x, y)
			src := bg
			if m.Pix[maskOffset(m.W, x, y)+3] > 0 {
				src = fg
			}
			copy(out.Pix[off:off+3], src.Pix[off:off+3])
		}
	}
	return out
}
