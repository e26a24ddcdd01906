package render

// Mix crossfades a into b: dst is a at alpha 0 and b at alpha 1. Frames
// must share dimensions; extra pixels in dst are left alone.
func Mix(dst, a, b *Frame, alpha float64) {
	n := min(dst.Len(), a.Len(), b.Len())
	switch {
	case alpha <= 0:
		copy(dst.Pix[:n], a.Pix)
	case alpha >= 1:
		copy(dst.Pix[:n], b.Pix)
	default:
		for i := 0; i < n; i++ {
			dst.Pix[i] = a.Pix[i].Lerp(b.Pix[i], alpha)
		}
	}
}

// Wipe copies b over a along the x axis: columns left of progress*width come
// from b, or right of it when reverse is set.
func Wipe(dst, a, b *Frame, progress float64, reverse bool) {
	edge := int(progress * float64(dst.Width))
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			fromB := x < edge
			if reverse {
				fromB = x >= dst.Width-edge
			}
			i := y*dst.Width + x
			if fromB {
				dst.Pix[i] = b.Pix[i]
			} else {
				dst.Pix[i] = a.Pix[i]
			}
		}
	}
}
