package render

import "github.com/coreman2200/funtimes-sketchpad/internal/random"

// Bloom adds a blurred copy of the bright pixels back onto the frame.
// Pixels whose luminance exceeds Threshold glow into their neighbours.
type Bloom struct {
	Strength  float64 // 0 disables the pass
	Threshold float64
	// Radius is the box blur radius in pixels; defaults to 1.
	Radius int
	// Dither adds up to this many 8-bit steps of noise to hide banding.
	Dither float64
	Rand   *random.Random

	bright, tmp []Color
}

func (b *Bloom) Apply(f *Frame) {
	if b.Strength <= 0 || f.Len() == 0 {
		return
	}
	radius := b.Radius
	if radius <= 0 {
		radius = 1
	}
	n := f.Len()
	if cap(b.bright) < n {
		b.bright = make([]Color, n)
		b.tmp = make([]Color, n)
	}
	bright, tmp := b.bright[:n], b.tmp[:n]

	th := float32(b.Threshold)
	for i, c := range f.Pix {
		if luminance(c) > th {
			bright[i] = c
		} else {
			bright[i] = Black
		}
	}

	// separable box blur: rows into tmp, then columns back into bright
	w, h := f.Width, f.Height
	inv := float32(1) / float32(2*radius+1)
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			var acc Color
			for d := -radius; d <= radius; d++ {
				c := bright[row+clampInt(x+d, 0, w-1)]
				acc.R += c.R
				acc.G += c.G
				acc.B += c.B
			}
			tmp[row+x] = acc.Scale(inv)
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc Color
			for d := -radius; d <= radius; d++ {
				c := tmp[clampInt(y+d, 0, h-1)*w+x]
				acc.R += c.R
				acc.G += c.G
				acc.B += c.B
			}
			bright[y*w+x] = acc.Scale(inv)
		}
	}

	s := float32(b.Strength)
	for i := range f.Pix {
		f.Pix[i].R += bright[i].R * s
		f.Pix[i].G += bright[i].G * s
		f.Pix[i].B += bright[i].B * s
	}

	if b.Dither <= 0 {
		return
	}
	if b.Rand == nil {
		b.Rand = random.New(1)
	}
	amp := b.Dither / 255
	for i := range f.Pix {
		d := float32(b.Rand.Noise() * amp)
		f.Pix[i].R += d
		f.Pix[i].G += d
		f.Pix[i].B += d
	}
}

// luminance uses Rec. 709 weights.
func luminance(c Color) float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}
