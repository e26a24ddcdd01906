package background

import (
	"math"

	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

// Calibration is a wiring test card. The frame is split into vertical
// panels cycling red, green and blue; each panel darkens left to right and
// blends toward white up to a pure white top row. Speed rotates the channel
// assignment, in panels per second.
type Calibration struct {
	Panels int
	// LRGamma > 1 steepens the fade toward the right edge.
	LRGamma float64
	// TopPow < 1 reaches white sooner; TopMix scales the blend below the
	// top row.
	TopPow float64
	TopMix float64
	Speed  float64
}

func newCalibration(s Spec) (Background, error) {
	return &Calibration{Panels: 3, LRGamma: 1.2, TopPow: 0.6, TopMix: 1, Speed: s.Speed}, nil
}

func (c *Calibration) Name() string { return "calibration" }

func (c *Calibration) Render(dst *render.Frame, t float64) {
	w, h := dst.Width, dst.Height
	if w == 0 || h == 0 {
		return
	}
	panels := max(c.Panels, 1)
	pw := (w + panels - 1) / panels
	shift := int(math.Floor(c.Speed * t))
	topMix := clamp01(c.TopMix)

	for y := 0; y < h; y++ {
		// rows count up from the bottom
		vy := h - 1 - y
		bt := 1.0
		if vy < h-1 {
			bt = math.Pow(norm(vy, h), c.TopPow) * topMix
		}
		for x := 0; x < w; x++ {
			panel := x / pw
			px := x - panel*pw
			lr := 1 - math.Pow(norm(px, min(pw, w-panel*pw)), c.LRGamma)

			var base [3]float64
			base[((panel+shift)%3+3)%3] = 1
			var out [3]float32
			for i, v := range base {
				v *= lr
				out[i] = float32(clamp01(v + (1-v)*bt))
			}
			dst.Pix[y*w+x] = render.Color{R: out[0], G: out[1], B: out[2]}
		}
	}
}

func norm(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
