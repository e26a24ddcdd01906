package render

import "math"

// ToneMap applies exposure in EV, a filmic/ACES curve and output gamma.
type ToneMap struct {
	ExposureEV float64
	// Gamma defaults to 2.2; 1 disables it.
	Gamma float64
}

func (t ToneMap) Apply(f *Frame) {
	gamma := t.Gamma
	if gamma <= 0 {
		gamma = 2.2
	}
	exposure := float32(math.Pow(2.0, t.ExposureEV))
	buf := f.Pix

	for i := range buf {
		r := acesApprox(buf[i].R * exposure)
		g := acesApprox(buf[i].G * exposure)
		b := acesApprox(buf[i].B * exposure)

		if gamma != 1.0 {
			ig := 1.0 / gamma
			r = powf(r, ig)
			g = powf(g, ig)
			b = powf(b, ig)
		}

		buf[i].R = clamp01(r)
		buf[i].G = clamp01(g)
		buf[i].B = clamp01(b)
	}
}

// Limiter is a two-stage limiter for LED output:
// 1) per-pixel white cap: scales (R,G,B) so R+G+B <= WhiteCap
// 2) global current budget: estimates current and scales the whole frame to
// stay under BudgetMilliAmps, softly from Knee*budget.
type Limiter struct {
	WhiteCap        float64 // default 3.0 = no cap
	ChanMilliAmps   float64 // per channel at full scale; WS2812 ~20
	BudgetMilliAmps float64 // 0 disables the budget stage
	Knee            float64 // default 0.9
}

func (l Limiter) Apply(f *Frame) {
	whiteCap := l.WhiteCap
	if whiteCap <= 0 {
		whiteCap = 3.0
	}
	chanmA := l.ChanMilliAmps
	if chanmA <= 0 {
		chanmA = 20
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}
	buf := f.Pix

	wc := float32(whiteCap)
	for i := range buf {
		s := buf[i].R + buf[i].G + buf[i].B
		if s > wc && s > 0 {
			scale := wc / s
			buf[i].R *= scale
			buf[i].G *= scale
			buf[i].B *= scale
		}
	}

	budget := l.BudgetMilliAmps
	if budget <= 0 {
		return
	}
	total := EstimateMilliAmps(buf, chanmA)
	if total <= 0 {
		return
	}
	ratio := total / budget
	if ratio <= 1.0 {
		if ratio <= knee {
			return
		}
		// map ratio in [knee,1] to scale in [1, budget/total]
		minS := budget / total
		t := (ratio - knee) / (1.0 - knee)
		applyGlobalScale(buf, float32(1.0-t*(1.0-minS)))
		return
	}
	applyGlobalScale(buf, float32(budget/total))
}

// EstimateMilliAmps sums channel currents the way Limiter does.
func EstimateMilliAmps(buf []Color, chanmA float64) float64 {
	var total float64
	cm := float32(chanmA)
	for i := range buf {
		total += float64((buf[i].R + buf[i].G + buf[i].B) * cm)
	}
	return total
}

func applyGlobalScale(buf []Color, s float32) {
	if s >= 1.0 {
		return
	}
	for i := range buf {
		buf[i].R *= s
		buf[i].G *= s
		buf[i].B *= s
	}
}

// RadialBlur smears pixels toward a center point.
type RadialBlur struct {
	// CenterX and CenterY are normalized 0..1.
	CenterX, CenterY float64
	// Strength is the fraction of the distance to the center covered.
	Strength float64
	Samples  int

	scratch []Color
}

func (r *RadialBlur) Apply(f *Frame) {
	samples := r.Samples
	if samples <= 1 || r.Strength <= 0 || f.Len() == 0 {
		return
	}
	r.scratch = append(r.scratch[:0], f.Pix...)
	src := &Frame{Width: f.Width, Height: f.Height, Pix: r.scratch}

	cx := r.CenterX * float64(f.Width-1)
	cy := r.CenterY * float64(f.Height-1)
	inv := 1 / float32(samples)

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			dx := (cx - float64(x)) * r.Strength
			dy := (cy - float64(y)) * r.Strength
			var acc Color
			for s := 0; s < samples; s++ {
				t := float64(s) / float64(samples-1)
				c := src.At(int(math.Round(float64(x)+dx*t)), int(math.Round(float64(y)+dy*t)))
				acc.R += c.R
				acc.G += c.G
				acc.B += c.B
			}
			f.Pix[y*f.Width+x] = acc.Scale(inv)
		}
	}
}

// Clamp limits every channel to 0..1.
type Clamp struct{}

func (Clamp) Apply(f *Frame) {
	for i := range f.Pix {
		f.Pix[i].R = clamp01(f.Pix[i].R)
		f.Pix[i].G = clamp01(f.Pix[i].G)
		f.Pix[i].B = clamp01(f.Pix[i].B)
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func powf(x float32, p float64) float32 {
	return float32(math.Pow(float64(x), p))
}

// Approximate ACES filmic curve (Narkowicz 2015).
func acesApprox(x float32) float32 {
	a := float32(2.51)
	b := float32(0.03)
	c := float32(2.43)
	d := float32(0.59)
	e := float32(0.14)
	return clamp01((x * (a*x + b)) / (x*(c*x+d) + e))
}
