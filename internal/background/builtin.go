package background

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

// Solid fills with one color. A positive Speed pulses brightness at that
// many Hz.
type Solid struct {
	Color   render.Color
	PulseHz float64
}

func newSolid(s Spec) (Background, error) {
	cs, err := parseColors(s.Colors, 1)
	if err != nil {
		return nil, err
	}
	return &Solid{Color: cs[0], PulseHz: s.Speed}, nil
}

func (s *Solid) Name() string { return "solid" }

func (s *Solid) Render(dst *render.Frame, t float64) {
	c := s.Color
	if s.PulseHz > 0 {
		c = c.Scale(float32(0.5 + 0.5*math.Sin(2*math.Pi*s.PulseHz*t)))
	}
	dst.Fill(c)
}

// Linear is a multi-stop gradient along Angle. Speed scrolls it, in
// gradient lengths per second.
type Linear struct {
	Stops []render.Color
	Angle float64
	Speed float64
}

func newLinear(s Spec) (Background, error) {
	cs, err := parseColors(s.Colors, 2, render.Black, render.White)
	if err != nil {
		return nil, err
	}
	return &Linear{Stops: cs, Angle: s.Angle, Speed: s.Speed}, nil
}

func (l *Linear) Name() string { return "linear" }

func (l *Linear) Render(dst *render.Frame, t float64) {
	rad := mgl64.DegToRad(l.Angle)
	dir := mgl64.Vec2{math.Cos(rad), math.Sin(rad)}
	center := mgl64.Vec2{0.5, 0.5}
	// half the projected extent of the unit square
	half := (math.Abs(dir.X()) + math.Abs(dir.Y())) / 2
	offset := l.Speed * t

	eachUV(dst, func(i int, uv mgl64.Vec2) {
		d := uv.Sub(center).Dot(dir)
		u := (d + half) / (2 * half)
		if offset != 0 {
			u = triangle(u + offset)
		}
		dst.Pix[i] = sample(l.Stops, u)
	})
}

// Radial runs from the first stop at the center to the last at the
// corners. Speed breathes the radius, in Hz.
type Radial struct {
	Stops []render.Color
	Speed float64
}

func newRadial(s Spec) (Background, error) {
	cs, err := parseColors(s.Colors, 2, render.White, render.Black)
	if err != nil {
		return nil, err
	}
	return &Radial{Stops: cs, Speed: s.Speed}, nil
}

func (r *Radial) Name() string { return "radial" }

func (r *Radial) Render(dst *render.Frame, t float64) {
	center := mgl64.Vec2{0.5, 0.5}
	maxR := center.Len()
	if r.Speed > 0 {
		maxR *= 0.75 + 0.25*math.Sin(2*math.Pi*r.Speed*t)
	}
	eachUV(dst, func(i int, uv mgl64.Vec2) {
		dst.Pix[i] = sample(r.Stops, mgl64.Clamp(uv.Sub(center).Len()/maxR, 0, 1))
	})
}

// Wave is a rotating RGB phase pattern across x. Speed is in cycles per
// second.
type Wave struct {
	Speed float64
	Tint  render.Color
}

func newWave(s Spec) (Background, error) {
	cs, err := parseColors(s.Colors, 1, render.White)
	if err != nil {
		return nil, err
	}
	return &Wave{Speed: s.Speed, Tint: cs[0]}, nil
}

func (w *Wave) Name() string { return "wave" }

func (w *Wave) Render(dst *render.Frame, t float64) {
	eachUV(dst, func(i int, uv mgl64.Vec2) {
		phase := uv.X()*2*math.Pi + t*2*math.Pi*w.Speed
		dst.Pix[i] = render.Color{
			R: w.Tint.R * float32(0.5+0.5*math.Sin(phase)),
			G: w.Tint.G * float32(0.5+0.5*math.Sin(phase+2*math.Pi/3)),
			B: w.Tint.B * float32(0.5+0.5*math.Sin(phase+4*math.Pi/3)),
		}
	})
}

// eachUV visits every pixel with its normalized center coordinate.
func eachUV(f *render.Frame, fn func(i int, uv mgl64.Vec2)) {
	if f.Width == 0 || f.Height == 0 {
		return
	}
	w, h := float64(f.Width), float64(f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			fn(y*f.Width+x, mgl64.Vec2{(float64(x) + 0.5) / w, (float64(y) + 0.5) / h})
		}
	}
}

// triangle folds v into a 0..1..0 ramp so scrolling gradients stay seamless.
func triangle(v float64) float64 {
	v = math.Mod(v, 2)
	if v < 0 {
		v += 2
	}
	if v > 1 {
		return 2 - v
	}
	return v
}
