package background

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/ojrac/opensimplex-go"

	"github.com/coreman2200/funtimes-sketchpad/internal/random"
	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

const defaultNoiseScale = 1.5

// Simplex maps a normalized 3D noise field onto evenly spaced color stops.
// The third axis is time: Speed drifts through it in units per second, and
// Offset shifts the starting slice.
type Simplex struct {
	Stops  []render.Color
	Scale  float64
	Speed  float64
	Offset float64

	noise opensimplex.Noise
}

func newSimplex(s Spec) (Background, error) {
	cs, err := parseColors(s.Colors, 2, render.Color{R: 1}, render.Color{B: 1})
	if err != nil {
		return nil, err
	}
	return NewSimplex(cs, s.Scale, s.Speed, s.Seed), nil
}

// NewSimplex seeds the noise field and its starting offset from seed.
func NewSimplex(stops []render.Color, scale, speed float64, seed int64) *Simplex {
	if scale <= 0 {
		scale = defaultNoiseScale
	}
	rnd := random.New(seed)
	return &Simplex{
		Stops:  stops,
		Scale:  scale,
		Speed:  speed,
		Offset: rnd.Number(0, 100),
		noise:  opensimplex.NewNormalized(rnd.Int63()),
	}
}

func (s *Simplex) Name() string { return "simplex" }

func (s *Simplex) Render(dst *render.Frame, t float64) {
	if dst.Height == 0 {
		return
	}
	// keep features round on non-square canvases
	aspect := math.Sqrt(float64(dst.Width) / float64(dst.Height))
	sx, sy := s.Scale*aspect, s.Scale/aspect
	z := s.Offset + s.Speed*t
	eachUV(dst, func(i int, uv mgl64.Vec2) {
		n := s.noise.Eval3(uv.X()*sx, uv.Y()*sy, z)
		dst.Pix[i] = sample(s.Stops, mgl64.Clamp(n, 0, 1))
	})
}
