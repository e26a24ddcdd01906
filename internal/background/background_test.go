package background

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

func TestRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"calibration", "linear", "radial", "simplex", "solid", "wave"}, r.Names())
	assert.True(t, r.Has("wave"))

	_, err := r.New(Spec{Type: "plasma"})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = r.New(Spec{Type: "solid", Colors: []string{"nope"}})
	assert.ErrorIs(t, err, render.ErrBadColor)

	r.Register("nil", nil)
	assert.False(t, r.Has("nil"))
}

func TestSolid(t *testing.T) {
	bg, err := Default().New(Spec{Type: "solid", Colors: []string{"#ff0000"}})
	require.NoError(t, err)
	assert.Equal(t, "solid", bg.Name())

	f := render.NewFrame(2, 2)
	bg.Render(f, 0)
	for _, c := range f.Pix {
		assert.Equal(t, render.Color{R: 1}, c)
	}

	pulsing, err := Default().New(Spec{Type: "solid", Colors: []string{"#ffffff"}, Speed: 1})
	require.NoError(t, err)
	pulsing.Render(f, 0)
	assert.InDelta(t, 0.5, f.Pix[0].R, 1e-6)
	pulsing.Render(f, 0.25)
	assert.InDelta(t, 1.0, f.Pix[0].R, 1e-6)
}

func TestLinearFollowsAngle(t *testing.T) {
	f := render.NewFrame(4, 1)

	bg, err := Default().New(Spec{Type: "linear", Colors: []string{"#000000", "#ffffff"}})
	require.NoError(t, err)
	bg.Render(f, 0)
	assert.InDelta(t, 0.125, f.Pix[0].R, 1e-6)
	assert.InDelta(t, 0.875, f.Pix[3].R, 1e-6)
	for i := 1; i < 4; i++ {
		assert.Greater(t, f.Pix[i].R, f.Pix[i-1].R)
	}

	rev, err := Default().New(Spec{Type: "linear", Colors: []string{"#000000", "#ffffff"}, Angle: 180})
	require.NoError(t, err)
	rev.Render(f, 0)
	for i := 1; i < 4; i++ {
		assert.Less(t, f.Pix[i].R, f.Pix[i-1].R)
	}
}

func TestLinearMultiStop(t *testing.T) {
	l := &Linear{Stops: []render.Color{{R: 1}, {G: 1}, {B: 1}}}
	assert.Equal(t, render.Color{G: 1}, sample(l.Stops, 0.5))
	assert.Equal(t, render.Color{R: 1}, sample(l.Stops, -1))
	assert.Equal(t, render.Color{B: 1}, sample(l.Stops, 2))
}

func TestRadialCenterToCorner(t *testing.T) {
	bg, err := Default().New(Spec{Type: "radial"})
	require.NoError(t, err)

	f := render.NewFrame(3, 3)
	bg.Render(f, 0)
	assert.Equal(t, render.White, f.At(1, 1))
	assert.Less(t, f.At(0, 0).R, f.At(1, 0).R, "corners are further than edges")
	assert.Less(t, f.At(1, 0).R, float32(1))
}

func TestWave(t *testing.T) {
	bg, err := Default().New(Spec{Type: "wave", Speed: 0.5})
	require.NoError(t, err)

	f := render.NewFrame(8, 1)
	bg.Render(f, 0)
	first := f.Clone()
	bg.Render(f, 0.5)
	assert.NotEqual(t, first.Pix, f.Pix, "wave animates over time")
	bg.Render(f, 2)
	for i := range f.Pix {
		assert.InDelta(t, first.Pix[i].R, f.Pix[i].R, 1e-5, "one full cycle later")
	}

	dark, err := Default().New(Spec{Type: "wave", Colors: []string{"#000"}})
	require.NoError(t, err)
	dark.Render(f, 1)
	assert.Equal(t, render.Black, f.Average())
}

func TestTriangle(t *testing.T) {
	assert.InDelta(t, 0.25, triangle(0.25), 1e-9)
	assert.InDelta(t, 0.75, triangle(1.25), 1e-9)
	assert.InDelta(t, 0.5, triangle(-0.5), 1e-9)
}

func TestCalibrationPanels(t *testing.T) {
	bg, err := Default().New(Spec{Type: "calibration"})
	require.NoError(t, err)
	assert.Equal(t, "calibration", bg.Name())

	f := render.NewFrame(6, 3)
	bg.Render(f, 0)

	bottom := 2
	assert.Equal(t, render.Color{R: 1}, f.At(0, bottom))
	assert.Equal(t, render.Color{G: 1}, f.At(2, bottom))
	assert.Equal(t, render.Color{B: 1}, f.At(4, bottom))
	assert.Equal(t, render.Black, f.At(1, bottom), "panels fade to black on the right")
	for x := 0; x < 6; x++ {
		assert.Equal(t, render.White, f.At(x, 0), "top row is white")
	}

	mid := f.At(0, 1)
	assert.Equal(t, float32(1), mid.R)
	assert.Greater(t, mid.G, float32(0.3))
	assert.Less(t, mid.G, float32(1))
}

func TestCalibrationRotates(t *testing.T) {
	bg, err := Default().New(Spec{Type: "calibration", Speed: 1})
	require.NoError(t, err)

	f := render.NewFrame(6, 3)
	bg.Render(f, 1)
	assert.Equal(t, render.Color{G: 1}, f.At(0, 2))
	bg.Render(f, -1)
	assert.Equal(t, render.Color{B: 1}, f.At(0, 2))
}

func TestSimplexIsSeeded(t *testing.T) {
	render1 := func(seed int64, at float64) *render.Frame {
		bg, err := Default().New(Spec{Type: "simplex", Colors: []string{"#000000", "#ffffff"}, Speed: 0.5, Seed: seed})
		require.NoError(t, err)
		f := render.NewFrame(8, 4)
		bg.Render(f, at)
		return f
	}

	a, b := render1(3, 0), render1(3, 0)
	assert.Equal(t, a.Pix, b.Pix)
	assert.NotEqual(t, a.Pix, render1(4, 0).Pix)
	assert.NotEqual(t, a.Pix, render1(3, 2).Pix, "speed drifts the field over time")

	for _, c := range a.Pix {
		assert.Equal(t, c.R, c.G)
		assert.GreaterOrEqual(t, c.R, float32(0))
		assert.LessOrEqual(t, c.R, float32(1))
	}
}

func TestSimplexDefaults(t *testing.T) {
	bg, err := Default().New(Spec{Type: "simplex"})
	require.NoError(t, err)
	s := bg.(*Simplex)
	assert.Equal(t, "simplex", s.Name())
	assert.Equal(t, defaultNoiseScale, s.Scale)
	assert.Equal(t, []render.Color{{R: 1}, {B: 1}}, s.Stops)

	s.Render(render.NewFrame(0, 0), 0)
}
